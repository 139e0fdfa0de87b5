package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/harrison/featverify/internal/config"
	"github.com/harrison/featverify/internal/models"
	"github.com/harrison/featverify/internal/parser"
	"github.com/stretchr/testify/require"
)

// testEnv isolates a command test: FEATVERIFY_* cleared, history and logs
// under a temp dir, config file written to cfgPath
type testEnv struct {
	dir     string
	cfgPath string
	dbPath  string
	logDir  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	for _, key := range []string{
		config.ExpectedEnvVar, config.ActualEnvVar, config.RepoEnvVar, config.OutputEnvVar,
	} {
		t.Setenv(key, "")
	}

	dir := t.TempDir()
	env := &testEnv{
		dir:     dir,
		cfgPath: filepath.Join(dir, "config.yaml"),
		dbPath:  filepath.Join(dir, "home", "history", "runs.db"),
		logDir:  filepath.Join(dir, "logs"),
	}
	t.Setenv(config.HomeEnvVar, filepath.Join(dir, "home"))
	env.writeConfig(t, "")
	return env
}

// writeConfig writes a config pointing history and logs at the temp dir,
// followed by extra YAML lines
func (e *testEnv) writeConfig(t *testing.T, extra string) {
	t.Helper()
	content := fmt.Sprintf("log_dir: %s\nhistory:\n  enabled: true\n  db_path: %s\n  keep_runs: 50\n%s",
		e.logDir, e.dbPath, extra)
	require.NoError(t, os.WriteFile(e.cfgPath, []byte(content), 0644))
}

func (e *testEnv) path(parts ...string) string {
	return filepath.Join(append([]string{e.dir}, parts...)...)
}

// executeCommand runs the root command with args and returns stdout, stderr
func executeCommand(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	rootCmd := NewRootCommand()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func serverCase(name string, roots, resolved []string) *models.VerifyCase {
	c := models.NewVerifyCase(name, "")
	c.Input.Process = models.ProcessServer
	c.Input.Kernel = []string{"com.ibm.websphere.appserver.kernel-1.0"}
	c.Input.Roots = roots
	c.Output.Resolved = resolved
	return c
}

func writeCases(t *testing.T, path string, cases ...*models.VerifyCase) string {
	t.Helper()
	data := models.NewVerifyData("")
	for _, c := range cases {
		data.AddCase(c)
	}
	require.NoError(t, parser.WriteFile(path, data))
	return path
}

const repoXML = `<?xml version="1.0" encoding="UTF-8"?>
<features>
    <feature>
        <name>servlet-4.0</name>
        <visibility>public</visibility>
        <kind>ga</kind>
    </feature>
    <feature>
        <name>jsp-2.3</name>
        <visibility>public</visibility>
        <kind>beta</kind>
    </feature>
</features>
`
