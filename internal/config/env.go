package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by LoadEnv
const (
	ExpectedEnvVar = "FEATVERIFY_EXPECTED"
	ActualEnvVar   = "FEATVERIFY_ACTUAL"
	RepoEnvVar     = "FEATVERIFY_REPO"
	OutputEnvVar   = "FEATVERIFY_OUTPUT"
)

// VerifyEnv holds the paths a test harness hands to featverify through the
// environment. Empty fields were not set.
type VerifyEnv struct {
	Expected string
	Actual   string
	Repo     string
	Output   string
	Home     string
}

// LoadEnv reads a .env file from the working directory if one exists, then
// collects the FEATVERIFY_* variables. Variables already set in the process
// environment win over the .env file.
func LoadEnv(files ...string) VerifyEnv {
	_ = godotenv.Load(files...)

	return VerifyEnv{
		Expected: getenv(ExpectedEnvVar),
		Actual:   getenv(ActualEnvVar),
		Repo:     getenv(RepoEnvVar),
		Output:   getenv(OutputEnvVar),
		Home:     getenv(HomeEnvVar),
	}
}

// HasPair reports whether both the expected and actual paths are set
func (e VerifyEnv) HasPair() bool {
	return e.Expected != "" && e.Actual != ""
}

func getenv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
