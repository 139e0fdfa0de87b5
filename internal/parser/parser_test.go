package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/harrison/featverify/internal/models"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
	}{
		{"cases.xml", FormatXML},
		{"CASES.XML", FormatXML},
		{"cases.yaml", FormatYAML},
		{"cases.yml", FormatYAML},
		{"cases.json", FormatUnknown},
		{"cases", FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := DetectFormat(tt.filename); got != tt.want {
				t.Errorf("DetectFormat(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestParseFile_XML(t *testing.T) {
	data, err := ParseFile(filepath.Join("testdata", "expected.xml"))
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}

	if data.Name != "expected.xml" {
		t.Errorf("Name = %q, want file base name", data.Name)
	}
	if data.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", data.Len())
	}

	first := data.Cases[0]
	if first.Name != "servlet on server" {
		t.Errorf("Name = %q", first.Name)
	}
	if first.Duration != 1500*time.Nanosecond {
		t.Errorf("Duration = %v, want 1.5µs", first.Duration)
	}
	if !first.Input.IsServer() || first.Input.Multiple {
		t.Errorf("Input flags = %+v", first.Input)
	}
	if len(first.Input.Kernel) != 2 || first.Input.Kernel[1] != "com.ibm.websphere.appserver.logging-1.0" {
		t.Errorf("Kernel = %v", first.Input.Kernel)
	}
	if len(first.Output.Resolved) != 2 || first.Output.Resolved[0] != "servlet-4.0" {
		t.Errorf("Resolved = %v", first.Output.Resolved)
	}
	if len(first.Output.KernelOnly) != 1 {
		t.Errorf("KernelOnly = %v", first.Output.KernelOnly)
	}

	second := data.Cases[1]
	if !second.Input.Multiple || !second.Input.IsClient() {
		t.Errorf("second Input flags = %+v", second.Input)
	}
	if second.Duration != 0 {
		t.Errorf("missing duration should be zero, got %v", second.Duration)
	}
	if got := second.Key(); got != "Multiple Process:client Kernel Roots:appClientSupport-1.0" {
		t.Errorf("Key() = %q", got)
	}
}

func TestParseFile_YAML(t *testing.T) {
	data, err := ParseFile(filepath.Join("testdata", "expected.yaml"))
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}

	if data.Name != "yaml-cases" {
		t.Errorf("Name = %q, want name from document", data.Name)
	}
	if data.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", data.Len())
	}
	if data.Cases[0].Duration != 1500*time.Microsecond {
		t.Errorf("Duration = %v", data.Cases[0].Duration)
	}
	if !data.Cases[0].Input.IsServer() {
		t.Error("first case should be a server case")
	}
	if data.Cases[1].Input.Process != models.ProcessUnspecified {
		t.Errorf("Process = %v, want unspecified", data.Cases[1].Input.Process)
	}
}

func TestParseFile_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	unknown := filepath.Join(tmpDir, "cases.txt")
	os.WriteFile(unknown, []byte("x"), 0644)
	if _, err := ParseFile(unknown); err == nil || !strings.Contains(err.Error(), "unknown file format") {
		t.Errorf("expected unknown format error, got %v", err)
	}

	if _, err := ParseFile(filepath.Join(tmpDir, "missing.xml")); err == nil {
		t.Error("expected error for missing file")
	}

	malformed := filepath.Join(tmpDir, "bad.xml")
	os.WriteFile(malformed, []byte("<cases><case>"), 0644)
	if _, err := ParseFile(malformed); err == nil {
		t.Error("expected error for malformed XML")
	}

	badProcess := filepath.Join(tmpDir, "bad.yaml")
	os.WriteFile(badProcess, []byte("cases:\n  - name: x\n    input:\n      process: both\n"), 0644)
	if _, err := ParseFile(badProcess); err == nil {
		t.Error("expected error for invalid process type")
	}
}

func TestXMLParser_ClientAndServerRejected(t *testing.T) {
	doc := `<cases><case><name>both</name><input><client/><server/></input></case></cases>`

	_, err := NewXMLParser().Parse(strings.NewReader(doc))
	if err == nil {
		t.Fatal("expected error for case with both client and server")
	}
	if !strings.Contains(err.Error(), "both") {
		t.Errorf("error should name the case, got %v", err)
	}
}

func TestWriteFile_RoundTrip(t *testing.T) {
	original, err := ParseFile(filepath.Join("testdata", "expected.xml"))
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}

	for _, name := range []string{"out.xml", "out.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			if err := WriteFile(path, original); err != nil {
				t.Fatalf("WriteFile() error = %v", err)
			}

			reread, err := ParseFile(path)
			if err != nil {
				t.Fatalf("ParseFile() error = %v", err)
			}
			if reread.Len() != original.Len() {
				t.Fatalf("Len() = %d, want %d", reread.Len(), original.Len())
			}
			for i := range original.Cases {
				if reread.Cases[i].Key() != original.Cases[i].Key() {
					t.Errorf("case %d key = %q, want %q", i, reread.Cases[i].Key(), original.Cases[i].Key())
				}
				if reread.Cases[i].Duration != original.Cases[i].Duration {
					t.Errorf("case %d duration = %v, want %v", i, reread.Cases[i].Duration, original.Cases[i].Duration)
				}
			}
		})
	}
}

func TestWriteFile_UnknownFormat(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "out.json"), models.NewVerifyData("x"))
	if err == nil {
		t.Error("expected error for unknown output format")
	}
}
