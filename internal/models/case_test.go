package models

import (
	"testing"
	"time"
)

func TestParseProcessType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ProcessType
		wantErr bool
	}{
		{name: "empty", input: "", want: ProcessUnspecified},
		{name: "client", input: "client", want: ProcessClient},
		{name: "server mixed case", input: " Server ", want: ProcessServer},
		{name: "invalid", input: "both", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseProcessType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseProcessType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseProcessType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestVerifyInput_ProcessHelpers(t *testing.T) {
	in := VerifyInput{Process: ProcessServer}
	if !in.IsServer() || in.IsClient() {
		t.Errorf("server input: IsServer=%v IsClient=%v", in.IsServer(), in.IsClient())
	}

	in.Process = ProcessClient
	if in.IsServer() || !in.IsClient() {
		t.Errorf("client input: IsServer=%v IsClient=%v", in.IsServer(), in.IsClient())
	}
}

func TestVerifyCase_CopyWithResolved(t *testing.T) {
	original := NewVerifyCase("s1", "servlet on server")
	original.Duration = time.Second
	original.Input.Multiple = true
	original.Input.Process = ProcessServer
	original.Input.AddKernel("kernel-1.0")
	original.Input.AddRoot("servlet-4.0")
	original.Output.AddResolved("old-1.0")
	original.Output.KernelOnly = []string{"kernel-only-1.0"}

	resolved := []string{"servlet-4.0", "jsp-2.3"}
	copied := original.CopyWithResolved(resolved, 5*time.Millisecond)

	if copied.Name != "s1" || copied.Description != "servlet on server" {
		t.Errorf("name/description not copied: %q %q", copied.Name, copied.Description)
	}
	if copied.Duration != 5*time.Millisecond {
		t.Errorf("Duration = %v, want 5ms", copied.Duration)
	}
	if !copied.Input.Multiple || !copied.Input.IsServer() {
		t.Errorf("input flags not copied: %+v", copied.Input)
	}
	if len(copied.Output.Resolved) != 2 || copied.Output.Resolved[1] != "jsp-2.3" {
		t.Errorf("Resolved = %v, want %v", copied.Output.Resolved, resolved)
	}
	if len(copied.Output.KernelOnly) != 0 {
		t.Errorf("KernelOnly should not be carried over, got %v", copied.Output.KernelOnly)
	}
	if copied.Key() != original.Key() {
		t.Errorf("copy key %q differs from original %q", copied.Key(), original.Key())
	}

	// Copies must not alias the source slices
	resolved[0] = "changed"
	copied.Input.Kernel[0] = "changed"
	if copied.Output.Resolved[0] != "servlet-4.0" {
		t.Error("copy aliases the resolved argument")
	}
	if original.Input.Kernel[0] != "kernel-1.0" {
		t.Error("copy aliases the original kernel list")
	}
}

func TestVerifyCase_CopyWithOutput(t *testing.T) {
	original := NewVerifyCase("s1", "")
	original.Input.AddKernel("kernel-1.0")
	original.Output.AddResolved("old-1.0")
	original.Output.KernelOnly = []string{"old-only-1.0"}

	live := VerifyOutput{
		Resolved:      []string{"servlet-4.0"},
		KernelOnly:    []string{"kernel-only-1.0"},
		KernelBlocked: []string{"blocked-1.0"},
	}
	copied := original.CopyWithOutput(live, time.Millisecond)

	if len(copied.Output.Resolved) != 1 || copied.Output.Resolved[0] != "servlet-4.0" {
		t.Errorf("Resolved = %v, want [servlet-4.0]", copied.Output.Resolved)
	}
	if len(copied.Output.KernelOnly) != 1 || copied.Output.KernelOnly[0] != "kernel-only-1.0" {
		t.Errorf("KernelOnly = %v, want [kernel-only-1.0]", copied.Output.KernelOnly)
	}
	if len(copied.Output.KernelBlocked) != 1 || copied.Output.KernelBlocked[0] != "blocked-1.0" {
		t.Errorf("KernelBlocked = %v, want [blocked-1.0]", copied.Output.KernelBlocked)
	}

	live.KernelBlocked[0] = "changed"
	if copied.Output.KernelBlocked[0] != "blocked-1.0" {
		t.Error("copy aliases the output argument")
	}
}

func TestVerifyCase_Clone(t *testing.T) {
	original := NewVerifyCase("s1", "desc")
	original.Duration = time.Second
	original.Input.Process = ProcessClient
	original.Input.AddRoot("servlet-4.0")
	original.Output.AddResolved("servlet-4.0")
	original.Output.KernelOnly = []string{"ko-1.0"}
	original.Output.KernelBlocked = []string{"kb-1.0"}

	clone := original.Clone()
	if clone == original {
		t.Fatal("Clone returned the same pointer")
	}
	if clone.Description != "desc" || clone.Duration != time.Second || clone.Key() != original.Key() {
		t.Errorf("clone differs: %+v", clone)
	}
	if len(clone.Output.KernelOnly) != 1 || len(clone.Output.KernelBlocked) != 1 {
		t.Errorf("kernel lists not cloned: %+v", clone.Output)
	}

	clone.Output.KernelOnly[0] = "changed"
	if original.Output.KernelOnly[0] != "ko-1.0" {
		t.Error("clone aliases the original kernel-only list")
	}
}
