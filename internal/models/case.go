package models

import (
	"fmt"
	"strings"
	"time"
)

// ProcessType identifies which kind of process a case resolves features for.
type ProcessType int

const (
	// ProcessUnspecified means neither client nor server was declared
	ProcessUnspecified ProcessType = iota
	// ProcessClient represents a client process
	ProcessClient
	// ProcessServer represents a server process
	ProcessServer
)

// String returns the lowercase name used in case files and case keys
func (p ProcessType) String() string {
	switch p {
	case ProcessClient:
		return "client"
	case ProcessServer:
		return "server"
	default:
		return ""
	}
}

// ParseProcessType converts "client", "server" or "" into a ProcessType
func ParseProcessType(s string) (ProcessType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ProcessUnspecified, nil
	case "client":
		return ProcessClient, nil
	case "server":
		return ProcessServer, nil
	default:
		return ProcessUnspecified, fmt.Errorf("invalid process type %q (must be client or server)", s)
	}
}

// VerifyInput holds the parameters of one resolution scenario
type VerifyInput struct {
	Multiple bool        // Multi-server scenario
	Process  ProcessType // Client, server or unspecified
	Kernel   []string    // Kernel features, in declared order
	Roots    []string    // Requested root features, in declared order
}

// IsClient reports whether the case resolves for a client process
func (in *VerifyInput) IsClient() bool {
	return in.Process == ProcessClient
}

// IsServer reports whether the case resolves for a server process
func (in *VerifyInput) IsServer() bool {
	return in.Process == ProcessServer
}

// AddKernel appends a kernel feature
func (in *VerifyInput) AddKernel(name string) {
	in.Kernel = append(in.Kernel, name)
}

// AddRoot appends a root feature
func (in *VerifyInput) AddRoot(name string) {
	in.Roots = append(in.Roots, name)
}

// VerifyOutput holds the results of one resolution scenario
type VerifyOutput struct {
	Resolved      []string // Full resolved closure, order significant
	KernelOnly    []string // Features resolved only because of the kernel
	KernelBlocked []string // Features blocked by the kernel
}

// AddResolved appends a resolved feature
func (out *VerifyOutput) AddResolved(name string) {
	out.Resolved = append(out.Resolved, name)
}

// VerifyCase is one feature resolution test scenario
type VerifyCase struct {
	Name        string
	Description string
	Duration    time.Duration
	Input       VerifyInput
	Output      VerifyOutput
}

// NewVerifyCase creates an empty case with the given name and description
func NewVerifyCase(name, description string) *VerifyCase {
	return &VerifyCase{
		Name:        name,
		Description: description,
	}
}

// CopyWithResolved returns a copy of the case whose resolved list is replaced
// by resolved. Used when re-running resolution with live data. The copy shares
// no slices with c.
func (c *VerifyCase) CopyWithResolved(resolved []string, duration time.Duration) *VerifyCase {
	return &VerifyCase{
		Name:        c.Name,
		Description: c.Description,
		Duration:    duration,
		Input: VerifyInput{
			Multiple: c.Input.Multiple,
			Process:  c.Input.Process,
			Kernel:   cloneStrings(c.Input.Kernel),
			Roots:    cloneStrings(c.Input.Roots),
		},
		Output: VerifyOutput{
			Resolved: cloneStrings(resolved),
		},
	}
}

// CopyWithOutput returns a copy of the case whose whole output, including the
// kernel-only and kernel-blocked lists, is replaced by out.
func (c *VerifyCase) CopyWithOutput(out VerifyOutput, duration time.Duration) *VerifyCase {
	copied := c.CopyWithResolved(out.Resolved, duration)
	copied.Output.KernelOnly = cloneStrings(out.KernelOnly)
	copied.Output.KernelBlocked = cloneStrings(out.KernelBlocked)
	return copied
}

// Clone returns a deep copy of the case
func (c *VerifyCase) Clone() *VerifyCase {
	return c.CopyWithOutput(c.Output, c.Duration)
}

// Key returns the case key, see CaseKey
func (c *VerifyCase) Key() string {
	return CaseKey(c)
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
