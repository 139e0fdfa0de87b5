package models

import "strings"

// Case key segment literals
const (
	keyMultiple = "Multiple"
	keyProcess  = "Process"
	keyKernel   = "Kernel"
	keyRoots    = "Roots"
)

// CaseKey derives the canonical key used to match an expected case with an
// actual case. The key encodes the multiple flag, the process type and the
// kernel and root lists in their declared order, so two cases only share a
// key when their inputs are identical element by element.
//
// Format: [Multiple ]Process[:client|:server] Kernel[:k1:k2...] Roots[:r1:r2...]
func CaseKey(c *VerifyCase) string {
	var segments []string

	if c.Input.Multiple {
		segments = append(segments, keyMultiple)
	}

	process := keyProcess
	if p := c.Input.Process.String(); p != "" {
		process += ":" + p
	}
	segments = append(segments, process)
	segments = append(segments, joinSegment(keyKernel, c.Input.Kernel))
	segments = append(segments, joinSegment(keyRoots, c.Input.Roots))

	return strings.Join(segments, " ")
}

func joinSegment(prefix string, names []string) string {
	if len(names) == 0 {
		return prefix
	}
	return prefix + ":" + strings.Join(names, ":")
}

// VerifyData is a named, ordered collection of cases
type VerifyData struct {
	Name  string
	Cases []*VerifyCase
}

// NewVerifyData creates an empty collection
func NewVerifyData(name string) *VerifyData {
	return &VerifyData{Name: name}
}

// AddCase appends a case to the collection
func (d *VerifyData) AddCase(c *VerifyCase) {
	d.Cases = append(d.Cases, c)
}

// Len returns the number of cases
func (d *VerifyData) Len() int {
	return len(d.Cases)
}

// KeyedCases maps case keys to cases in case order.
// A later case with the same key replaces the earlier one.
func (d *VerifyData) KeyedCases() *OrderedMap[string, *VerifyCase] {
	keyed, _ := d.KeyedCasesWithDuplicates()
	return keyed
}

// KeyedCasesWithDuplicates is KeyedCases plus the keys that were overwritten,
// once per overwrite, in the order the overwrites happened.
func (d *VerifyData) KeyedCasesWithDuplicates() (*OrderedMap[string, *VerifyCase], []string) {
	keyed := NewOrderedMap[string, *VerifyCase]()
	var duplicates []string

	for _, c := range d.Cases {
		key := CaseKey(c)
		if keyed.Set(key, c) {
			duplicates = append(duplicates, key)
		}
	}

	return keyed, duplicates
}
