package display

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
)

// ProgressIndicator reports file pair comparisons as they finish.
// Step is safe to call from concurrent comparisons.
type ProgressIndicator struct {
	writer  io.Writer
	total   int
	current int
	failed  int
	colored bool
	mu      sync.Mutex
}

// NewProgressIndicator creates a progress indicator for total file pairs
func NewProgressIndicator(w io.Writer, total int) *ProgressIndicator {
	return &ProgressIndicator{
		writer:  w,
		total:   total,
		colored: IsTerminal(w),
	}
}

// Start displays the header message
func (p *ProgressIndicator) Start() {
	fmt.Fprintf(p.writer, "Comparing %d case file %s:\n", p.total, plural(p.total, "pair", "pairs"))
}

// Step records one finished pair: "  [N/Total] name ✓" (or ✗ when it failed)
func (p *ProgressIndicator) Step(name string, passed bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.current++
	mark := painter(p.colored, color.FgGreen).Sprint("✓")
	if !passed {
		p.failed++
		mark = painter(p.colored, color.FgRed).Sprint("✗")
	}
	line := painter(p.colored, color.FgCyan).Sprintf("  [%d/%d] %s", p.current, p.total, name)
	fmt.Fprintf(p.writer, "%s %s\n", line, mark)
}

// Failed returns the number of failed pairs reported so far
func (p *ProgressIndicator) Failed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}

// Complete displays the closing line
func (p *ProgressIndicator) Complete() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failed == 0 {
		fmt.Fprintf(p.writer, "%s Compared %d case file %s\n",
			painter(p.colored, color.FgGreen).Sprint("✓"), p.total, plural(p.total, "pair", "pairs"))
		return
	}
	fmt.Fprintf(p.writer, "%s %d of %d case file %s failed\n",
		painter(p.colored, color.FgRed).Sprint("✗"), p.failed, p.total, plural(p.total, "pair", "pairs"))
}

// DisplaySingleFile shows the loading message for a single comparison
func DisplaySingleFile(w io.Writer, expected, actual string) {
	fmt.Fprintf(w, "Comparing %s against %s...\n", expected, actual)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
