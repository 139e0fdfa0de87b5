package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// TextRenderer writes an indented plain text report, colored when Color is set
type TextRenderer struct {
	Color bool
}

func (t *TextRenderer) paint(s string, attrs ...color.Attribute) string {
	c := color.New(attrs...)
	if t.Color {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

// Render writes the report
func (t *TextRenderer) Render(w io.Writer, r *Report) error {
	var b strings.Builder

	for _, res := range r.Results {
		result := t.paint(status(res.Passed()), color.FgGreen, color.Bold)
		if !res.Passed() {
			result = t.paint(status(false), color.FgRed, color.Bold)
		}
		fmt.Fprintf(&b, "== %s: %s (expected %d cases, actual %d cases)\n",
			res.Name, result, res.Summary.ExpectedCases, res.Summary.ActualCases)

		errors, warnings := groupFindings(res.Findings)
		t.writeGroups(&b, "Errors", errors, color.FgRed)
		t.writeGroups(&b, "Warnings", warnings, color.FgYellow)
	}

	fmt.Fprintf(&b, "Total: %d error(s), %d warning(s) across %d file(s)\n",
		r.Errors(), r.Warnings(), len(r.Results))

	_, err := io.WriteString(w, b.String())
	return err
}

func (t *TextRenderer) writeGroups(b *strings.Builder, title string, groups []caseGroup, attr color.Attribute) {
	if len(groups) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", t.paint(title, attr))
	for _, g := range groups {
		fmt.Fprintf(b, "  [%s]\n", g.key)
		for _, msg := range g.messages {
			fmt.Fprintf(b, "    %s\n", msg)
		}
	}
}
