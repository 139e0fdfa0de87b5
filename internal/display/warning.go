package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
}

// Display writes the warning, in yellow when out is a terminal
func (w Warning) Display(out io.Writer) {
	w.render(out, IsTerminal(out))
}

func (w Warning) render(out io.Writer, colored bool) {
	var b strings.Builder

	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		fmt.Fprintf(&b, "    Affected %s:\n", plural(len(w.Files), "file", "files"))
		for i, file := range w.Files {
			fmt.Fprintf(&b, "      %d. %s\n", i+1, file)
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	fmt.Fprint(out, painter(colored, color.FgYellow).Sprint(b.String()))
}

// WarnUnpairedFiles creates a warning for case files that exist on only one
// side of a directory comparison
func WarnUnpairedFiles(side string, files []string) Warning {
	return Warning{
		Title:      fmt.Sprintf("Case files only in %s", side),
		Message:    "These files were not compared.",
		Files:      files,
		Suggestion: "Regenerate the missing files or remove the stale ones",
	}
}
