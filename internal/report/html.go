package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const htmlHeader = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Verification Report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #ccc; padding: 4px 8px; }
code { background: #f4f4f4; }
</style>
</head>
<body>
`

const htmlFooter = `</body>
</html>
`

// HTMLRenderer converts the Markdown report to a standalone HTML page
type HTMLRenderer struct {
	markdown goldmark.Markdown
}

// NewHTMLRenderer creates an HTMLRenderer with GFM tables enabled
func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{
		markdown: goldmark.New(goldmark.WithExtensions(extension.Table)),
	}
}

// Render writes the report as HTML
func (h *HTMLRenderer) Render(w io.Writer, r *Report) error {
	var md bytes.Buffer
	if err := (&MarkdownRenderer{}).Render(&md, r); err != nil {
		return err
	}

	var body bytes.Buffer
	if err := h.markdown.Convert(md.Bytes(), &body); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}

	if _, err := io.WriteString(w, htmlHeader); err != nil {
		return err
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return err
	}
	_, err := io.WriteString(w, htmlFooter)
	return err
}
