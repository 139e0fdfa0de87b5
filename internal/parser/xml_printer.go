package parser

import (
	"bufio"
	"io"
	"strings"
)

const (
	xmlHeader  = `<?xml version="1.0" encoding="UTF-8"?>`
	indentUnit = "    "
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// xmlPrinter writes line oriented XML, one element per line, indented four
// spaces per nesting level. The first write error is kept and every later
// call becomes a no-op.
type xmlPrinter struct {
	w     *bufio.Writer
	depth int
	err   error
}

func newXMLPrinter(w io.Writer) *xmlPrinter {
	return &xmlPrinter{w: bufio.NewWriter(w)}
}

func (p *xmlPrinter) line(s string) {
	if p.err != nil {
		return
	}
	if _, err := p.w.WriteString(strings.Repeat(indentUnit, p.depth) + s + "\n"); err != nil {
		p.err = err
	}
}

func (p *xmlPrinter) header() {
	p.line(xmlHeader)
}

func (p *xmlPrinter) open(name string) {
	p.line("<" + name + ">")
	p.depth++
}

func (p *xmlPrinter) close(name string) {
	p.depth--
	p.line("</" + name + ">")
}

// empty writes <name/>
func (p *xmlPrinter) empty(name string) {
	p.line("<" + name + "/>")
}

// element writes <name>text</name> with text escaped
func (p *xmlPrinter) element(name, text string) {
	p.line("<" + name + ">" + xmlEscaper.Replace(text) + "</" + name + ">")
}

// elements writes one element per value
func (p *xmlPrinter) elements(name string, values []string) {
	for _, v := range values {
		p.element(name, v)
	}
}

// flush returns the first error seen
func (p *xmlPrinter) flush() error {
	if p.err != nil {
		return p.err
	}
	return p.w.Flush()
}
