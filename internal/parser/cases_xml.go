package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/harrison/featverify/internal/models"
)

// Case file element names
const (
	xmlCases         = "cases"
	xmlCase          = "case"
	xmlName          = "name"
	xmlDescription   = "description"
	xmlDuration      = "duration"
	xmlInput         = "input"
	xmlMultiple      = "multiple"
	xmlClient        = "client"
	xmlServer        = "server"
	xmlKernel        = "kernel"
	xmlRoot          = "root"
	xmlOutput        = "output"
	xmlResolved      = "resolved"
	xmlKernelOnly    = "kernelOnly"
	xmlKernelBlocked = "kernelBlocked"
)

type xmlCasesDoc struct {
	XMLName xml.Name      `xml:"cases"`
	Cases   []xmlCaseElem `xml:"case"`
}

type xmlCaseElem struct {
	Name        string        `xml:"name"`
	Description string        `xml:"description"`
	Duration    string        `xml:"duration"`
	Input       xmlInputElem  `xml:"input"`
	Output      xmlOutputElem `xml:"output"`
}

type xmlInputElem struct {
	Multiple *struct{} `xml:"multiple"`
	Client   *struct{} `xml:"client"`
	Server   *struct{} `xml:"server"`
	Kernel   []string  `xml:"kernel"`
	Roots    []string  `xml:"root"`
}

type xmlOutputElem struct {
	Resolved      []string `xml:"resolved"`
	KernelOnly    []string `xml:"kernelOnly"`
	KernelBlocked []string `xml:"kernelBlocked"`
}

// XMLParser reads <cases> documents
type XMLParser struct{}

// NewXMLParser creates a new XMLParser
func NewXMLParser() *XMLParser {
	return &XMLParser{}
}

// Parse decodes a <cases> document. Element text is trimmed; unknown elements
// are ignored. A case declaring both <client/> and <server/> is rejected.
func (p *XMLParser) Parse(r io.Reader) (*models.VerifyData, error) {
	var doc xmlCasesDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode XML: %w", err)
	}

	data := models.NewVerifyData("")
	for i, elem := range doc.Cases {
		c, err := elem.toCase()
		if err != nil {
			return nil, fmt.Errorf("case %d (%s): %w", i+1, strings.TrimSpace(elem.Name), err)
		}
		data.AddCase(c)
	}

	return data, nil
}

func (e xmlCaseElem) toCase() (*models.VerifyCase, error) {
	c := models.NewVerifyCase(strings.TrimSpace(e.Name), strings.TrimSpace(e.Description))

	duration, err := ParseDuration(e.Duration)
	if err != nil {
		return nil, err
	}
	c.Duration = duration

	if e.Input.Client != nil && e.Input.Server != nil {
		return nil, fmt.Errorf("both <%s/> and <%s/> specified", xmlClient, xmlServer)
	}
	switch {
	case e.Input.Client != nil:
		c.Input.Process = models.ProcessClient
	case e.Input.Server != nil:
		c.Input.Process = models.ProcessServer
	}
	c.Input.Multiple = e.Input.Multiple != nil
	c.Input.Kernel = trimAll(e.Input.Kernel)
	c.Input.Roots = trimAll(e.Input.Roots)

	c.Output.Resolved = trimAll(e.Output.Resolved)
	c.Output.KernelOnly = trimAll(e.Output.KernelOnly)
	c.Output.KernelBlocked = trimAll(e.Output.KernelBlocked)

	return c, nil
}

func trimAll(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

// XMLWriter writes <cases> documents with the indenting printer
type XMLWriter struct{}

// NewXMLWriter creates a new XMLWriter
func NewXMLWriter() *XMLWriter {
	return &XMLWriter{}
}

// Write encodes data as a <cases> document
func (x *XMLWriter) Write(w io.Writer, data *models.VerifyData) error {
	p := newXMLPrinter(w)
	p.header()
	p.open(xmlCases)
	for _, c := range data.Cases {
		writeCase(p, c)
	}
	p.close(xmlCases)
	return p.flush()
}

func writeCase(p *xmlPrinter, c *models.VerifyCase) {
	p.open(xmlCase)

	p.element(xmlName, c.Name)
	if c.Description != "" {
		p.element(xmlDescription, c.Description)
	}
	p.element(xmlDuration, FormatDuration(c.Duration))

	p.open(xmlInput)
	if c.Input.Multiple {
		p.empty(xmlMultiple)
	}
	switch c.Input.Process {
	case models.ProcessClient:
		p.empty(xmlClient)
	case models.ProcessServer:
		p.empty(xmlServer)
	}
	p.elements(xmlKernel, c.Input.Kernel)
	p.elements(xmlRoot, c.Input.Roots)
	p.close(xmlInput)

	p.open(xmlOutput)
	p.elements(xmlResolved, c.Output.Resolved)
	p.elements(xmlKernelOnly, c.Output.KernelOnly)
	p.elements(xmlKernelBlocked, c.Output.KernelBlocked)
	p.close(xmlOutput)

	p.close(xmlCase)
}
