package parser

import (
	"fmt"
	"io"
	"time"

	"github.com/harrison/featverify/internal/models"
	"gopkg.in/yaml.v3"
)

type yamlCasesDoc struct {
	Name  string         `yaml:"name,omitempty"`
	Cases []yamlCaseElem `yaml:"cases"`
}

type yamlCaseElem struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Duration    string         `yaml:"duration,omitempty"`
	Input       yamlInputElem  `yaml:"input"`
	Output      yamlOutputElem `yaml:"output"`
}

type yamlInputElem struct {
	Multiple bool     `yaml:"multiple,omitempty"`
	Process  string   `yaml:"process,omitempty"`
	Kernel   []string `yaml:"kernel,omitempty"`
	Roots    []string `yaml:"roots,omitempty"`
}

type yamlOutputElem struct {
	Resolved      []string `yaml:"resolved,omitempty"`
	KernelOnly    []string `yaml:"kernel_only,omitempty"`
	KernelBlocked []string `yaml:"kernel_blocked,omitempty"`
}

// YAMLParser reads YAML case files
type YAMLParser struct{}

// NewYAMLParser creates a new YAMLParser
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// Parse decodes a YAML case document. Durations use Go duration syntax ("1.5s").
func (p *YAMLParser) Parse(r io.Reader) (*models.VerifyData, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML: %w", err)
	}

	var doc yamlCasesDoc
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	data := models.NewVerifyData(doc.Name)
	for i, elem := range doc.Cases {
		c := models.NewVerifyCase(elem.Name, elem.Description)

		if elem.Duration != "" {
			d, err := time.ParseDuration(elem.Duration)
			if err != nil {
				return nil, fmt.Errorf("case %d (%s): invalid duration %q: %w", i+1, elem.Name, elem.Duration, err)
			}
			c.Duration = d
		}

		process, err := models.ParseProcessType(elem.Input.Process)
		if err != nil {
			return nil, fmt.Errorf("case %d (%s): %w", i+1, elem.Name, err)
		}
		c.Input.Process = process
		c.Input.Multiple = elem.Input.Multiple
		c.Input.Kernel = elem.Input.Kernel
		c.Input.Roots = elem.Input.Roots

		c.Output.Resolved = elem.Output.Resolved
		c.Output.KernelOnly = elem.Output.KernelOnly
		c.Output.KernelBlocked = elem.Output.KernelBlocked

		data.AddCase(c)
	}

	return data, nil
}

// YAMLWriter writes YAML case files
type YAMLWriter struct{}

// NewYAMLWriter creates a new YAMLWriter
func NewYAMLWriter() *YAMLWriter {
	return &YAMLWriter{}
}

// Write encodes data as a YAML case document
func (y *YAMLWriter) Write(w io.Writer, data *models.VerifyData) error {
	doc := yamlCasesDoc{Name: data.Name}
	for _, c := range data.Cases {
		elem := yamlCaseElem{
			Name:        c.Name,
			Description: c.Description,
			Input: yamlInputElem{
				Multiple: c.Input.Multiple,
				Process:  c.Input.Process.String(),
				Kernel:   c.Input.Kernel,
				Roots:    c.Input.Roots,
			},
			Output: yamlOutputElem{
				Resolved:      c.Output.Resolved,
				KernelOnly:    c.Output.KernelOnly,
				KernelBlocked: c.Output.KernelBlocked,
			},
		}
		if c.Duration > 0 {
			elem.Duration = c.Duration.String()
		}
		doc.Cases = append(doc.Cases, elem)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
