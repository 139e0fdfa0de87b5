package parser

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrison/featverify/internal/filelock"
	"github.com/harrison/featverify/internal/models"
)

// Format represents the format of a case file
type Format int

const (
	// FormatUnknown represents an unknown or unsupported file format
	FormatUnknown Format = iota
	// FormatXML represents an XML (.xml) case file
	FormatXML
	// FormatYAML represents a YAML (.yaml, .yml) case file
	FormatYAML
)

// String returns the string representation of the Format
func (f Format) String() string {
	switch f {
	case FormatXML:
		return "xml"
	case FormatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// Parser reads a case collection
type Parser interface {
	Parse(r io.Reader) (*models.VerifyData, error)
}

// Writer writes a case collection
type Writer interface {
	Write(w io.Writer, data *models.VerifyData) error
}

// DetectFormat detects the case file format from the file extension
// Supported extensions:
//   - .xml -> FormatXML
//   - .yaml, .yml -> FormatYAML
//   - all others -> FormatUnknown
func DetectFormat(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xml":
		return FormatXML
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatUnknown
	}
}

// NewParser creates a parser for the specified format
func NewParser(format Format) (Parser, error) {
	switch format {
	case FormatXML:
		return NewXMLParser(), nil
	case FormatYAML:
		return NewYAMLParser(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %v", format)
	}
}

// NewWriter creates a writer for the specified format
func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatXML:
		return NewXMLWriter(), nil
	case FormatYAML:
		return NewYAMLWriter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %v", format)
	}
}

// ParseFile detects the format of path, parses it and names the collection
// after the file's base name.
func ParseFile(path string) (*models.VerifyData, error) {
	format := DetectFormat(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("unknown file format: %s (supported: .xml, .yaml, .yml)", path)
	}

	parser, err := NewParser(format)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := parser.Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse cases from %s: %w", path, err)
	}
	if data.Name == "" {
		data.Name = filepath.Base(path)
	}

	return data, nil
}

// WriteFile encodes data in the format implied by path and writes it with a
// locked atomic write.
func WriteFile(path string, data *models.VerifyData) error {
	format := DetectFormat(path)
	writer, err := NewWriter(format)
	if err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}

	var buf bytes.Buffer
	if err := writer.Write(&buf, data); err != nil {
		return fmt.Errorf("failed to encode cases: %w", err)
	}

	return filelock.LockAndWrite(path, buf.Bytes())
}
