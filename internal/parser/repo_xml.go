package parser

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/harrison/featverify/internal/models"
)

type xmlFeaturesDoc struct {
	XMLName  xml.Name         `xml:"features"`
	Features []xmlFeatureElem `xml:"feature"`
}

type xmlFeatureElem struct {
	Name       string `xml:"name"`
	Visibility string `xml:"visibility"`
	Kind       string `xml:"kind"`
}

// ParseRepository decodes a <features> document into a repository.
// Features without a name are rejected.
func ParseRepository(r io.Reader) (*models.Repository, error) {
	var doc xmlFeaturesDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode XML: %w", err)
	}

	repo := models.NewRepository()
	for i, elem := range doc.Features {
		name := strings.TrimSpace(elem.Name)
		if name == "" {
			return nil, fmt.Errorf("feature %d has no name", i+1)
		}
		repo.Add(models.Feature{
			Name:       name,
			Visibility: strings.TrimSpace(elem.Visibility),
			Kind:       strings.TrimSpace(elem.Kind),
		})
	}

	return repo, nil
}

// ParseRepositoryFile reads a repository file from disk
func ParseRepositoryFile(path string) (*models.Repository, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository file: %w", err)
	}
	defer file.Close()

	repo, err := ParseRepository(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse repository %s: %w", path, err)
	}
	return repo, nil
}
