package redflag

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed red_flags.yaml
var catalogYAML []byte

// Category names a red-flag symptom, e.g. "chest pain or pressure".
type Category string

// Entry pairs a category with its ordered trigger phrases.
type Entry struct {
	Category Category `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Catalog is the ordered set of red-flag entries.  It is loaded once at
// process start and never mutated; every consumer takes it by reference.
type Catalog []Entry

// LoadCatalog parses and validates a YAML catalog document.  Keywords are
// normalised to lower case so the detector can match without re-folding.
func LoadCatalog(data []byte) (Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("parse red flag catalog: %w", err)
	}
	if len(catalog) == 0 {
		return nil, fmt.Errorf("red flag catalog is empty")
	}
	for i, entry := range catalog {
		if entry.Category == "" {
			return nil, fmt.Errorf("catalog entry %d has no category", i)
		}
		if len(entry.Keywords) == 0 {
			return nil, fmt.Errorf("category %q has no keywords", entry.Category)
		}
		for j, kw := range entry.Keywords {
			if strings.TrimSpace(kw) == "" {
				return nil, fmt.Errorf("category %q has an empty keyword", entry.Category)
			}
			catalog[i].Keywords[j] = strings.ToLower(kw)
		}
	}
	return catalog, nil
}

var (
	defaultCatalog     Catalog
	defaultCatalogErr  error
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the embedded catalog, parsed once.  The embedded
// document is part of the build, so a parse failure here is a programming
// error and panics.
func DefaultCatalog() Catalog {
	defaultCatalogOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = LoadCatalog(catalogYAML)
	})
	if defaultCatalogErr != nil {
		panic(defaultCatalogErr)
	}
	return defaultCatalog
}
