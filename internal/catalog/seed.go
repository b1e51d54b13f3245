package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

// Dataset is the literal set of records a catalog is seeded with at startup.
type Dataset struct {
	Books      []*Book     `yaml:"books"`
	Authors    []*Author   `yaml:"authors"`
	Categories []*Category `yaml:"categories"`
}

// DefaultDataset returns a fresh copy of the built-in seed dataset.
func DefaultDataset() *Dataset {
	ds, err := LoadDataset(bytes.NewReader(defaultSeed))
	if err != nil {
		// The embedded dataset is part of the binary; failing to decode it is a build defect.
		panic(fmt.Sprintf("decoding embedded seed dataset: %v", err))
	}
	return ds
}

// LoadDatasetFile reads a YAML dataset from the given path.
func LoadDatasetFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ds, err := LoadDataset(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return ds, nil
}

// LoadDataset decodes and validates a YAML dataset.
func LoadDataset(r io.Reader) (*Dataset, error) {
	var ds Dataset
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&ds); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding dataset: %w", err)
	}

	ds.normalize()
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// normalize replaces nil id lists with empty ones so every record resolves
// to a list rather than null.
func (ds *Dataset) normalize() {
	for _, b := range ds.Books {
		if b != nil && b.CategoryIDs == nil {
			b.CategoryIDs = []string{}
		}
	}
	for _, a := range ds.Authors {
		if a != nil && a.BookIDs == nil {
			a.BookIDs = []string{}
		}
	}
	for _, c := range ds.Categories {
		if c != nil && c.BookIDs == nil {
			c.BookIDs = []string{}
		}
	}
}

// Validate checks that every record has an id, ids are unique per collection,
// and required fields are present. References between records are not checked:
// a book may name an author or category that does not exist.
func (ds *Dataset) Validate() error {
	if err := validateIDs("book", ds.Books, func(b *Book) string { return b.ID }); err != nil {
		return err
	}
	if err := validateIDs("author", ds.Authors, func(a *Author) string { return a.ID }); err != nil {
		return err
	}
	if err := validateIDs("category", ds.Categories, func(c *Category) string { return c.ID }); err != nil {
		return err
	}

	for _, b := range ds.Books {
		if b.Title == "" {
			return fmt.Errorf("book %s: title is required", b.ID)
		}
		if b.AuthorID == "" {
			return fmt.Errorf("book %s: author is required", b.ID)
		}
	}
	for _, c := range ds.Categories {
		if c.Name == "" {
			return fmt.Errorf("category %s: name is required", c.ID)
		}
	}
	return nil
}

func validateIDs[T any](kind string, records []*T, idOf func(*T) string) error {
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		if r == nil {
			return fmt.Errorf("%s #%d: empty record", kind, i+1)
		}
		id := idOf(r)
		if id == "" {
			return fmt.Errorf("%s #%d: id is required", kind, i+1)
		}
		if seen[id] {
			return fmt.Errorf("duplicate %s id %q", kind, id)
		}
		seen[id] = true
	}
	return nil
}
