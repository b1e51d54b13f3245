package cmd

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/hmans/shelf/internal/catalog"
)

func resetShowFlags(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		showJSON, showYAML = false, false
	})
}

func TestRunShowJSON(t *testing.T) {
	c := setupTestCore(t)
	resetShowFlags(t)
	showJSON = true

	var buf bytes.Buffer
	if err := runShow(&buf, c, "4"); err != nil {
		t.Fatalf("runShow() error = %v", err)
	}

	var b catalog.Book
	if err := json.Unmarshal(buf.Bytes(), &b); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if b.ID != "4" || b.AuthorID != "2" {
		t.Errorf("book = %+v, want id 4 by author 2", b)
	}
	if b.Description != nil {
		t.Errorf("Description = %q, want nil", *b.Description)
	}
}

func TestRunShowYAMLRoundTripsAsSeed(t *testing.T) {
	c := setupTestCore(t)
	resetShowFlags(t)
	showYAML = true

	var buf bytes.Buffer
	if err := runShow(&buf, c, "1"); err != nil {
		t.Fatalf("runShow() error = %v", err)
	}

	var books []*catalog.Book
	if err := yaml.Unmarshal(buf.Bytes(), &books); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(books) != 1 || books[0].Title != "Harry Potter and the Chamber of Secrets" {
		t.Fatalf("books = %+v", books)
	}
	if strings.Join(books[0].CategoryIDs, ",") != "1,2" {
		t.Errorf("categories = %v, want [1 2]", books[0].CategoryIDs)
	}
}

func TestRunShowStyled(t *testing.T) {
	c := setupTestCore(t)
	resetShowFlags(t)

	var buf bytes.Buffer
	if err := runShow(&buf, c, "3"); err != nil {
		t.Fatalf("runShow() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Harry Potter and the Goblet of Fire", "J.K. Rowling", "Fantasy", "cover:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunShowNotFound(t *testing.T) {
	c := setupTestCore(t)
	resetShowFlags(t)

	var buf bytes.Buffer
	err := runShow(&buf, c, "99")
	if err == nil {
		t.Fatal("runShow() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %q, want not found", err)
	}
}

func TestRunShowDescriptionSection(t *testing.T) {
	c := setupTestCore(t)
	resetShowFlags(t)

	var buf bytes.Buffer
	if err := runShow(&buf, c, "1"); err != nil {
		t.Fatalf("runShow() error = %v", err)
	}
	if out := buf.String(); !strings.Contains(out, "Description") || !strings.Contains(out, "Hogwarts") {
		t.Errorf("output missing description section:\n%s", out)
	}

	// Book 4 has no description, so no section header either
	buf.Reset()
	if err := runShow(&buf, c, "4"); err != nil {
		t.Fatalf("runShow() error = %v", err)
	}
	if strings.Contains(buf.String(), "Description") {
		t.Errorf("output has a description section for a book without one:\n%s", buf.String())
	}
}
