package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultDataset(t *testing.T) {
	ds := DefaultDataset()

	if len(ds.Books) != 4 {
		t.Errorf("len(Books) = %d, want 4", len(ds.Books))
	}
	if len(ds.Authors) != 8 {
		t.Errorf("len(Authors) = %d, want 8", len(ds.Authors))
	}
	if len(ds.Categories) != 3 {
		t.Errorf("len(Categories) = %d, want 3", len(ds.Categories))
	}

	first := ds.Books[0]
	if first.ID != "1" || first.Title != "Harry Potter and the Chamber of Secrets" {
		t.Errorf("Books[0] = %s %q, want 1 %q", first.ID, first.Title, "Harry Potter and the Chamber of Secrets")
	}
	if first.Description == nil || !strings.HasPrefix(*first.Description, "Harry Potter and the Chamber of Secrets is a 1998") {
		t.Errorf("Books[0].Description = %v, want seeded description", first.Description)
	}
	if !strings.Contains(*first.Description, "Harry’s tumultuous") {
		t.Error("Books[0].Description lost its typographic apostrophe")
	}

	second := ds.Books[1]
	if second.Description != nil {
		t.Errorf("Books[1].Description = %q, want nil", *second.Description)
	}
	if second.CoverImage == nil || *second.CoverImage != "https://m.media-amazon.com/images/I/51DQeuJ5QDL._SY291_BO1,204,203,200_QL40_FMwebp_.jpg" {
		t.Errorf("Books[1].CoverImage = %v, want seeded cover", second.CoverImage)
	}

	if got := ds.Authors[2].BookIDs; got == nil || len(got) != 0 {
		t.Errorf("Authors[2].BookIDs = %#v, want empty slice", got)
	}
}

func TestDefaultDatasetReturnsCopies(t *testing.T) {
	a := DefaultDataset()
	a.Books[0].Title = "changed"

	b := DefaultDataset()
	if b.Books[0].Title == "changed" {
		t.Error("DefaultDataset() shares records between calls")
	}
}

func TestLoadDataset(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:  "minimal",
			input: "books:\n  - {id: \"1\", title: T, author: \"9\"}\n",
		},
		{
			name:  "empty document",
			input: "",
		},
		{
			name:    "duplicate book id",
			input:   "books:\n  - {id: \"1\", title: A, author: \"1\"}\n  - {id: \"1\", title: B, author: \"1\"}\n",
			wantErr: `duplicate book id "1"`,
		},
		{
			name:    "missing title",
			input:   "books:\n  - {id: \"1\", author: \"1\"}\n",
			wantErr: "title is required",
		},
		{
			name:    "missing category name",
			input:   "categories:\n  - {id: \"1\"}\n",
			wantErr: "name is required",
		},
		{
			name:    "missing author id",
			input:   "authors:\n  - {firstName: X}\n",
			wantErr: "id is required",
		},
		{
			name:    "unknown field",
			input:   "books:\n  - {id: \"1\", title: T, author: \"1\", isbn: \"x\"}\n",
			wantErr: "decoding dataset",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := LoadDataset(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("LoadDataset() error = nil, want %q", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("LoadDataset() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadDataset() error = %v", err)
			}
			if ds == nil {
				t.Fatal("LoadDataset() returned nil dataset")
			}
		})
	}
}

func TestLoadDatasetNormalizesLists(t *testing.T) {
	ds, err := LoadDataset(strings.NewReader("books:\n  - {id: \"1\", title: T, author: \"1\"}\ncategories:\n  - {id: \"1\", name: N}\n"))
	if err != nil {
		t.Fatalf("LoadDataset() error = %v", err)
	}
	if ds.Books[0].CategoryIDs == nil {
		t.Error("Books[0].CategoryIDs = nil, want empty slice")
	}
	if ds.Categories[0].BookIDs == nil {
		t.Error("Categories[0].BookIDs = nil, want empty slice")
	}
}

func TestLoadDatasetFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yml")
	content := "authors:\n  - {id: \"1\", firstName: Ursula, lastName: Le Guin}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write seed file: %v", err)
	}

	ds, err := LoadDatasetFile(path)
	if err != nil {
		t.Fatalf("LoadDatasetFile() error = %v", err)
	}
	if len(ds.Authors) != 1 || ds.Authors[0].LastName != "Le Guin" {
		t.Errorf("Authors = %+v, want one author Le Guin", ds.Authors)
	}

	if _, err := LoadDatasetFile(filepath.Join(t.TempDir(), "missing.yml")); err == nil {
		t.Error("LoadDatasetFile() on missing file: error = nil, want error")
	}
}
