package catalogcore

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"

	"github.com/hmans/shelf/internal/catalog"
	"github.com/hmans/shelf/internal/config"
	"github.com/hmans/shelf/internal/search"
)

func setupTestCore(t *testing.T) *Core {
	t.Helper()
	core := New(config.Default())
	if err := core.Load(); err != nil {
		t.Fatalf("failed to load core: %v", err)
	}
	t.Cleanup(func() { core.Close() })
	return core
}

func ptr(s string) *string { return &s }

func bookIDs(books []*catalog.Book) []string {
	ids := make([]string, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	return ids
}

func categoryIDs(categories []*catalog.Category) []string {
	ids := make([]string, len(categories))
	for i, c := range categories {
		ids[i] = c.ID
	}
	return ids
}

func TestLoadDefaultDataset(t *testing.T) {
	core := setupTestCore(t)

	if got := len(core.Books()); got != 4 {
		t.Errorf("len(Books()) = %d, want 4", got)
	}
	if got := len(core.Authors()); got != 8 {
		t.Errorf("len(Authors()) = %d, want 8", got)
	}
	if got := len(core.Categories()); got != 3 {
		t.Errorf("len(Categories()) = %d, want 3", got)
	}
	if got := bookIDs(core.Books()); !slices.Equal(got, []string{"1", "2", "3", "4"}) {
		t.Errorf("Books() order = %v, want [1 2 3 4]", got)
	}
}

func TestLoadSeedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yml")
	content := `books:
  - {id: "10", title: "The Dispossessed", author: "1", categories: ["1"]}
authors:
  - {id: "1", firstName: Ursula, lastName: Le Guin, books: ["10"]}
categories:
  - {id: "1", name: Science Fiction, books: ["10"]}
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write seed: %v", err)
	}

	cfg := config.Default()
	cfg.Catalog.Seed = path
	core := New(cfg)
	if err := core.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	defer core.Close()

	b, err := core.GetBook("10")
	if err != nil {
		t.Fatalf("GetBook() error = %v", err)
	}
	if b.Title != "The Dispossessed" {
		t.Errorf("Title = %q, want %q", b.Title, "The Dispossessed")
	}

	// Next ID is derived from the collection length, not the highest ID
	nb := &catalog.Book{Title: "The Lathe of Heaven", AuthorID: "1"}
	if err := core.CreateBook(nb); err != nil {
		t.Fatalf("CreateBook() error = %v", err)
	}
	if nb.ID != "2" {
		t.Errorf("CreateBook() ID = %q, want \"2\"", nb.ID)
	}
}

func TestLoadMissingSeedFile(t *testing.T) {
	cfg := config.Default()
	cfg.Catalog.Seed = filepath.Join(t.TempDir(), "missing.yml")
	if err := New(cfg).Load(); err == nil {
		t.Error("Load() error = nil, want error for missing seed file")
	}
}

func TestSeedRejectsInvalidDataset(t *testing.T) {
	core := New(nil)
	ds := &catalog.Dataset{
		Books: []*catalog.Book{
			{ID: "1", Title: "A", AuthorID: "1"},
			{ID: "1", Title: "B", AuthorID: "1"},
		},
	}
	if err := core.Seed(ds); err == nil {
		t.Error("Seed() error = nil, want error for duplicate IDs")
	}
}

func TestGet(t *testing.T) {
	core := setupTestCore(t)

	t.Run("book", func(t *testing.T) {
		b, err := core.GetBook("2")
		if err != nil {
			t.Fatalf("GetBook() error = %v", err)
		}
		if b.Title != "Harry Potter and the Prisoner of Azkaban" {
			t.Errorf("Title = %q", b.Title)
		}
		if b.Description != nil {
			t.Errorf("Description = %q, want nil", *b.Description)
		}
	})

	t.Run("author", func(t *testing.T) {
		a, err := core.GetAuthor("4")
		if err != nil {
			t.Fatalf("GetAuthor() error = %v", err)
		}
		if a.FirstName != "George" || a.LastName != "Orwell" {
			t.Errorf("GetAuthor() = %s %s, want George Orwell", a.FirstName, a.LastName)
		}
	})

	t.Run("category", func(t *testing.T) {
		c, err := core.GetCategory("3")
		if err != nil {
			t.Fatalf("GetCategory() error = %v", err)
		}
		if c.Name != "Programming" {
			t.Errorf("Name = %q, want Programming", c.Name)
		}
	})

	t.Run("not found", func(t *testing.T) {
		tests := []struct {
			name string
			get  func() error
		}{
			{"book", func() error { _, err := core.GetBook("9"); return err }},
			{"author", func() error { _, err := core.GetAuthor("9"); return err }},
			{"category", func() error { _, err := core.GetCategory("9"); return err }},
			// IDs are compared as exact strings
			{"padded book id", func() error { _, err := core.GetBook("02"); return err }},
			{"empty author id", func() error { _, err := core.GetAuthor(""); return err }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				if err := tt.get(); !errors.Is(err, ErrNotFound) {
					t.Errorf("error = %v, want ErrNotFound", err)
				}
			})
		}
	})
}

func TestBooksByIDs(t *testing.T) {
	core := setupTestCore(t)

	tests := []struct {
		name string
		ids  []string
		want []string
	}{
		{"store order wins", []string{"3", "1"}, []string{"1", "3"}},
		{"dangling ids ignored", []string{"2", "99"}, []string{"2"}},
		{"duplicates collapse", []string{"4", "4"}, []string{"4"}},
		{"empty", []string{}, []string{}},
		{"nil", nil, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := core.BooksByIDs(tt.ids)
			if got == nil {
				t.Fatal("BooksByIDs() = nil, want non-nil slice")
			}
			if ids := bookIDs(got); !slices.Equal(ids, tt.want) {
				t.Errorf("BooksByIDs(%v) = %v, want %v", tt.ids, ids, tt.want)
			}
		})
	}
}

func TestCategoriesByIDs(t *testing.T) {
	core := setupTestCore(t)

	got := categoryIDs(core.CategoriesByIDs([]string{"2", "7", "1"}))
	if !slices.Equal(got, []string{"1", "2"}) {
		t.Errorf("CategoriesByIDs() = %v, want [1 2]", got)
	}
}

func TestBooksWithID(t *testing.T) {
	core := setupTestCore(t)

	if got := bookIDs(core.BooksWithID("1")); !slices.Equal(got, []string{"1"}) {
		t.Errorf("BooksWithID(1) = %v, want [1]", got)
	}
	got := core.BooksWithID("42")
	if got == nil || len(got) != 0 {
		t.Errorf("BooksWithID(42) = %#v, want empty slice", got)
	}
}

func TestCreateBook(t *testing.T) {
	core := setupTestCore(t)

	b := &catalog.Book{
		Title:       "Some great book",
		AuthorID:    "2",
		CategoryIDs: []string{"1", "2"},
		Description: ptr("This is a description"),
	}
	if err := core.CreateBook(b); err != nil {
		t.Fatalf("CreateBook() error = %v", err)
	}
	if b.ID != "5" {
		t.Errorf("ID = %q, want \"5\"", b.ID)
	}

	stored, err := core.GetBook("5")
	if err != nil {
		t.Fatalf("GetBook() error = %v", err)
	}
	if stored.Title != "Some great book" || stored.AuthorID != "2" {
		t.Errorf("stored book = %+v", stored)
	}
	if stored.CoverImage != nil {
		t.Errorf("CoverImage = %q, want nil", *stored.CoverImage)
	}

	// The caller's record is not the stored one
	b.Title = "changed"
	if stored, _ := core.GetBook("5"); stored.Title != "Some great book" {
		t.Error("CreateBook() stored the caller's pointer")
	}
}

func TestCreateBookLeavesBackReferences(t *testing.T) {
	core := setupTestCore(t)

	b := &catalog.Book{Title: "Another", AuthorID: "1", CategoryIDs: []string{"1"}}
	if err := core.CreateBook(b); err != nil {
		t.Fatalf("CreateBook() error = %v", err)
	}

	author, _ := core.GetAuthor("1")
	if !slices.Equal(author.BookIDs, []string{"1", "2", "3"}) {
		t.Errorf("Author.BookIDs = %v, want [1 2 3]", author.BookIDs)
	}
	category, _ := core.GetCategory("1")
	if !slices.Equal(category.BookIDs, []string{"1", "2", "3"}) {
		t.Errorf("Category.BookIDs = %v, want [1 2 3]", category.BookIDs)
	}
}

func TestCreateBookDanglingReferences(t *testing.T) {
	core := setupTestCore(t)

	b := &catalog.Book{Title: "Orphan", AuthorID: "404", CategoryIDs: []string{"404"}}
	if err := core.CreateBook(b); err != nil {
		t.Fatalf("CreateBook() error = %v", err)
	}
	if len(core.CategoriesByIDs(b.CategoryIDs)) != 0 {
		t.Error("CategoriesByIDs() matched a dangling category")
	}
}

func TestCreateBookIndexFailure(t *testing.T) {
	core := setupTestCore(t)

	// A closed index rejects writes
	closed, err := search.NewIndex()
	if err != nil {
		t.Fatalf("failed to create index: %v", err)
	}
	closed.Close()
	open := core.index
	core.index = closed
	t.Cleanup(func() { core.index = open })

	b := &catalog.Book{Title: "Unindexed", AuthorID: "1"}
	if err := core.CreateBook(b); err == nil {
		t.Fatal("CreateBook() error = nil, want indexing error")
	}
	if b.ID != "" {
		t.Errorf("ID = %q after failed create, want empty", b.ID)
	}
	if b.CategoryIDs != nil {
		t.Errorf("CategoryIDs = %#v after failed create, want nil", b.CategoryIDs)
	}
	if got := len(core.Books()); got != 4 {
		t.Errorf("core has %d books, want 4", got)
	}
	if _, err := core.GetBook("5"); err == nil {
		t.Error("GetBook(\"5\") found a book that failed to index")
	}
}

func TestCreateBookSequentialIDs(t *testing.T) {
	core := setupTestCore(t)

	for n := 1; n <= 5; n++ {
		b := &catalog.Book{Title: fmt.Sprintf("Book %d", n), AuthorID: "1"}
		if err := core.CreateBook(b); err != nil {
			t.Fatalf("CreateBook() error = %v", err)
		}
		if want := fmt.Sprint(4 + n); b.ID != want {
			t.Errorf("add #%d: ID = %q, want %q", n, b.ID, want)
		}
	}
}

func TestCreateBookConcurrent(t *testing.T) {
	core := setupTestCore(t)

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			b := &catalog.Book{Title: fmt.Sprintf("Concurrent %d", i), AuthorID: "1"}
			if err := core.CreateBook(b); err != nil {
				t.Errorf("CreateBook() error = %v", err)
			}
		}(i)
	}
	wg.Wait()

	books := core.Books()
	if len(books) != 4+n {
		t.Fatalf("len(Books()) = %d, want %d", len(books), 4+n)
	}
	for i, b := range books {
		if want := fmt.Sprint(i + 1); b.ID != want {
			t.Errorf("Books()[%d].ID = %q, want %q", i, b.ID, want)
		}
	}
}

func TestCreateCategory(t *testing.T) {
	core := setupTestCore(t)

	c := &catalog.Category{Name: "manga", BookIDs: []string{"1", "2", "3"}}
	if err := core.CreateCategory(c); err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if c.ID != "4" {
		t.Errorf("ID = %q, want \"4\"", c.ID)
	}

	stored, err := core.GetCategory("4")
	if err != nil {
		t.Fatalf("GetCategory() error = %v", err)
	}
	if stored.Name != "manga" || !slices.Equal(stored.BookIDs, []string{"1", "2", "3"}) {
		t.Errorf("stored category = %+v", stored)
	}

	empty := &catalog.Category{Name: "poetry"}
	if err := core.CreateCategory(empty); err != nil {
		t.Fatalf("CreateCategory() error = %v", err)
	}
	if empty.ID != "5" {
		t.Errorf("ID = %q, want \"5\"", empty.ID)
	}
	if stored, _ := core.GetCategory("5"); stored.BookIDs == nil {
		t.Error("BookIDs = nil, want empty slice")
	}
}

func TestUpdateBook(t *testing.T) {
	core := setupTestCore(t)

	before, _ := core.GetBook("1")

	updated, err := core.UpdateBook("1", catalog.BookUpdate{
		Title:       ptr("black clover"),
		AuthorID:    ptr("4"),
		Description: ptr("Ill become wizard king!"),
		CategoryIDs: []string{"2"},
	})
	if err != nil {
		t.Fatalf("UpdateBook() error = %v", err)
	}

	if updated.ID != "1" || updated.Title != "black clover" || updated.AuthorID != "4" {
		t.Errorf("UpdateBook() = %+v", updated)
	}
	if *updated.Description != "Ill become wizard king!" {
		t.Errorf("Description = %q", *updated.Description)
	}
	if !slices.Equal(updated.CategoryIDs, []string{"2"}) {
		t.Errorf("CategoryIDs = %v, want [2]", updated.CategoryIDs)
	}
	// Untouched field survives
	if updated.CoverImage == nil || *updated.CoverImage != *before.CoverImage {
		t.Errorf("CoverImage = %v, want %q", updated.CoverImage, *before.CoverImage)
	}

	// Records handed out earlier are not modified
	if before.Title != "Harry Potter and the Chamber of Secrets" {
		t.Errorf("earlier record Title = %q, want unchanged", before.Title)
	}

	// Position in the collection is kept
	if got := bookIDs(core.Books()); !slices.Equal(got, []string{"1", "2", "3", "4"}) {
		t.Errorf("Books() order = %v", got)
	}
	if got, _ := core.GetBook("1"); got.Title != "black clover" {
		t.Errorf("GetBook(1).Title = %q, want \"black clover\"", got.Title)
	}
}

func TestUpdateBookPartial(t *testing.T) {
	core := setupTestCore(t)

	updated, err := core.UpdateBook("4", catalog.BookUpdate{Title: ptr("C for Dummies")})
	if err != nil {
		t.Fatalf("UpdateBook() error = %v", err)
	}
	if updated.AuthorID != "2" || !slices.Equal(updated.CategoryIDs, []string{"3"}) {
		t.Errorf("UpdateBook() touched unset fields: %+v", updated)
	}
}

func TestUpdateBookNotFound(t *testing.T) {
	core := setupTestCore(t)

	_, err := core.UpdateBook("9", catalog.BookUpdate{Title: ptr("x")})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateBook() error = %v, want ErrNotFound", err)
	}
	if len(core.Books()) != 4 {
		t.Error("UpdateBook() on unknown ID changed the catalog")
	}
}

func TestSearchBooks(t *testing.T) {
	core := setupTestCore(t)

	got, err := core.SearchBooks("potter", 0)
	if err != nil {
		t.Fatalf("SearchBooks() error = %v", err)
	}
	if ids := bookIDs(got); !slices.Equal(ids, []string{"1", "2", "3"}) {
		t.Errorf("SearchBooks(potter) = %v, want [1 2 3]", ids)
	}

	if err := core.CreateBook(&catalog.Book{Title: "Black Clover", AuthorID: "4"}); err != nil {
		t.Fatalf("CreateBook() error = %v", err)
	}
	got, err = core.SearchBooks("clover", 0)
	if err != nil {
		t.Fatalf("SearchBooks() error = %v", err)
	}
	if ids := bookIDs(got); !slices.Equal(ids, []string{"5"}) {
		t.Errorf("SearchBooks(clover) = %v, want [5]", ids)
	}

	if _, err := core.UpdateBook("5", catalog.BookUpdate{Title: ptr("Mashle")}); err != nil {
		t.Fatalf("UpdateBook() error = %v", err)
	}
	got, _ = core.SearchBooks("clover", 0)
	if len(got) != 0 {
		t.Errorf("SearchBooks(clover) after rename = %v, want none", bookIDs(got))
	}

	got, err = core.SearchBooks("   ", 0)
	if err != nil || len(got) != 0 {
		t.Errorf("SearchBooks(blank) = %v, %v, want empty", got, err)
	}
}

func TestNotLoaded(t *testing.T) {
	core := New(nil)

	if len(core.Books()) != 0 {
		t.Error("Books() on an unloaded core is not empty")
	}
	b := &catalog.Book{Title: "First", AuthorID: "1"}
	if err := core.CreateBook(b); err != nil {
		t.Fatalf("CreateBook() error = %v", err)
	}
	if b.ID != "1" {
		t.Errorf("ID = %q, want \"1\"", b.ID)
	}
	if got, err := core.SearchBooks("first", 0); err != nil || len(got) != 0 {
		t.Errorf("SearchBooks() = %v, %v, want empty without an index", got, err)
	}
	if err := core.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
