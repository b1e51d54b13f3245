package graph

import (
	"context"
	"slices"
	"testing"

	"github.com/vektah/gqlparser/v2/gqlerror"

	"github.com/hmans/shelf/internal/catalog"
	"github.com/hmans/shelf/internal/catalogcore"
	"github.com/hmans/shelf/internal/config"
)

func setupTestResolver(t *testing.T) (*Resolver, *catalogcore.Core) {
	t.Helper()
	core := catalogcore.New(config.Default())
	if err := core.Load(); err != nil {
		t.Fatalf("failed to load core: %v", err)
	}
	t.Cleanup(func() { core.Close() })
	return &Resolver{Core: core}, core
}

func ptr[T any](v T) *T { return &v }

func bookIDs(books []*catalog.Book) []string {
	ids := make([]string, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	return ids
}

func assertNotFound(t *testing.T, err error, want string) {
	t.Helper()
	gqlErr, ok := err.(*gqlerror.Error)
	if !ok {
		t.Fatalf("error = %v (%T), want *gqlerror.Error", err, err)
	}
	if gqlErr.Message != want {
		t.Errorf("error message = %q, want %q", gqlErr.Message, want)
	}
	if code := gqlErr.Extensions["code"]; code != CodeNotFound {
		t.Errorf("error code = %v, want %s", code, CodeNotFound)
	}
}

func TestQueryGetBook(t *testing.T) {
	resolver, _ := setupTestResolver(t)
	ctx := context.Background()
	qr := resolver.Query()

	t.Run("existing", func(t *testing.T) {
		got, err := qr.GetBook(ctx, "2")
		if err != nil {
			t.Fatalf("GetBook() error = %v", err)
		}
		if got.Title != "Harry Potter and the Prisoner of Azkaban" {
			t.Errorf("GetBook().Title = %q", got.Title)
		}
	})

	t.Run("missing", func(t *testing.T) {
		got, err := qr.GetBook(ctx, "9")
		if got != nil {
			t.Errorf("GetBook() = %v, want nil", got)
		}
		assertNotFound(t, err, "This book does not exist.")
	})
}

func TestQueryGetAuthor(t *testing.T) {
	resolver, _ := setupTestResolver(t)
	ctx := context.Background()
	qr := resolver.Query()

	got, err := qr.GetAuthor(ctx, "1")
	if err != nil {
		t.Fatalf("GetAuthor() error = %v", err)
	}
	if got.FirstName != "J.K." || got.LastName != "Rowling" {
		t.Errorf("GetAuthor() = %s %s, want J.K. Rowling", got.FirstName, got.LastName)
	}

	_, err = qr.GetAuthor(ctx, "9")
	assertNotFound(t, err, "This author does not exist.")
}

func TestQueryGetCategory(t *testing.T) {
	resolver, _ := setupTestResolver(t)
	ctx := context.Background()
	qr := resolver.Query()

	got, err := qr.GetCategory(ctx, "3")
	if err != nil {
		t.Fatalf("GetCategory() error = %v", err)
	}
	if got.Name != "Programming" {
		t.Errorf("GetCategory().Name = %q, want Programming", got.Name)
	}

	_, err = qr.GetCategory(ctx, "9")
	assertNotFound(t, err, "This category does not exist.")
}

func TestQueryCollections(t *testing.T) {
	resolver, _ := setupTestResolver(t)
	ctx := context.Background()
	qr := resolver.Query()

	books, err := qr.GetBooks(ctx)
	if err != nil {
		t.Fatalf("GetBooks() error = %v", err)
	}
	if got := bookIDs(books); !slices.Equal(got, []string{"1", "2", "3", "4"}) {
		t.Errorf("GetBooks() = %v, want [1 2 3 4]", got)
	}

	authors, err := qr.GetAuthors(ctx)
	if err != nil {
		t.Fatalf("GetAuthors() error = %v", err)
	}
	if len(authors) != 8 {
		t.Errorf("len(GetAuthors()) = %d, want 8", len(authors))
	}

	categories, err := qr.GetCategories(ctx)
	if err != nil {
		t.Fatalf("GetCategories() error = %v", err)
	}
	if len(categories) != 3 {
		t.Errorf("len(GetCategories()) = %d, want 3", len(categories))
	}
}

func TestQuerySearchBooks(t *testing.T) {
	resolver, _ := setupTestResolver(t)
	ctx := context.Background()
	qr := resolver.Query()

	got, err := qr.SearchBooks(ctx, "potter", nil)
	if err != nil {
		t.Fatalf("SearchBooks() error = %v", err)
	}
	if ids := bookIDs(got); !slices.Equal(ids, []string{"1", "2", "3"}) {
		t.Errorf("SearchBooks(potter) = %v, want [1 2 3]", ids)
	}

	got, err = qr.SearchBooks(ctx, "potter", ptr(1))
	if err != nil {
		t.Fatalf("SearchBooks() error = %v", err)
	}
	if len(got) != 1 {
		t.Errorf("SearchBooks(potter, limit 1) returned %d books, want 1", len(got))
	}
}

func TestBookRelationships(t *testing.T) {
	resolver, core := setupTestResolver(t)
	ctx := context.Background()

	book, _ := core.GetBook("1")

	t.Run("author", func(t *testing.T) {
		author, err := resolver.Book().Author(ctx, book)
		if err != nil {
			t.Fatalf("Author() error = %v", err)
		}
		if author == nil || author.ID != "1" {
			t.Errorf("Author() = %v, want author 1", author)
		}
	})

	t.Run("categories", func(t *testing.T) {
		categories, err := resolver.Book().Categories(ctx, book)
		if err != nil {
			t.Fatalf("Categories() error = %v", err)
		}
		if len(categories) != 2 || categories[0].Name != "Fantasy" || categories[1].Name != "Fiction" {
			t.Errorf("Categories() = %v, want Fantasy and Fiction", categories)
		}
	})

	t.Run("dangling author", func(t *testing.T) {
		dangling := &catalog.Book{ID: "x", Title: "Orphan", AuthorID: "99"}
		author, err := resolver.Book().Author(ctx, dangling)
		if err != nil {
			t.Fatalf("Author() error = %v", err)
		}
		if author != nil {
			t.Errorf("Author() = %v, want nil", author)
		}
	})

	t.Run("dangling categories", func(t *testing.T) {
		dangling := &catalog.Book{ID: "x", Title: "Orphan", AuthorID: "1", CategoryIDs: []string{"3", "42"}}
		categories, err := resolver.Book().Categories(ctx, dangling)
		if err != nil {
			t.Fatalf("Categories() error = %v", err)
		}
		if len(categories) != 1 || categories[0].ID != "3" {
			t.Errorf("Categories() = %v, want only category 3", categories)
		}
	})
}

func TestAuthorBooks(t *testing.T) {
	resolver, core := setupTestResolver(t)
	ctx := context.Background()

	author, _ := core.GetAuthor("1")
	books, err := resolver.Author().Books(ctx, author)
	if err != nil {
		t.Fatalf("Books() error = %v", err)
	}
	if got := bookIDs(books); !slices.Equal(got, []string{"1", "2", "3"}) {
		t.Errorf("Books() = %v, want [1 2 3]", got)
	}

	author, _ = core.GetAuthor("3")
	books, err = resolver.Author().Books(ctx, author)
	if err != nil {
		t.Fatalf("Books() error = %v", err)
	}
	if books == nil || len(books) != 0 {
		t.Errorf("Books() = %v, want empty non-nil list", books)
	}
}

func TestCategoryBooks(t *testing.T) {
	resolver, core := setupTestResolver(t)
	ctx := context.Background()

	// Category 1 lists books 1-3, but the field resolves by the category's own ID.
	cat, _ := core.GetCategory("1")
	books, err := resolver.Category().Books(ctx, cat)
	if err != nil {
		t.Fatalf("Books() error = %v", err)
	}
	if got := bookIDs(books); !slices.Equal(got, []string{"1"}) {
		t.Errorf("Books() = %v, want [1]", got)
	}
}

func TestMutationAddBook(t *testing.T) {
	resolver, core := setupTestResolver(t)
	ctx := context.Background()
	mr := resolver.Mutation()

	got, err := mr.AddBook(ctx, "Animal Farm", "4", nil, []string{"2"}, ptr("A farm story."))
	if err != nil {
		t.Fatalf("AddBook() error = %v", err)
	}
	if got.ID != "5" {
		t.Errorf("AddBook().ID = %q, want 5", got.ID)
	}
	if got.CoverImage != nil {
		t.Errorf("AddBook().CoverImage = %v, want nil", *got.CoverImage)
	}
	if got.Description == nil || *got.Description != "A farm story." {
		t.Errorf("AddBook().Description = %v, want %q", got.Description, "A farm story.")
	}

	stored, err := core.GetBook("5")
	if err != nil {
		t.Fatalf("GetBook(5) error = %v", err)
	}
	if stored.Title != "Animal Farm" || stored.AuthorID != "4" {
		t.Errorf("stored book = %+v", stored)
	}

	// Author back-references are left alone.
	author, _ := core.GetAuthor("4")
	if len(author.BookIDs) != 0 {
		t.Errorf("author 4 books = %v, want empty", author.BookIDs)
	}

	second, err := mr.AddBook(ctx, "1984", "4", nil, []string{}, nil)
	if err != nil {
		t.Fatalf("AddBook() error = %v", err)
	}
	if second.ID != "6" {
		t.Errorf("second AddBook().ID = %q, want 6", second.ID)
	}
}

func TestMutationAddCategory(t *testing.T) {
	resolver, core := setupTestResolver(t)
	ctx := context.Background()
	mr := resolver.Mutation()

	got, err := mr.AddCategory(ctx, "Manga", []*string{ptr("4"), nil})
	if err != nil {
		t.Fatalf("AddCategory() error = %v", err)
	}
	if got.ID != "4" || got.Name != "Manga" {
		t.Errorf("AddCategory() = %+v, want ID 4 named Manga", got)
	}
	if !slices.Equal(got.BookIDs, []string{"4"}) {
		t.Errorf("AddCategory().BookIDs = %v, want [4]", got.BookIDs)
	}

	if _, err := core.GetCategory("4"); err != nil {
		t.Errorf("GetCategory(4) error = %v", err)
	}

	empty, err := mr.AddCategory(ctx, "Poetry", nil)
	if err != nil {
		t.Fatalf("AddCategory() error = %v", err)
	}
	if empty.BookIDs == nil || len(empty.BookIDs) != 0 {
		t.Errorf("AddCategory(nil books).BookIDs = %v, want empty list", empty.BookIDs)
	}
}

func TestMutationUpdateBook(t *testing.T) {
	resolver, core := setupTestResolver(t)
	ctx := context.Background()
	mr := resolver.Mutation()

	t.Run("partial update", func(t *testing.T) {
		got, err := mr.UpdateBook(ctx, "4", ptr("C Desk Reference"), nil, ptr("Updated."), nil)
		if err != nil {
			t.Fatalf("UpdateBook() error = %v", err)
		}
		if got.Title != "C Desk Reference" {
			t.Errorf("Title = %q, want %q", got.Title, "C Desk Reference")
		}
		if got.AuthorID != "2" {
			t.Errorf("AuthorID = %q, want unchanged 2", got.AuthorID)
		}
		if !slices.Equal(got.CategoryIDs, []string{"3"}) {
			t.Errorf("CategoryIDs = %v, want unchanged [3]", got.CategoryIDs)
		}

		stored, _ := core.GetBook("4")
		if stored.Title != "C Desk Reference" {
			t.Errorf("stored Title = %q", stored.Title)
		}
	})

	t.Run("replace categories", func(t *testing.T) {
		got, err := mr.UpdateBook(ctx, "1", nil, ptr("3"), nil, []*string{})
		if err != nil {
			t.Fatalf("UpdateBook() error = %v", err)
		}
		if got.AuthorID != "3" {
			t.Errorf("AuthorID = %q, want 3", got.AuthorID)
		}
		if len(got.CategoryIDs) != 0 {
			t.Errorf("CategoryIDs = %v, want empty", got.CategoryIDs)
		}
	})

	t.Run("missing", func(t *testing.T) {
		_, err := mr.UpdateBook(ctx, "9", ptr("Nope"), nil, nil, nil)
		assertNotFound(t, err, "This book does not exist.")
	})
}

func TestCompactIDs(t *testing.T) {
	if got := compactIDs(nil); got != nil {
		t.Errorf("compactIDs(nil) = %v, want nil", got)
	}
	if got := compactIDs([]*string{}); got == nil || len(got) != 0 {
		t.Errorf("compactIDs(empty) = %#v, want empty non-nil list", got)
	}
	if got := compactIDs([]*string{ptr("2"), nil, ptr("3")}); !slices.Equal(got, []string{"2", "3"}) {
		t.Errorf("compactIDs() = %v, want [2 3]", got)
	}
}
