// Package catalog defines the records held by the library catalog: books, authors
// and categories, plus the seed dataset the catalog starts from.
package catalog

import "slices"

// Book is a single title in the catalog.
type Book struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	AuthorID    string   `json:"author" yaml:"author"`
	CoverImage  *string  `json:"coverImage,omitempty" yaml:"coverImage,omitempty"`
	CategoryIDs []string `json:"categories" yaml:"categories"`
	Description *string  `json:"description,omitempty" yaml:"description,omitempty"`
}

// Clone returns a deep copy of the book.
func (b *Book) Clone() *Book {
	c := *b
	c.CategoryIDs = slices.Clone(b.CategoryIDs)
	if b.CoverImage != nil {
		v := *b.CoverImage
		c.CoverImage = &v
	}
	if b.Description != nil {
		v := *b.Description
		c.Description = &v
	}
	return &c
}

// Author writes books. BookIDs is a back-reference recorded when the catalog is
// seeded; the authoritative link is Book.AuthorID.
type Author struct {
	ID        string   `json:"id" yaml:"id"`
	FirstName string   `json:"firstName" yaml:"firstName"`
	LastName  string   `json:"lastName" yaml:"lastName"`
	BookIDs   []string `json:"books" yaml:"books"`
}

// Category groups books. Like Author.BookIDs, BookIDs is a back-reference.
type Category struct {
	ID      string   `json:"id" yaml:"id"`
	Name    string   `json:"name" yaml:"name"`
	BookIDs []string `json:"books" yaml:"books"`
}

// BookUpdate holds the fields to overwrite on an existing book.
// Nil fields are left untouched.
type BookUpdate struct {
	Title       *string
	AuthorID    *string
	Description *string
	CategoryIDs []string
}

// IsEmpty returns true if the update would not change anything.
func (u BookUpdate) IsEmpty() bool {
	return u.Title == nil && u.AuthorID == nil && u.Description == nil && u.CategoryIDs == nil
}

// Apply returns a copy of b with the update's fields overwritten.
// The original book is not modified.
func (u BookUpdate) Apply(b *Book) *Book {
	updated := b.Clone()
	if u.Title != nil {
		updated.Title = *u.Title
	}
	if u.AuthorID != nil {
		updated.AuthorID = *u.AuthorID
	}
	if u.Description != nil {
		v := *u.Description
		updated.Description = &v
	}
	if u.CategoryIDs != nil {
		updated.CategoryIDs = slices.Clone(u.CategoryIDs)
	}
	return updated
}
