package graph

// This file will be automatically regenerated based on the schema, any resolver implementations
// will be copied through when generating and any unknown code will be moved to the end.
// Code generated by github.com/99designs/gqlgen version v0.17.84

import (
	"context"
	"errors"

	"github.com/hmans/shelf/internal/catalog"
	"github.com/hmans/shelf/internal/catalogcore"
)

// Books is the resolver for the books field.
func (r *authorResolver) Books(ctx context.Context, obj *catalog.Author) ([]*catalog.Book, error) {
	return r.Core.BooksByIDs(obj.BookIDs), nil
}

// Author is the resolver for the author field.
func (r *bookResolver) Author(ctx context.Context, obj *catalog.Book) (*catalog.Author, error) {
	author, err := r.Core.GetAuthor(obj.AuthorID)
	if errors.Is(err, catalogcore.ErrNotFound) {
		return nil, nil
	}
	return author, err
}

// Categories is the resolver for the categories field.
func (r *bookResolver) Categories(ctx context.Context, obj *catalog.Book) ([]*catalog.Category, error) {
	return r.Core.CategoriesByIDs(obj.CategoryIDs), nil
}

// Books is the resolver for the books field.
func (r *categoryResolver) Books(ctx context.Context, obj *catalog.Category) ([]*catalog.Book, error) {
	// Matches on the category's own ID, not on its book list.
	return r.Core.BooksWithID(obj.ID), nil
}

// AddBook is the resolver for the addBook field.
func (r *mutationResolver) AddBook(ctx context.Context, title string, authorID string, coverImage *string, categoryIds []string, description *string) (*catalog.Book, error) {
	b := &catalog.Book{
		Title:       title,
		AuthorID:    authorID,
		CoverImage:  coverImage,
		CategoryIDs: categoryIds,
		Description: description,
	}
	if err := r.Core.CreateBook(b); err != nil {
		return nil, err
	}
	return b, nil
}

// AddCategory is the resolver for the addCategory field.
func (r *mutationResolver) AddCategory(ctx context.Context, name string, bookIds []*string) (*catalog.Category, error) {
	cat := &catalog.Category{
		Name:    name,
		BookIDs: compactIDs(bookIds),
	}
	if err := r.Core.CreateCategory(cat); err != nil {
		return nil, err
	}
	return cat, nil
}

// UpdateBook is the resolver for the updateBook field.
func (r *mutationResolver) UpdateBook(ctx context.Context, id string, title *string, authorID *string, description *string, categoryIds []*string) (*catalog.Book, error) {
	b, err := r.Core.UpdateBook(id, catalog.BookUpdate{
		Title:       title,
		AuthorID:    authorID,
		Description: description,
		CategoryIDs: compactIDs(categoryIds),
	})
	if err != nil {
		return nil, notFound("book", err)
	}
	return b, nil
}

// GetBooks is the resolver for the getBooks field.
func (r *queryResolver) GetBooks(ctx context.Context) ([]*catalog.Book, error) {
	return r.Core.Books(), nil
}

// GetBook is the resolver for the getBook field.
func (r *queryResolver) GetBook(ctx context.Context, id string) (*catalog.Book, error) {
	b, err := r.Core.GetBook(id)
	if err != nil {
		return nil, notFound("book", err)
	}
	return b, nil
}

// GetAuthor is the resolver for the getAuthor field.
func (r *queryResolver) GetAuthor(ctx context.Context, id string) (*catalog.Author, error) {
	a, err := r.Core.GetAuthor(id)
	if err != nil {
		return nil, notFound("author", err)
	}
	return a, nil
}

// GetCategory is the resolver for the getCategory field.
func (r *queryResolver) GetCategory(ctx context.Context, id string) (*catalog.Category, error) {
	c, err := r.Core.GetCategory(id)
	if err != nil {
		return nil, notFound("category", err)
	}
	return c, nil
}

// GetAuthors is the resolver for the getAuthors field.
func (r *queryResolver) GetAuthors(ctx context.Context) ([]*catalog.Author, error) {
	return r.Core.Authors(), nil
}

// GetCategories is the resolver for the getCategories field.
func (r *queryResolver) GetCategories(ctx context.Context) ([]*catalog.Category, error) {
	return r.Core.Categories(), nil
}

// SearchBooks is the resolver for the searchBooks field.
func (r *queryResolver) SearchBooks(ctx context.Context, query string, limit *int) ([]*catalog.Book, error) {
	n := 0
	if limit != nil {
		n = *limit
	}
	return r.Core.SearchBooks(query, n)
}

// Author returns AuthorResolver implementation.
func (r *Resolver) Author() AuthorResolver { return &authorResolver{r} }

// Book returns BookResolver implementation.
func (r *Resolver) Book() BookResolver { return &bookResolver{r} }

// Category returns CategoryResolver implementation.
func (r *Resolver) Category() CategoryResolver { return &categoryResolver{r} }

// Mutation returns MutationResolver implementation.
func (r *Resolver) Mutation() MutationResolver { return &mutationResolver{r} }

// Query returns QueryResolver implementation.
func (r *Resolver) Query() QueryResolver { return &queryResolver{r} }

type authorResolver struct{ *Resolver }
type bookResolver struct{ *Resolver }
type categoryResolver struct{ *Resolver }
type mutationResolver struct{ *Resolver }
type queryResolver struct{ *Resolver }
