// Package catalogcore provides a thread-safe in-memory store for the library catalog.
// Books, authors and categories live in ordered, append-only collections that are
// seeded at startup and discarded when the process exits.
package catalogcore

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/hmans/shelf/internal/catalog"
	"github.com/hmans/shelf/internal/config"
	"github.com/hmans/shelf/internal/search"
)

var ErrNotFound = errors.New("not found")

func bookID(b *catalog.Book) string         { return b.ID }
func authorID(a *catalog.Author) string     { return a.ID }
func categoryID(c *catalog.Category) string { return c.ID }

// Core provides thread-safe in-memory storage for the catalog.
//
// Stored records are never modified in place. Updates replace a record with an
// updated copy, so a record handed out by a read stays valid while writes continue.
type Core struct {
	config *config.Config
	logger *zap.Logger

	mu         sync.RWMutex
	books      []*catalog.Book
	authors    []*catalog.Author
	categories []*catalog.Category

	index *search.Index

	watchMu  sync.Mutex
	watching bool
	done     chan struct{}
}

// New creates an empty Core with the given configuration.
func New(cfg *config.Config) *Core {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Core{
		config: cfg,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger used for catalog events. A nil logger disables logging.
func (c *Core) SetLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c.logger = logger
}

// Config returns the configuration.
func (c *Core) Config() *config.Config {
	return c.config
}

// Load seeds the catalog from the configured seed file, or from the built-in
// dataset when none is configured.
func (c *Core) Load() error {
	ds := catalog.DefaultDataset()
	if path := c.config.Catalog.Seed; path != "" {
		var err error
		ds, err = catalog.LoadDatasetFile(path)
		if err != nil {
			return err
		}
	}
	return c.Seed(ds)
}

// Seed replaces the catalog contents with the given dataset and rebuilds the
// search index.
func (c *Core) Seed(ds *catalog.Dataset) error {
	if err := ds.Validate(); err != nil {
		return fmt.Errorf("invalid dataset: %w", err)
	}

	idx, err := search.NewIndex()
	if err != nil {
		return fmt.Errorf("creating search index: %w", err)
	}
	if err := idx.IndexBooks(ds.Books); err != nil {
		idx.Close()
		return fmt.Errorf("indexing books: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index != nil {
		c.index.Close()
	}
	c.index = idx
	c.books = append([]*catalog.Book(nil), ds.Books...)
	c.authors = append([]*catalog.Author(nil), ds.Authors...)
	c.categories = append([]*catalog.Category(nil), ds.Categories...)

	c.logger.Info("catalog seeded",
		zap.Int("books", len(c.books)),
		zap.Int("authors", len(c.authors)),
		zap.Int("categories", len(c.categories)),
	)
	return nil
}

// Books returns all books in store order.
func (c *Core) Books() []*catalog.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]*catalog.Book{}, c.books...)
}

// Authors returns all authors in store order.
func (c *Core) Authors() []*catalog.Author {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]*catalog.Author{}, c.authors...)
}

// Categories returns all categories in store order.
func (c *Core) Categories() []*catalog.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return append([]*catalog.Category{}, c.categories...)
}

// GetBook finds a book by exact ID.
func (c *Core) GetBook(id string) (*catalog.Book, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if b, ok := findByID(c.books, id, bookID); ok {
		return b, nil
	}
	return nil, fmt.Errorf("book %q: %w", id, ErrNotFound)
}

// GetAuthor finds an author by exact ID.
func (c *Core) GetAuthor(id string) (*catalog.Author, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if a, ok := findByID(c.authors, id, authorID); ok {
		return a, nil
	}
	return nil, fmt.Errorf("author %q: %w", id, ErrNotFound)
}

// GetCategory finds a category by exact ID.
func (c *Core) GetCategory(id string) (*catalog.Category, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if cat, ok := findByID(c.categories, id, categoryID); ok {
		return cat, nil
	}
	return nil, fmt.Errorf("category %q: %w", id, ErrNotFound)
}

// BooksByIDs returns the books whose ID is in ids, in store order.
// IDs that match no book are ignored.
func (c *Core) BooksByIDs(ids []string) []*catalog.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return filterByIDs(c.books, ids, bookID)
}

// CategoriesByIDs returns the categories whose ID is in ids, in store order.
// IDs that match no category are ignored.
func (c *Core) CategoriesByIDs(ids []string) []*catalog.Category {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return filterByIDs(c.categories, ids, categoryID)
}

// BooksWithID returns the books whose own ID equals id.
func (c *Core) BooksWithID(id string) []*catalog.Book {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := []*catalog.Book{}
	for _, b := range c.books {
		if b.ID == id {
			result = append(result, b)
		}
	}
	return result
}

// CreateBook assigns the next book ID to b and appends it to the catalog.
// The author and category references are stored as given, without checking
// that they exist. Author and category back-references are not updated.
func (c *Core) CreateBook(b *catalog.Book) error {
	stored := b.Clone()
	if stored.CategoryIDs == nil {
		stored.CategoryIDs = []string{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// ID derivation and append happen under the same lock, keeping IDs gap-free
	stored.ID = nextID(len(c.books))

	if err := c.indexBook(stored); err != nil {
		return err
	}
	c.books = append(c.books, stored)
	b.ID, b.CategoryIDs = stored.ID, slices.Clone(stored.CategoryIDs)

	c.logger.Info("book created",
		zap.String("id", stored.ID),
		zap.String("title", stored.Title),
		zap.String("author", stored.AuthorID),
		zap.Strings("categories", stored.CategoryIDs),
	)
	return nil
}

// CreateCategory assigns the next category ID to cat and appends it to the catalog.
func (c *Core) CreateCategory(cat *catalog.Category) error {
	if cat.BookIDs == nil {
		cat.BookIDs = []string{}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	cat.ID = nextID(len(c.categories))
	stored := *cat
	stored.BookIDs = append([]string{}, cat.BookIDs...)
	c.categories = append(c.categories, &stored)

	c.logger.Info("category created",
		zap.String("id", stored.ID),
		zap.String("name", stored.Name),
	)
	return nil
}

// UpdateBook overwrites the fields set in u on the book with the given ID and
// returns the updated book.
func (c *Core) UpdateBook(id string, u catalog.BookUpdate) (*catalog.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pos := -1
	for i, b := range c.books {
		if b.ID == id {
			pos = i
			break
		}
	}
	if pos < 0 {
		return nil, fmt.Errorf("book %q: %w", id, ErrNotFound)
	}

	if u.IsEmpty() {
		return c.books[pos], nil
	}

	updated := u.Apply(c.books[pos])
	if err := c.indexBook(updated); err != nil {
		return nil, err
	}
	c.books[pos] = updated

	c.logger.Info("book updated", zap.String("id", id))
	return updated, nil
}

// indexBook adds b to the search index (must be called with lock held).
func (c *Core) indexBook(b *catalog.Book) error {
	if c.index == nil {
		return nil
	}
	if err := c.index.IndexBook(b); err != nil {
		return fmt.Errorf("indexing book %s: %w", b.ID, err)
	}
	return nil
}

// SearchBooks runs a full-text query over book titles and descriptions and
// returns up to limit matching books in store order. A limit of 0 or less uses
// the configured search limit.
func (c *Core) SearchBooks(query string, limit int) ([]*catalog.Book, error) {
	if strings.TrimSpace(query) == "" {
		return []*catalog.Book{}, nil
	}
	if limit <= 0 {
		limit = c.config.Search.Limit
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.index == nil {
		return []*catalog.Book{}, nil
	}
	ids, err := c.index.Search(query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching books: %w", err)
	}
	return filterByIDs(c.books, ids, bookID), nil
}

// Close stops watching the seed file and releases the search index.
func (c *Core) Close() error {
	c.Unwatch()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.index == nil {
		return nil
	}
	err := c.index.Close()
	c.index = nil
	return err
}
