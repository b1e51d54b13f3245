// Package search provides full-text search over catalog books using Bleve.
package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/hmans/shelf/internal/catalog"
)

// Index wraps a Bleve in-memory index for searching books.
type Index struct {
	index bleve.Index
}

// bookDocument is the structure stored in the Bleve index.
type bookDocument struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	AuthorID    string   `json:"author_id"`
	CategoryIDs []string `json:"category_ids,omitempty"`
}

func newBookDocument(b *catalog.Book) bookDocument {
	doc := bookDocument{
		ID:          b.ID,
		Title:       b.Title,
		AuthorID:    b.AuthorID,
		CategoryIDs: b.CategoryIDs,
	}
	if b.Description != nil {
		doc.Description = *b.Description
	}
	return doc
}

// NewIndex creates a new in-memory Bleve index.
func NewIndex() (*Index, error) {
	idx, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, err
	}
	return &Index{index: idx}, nil
}

// buildIndexMapping creates the Bleve index mapping for book documents.
func buildIndexMapping() mapping.IndexMapping {
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = "standard"

	// Identifiers are matched exactly
	keywordFieldMapping := bleve.NewKeywordFieldMapping()

	bookMapping := bleve.NewDocumentMapping()
	bookMapping.AddFieldMappingsAt("id", keywordFieldMapping)
	bookMapping.AddFieldMappingsAt("title", textFieldMapping)
	bookMapping.AddFieldMappingsAt("description", textFieldMapping)
	bookMapping.AddFieldMappingsAt("author_id", keywordFieldMapping)
	bookMapping.AddFieldMappingsAt("category_ids", keywordFieldMapping)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = bookMapping
	indexMapping.DefaultAnalyzer = "standard"
	indexMapping.IndexDynamic = false
	indexMapping.StoreDynamic = false
	indexMapping.ScoringModel = "bm25"

	return indexMapping
}

// Close closes the index.
func (idx *Index) Close() error {
	return idx.index.Close()
}

// IndexBook adds or replaces a book in the index.
func (idx *Index) IndexBook(b *catalog.Book) error {
	return idx.index.Index(b.ID, newBookDocument(b))
}

// IndexBooks indexes multiple books in one batch.
func (idx *Index) IndexBooks(books []*catalog.Book) error {
	batch := idx.index.NewBatch()
	for _, b := range books {
		if err := batch.Index(b.ID, newBookDocument(b)); err != nil {
			return err
		}
	}
	return idx.index.Batch(batch)
}

// Search executes a query string search and returns the matching book IDs,
// best match first. At most limit IDs are returned; limit must be positive.
//
// The query string syntax supports plain terms ("potter"), phrases
// ("\"goblet of fire\""), wildcards ("azka*") and field queries
// ("author_id:1", "category_ids:3").
func (idx *Index) Search(queryStr string, limit int) ([]string, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("search limit must be positive, got %d", limit)
	}

	req := bleve.NewSearchRequest(bleve.NewQueryStringQuery(queryStr))
	req.Size = limit

	result, err := idx.index.Search(req)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		ids = append(ids, hit.ID)
	}
	return ids, nil
}
