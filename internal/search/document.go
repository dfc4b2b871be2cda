// Package search provides full-text search over the book catalog using Bleve.
package search

import (
	"github.com/treehouse-books/treehouse-server/internal/domain"
	"github.com/treehouse-books/treehouse-server/internal/util"
)

// Document is the book document structure for the Bleve index.
//
// Genres and tags are indexed as normalized slugs so filters match
// regardless of the casing stored in the catalog.
type Document struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description,omitempty"`
	Genres      []string `json:"genres,omitempty"`
	Tags        []string `json:"tags,omitempty"`

	// Unix millis, for sorting by recency.
	CreatedAt int64 `json:"created_at"`
}

// ToMap converts the document to a map with lowercase field names so they
// match the index mapping. Bleve would otherwise index the capitalized Go
// field names.
func (d *Document) ToMap() map[string]any {
	m := map[string]any{
		"id":         d.ID,
		"title":      d.Title,
		"author":     d.Author,
		"created_at": d.CreatedAt,
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if len(d.Genres) > 0 {
		m["genres"] = d.Genres
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	return m
}

// BookToDocument converts a catalog book to its search document.
func BookToDocument(book *domain.Book) *Document {
	doc := &Document{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		Description: book.Description,
		CreatedAt:   book.CreatedAt.UnixMilli(),
	}
	for _, genre := range book.Genres {
		doc.Genres = append(doc.Genres, util.NormalizeTag(string(genre)))
	}
	for _, tag := range book.Tags {
		doc.Tags = append(doc.Tags, util.NormalizeTag(tag))
	}
	return doc
}
