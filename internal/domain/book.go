// Package domain contains the core business entities for the Treehouse reading platform.
package domain

import (
	"slices"
	"time"
)

// Genre is a closed enumeration of book genres.
type Genre string

// The full genre taxonomy. Books may carry any subset of these.
const (
	GenreAdventure  Genre = "Adventure"
	GenreFantasy    Genre = "Fantasy"
	GenreMystery    Genre = "Mystery"
	GenreScience    Genre = "Science"
	GenreHistorical Genre = "Historical"
	GenreEducation  Genre = "Educational"
	GenreFiction    Genre = "Fiction"
	GenreNonFiction Genre = "Non-Fiction"
)

// Genres lists every valid genre, in display order.
var Genres = []Genre{
	GenreAdventure,
	GenreFantasy,
	GenreMystery,
	GenreScience,
	GenreHistorical,
	GenreEducation,
	GenreFiction,
	GenreNonFiction,
}

// ValidGenre reports whether g is a member of the closed genre set.
func ValidGenre(g Genre) bool {
	return slices.Contains(Genres, g)
}

// AgeRange is the intended reader age band for a book.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// DefaultAgeRange is applied when a book is created without one.
var DefaultAgeRange = AgeRange{Min: 8, Max: 15}

// Book is an illustrated book in the catalog.
// Books are never hard-deleted; edits and drawing/comment/like sub-operations
// mutate the document in place.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	CoverImage  string    `json:"cover_image,omitempty"`
	Description string    `json:"description,omitempty"`
	Genres      []Genre   `json:"genres,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	AgeRange    AgeRange  `json:"age_range"`
	Drawings    []Drawing `json:"drawings"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Drawing is a reader's artwork attached to a book. The image itself lives in
// external object storage; only the URL is kept here.
type Drawing struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ImageURL  string    `json:"image_url"`
	Likes     []string  `json:"likes"` // user IDs, at most one entry per user
	Comments  []Comment `json:"comments"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is a short note on a drawing. The username is a snapshot taken at
// write time so renames don't rewrite history.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// MaxCommentLength caps comment content after trimming.
const MaxCommentLength = 500

// AddTags merges new tags into the book's tag set, suppressing duplicates.
// Returns the tags that were actually added.
func (b *Book) AddTags(tags []string) []string {
	added := make([]string, 0, len(tags))
	for _, t := range tags {
		if t == "" || slices.Contains(b.Tags, t) {
			continue
		}
		b.Tags = append(b.Tags, t)
		added = append(added, t)
	}
	return added
}

// Drawing finds an embedded drawing by ID.
func (b *Book) Drawing(id string) *Drawing {
	for i := range b.Drawings {
		if b.Drawings[i].ID == id {
			return &b.Drawings[i]
		}
	}
	return nil
}

// MostLikedDrawing returns the drawing with the most likes, or nil for a book
// without drawings.
func (b *Book) MostLikedDrawing() *Drawing {
	if len(b.Drawings) == 0 {
		return nil
	}
	best := &b.Drawings[0]
	for i := range b.Drawings {
		if len(b.Drawings[i].Likes) > len(best.Likes) {
			best = &b.Drawings[i]
		}
	}
	return best
}

// Like records a like by userID. Returns false if the user already liked the
// drawing (set semantics).
func (d *Drawing) Like(userID string) bool {
	if slices.Contains(d.Likes, userID) {
		return false
	}
	d.Likes = append(d.Likes, userID)
	return true
}

// Unlike removes a like by userID. Returns false if no like existed.
func (d *Drawing) Unlike(userID string) bool {
	i := slices.Index(d.Likes, userID)
	if i < 0 {
		return false
	}
	d.Likes = slices.Delete(d.Likes, i, i+1)
	return true
}

// Comment finds an embedded comment by ID.
func (d *Drawing) Comment(id string) *Comment {
	for i := range d.Comments {
		if d.Comments[i].ID == id {
			return &d.Comments[i]
		}
	}
	return nil
}

// RemoveComment deletes a comment by ID. Returns false if absent.
func (d *Drawing) RemoveComment(id string) bool {
	for i := range d.Comments {
		if d.Comments[i].ID == id {
			d.Comments = slices.Delete(d.Comments, i, i+1)
			return true
		}
	}
	return false
}
