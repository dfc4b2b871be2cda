package graph

import (
	"context"
	"fmt"
)

// SimilarBook is one entry of a similar-books result, ordered by score.
type SimilarBook struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	SimilarityScore int    `json:"similarityScore"`
}

// TaggedBook is one entry of a books-by-tag result.
type TaggedBook struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Recommendation is one entry of a personalized recommendation result.
type Recommendation struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Score int    `json:"score"`
}

// SimilarBooks returns up to 5 books sharing at least one genre or tag with
// the given book, scored 2 per shared genre plus 1 per shared tag and
// ordered by descending score. The book itself is excluded. An unknown book
// ID simply yields an empty result.
func (s *Store) SimilarBooks(ctx context.Context, bookID string) ([]SimilarBook, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT other.node_key, other.title,
		       SUM(CASE WHEN shared.label = ? THEN 2 ELSE 1 END) AS similarity
		FROM nodes target
		JOIN edges te ON te.source_id = target.id AND te.type IN (?, ?)
		JOIN nodes shared ON shared.id = te.target_id
		JOIN edges oe ON oe.target_id = shared.id AND oe.type = te.type
		JOIN nodes other ON other.id = oe.source_id AND other.label = ?
		WHERE target.label = ? AND target.node_key = ? AND other.node_key <> target.node_key
		GROUP BY other.id, other.node_key, other.title
		ORDER BY similarity DESC, other.title ASC
		LIMIT 5`,
		LabelGenre, EdgeInGenre, EdgeHasTag, LabelBook, LabelBook, bookID)
	if err != nil {
		return nil, fmt.Errorf("query similar books: %w", err)
	}
	defer rows.Close()

	results := []SimilarBook{}
	for rows.Next() {
		var b SimilarBook
		if err := rows.Scan(&b.ID, &b.Title, &b.SimilarityScore); err != nil {
			return nil, fmt.Errorf("scan similar book: %w", err)
		}
		results = append(results, b)
	}
	return results, rows.Err()
}

// BooksByTag returns every book carrying an exact-match HAS_TAG edge to the
// given tag. Tag matching is literal; callers normalize casing upstream.
func (s *Store) BooksByTag(ctx context.Context, tag string) ([]TaggedBook, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT b.node_key, b.title
		FROM nodes t
		JOIN edges e ON e.target_id = t.id AND e.type = ?
		JOIN nodes b ON b.id = e.source_id AND b.label = ?
		WHERE t.label = ? AND t.node_key = ?
		ORDER BY b.title ASC`,
		EdgeHasTag, LabelBook, LabelTag, tag)
	if err != nil {
		return nil, fmt.Errorf("query books by tag: %w", err)
	}
	defer rows.Close()

	results := []TaggedBook{}
	for rows.Next() {
		var b TaggedBook
		if err := rows.Scan(&b.ID, &b.Title); err != nil {
			return nil, fmt.Errorf("scan tagged book: %w", err)
		}
		results = append(results, b)
	}
	return results, rows.Err()
}

// RecommendationsForUser returns up to 10 unread books sharing genres with
// the books the user has READ edges to, scored by the count of distinct
// shared genres. Users without READ edges get an empty result.
func (s *Store) RecommendationsForUser(ctx context.Context, userID string) ([]Recommendation, error) {
	rows, err := s.db.QueryContext(ctx, `
		WITH read_books AS (
			SELECT e.target_id AS book_id
			FROM nodes u
			JOIN edges e ON e.source_id = u.id AND e.type = ?
			WHERE u.label = ? AND u.node_key = ?
		),
		read_genres AS (
			SELECT DISTINCT e.target_id AS genre_id
			FROM edges e
			WHERE e.type = ? AND e.source_id IN (SELECT book_id FROM read_books)
		)
		SELECT b.node_key, b.title, COUNT(DISTINCT e.target_id) AS score
		FROM edges e
		JOIN nodes b ON b.id = e.source_id AND b.label = ?
		WHERE e.type = ?
		  AND e.target_id IN (SELECT genre_id FROM read_genres)
		  AND b.id NOT IN (SELECT book_id FROM read_books)
		GROUP BY b.id, b.node_key, b.title
		ORDER BY score DESC, b.title ASC
		LIMIT 10`,
		EdgeRead, LabelUser, userID, EdgeInGenre, LabelBook, EdgeInGenre)
	if err != nil {
		return nil, fmt.Errorf("query recommendations: %w", err)
	}
	defer rows.Close()

	results := []Recommendation{}
	for rows.Next() {
		var r Recommendation
		if err := rows.Scan(&r.ID, &r.Title, &r.Score); err != nil {
			return nil, fmt.Errorf("scan recommendation: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
