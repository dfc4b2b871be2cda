package service

import (
	"context"
	"fmt"
	"log/slog"

	domainerrors "github.com/treehouse-books/treehouse-server/internal/errors"
	"github.com/treehouse-books/treehouse-server/internal/graph"
)

// RecommendationService fronts the graph projection: sync triggers and the
// read-only recommendation queries.
type RecommendationService struct {
	graph  *graph.Store
	syncer *graph.Syncer
	logger *slog.Logger
}

// NewRecommendationService creates a new recommendation service.
func NewRecommendationService(graphStore *graph.Store, syncer *graph.Syncer, logger *slog.Logger) *RecommendationService {
	return &RecommendationService{graph: graphStore, syncer: syncer, logger: logger}
}

// Sync runs a full catalog-to-graph rebuild.
func (s *RecommendationService) Sync(ctx context.Context) error {
	return s.syncer.Sync(ctx)
}

// SimilarBooks returns books sharing genres or tags with the given book.
func (s *RecommendationService) SimilarBooks(ctx context.Context, bookID string) ([]graph.SimilarBook, error) {
	return s.graph.SimilarBooks(ctx, bookID)
}

// BooksByTag returns books carrying the exact tag.
func (s *RecommendationService) BooksByTag(ctx context.Context, tag string) ([]graph.TaggedBook, error) {
	return s.graph.BooksByTag(ctx, tag)
}

// ForUser returns personalized recommendations from the user's READ edges.
// Empty until something populates those edges; the sync job doesn't.
func (s *RecommendationService) ForUser(ctx context.Context, userID string) ([]graph.Recommendation, error) {
	return s.graph.RecommendationsForUser(ctx, userID)
}

// Export returns the filtered graph for visualization. NodeType, when
// present, must be one of the known labels.
func (s *RecommendationService) Export(ctx context.Context, nodeType, value string) (*graph.ExportResult, error) {
	switch nodeType {
	case "", graph.LabelBook, graph.LabelAuthor, graph.LabelGenre, graph.LabelTag, graph.LabelUser:
	default:
		return nil, domainerrors.Validationf("unknown node type: %q", nodeType)
	}

	export, err := s.graph.Export(ctx, graph.ExportFilter{NodeType: nodeType, Value: value})
	if err != nil {
		return nil, fmt.Errorf("export graph: %w", err)
	}
	return export, nil
}
