package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/treehouse-books/treehouse-server/internal/domain"
	domainerrors "github.com/treehouse-books/treehouse-server/internal/errors"
	"github.com/treehouse-books/treehouse-server/internal/graph"
	"github.com/treehouse-books/treehouse-server/internal/id"
	"github.com/treehouse-books/treehouse-server/internal/search"
	"github.com/treehouse-books/treehouse-server/internal/store"
	"github.com/treehouse-books/treehouse-server/internal/validation"
)

// BookService orchestrates catalog operations and keeps the graph projection
// and search index in step with catalog writes.
type BookService struct {
	store     *store.Store
	points    *PointsService
	syncer    *graph.Syncer
	index     *search.Index
	validator *validation.Validator
	logger    *slog.Logger
}

// NewBookService creates a new book service.
func NewBookService(
	store *store.Store,
	points *PointsService,
	syncer *graph.Syncer,
	index *search.Index,
	validator *validation.Validator,
	logger *slog.Logger,
) *BookService {
	return &BookService{
		store:     store,
		points:    points,
		syncer:    syncer,
		index:     index,
		validator: validator,
		logger:    logger,
	}
}

// CreateBookRequest contains new book data.
type CreateBookRequest struct {
	Title       string           `json:"title" validate:"required,max=200"`
	Author      string           `json:"author" validate:"required,max=100"`
	CoverImage  string           `json:"cover_image" validate:"omitempty,url"`
	Description string           `json:"description" validate:"max=5000"`
	Genres      []string         `json:"genres"`
	Tags        []string         `json:"tags"`
	AgeRange    *domain.AgeRange `json:"age_range"`
}

// UpdateBookRequest contains partial book edits. Nil fields are untouched.
type UpdateBookRequest struct {
	Title       *string          `json:"title" validate:"omitempty,max=200"`
	Author      *string          `json:"author" validate:"omitempty,max=100"`
	CoverImage  *string          `json:"cover_image" validate:"omitempty,url"`
	Description *string          `json:"description" validate:"omitempty,max=5000"`
	Genres      *[]string        `json:"genres"`
	Tags        *[]string        `json:"tags"`
	AgeRange    *domain.AgeRange `json:"age_range"`
}

// parseGenres validates a genre list against the closed enum.
func parseGenres(raw []string) ([]domain.Genre, error) {
	genres := make([]domain.Genre, 0, len(raw))
	for _, g := range raw {
		genre := domain.Genre(g)
		if !domain.ValidGenre(genre) {
			return nil, domainerrors.Validationf("unknown genre: %q", g)
		}
		genres = append(genres, genre)
	}
	return genres, nil
}

func validateAgeRange(r domain.AgeRange) error {
	if r.Min > r.Max {
		return domainerrors.Validation("age range min must not exceed max")
	}
	return nil
}

// CreateBook adds a book to the catalog and projects it into the graph and
// search index.
func (s *BookService) CreateBook(ctx context.Context, req CreateBookRequest) (*domain.Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	genres, err := parseGenres(req.Genres)
	if err != nil {
		return nil, err
	}

	ageRange := domain.DefaultAgeRange
	if req.AgeRange != nil {
		if err := validateAgeRange(*req.AgeRange); err != nil {
			return nil, err
		}
		ageRange = *req.AgeRange
	}

	bookID, err := id.Generate("book")
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	now := time.Now().UTC()
	book := &domain.Book{
		ID:          bookID,
		Title:       req.Title,
		Author:      req.Author,
		CoverImage:  req.CoverImage,
		Description: req.Description,
		Genres:      genres,
		AgeRange:    ageRange,
		Drawings:    []domain.Drawing{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	book.AddTags(req.Tags)

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("Book created", "book_id", book.ID, "title", book.Title)
	s.refreshProjections(ctx, book)
	return book, nil
}

// UpdateBook applies a partial edit and refreshes the projections.
func (s *BookService) UpdateBook(ctx context.Context, bookID string, req UpdateBookRequest) (*domain.Book, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	var genres []domain.Genre
	if req.Genres != nil {
		parsed, err := parseGenres(*req.Genres)
		if err != nil {
			return nil, err
		}
		genres = parsed
	}
	if req.AgeRange != nil {
		if err := validateAgeRange(*req.AgeRange); err != nil {
			return nil, err
		}
	}

	book, err := s.store.MutateBook(ctx, bookID, func(b *domain.Book) error {
		if req.Title != nil {
			b.Title = *req.Title
		}
		if req.Author != nil {
			b.Author = *req.Author
		}
		if req.CoverImage != nil {
			b.CoverImage = *req.CoverImage
		}
		if req.Description != nil {
			b.Description = *req.Description
		}
		if req.Genres != nil {
			b.Genres = genres
		}
		if req.Tags != nil {
			b.Tags = nil
			b.AddTags(*req.Tags)
		}
		if req.AgeRange != nil {
			b.AgeRange = *req.AgeRange
		}
		b.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, s.bookStoreError(err)
	}

	s.refreshProjections(ctx, book)
	return book, nil
}

// GetBook returns one book.
func (s *BookService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, s.bookStoreError(err)
	}
	return book, nil
}

// ListBooks returns the whole catalog.
func (s *BookService) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return books, nil
}

// AddTags merges tags into a book's tag set and refreshes the projections
// when anything actually changed.
func (s *BookService) AddTags(ctx context.Context, bookID string, tags []string) (*domain.Book, error) {
	cleaned := make([]string, 0, len(tags))
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return nil, domainerrors.Validation("no tags provided")
	}

	var added []string
	book, err := s.store.MutateBook(ctx, bookID, func(b *domain.Book) error {
		added = b.AddTags(cleaned)
		if len(added) > 0 {
			b.UpdatedAt = time.Now().UTC()
		}
		return nil
	})
	if err != nil {
		return nil, s.bookStoreError(err)
	}

	if len(added) > 0 {
		s.refreshProjections(ctx, book)
	}
	return book, nil
}

// AddDrawingRequest contains a drawing upload. The image itself was already
// uploaded to external storage; we only keep the URL.
type AddDrawingRequest struct {
	ImageURL string `json:"image_url" validate:"required,url"`
}

// AddDrawing attaches a drawing to a book and awards upload points.
func (s *BookService) AddDrawing(ctx context.Context, bookID, userID string, req AddDrawingRequest) (*domain.Drawing, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	drawingID, err := id.Generate("drw")
	if err != nil {
		return nil, fmt.Errorf("generate drawing ID: %w", err)
	}

	drawing := domain.Drawing{
		ID:        drawingID,
		UserID:    userID,
		ImageURL:  req.ImageURL,
		Likes:     []string{},
		Comments:  []domain.Comment{},
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.store.MutateBook(ctx, bookID, func(b *domain.Book) error {
		b.Drawings = append(b.Drawings, drawing)
		return nil
	})
	if err != nil {
		return nil, s.bookStoreError(err)
	}

	if _, err := s.points.RecordDrawingUpload(ctx, userID, bookID, drawingID); err != nil {
		// The drawing is saved; a failed award shouldn't fail the upload.
		s.logger.Error("Failed to award upload points", "user_id", userID, "error", err)
	}

	return &drawing, nil
}

// LikeDrawing records a like and awards points to the drawing's owner.
// Liking a drawing twice is a no-op.
func (s *BookService) LikeDrawing(ctx context.Context, bookID, drawingID, userID string) (*domain.Drawing, error) {
	var (
		liked   bool
		ownerID string
		likes   int
		out     domain.Drawing
	)

	_, err := s.store.MutateBook(ctx, bookID, func(b *domain.Book) error {
		d := b.Drawing(drawingID)
		if d == nil {
			return store.ErrDrawingNotFound
		}
		liked = d.Like(userID)
		ownerID = d.UserID
		likes = len(d.Likes)
		out = *d
		return nil
	})
	if err != nil {
		return nil, s.bookStoreError(err)
	}

	if liked && ownerID != userID {
		if _, err := s.points.RecordLikeReceived(ctx, ownerID, bookID, drawingID, likes); err != nil {
			s.logger.Error("Failed to award like points", "owner_id", ownerID, "error", err)
		}
	}
	return &out, nil
}

// UnlikeDrawing removes a like. Points already awarded stay put.
func (s *BookService) UnlikeDrawing(ctx context.Context, bookID, drawingID, userID string) (*domain.Drawing, error) {
	var (
		removed bool
		ownerID string
		out     domain.Drawing
	)

	_, err := s.store.MutateBook(ctx, bookID, func(b *domain.Book) error {
		d := b.Drawing(drawingID)
		if d == nil {
			return store.ErrDrawingNotFound
		}
		removed = d.Unlike(userID)
		ownerID = d.UserID
		out = *d
		return nil
	})
	if err != nil {
		return nil, s.bookStoreError(err)
	}

	if removed && ownerID != userID {
		if err := s.points.RecordLikeRemoved(ctx, ownerID); err != nil {
			s.logger.Error("Failed to record like removal", "owner_id", ownerID, "error", err)
		}
	}
	return &out, nil
}

// AddCommentRequest contains a new comment.
type AddCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// AddComment attaches a comment to a drawing. The author's username is
// snapshotted into the comment; the drawing's owner earns points.
func (s *BookService) AddComment(ctx context.Context, bookID, drawingID, userID string, req AddCommentRequest) (*domain.Comment, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, domainerrors.Validation("comment cannot be empty")
	}
	if len(content) > domain.MaxCommentLength {
		return nil, domainerrors.Validationf("comment exceeds %d characters", domain.MaxCommentLength)
	}

	author, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("look up comment author: %w", err)
	}

	commentID, err := id.Generate("cmt")
	if err != nil {
		return nil, fmt.Errorf("generate comment ID: %w", err)
	}

	comment := domain.Comment{
		ID:        commentID,
		UserID:    userID,
		Username:  author.Username,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	var ownerID string
	_, err = s.store.MutateBook(ctx, bookID, func(b *domain.Book) error {
		d := b.Drawing(drawingID)
		if d == nil {
			return store.ErrDrawingNotFound
		}
		d.Comments = append(d.Comments, comment)
		ownerID = d.UserID
		return nil
	})
	if err != nil {
		return nil, s.bookStoreError(err)
	}

	if ownerID != userID {
		if _, err := s.points.RecordCommentReceived(ctx, ownerID, bookID, drawingID); err != nil {
			s.logger.Error("Failed to award comment points", "owner_id", ownerID, "error", err)
		}
	}
	if err := s.points.RecordCommentWritten(ctx, userID); err != nil {
		s.logger.Error("Failed to grant helper badge", "user_id", userID, "error", err)
	}

	return &comment, nil
}

// ListComments returns a drawing's comments.
func (s *BookService) ListComments(ctx context.Context, bookID, drawingID string) ([]domain.Comment, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, s.bookStoreError(err)
	}
	d := book.Drawing(drawingID)
	if d == nil {
		return nil, domainerrors.NotFound("drawing not found")
	}
	if d.Comments == nil {
		return []domain.Comment{}, nil
	}
	return d.Comments, nil
}

// DeleteComment removes a comment. Only the comment's author or an admin may
// delete it.
func (s *BookService) DeleteComment(ctx context.Context, bookID, drawingID, commentID, userID string, isAdmin bool) error {
	_, err := s.store.MutateBook(ctx, bookID, func(b *domain.Book) error {
		d := b.Drawing(drawingID)
		if d == nil {
			return store.ErrDrawingNotFound
		}
		c := d.Comment(commentID)
		if c == nil {
			return store.ErrCommentNotFound
		}
		if c.UserID != userID && !isAdmin {
			return domainerrors.Forbidden("you can only delete your own comments")
		}
		d.RemoveComment(commentID)
		return nil
	})
	if err != nil {
		return s.bookStoreError(err)
	}
	return nil
}

// refreshProjections updates the graph projection and search index after a
// catalog write. Failures are logged, never surfaced: the catalog is the
// source of truth and the next full sync repairs the projections.
func (s *BookService) refreshProjections(ctx context.Context, book *domain.Book) {
	if err := s.syncer.UpdateOne(ctx, book.ID); err != nil {
		s.logger.Error("Failed to update graph projection", "book_id", book.ID, "error", err)
	}
	if err := s.index.IndexDocument(search.BookToDocument(book)); err != nil {
		s.logger.Error("Failed to index book", "book_id", book.ID, "error", err)
	}
}

// bookStoreError maps store sentinels onto domain errors.
func (s *BookService) bookStoreError(err error) error {
	switch {
	case domainerrors.Is(err, store.ErrBookNotFound):
		return domainerrors.NotFound("book not found")
	case domainerrors.Is(err, store.ErrDrawingNotFound):
		return domainerrors.NotFound("drawing not found")
	case domainerrors.Is(err, store.ErrCommentNotFound):
		return domainerrors.NotFound("comment not found")
	default:
		return err
	}
}
