// Package api provides the HTTP API server and handlers for the Treehouse application.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/treehouse-books/treehouse-server/internal/auth"
	"github.com/treehouse-books/treehouse-server/internal/chat"
	"github.com/treehouse-books/treehouse-server/internal/http/response"
	"github.com/treehouse-books/treehouse-server/internal/ratelimit"
	"github.com/treehouse-books/treehouse-server/internal/search"
	"github.com/treehouse-books/treehouse-server/internal/service"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	authService    *service.AuthService
	bookService    *service.BookService
	userService    *service.UserService
	quizService    *service.QuizService
	vocabService   *service.VocabularyService
	recommendation *service.RecommendationService
	tokens         *auth.TokenService
	hub            *chat.Hub
	index          *search.Index
	authLimiter    *ratelimit.KeyedRateLimiter
	corsOrigin     string
	router         *chi.Mux
	logger         *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(
	authService *service.AuthService,
	bookService *service.BookService,
	userService *service.UserService,
	quizService *service.QuizService,
	vocabService *service.VocabularyService,
	recommendation *service.RecommendationService,
	tokens *auth.TokenService,
	hub *chat.Hub,
	index *search.Index,
	corsOrigin string,
	logger *slog.Logger,
) *Server {
	s := &Server{
		authService:    authService,
		bookService:    bookService,
		userService:    userService,
		quizService:    quizService,
		vocabService:   vocabService,
		recommendation: recommendation,
		tokens:         tokens,
		hub:            hub,
		index:          index,
		authLimiter:    ratelimit.New(1, 10),
		corsOrigin:     corsOrigin,
		router:         chi.NewRouter(),
		logger:         logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.corsOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public, rate limited per IP).
		r.Route("/auth", func(r chi.Router) {
			r.Use(s.rateLimitByIP(s.authLimiter))
			r.Post("/register", s.handleRegister)
			r.Post("/login", s.handleLogin)
			r.Post("/refresh", s.handleRefresh)
			r.With(s.requireAuth).Post("/logout", s.handleLogout)
		})

		// User endpoints.
		r.Route("/users", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/me", s.handleGetCurrentUser)
			r.Get("/leaderboard", s.handleLeaderboard)
			r.Get("/me/completed", s.handleListCompletedBooks)
			r.Post("/me/completed/{bookID}", s.handleCompleteBook)
		})

		// Catalog.
		r.Route("/books", func(r chi.Router) {
			r.Get("/", s.handleListBooks)
			r.Get("/{id}", s.handleGetBook)
			r.With(s.requireAuth).Post("/", s.handleCreateBook)
			r.With(s.requireAuth, s.requireAdmin).Put("/{id}", s.handleUpdateBook)
			r.With(s.requireAuth).Post("/{id}/tags", s.handleAddTags)

			// Drawings and their comments.
			r.With(s.requireAuth).Post("/{id}/drawings", s.handleAddDrawing)
			r.Route("/{id}/drawings/{drawingID}", func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Post("/like", s.handleLikeDrawing)
				r.Post("/unlike", s.handleUnlikeDrawing)
				r.Get("/comments", s.handleListComments)
				r.Post("/comments", s.handleAddComment)
				r.Delete("/comments/{commentID}", s.handleDeleteComment)
			})

			// Vocabulary.
			r.Get("/{id}/vocabulary", s.handleListVocabulary)
			r.With(s.requireAuth, s.requireAdmin).Post("/{id}/vocabulary", s.handleBulkAddVocabulary)
		})

		// Quizzes.
		r.Route("/quiz", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/book/{bookID}", s.handleGenerateQuiz)
			r.Post("/book/{bookID}/complete", s.handleCompleteQuiz)
		})

		// Recommendations and the graph projection.
		r.Route("/recommendations", func(r chi.Router) {
			// Historically unauthenticated; kept that way for client
			// compatibility. Admins should prefer /maintenance/sync-graph.
			r.Post("/sync", s.handleSyncGraph)
			r.Get("/similar/{bookID}", s.handleSimilarBooks)
			r.Get("/tag/{tag}", s.handleBooksByTag)
			r.Get("/graph", s.handleExportGraph)
			r.With(s.requireAuth).Get("/user", s.handleUserRecommendations)
		})

		r.Route("/maintenance", func(r chi.Router) {
			r.Use(s.requireAuth, s.requireAdmin)
			r.Post("/sync-graph", s.handleSyncGraph)
		})

		// Search.
		r.With(s.requireAuth).Get("/search", s.handleSearch)

		// Chat (token optional, checked inside the handler).
		r.Get("/chat/ws", s.handleChatWS)
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
	}, s.logger)
}
