package providers

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"

	"github.com/treehouse-books/treehouse-server/internal/api"
	"github.com/treehouse-books/treehouse-server/internal/auth"
	"github.com/treehouse-books/treehouse-server/internal/config"
	"github.com/treehouse-books/treehouse-server/internal/logger"
	"github.com/treehouse-books/treehouse-server/internal/service"
)

// HTTPServerHandle wraps http.Server for lifecycle management.
type HTTPServerHandle struct {
	*http.Server
}

// Shutdown implements do.Shutdownable.
func (h *HTTPServerHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideHTTPServer provides the HTTP server and starts listening.
func ProvideHTTPServer(i do.Injector) (*HTTPServerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	srv := api.NewServer(
		do.MustInvoke[*service.AuthService](i),
		do.MustInvoke[*service.BookService](i),
		do.MustInvoke[*service.UserService](i),
		do.MustInvoke[*service.QuizService](i),
		do.MustInvoke[*service.VocabularyService](i),
		do.MustInvoke[*service.RecommendationService](i),
		do.MustInvoke[*auth.TokenService](i),
		do.MustInvoke[*ChatHubHandle](i).Hub,
		do.MustInvoke[*SearchIndexHandle](i).Index,
		cfg.Server.CORSOrigin,
		log.Logger,
	)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      srv,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("HTTP server failed", "error", err)
		}
	}()

	return &HTTPServerHandle{Server: httpServer}, nil
}
