// Package di provides dependency injection configuration for the Treehouse server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/treehouse-books/treehouse-server/internal/auth"
	"github.com/treehouse-books/treehouse-server/internal/config"
	"github.com/treehouse-books/treehouse-server/internal/di/providers"
	"github.com/treehouse-books/treehouse-server/internal/graph"
	"github.com/treehouse-books/treehouse-server/internal/logger"
	"github.com/treehouse-books/treehouse-server/internal/service"
	"github.com/treehouse-books/treehouse-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideGraphStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideSyncer)
	do.Provide(injector, providers.ProvidePointsService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideBookService)
	do.Provide(injector, providers.ProvideUserService)
	do.Provide(injector, providers.ProvideQuizService)
	do.Provide(injector, providers.ProvideVocabularyService)
	do.Provide(injector, providers.ProvideRecommendationService)

	// Chat hub
	do.Provide(injector, providers.ProvideChatHub)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.GraphHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*graph.Syncer](injector)
	_ = do.MustInvoke[*service.PointsService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.BookService](injector)
	_ = do.MustInvoke[*service.UserService](injector)
	_ = do.MustInvoke[*service.QuizService](injector)
	_ = do.MustInvoke[*service.VocabularyService](injector)
	_ = do.MustInvoke[*service.RecommendationService](injector)

	// Chat and server
	_ = do.MustInvoke[*providers.ChatHubHandle](injector)
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}
