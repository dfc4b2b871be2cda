package providers

import (
	"github.com/samber/do/v2"

	"github.com/treehouse-books/treehouse-server/internal/auth"
	"github.com/treehouse-books/treehouse-server/internal/graph"
	"github.com/treehouse-books/treehouse-server/internal/logger"
	"github.com/treehouse-books/treehouse-server/internal/service"
	"github.com/treehouse-books/treehouse-server/internal/validation"
)

// ProvideValidator provides the request validator.
func ProvideValidator(i do.Injector) (*validation.Validator, error) {
	return validation.New(), nil
}

// ProvideSyncer provides the catalog-to-graph syncer.
func ProvideSyncer(i do.Injector) (*graph.Syncer, error) {
	graphHandle := do.MustInvoke[*GraphHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return graph.NewSyncer(graphHandle.Store, storeHandle.Store, log.Logger), nil
}

// ProvidePointsService provides the points and achievements service.
func ProvidePointsService(i do.Injector) (*service.PointsService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewPointsService(storeHandle.Store, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokens := do.MustInvoke[*auth.TokenService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokens, validator, log.Logger), nil
}

// ProvideBookService provides the catalog service.
func ProvideBookService(i do.Injector) (*service.BookService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	points := do.MustInvoke[*service.PointsService](i)
	syncer := do.MustInvoke[*graph.Syncer](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewBookService(storeHandle.Store, points, syncer, indexHandle.Index, validator, log.Logger), nil
}

// ProvideUserService provides the user profile and leaderboard service.
func ProvideUserService(i do.Injector) (*service.UserService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	points := do.MustInvoke[*service.PointsService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewUserService(storeHandle.Store, points, log.Logger), nil
}

// ProvideQuizService provides the vocabulary quiz service.
func ProvideQuizService(i do.Injector) (*service.QuizService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	points := do.MustInvoke[*service.PointsService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewQuizService(storeHandle.Store, points, log.Logger), nil
}

// ProvideVocabularyService provides the vocabulary management service.
func ProvideVocabularyService(i do.Injector) (*service.VocabularyService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewVocabularyService(storeHandle.Store, validator, log.Logger), nil
}

// ProvideRecommendationService provides the graph recommendation service.
func ProvideRecommendationService(i do.Injector) (*service.RecommendationService, error) {
	graphHandle := do.MustInvoke[*GraphHandle](i)
	syncer := do.MustInvoke[*graph.Syncer](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewRecommendationService(graphHandle.Store, syncer, log.Logger), nil
}
