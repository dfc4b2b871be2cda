package providers

import (
	"github.com/samber/do/v2"

	"github.com/treehouse-books/treehouse-server/internal/config"
	"github.com/treehouse-books/treehouse-server/internal/graph"
	"github.com/treehouse-books/treehouse-server/internal/logger"
	"github.com/treehouse-books/treehouse-server/internal/search"
	"github.com/treehouse-books/treehouse-server/internal/store"
)

// StoreHandle wraps the catalog store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the catalog document store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := store.New(cfg.CatalogPath(), log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Catalog store initialized", "path", cfg.CatalogPath())
	return &StoreHandle{Store: db}, nil
}

// GraphHandle wraps the graph projection store with shutdown capability.
type GraphHandle struct {
	*graph.Store
}

// Shutdown implements do.Shutdownable.
func (h *GraphHandle) Shutdown() error {
	return h.Close()
}

// ProvideGraphStore provides the graph projection store.
func ProvideGraphStore(i do.Injector) (*GraphHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := graph.Open(cfg.GraphPath(), log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Graph store initialized", "path", cfg.GraphPath())
	return &GraphHandle{Store: db}, nil
}

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.Index
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the full-text search index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewIndex(search.Options{
		DataPath: cfg.SearchPath(),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	log.Info("Search index initialized", "path", cfg.SearchPath())
	return &SearchIndexHandle{Index: index}, nil
}
