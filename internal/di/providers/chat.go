package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/treehouse-books/treehouse-server/internal/chat"
	"github.com/treehouse-books/treehouse-server/internal/config"
	"github.com/treehouse-books/treehouse-server/internal/logger"
)

// ChatHubHandle wraps the chat hub with its run context for lifecycle management.
type ChatHubHandle struct {
	*chat.Hub
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *ChatHubHandle) Shutdown() error {
	h.cancel()
	return nil
}

// ProvideChatHub provides the shared chat room hub.
func ProvideChatHub(i do.Injector) (*ChatHubHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	hub := chat.NewHub(cfg.Chat.HistoryLimit, log.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	log.Info("Chat hub started", "history_limit", cfg.Chat.HistoryLimit)

	return &ChatHubHandle{Hub: hub, cancel: cancel}, nil
}
