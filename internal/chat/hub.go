// Package chat implements the shared chat room: a single hub goroutine owns
// all client registration, broadcast, and the bounded message history, so no
// locking is needed anywhere in the package.
package chat

import (
	"context"
	"log/slog"
	"time"

	"github.com/treehouse-books/treehouse-server/internal/domain"
	"github.com/treehouse-books/treehouse-server/internal/id"
)

// MaxMessageLength caps a single chat message's content.
const MaxMessageLength = 500

// Hub maintains the set of active clients and broadcasts messages to them.
// All state is owned by the Run goroutine; the exported methods communicate
// with it through channels only.
type Hub struct {
	register   chan *Client
	unregister chan *Client
	broadcast  chan domain.ChatMessage
	history    chan chan []domain.ChatMessage

	clients  map[*Client]bool
	ring     []domain.ChatMessage
	ringHead int
	ringLen  int

	logger *slog.Logger
}

// NewHub creates a hub whose history holds the most recent capacity messages.
// Older messages are overwritten in place; nothing is persisted.
func NewHub(capacity int, logger *slog.Logger) *Hub {
	if capacity <= 0 {
		capacity = 200
	}
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan domain.ChatMessage, 64),
		history:    make(chan chan []domain.ChatMessage),
		clients:    make(map[*Client]bool),
		ring:       make([]domain.ChatMessage, capacity),
		logger:     logger,
	}
}

// Run owns the hub state until ctx is canceled. On shutdown every connected
// client's send channel is closed, which terminates its write pump.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return

		case client := <-h.register:
			h.clients[client] = true
			// Replay history before any new broadcasts reach the client.
			// The send buffer is sized to hold a full replay.
			for _, msg := range h.snapshot() {
				client.send <- msg
			}
			h.logger.Debug("Chat client joined", "user_id", client.userID, "clients", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Debug("Chat client left", "user_id", client.userID, "clients", len(h.clients))
			}

		case msg := <-h.broadcast:
			h.append(msg)
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// Slow consumer: drop it rather than stall the room.
					delete(h.clients, client)
					close(client.send)
					h.logger.Warn("Dropped slow chat client", "user_id", client.userID)
				}
			}

		case reply := <-h.history:
			reply <- h.snapshot()
		}
	}
}

// Send builds a message from the given user and queues it for broadcast.
// Content is truncated to MaxMessageLength.
func (h *Hub) Send(userID, username, content string) (domain.ChatMessage, error) {
	if len(content) > MaxMessageLength {
		content = content[:MaxMessageLength]
	}

	msgID, err := id.Generate("msg")
	if err != nil {
		return domain.ChatMessage{}, err
	}

	msg := domain.ChatMessage{
		ID:        msgID,
		UserID:    userID,
		Username:  username,
		Content:   content,
		CreatedAt: time.Now(),
	}
	h.broadcast <- msg
	return msg, nil
}

// History returns the retained messages, oldest first.
// It round-trips through the Run goroutine, so it must not be called after
// the hub has shut down.
func (h *Hub) History() []domain.ChatMessage {
	reply := make(chan []domain.ChatMessage, 1)
	h.history <- reply
	return <-reply
}

// append adds a message to the ring, overwriting the oldest when full.
// Only called from the Run goroutine.
func (h *Hub) append(msg domain.ChatMessage) {
	capacity := len(h.ring)
	h.ring[(h.ringHead+h.ringLen)%capacity] = msg
	if h.ringLen < capacity {
		h.ringLen++
	} else {
		h.ringHead = (h.ringHead + 1) % capacity
	}
}

// snapshot copies the ring contents in order. Only called from the Run
// goroutine.
func (h *Hub) snapshot() []domain.ChatMessage {
	out := make([]domain.ChatMessage, h.ringLen)
	for i := range h.ringLen {
		out[i] = h.ring[(h.ringHead+i)%len(h.ring)]
	}
	return out
}
