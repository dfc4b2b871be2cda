package chat

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/treehouse-books/treehouse-server/internal/domain"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Inbound frame cap: message content plus JSON framing.
	maxFrameSize = MaxMessageLength + 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Auth already happened on the HTTP request; cross-origin browser
	// clients are expected during development.
	CheckOrigin: func(*http.Request) bool { return true },
}

// inboundMessage is the frame clients send.
type inboundMessage struct {
	Content string `json:"content"`
}

// Client is one websocket connection's pumps. Reads go to the hub, writes
// come from the hub through the send channel.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan domain.ChatMessage
	userID   string
	username string
	logger   *slog.Logger
}

// ServeWS upgrades an authenticated HTTP request to a websocket connection
// and starts the client's read and write pumps. The caller supplies the
// user's identity from the verified access token.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID, username string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		h.logger.Warn("Websocket upgrade failed", "error", err)
		return
	}

	client := &Client{
		hub:  h,
		conn: conn,
		// Sized for a full history replay plus a burst of live traffic.
		send:     make(chan domain.ChatMessage, len(h.ring)+64),
		userID:   userID,
		username: username,
		logger:   h.logger,
	}

	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump forwards inbound frames to the hub until the connection drops.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Debug("Chat read error", "user_id", c.userID, "error", err)
			}
			return
		}

		var in inboundMessage
		if err := json.Unmarshal(data, &in); err != nil {
			continue
		}
		content := strings.TrimSpace(in.Content)
		if content == "" {
			continue
		}

		if _, err := c.hub.Send(c.userID, c.username, content); err != nil {
			c.logger.Error("Failed to queue chat message", "user_id", c.userID, "error", err)
		}
	}
}

// writePump delivers hub messages and pings to the connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			data, err := json.Marshal(msg)
			if err != nil {
				c.logger.Error("Failed to marshal chat message", "error", err)
				continue
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
