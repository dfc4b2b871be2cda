package chat

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/treehouse-books/treehouse-server/internal/domain"
)

func newRunningHub(t *testing.T, capacity int) *Hub {
	t.Helper()
	h := NewHub(capacity, slog.New(slog.DiscardHandler))
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go h.Run(ctx)
	return h
}

func TestSendAppearsInHistory(t *testing.T) {
	h := newRunningHub(t, 10)

	msg, err := h.Send("user-1", "maya", "hello treehouse")
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "maya", msg.Username)

	// Broadcast and history requests race through separate channels, so
	// wait for the hub to absorb the message.
	require.Eventually(t, func() bool {
		return len(h.History()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, msg.ID, h.History()[0].ID)
}

func TestHistoryEvictsOldestWhenFull(t *testing.T) {
	h := newRunningHub(t, 5)

	for i := range 8 {
		_, err := h.Send("user-1", "maya", fmt.Sprintf("message %d", i))
		require.NoError(t, err)
	}

	require.Eventually(t, func() bool {
		history := h.History()
		return len(history) == 5 && history[4].Content == "message 7"
	}, time.Second, 10*time.Millisecond)

	history := h.History()
	assert.Equal(t, "message 3", history[0].Content)
	assert.Equal(t, "message 7", history[4].Content)
}

func TestSendTruncatesLongContent(t *testing.T) {
	h := newRunningHub(t, 10)

	long := make([]byte, MaxMessageLength+100)
	for i := range long {
		long[i] = 'a'
	}

	msg, err := h.Send("user-1", "maya", string(long))
	require.NoError(t, err)
	assert.Len(t, msg.Content, MaxMessageLength)
}

func TestBroadcastReachesRegisteredClients(t *testing.T) {
	h := newRunningHub(t, 10)

	client := &Client{
		hub:    h,
		send:   make(chan domain.ChatMessage, 16),
		userID: "user-2",
	}
	h.register <- client

	_, err := h.Send("user-1", "maya", "hi")
	require.NoError(t, err)

	select {
	case got := <-client.send:
		assert.Equal(t, "hi", got.Content)
	case <-time.After(time.Second):
		t.Fatal("expected broadcast message")
	}

	h.unregister <- client
	_, ok := <-client.send
	assert.False(t, ok, "send channel should be closed after unregister")
}

func TestHistoryReplayOnRegister(t *testing.T) {
	h := newRunningHub(t, 10)

	_, err := h.Send("user-1", "maya", "first")
	require.NoError(t, err)
	_, err = h.Send("user-1", "maya", "second")
	require.NoError(t, err)

	// Wait for the broadcasts to be absorbed into history.
	require.Eventually(t, func() bool {
		return len(h.History()) == 2
	}, time.Second, 10*time.Millisecond)

	client := &Client{
		hub:    h,
		send:   make(chan domain.ChatMessage, 16),
		userID: "user-2",
	}
	h.register <- client

	first := <-client.send
	second := <-client.send
	assert.Equal(t, "first", first.Content)
	assert.Equal(t, "second", second.Content)
}
