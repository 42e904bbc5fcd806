package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/NeroQue/academy-player/internal/player"
)

const liveWriteTimeout = 10 * time.Second

// StateFeed is anything that publishes player states
type StateFeed interface {
	Current() (player.State, bool)
	Subscribe() (<-chan player.State, func())
}

// LiveHandler streams player states over a websocket
type LiveHandler struct {
	Feed     StateFeed
	upgrader websocket.Upgrader
}

// NewLiveHandler creates the live feed handler. checkOrigin may be nil to
// accept same-origin requests only.
func NewLiveHandler(feed StateFeed, checkOrigin func(r *http.Request) bool) *LiveHandler {
	return &LiveHandler{
		Feed: feed,
		upgrader: websocket.Upgrader{
			CheckOrigin: checkOrigin,
		},
	}
}

// Stream handles GET /api/live - sends the current state, then every new one
func (h *LiveHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already answered the client
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	states, stop := h.Feed.Subscribe()
	defer stop()

	// reader loop only notices the client going away
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if state, ok := h.Feed.Current(); ok {
		if err := h.write(conn, state); err != nil {
			return
		}
	}

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case state, ok := <-states:
			if !ok {
				return
			}
			if err := h.write(conn, state); err != nil {
				slog.Debug("live client dropped", "error", err)
				return
			}
		}
	}
}

func (h *LiveHandler) write(conn *websocket.Conn, state player.State) error {
	if err := conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(state)
}
