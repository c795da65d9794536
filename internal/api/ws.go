package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

const statePollInterval = 200 * time.Millisecond

// StreamState pushes the session snapshot over WebSocket: once on connect,
// then whenever the session's version changes. An open stream keeps the
// session from going idle. The stream closes when the client goes away or the
// session is deleted.
func (s *Server) StreamState(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c := s.Sessions.Get(id)
	if c == nil {
		http.Error(w, "session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	// Drain client frames so close and ping control messages are processed.
	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	send := func() bool {
		snap := c.Snapshot()
		return conn.WriteJSON(snapshotResponse{SessionID: id, Snapshot: snap}) == nil
	}

	last := c.Version()
	if !send() {
		return
	}

	ticker := time.NewTicker(statePollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-gone:
			return
		case <-ticker.C:
			if s.Sessions.Get(id) == nil {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session deleted"))
				return
			}
			v := c.Version()
			if v == last {
				continue
			}
			last = v
			if !send() {
				return
			}
		}
	}
}
