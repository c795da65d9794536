package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rflorenc/resource-console/internal/console"
)

// session resolves the {id} URL parameter, answering 404 when it is unknown.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, *console.Console, bool) {
	id := chi.URLParam(r, "id")
	c := s.Sessions.Get(id)
	if c == nil {
		writeError(w, http.StatusNotFound, "session not found")
		return id, nil, false
	}
	return id, c, true
}

// CreateSession opens a console for a new operator and loads the default kind.
// A failed initial load still creates the session; the snapshot carries the
// error notification.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	c := s.NewConsole()
	id := s.Sessions.Create(c)
	s.logger().Info("session created", "session", id, "kind", s.DefaultKind)

	err := c.SelectKind(r.Context(), s.DefaultKind)
	if err != nil {
		s.logger().Warn("initial load failed", "session", id, "error", err)
	}
	writeJSON(w, http.StatusCreated, snapshotResponse{SessionID: id, Snapshot: c.Snapshot()})
}

func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sessions.List())
}

func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id, c, ok := s.session(w, r)
	if !ok {
		return
	}
	writeSnapshot(w, id, c, http.StatusOK, nil)
}

func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.Sessions.Delete(id) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	s.logger().Info("session deleted", "session", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) RefreshSession(w http.ResponseWriter, r *http.Request) {
	id, c, ok := s.session(w, r)
	if !ok {
		return
	}
	writeSnapshot(w, id, c, http.StatusOK, c.Refresh(r.Context()))
}

func (s *Server) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	id, c, ok := s.session(w, r)
	if !ok {
		return
	}
	err := c.Delete(r.Context(), chi.URLParam(r, "rid"))
	writeSnapshot(w, id, c, http.StatusOK, err)
}

func (s *Server) DismissNotification(w http.ResponseWriter, r *http.Request) {
	id, c, ok := s.session(w, r)
	if !ok {
		return
	}
	c.Dismiss()
	writeSnapshot(w, id, c, http.StatusOK, nil)
}
