package api

import (
	"encoding/json"
	"net/http"
)

func (s *Server) ListKinds(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Registry.Kinds())
}

func (s *Server) SelectKind(w http.ResponseWriter, r *http.Request) {
	id, c, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Kind string `json:"kind"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}
	err := c.SelectKind(r.Context(), req.Kind)
	writeSnapshot(w, id, c, http.StatusOK, err)
}
