package api

import (
	"encoding/json"
	"net/http"
	"sort"
)

// OpenForm opens a create draft, or an edit draft for the record named by id.
func (s *Server) OpenForm(w http.ResponseWriter, r *http.Request) {
	id, c, ok := s.session(w, r)
	if !ok {
		return
	}
	var req struct {
		Mode string `json:"mode"`
		ID   string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	var err error
	switch req.Mode {
	case "create":
		err = c.OpenCreate()
	case "edit":
		if req.ID == "" {
			writeError(w, http.StatusBadRequest, "id is required for edit")
			return
		}
		err = c.OpenEdit(req.ID)
	default:
		writeError(w, http.StatusBadRequest, "mode must be create or edit")
		return
	}
	writeSnapshot(w, id, c, http.StatusOK, err)
}

// UpdateForm sets every field in the body on the open draft. Keys are applied
// in sorted order and the first rejected key stops the update.
func (s *Server) UpdateForm(w http.ResponseWriter, r *http.Request) {
	id, c, ok := s.session(w, r)
	if !ok {
		return
	}
	var fields map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var err error
	for _, k := range keys {
		if err = c.SetField(k, fields[k]); err != nil {
			break
		}
	}
	writeSnapshot(w, id, c, http.StatusOK, err)
}

func (s *Server) CancelForm(w http.ResponseWriter, r *http.Request) {
	id, c, ok := s.session(w, r)
	if !ok {
		return
	}
	c.Cancel()
	writeSnapshot(w, id, c, http.StatusOK, nil)
}

func (s *Server) SubmitForm(w http.ResponseWriter, r *http.Request) {
	id, c, ok := s.session(w, r)
	if !ok {
		return
	}
	writeSnapshot(w, id, c, http.StatusOK, c.Submit(r.Context()))
}
