package web

import (
	"encoding/json"
	"net/http"
)

// resolveRequest is one raw spreadsheet cell.
type resolveRequest struct {
	Name  string `json:"name" validate:"required,max=200"`
	Value string `json:"value" validate:"max=1000"`
}

// handleResolveSetting previews how a raw (name, value) cell is imported.
func (s *Server) handleResolveSetting(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)

	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "invalid JSON body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondBadRequest(w, "name is required; name and value must be short")
		return
	}

	writeJSON(w, http.StatusOK, s.service.ResolveSetting(req.Name, req.Value))
}
