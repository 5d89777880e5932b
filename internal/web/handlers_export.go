package web

import (
	"bytes"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JonMunkholm/filmrecipes/internal/core"
)

// exportOptions reads dryRun and pretty; pretty defaults to the config.
func (s *Server) exportOptions(r *http.Request) (core.ExportOptions, error) {
	q := r.URL.Query()
	dryRun, err := parseBoolParam(q, "dryRun", false)
	if err != nil {
		return core.ExportOptions{}, err
	}
	pretty, err := parseBoolParam(q, "pretty", s.cfg.Export.Pretty)
	if err != nil {
		return core.ExportOptions{}, err
	}
	return core.ExportOptions{DryRun: dryRun, Pretty: pretty}, nil
}

// handleExportAll writes the batch export artifact. With dryRun the export
// statistics are returned instead.
//
// Query parameters: active, featured, dryRun, pretty, download.
func (s *Server) handleExportAll(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	activeOnly, err := parseBoolParam(q, "active", false)
	if err != nil {
		respondBadRequest(w, "active must be a boolean")
		return
	}
	featuredOnly, err := parseBoolParam(q, "featured", false)
	if err != nil {
		respondBadRequest(w, "featured must be a boolean")
		return
	}
	opts, err := s.exportOptions(r)
	if err != nil {
		respondBadRequest(w, "dryRun and pretty must be booleans")
		return
	}

	filter := core.ExportFilter{ActiveOnly: activeOnly, FeaturedOnly: featuredOnly}

	var buf bytes.Buffer
	stats, err := s.service.ExportAll(r.Context(), filter, &buf, opts)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	if opts.DryRun {
		writeJSON(w, http.StatusOK, stats)
		return
	}

	if download, _ := parseBoolParam(q, "download", false); download {
		w.Header().Set("Content-Disposition", `attachment; filename="recipes-export.json"`)
	}
	writeArtifact(w, buf.Bytes())
}

// handleExportRecipe writes the document of one recipe.
func (s *Server) handleExportRecipe(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "recipeID"))
	if err != nil {
		respondBadRequest(w, "invalid recipe id")
		return
	}
	opts, err := s.exportOptions(r)
	if err != nil {
		respondBadRequest(w, "dryRun and pretty must be booleans")
		return
	}

	var buf bytes.Buffer
	stats, err := s.service.ExportByID(r.Context(), id, &buf, opts)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	if opts.DryRun {
		writeJSON(w, http.StatusOK, stats)
		return
	}
	writeArtifact(w, buf.Bytes())
}

func writeArtifact(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}
