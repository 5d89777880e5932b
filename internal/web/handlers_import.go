package web

import (
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/JonMunkholm/filmrecipes/internal/core"
	"github.com/JonMunkholm/filmrecipes/internal/logging"
)

// multipartMemory is how much of a multipart form is kept in memory; the
// rest spills to temporary files.
const multipartMemory = 32 << 20

// multipartOverhead allows for boundaries and form fields around the file.
const multipartOverhead = 1 << 20

// handleImport imports a CSV spreadsheet sent either as the "file" field of
// a multipart form or as the raw request body.
//
// Query parameters: dryRun, truncate, name (file name for raw bodies).
// Row-level failures are part of a 200 response; only batch-fatal errors
// produce an error status.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dryRun, err := parseBoolParam(q, "dryRun", false)
	if err != nil {
		respondBadRequest(w, "dryRun must be a boolean")
		return
	}
	truncate, err := parseBoolParam(q, "truncate", false)
	if err != nil {
		respondBadRequest(w, "truncate must be a boolean")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize+multipartOverhead)

	body, fileName, cleanup, err := importSource(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, r, core.ErrFileTooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		respondBadRequest(w, err.Error())
		return
	}
	defer cleanup()

	opts := core.ImportOptions{
		DryRun:   dryRun,
		Truncate: truncate,
		FileName: fileName,
	}

	logging.FromContext(r.Context()).Info("import requested",
		"file", fileName,
		"dry_run", dryRun,
		"truncate", truncate,
	)

	ctx := withRequestMetadata(r.Context(), r)
	result, err := s.service.ImportCSV(ctx, body, opts)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, r, core.ErrFileTooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		respondError(w, r, err, statusFor(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// importSource returns the CSV stream of the request and its file name.
func importSource(r *http.Request) (io.Reader, string, func(), error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		name := r.URL.Query().Get("name")
		if name == "" {
			name = "upload.csv"
		}
		return r.Body, name, func() {}, nil
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, "", nil, err
		}
		return nil, "", nil, errors.New("invalid multipart form")
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		r.MultipartForm.RemoveAll()
		return nil, "", nil, errors.New("no file provided")
	}

	cleanup := func() {
		file.Close()
		r.MultipartForm.RemoveAll()
	}
	return file, header.Filename, cleanup, nil
}

// handlePreview parses and validates a spreadsheet without writing anything.
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize+multipartOverhead)

	body, _, cleanup, err := importSource(r)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, r, core.ErrFileTooLarge, http.StatusRequestEntityTooLarge)
			return
		}
		respondBadRequest(w, err.Error())
		return
	}
	defer cleanup()

	resp, err := s.service.PreviewCSV(r.Context(), body)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleImportStatus reports import slot usage.
func (s *Server) handleImportStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.ImportStatus())
}

// handleImportHistory lists recent import batches, newest first.
func (s *Server) handleImportHistory(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", core.DefaultHistoryLimit)

	entries, err := s.service.ImportHistory(r.Context(), limit)
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"imports": entries,
		"count":   len(entries),
	})
}
