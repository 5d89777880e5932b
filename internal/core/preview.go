package core

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/JonMunkholm/filmrecipes/internal/settings"
)

// PreviewSummary contains the summary counts for an import preview.
type PreviewSummary struct {
	HeaderLine      int `json:"headerLine"`
	TotalRows       int `json:"totalRows"`
	BlankRows       int `json:"blankRows"`
	ValidRows       int `json:"validRows"`
	ErrorRows       int `json:"errorRows"`
	DroppedCells    int `json:"droppedCells"`
	DuplicateInFile int `json:"duplicateInFile"`
}

// ColumnPreview describes how one setting column will be read.
type ColumnPreview struct {
	Header    string `json:"header"`
	Canonical string `json:"canonical,omitempty"`
	Outcome   string `json:"outcome"` // mapped, passthrough, ignored or composite
}

// ErrorPreview is a row that will fail validation.
type ErrorPreview struct {
	Line   int      `json:"line"`
	Recipe string   `json:"recipe,omitempty"`
	Errors []string `json:"errors"`
}

// DroppedPreview is a composite cell that matched no known pattern.
type DroppedPreview struct {
	Line    int    `json:"line"`
	Setting string `json:"setting"`
	Value   string `json:"value"`
}

// DuplicatePreview is a recipe slug used by more than one row of the file.
// Later rows overwrite earlier ones when the author is the same.
type DuplicatePreview struct {
	Slug  string `json:"slug"`
	Lines []int  `json:"lines"`
}

// PreviewResponse is the read-only analysis of a spreadsheet.
type PreviewResponse struct {
	Summary          PreviewSummary     `json:"summary"`
	Columns          []ColumnPreview    `json:"columns"`
	ErrorSamples     []ErrorPreview     `json:"errorSamples"`
	DroppedSamples   []DroppedPreview   `json:"droppedSamples"`
	DuplicateSamples []DuplicatePreview `json:"duplicateSamples"`
	ProcessingTimeMs int64              `json:"processingTimeMs"`
}

// Sample limits
const (
	maxErrorSamples     = 20
	maxDroppedSamples   = 20
	maxDuplicateSamples = 10
)

// PreviewCSV parses and validates a spreadsheet without touching the
// database. Checks that need stored data, such as unknown settings or slugs
// owned by another author, only show up in a dry-run import.
func (s *Service) PreviewCSV(ctx context.Context, r io.Reader) (*PreviewResponse, error) {
	start := time.Now()

	parsed, err := ParseCSV(r, ParseOptions{
		MaxHeaderSearchRows: s.cfg.MaxHeaderSearchRows,
		MaxFileSize:         s.cfg.MaxFileSize,
	})
	if err != nil {
		return nil, err
	}

	resp := &PreviewResponse{
		Summary:          PreviewSummary{HeaderLine: parsed.HeaderLine, TotalRows: len(parsed.Rows)},
		Columns:          previewColumns(parsed.SettingHeader),
		ErrorSamples:     []ErrorPreview{},
		DroppedSamples:   []DroppedPreview{},
		DuplicateSamples: []DuplicatePreview{},
	}

	validator := s.importer.validator
	slugLines := make(map[string][]int)
	var slugOrder []string

	for _, row := range parsed.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if isBlankRow(row) {
			resp.Summary.BlankRows++
			continue
		}

		if err := validator.ValidateRow(row); err != nil {
			resp.Summary.ErrorRows++
			if len(resp.ErrorSamples) < maxErrorSamples {
				resp.ErrorSamples = append(resp.ErrorSamples, ErrorPreview{
					Line:   row.Line,
					Recipe: row.Name,
					Errors: validationMessages(err),
				})
			}
			continue
		}
		resp.Summary.ValidRows++

		for _, cell := range row.Settings {
			if settings.Resolve(cell.Name, cell.Value).Outcome != settings.Dropped {
				continue
			}
			resp.Summary.DroppedCells++
			if len(resp.DroppedSamples) < maxDroppedSamples {
				resp.DroppedSamples = append(resp.DroppedSamples, DroppedPreview{Line: row.Line, Setting: cell.Name, Value: cell.Value})
			}
		}

		if slug := Slugify(row.Name); slug != "" {
			if _, seen := slugLines[slug]; !seen {
				slugOrder = append(slugOrder, slug)
			}
			slugLines[slug] = append(slugLines[slug], row.Line)
		}
	}

	for _, slug := range slugOrder {
		lines := slugLines[slug]
		if len(lines) < 2 {
			continue
		}
		resp.Summary.DuplicateInFile++
		if len(resp.DuplicateSamples) < maxDuplicateSamples {
			resp.DuplicateSamples = append(resp.DuplicateSamples, DuplicatePreview{Slug: slug, Lines: lines})
		}
	}

	resp.ProcessingTimeMs = time.Since(start).Milliseconds()
	return resp, nil
}

// previewColumns classifies every setting column by its header alone.
func previewColumns(headers []string) []ColumnPreview {
	out := make([]ColumnPreview, 0, len(headers))
	for _, h := range headers {
		col := ColumnPreview{Header: h}
		switch {
		case settings.IsIgnored(h):
			col.Outcome = settings.Ignored.String()
		case settings.IsSpecialSetting(h):
			col.Outcome = "composite"
		default:
			res := settings.Resolve(h, "x")
			col.Canonical = res.Name
			col.Outcome = res.Outcome.String()
		}
		out = append(out, col)
	}
	return out
}

func validationMessages(err error) []string {
	var ve ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, e := range ve {
			msgs = append(msgs, e.Error())
		}
		return msgs
	}
	return []string{err.Error()}
}
