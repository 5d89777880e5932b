package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/filmrecipes/internal/logging"
)

// DefaultExportVersion is written to metadata.version.
const DefaultExportVersion = "1.0.0"

// ExportMetadata heads a batch export artifact.
type ExportMetadata struct {
	Version      string `json:"version"`
	ExportDate   string `json:"exportDate"`
	TotalRecipes int    `json:"totalRecipes"`
}

// ExportBundle is the artifact written by ExportAll.
type ExportBundle struct {
	Metadata ExportMetadata    `json:"metadata"`
	Recipes  []*RecipeDocument `json:"recipes"`
}

// ExporterConfig holds export settings.
type ExporterConfig struct {
	Version      string
	FetchTimeout time.Duration // per recipe, 0 means no limit
}

// Exporter reads recipes and writes public JSON documents.
type Exporter struct {
	reader ExportReader
	cfg    ExporterConfig
	now    func() time.Time
}

// NewExporter creates an exporter over reader.
func NewExporter(reader ExportReader, cfg ExporterConfig) *Exporter {
	if cfg.Version == "" {
		cfg.Version = DefaultExportVersion
	}
	return &Exporter{reader: reader, cfg: cfg, now: time.Now}
}

// ExportAll writes every recipe matching filter to sink as an ExportBundle.
// A recipe whose related rows cannot be fetched or transformed is counted in
// ExportStats.Errors and left out. With DryRun nothing is written.
func (e *Exporter) ExportAll(ctx context.Context, filter ExportFilter, sink io.Writer, opts ExportOptions) (*ExportStats, error) {
	start := time.Now()
	log := logging.WithFields(ctx,
		"export", "all",
		"active_only", filter.ActiveOnly,
		"featured_only", filter.FeaturedOnly,
		"dry_run", opts.DryRun,
	)

	rows, err := e.reader.ListRecipes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}

	stats := &ExportStats{TotalRecipes: len(rows), DryRun: opts.DryRun}
	docs := make([]*RecipeDocument, 0, len(rows))

	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		doc, err := e.buildDocument(ctx, row)
		if err != nil {
			stats.Errors++
			log.Warn("recipe excluded from export", "recipe_id", row.ID, "slug", row.Slug, "error", err)
			continue
		}
		docs = append(docs, doc)
	}
	stats.ExportedRecipes = len(docs)

	bundle := ExportBundle{
		Metadata: ExportMetadata{
			Version:      e.cfg.Version,
			ExportDate:   e.now().UTC().Format(time.RFC3339),
			TotalRecipes: len(docs),
		},
		Recipes: docs,
	}

	if !opts.DryRun {
		n, err := writeJSON(sink, bundle, opts.Pretty)
		stats.BytesWritten = n
		if err != nil {
			return stats, fmt.Errorf("write export: %w", err)
		}
	}

	stats.Duration = time.Since(start)
	log.Info("export finished",
		"total", stats.TotalRecipes,
		"exported", stats.ExportedRecipes,
		"errors", stats.Errors,
		"bytes", stats.BytesWritten,
		"duration_ms", stats.Duration.Milliseconds(),
	)
	return stats, nil
}

// ExportByID writes the bare document of one recipe. An unknown id returns
// ErrRecipeNotFound and nothing is written; any fetch or transform failure
// is fatal here.
func (e *Exporter) ExportByID(ctx context.Context, id uuid.UUID, sink io.Writer, opts ExportOptions) (*ExportStats, error) {
	start := time.Now()

	row, found, err := e.reader.GetRecipe(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get recipe %s: %w", id, err)
	}
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrRecipeNotFound, id)
	}

	doc, err := e.buildDocument(ctx, row)
	if err != nil {
		return nil, fmt.Errorf("export recipe %s: %w", id, err)
	}

	stats := &ExportStats{TotalRecipes: 1, ExportedRecipes: 1, DryRun: opts.DryRun}
	if !opts.DryRun {
		n, err := writeJSON(sink, doc, opts.Pretty)
		stats.BytesWritten = n
		if err != nil {
			return stats, fmt.Errorf("write export: %w", err)
		}
	}
	stats.Duration = time.Since(start)
	return stats, nil
}

// buildDocument fetches settings, tags and images concurrently, then
// transforms.
func (e *Exporter) buildDocument(ctx context.Context, row RecipeRow) (*RecipeDocument, error) {
	if e.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.FetchTimeout)
		defer cancel()
	}

	var (
		settingRows []SettingRow
		tagRows     []TagRow
		imageRows   []ImageRow
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if settingRows, err = e.reader.ListRecipeSettings(gctx, row.ID); err != nil {
			return fmt.Errorf("fetch settings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if tagRows, err = e.reader.ListRecipeTags(gctx, row.ID); err != nil {
			return fmt.Errorf("fetch tags: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if imageRows, err = e.reader.ListRecipeImages(gctx, row.ID); err != nil {
			return fmt.Errorf("fetch images: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return TransformRecipe(row, settingRows, tagRows, imageRows)
}

// writeJSON encodes v fully before touching sink, so a failed encode
// writes nothing.
func writeJSON(sink io.Writer, v any, pretty bool) (int64, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return 0, err
	}
	return buf.WriteTo(sink)
}
