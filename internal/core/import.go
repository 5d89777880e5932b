package core

// import.go runs one import batch inside one transaction.
//
// Each row is wrapped in a SAVEPOINT. A row that fails (validation, unknown
// setting, constraint violation) is rolled back to its savepoint and recorded
// in ImportResult.Errors; the batch continues. A failure of BEGIN, COMMIT,
// ROLLBACK or a savepoint statement aborts the whole batch.

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/filmrecipes/internal/logging"
)

// Importer writes parsed rows to a RecordStore.
type Importer struct {
	store     RecordStore
	validator *RowValidator
}

// NewImporter creates an importer over store.
func NewImporter(store RecordStore) *Importer {
	return &Importer{
		store:     store,
		validator: NewRowValidator(),
	}
}

// ImportRows imports rows as one batch.
//
// With DryRun the transaction is always rolled back after the last row, so
// the statistics match a real run and nothing persists. With Truncate every
// recipe and its settings, tags and images are deleted inside the same
// transaction before the first row.
//
// A non-nil error means the batch was aborted and rolled back; the returned
// result still describes the rows processed before the failure.
func (im *Importer) ImportRows(ctx context.Context, rows []ImportRow, opts ImportOptions) (*ImportResult, error) {
	start := time.Now()
	result := &ImportResult{
		BatchID:  uuid.NewString(),
		FileName: opts.FileName,
		DryRun:   opts.DryRun,
		State:    BatchIdle,
		Created:  make(map[EntityKind]int),
		Errors:   []RowError{},
		Warnings: []RowWarning{},
	}

	log := logging.WithFields(ctx,
		"batch_id", result.BatchID,
		"file", opts.FileName,
		"dry_run", opts.DryRun,
		"truncate", opts.Truncate,
	)
	log.Info("import batch started", "rows", len(rows))

	err := im.runBatch(ctx, log, rows, opts, result)
	result.Duration = time.Since(start)

	if err != nil {
		log.Error("import batch aborted", "error", err, "state", result.State)
		return result, err
	}

	log.Info("import batch finished",
		"state", result.State,
		"total", result.Total,
		"imported", result.Imported,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"errors", result.ErrorCount(),
		"warnings", len(result.Warnings),
		"duration_ms", result.Duration.Milliseconds(),
	)
	return result, nil
}

func (im *Importer) runBatch(ctx context.Context, log *slog.Logger, rows []ImportRow, opts ImportOptions, result *ImportResult) error {
	tx, err := im.store.Begin(ctx)
	if err != nil {
		return batchError(StageBegin, err)
	}
	result.State = BatchInTransaction

	finished := false
	defer func() {
		if finished {
			return
		}
		// The caller's context may already be cancelled; the rollback must
		// still reach the database.
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			log.Warn("rollback after aborted batch failed", "error", rbErr)
		}
		result.State = BatchRolledBack
	}()

	if opts.Truncate {
		if err := tx.TruncateRecipes(ctx); err != nil {
			return batchError(StageTruncate, err)
		}
		result.Truncated = true
	}

	defs, err := tx.ListSettingDefinitions(ctx)
	if err != nil {
		return batchError(StageLoadDefs, err)
	}
	resolver := newRowResolver(tx, defs)

	for i, row := range rows {
		rowNum := i + 1
		result.Total++

		if err := ctx.Err(); err != nil {
			return fmt.Errorf("import cancelled at row %d: %w", rowNum, err)
		}

		if isBlankRow(row) {
			result.Skipped++
			continue
		}

		if err := im.validator.ValidateRow(row); err != nil {
			result.addRowError(rowNum, row, err)
			log.Warn("row rejected", "row", rowNum, "line", row.Line, "error", err)
			continue
		}

		savepoint := fmt.Sprintf("row_%d", rowNum)
		if err := tx.Savepoint(ctx, savepoint); err != nil {
			return batchError(StageSavepoint, err)
		}

		updated, warnings, rowErr := im.importRow(ctx, resolver, row, rowNum)
		if rowErr != nil {
			if err := tx.RollbackToSavepoint(ctx, savepoint); err != nil {
				return batchError(StageSavepoint, err)
			}
			resolver.discardCreated()
			result.addRowError(rowNum, row, rowErr)
			log.Warn("row rolled back", "row", rowNum, "line", row.Line, "recipe", row.Name, "error", rowErr)
			continue
		}

		if err := tx.ReleaseSavepoint(ctx, savepoint); err != nil {
			return batchError(StageSavepoint, err)
		}

		for kind, n := range resolver.takeCreated() {
			result.Created[kind] += n
		}
		result.Warnings = append(result.Warnings, warnings...)
		if updated {
			result.Updated++
		} else {
			result.Imported++
		}
	}

	if opts.DryRun {
		finished = true
		if err := tx.Rollback(ctx); err != nil {
			result.State = BatchRolledBack
			return batchError(StageRollback, err)
		}
		result.State = BatchRolledBack
		return nil
	}

	if err := tx.Commit(ctx); err != nil {
		return batchError(StageCommit, err)
	}
	finished = true
	result.State = BatchCommitted
	return nil
}

// importRow writes one recipe and its children. It reports whether an
// existing recipe was updated rather than a new one inserted.
func (im *Importer) importRow(ctx context.Context, r *rowResolver, row ImportRow, rowNum int) (updated bool, warnings []RowWarning, err error) {
	values, warnings, err := r.resolveSettings(row, rowNum)
	if err != nil {
		return false, nil, err
	}

	refs, err := r.resolveRefs(ctx, row)
	if err != nil {
		return false, nil, err
	}

	slug, existing, err := r.resolveRecipeSlug(ctx, row.Name, refs.AuthorID)
	if err != nil {
		return false, nil, err
	}

	params := RecipeParams{
		Name:             strings.TrimSpace(row.Name),
		Slug:             slug,
		Description:      row.Description,
		SourceURL:        row.SourceURL,
		Notes:            row.Notes,
		AuthorID:         refs.AuthorID,
		CameraSystemID:   refs.SystemID,
		FilmSimulationID: refs.FilmSimulationID,
		SensorID:         refs.SensorID,
		CameraModelID:    refs.CameraID,
		StyleCategoryID:  refs.StyleID,
		IsActive:         row.Active == nil || *row.Active,
		IsFeatured:       row.Featured != nil && *row.Featured,
	}

	recipeID := existing.UUID
	if existing.Valid {
		if err := r.tx.UpdateRecipe(ctx, recipeID, params); err != nil {
			return false, nil, fmt.Errorf("update recipe %q: %w", slug, err)
		}
	} else {
		if recipeID, err = r.tx.InsertRecipe(ctx, params); err != nil {
			return false, nil, fmt.Errorf("insert recipe %q: %w", slug, err)
		}
	}

	if err := r.tx.ReplaceRecipeSettings(ctx, recipeID, values); err != nil {
		return false, nil, fmt.Errorf("save settings: %w", err)
	}
	if err := r.tx.ReplaceRecipeTags(ctx, recipeID, refs.TagIDs); err != nil {
		return false, nil, fmt.Errorf("save tags: %w", err)
	}
	if err := r.tx.ReplaceRecipeImages(ctx, recipeID, imageParams(row.Images)); err != nil {
		return false, nil, fmt.Errorf("save images: %w", err)
	}

	return existing.Valid, warnings, nil
}

// imageParams keeps the given order; the first image is primary.
func imageParams(urls []string) []ImageParams {
	out := make([]ImageParams, 0, len(urls))
	for i, u := range urls {
		out = append(out, ImageParams{URL: u, IsPrimary: i == 0, SortOrder: i})
	}
	return out
}

func (r *ImportResult) addRowError(rowNum int, row ImportRow, err error) {
	r.Errors = append(r.Errors, RowError{
		Row:     rowNum,
		Line:    row.Line,
		Recipe:  row.Name,
		Message: err.Error(),
		Code:    MapError(err).Code,
	})
}

// isBlankRow reports whether a row carries nothing to import.
func isBlankRow(row ImportRow) bool {
	if row.Name != "" || row.Author != "" || row.System != "" || row.FilmSimulation != "" {
		return false
	}
	if row.Camera != "" || row.Sensor != "" || row.Style != "" || row.Description != "" {
		return false
	}
	if row.Notes != "" || row.SourceURL != "" || row.AuthorURL != "" {
		return false
	}
	if row.Active != nil || row.Featured != nil {
		return false
	}
	if len(row.Tags) > 0 || len(row.Images) > 0 {
		return false
	}
	for _, s := range row.Settings {
		if strings.TrimSpace(s.Value) != "" {
			return false
		}
	}
	return true
}
