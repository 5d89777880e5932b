package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	db "github.com/JonMunkholm/filmrecipes/internal/database"
)

// PgStore implements RecordStore, ExportReader and AuditLog over a pgx pool.
type PgStore struct {
	pool *pgxpool.Pool
	q    *db.Queries
}

// NewPgStore wraps pool.
func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool, q: db.New(pool)}
}

// NewPostgresService builds a Service whose import, export and audit all
// run against pool.
func NewPostgresService(pool *pgxpool.Pool, cfg ServiceConfig) *Service {
	store := NewPgStore(pool)
	svc := NewService(store, store, cfg)
	svc.SetAuditLog(store)
	return svc
}

// Ping checks that the database is reachable.
func (s *PgStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Begin starts the batch transaction.
func (s *PgStore) Begin(ctx context.Context) (RecordTx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &pgRecordTx{tx: tx, q: s.q.WithTx(tx)}, nil
}

type pgRecordTx struct {
	tx pgx.Tx
	q  *db.Queries
}

func (t *pgRecordTx) Commit(ctx context.Context) error   { return t.tx.Commit(ctx) }
func (t *pgRecordTx) Rollback(ctx context.Context) error { return t.tx.Rollback(ctx) }

func (t *pgRecordTx) Savepoint(ctx context.Context, name string) error {
	_, err := t.tx.Exec(ctx, "SAVEPOINT "+pgx.Identifier{name}.Sanitize())
	return err
}

func (t *pgRecordTx) RollbackToSavepoint(ctx context.Context, name string) error {
	_, err := t.tx.Exec(ctx, "ROLLBACK TO SAVEPOINT "+pgx.Identifier{name}.Sanitize())
	return err
}

func (t *pgRecordTx) ReleaseSavepoint(ctx context.Context, name string) error {
	_, err := t.tx.Exec(ctx, "RELEASE SAVEPOINT "+pgx.Identifier{name}.Sanitize())
	return err
}

func (t *pgRecordTx) TruncateRecipes(ctx context.Context) error {
	return t.q.TruncateRecipes(ctx)
}

func (t *pgRecordTx) ListSettingDefinitions(ctx context.Context) ([]SettingDefinition, error) {
	rows, err := t.q.ListSettingDefinitions(ctx)
	if err != nil {
		return nil, err
	}
	defs := make([]SettingDefinition, 0, len(rows))
	for _, r := range rows {
		def := SettingDefinition{
			ID:       FromPgUUID(r.ID),
			Name:     r.Name,
			Slug:     r.Slug,
			Category: r.Category,
			DataType: r.DataType,
		}
		if r.Unit.Valid {
			def.Unit = r.Unit.String
		}
		defs = append(defs, def)
	}
	return defs, nil
}

func (t *pgRecordTx) UpsertEntity(ctx context.Context, kind EntityKind, p EntityParams) (Upserted, error) {
	named := db.UpsertNamedParams{Name: p.Name, Slug: p.Slug}

	var (
		row db.UpsertRow
		err error
	)
	switch kind {
	case KindAuthor:
		row, err = t.q.UpsertAuthor(ctx, db.UpsertAuthorParams{Name: p.Name, Slug: p.Slug, Url: ToPgText(p.URL)})
	case KindCameraSystem:
		row, err = t.q.UpsertCameraSystem(ctx, named)
	case KindSensor:
		row, err = t.q.UpsertSensor(ctx, named)
	case KindCameraModel:
		if !p.ParentID.Valid {
			return Upserted{}, errors.New("camera model requires a camera system")
		}
		row, err = t.q.UpsertCameraModel(ctx, db.UpsertCameraModelParams{
			CameraSystemID: ToPgNullUUID(p.ParentID),
			Name:           p.Name,
			Slug:           p.Slug,
		})
	case KindFilmSimulation:
		row, err = t.q.UpsertFilmSimulation(ctx, named)
	case KindStyleCategory:
		row, err = t.q.UpsertStyleCategory(ctx, named)
	case KindTag:
		row, err = t.q.UpsertTag(ctx, named)
	default:
		return Upserted{}, fmt.Errorf("unknown entity kind %q", kind)
	}
	if err != nil {
		return Upserted{}, err
	}
	return Upserted{ID: FromPgUUID(row.ID), Created: row.Inserted}, nil
}

func (t *pgRecordTx) FindRecipeBySlug(ctx context.Context, slug string) (RecipeOwner, bool, error) {
	row, err := t.q.GetRecipeOwnerBySlug(ctx, slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return RecipeOwner{}, false, nil
	}
	if err != nil {
		return RecipeOwner{}, false, err
	}
	return RecipeOwner{ID: FromPgUUID(row.ID), AuthorID: FromPgUUID(row.AuthorID)}, true, nil
}

func (t *pgRecordTx) InsertRecipe(ctx context.Context, p RecipeParams) (uuid.UUID, error) {
	id, err := t.q.InsertRecipe(ctx, db.InsertRecipeParams{
		Name:             p.Name,
		Slug:             p.Slug,
		Description:      ToPgText(p.Description),
		SourceUrl:        ToPgText(p.SourceURL),
		Notes:            ToPgText(p.Notes),
		AuthorID:         ToPgUUID(p.AuthorID),
		CameraSystemID:   ToPgUUID(p.CameraSystemID),
		FilmSimulationID: ToPgUUID(p.FilmSimulationID),
		SensorID:         ToPgNullUUID(p.SensorID),
		CameraModelID:    ToPgNullUUID(p.CameraModelID),
		StyleCategoryID:  ToPgNullUUID(p.StyleCategoryID),
		IsActive:         p.IsActive,
		IsFeatured:       p.IsFeatured,
	})
	if err != nil {
		return uuid.Nil, err
	}
	return FromPgUUID(id), nil
}

func (t *pgRecordTx) UpdateRecipe(ctx context.Context, id uuid.UUID, p RecipeParams) error {
	return t.q.UpdateRecipe(ctx, db.UpdateRecipeParams{
		ID:               ToPgUUID(id),
		Name:             p.Name,
		Description:      ToPgText(p.Description),
		SourceUrl:        ToPgText(p.SourceURL),
		Notes:            ToPgText(p.Notes),
		CameraSystemID:   ToPgUUID(p.CameraSystemID),
		FilmSimulationID: ToPgUUID(p.FilmSimulationID),
		SensorID:         ToPgNullUUID(p.SensorID),
		CameraModelID:    ToPgNullUUID(p.CameraModelID),
		StyleCategoryID:  ToPgNullUUID(p.StyleCategoryID),
		IsActive:         p.IsActive,
		IsFeatured:       p.IsFeatured,
	})
}

func (t *pgRecordTx) ReplaceRecipeSettings(ctx context.Context, recipeID uuid.UUID, values []SettingValue) error {
	rid := ToPgUUID(recipeID)
	if err := t.q.DeleteRecipeSettings(ctx, rid); err != nil {
		return err
	}
	for _, v := range values {
		if err := t.q.InsertRecipeSetting(ctx, db.InsertRecipeSettingParams{
			RecipeID:  rid,
			SettingID: ToPgUUID(v.SettingID),
			Value:     ToPgTextPtr(v.Value),
			MinValue:  ToPgTextPtr(v.MinValue),
			MaxValue:  ToPgTextPtr(v.MaxValue),
		}); err != nil {
			return err
		}
	}
	return nil
}

func (t *pgRecordTx) ReplaceRecipeTags(ctx context.Context, recipeID uuid.UUID, tagIDs []uuid.UUID) error {
	rid := ToPgUUID(recipeID)
	if err := t.q.DeleteRecipeTags(ctx, rid); err != nil {
		return err
	}
	for _, id := range tagIDs {
		if err := t.q.InsertRecipeTag(ctx, db.InsertRecipeTagParams{RecipeID: rid, TagID: ToPgUUID(id)}); err != nil {
			return err
		}
	}
	return nil
}

func (t *pgRecordTx) ReplaceRecipeImages(ctx context.Context, recipeID uuid.UUID, images []ImageParams) error {
	rid := ToPgUUID(recipeID)
	if err := t.q.DeleteRecipeImages(ctx, rid); err != nil {
		return err
	}
	for _, img := range images {
		if err := t.q.InsertRecipeImage(ctx, db.InsertRecipeImageParams{
			RecipeID:  rid,
			Url:       img.URL,
			IsPrimary: img.IsPrimary,
			SortOrder: int32(img.SortOrder),
		}); err != nil {
			return err
		}
	}
	return nil
}

// Export reads use the pool directly; each query takes its own connection.

func (s *PgStore) ListRecipes(ctx context.Context, filter ExportFilter) ([]RecipeRow, error) {
	rows, err := s.q.ListRecipesForExport(ctx, db.ListRecipesForExportParams{
		ActiveOnly:   filter.ActiveOnly,
		FeaturedOnly: filter.FeaturedOnly,
	})
	if err != nil {
		return nil, err
	}
	out := make([]RecipeRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, recipeRowFromDB(r))
	}
	return out, nil
}

func (s *PgStore) GetRecipe(ctx context.Context, id uuid.UUID) (RecipeRow, bool, error) {
	r, err := s.q.GetRecipeForExport(ctx, ToPgUUID(id))
	if errors.Is(err, pgx.ErrNoRows) {
		return RecipeRow{}, false, nil
	}
	if err != nil {
		return RecipeRow{}, false, err
	}
	return recipeRowFromDB(r), true, nil
}

func (s *PgStore) ListRecipeSettings(ctx context.Context, recipeID uuid.UUID) ([]SettingRow, error) {
	rows, err := s.q.ListRecipeSettingsForExport(ctx, ToPgUUID(recipeID))
	if err != nil {
		return nil, err
	}
	out := make([]SettingRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, SettingRow{
			SettingID: FromPgUUID(r.SettingID),
			Name:      r.Name,
			Slug:      r.Slug,
			Category:  r.Category,
			Unit:      FromPgText(r.Unit),
			Value:     FromPgText(r.Value),
			MinValue:  FromPgText(r.MinValue),
			MaxValue:  FromPgText(r.MaxValue),
			Notes:     FromPgText(r.Notes),
		})
	}
	return out, nil
}

func (s *PgStore) ListRecipeTags(ctx context.Context, recipeID uuid.UUID) ([]TagRow, error) {
	rows, err := s.q.ListRecipeTagsForExport(ctx, ToPgUUID(recipeID))
	if err != nil {
		return nil, err
	}
	out := make([]TagRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, TagRow{ID: FromPgUUID(r.ID), Name: r.Name, Slug: r.Slug})
	}
	return out, nil
}

func (s *PgStore) ListRecipeImages(ctx context.Context, recipeID uuid.UUID) ([]ImageRow, error) {
	rows, err := s.q.ListRecipeImagesForExport(ctx, ToPgUUID(recipeID))
	if err != nil {
		return nil, err
	}
	out := make([]ImageRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, ImageRow{
			ID:        FromPgUUID(r.ID),
			URL:       r.Url,
			AltText:   FromPgText(r.AltText),
			IsPrimary: r.IsPrimary,
			SortOrder: int(r.SortOrder),
		})
	}
	return out, nil
}

func recipeRowFromDB(r db.RecipeExportRow) RecipeRow {
	return RecipeRow{
		ID:                 FromPgUUID(r.ID),
		Name:               r.Name,
		Slug:               r.Slug,
		Description:        r.Description.String,
		SourceURL:          r.SourceUrl.String,
		Notes:              r.Notes.String,
		StyleCategory:      r.StyleCategoryName.String,
		IsActive:           r.IsActive,
		IsFeatured:         r.IsFeatured,
		CreatedAt:          r.CreatedAt.Time,
		UpdatedAt:          r.UpdatedAt.Time,
		AuthorID:           FromPgUUID(r.AuthorID),
		AuthorName:         r.AuthorName,
		AuthorSlug:         r.AuthorSlug,
		AuthorURL:          r.AuthorUrl.String,
		SystemID:           FromPgUUID(r.CameraSystemID),
		SystemName:         r.CameraSystemName,
		SystemSlug:         r.CameraSystemSlug,
		SensorID:           FromPgNullUUID(r.SensorID),
		SensorName:         r.SensorName.String,
		SensorSlug:         r.SensorSlug.String,
		CameraID:           FromPgNullUUID(r.CameraModelID),
		CameraName:         r.CameraModelName.String,
		CameraSlug:         r.CameraModelSlug.String,
		FilmSimulationID:   FromPgUUID(r.FilmSimulationID),
		FilmSimulationName: r.FilmSimulationName,
		FilmSimulationSlug: r.FilmSimulationSlug,
	}
}

// InsertImportAudit stores one finished batch.
func (s *PgStore) InsertImportAudit(ctx context.Context, e AuditEntry) (AuditEntry, error) {
	row, err := s.q.InsertImportAudit(ctx, db.InsertImportAuditParams{
		Action:    string(e.Action),
		Severity:  string(e.Severity),
		BatchID:   e.BatchID,
		FileName:  ToPgText(e.FileName),
		State:     string(e.State),
		IpAddress: ToPgText(e.IPAddress),
		UserAgent: ToPgText(e.UserAgent),
		Total:     int32(e.Total),
		Imported:  int32(e.Imported),
		Updated:   int32(e.Updated),
		Skipped:   int32(e.Skipped),
		Errors:    int32(e.Errors),
		Warnings:  int32(e.Warnings),
		Truncated: e.Truncated,
		Reason:    ToPgText(e.Reason),
	})
	if err != nil {
		return AuditEntry{}, err
	}
	e.ID = FromPgUUID(row.ID).String()
	e.CreatedAt = row.CreatedAt.Time
	return e, nil
}

// ListImportAudits returns the newest entries first.
func (s *PgStore) ListImportAudits(ctx context.Context, limit int) ([]AuditEntry, error) {
	rows, err := s.q.ListImportAudits(ctx, int32(limit))
	if err != nil {
		return nil, err
	}
	out := make([]AuditEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, AuditEntry{
			ID:        FromPgUUID(r.ID).String(),
			Action:    AuditAction(r.Action),
			Severity:  AuditSeverity(r.Severity),
			BatchID:   r.BatchID,
			FileName:  r.FileName.String,
			State:     BatchState(r.State),
			IPAddress: r.IpAddress.String,
			UserAgent: r.UserAgent.String,
			Total:     int(r.Total),
			Imported:  int(r.Imported),
			Updated:   int(r.Updated),
			Skipped:   int(r.Skipped),
			Errors:    int(r.Errors),
			Warnings:  int(r.Warnings),
			Truncated: r.Truncated,
			Reason:    r.Reason.String,
			CreatedAt: r.CreatedAt.Time,
		})
	}
	return out, nil
}

// PurgeImportAudits deletes entries older than retentionDays.
func (s *PgStore) PurgeImportAudits(ctx context.Context, retentionDays int) (int64, error) {
	return s.q.PurgeImportAudits(ctx, int32(retentionDays))
}
