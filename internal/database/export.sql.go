package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const recipeExportColumns = `
    r.id, r.name, r.slug, r.description, r.source_url, r.notes,
    r.is_active, r.is_featured, r.created_at, r.updated_at,
    a.id, a.name, a.slug, a.url,
    cs.id, cs.name, cs.slug,
    s.id, s.name, s.slug,
    cm.id, cm.name, cm.slug,
    fs.id, fs.name, fs.slug,
    sc.name
FROM recipes r
JOIN authors a ON a.id = r.author_id
JOIN camera_systems cs ON cs.id = r.camera_system_id
JOIN film_simulations fs ON fs.id = r.film_simulation_id
LEFT JOIN sensors s ON s.id = r.sensor_id
LEFT JOIN camera_models cm ON cm.id = r.camera_model_id
LEFT JOIN style_categories sc ON sc.id = r.style_category_id
`

// RecipeExportRow is a recipe joined with everything the export document
// nests. Optional joins scan as invalid pgtype values.
type RecipeExportRow struct {
	ID                 pgtype.UUID
	Name               string
	Slug               string
	Description        pgtype.Text
	SourceUrl          pgtype.Text
	Notes              pgtype.Text
	IsActive           bool
	IsFeatured         bool
	CreatedAt          pgtype.Timestamptz
	UpdatedAt          pgtype.Timestamptz
	AuthorID           pgtype.UUID
	AuthorName         string
	AuthorSlug         string
	AuthorUrl          pgtype.Text
	CameraSystemID     pgtype.UUID
	CameraSystemName   string
	CameraSystemSlug   string
	SensorID           pgtype.UUID
	SensorName         pgtype.Text
	SensorSlug         pgtype.Text
	CameraModelID      pgtype.UUID
	CameraModelName    pgtype.Text
	CameraModelSlug    pgtype.Text
	FilmSimulationID   pgtype.UUID
	FilmSimulationName string
	FilmSimulationSlug string
	StyleCategoryName  pgtype.Text
}

func scanRecipeExportRow(row pgx.Row) (RecipeExportRow, error) {
	var i RecipeExportRow
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Slug,
		&i.Description,
		&i.SourceUrl,
		&i.Notes,
		&i.IsActive,
		&i.IsFeatured,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.AuthorID,
		&i.AuthorName,
		&i.AuthorSlug,
		&i.AuthorUrl,
		&i.CameraSystemID,
		&i.CameraSystemName,
		&i.CameraSystemSlug,
		&i.SensorID,
		&i.SensorName,
		&i.SensorSlug,
		&i.CameraModelID,
		&i.CameraModelName,
		&i.CameraModelSlug,
		&i.FilmSimulationID,
		&i.FilmSimulationName,
		&i.FilmSimulationSlug,
		&i.StyleCategoryName,
	)
	return i, err
}

const listRecipesForExport = `-- name: ListRecipesForExport :many
SELECT` + recipeExportColumns + `WHERE ($1::boolean = false OR r.is_active)
  AND ($2::boolean = false OR r.is_featured)
ORDER BY r.name, r.id
`

type ListRecipesForExportParams struct {
	ActiveOnly   bool
	FeaturedOnly bool
}

func (q *Queries) ListRecipesForExport(ctx context.Context, arg ListRecipesForExportParams) ([]RecipeExportRow, error) {
	rows, err := q.db.Query(ctx, listRecipesForExport, arg.ActiveOnly, arg.FeaturedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []RecipeExportRow
	for rows.Next() {
		i, err := scanRecipeExportRow(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getRecipeForExport = `-- name: GetRecipeForExport :one
SELECT` + recipeExportColumns + `WHERE r.id = $1
`

func (q *Queries) GetRecipeForExport(ctx context.Context, id pgtype.UUID) (RecipeExportRow, error) {
	return scanRecipeExportRow(q.db.QueryRow(ctx, getRecipeForExport, id))
}

const listRecipeSettingsForExport = `-- name: ListRecipeSettingsForExport :many
SELECT sd.id, sd.name, sd.slug, sd.category, sd.unit,
       rs.value, rs.min_value, rs.max_value, rs.notes
FROM recipe_settings rs
JOIN setting_definitions sd ON sd.id = rs.setting_id
WHERE rs.recipe_id = $1
ORDER BY sd.sort_order, sd.name
`

type ListRecipeSettingsForExportRow struct {
	SettingID pgtype.UUID
	Name      string
	Slug      string
	Category  string
	Unit      pgtype.Text
	Value     pgtype.Text
	MinValue  pgtype.Text
	MaxValue  pgtype.Text
	Notes     pgtype.Text
}

func (q *Queries) ListRecipeSettingsForExport(ctx context.Context, recipeID pgtype.UUID) ([]ListRecipeSettingsForExportRow, error) {
	rows, err := q.db.Query(ctx, listRecipeSettingsForExport, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListRecipeSettingsForExportRow
	for rows.Next() {
		var i ListRecipeSettingsForExportRow
		if err := rows.Scan(
			&i.SettingID,
			&i.Name,
			&i.Slug,
			&i.Category,
			&i.Unit,
			&i.Value,
			&i.MinValue,
			&i.MaxValue,
			&i.Notes,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listRecipeTagsForExport = `-- name: ListRecipeTagsForExport :many
SELECT t.id, t.name, t.slug
FROM recipe_tags rt
JOIN tags t ON t.id = rt.tag_id
WHERE rt.recipe_id = $1
ORDER BY t.name
`

type ListRecipeTagsForExportRow struct {
	ID   pgtype.UUID
	Name string
	Slug string
}

func (q *Queries) ListRecipeTagsForExport(ctx context.Context, recipeID pgtype.UUID) ([]ListRecipeTagsForExportRow, error) {
	rows, err := q.db.Query(ctx, listRecipeTagsForExport, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListRecipeTagsForExportRow
	for rows.Next() {
		var i ListRecipeTagsForExportRow
		if err := rows.Scan(&i.ID, &i.Name, &i.Slug); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listRecipeImagesForExport = `-- name: ListRecipeImagesForExport :many
SELECT id, url, alt_text, is_primary, sort_order
FROM recipe_images
WHERE recipe_id = $1
ORDER BY sort_order, id
`

type ListRecipeImagesForExportRow struct {
	ID        pgtype.UUID
	Url       string
	AltText   pgtype.Text
	IsPrimary bool
	SortOrder int32
}

func (q *Queries) ListRecipeImagesForExport(ctx context.Context, recipeID pgtype.UUID) ([]ListRecipeImagesForExportRow, error) {
	rows, err := q.db.Query(ctx, listRecipeImagesForExport, recipeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListRecipeImagesForExportRow
	for rows.Next() {
		var i ListRecipeImagesForExportRow
		if err := rows.Scan(
			&i.ID,
			&i.Url,
			&i.AltText,
			&i.IsPrimary,
			&i.SortOrder,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
