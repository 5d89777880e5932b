package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const getRecipeOwnerBySlug = `-- name: GetRecipeOwnerBySlug :one
SELECT id, author_id FROM recipes WHERE slug = $1
`

type GetRecipeOwnerBySlugRow struct {
	ID       pgtype.UUID
	AuthorID pgtype.UUID
}

func (q *Queries) GetRecipeOwnerBySlug(ctx context.Context, slug string) (GetRecipeOwnerBySlugRow, error) {
	row := q.db.QueryRow(ctx, getRecipeOwnerBySlug, slug)
	var i GetRecipeOwnerBySlugRow
	err := row.Scan(&i.ID, &i.AuthorID)
	return i, err
}

const insertRecipe = `-- name: InsertRecipe :one
INSERT INTO recipes (
    name, slug, description, source_url, notes,
    author_id, camera_system_id, film_simulation_id,
    sensor_id, camera_model_id, style_category_id,
    is_active, is_featured
) VALUES (
    $1, $2, $3, $4, $5,
    $6, $7, $8,
    $9, $10, $11,
    $12, $13
)
RETURNING id
`

type InsertRecipeParams struct {
	Name             string
	Slug             string
	Description      pgtype.Text
	SourceUrl        pgtype.Text
	Notes            pgtype.Text
	AuthorID         pgtype.UUID
	CameraSystemID   pgtype.UUID
	FilmSimulationID pgtype.UUID
	SensorID         pgtype.UUID
	CameraModelID    pgtype.UUID
	StyleCategoryID  pgtype.UUID
	IsActive         bool
	IsFeatured       bool
}

func (q *Queries) InsertRecipe(ctx context.Context, arg InsertRecipeParams) (pgtype.UUID, error) {
	row := q.db.QueryRow(ctx, insertRecipe,
		arg.Name,
		arg.Slug,
		arg.Description,
		arg.SourceUrl,
		arg.Notes,
		arg.AuthorID,
		arg.CameraSystemID,
		arg.FilmSimulationID,
		arg.SensorID,
		arg.CameraModelID,
		arg.StyleCategoryID,
		arg.IsActive,
		arg.IsFeatured,
	)
	var id pgtype.UUID
	err := row.Scan(&id)
	return id, err
}

const updateRecipe = `-- name: UpdateRecipe :exec
UPDATE recipes SET
    name = $2,
    description = $3,
    source_url = $4,
    notes = $5,
    camera_system_id = $6,
    film_simulation_id = $7,
    sensor_id = $8,
    camera_model_id = $9,
    style_category_id = $10,
    is_active = $11,
    is_featured = $12,
    updated_at = now()
WHERE id = $1
`

type UpdateRecipeParams struct {
	ID               pgtype.UUID
	Name             string
	Description      pgtype.Text
	SourceUrl        pgtype.Text
	Notes            pgtype.Text
	CameraSystemID   pgtype.UUID
	FilmSimulationID pgtype.UUID
	SensorID         pgtype.UUID
	CameraModelID    pgtype.UUID
	StyleCategoryID  pgtype.UUID
	IsActive         bool
	IsFeatured       bool
}

func (q *Queries) UpdateRecipe(ctx context.Context, arg UpdateRecipeParams) error {
	_, err := q.db.Exec(ctx, updateRecipe,
		arg.ID,
		arg.Name,
		arg.Description,
		arg.SourceUrl,
		arg.Notes,
		arg.CameraSystemID,
		arg.FilmSimulationID,
		arg.SensorID,
		arg.CameraModelID,
		arg.StyleCategoryID,
		arg.IsActive,
		arg.IsFeatured,
	)
	return err
}

const deleteRecipeSettings = `-- name: DeleteRecipeSettings :exec
DELETE FROM recipe_settings WHERE recipe_id = $1
`

func (q *Queries) DeleteRecipeSettings(ctx context.Context, recipeID pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteRecipeSettings, recipeID)
	return err
}

const insertRecipeSetting = `-- name: InsertRecipeSetting :exec
INSERT INTO recipe_settings (recipe_id, setting_id, value, min_value, max_value)
VALUES ($1, $2, $3, $4, $5)
`

type InsertRecipeSettingParams struct {
	RecipeID  pgtype.UUID
	SettingID pgtype.UUID
	Value     pgtype.Text
	MinValue  pgtype.Text
	MaxValue  pgtype.Text
}

func (q *Queries) InsertRecipeSetting(ctx context.Context, arg InsertRecipeSettingParams) error {
	_, err := q.db.Exec(ctx, insertRecipeSetting,
		arg.RecipeID,
		arg.SettingID,
		arg.Value,
		arg.MinValue,
		arg.MaxValue,
	)
	return err
}

const deleteRecipeTags = `-- name: DeleteRecipeTags :exec
DELETE FROM recipe_tags WHERE recipe_id = $1
`

func (q *Queries) DeleteRecipeTags(ctx context.Context, recipeID pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteRecipeTags, recipeID)
	return err
}

const insertRecipeTag = `-- name: InsertRecipeTag :exec
INSERT INTO recipe_tags (recipe_id, tag_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING
`

type InsertRecipeTagParams struct {
	RecipeID pgtype.UUID
	TagID    pgtype.UUID
}

func (q *Queries) InsertRecipeTag(ctx context.Context, arg InsertRecipeTagParams) error {
	_, err := q.db.Exec(ctx, insertRecipeTag, arg.RecipeID, arg.TagID)
	return err
}

const deleteRecipeImages = `-- name: DeleteRecipeImages :exec
DELETE FROM recipe_images WHERE recipe_id = $1
`

func (q *Queries) DeleteRecipeImages(ctx context.Context, recipeID pgtype.UUID) error {
	_, err := q.db.Exec(ctx, deleteRecipeImages, recipeID)
	return err
}

const insertRecipeImage = `-- name: InsertRecipeImage :exec
INSERT INTO recipe_images (recipe_id, url, is_primary, sort_order)
VALUES ($1, $2, $3, $4)
`

type InsertRecipeImageParams struct {
	RecipeID  pgtype.UUID
	Url       string
	IsPrimary bool
	SortOrder int32
}

func (q *Queries) InsertRecipeImage(ctx context.Context, arg InsertRecipeImageParams) error {
	_, err := q.db.Exec(ctx, insertRecipeImage,
		arg.RecipeID,
		arg.Url,
		arg.IsPrimary,
		arg.SortOrder,
	)
	return err
}

const truncateRecipes = `-- name: TruncateRecipes :exec
TRUNCATE TABLE recipe_settings, recipe_tags, recipe_images, recipes
`

func (q *Queries) TruncateRecipes(ctx context.Context) error {
	_, err := q.db.Exec(ctx, truncateRecipes)
	return err
}

const listSettingDefinitions = `-- name: ListSettingDefinitions :many
SELECT id, name, slug, category, data_type, unit, sort_order
FROM setting_definitions
ORDER BY sort_order, name
`

func (q *Queries) ListSettingDefinitions(ctx context.Context) ([]SettingDefinition, error) {
	rows, err := q.db.Query(ctx, listSettingDefinitions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []SettingDefinition
	for rows.Next() {
		var i SettingDefinition
		if err := rows.Scan(
			&i.ID,
			&i.Name,
			&i.Slug,
			&i.Category,
			&i.DataType,
			&i.Unit,
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
