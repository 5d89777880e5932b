package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

// UpsertRow is returned by every find-or-create query. Inserted is false
// when the slug already existed and the row was only touched.
type UpsertRow struct {
	ID       pgtype.UUID
	Inserted bool
}

const upsertAuthor = `-- name: UpsertAuthor :one
INSERT INTO authors (name, slug, url)
VALUES ($1, $2, $3)
ON CONFLICT (slug) DO UPDATE
    SET url = COALESCE(EXCLUDED.url, authors.url),
        updated_at = now()
RETURNING id, (xmax = 0) AS inserted
`

type UpsertAuthorParams struct {
	Name string
	Slug string
	Url  pgtype.Text
}

func (q *Queries) UpsertAuthor(ctx context.Context, arg UpsertAuthorParams) (UpsertRow, error) {
	row := q.db.QueryRow(ctx, upsertAuthor, arg.Name, arg.Slug, arg.Url)
	var i UpsertRow
	err := row.Scan(&i.ID, &i.Inserted)
	return i, err
}

const upsertCameraSystem = `-- name: UpsertCameraSystem :one
INSERT INTO camera_systems (name, slug)
VALUES ($1, $2)
ON CONFLICT (slug) DO UPDATE
    SET name = camera_systems.name
RETURNING id, (xmax = 0) AS inserted
`

type UpsertNamedParams struct {
	Name string
	Slug string
}

func (q *Queries) UpsertCameraSystem(ctx context.Context, arg UpsertNamedParams) (UpsertRow, error) {
	row := q.db.QueryRow(ctx, upsertCameraSystem, arg.Name, arg.Slug)
	var i UpsertRow
	err := row.Scan(&i.ID, &i.Inserted)
	return i, err
}

const upsertSensor = `-- name: UpsertSensor :one
INSERT INTO sensors (name, slug)
VALUES ($1, $2)
ON CONFLICT (slug) DO UPDATE
    SET name = sensors.name
RETURNING id, (xmax = 0) AS inserted
`

func (q *Queries) UpsertSensor(ctx context.Context, arg UpsertNamedParams) (UpsertRow, error) {
	row := q.db.QueryRow(ctx, upsertSensor, arg.Name, arg.Slug)
	var i UpsertRow
	err := row.Scan(&i.ID, &i.Inserted)
	return i, err
}

const upsertCameraModel = `-- name: UpsertCameraModel :one
INSERT INTO camera_models (camera_system_id, name, slug)
VALUES ($1, $2, $3)
ON CONFLICT (slug) DO UPDATE
    SET camera_system_id = COALESCE(camera_models.camera_system_id, EXCLUDED.camera_system_id)
RETURNING id, (xmax = 0) AS inserted
`

type UpsertCameraModelParams struct {
	CameraSystemID pgtype.UUID
	Name           string
	Slug           string
}

func (q *Queries) UpsertCameraModel(ctx context.Context, arg UpsertCameraModelParams) (UpsertRow, error) {
	row := q.db.QueryRow(ctx, upsertCameraModel, arg.CameraSystemID, arg.Name, arg.Slug)
	var i UpsertRow
	err := row.Scan(&i.ID, &i.Inserted)
	return i, err
}

const upsertFilmSimulation = `-- name: UpsertFilmSimulation :one
INSERT INTO film_simulations (name, slug)
VALUES ($1, $2)
ON CONFLICT (slug) DO UPDATE
    SET name = film_simulations.name
RETURNING id, (xmax = 0) AS inserted
`

func (q *Queries) UpsertFilmSimulation(ctx context.Context, arg UpsertNamedParams) (UpsertRow, error) {
	row := q.db.QueryRow(ctx, upsertFilmSimulation, arg.Name, arg.Slug)
	var i UpsertRow
	err := row.Scan(&i.ID, &i.Inserted)
	return i, err
}

const upsertStyleCategory = `-- name: UpsertStyleCategory :one
INSERT INTO style_categories (name, slug)
VALUES ($1, $2)
ON CONFLICT (slug) DO UPDATE
    SET name = style_categories.name
RETURNING id, (xmax = 0) AS inserted
`

func (q *Queries) UpsertStyleCategory(ctx context.Context, arg UpsertNamedParams) (UpsertRow, error) {
	row := q.db.QueryRow(ctx, upsertStyleCategory, arg.Name, arg.Slug)
	var i UpsertRow
	err := row.Scan(&i.ID, &i.Inserted)
	return i, err
}

const upsertTag = `-- name: UpsertTag :one
INSERT INTO tags (name, slug)
VALUES ($1, $2)
ON CONFLICT (slug) DO UPDATE
    SET name = tags.name
RETURNING id, (xmax = 0) AS inserted
`

func (q *Queries) UpsertTag(ctx context.Context, arg UpsertNamedParams) (UpsertRow, error) {
	row := q.db.QueryRow(ctx, upsertTag, arg.Name, arg.Slug)
	var i UpsertRow
	err := row.Scan(&i.ID, &i.Inserted)
	return i, err
}
