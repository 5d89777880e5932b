package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

type ImportAudit struct {
	ID        pgtype.UUID
	Action    string
	Severity  string
	BatchID   string
	FileName  pgtype.Text
	State     string
	IpAddress pgtype.Text
	UserAgent pgtype.Text
	Total     int32
	Imported  int32
	Updated   int32
	Skipped   int32
	Errors    int32
	Warnings  int32
	Truncated bool
	Reason    pgtype.Text
	CreatedAt pgtype.Timestamptz
}

const insertImportAudit = `-- name: InsertImportAudit :one
INSERT INTO import_audit (
    action, severity, batch_id, file_name, state, ip_address, user_agent,
    total, imported, updated, skipped, errors, warnings, truncated, reason
) VALUES (
    $1, $2, $3, $4, $5, $6, $7,
    $8, $9, $10, $11, $12, $13, $14, $15
)
RETURNING id, created_at
`

type InsertImportAuditParams struct {
	Action    string
	Severity  string
	BatchID   string
	FileName  pgtype.Text
	State     string
	IpAddress pgtype.Text
	UserAgent pgtype.Text
	Total     int32
	Imported  int32
	Updated   int32
	Skipped   int32
	Errors    int32
	Warnings  int32
	Truncated bool
	Reason    pgtype.Text
}

type InsertImportAuditRow struct {
	ID        pgtype.UUID
	CreatedAt pgtype.Timestamptz
}

func (q *Queries) InsertImportAudit(ctx context.Context, arg InsertImportAuditParams) (InsertImportAuditRow, error) {
	row := q.db.QueryRow(ctx, insertImportAudit,
		arg.Action,
		arg.Severity,
		arg.BatchID,
		arg.FileName,
		arg.State,
		arg.IpAddress,
		arg.UserAgent,
		arg.Total,
		arg.Imported,
		arg.Updated,
		arg.Skipped,
		arg.Errors,
		arg.Warnings,
		arg.Truncated,
		arg.Reason,
	)
	var i InsertImportAuditRow
	err := row.Scan(&i.ID, &i.CreatedAt)
	return i, err
}

const listImportAudits = `-- name: ListImportAudits :many
SELECT id, action, severity, batch_id, file_name, state, ip_address, user_agent,
       total, imported, updated, skipped, errors, warnings, truncated, reason, created_at
FROM import_audit
ORDER BY created_at DESC
LIMIT $1
`

func (q *Queries) ListImportAudits(ctx context.Context, limit int32) ([]ImportAudit, error) {
	rows, err := q.db.Query(ctx, listImportAudits, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ImportAudit
	for rows.Next() {
		var i ImportAudit
		if err := rows.Scan(
			&i.ID,
			&i.Action,
			&i.Severity,
			&i.BatchID,
			&i.FileName,
			&i.State,
			&i.IpAddress,
			&i.UserAgent,
			&i.Total,
			&i.Imported,
			&i.Updated,
			&i.Skipped,
			&i.Errors,
			&i.Warnings,
			&i.Truncated,
			&i.Reason,
			&i.CreatedAt,
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

const purgeImportAudits = `-- name: PurgeImportAudits :execrows
DELETE FROM import_audit
WHERE created_at < now() - make_interval(days => $1::int)
`

func (q *Queries) PurgeImportAudits(ctx context.Context, retentionDays int32) (int64, error) {
	result, err := q.db.Exec(ctx, purgeImportAudits, retentionDays)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
