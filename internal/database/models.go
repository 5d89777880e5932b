package database

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type SettingDefinition struct {
	ID        pgtype.UUID
	Name      string
	Slug      string
	Category  string
	DataType  string
	Unit      pgtype.Text
	SortOrder int32
}
