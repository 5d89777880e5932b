package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// HeaderIndex maps column names (lowercase) to their position in the CSV row.
type HeaderIndex map[string]int

// RawSetting is one setting cell exactly as it appeared in the source file.
type RawSetting struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ImportRow is one parsed spreadsheet row.
type ImportRow struct {
	Line           int          `json:"line"`
	Name           string       `json:"name" validate:"required,max=200"`
	Author         string       `json:"author" validate:"required,max=200"`
	AuthorURL      string       `json:"authorUrl" validate:"omitempty,url"`
	System         string       `json:"system" validate:"required,max=100"`
	Sensor         string       `json:"sensor" validate:"max=100"`
	Camera         string       `json:"camera" validate:"max=100"`
	FilmSimulation string       `json:"filmSimulation" validate:"required,max=100"`
	Style          string       `json:"style" validate:"max=100"`
	Description    string       `json:"description"`
	SourceURL      string       `json:"sourceUrl" validate:"omitempty,url"`
	Notes          string       `json:"notes"`
	Tags           []string     `json:"tags" validate:"dive,required,max=100"`
	Images         []string     `json:"images" validate:"dive,url"`
	Active         *bool        `json:"active"`
	Featured       *bool        `json:"featured"`
	Settings       []RawSetting `json:"settings"`
}

// ImportOptions controls a single import batch.
type ImportOptions struct {
	DryRun   bool
	Truncate bool
	FileName string
}

// BatchState is the lifecycle state of an import batch.
type BatchState string

const (
	BatchIdle          BatchState = "idle"
	BatchInTransaction BatchState = "in_transaction"
	BatchCommitted     BatchState = "committed"
	BatchRolledBack    BatchState = "rolled_back"
)

// RowError records a row that was rolled back to its savepoint.
type RowError struct {
	Row     int    `json:"row"`  // 1-based position among data rows
	Line    int    `json:"line"` // line in the source file, 0 if unknown
	Recipe  string `json:"recipe,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// RowWarning records a setting cell that was accepted but not persisted
// as written.
type RowWarning struct {
	Row     int    `json:"row"`
	Line    int    `json:"line"`
	Setting string `json:"setting"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

// ImportResult contains the final result of an import batch.
type ImportResult struct {
	BatchID   string             `json:"batchId"`
	FileName  string             `json:"fileName,omitempty"`
	DryRun    bool               `json:"dryRun"`
	Truncated bool               `json:"truncated"`
	State     BatchState         `json:"state"`
	Total     int                `json:"total"`
	Imported  int                `json:"imported"`
	Updated   int                `json:"updated"`
	Skipped   int                `json:"skipped"`
	Created   map[EntityKind]int `json:"created"`
	Errors    []RowError         `json:"errors"`
	Warnings  []RowWarning       `json:"warnings"`
	Duration  time.Duration      `json:"durationNs"`
}

// ErrorCount returns the number of rows that failed.
func (r *ImportResult) ErrorCount() int {
	return len(r.Errors)
}

// EntityKind names a natural-keyed entity resolved by find-or-create.
type EntityKind string

const (
	KindAuthor         EntityKind = "author"
	KindCameraSystem   EntityKind = "camera_system"
	KindSensor         EntityKind = "sensor"
	KindCameraModel    EntityKind = "camera_model"
	KindFilmSimulation EntityKind = "film_simulation"
	KindStyleCategory  EntityKind = "style_category"
	KindTag            EntityKind = "tag"
)

// EntityParams identifies an entity by its natural key (Slug) and carries
// the attributes written on insert or refreshed on conflict.
type EntityParams struct {
	Name     string
	Slug     string
	URL      string        // authors only
	ParentID uuid.NullUUID // camera system, for camera models
}

// Upserted is the outcome of an insert-or-update-on-conflict.
type Upserted struct {
	ID      uuid.UUID
	Created bool
}

// RecipeOwner is what the slug probe needs to know about an existing recipe.
type RecipeOwner struct {
	ID       uuid.UUID
	AuthorID uuid.UUID
}

// RecipeParams are the columns written for a recipe.
type RecipeParams struct {
	Name             string
	Slug             string
	Description      string
	SourceURL        string
	Notes            string
	AuthorID         uuid.UUID
	CameraSystemID   uuid.UUID
	FilmSimulationID uuid.UUID
	SensorID         uuid.NullUUID
	CameraModelID    uuid.NullUUID
	StyleCategoryID  uuid.NullUUID
	IsActive         bool
	IsFeatured       bool
}

// SettingDefinition is reference data describing one camera setting.
type SettingDefinition struct {
	ID       uuid.UUID
	Name     string
	Slug     string
	Category string
	DataType string // enum, integer, numeric, text, boolean
	Unit     string
}

// SettingValue is a resolved setting ready to persist. Exactly one of Value
// or the Min/Max pair is set.
type SettingValue struct {
	SettingID uuid.UUID
	Value     *string
	MinValue  *string
	MaxValue  *string
}

// ImageParams is one image attached to a recipe.
type ImageParams struct {
	URL       string
	IsPrimary bool
	SortOrder int
}

// RecordStore opens transactions against the recipe database.
type RecordStore interface {
	Begin(ctx context.Context) (RecordTx, error)
}

// RecordTx is one import transaction. Savepoint names are generated by the
// caller and are plain identifiers.
type RecordTx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Savepoint(ctx context.Context, name string) error
	RollbackToSavepoint(ctx context.Context, name string) error
	ReleaseSavepoint(ctx context.Context, name string) error

	TruncateRecipes(ctx context.Context) error
	ListSettingDefinitions(ctx context.Context) ([]SettingDefinition, error)

	UpsertEntity(ctx context.Context, kind EntityKind, p EntityParams) (Upserted, error)

	FindRecipeBySlug(ctx context.Context, slug string) (RecipeOwner, bool, error)
	InsertRecipe(ctx context.Context, p RecipeParams) (uuid.UUID, error)
	UpdateRecipe(ctx context.Context, id uuid.UUID, p RecipeParams) error
	ReplaceRecipeSettings(ctx context.Context, recipeID uuid.UUID, values []SettingValue) error
	ReplaceRecipeTags(ctx context.Context, recipeID uuid.UUID, tagIDs []uuid.UUID) error
	ReplaceRecipeImages(ctx context.Context, recipeID uuid.UUID, images []ImageParams) error
}

// ExportFilter narrows the recipes considered by ExportAll.
type ExportFilter struct {
	ActiveOnly   bool
	FeaturedOnly bool
}

// ExportOptions controls how an export artifact is written.
type ExportOptions struct {
	DryRun bool
	Pretty bool
}

// ExportReader returns joined recipe rows and their related rows.
type ExportReader interface {
	ListRecipes(ctx context.Context, filter ExportFilter) ([]RecipeRow, error)
	GetRecipe(ctx context.Context, id uuid.UUID) (RecipeRow, bool, error)
	ListRecipeSettings(ctx context.Context, recipeID uuid.UUID) ([]SettingRow, error)
	ListRecipeTags(ctx context.Context, recipeID uuid.UUID) ([]TagRow, error)
	ListRecipeImages(ctx context.Context, recipeID uuid.UUID) ([]ImageRow, error)
}

// RecipeRow is a recipe joined with its author, system and film simulation.
// Optional joins leave their ID invalid.
type RecipeRow struct {
	ID            uuid.UUID
	Name          string
	Slug          string
	Description   string
	SourceURL     string
	Notes         string
	StyleCategory string
	IsActive      bool
	IsFeatured    bool
	CreatedAt     time.Time
	UpdatedAt     time.Time

	AuthorID   uuid.UUID
	AuthorName string
	AuthorSlug string
	AuthorURL  string

	SystemID   uuid.UUID
	SystemName string
	SystemSlug string

	SensorID   uuid.NullUUID
	SensorName string
	SensorSlug string

	CameraID   uuid.NullUUID
	CameraName string
	CameraSlug string

	FilmSimulationID   uuid.UUID
	FilmSimulationName string
	FilmSimulationSlug string
}

// SettingRow is one recipe setting joined with its definition.
type SettingRow struct {
	SettingID uuid.UUID
	Name      string
	Slug      string
	Category  string
	Unit      *string
	Value     *string
	MinValue  *string
	MaxValue  *string
	Notes     *string
}

// TagRow is one tag linked to a recipe.
type TagRow struct {
	ID   uuid.UUID
	Name string
	Slug string
}

// ImageRow is one recipe image, in display order.
type ImageRow struct {
	ID        uuid.UUID
	URL       string
	AltText   *string
	IsPrimary bool
	SortOrder int
}

// ExportStats summarizes one export invocation.
type ExportStats struct {
	TotalRecipes    int           `json:"totalRecipes"`
	ExportedRecipes int           `json:"exportedRecipes"`
	Errors          int           `json:"errors"`
	DryRun          bool          `json:"dryRun"`
	BytesWritten    int64         `json:"bytesWritten"`
	Duration        time.Duration `json:"durationNs"`
}
