package core

import (
	"errors"
	"fmt"
)

var (
	// ErrRecipeNotFound is returned by ExportByID for an unknown id.
	ErrRecipeNotFound = errors.New("recipe not found")

	// ErrUnknownSetting fails a row whose canonical setting name has no
	// setting definition.
	ErrUnknownSetting = errors.New("unknown setting")

	// ErrBatchAborted marks failures of the transaction-control statements.
	// The whole batch is rolled back.
	ErrBatchAborted = errors.New("import batch aborted")

	// ErrTooManyImports is returned when an import slot cannot be acquired.
	ErrTooManyImports = errors.New("too many concurrent imports, please try again later")

	ErrEmptyFile      = errors.New("empty file")
	ErrHeaderNotFound = errors.New("header not found: no Name column")
	ErrFileTooLarge   = errors.New("file too large")
	ErrEmptySlug      = errors.New("name produces an empty slug")
)

// Batch stages reported by BatchError.
const (
	StageBegin     = "begin"
	StageTruncate  = "truncate"
	StageLoadDefs  = "load setting definitions"
	StageSavepoint = "savepoint"
	StageCommit    = "commit"
	StageRollback  = "rollback"
)

// BatchError is a batch-fatal failure. It matches ErrBatchAborted with errors.Is.
type BatchError struct {
	Stage string
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s at %s: %v", ErrBatchAborted, e.Stage, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

func (e *BatchError) Is(target error) bool {
	return target == ErrBatchAborted
}

func batchError(stage string, err error) error {
	return &BatchError{Stage: stage, Err: err}
}
