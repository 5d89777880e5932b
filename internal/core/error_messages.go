package core

// # Error Codes Reference
//
// User-facing messages carry a code that can be quoted to support. The same
// code is stored on RowError.Code for row-level failures.
//
// # Database Errors (DB001-DB099)
//
//	DB001 - Duplicate key: A record with this key already exists
//	        Patterns: SQLSTATE 23505, "duplicate key", "unique constraint"
//	DB002 - Foreign key: Referenced record does not exist
//	        Patterns: SQLSTATE 23503, "foreign key"
//	DB003 - Check constraint: A value was rejected by the database
//	        Patterns: SQLSTATE 23514, 22001, "check constraint"
//	DB004 - Connection refused: Unable to connect to database
//	DB005 - Connection reset: Database connection was interrupted
//	DB006 - Timeout: Operation timed out
//	DB007 - Deadlock: Database was busy with conflicting operations
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Required field is empty
//	VAL002 - Field too long
//	VAL003 - Invalid URL
//	VAL004 - Unknown setting: no setting definition for the canonical name
//	VAL005 - Empty slug: name has no letters or digits
//	VAL000 - Any other validation failure
//
// # Import Errors (IMP001-IMP099)
//
//	IMP001 - Batch aborted: transaction control failed, nothing was saved
//	IMP002 - System busy: another import is running
//	IMP003 - Request cancelled
//	IMP004 - Request timed out
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Recipe not found
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large
//	FILE002 - Invalid CSV
//	FILE003 - Header not found
//	FILE004 - No file provided
//	FILE005 - Empty file
//
// # Rate Limiting (RATE001)
//
// # Default Error (ERR000)
//
// Sentinel errors and PostgreSQL error codes are matched first; the pattern
// table is searched case-insensitively after that and the first match wins.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

var (
	msgDuplicate = UserMessage{
		Message: "A record with this key already exists",
		Action:  "Check the file for duplicate names",
		Code:    "DB001",
	}
	msgForeignKey = UserMessage{
		Message: "Referenced record does not exist",
		Action:  "Check author, system and film simulation columns",
		Code:    "DB002",
	}
	msgCheck = UserMessage{
		Message: "A value was rejected by the database",
		Action:  "Check the row for values that are too long or out of range",
		Code:    "DB003",
	}
	msgUnknownSetting = UserMessage{
		Message: "Setting is not defined",
		Action:  "Rename the column or add a setting definition",
		Code:    "VAL004",
	}
	msgEmptySlug = UserMessage{
		Message: "Name must contain letters or digits",
		Action:  "Fix the name column",
		Code:    "VAL005",
	}
	msgBatchAborted = UserMessage{
		Message: "Import was aborted and nothing was saved",
		Action:  "Please try again; contact support if it persists",
		Code:    "IMP001",
	}
	msgBusy = UserMessage{
		Message: "System is busy processing another import",
		Action:  "Please wait a moment and try again",
		Code:    "IMP002",
	}
	msgNotFound = UserMessage{
		Message: "Recipe not found",
		Action:  "Check the recipe id",
		Code:    "EXP001",
	}
	msgTooLarge = UserMessage{
		Message: "File exceeds maximum size limit",
		Action:  "Split the file into smaller chunks",
		Code:    "FILE001",
	}
	msgHeader = UserMessage{
		Message: "Header row not found",
		Action:  "Make sure one of the first rows has a Name column",
		Code:    "FILE003",
	}
	msgEmptyFile = UserMessage{
		Message: "The uploaded file is empty",
		Action:  "Please upload a CSV file with data rows",
		Code:    "FILE005",
	}
	msgValidation = UserMessage{
		Message: "Row failed validation",
		Action:  "Fix the listed fields",
		Code:    "VAL000",
	}
)

// sentinelMessages is checked with errors.Is before any pattern matching.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrBatchAborted, msgBatchAborted},
	{ErrTooManyImports, msgBusy},
	{ErrRecipeNotFound, msgNotFound},
	{ErrUnknownSetting, msgUnknownSetting},
	{ErrEmptySlug, msgEmptySlug},
	{ErrFileTooLarge, msgTooLarge},
	{ErrHeaderNotFound, msgHeader},
	{ErrEmptyFile, msgEmptyFile},
}

// pgCodeMessages maps PostgreSQL SQLSTATE codes.
var pgCodeMessages = map[string]UserMessage{
	"23505": msgDuplicate,
	"23503": msgForeignKey,
	"23514": msgCheck,
	"22001": msgCheck,
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages.
// The first matching pattern wins, so specific patterns come first.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Database Errors (DB001-DB007)
	// =========================================================================
	{pattern: "duplicate key", msg: msgDuplicate},
	{pattern: "unique constraint", msg: msgDuplicate},
	{pattern: "foreign key", msg: msgForeignKey},
	{pattern: "check constraint", msg: msgCheck},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB007",
		},
	},

	// =========================================================================
	// Validation Errors (VAL001-VAL003)
	// =========================================================================
	{
		pattern: "is required",
		msg: UserMessage{
			Message: "Required field is empty",
			Action:  "Fill in name, author, system and film simulation",
			Code:    "VAL001",
		},
	},
	{
		pattern: "must not exceed",
		msg: UserMessage{
			Message: "A field is too long",
			Action:  "Shorten the value",
			Code:    "VAL002",
		},
	},
	{
		pattern: "must be a valid url",
		msg: UserMessage{
			Message: "Invalid URL",
			Action:  "Use a full http(s) URL",
			Code:    "VAL003",
		},
	},
	{pattern: "validation failed", msg: msgValidation},

	// =========================================================================
	// Request Errors (IMP003-IMP004)
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "IMP003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "IMP004",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "DB006",
		},
	},

	// =========================================================================
	// File Errors (FILE002, FILE004)
	// =========================================================================
	{
		pattern: "parse csv",
		msg: UserMessage{
			Message: "File is not a valid CSV",
			Action:  "Export the spreadsheet as comma-separated values",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file to import",
			Code:    "FILE004",
		},
	},

	// =========================================================================
	// Rate Limiting (RATE001)
	// =========================================================================
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	msg := MapError(fmt.Errorf("export: %w", ErrRecipeNotFound))
//	// msg.Code == "EXP001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, s := range sentinelMessages {
		if errors.Is(err, s.err) {
			return s.msg
		}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if msg, ok := pgCodeMessages[pgErr.Code]; ok {
			return msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to something other than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
