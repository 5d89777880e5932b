package core

import (
	"context"
	"errors"
	"time"

	"github.com/JonMunkholm/filmrecipes/internal/logging"
)

// History limits for ImportHistory.
const (
	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 500
)

// AuditAction represents the type of batch being audited.
type AuditAction string

const (
	ActionImport         AuditAction = "import"
	ActionImportDryRun   AuditAction = "import_dry_run"
	ActionImportTruncate AuditAction = "import_truncate"
	ActionImportAborted  AuditAction = "import_aborted"
)

// AuditSeverity represents the severity level of an audit entry.
type AuditSeverity string

const (
	SeverityLow      AuditSeverity = "low"
	SeverityMedium   AuditSeverity = "medium"
	SeverityHigh     AuditSeverity = "high"
	SeverityCritical AuditSeverity = "critical"
)

// AuditEntry is the stored outcome of one import batch.
type AuditEntry struct {
	ID        string        `json:"id"`
	Action    AuditAction   `json:"action"`
	Severity  AuditSeverity `json:"severity"`
	BatchID   string        `json:"batchId"`
	FileName  string        `json:"fileName,omitempty"`
	State     BatchState    `json:"state"`
	IPAddress string        `json:"ipAddress,omitempty"`
	UserAgent string        `json:"userAgent,omitempty"`
	Total     int           `json:"total"`
	Imported  int           `json:"imported"`
	Updated   int           `json:"updated"`
	Skipped   int           `json:"skipped"`
	Errors    int           `json:"errors"`
	Warnings  int           `json:"warnings"`
	Truncated bool          `json:"truncated"`
	Reason    string        `json:"reason,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
}

// AuditLog persists batch outcomes.
type AuditLog interface {
	InsertImportAudit(ctx context.Context, e AuditEntry) (AuditEntry, error)
	ListImportAudits(ctx context.Context, limit int) ([]AuditEntry, error)
	PurgeImportAudits(ctx context.Context, retentionDays int) (int64, error)
}

// determineSeverity returns the appropriate severity for an action.
func determineSeverity(action AuditAction) AuditSeverity {
	switch action {
	case ActionImportTruncate:
		return SeverityCritical
	case ActionImportAborted:
		return SeverityHigh
	case ActionImportDryRun:
		return SeverityLow
	default:
		return SeverityMedium
	}
}

// newAuditEntry summarizes a batch. batchErr is the error returned by the
// importer, if any.
func newAuditEntry(ctx context.Context, result *ImportResult, batchErr error) AuditEntry {
	action := ActionImport
	switch {
	case batchErr != nil:
		action = ActionImportAborted
	case result.DryRun:
		action = ActionImportDryRun
	case result.Truncated:
		action = ActionImportTruncate
	}

	e := AuditEntry{
		Action:    action,
		Severity:  determineSeverity(action),
		BatchID:   result.BatchID,
		FileName:  result.FileName,
		State:     result.State,
		IPAddress: IPAddressFromContext(ctx),
		UserAgent: UserAgentFromContext(ctx),
		Total:     result.Total,
		Imported:  result.Imported,
		Updated:   result.Updated,
		Skipped:   result.Skipped,
		Errors:    result.ErrorCount(),
		Warnings:  len(result.Warnings),
		Truncated: result.Truncated,
	}
	if batchErr != nil {
		e.Reason = MapError(batchErr).Message
		var be *BatchError
		if errors.As(batchErr, &be) {
			e.Reason = be.Error()
		}
	}
	return e
}

// recordImport writes the audit entry for a finished batch. Audit failures
// are logged and never change the import outcome.
func (s *Service) recordImport(ctx context.Context, result *ImportResult, batchErr error) {
	if s.audit == nil || result == nil {
		return
	}
	entry := newAuditEntry(ctx, result, batchErr)
	if _, err := s.audit.InsertImportAudit(context.WithoutCancel(ctx), entry); err != nil {
		logging.FromContext(ctx).Warn("failed to record import audit",
			"batch_id", result.BatchID,
			"error", err,
		)
	}
}

// ImportHistory returns the most recent batches, newest first.
func (s *Service) ImportHistory(ctx context.Context, limit int) ([]AuditEntry, error) {
	if s.audit == nil {
		return []AuditEntry{}, nil
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}
	return s.audit.ListImportAudits(ctx, limit)
}
