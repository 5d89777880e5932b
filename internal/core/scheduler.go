package core

// scheduler.go runs the import audit retention job.
//
// The job runs once on start and then every CheckInterval until the context
// is cancelled. A failed purge is logged and retried on the next tick.

import (
	"context"
	"log/slog"
	"time"
)

// Retention defaults.
const (
	DefaultAuditRetentionDays = 365
	DefaultRetentionInterval  = 24 * time.Hour
)

// RetentionConfig holds configuration for the retention scheduler.
type RetentionConfig struct {
	RetentionDays int           // entries older than this are purged (default: 365)
	CheckInterval time.Duration // how often to run (default: 24h)
}

// StartAuditRetention blocks, purging old import audit entries periodically.
// It returns immediately when no audit log is configured.
func (s *Service) StartAuditRetention(ctx context.Context, cfg RetentionConfig) {
	if s.audit == nil {
		return
	}
	if cfg.RetentionDays <= 0 {
		cfg.RetentionDays = DefaultAuditRetentionDays
	}
	if cfg.CheckInterval <= 0 {
		cfg.CheckInterval = DefaultRetentionInterval
	}

	slog.Info("audit retention scheduler started",
		"retention_days", cfg.RetentionDays,
		"interval", cfg.CheckInterval.String(),
	)

	s.runRetentionJob(ctx, cfg)

	ticker := time.NewTicker(cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("audit retention scheduler stopped")
			return
		case <-ticker.C:
			s.runRetentionJob(ctx, cfg)
		}
	}
}

// runRetentionJob performs one purge.
func (s *Service) runRetentionJob(ctx context.Context, cfg RetentionConfig) {
	start := time.Now()
	purged, err := s.audit.PurgeImportAudits(ctx, cfg.RetentionDays)
	if err != nil {
		slog.Error("audit purge failed", "error", err)
		return
	}
	slog.Info("purged import audit entries",
		"entries_purged", purged,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
