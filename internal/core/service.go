package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/filmrecipes/internal/settings"
)

// DefaultImportTimeout bounds one import batch.
const DefaultImportTimeout = 10 * time.Minute

// ServiceConfig holds the limits applied by Service.
type ServiceConfig struct {
	ImportTimeout        time.Duration
	MaxFileSize          int64
	MaxHeaderSearchRows  int
	MaxConcurrentImports int
	MaxImportWait        time.Duration
	Export               ExporterConfig
}

// Service is the entry point used by the HTTP handlers and the CLI.
type Service struct {
	importer *Importer
	exporter *Exporter
	limiter  *ImportLimiter
	audit    AuditLog
	cfg      ServiceConfig
}

// NewService wires an importer and exporter over the given stores.
func NewService(store RecordStore, reader ExportReader, cfg ServiceConfig) *Service {
	if cfg.ImportTimeout <= 0 {
		cfg.ImportTimeout = DefaultImportTimeout
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = DefaultMaxFileSize
	}
	return &Service{
		importer: NewImporter(store),
		exporter: NewExporter(reader, cfg.Export),
		limiter:  NewImportLimiter(cfg.MaxConcurrentImports, cfg.MaxImportWait),
		cfg:      cfg,
	}
}

// SetAuditLog enables recording of every finished batch.
func (s *Service) SetAuditLog(a AuditLog) {
	s.audit = a
}

// ImportCSV parses a spreadsheet and imports its rows as one batch.
// An unreadable file is fatal and nothing is written.
func (s *Service) ImportCSV(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	parsed, err := ParseCSV(r, ParseOptions{
		MaxHeaderSearchRows: s.cfg.MaxHeaderSearchRows,
		MaxFileSize:         s.cfg.MaxFileSize,
	})
	if err != nil {
		return nil, err
	}
	return s.Import(ctx, parsed.Rows, opts)
}

// Import runs one batch, waiting for the import slot first.
func (s *Service) Import(ctx context.Context, rows []ImportRow, opts ImportOptions) (*ImportResult, error) {
	release, err := s.limiter.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire import slot: %w", err)
	}
	defer release()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.ImportTimeout)
	defer cancel()

	result, err := s.importer.ImportRows(ctx, rows, opts)
	s.recordImport(ctx, result, err)
	return result, err
}

// ExportAll writes the batch export artifact.
func (s *Service) ExportAll(ctx context.Context, filter ExportFilter, sink io.Writer, opts ExportOptions) (*ExportStats, error) {
	return s.exporter.ExportAll(ctx, filter, sink, opts)
}

// ExportByID writes one recipe document.
func (s *Service) ExportByID(ctx context.Context, id uuid.UUID, sink io.Writer, opts ExportOptions) (*ExportStats, error) {
	return s.exporter.ExportByID(ctx, id, sink, opts)
}

// ResolveSetting previews how one raw cell would be imported.
func (s *Service) ResolveSetting(rawName, rawValue string) settings.Result {
	return settings.Resolve(rawName, rawValue)
}

// ImportStatus reports the import slot usage.
func (s *Service) ImportStatus() ImportLimiterStatus {
	return s.limiter.Status()
}

// WaitForImports blocks until running batches finish or ctx is done.
func (s *Service) WaitForImports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}
