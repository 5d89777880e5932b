// Package core provides the import and export pipelines for film-simulation
// recipes.
//
// This package contains the domain logic independent of any UI or transport
// layer. It is driven by the HTTP server, the CLI, and tests.
//
// # Architecture
//
//   - Parsing: [ParseCSV] streams a spreadsheet export into [ImportRow]s,
//     locating the header row and separating recipe columns from raw
//     setting cells.
//   - Import: [Importer] writes one batch inside one transaction, one
//     savepoint per row. Names are resolved to entities by slug; setting
//     cells go through package settings before they are matched against the
//     setting definitions.
//   - Export: [Exporter] reads recipes with their settings, tags and images
//     and renders [RecipeDocument]s, either one by id or all of them in an
//     [ExportBundle].
//   - Preview: [Service.PreviewCSV] parses and validates a file without
//     touching storage.
//   - Service: [Service] is the entry point. It serializes batches with an
//     [ImportLimiter] and records each one in the [AuditLog].
//
// # Storage
//
// The engines talk to [RecordStore], [RecordTx] and [ExportReader].
// [PgStore] implements them over PostgreSQL; tests use in-memory fakes.
//
// # Batch semantics
//
// A row that fails is rolled back to its savepoint and reported in
// [ImportResult.Errors]; the batch continues. A failure of BEGIN, COMMIT,
// ROLLBACK or a savepoint statement aborts the batch with a [BatchError].
// With DryRun the transaction is always rolled back after the last row.
//
// # Error Handling
//
// Errors are wrapped with context. [MapError] turns any error into a coded
// [UserMessage]; the same code is stored on each [RowError].
package core
