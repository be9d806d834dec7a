// Package ledger persists run history in SQLite. Every pipeline run gets a
// row keyed by a generated run ID, and every executed job gets a row under
// its run recording status and render counts. The history powers the CLI's
// history command; rendering never depends on it, so ledger write failures
// degrade to warnings in the pipeline.
//
// The database lives at the configured path (default
// ~/.local/share/pcbooth/history.db) in WAL mode. Schema changes append a
// migration file under migrations/; applied versions are tracked in the
// schema_migrations table.
package ledger
