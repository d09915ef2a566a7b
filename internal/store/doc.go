// Package store provides the SQLite-backed idempotency ledger.
//
// The ledger is append-only and holds two tables:
//   - passes: one row per recorded decision pass, with its report digest
//   - runs: one row per scheduled lineage, keyed by lineage hash
//
// A lineage hash is written at most once (ON CONFLICT DO NOTHING), so
// recording the same decision twice is a no-op. Reads are ordered by seq,
// the logical insertion counter, and return empty slices rather than nil.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// OpenReadOnly serves commands that only inspect the ledger. It never
// creates or migrates a database and refuses a schema version other than
// the one this build writes.
package store
