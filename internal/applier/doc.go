// Package applier provides a SQLite-backed reference writer for
// reconciliation output, the way the teacher's store package provides
// a SQLite-backed event log (internal/store/store.go): a single-writer
// connection pool over WAL mode, with every mutation idempotent under
// retry.
//
// # Database configuration
//
//   - WAL mode: concurrent reads during writes.
//   - synchronous=NORMAL: balance durability and throughput.
//   - busy_timeout=5000: wait out lock contention instead of failing fast.
//
// Unlike the teacher's store, a bitemporal table's column set is not
// fixed at compile time — it comes from a row.Schema supplied at
// runtime, so CREATE TABLE is generated rather than loaded from an
// embedded schema.sql.
//
// # Idempotency
//
// ApplyChangeSet writes inside one transaction. Insertions use
// ON CONFLICT DO NOTHING against a unique natural key, and expirations
// are idempotent updates (re-applying the same as_of_to is a no-op).
// Re-running the same change set against a table that already reflects
// it is therefore always safe.
package applier
