// Package writeplan turns an assembled change set (internal/assemble)
// into an ordered sequence of write operations a storage backend can
// apply without knowing anything about reconciliation.
//
// WriteOp is a sealed interface — only types in this package implement
// it — following the marker-method pattern the teacher uses for its
// query IR (internal/queryir). The two concrete operations are:
//
//   - ExpireOp: close out an existing row's as_of interval.
//   - InsertOp: append a new row version.
//
// Sealing keeps backends (internal/sqlwriter, internal/applier)
// exhaustive: a type switch over WriteOp can default to "impossible"
// instead of guarding against unknown implementations.
package writeplan
