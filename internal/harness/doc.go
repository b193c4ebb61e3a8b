// Package harness provides conformance testing for bitemporal
// reconciliation scenarios.
//
// Each scenario declares a table schema, a set of current rows, a
// batch of updates, the reconciliation mode and system time, and the
// expected to_expire/to_insert change set. Run drives the real
// pipeline — internal/group, internal/reconcile, internal/conflate,
// internal/assemble — and compares its actual output against the
// scenario's expectation.
//
// This differs from a harness that manufactures its "actual" output
// from the expectation itself (which would pass by construction no
// matter what the engine does): every scenario here exercises the
// production reconciliation code path, so a regression in reconcile
// or conflate surfaces as a failing scenario.
//
// # Scenario format
//
//	name: head_slice
//	description: "update overlapping a segment's head splits off the tail"
//	mode: delta
//	system_time: "2024-06-01T00:00:00Z"
//	schema:
//	  id_columns: [customer_id]
//	  value_columns: [balance]
//	  value_types: [int]
//	current:
//	  - identity: {customer_id: c1}
//	    values: {balance: 100}
//	    effective_from: "2024-01-01"
//	    effective_to: "2260-12-31"
//	    as_of_from: "2024-01-01T00:00:00Z"
//	    as_of_to: "2260-12-31T23:59:59Z"
//	updates:
//	  - identity: {customer_id: c1}
//	    values: {balance: 200}
//	    effective_from: "2024-01-01"
//	    effective_to: "2024-03-01"
//	expect:
//	  to_expire: [...]
//	  to_insert: [...]
package harness
