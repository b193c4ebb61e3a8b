// Package reconcile implements the timeline reconciler (spec §4.3): for
// one identity group, it computes the expirations and insertions needed
// to bring the live projection of the stored timeline in line with a
// batch of updates, in either delta or full-state mode.
//
// Each group moves through a fixed state progression: ready → prepared
// (live projection filtered, sorted, fingerprinted) → reconciled (mode
// branch applied) → conflated (internal/conflate merges adjacent
// segments). There are no back-transitions; a group is processed once
// per run.
//
// Groups share no mutable state (spec §5), so Reconcile is safe to call
// concurrently across groups from internal/dispatch.
package reconcile
