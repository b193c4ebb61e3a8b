package harness

import (
	"fmt"

	"github.com/roach88/bitemporal/internal/assemble"
	"github.com/roach88/bitemporal/internal/group"
	"github.com/roach88/bitemporal/internal/reconcile"
	"github.com/roach88/bitemporal/internal/row"
	"github.com/roach88/bitemporal/internal/value"
)

// fingerprint computes the value-tuple digest for a row, the same
// digest internal/reconcile attaches during preparation (spec
// §4.3.1), so expected and actual rows compare equal on Fingerprint.
func fingerprint(r row.Row) (row.Row, error) {
	fp, err := value.Fingerprint(r.Values)
	if err != nil {
		return row.Row{}, err
	}
	return r.WithFingerprint(fp), nil
}

// Run executes a scenario against the real reconciliation pipeline —
// group.Partition, reconcile.Reconcile, internal/assemble — and
// compares the resulting change set against the scenario's
// expectation.
func Run(scenario *Scenario) (*Result, error) {
	schema, err := buildSchema(scenario.Schema)
	if err != nil {
		return nil, fmt.Errorf("build schema: %w", err)
	}

	systemTime, err := parseTimestamp(scenario.SystemTime)
	if err != nil {
		return nil, fmt.Errorf("parse system_time: %w", err)
	}

	current, err := toRows(schema, scenario.Current, systemTime)
	if err != nil {
		return nil, fmt.Errorf("convert current rows: %w", err)
	}
	updates, err := toRows(schema, scenario.Updates, systemTime)
	if err != nil {
		return nil, fmt.Errorf("convert update rows: %w", err)
	}

	actual, err := reconcileAll(schema, current, updates, scenario.Mode, systemTime)
	if err != nil {
		return nil, err
	}

	expectExpire, err := toRows(schema, scenario.Expect.ToExpire, systemTime)
	if err != nil {
		return nil, fmt.Errorf("convert expected to_expire rows: %w", err)
	}
	expectInsert, err := toRows(schema, scenario.Expect.ToInsert, systemTime)
	if err != nil {
		return nil, fmt.Errorf("convert expected to_insert rows: %w", err)
	}

	result := &Result{Pass: true}
	compareRowSets(result, "to_expire", expectExpire, actual.ToExpire)
	compareRowSets(result, "to_insert", expectInsert, actual.ToInsert)

	return result, nil
}

// reconcileAll runs the real pipeline — group.Partition, per-group
// reconcile.Reconcile, internal/assemble — over a converted current
// and update row set, and returns the resulting change set.
func reconcileAll(schema row.Schema, current, updates []row.Row, mode string, systemTime value.Timestamp) (assemble.ChangeSet, error) {
	groups, err := group.Partition(current, updates)
	if err != nil {
		return assemble.ChangeSet{}, fmt.Errorf("partition groups: %w", err)
	}

	var perGroup []reconcile.ChangeSet
	for _, g := range groups {
		cs, err := reconcile.Reconcile(g, reconcile.Mode(mode), systemTime)
		if err != nil {
			return assemble.ChangeSet{}, fmt.Errorf("reconcile group %s: %w", g.Key, err)
		}
		perGroup = append(perGroup, cs)
	}

	return assemble.Assemble(schema, perGroup), nil
}

func toRows(schema row.Schema, specs []RowSpec, systemTime value.Timestamp) ([]row.Row, error) {
	rows := make([]row.Row, len(specs))
	for i, spec := range specs {
		r, err := toRow(schema, spec, systemTime)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		r, err = fingerprint(r)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		rows[i] = r
	}
	return rows, nil
}
