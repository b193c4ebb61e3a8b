package harness

import (
	"encoding/json"
	"fmt"
	"sort"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/bitemporal/internal/row"
)

// snapshotRow is the JSON-stable projection of a row.Row used for
// golden comparison.
type snapshotRow struct {
	Identity      []string `json:"identity"`
	Values        []string `json:"values"`
	EffectiveFrom string   `json:"effective_from"`
	EffectiveTo   string   `json:"effective_to"`
	AsOfFrom      string   `json:"as_of_from"`
	AsOfTo        string   `json:"as_of_to"`
	Fingerprint   string   `json:"fingerprint"`
}

func toSnapshotRow(r row.Row) snapshotRow {
	ident := make([]string, len(r.Identity))
	for i, v := range r.Identity {
		ident[i] = fmt.Sprintf("%v", v)
	}
	vals := make([]string, len(r.Values))
	for i, v := range r.Values {
		vals[i] = fmt.Sprintf("%v", v)
	}
	return snapshotRow{
		Identity:      ident,
		Values:        vals,
		EffectiveFrom: r.EffectiveFrom.Time().Format("2006-01-02"),
		EffectiveTo:   r.EffectiveTo.Time().Format("2006-01-02"),
		AsOfFrom:      r.AsOfFrom.Time().Format("2006-01-02T15:04:05.000000Z"),
		AsOfTo:        r.AsOfTo.Time().Format("2006-01-02T15:04:05.000000Z"),
		Fingerprint:   r.Fingerprint,
	}
}

func sortedSnapshot(rows []row.Row) []snapshotRow {
	out := make([]snapshotRow, len(rows))
	for i, r := range rows {
		out[i] = toSnapshotRow(r)
	}
	sort.Slice(out, func(i, j int) bool {
		return fmt.Sprintf("%v", out[i]) < fmt.Sprintf("%v", out[j])
	})
	return out
}

// RunWithGolden runs a scenario against the real pipeline (bypassing
// the scenario's own expect clause) and compares the resulting change
// set against a golden file, the way the teacher's RunWithGolden
// compares a trace against testdata/golden (internal/harness/golden.go).
//
// To regenerate golden files: go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	schema, err := buildSchema(scenario.Schema)
	if err != nil {
		return err
	}
	systemTime, err := parseTimestamp(scenario.SystemTime)
	if err != nil {
		return err
	}
	current, err := toRows(schema, scenario.Current, systemTime)
	if err != nil {
		return err
	}
	updates, err := toRows(schema, scenario.Updates, systemTime)
	if err != nil {
		return err
	}

	snapshot := struct {
		ScenarioName string        `json:"scenario_name"`
		ToExpire     []snapshotRow `json:"to_expire"`
		ToInsert     []snapshotRow `json:"to_insert"`
	}{ScenarioName: scenario.Name}

	cs, err := reconcileAll(schema, current, updates, scenario.Mode, systemTime)
	if err != nil {
		return err
	}
	snapshot.ToExpire = sortedSnapshot(cs.ToExpire)
	snapshot.ToInsert = sortedSnapshot(cs.ToInsert)

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)

	return nil
}
