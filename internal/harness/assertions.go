package harness

import (
	"fmt"
	"sort"

	"github.com/roach88/bitemporal/internal/row"
)

// rowKey is a deterministic, comparison-stable description of a row —
// used as a map key so expected/actual sets compare independent of
// order (spec §4.6 leaves row order within an output batch
// unspecified).
func rowKey(r row.Row) string {
	return fmt.Sprintf(
		"%v|%v|%s|%s|%s|%s|%s",
		r.Identity, r.Values,
		r.EffectiveFrom.Time().Format("2006-01-02"),
		r.EffectiveTo.Time().Format("2006-01-02"),
		r.AsOfFrom.Time().Format("2006-01-02T15:04:05.000000Z"),
		r.AsOfTo.Time().Format("2006-01-02T15:04:05.000000Z"),
		r.Fingerprint,
	)
}

// compareRowSets reports every row present in one set but not the
// other, as mismatches on result.
func compareRowSets(result *Result, label string, expected, actual []row.Row) {
	expectedSet := make(map[string]row.Row, len(expected))
	for _, r := range expected {
		expectedSet[rowKey(r)] = r
	}
	actualSet := make(map[string]row.Row, len(actual))
	for _, r := range actual {
		actualSet[rowKey(r)] = r
	}

	var missing, unexpected []string
	for k := range expectedSet {
		if _, ok := actualSet[k]; !ok {
			missing = append(missing, k)
		}
	}
	for k := range actualSet {
		if _, ok := expectedSet[k]; !ok {
			unexpected = append(unexpected, k)
		}
	}
	sort.Strings(missing)
	sort.Strings(unexpected)

	for _, k := range missing {
		result.AddDiff(fmt.Sprintf("%s: missing expected row %s", label, k))
	}
	for _, k := range unexpected {
		result.AddDiff(fmt.Sprintf("%s: unexpected row %s", label, k))
	}
}
