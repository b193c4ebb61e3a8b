package conflate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bitemporal/internal/row"
	"github.com/roach88/bitemporal/internal/value"
)

func d(s string) value.Date {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return value.NewDate(t)
}

func mkInsert(from, to, fp string, asOfFrom time.Time) row.Row {
	return row.Row{
		EffectiveFrom: d(from),
		EffectiveTo:   d(to),
		AsOfFrom:      value.NewTimestamp(asOfFrom),
		AsOfTo:        row.ASOFInf,
		Fingerprint:   fp,
	}
}

func TestConflateMergesAdjacentSameFingerprint(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	a := mkInsert("2024-01-01", "2024-02-01", "fp-a", t0)
	b := mkInsert("2024-02-01", "2024-03-01", "fp-a", t0)

	out := Conflate([]row.Row{a, b})
	require.Len(t, out, 1)
	assert.True(t, out[0].EffectiveFrom.Equal(d("2024-01-01")))
	assert.True(t, out[0].EffectiveTo.Equal(d("2024-03-01")))
}

func TestConflateKeepsDifferentFingerprintsSeparate(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	a := mkInsert("2024-01-01", "2024-02-01", "fp-a", t0)
	b := mkInsert("2024-02-01", "2024-03-01", "fp-b", t0)

	out := Conflate([]row.Row{a, b})
	assert.Len(t, out, 2)
}

func TestConflateKeepsDifferentAsOfFromSeparate(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	t1 := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	a := mkInsert("2024-01-01", "2024-02-01", "fp-a", t0)
	b := mkInsert("2024-02-01", "2024-03-01", "fp-a", t1)

	out := Conflate([]row.Row{a, b})
	assert.Len(t, out, 2, "as_of_from guard must prevent merging across transactional origins")
}

func TestConflateDoesNotMergeNonTouchingSegments(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	a := mkInsert("2024-01-01", "2024-02-01", "fp-a", t0)
	b := mkInsert("2024-03-01", "2024-04-01", "fp-a", t0)

	out := Conflate([]row.Row{a, b})
	assert.Len(t, out, 2)
}

func TestConflateIsIdempotent(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	a := mkInsert("2024-01-01", "2024-02-01", "fp-a", t0)
	b := mkInsert("2024-02-01", "2024-03-01", "fp-a", t0)
	c := mkInsert("2024-06-01", "2024-07-01", "fp-b", t0)

	once := Conflate([]row.Row{a, b, c})
	twice := Conflate(once)
	assert.Equal(t, once, twice)
}

func TestConflateChainOfThree(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	a := mkInsert("2024-01-01", "2024-02-01", "fp-a", t0)
	b := mkInsert("2024-02-01", "2024-03-01", "fp-a", t0)
	c := mkInsert("2024-03-01", "2024-04-01", "fp-a", t0)

	out := Conflate([]row.Row{c, a, b})
	require.Len(t, out, 1)
	assert.True(t, out[0].EffectiveFrom.Equal(d("2024-01-01")))
	assert.True(t, out[0].EffectiveTo.Equal(d("2024-04-01")))
}
