package reconcile

import (
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bitemporal/internal/group"
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

func systemTime() value.Timestamp {
	return value.NewTimestamp(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
}

func mkLiveRow(id string, from, to string, val string) row.Row {
	return row.Row{
		Identity:      value.Tuple{value.String(id)},
		Values:        value.Tuple{value.String(val)},
		EffectiveFrom: d(from),
		EffectiveTo:   d(to),
		AsOfFrom:      value.NewTimestamp(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)),
		AsOfTo:        row.ASOFInf,
	}
}

func sortByFrom(rows []row.Row) {
	sort.Slice(rows, func(i, j int) bool { return rows[i].EffectiveFrom.Before(rows[j].EffectiveFrom) })
}

// Seed scenario 1: head slice (delta).
func TestDeltaHeadSlice(t *testing.T) {
	current := mkLiveRow("1", "2024-01-01", "2260-12-31", "A")
	update := mkLiveRow("1", "2024-01-01", "2024-02-01", "B")

	g, err := group.Partition([]row.Row{current}, []row.Row{update})
	require.NoError(t, err)
	require.Len(t, g, 1)

	cs, err := Reconcile(g[0], ModeDelta, systemTime())
	require.NoError(t, err)

	require.Len(t, cs.ToExpire, 1)
	assert.True(t, cs.ToExpire[0].AsOfTo.Equal(systemTime()))

	require.Len(t, cs.ToInsert, 2)
	sortByFrom(cs.ToInsert)
	assert.True(t, cs.ToInsert[0].EffectiveFrom.Equal(d("2024-01-01")))
	assert.True(t, cs.ToInsert[0].EffectiveTo.Equal(d("2024-02-01")))
	assert.Equal(t, value.String("B"), cs.ToInsert[0].Values[0])

	assert.True(t, cs.ToInsert[1].EffectiveFrom.Equal(d("2024-02-01")))
	assert.True(t, cs.ToInsert[1].EffectiveTo.Equal(row.EFFInf))
	assert.Equal(t, value.String("A"), cs.ToInsert[1].Values[0])
	assert.True(t, cs.ToInsert[1].AsOfFrom.Equal(systemTime()))
}

// Seed scenario 2: tail slice (delta).
func TestDeltaTailSlice(t *testing.T) {
	current := mkLiveRow("1", "2024-01-01", "2024-06-01", "A")
	update := mkLiveRow("1", "2024-05-01", "2024-06-01", "B")

	g, err := group.Partition([]row.Row{current}, []row.Row{update})
	require.NoError(t, err)

	cs, err := Reconcile(g[0], ModeDelta, systemTime())
	require.NoError(t, err)

	require.Len(t, cs.ToExpire, 1)
	require.Len(t, cs.ToInsert, 2)
	sortByFrom(cs.ToInsert)
	assert.True(t, cs.ToInsert[0].EffectiveFrom.Equal(d("2024-01-01")))
	assert.True(t, cs.ToInsert[0].EffectiveTo.Equal(d("2024-05-01")))
	assert.Equal(t, value.String("A"), cs.ToInsert[0].Values[0])
	assert.True(t, cs.ToInsert[1].EffectiveFrom.Equal(d("2024-05-01")))
	assert.True(t, cs.ToInsert[1].EffectiveTo.Equal(d("2024-06-01")))
	assert.Equal(t, value.String("B"), cs.ToInsert[1].Values[0])
}

// Seed scenario 3: non-overlap (delta).
func TestDeltaNonOverlap(t *testing.T) {
	current := mkLiveRow("1", "2024-01-01", "2024-02-01", "A")
	update := mkLiveRow("1", "2024-06-01", "2024-07-01", "B")

	g, err := group.Partition([]row.Row{current}, []row.Row{update})
	require.NoError(t, err)

	cs, err := Reconcile(g[0], ModeDelta, systemTime())
	require.NoError(t, err)

	assert.Empty(t, cs.ToExpire)
	require.Len(t, cs.ToInsert, 1)
	assert.Equal(t, value.String("B"), cs.ToInsert[0].Values[0])
}

func TestDeltaEmptyUpdatesYieldsEmptyOutputs(t *testing.T) {
	current := mkLiveRow("1", "2024-01-01", "2260-12-31", "A")

	g, err := group.Partition([]row.Row{current}, nil)
	require.NoError(t, err)

	cs, err := Reconcile(g[0], ModeDelta, systemTime())
	require.NoError(t, err)
	assert.Empty(t, cs.ToExpire)
	assert.Empty(t, cs.ToInsert)
}

func TestDeltaTouchingBoundaryDoesNotExpire(t *testing.T) {
	current := mkLiveRow("1", "2024-01-01", "2024-02-01", "A")
	update := mkLiveRow("1", "2024-02-01", "2024-03-01", "B")

	g, err := group.Partition([]row.Row{current}, []row.Row{update})
	require.NoError(t, err)

	cs, err := Reconcile(g[0], ModeDelta, systemTime())
	require.NoError(t, err)
	assert.Empty(t, cs.ToExpire)
	require.Len(t, cs.ToInsert, 1)
}

func TestDeltaUpdateCoversSegmentExactly(t *testing.T) {
	current := mkLiveRow("1", "2024-01-01", "2024-02-01", "A")
	update := mkLiveRow("1", "2024-01-01", "2024-02-01", "B")

	g, err := group.Partition([]row.Row{current}, []row.Row{update})
	require.NoError(t, err)

	cs, err := Reconcile(g[0], ModeDelta, systemTime())
	require.NoError(t, err)
	require.Len(t, cs.ToExpire, 1)
	require.Len(t, cs.ToInsert, 1)
	assert.Equal(t, value.String("B"), cs.ToInsert[0].Values[0])
}

func TestDeltaNewIdentityInsertsOnly(t *testing.T) {
	update := mkLiveRow("new", "2024-01-01", "2260-12-31", "B")

	g, err := group.Partition(nil, []row.Row{update})
	require.NoError(t, err)

	cs, err := Reconcile(g[0], ModeDelta, systemTime())
	require.NoError(t, err)
	assert.Empty(t, cs.ToExpire)
	require.Len(t, cs.ToInsert, 1)
}

func TestDeltaLaterUpdateSupersedesEarlierOnOverlap(t *testing.T) {
	u1 := mkLiveRow("1", "2024-01-01", "2024-03-01", "first")
	u2 := mkLiveRow("1", "2024-02-01", "2024-04-01", "second")

	g, err := group.Partition(nil, []row.Row{u1, u2})
	require.NoError(t, err)

	cs, err := Reconcile(g[0], ModeDelta, systemTime())
	require.NoError(t, err)
	sortByFrom(cs.ToInsert)
	require.Len(t, cs.ToInsert, 2)
	assert.Equal(t, value.String("first"), cs.ToInsert[0].Values[0])
	assert.True(t, cs.ToInsert[0].EffectiveTo.Equal(d("2024-02-01")))
	assert.Equal(t, value.String("second"), cs.ToInsert[1].Values[0])
	assert.True(t, cs.ToInsert[1].EffectiveFrom.Equal(d("2024-02-01")))
}

// Seed scenario 4: full-state unchanged.
func TestFullStateUnchanged(t *testing.T) {
	current := mkLiveRow("1", "2024-01-01", "2260-12-31", "A")
	update := mkLiveRow("1", "2024-01-01", "2260-12-31", "A")

	g, err := group.Partition([]row.Row{current}, []row.Row{update})
	require.NoError(t, err)

	cs, err := Reconcile(g[0], ModeFullState, systemTime())
	require.NoError(t, err)
	assert.Empty(t, cs.ToExpire)
	assert.Empty(t, cs.ToInsert)
}

// Seed scenario 5: full-state value change.
func TestFullStateValueChange(t *testing.T) {
	current := mkLiveRow("1", "2024-01-01", "2260-12-31", "A")
	update := mkLiveRow("1", "2024-01-01", "2260-12-31", "B")

	g, err := group.Partition([]row.Row{current}, []row.Row{update})
	require.NoError(t, err)

	cs, err := Reconcile(g[0], ModeFullState, systemTime())
	require.NoError(t, err)
	require.Len(t, cs.ToExpire, 1)
	require.Len(t, cs.ToInsert, 1)
	assert.Equal(t, value.String("B"), cs.ToInsert[0].Values[0])
}

// Seed scenario 6: full-state delete (tombstone).
func TestFullStateTombstone(t *testing.T) {
	current := mkLiveRow("2", "2024-01-01", "2260-12-31", "X")

	g, err := group.Partition([]row.Row{current}, nil)
	require.NoError(t, err)

	st := systemTime()
	cs, err := Reconcile(g[0], ModeFullState, st)
	require.NoError(t, err)

	require.Len(t, cs.ToExpire, 1)
	require.Len(t, cs.ToInsert, 1)
	assert.True(t, cs.ToInsert[0].EffectiveFrom.Equal(d("2024-01-01")))
	assert.True(t, cs.ToInsert[0].EffectiveTo.Equal(value.NewDate(st.Time())))
	assert.True(t, cs.ToInsert[0].AsOfFrom.Equal(st))
	assert.True(t, cs.ToInsert[0].AsOfTo.Equal(row.ASOFInf))
	assert.Equal(t, value.String("X"), cs.ToInsert[0].Values[0])
}

func TestReconcileRejectsOverlappingLiveSegments(t *testing.T) {
	a := mkLiveRow("1", "2024-01-01", "2024-06-01", "A")
	b := mkLiveRow("1", "2024-03-01", "2024-09-01", "B")

	g, err := group.Partition([]row.Row{a, b}, nil)
	require.NoError(t, err)

	_, err = Reconcile(g[0], ModeDelta, systemTime())
	require.Error(t, err)
	assert.True(t, IsInvariantViolation(err, ErrOverlappingLiveSegments))
}

func TestReconcileRejectsUnknownMode(t *testing.T) {
	current := mkLiveRow("1", "2024-01-01", "2260-12-31", "A")
	g, err := group.Partition([]row.Row{current}, nil)
	require.NoError(t, err)

	_, err = Reconcile(g[0], Mode("bogus"), systemTime())
	require.Error(t, err)
	assert.True(t, IsInvariantViolation(err, ErrUnknownMode))
}
