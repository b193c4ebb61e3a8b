package assemble

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bitemporal/internal/reconcile"
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

func TestAssembleConcatenatesExpirations(t *testing.T) {
	schema := row.Schema{IDColumns: []string{"id"}, ValueColumns: []string{"v"}, ValueTypes: []row.ColumnType{row.TypeInt}}
	g1 := reconcile.ChangeSet{ToExpire: []row.Row{{}}}
	g2 := reconcile.ChangeSet{ToExpire: []row.Row{{}, {}}}

	out := Assemble(schema, []reconcile.ChangeSet{g1, g2})
	assert.Len(t, out.ToExpire, 3)
}

func TestAssembleConflatesEachGroupsInsertsIndependently(t *testing.T) {
	schema := row.Schema{IDColumns: []string{"id"}, ValueColumns: []string{"v"}, ValueTypes: []row.ColumnType{row.TypeInt}}
	now := value.NewTimestamp(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))

	group1 := reconcile.ChangeSet{ToInsert: []row.Row{
		{EffectiveFrom: d("2024-01-01"), EffectiveTo: d("2024-02-01"), AsOfFrom: now, AsOfTo: row.ASOFInf, Fingerprint: "fp"},
		{EffectiveFrom: d("2024-02-01"), EffectiveTo: d("2024-03-01"), AsOfFrom: now, AsOfTo: row.ASOFInf, Fingerprint: "fp"},
	}}
	group2 := reconcile.ChangeSet{ToInsert: []row.Row{
		{EffectiveFrom: d("2024-02-01"), EffectiveTo: d("2024-03-01"), AsOfFrom: now, AsOfTo: row.ASOFInf, Fingerprint: "fp"},
	}}

	out := Assemble(schema, []reconcile.ChangeSet{group1, group2})
	require.Len(t, out.ToInsert, 2, "group1's adjacent segments merge; group2's single segment is untouched")
}
