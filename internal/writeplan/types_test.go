package writeplan

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/bitemporal/internal/row"
	"github.com/roach88/bitemporal/internal/value"
)

func mkRow(id string) row.Row {
	return row.Row{
		Identity:      value.Tuple{value.String(id)},
		Values:        value.Tuple{value.Int(1)},
		EffectiveFrom: value.NewDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		EffectiveTo:   row.EFFInf,
		AsOfFrom:      value.NewTimestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		AsOfTo:        row.ASOFInf,
	}
}

func TestPlanOrdersExpirationsBeforeInsertions(t *testing.T) {
	schema := row.Schema{IDColumns: []string{"id"}, ValueColumns: []string{"v"}, ValueTypes: []row.ColumnType{row.TypeInt}}
	ops := Plan(schema, []row.Row{mkRow("a")}, []row.Row{mkRow("b"), mkRow("c")})

	require.Len(t, ops, 3)
	_, isExpire := ops[0].(ExpireOp)
	assert.True(t, isExpire)
	_, isInsert1 := ops[1].(InsertOp)
	assert.True(t, isInsert1)
	_, isInsert2 := ops[2].(InsertOp)
	assert.True(t, isInsert2)
}

func TestPlanEmptyChangeSetYieldsNoOps(t *testing.T) {
	schema := row.Schema{IDColumns: []string{"id"}, ValueColumns: []string{"v"}, ValueTypes: []row.ColumnType{row.TypeInt}}
	ops := Plan(schema, nil, nil)
	assert.Empty(t, ops)
}

func TestWriteOpIsSealed(t *testing.T) {
	var op WriteOp = ExpireOp{Row: mkRow("a")}
	_, ok := op.(InsertOp)
	assert.False(t, ok)
}
