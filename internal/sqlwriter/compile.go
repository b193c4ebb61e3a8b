// Package sqlwriter compiles a writeplan.WriteOp sequence into
// parameterized SQL statements for a single bitemporal table, the way
// the teacher's querysql package compiles its query IR to SQL
// (internal/querysql/compile.go): every value is parameterized, never
// interpolated, and statement order always matches the input op order
// so replaying the same change set produces byte-identical SQL.
package sqlwriter

import (
	"fmt"
	"strings"

	"github.com/roach88/bitemporal/internal/row"
	"github.com/roach88/bitemporal/internal/value"
	"github.com/roach88/bitemporal/internal/writeplan"
)

// Statement is one parameterized SQL statement ready for
// database/sql's ExecContext(sql, args...).
type Statement struct {
	SQL  string
	Args []any
}

// Compiler compiles WriteOps against one table's schema.
type Compiler struct {
	Schema row.Schema
	Table  string
}

// NewCompiler creates a Compiler for the given table and schema.
func NewCompiler(schema row.Schema, table string) *Compiler {
	return &Compiler{Schema: schema, Table: table}
}

// Compile converts an ordered WriteOp sequence to SQL statements.
// Expirations become UPDATE statements keyed on the row's natural key
// (identity + effective interval + as_of_from); insertions become
// INSERT ... ON CONFLICT DO NOTHING statements so re-applying an
// identical change set is idempotent.
func (c *Compiler) Compile(ops []writeplan.WriteOp) ([]Statement, error) {
	stmts := make([]Statement, 0, len(ops))
	for i, op := range ops {
		switch o := op.(type) {
		case writeplan.ExpireOp:
			stmt, err := c.compileExpire(o)
			if err != nil {
				return nil, fmt.Errorf("compile op %d: %w", i, err)
			}
			stmts = append(stmts, stmt)
		case writeplan.InsertOp:
			stmt, err := c.compileInsert(o)
			if err != nil {
				return nil, fmt.Errorf("compile op %d: %w", i, err)
			}
			stmts = append(stmts, stmt)
		default:
			return nil, fmt.Errorf("compile op %d: unsupported op type %T", i, op)
		}
	}
	return stmts, nil
}

// compileExpire builds:
//
//	UPDATE <table> SET as_of_to = ?
//	WHERE <id_cols...> = ? AND effective_from = ? AND effective_to = ? AND as_of_from = ?
func (c *Compiler) compileExpire(op writeplan.ExpireOp) (Statement, error) {
	r := op.Row

	args := make([]any, 0, len(c.Schema.IDColumns)+4)
	asOfTo, err := toParam(r.AsOfTo)
	if err != nil {
		return Statement{}, err
	}
	args = append(args, asOfTo)

	var where []string
	idArgs, err := c.identityParams(r)
	if err != nil {
		return Statement{}, err
	}
	for i, col := range c.Schema.IDColumns {
		where = append(where, fmt.Sprintf("%s = ?", col))
		args = append(args, idArgs[i])
	}

	from, err := toParam(r.EffectiveFrom)
	if err != nil {
		return Statement{}, err
	}
	to, err := toParam(r.EffectiveTo)
	if err != nil {
		return Statement{}, err
	}
	asOfFrom, err := toParam(r.AsOfFrom)
	if err != nil {
		return Statement{}, err
	}
	where = append(where, "effective_from = ?", "effective_to = ?", "as_of_from = ?")
	args = append(args, from, to, asOfFrom)

	sql := fmt.Sprintf("UPDATE %s SET as_of_to = ? WHERE %s", c.Table, strings.Join(where, " AND "))
	return Statement{SQL: sql, Args: args}, nil
}

// compileInsert builds:
//
//	INSERT INTO <table> (<id_cols...>, <value_cols...>, effective_from,
//	  effective_to, as_of_from, as_of_to, value_hash)
//	VALUES (...)
//	ON CONFLICT DO NOTHING
func (c *Compiler) compileInsert(op writeplan.InsertOp) (Statement, error) {
	r := op.Row

	cols := append(append([]string{}, c.Schema.IDColumns...), c.Schema.ValueColumns...)
	cols = append(cols, "effective_from", "effective_to", "as_of_from", "as_of_to", "value_hash")

	args := make([]any, 0, len(cols))

	idArgs, err := c.identityParams(r)
	if err != nil {
		return Statement{}, err
	}
	args = append(args, idArgs...)

	valArgs, err := valueParams(r.Values)
	if err != nil {
		return Statement{}, err
	}
	args = append(args, valArgs...)

	for _, v := range []value.Value{r.EffectiveFrom, r.EffectiveTo, r.AsOfFrom, r.AsOfTo} {
		p, err := toParam(v)
		if err != nil {
			return Statement{}, err
		}
		args = append(args, p)
	}
	args = append(args, r.Fingerprint)

	placeholders := strings.TrimRight(strings.Repeat("?, ", len(cols)), ", ")
	sql := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING",
		c.Table, strings.Join(cols, ", "), placeholders,
	)
	return Statement{SQL: sql, Args: args}, nil
}

func (c *Compiler) identityParams(r row.Row) ([]any, error) {
	if len(r.Identity) != len(c.Schema.IDColumns) {
		return nil, fmt.Errorf("row has %d identity values, schema declares %d id columns", len(r.Identity), len(c.Schema.IDColumns))
	}
	return valueParams(r.Identity)
}

func valueParams(t value.Tuple) ([]any, error) {
	args := make([]any, len(t))
	for i, v := range t {
		p, err := toParam(v)
		if err != nil {
			return nil, err
		}
		args[i] = p
	}
	return args, nil
}

// DateLayout and TimestampLayout are the TEXT encodings dates and
// timestamps are stored under. Storing as formatted TEXT (rather than
// relying on go-sqlite3's column-type-sniffing time.Time binding)
// keeps the on-disk representation independent of how a column
// happens to be declared.
const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02T15:04:05.000000Z"
)

// toParam converts a value.Value to a Go native type go-sqlite3 can
// bind directly as a parameter.
func toParam(v value.Value) (any, error) {
	switch val := v.(type) {
	case value.Null:
		return nil, nil
	case value.Bool:
		return bool(val), nil
	case value.Int:
		return int64(val), nil
	case value.Float:
		return float64(val), nil
	case value.String:
		return string(val), nil
	case value.Date:
		return val.Time().Format(DateLayout), nil
	case value.Timestamp:
		return val.Time().Format(TimestampLayout), nil
	default:
		return nil, fmt.Errorf("unsupported value type for SQL parameter: %T", v)
	}
}
