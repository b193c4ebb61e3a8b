package applier

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	stdtime "time"

	"github.com/roach88/bitemporal/internal/row"
	"github.com/roach88/bitemporal/internal/sqlwriter"
	"github.com/roach88/bitemporal/internal/value"
)

// ReadLive returns every live row (as_of_to = ASOF_INF) currently
// stored in table, ordered by identity columns then effective_from for
// deterministic output — the same "always specify a deterministic
// ORDER BY" discipline the teacher's store package applies to every
// query (internal/store/read.go).
func (s *Store) ReadLive(ctx context.Context, schema row.Schema, table string) ([]row.Row, error) {
	cols := append(append([]string{}, schema.IDColumns...), schema.ValueColumns...)
	cols = append(cols, "effective_from", "effective_to", "as_of_from", "as_of_to", "value_hash")

	orderBy := append(append([]string{}, schema.IDColumns...), "effective_from")

	query := fmt.Sprintf(
		"SELECT %s FROM %s WHERE as_of_to = ? ORDER BY %s",
		strings.Join(cols, ", "), table, strings.Join(orderBy, ", "),
	)
	asOfInf := row.ASOFInf.Time().Format(sqlwriter.TimestampLayout)

	rows, err := s.db.QueryContext(ctx, query, asOfInf)
	if err != nil {
		return nil, fmt.Errorf("read live rows: %w", err)
	}
	defer rows.Close()

	var out []row.Row
	for rows.Next() {
		r, err := scanRow(rows, schema)
		if err != nil {
			return nil, fmt.Errorf("read live rows: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read live rows: %w", err)
	}
	return out, nil
}

func scanRow(rows *sql.Rows, schema row.Schema) (row.Row, error) {
	dest := make([]any, 0, len(schema.IDColumns)+len(schema.ValueColumns)+5)
	idBufs := make([]string, len(schema.IDColumns))
	for i := range idBufs {
		dest = append(dest, &idBufs[i])
	}

	valBufs := make([]sql.NullString, len(schema.ValueColumns))
	for i := range valBufs {
		dest = append(dest, &valBufs[i])
	}

	var effFrom, effTo, asOfFrom, asOfTo, fp string
	dest = append(dest, &effFrom, &effTo, &asOfFrom, &asOfTo, &fp)

	if err := rows.Scan(dest...); err != nil {
		return row.Row{}, fmt.Errorf("scan row: %w", err)
	}

	identity := make(value.Tuple, len(idBufs))
	for i, v := range idBufs {
		identity[i] = value.String(v)
	}

	values := make(value.Tuple, len(valBufs))
	for i, v := range valBufs {
		val, err := decodeValue(v, schema.ValueTypes[i])
		if err != nil {
			return row.Row{}, err
		}
		values[i] = val
	}

	from, err := stdtime.Parse(sqlwriter.DateLayout, effFrom)
	if err != nil {
		return row.Row{}, fmt.Errorf("parse effective_from: %w", err)
	}
	to, err := stdtime.Parse(sqlwriter.DateLayout, effTo)
	if err != nil {
		return row.Row{}, fmt.Errorf("parse effective_to: %w", err)
	}
	af, err := stdtime.Parse(sqlwriter.TimestampLayout, asOfFrom)
	if err != nil {
		return row.Row{}, fmt.Errorf("parse as_of_from: %w", err)
	}
	at, err := stdtime.Parse(sqlwriter.TimestampLayout, asOfTo)
	if err != nil {
		return row.Row{}, fmt.Errorf("parse as_of_to: %w", err)
	}

	return row.Row{
		Identity:      identity,
		Values:        values,
		EffectiveFrom: value.NewDate(from),
		EffectiveTo:   value.NewDate(to),
		AsOfFrom:      value.NewTimestamp(af),
		AsOfTo:        value.NewTimestamp(at),
		Fingerprint:   fp,
	}, nil
}

func decodeValue(v sql.NullString, t row.ColumnType) (value.Value, error) {
	if !v.Valid {
		return value.Null{}, nil
	}
	switch t {
	case row.TypeBool:
		return value.Bool(v.String == "1"), nil
	case row.TypeInt:
		n, err := strconv.ParseInt(v.String, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("decode int column: %w", err)
		}
		return value.Int(n), nil
	case row.TypeFloat:
		f, err := strconv.ParseFloat(v.String, 64)
		if err != nil {
			return nil, fmt.Errorf("decode float column: %w", err)
		}
		return value.Float(f), nil
	case row.TypeString:
		return value.String(v.String), nil
	default:
		return nil, fmt.Errorf("unsupported value column type %q", t)
	}
}
