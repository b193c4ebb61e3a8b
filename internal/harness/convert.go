package harness

import (
	"fmt"
	"time"

	"github.com/roach88/bitemporal/internal/row"
	"github.com/roach88/bitemporal/internal/value"
)

func buildSchema(s SchemaSpec) (row.Schema, error) {
	types := make([]row.ColumnType, len(s.ValueTypes))
	for i, name := range s.ValueTypes {
		t, ok := parseColumnType(name)
		if !ok {
			return row.Schema{}, fmt.Errorf("value_types[%d]: unrecognized type %q", i, name)
		}
		types[i] = t
	}
	schema := row.Schema{IDColumns: s.IDColumns, ValueColumns: s.ValueColumns, ValueTypes: types}
	if err := schema.Validate(); err != nil {
		return row.Schema{}, err
	}
	return schema, nil
}

func parseColumnType(name string) (row.ColumnType, bool) {
	switch row.ColumnType(name) {
	case row.TypeNull, row.TypeBool, row.TypeInt, row.TypeFloat, row.TypeString, row.TypeDate, row.TypeTimestamp:
		return row.ColumnType(name), true
	default:
		return "", false
	}
}

func parseDate(s string) (value.Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return value.Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return value.NewDate(t), nil
}

func parseTimestamp(s string) (value.Timestamp, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return value.Timestamp{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return value.NewTimestamp(t), nil
}

// toRow converts a RowSpec to a row.Row using schema's declared column
// order and types. as_of_from/as_of_to default to systemTime and
// row.ASOFInf respectively when omitted, matching how an input update
// row arrives with no as-of interval of its own (spec §3).
func toRow(schema row.Schema, spec RowSpec, systemTime value.Timestamp) (row.Row, error) {
	identity := make(value.Tuple, len(schema.IDColumns))
	for i, col := range schema.IDColumns {
		v, ok := spec.Identity[col]
		if !ok {
			return row.Row{}, fmt.Errorf("identity column %q missing", col)
		}
		identity[i] = value.String(fmt.Sprintf("%v", v))
	}

	values := make(value.Tuple, len(schema.ValueColumns))
	for i, col := range schema.ValueColumns {
		raw, ok := spec.Values[col]
		if !ok {
			return row.Row{}, fmt.Errorf("value column %q missing", col)
		}
		v, err := toValue(raw, schema.ValueTypes[i])
		if err != nil {
			return row.Row{}, fmt.Errorf("value column %q: %w", col, err)
		}
		values[i] = v
	}

	from, err := parseDate(spec.EffectiveFrom)
	if err != nil {
		return row.Row{}, err
	}

	var to value.Date
	if spec.EffectiveTo == "" {
		to = row.EFFInf
	} else {
		to, err = parseDate(spec.EffectiveTo)
		if err != nil {
			return row.Row{}, err
		}
	}

	asOfFrom := systemTime
	if spec.AsOfFrom != "" {
		asOfFrom, err = parseTimestamp(spec.AsOfFrom)
		if err != nil {
			return row.Row{}, err
		}
	}

	asOfTo := row.ASOFInf
	if spec.AsOfTo != "" {
		asOfTo, err = parseTimestamp(spec.AsOfTo)
		if err != nil {
			return row.Row{}, err
		}
	}

	return row.Row{
		Identity:      identity,
		Values:        values,
		EffectiveFrom: from,
		EffectiveTo:   to,
		AsOfFrom:      asOfFrom,
		AsOfTo:        asOfTo,
	}, nil
}

func toValue(raw any, t row.ColumnType) (value.Value, error) {
	switch t {
	case row.TypeNull:
		return value.Null{}, nil
	case row.TypeBool:
		b, ok := raw.(bool)
		if !ok {
			return nil, fmt.Errorf("expected bool, got %T", raw)
		}
		return value.Bool(b), nil
	case row.TypeInt:
		switch n := raw.(type) {
		case int:
			return value.Int(int64(n)), nil
		case int64:
			return value.Int(n), nil
		default:
			return nil, fmt.Errorf("expected int, got %T", raw)
		}
	case row.TypeFloat:
		switch n := raw.(type) {
		case float64:
			return value.Float(n), nil
		case int:
			return value.Float(float64(n)), nil
		default:
			return nil, fmt.Errorf("expected float, got %T", raw)
		}
	case row.TypeString:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", raw)
		}
		return value.String(s), nil
	case row.TypeDate:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected date string, got %T", raw)
		}
		return parseDate(s)
	case row.TypeTimestamp:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected timestamp string, got %T", raw)
		}
		return parseTimestamp(s)
	default:
		return nil, fmt.Errorf("unsupported column type %q", t)
	}
}
