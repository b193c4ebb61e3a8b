package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/roach88/bitemporal/internal/config"
	"github.com/roach88/bitemporal/internal/row"
	"github.com/roach88/bitemporal/internal/value"
)

// LoadError represents an error that occurred while loading a schema or
// batch file, carrying one of the stable command-level codes defined
// at the bottom of this file (E001, E005), the way config.ValidationError
// carries an E1xx code (internal/config/errors.go).
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// LoadTableSchema reads a CUE table-schema file and compiles it via
// config.CompileTableSchema.
func LoadTableSchema(path string) (row.Schema, []config.ValidationError) {
	src, err := os.ReadFile(path)
	if err != nil {
		return row.Schema{}, []config.ValidationError{{
			Code:    ErrCodeNotFound,
			Field:   "schema",
			Message: fmt.Sprintf("reading %s: %v", path, err),
		}}
	}
	return config.CompileTableSchema(src, path)
}

// RowDoc is the JSON-friendly form of one row, the input format the
// run/validate commands accept for current and update batches.
type RowDoc struct {
	Identity      map[string]any `json:"identity"`
	Values        map[string]any `json:"values"`
	EffectiveFrom string         `json:"effective_from"`
	EffectiveTo   string         `json:"effective_to,omitempty"`
	AsOfFrom      string         `json:"as_of_from,omitempty"`
	AsOfTo        string         `json:"as_of_to,omitempty"`
}

// LoadBatch reads a JSON array of RowDoc from path and converts it to a
// row.Batch under schema. Rows omitting as_of_from default to
// systemTime; rows omitting effective_to/as_of_to default to the
// EFF_INF/ASOF_INF constants (spec §6).
func LoadBatch(path string, schema row.Schema, systemTime value.Timestamp) (row.Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return row.Batch{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading %s: %v", path, err)}
	}

	var docs []RowDoc
	if err := json.Unmarshal(data, &docs); err != nil {
		return row.Batch{}, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("parsing %s: %v", path, err)}
	}

	rows := make([]row.Row, len(docs))
	for i, doc := range docs {
		r, err := rowFromDoc(schema, doc, systemTime)
		if err != nil {
			return row.Batch{}, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("%s: row %d: %v", path, i, err)}
		}
		rows[i] = r
	}

	return row.Batch{Schema: schema, Rows: rows}, nil
}

func rowFromDoc(schema row.Schema, doc RowDoc, systemTime value.Timestamp) (row.Row, error) {
	identity := make(value.Tuple, len(schema.IDColumns))
	for i, col := range schema.IDColumns {
		raw, ok := doc.Identity[col]
		if !ok {
			return row.Row{}, fmt.Errorf("identity column %q missing", col)
		}
		identity[i] = value.String(fmt.Sprintf("%v", raw))
	}

	values := make(value.Tuple, len(schema.ValueColumns))
	for i, col := range schema.ValueColumns {
		raw, ok := doc.Values[col]
		if !ok {
			return row.Row{}, fmt.Errorf("value column %q missing", col)
		}
		v, err := valueFromJSON(raw, schema.ValueTypes[i])
		if err != nil {
			return row.Row{}, fmt.Errorf("value column %q: %w", col, err)
		}
		values[i] = v
	}

	from, err := parseDateField(doc.EffectiveFrom)
	if err != nil {
		return row.Row{}, fmt.Errorf("effective_from: %w", err)
	}

	to := row.EFFInf
	if doc.EffectiveTo != "" {
		to, err = parseDateField(doc.EffectiveTo)
		if err != nil {
			return row.Row{}, fmt.Errorf("effective_to: %w", err)
		}
	}

	asOfFrom := systemTime
	if doc.AsOfFrom != "" {
		asOfFrom, err = parseTimestampField(doc.AsOfFrom)
		if err != nil {
			return row.Row{}, fmt.Errorf("as_of_from: %w", err)
		}
	}

	asOfTo := row.ASOFInf
	if doc.AsOfTo != "" {
		asOfTo, err = parseTimestampField(doc.AsOfTo)
		if err != nil {
			return row.Row{}, fmt.Errorf("as_of_to: %w", err)
		}
	}

	r := row.Row{
		Identity:      identity,
		Values:        values,
		EffectiveFrom: from,
		EffectiveTo:   to,
		AsOfFrom:      asOfFrom,
		AsOfTo:        asOfTo,
	}
	return schema.InfinityAliases.Translate(r), nil
}

func parseDateField(s string) (value.Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return value.Date{}, err
	}
	return value.NewDate(t), nil
}

func parseTimestampField(s string) (value.Timestamp, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return value.Timestamp{}, err
	}
	return value.NewTimestamp(t), nil
}

func valueFromJSON(raw any, t row.ColumnType) (value.Value, error) {
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
		n, ok := raw.(float64)
		if !ok {
			return nil, fmt.Errorf("expected number, got %T", raw)
		}
		return value.Int(int64(n)), nil
	case row.TypeFloat:
		n, ok := raw.(float64)
		if !ok {
			return nil, fmt.Errorf("expected number, got %T", raw)
		}
		return value.Float(n), nil
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
		return parseDateField(s)
	case row.TypeTimestamp:
		s, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("expected timestamp string, got %T", raw)
		}
		return parseTimestampField(s)
	default:
		return nil, fmt.Errorf("unsupported column type %q", t)
	}
}

// Error code constants for command-level (non-E1xx) failures, unified
// across all CLI commands (internal/cli/output.go ExitCommandError).
const (
	ErrCodeGeneric   = "E001" // generic/unknown error
	ErrCodeNotFound  = "E005" // path not found
	ErrCodeDBFailure = "E008" // store open/apply failure
)
