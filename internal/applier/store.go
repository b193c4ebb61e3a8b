package applier

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/bitemporal/internal/row"
)

// Store is a single-writer SQLite connection over a set of bitemporal
// tables.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at path and applies the
// required pragmas. Safe to call multiple times against the same
// file.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	// SQLite allows exactly one writer; pinning the pool to a single
	// connection avoids SQLITE_BUSY churn under our own transactions.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("execute %q: %w", p, err)
		}
	}
	return nil
}

// EnsureTable creates table if it does not already exist, with a
// column per schema.IDColumns/ValueColumns plus the four temporal
// columns and value_hash. The natural key (id columns + effective_from
// + as_of_from) is declared UNIQUE so insertions can rely on
// ON CONFLICT DO NOTHING for idempotency.
func (s *Store) EnsureTable(ctx context.Context, schema row.Schema, table string) error {
	ddl, err := createTableSQL(schema, table)
	if err != nil {
		return fmt.Errorf("ensure table %s: %w", table, err)
	}
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure table %s: %w", table, err)
	}
	return nil
}

func createTableSQL(schema row.Schema, table string) (string, error) {
	var cols []string
	natural := append(append([]string{}, schema.IDColumns...), "effective_from", "as_of_from")

	for _, c := range schema.IDColumns {
		cols = append(cols, fmt.Sprintf("%s TEXT NOT NULL", c))
	}
	for i, c := range schema.ValueColumns {
		affinity, err := sqlAffinity(schema.ValueTypes[i])
		if err != nil {
			return "", err
		}
		cols = append(cols, fmt.Sprintf("%s %s", c, affinity))
	}
	cols = append(cols,
		"effective_from TEXT NOT NULL",
		"effective_to TEXT NOT NULL",
		"as_of_from TEXT NOT NULL",
		"as_of_to TEXT NOT NULL",
		"value_hash TEXT NOT NULL",
		fmt.Sprintf("UNIQUE(%s)", strings.Join(natural, ", ")),
	)

	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", table, strings.Join(cols, ",\n\t")), nil
}

func sqlAffinity(t row.ColumnType) (string, error) {
	switch t {
	case row.TypeBool:
		return "INTEGER", nil
	case row.TypeInt:
		return "INTEGER", nil
	case row.TypeFloat:
		return "REAL", nil
	case row.TypeString:
		return "TEXT", nil
	case row.TypeDate:
		return "TEXT", nil
	case row.TypeTimestamp:
		return "TEXT", nil
	case row.TypeNull:
		return "TEXT", nil
	default:
		return "", fmt.Errorf("unsupported column type %q", t)
	}
}
