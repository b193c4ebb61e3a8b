package applier

import (
	"context"
	"fmt"

	"github.com/roach88/bitemporal/internal/assemble"
	"github.com/roach88/bitemporal/internal/sqlwriter"
	"github.com/roach88/bitemporal/internal/writeplan"
)

// ApplyChangeSet writes an assembled change set to table inside a
// single transaction, the way the teacher's WriteSyncFiringAtomic
// writes a firing/invocation/provenance triple atomically
// (internal/store/write.go): every statement succeeds or the whole
// batch rolls back.
//
// The caller is responsible for EnsureTable having been called first.
func (s *Store) ApplyChangeSet(ctx context.Context, cs assemble.ChangeSet, table string) error {
	ops := writeplan.Plan(cs.Schema, cs.ToExpire, cs.ToInsert)
	compiler := sqlwriter.NewCompiler(cs.Schema, table)
	stmts, err := compiler.Compile(ops)
	if err != nil {
		return fmt.Errorf("apply change set: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("apply change set: begin tx: %w", err)
	}
	defer tx.Rollback()

	for i, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
			return fmt.Errorf("apply change set: statement %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("apply change set: commit: %w", err)
	}
	return nil
}
