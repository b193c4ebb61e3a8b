package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/bitemporal/internal/applier"
	"github.com/roach88/bitemporal/internal/reconcile"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Mode       string
	SystemTime string
	Table      string
}

// ReplayResult reports whether re-running the same reconciliation
// against the post-apply state reaches steady state (spec §8: applying
// the produced change set and re-running with the same updates yields
// empty to_expire and to_insert).
type ReplayResult struct {
	Table         string `json:"table"`
	SteadyState   bool   `json:"steady_state"`
	ToExpireAgain int    `json:"to_expire_again"`
	ToInsertAgain int    `json:"to_insert_again"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay <schema.cue> <db> <updates.json>",
		Short: "Verify steady state by replaying a reconciliation against applied state",
		Long: `Apply an update batch to a SQLite table, then re-run reconciliation
of the table's live rows against the same update batch.

A correct reconciler reaches steady state: the second run must produce
an empty change set (spec §8's idempotence property). A non-empty
result here means either the applier or the reconciler has a bug.

Exit codes:
  0 - steady state reached
  1 - second run produced a non-empty change set
  2 - command error (schema/database/batch problem)`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args[0], args[1], args[2], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Mode, "mode", string(reconcile.ModeDelta), "reconciliation mode (delta|full_state)")
	cmd.Flags().StringVar(&opts.SystemTime, "system-time", "", "RFC3339 system time for both runs (required)")
	_ = cmd.MarkFlagRequired("system-time")
	cmd.Flags().StringVar(&opts.Table, "table", "", "table name (required)")
	_ = cmd.MarkFlagRequired("table")

	return cmd
}

func runReplay(opts *ReplayOptions, schemaPath, dbPath, updatesPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if opts.Table == "" {
		return WrapExitError(ExitCommandError, "--table is required", nil)
	}

	schema, errs := LoadTableSchema(schemaPath)
	if len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	systemTime, err := resolveSystemTime(opts.SystemTime)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --system-time", err)
	}

	mode := reconcile.Mode(opts.Mode)
	if mode != reconcile.ModeDelta && mode != reconcile.ModeFullState {
		return WrapExitError(ExitCommandError, "invalid --mode", fmt.Errorf("must be %q or %q, got %q", reconcile.ModeDelta, reconcile.ModeFullState, opts.Mode))
	}

	updates, loadErr := LoadBatch(updatesPath, schema, systemTime)
	if loadErr != nil {
		return WrapExitError(ExitCommandError, "failed to load updates batch", loadErr)
	}

	st, err := applier.Open(dbPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.EnsureTable(ctx, schema, opts.Table); err != nil {
		return WrapExitError(ExitCommandError, "failed to ensure table", err)
	}

	current, err := st.ReadLive(ctx, schema, opts.Table)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read live rows", err)
	}
	formatter.VerboseLog("read %d live row(s) from %s", len(current), opts.Table)

	firstChangeSet, err := reconcileBatches(schema, current, updates.Rows, mode, systemTime)
	if err != nil {
		return WrapExitError(ExitFailure, "first reconciliation failed", err)
	}
	formatter.VerboseLog("first run: %d to expire, %d to insert", len(firstChangeSet.ToExpire), len(firstChangeSet.ToInsert))

	if err := st.ApplyChangeSet(ctx, firstChangeSet, opts.Table); err != nil {
		return WrapExitError(ExitCommandError, "failed to apply change set", err)
	}

	postApply, err := st.ReadLive(ctx, schema, opts.Table)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read post-apply live rows", err)
	}

	secondChangeSet, err := reconcileBatches(schema, postApply, updates.Rows, mode, systemTime)
	if err != nil {
		return WrapExitError(ExitFailure, "second reconciliation failed", err)
	}

	result := ReplayResult{
		Table:         opts.Table,
		SteadyState:   len(secondChangeSet.ToExpire) == 0 && len(secondChangeSet.ToInsert) == 0,
		ToExpireAgain: len(secondChangeSet.ToExpire),
		ToInsertAgain: len(secondChangeSet.ToInsert),
	}

	return outputReplayResult(formatter, result)
}

func outputReplayResult(formatter *OutputFormatter, result ReplayResult) error {
	if formatter.Format == "json" {
		if !result.SteadyState {
			response := CLIResponse{
				Status: "error",
				Data:   result,
				Error:  &CLIError{Code: ErrCodeGeneric, Message: "reconciliation did not reach steady state"},
			}
			encoder := json.NewEncoder(formatter.Writer)
			encoder.SetIndent("", "  ")
			if err := encoder.Encode(response); err != nil {
				return err
			}
			return NewExitError(ExitFailure, "reconciliation did not reach steady state")
		}
		return formatter.Success(result)
	}

	if result.SteadyState {
		fmt.Fprintf(formatter.Writer, "✓ steady state reached for table %q\n", result.Table)
		return nil
	}
	fmt.Fprintf(formatter.Writer, "✗ not steady: %d to expire, %d to insert on replay\n", result.ToExpireAgain, result.ToInsertAgain)
	return NewExitError(ExitFailure, "reconciliation did not reach steady state")
}
