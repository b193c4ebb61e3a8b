package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/bitemporal/internal/applier"
	"github.com/roach88/bitemporal/internal/assemble"
	"github.com/roach88/bitemporal/internal/config"
	"github.com/roach88/bitemporal/internal/dispatch"
	"github.com/roach88/bitemporal/internal/group"
	"github.com/roach88/bitemporal/internal/reconcile"
	"github.com/roach88/bitemporal/internal/row"
	"github.com/roach88/bitemporal/internal/value"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Mode       string
	SystemTime string
	Database   string // if set, apply the change set to this SQLite file
	Table      string
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <schema.cue> <current.json> <updates.json>",
		Short: "Reconcile a current batch against an update batch",
		Long: `Reconcile a current-state batch against an update batch and report
the resulting change set (to_expire, to_insert).

Runs the full pipeline: group.Partition splits both batches by
identity, the parallel dispatcher reconciles each group (spec §4.5),
and the batch assembler conflates and concatenates the per-group
results (spec §4.6).

With --db, the change set is also applied atomically to the named
SQLite table (internal/applier), creating it if necessary.

Example:
  bitemporal run schema.cue current.json updates.json --system-time 2024-03-01T12:00:00Z
  bitemporal run schema.cue current.json updates.json --mode full_state --db ./state.db --table balances`,
		Args:          cobra.ExactArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReconcile(opts, args[0], args[1], args[2], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Mode, "mode", string(reconcile.ModeDelta), "reconciliation mode (delta|full_state)")
	cmd.Flags().StringVar(&opts.SystemTime, "system-time", "", "RFC3339 system time assigned to this run (required)")
	_ = cmd.MarkFlagRequired("system-time")
	cmd.Flags().StringVar(&opts.Database, "db", "", "apply the change set to this SQLite database")
	cmd.Flags().StringVar(&opts.Table, "table", "", "table name to apply the change set to (required with --db)")

	return cmd
}

func runReconcile(opts *RunOptions, schemaPath, currentPath, updatesPath string, cmd *cobra.Command) error {
	logLevel := slog.LevelInfo
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: logLevel})))

	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	schema, errs := LoadTableSchema(schemaPath)
	if len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	systemTime, err := resolveSystemTime(opts.SystemTime)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --system-time", err)
	}

	current, loadErr := LoadBatch(currentPath, schema, systemTime)
	if loadErr != nil {
		return WrapExitError(ExitCommandError, "failed to load current batch", loadErr)
	}
	updates, loadErr := LoadBatch(updatesPath, schema, systemTime)
	if loadErr != nil {
		return WrapExitError(ExitCommandError, "failed to load updates batch", loadErr)
	}
	slog.Debug("batches loaded", "current", len(current.Rows), "updates", len(updates.Rows))

	mode := reconcile.Mode(opts.Mode)
	if mode != reconcile.ModeDelta && mode != reconcile.ModeFullState {
		return WrapExitError(ExitCommandError, "invalid --mode", fmt.Errorf("must be %q or %q, got %q", reconcile.ModeDelta, reconcile.ModeFullState, opts.Mode))
	}

	changeSet, err := reconcileBatches(schema, current.Rows, updates.Rows, mode, systemTime)
	if err != nil {
		return WrapExitError(ExitFailure, "reconciliation failed", err)
	}
	slog.Debug("reconciled", "to_expire", len(changeSet.ToExpire), "to_insert", len(changeSet.ToInsert))

	if opts.Database != "" {
		if opts.Table == "" {
			return WrapExitError(ExitCommandError, "--table is required with --db", nil)
		}
		if err := applyChangeSet(opts.Database, opts.Table, schema, changeSet); err != nil {
			return WrapExitError(ExitCommandError, "failed to apply change set", err)
		}
	}

	return outputRunSuccess(formatter, translateChangeSetBack(schema, changeSet))
}

// translateChangeSetBack rewrites a change set's rows from this
// package's EFFInf/ASOFInf sentinels back to the schema's caller-side
// infinity aliases, if any are declared, before the change set is
// printed or JSON-encoded back to the caller. The SQLite-applied copy
// always carries the canonical sentinels: EnsureTable/ApplyChangeSet
// read and write the same internal representation this translation
// only affects the display path.
func translateChangeSetBack(schema row.Schema, cs assemble.ChangeSet) assemble.ChangeSet {
	if schema.InfinityAliases == nil {
		return cs
	}
	out := assemble.ChangeSet{Schema: cs.Schema}
	for _, r := range cs.ToExpire {
		out.ToExpire = append(out.ToExpire, schema.InfinityAliases.TranslateBack(r))
	}
	for _, r := range cs.ToInsert {
		out.ToInsert = append(out.ToInsert, schema.InfinityAliases.TranslateBack(r))
	}
	return out
}

// reconcileBatches validates both batches with config.ValidateBatch,
// then runs the parallel dispatcher (spec §4.5) over group.Partition's
// output and assembles the per-group results into one change set
// (spec §4.6).
func reconcileBatches(schema row.Schema, current, updates []row.Row, mode reconcile.Mode, systemTime value.Timestamp) (assemble.ChangeSet, error) {
	for _, rows := range [][]row.Row{current, updates} {
		if errs := config.ValidateBatch(row.Batch{Schema: schema, Rows: rows}); len(errs) > 0 {
			return assemble.ChangeSet{}, fmt.Errorf("validate batch: %w", errs[0])
		}
	}

	groups, err := group.Partition(current, updates)
	if err != nil {
		return assemble.ChangeSet{}, fmt.Errorf("partition groups: %w", err)
	}

	work := func(g group.Group) (reconcile.ChangeSet, error) {
		return reconcile.Reconcile(g, mode, systemTime)
	}

	perGroup, err := dispatch.Run(groups, dispatch.DefaultOptions(), work)
	if err != nil {
		return assemble.ChangeSet{}, fmt.Errorf("dispatch groups: %w", err)
	}

	return assemble.Assemble(schema, perGroup), nil
}

func outputRunSuccess(formatter *OutputFormatter, cs assemble.ChangeSet) error {
	if formatter.Format == "json" {
		return formatter.Success(cs)
	}

	fmt.Fprintf(formatter.Writer, "✓ reconciled: %d to expire, %d to insert\n\n", len(cs.ToExpire), len(cs.ToInsert))
	if len(cs.ToExpire) > 0 {
		fmt.Fprintln(formatter.Writer, "to_expire:")
		for _, r := range cs.ToExpire {
			fmt.Fprintf(formatter.Writer, "  %v %v [%s,%s)\n", r.Identity, r.Values, r.EffectiveFrom.Time().Format("2006-01-02"), r.EffectiveTo.Time().Format("2006-01-02"))
		}
	}
	if len(cs.ToInsert) > 0 {
		fmt.Fprintln(formatter.Writer, "to_insert:")
		for _, r := range cs.ToInsert {
			fmt.Fprintf(formatter.Writer, "  %v %v [%s,%s)\n", r.Identity, r.Values, r.EffectiveFrom.Time().Format("2006-01-02"), r.EffectiveTo.Time().Format("2006-01-02"))
		}
	}
	return nil
}

func applyChangeSet(dbPath, table string, schema row.Schema, cs assemble.ChangeSet) error {
	st, err := applier.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.EnsureTable(ctx, schema, table); err != nil {
		return err
	}
	return st.ApplyChangeSet(ctx, cs, table)
}
