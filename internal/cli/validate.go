package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/bitemporal/internal/config"
	"github.com/roach88/bitemporal/internal/value"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	SystemTime string
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                      `json:"valid"`
	Errors []config.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <schema.cue> <batch.json>",
		Short: "Validate a row batch against a table schema",
		Long: `Validate a JSON row batch against a CUE table schema without
reconciling it.

Checks schema shape (non-empty id/value columns, matching value_types
length, no duplicate column names) and every row's temporal invariants
(effective_from < effective_to, as_of_from < as_of_to) — the boundary
checks of spec §7, run before any reconciliation work begins.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.SystemTime, "system-time", "", "RFC3339 system time, used for rows omitting as_of_from (defaults to now)")

	return cmd
}

func runValidate(opts *ValidateOptions, schemaPath, batchPath string, cmd *cobra.Command) error {
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
	formatter.VerboseLog("loaded schema from %s", schemaPath)

	systemTime, err := resolveSystemTime(opts.SystemTime)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --system-time", err)
	}

	batch, loadErr := LoadBatch(batchPath, schema, systemTime)
	if loadErr != nil {
		return WrapExitError(ExitCommandError, "failed to load batch", loadErr)
	}
	formatter.VerboseLog("loaded %d row(s) from %s", len(batch.Rows), batchPath)

	if errs := config.ValidateBatch(batch); len(errs) > 0 {
		return outputValidationErrors(formatter, errs)
	}

	return outputValidateSuccess(formatter)
}

func resolveSystemTime(s string) (value.Timestamp, error) {
	if s == "" {
		return value.NewTimestamp(time.Now().UTC()), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return value.Timestamp{}, err
	}
	return value.NewTimestamp(t), nil
}

func outputValidateSuccess(formatter *OutputFormatter) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true})
	}
	fmt.Fprintln(formatter.Writer, "✓ batch valid")
	return nil
}

// outputValidationErrors outputs a set of config.ValidationError values,
// shared by compile and validate since both surface the same E1xx
// taxonomy (internal/config/errors.go).
func outputValidationErrors(formatter *OutputFormatter, errs []config.ValidationError) error {
	if formatter.Format == "json" {
		result := ValidationResult{Valid: false, Errors: errs}
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error:  &CLIError{Code: errs[0].Code, Message: errs[0].Message},
		}
		encoder := json.NewEncoder(formatter.Writer)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ validation failed")
	fmt.Fprintln(formatter.Writer)
	for _, e := range errs {
		fmt.Fprintf(formatter.Writer, "  %s\n", e.Error())
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
