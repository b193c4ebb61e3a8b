package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/bitemporal/internal/row"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <schema.cue>",
		Short: "Compile a CUE table schema to canonical form",
		Long: `Compile a CUE table-schema document (id_columns, value_columns,
value_types) and report the resulting schema.

The compiler unifies the document against the table-schema shape,
decodes the column lists, and validates them against spec §6's
boundary rules before reconciliation ever runs.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, schemaPath string, cmd *cobra.Command) error {
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

	formatter.VerboseLog("compiled schema: %d id column(s), %d value column(s)", len(schema.IDColumns), len(schema.ValueColumns))

	if opts.Output != "" {
		if err := writeSchemaToFile(schema, opts.Output); err != nil {
			return outputCompileError(formatter, ErrCodeGeneric, fmt.Sprintf("writing output file: %v", err))
		}
	}

	return outputCompileSuccess(formatter, schema, opts.Output)
}

func outputCompileSuccess(formatter *OutputFormatter, schema row.Schema, outputFile string) error {
	if formatter.Format == "json" {
		return formatter.Success(schema)
	}

	fmt.Fprintf(formatter.Writer, "✓ Compiled schema: %d id column(s), %d value column(s)\n\n",
		len(schema.IDColumns), len(schema.ValueColumns))
	fmt.Fprintf(formatter.Writer, "  id_columns:    %v\n", schema.IDColumns)
	fmt.Fprintf(formatter.Writer, "  value_columns: %v\n", schema.ValueColumns)
	fmt.Fprintf(formatter.Writer, "  value_types:   %v\n", schema.ValueTypes)

	if outputFile != "" {
		fmt.Fprintf(formatter.Writer, "\nWrote canonical schema to %s\n", outputFile)
	}

	return nil
}

func outputCompileError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

func writeSchemaToFile(schema row.Schema, filename string) error {
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling schema: %w", err)
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
