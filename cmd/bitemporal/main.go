// Command bitemporal runs the reconciliation CLI: compile table
// schemas, validate batches, reconcile current state against updates,
// and run the conformance harness.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/bitemporal/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
