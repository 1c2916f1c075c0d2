// Package main provides the tracecore CLI: a thin batch-caller harness
// around the ingestion pipeline, for local operation and demos. It has
// no network listener and no retry loop — it loads catalogs, runs one
// batch, prints a verdict, and exits.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CIRISAI/ciris-trace-core/internal/tclog"
)

func main() {
	logCfg := &tclog.Config{}

	rootCmd := &cobra.Command{
		Use:           "tracecore",
		Short:         "CIRISLens trace ingestion core",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	logCfg.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(newProcessCmd(logCfg))
	rootCmd.AddCommand(newCatalogCmd(logCfg))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
