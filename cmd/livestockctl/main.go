// Command livestockctl runs operator tasks against the document store.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"livestock/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Load()

	root := &cobra.Command{
		Use:           "livestockctl",
		Short:         "Operator tasks for the livestock transport service",
		SilenceUsage:  true,
	}

	root.AddCommand(
		newSeedJobCmd(cfg),
		newCreateTablesCmd(cfg),
		newMigrateCmd(cfg),
	)

	return root
}
