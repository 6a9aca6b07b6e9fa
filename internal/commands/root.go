// Package commands wires the cofre CLI: ledger management for accounts,
// cards, and transactions, statement imports, invoices, and shared-expense
// reports.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cofre-dev/cofre/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "cofre",
		Short:   "Personal finance ledger and billing-cycle engine",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "path to cofre.yaml")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAccountCommand(&configPath))
	rootCmd.AddCommand(newCardCommand(&configPath))
	rootCmd.AddCommand(newTransactionCommand(&configPath))
	rootCmd.AddCommand(newImportCommand(&configPath))
	rootCmd.AddCommand(newInvoiceCommand(&configPath))
	rootCmd.AddCommand(newAlziCommand(&configPath))
	rootCmd.AddCommand(newOverviewCommand(&configPath))

	return rootCmd
}
