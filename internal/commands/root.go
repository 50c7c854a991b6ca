package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bahi-dev/bahi/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var dir string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "bahi",
		Short:   "Ledger and interest accrual for a small lending firm",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dir, "dir", ".", "bahi directory")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	open := func() (*app, error) { return openApp(dir, verbose) }

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newInstrumentCommand(open))
	rootCmd.AddCommand(newPayCommand(open))
	rootCmd.AddCommand(newConfirmCommand(open))
	rootCmd.AddCommand(newFirmCommand(open))
	rootCmd.AddCommand(newRemindCommand(open))
	rootCmd.AddCommand(newAdvanceCommand(open))

	return rootCmd
}
