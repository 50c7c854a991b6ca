package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bahi-dev/bahi/internal/config"
	"github.com/bahi-dev/bahi/internal/store"
)

func newInitCommand() *cobra.Command {
	var firmName string
	var owner string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new bahi ledger directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, firmName, owner)
		},
	}

	cmd.Flags().StringVar(&firmName, "firm", "", "firm name (required)")
	_ = cmd.MarkFlagRequired("firm")
	cmd.Flags().StringVar(&owner, "owner", "", "owner name used as default confirmation actor")

	return cmd
}

func runInit(dir, firmName, owner string) error {
	if _, err := os.Stat(filepath.Join(dir, "bahi.yaml")); err == nil {
		return fmt.Errorf("%s already contains a bahi.yaml", dir)
	}

	for _, d := range []string{"logs", "import"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(firmName, owner)
	if err := config.Save(filepath.Join(dir, "bahi.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Create the database up front so the schema exists before first use.
	st, err := store.NewSQLiteStore(filepath.Join(dir, cfg.Database.Path))
	if err != nil {
		return fmt.Errorf("creating ledger: %w", err)
	}
	if err := st.Close(); err != nil {
		return fmt.Errorf("closing ledger: %w", err)
	}

	fmt.Printf("Initialized bahi ledger for %s at %s\n", firmName, dir)
	return nil
}
