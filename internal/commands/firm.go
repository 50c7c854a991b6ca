package commands

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bahi-dev/bahi/internal/importer"
	"github.com/bahi-dev/bahi/internal/model"
	"github.com/bahi-dev/bahi/internal/money"
)

func newFirmCommand(open func() (*app, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "firm",
		Short: "Manage the firm's own cash and bank accounts",
	}
	cmd.AddCommand(newFirmAccountCommand(open))
	cmd.AddCommand(newFirmRecordCommand(open))
	cmd.AddCommand(newFirmBalanceCommand(open))
	cmd.AddCommand(newFirmImportCommand(open))
	return cmd
}

func newFirmAccountCommand(open func() (*app, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage firm accounts",
	}

	var acctType string
	var opening string

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a firm account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			openingBal, err := money.Parse(opening)
			if err != nil {
				return fmt.Errorf("opening: %w", err)
			}

			acct := &model.FirmAccount{
				ID:        uuid.New(),
				Name:      args[0],
				Type:      acctType,
				Opening:   money.Round(openingBal),
				CreatedAt: time.Now().UTC(),
			}
			if err := a.store.CreateFirmAccount(acct); err != nil {
				return err
			}

			fmt.Printf("Added %s account %q opening at %s (id %s)\n",
				acct.Type, acct.Name, acct.Opening.StringFixed(2), acct.ID)
			return nil
		},
	}
	add.Flags().StringVar(&acctType, "type", "cash", "account type: cash or bank")
	add.Flags().StringVar(&opening, "opening", "0", "opening balance")

	list := &cobra.Command{
		Use:   "list",
		Short: "List firm accounts with replayed balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			accounts, err := a.store.ListFirmAccounts()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTYPE\tBALANCE\tID")
			for _, acct := range accounts {
				res, err := a.engine.FirmBalance(acct.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					acct.Name, acct.Type, res.Balance.StringFixed(2), acct.ID)
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(add)
	cmd.AddCommand(list)
	return cmd
}

func newFirmRecordCommand(open func() (*app, error)) *cobra.Command {
	var (
		kind      string
		date      string
		desc      string
		reference string
	)

	cmd := &cobra.Command{
		Use:   "record <account> <amount>",
		Short: "Record a transaction on a firm account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			acct, err := a.resolveFirmAccount(args[0])
			if err != nil {
				return err
			}

			amount, err := money.Parse(args[1])
			if err != nil {
				return err
			}

			effective, err := parseAsOf(date)
			if err != nil {
				return err
			}

			txn, err := a.engine.RecordFirmTransaction(acct.ID, model.FirmTxnKind(kind), amount, effective, desc, reference)
			if err != nil {
				return err
			}

			fmt.Printf("Recorded %s of %s on %q (id %s)\n",
				txn.Kind, txn.Amount.StringFixed(2), acct.Name, txn.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "deposit", "transaction kind: deposit, withdrawal, expense, income, refund or a configured kind")
	cmd.Flags().StringVar(&date, "date", "", "effective date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&desc, "desc", "", "description")
	cmd.Flags().StringVar(&reference, "ref", "", "external reference")

	return cmd
}

func newFirmBalanceCommand(open func() (*app, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance <account>",
		Short: "Replay a firm account and print its balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			acct, err := a.resolveFirmAccount(args[0])
			if err != nil {
				return err
			}

			res, err := a.engine.FirmBalance(acct.ID)
			if err != nil {
				return err
			}

			fmt.Printf("%q balance: %s\n", acct.Name, res.Balance.StringFixed(2))

			kinds := make([]string, 0, len(res.TotalsByKind))
			for kind := range res.TotalsByKind {
				kinds = append(kinds, string(kind))
			}
			sort.Strings(kinds)
			for _, kind := range kinds {
				fmt.Printf("  %-12s %s\n", kind, res.TotalsByKind[model.FirmTxnKind(kind)].StringFixed(2))
			}
			return nil
		},
	}

	return cmd
}

func newFirmImportCommand(open func() (*app, error)) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import <account> <file>",
		Short: "Import a bank statement CSV into a firm account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			acct, err := a.resolveFirmAccount(args[0])
			if err != nil {
				return err
			}

			registry := importer.DefaultRegistry()
			parser := registry.Get(format)
			if parser == nil {
				return fmt.Errorf("unknown statement format %q (available: %s)",
					format, strings.Join(registry.Formats(), ", "))
			}

			f, err := os.Open(args[1])
			if err != nil {
				return fmt.Errorf("opening statement: %w", err)
			}
			defer f.Close()

			rows, err := parser.Parse(f)
			if err != nil {
				return fmt.Errorf("parsing statement: %w", err)
			}

			txns, err := a.engine.ImportStatement(acct.ID, rows)
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d transactions into %q\n", len(txns), acct.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "generic", "statement format")

	return cmd
}
