package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bahi-dev/bahi/internal/money"
)

func newAdvanceCommand(open func() (*app, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "advance",
		Short: "Inspect and draw down counterparty advance credit",
	}
	cmd.AddCommand(newAdvanceShowCommand(open))
	cmd.AddCommand(newAdvanceDrawCommand(open))
	return cmd
}

func newAdvanceShowCommand(open func() (*app, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <counterparty>",
		Short: "Show a counterparty's advance credit balance and history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			cp, err := a.resolveCounterparty(args[0])
			if err != nil {
				return err
			}

			balance, err := a.engine.AdvanceBalance(cp.ID)
			if err != nil {
				return err
			}

			fmt.Printf("%s advance credit: %s\n", cp.Name, balance.StringFixed(2))

			entries, err := a.store.FetchAdvanceEntries(cp.ID)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "DATE\tKIND\tAMOUNT\tREASON")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					e.EffectiveDate.Format("2006-01-02"), e.Kind,
					e.Amount.StringFixed(2), e.Reason)
			}
			return w.Flush()
		},
	}

	return cmd
}

func newAdvanceDrawCommand(open func() (*app, error)) *cobra.Command {
	var (
		date   string
		reason string
	)

	cmd := &cobra.Command{
		Use:   "draw <counterparty> <amount>",
		Short: "Draw down advance credit against a new obligation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			cp, err := a.resolveCounterparty(args[0])
			if err != nil {
				return err
			}

			amount, err := money.Parse(args[1])
			if err != nil {
				return err
			}

			asOf, err := parseAsOf(date)
			if err != nil {
				return err
			}

			if err := a.engine.DrawAdvance(cp.ID, amount, reason, asOf); err != nil {
				return err
			}

			balance, err := a.engine.AdvanceBalance(cp.ID)
			if err != nil {
				return err
			}

			fmt.Printf("Drew %s from %s's advance credit; %s remains\n",
				amount.StringFixed(2), cp.Name, balance.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "effective date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&reason, "reason", "", "what the draw was applied to (required)")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}
