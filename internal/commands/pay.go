package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bahi-dev/bahi/internal/engine"
	"github.com/bahi-dev/bahi/internal/model"
	"github.com/bahi-dev/bahi/internal/money"
)

func newPayCommand(open func() (*app, error)) *cobra.Command {
	var (
		date string
		mode string
		note string
	)

	cmd := &cobra.Command{
		Use:   "pay <instrument> <amount>",
		Short: "Record a payment against a loan or bill",
		Long: "Record a payment against a loan or bill. The amount is split " +
			"interest-first: accrued interest is cleared before principal, and " +
			"anything beyond full settlement is parked as advance credit.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			inst, err := a.resolveInstrument(args[0])
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

			alloc, err := a.engine.RecordPayment(inst.ID, asOf, amount, model.PaymentMode(mode), note)
			if err != nil {
				return err
			}

			printAllocation(inst.Label, alloc)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "payment date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&mode, "mode", "cash", "payment mode, e.g. cash or bank")
	cmd.Flags().StringVar(&note, "note", "", "free-form note on the payment")

	cmd.AddCommand(newPayEditCommand(open))
	cmd.AddCommand(newPayDeleteCommand(open))

	return cmd
}

func newPayEditCommand(open func() (*app, error)) *cobra.Command {
	var (
		date string
		mode string
		note string
	)

	cmd := &cobra.Command{
		Use:   "edit <transaction-id> <amount>",
		Short: "Replace an unconfirmed payment with a corrected amount",
		Long: "Replace an unconfirmed payment. The whole voucher group is " +
			"removed and the new amount is reallocated as if recorded fresh.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			txnID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("transaction id: %w", err)
			}

			amount, err := money.Parse(args[1])
			if err != nil {
				return err
			}

			txn, err := a.store.GetTransaction(txnID)
			if err != nil {
				return err
			}
			inst, err := a.store.GetInstrument(txn.InstrumentID)
			if err != nil {
				return err
			}

			asOf := txn.PaymentDate
			if date != "" {
				asOf, err = parseDate(date)
				if err != nil {
					return err
				}
			}
			if mode == "" {
				mode = string(txn.Mode)
			}
			if note == "" {
				note = txn.Note
			}

			alloc, err := a.engine.EditPayment(txnID, asOf, amount, model.PaymentMode(mode), note)
			if err != nil {
				return err
			}

			printAllocation(inst.Label, alloc)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "new payment date YYYY-MM-DD (default: keep)")
	cmd.Flags().StringVar(&mode, "mode", "", "new payment mode (default: keep)")
	cmd.Flags().StringVar(&note, "note", "", "new note (default: keep)")

	return cmd
}

func newPayDeleteCommand(open func() (*app, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <transaction-id>",
		Short: "Delete an unconfirmed payment and its voucher group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			txnID, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("transaction id: %w", err)
			}

			if err := a.engine.DeletePayment(txnID); err != nil {
				return err
			}

			fmt.Println("Payment deleted; balances replay without it.")
			return nil
		},
	}

	return cmd
}

func printAllocation(label string, alloc *engine.Allocation) {
	fmt.Printf("Voucher %s on %q\n", alloc.Voucher, label)
	if alloc.InterestPortion.IsPositive() {
		fmt.Printf("  interest   %s\n", alloc.InterestPortion.StringFixed(2))
	}
	if alloc.PrincipalPortion.IsPositive() {
		fmt.Printf("  principal  %s\n", alloc.PrincipalPortion.StringFixed(2))
	}
	if alloc.Overpayment.IsPositive() {
		fmt.Printf("  advance    %s (parked as counterparty credit)\n", alloc.Overpayment.StringFixed(2))
	}
	if alloc.Settled {
		fmt.Println("  instrument settled")
	}
}
