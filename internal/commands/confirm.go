package commands

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newConfirmCommand(open func() (*app, error)) *cobra.Command {
	var actorFlag string

	cmd := &cobra.Command{
		Use:   "confirm <transaction-id>",
		Short: "Confirm a payment, locking it against edits",
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

			if err := a.engine.Confirm(txnID, actor(actorFlag)); err != nil {
				return err
			}

			fmt.Println("Payment confirmed.")
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&actorFlag, "actor", "", "acting user (default $BAHI_ACTOR or $USER)")

	cmd.AddCommand(newConfirmUndoCommand(open, &actorFlag))

	return cmd
}

func newConfirmUndoCommand(open func() (*app, error), actorFlag *string) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "undo <transaction-id>",
		Short: "Admin override: unconfirm a payment, with an audited reason",
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

			if err := a.engine.AdminUnconfirm(txnID, actor(*actorFlag), reason); err != nil {
				return err
			}

			fmt.Println("Confirmation reverted; the payment is editable again.")
			return nil
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "", "why the confirmation is being reverted (required)")
	_ = cmd.MarkFlagRequired("reason")

	return cmd
}
