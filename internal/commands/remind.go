package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newRemindCommand(open func() (*app, error)) *cobra.Command {
	var asOfFlag string

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "List overdue instruments needing collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			asOf, err := parseAsOf(asOfFlag)
			if err != nil {
				return err
			}

			reminders, err := a.engine.Reminders(asOf)
			if err != nil {
				return err
			}
			if len(reminders) == 0 {
				fmt.Println("Nothing overdue.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "LABEL\tDUE\tOVERDUE\tPRINCIPAL DUE\tINTEREST DUE")
			for _, r := range reminders {
				fmt.Fprintf(w, "%s\t%s\t%dd\t%s\t%s\n",
					r.Instrument.Label,
					r.Instrument.DueDate.Format("2006-01-02"),
					r.DaysOverdue,
					r.Position.PrincipalOutstanding.StringFixed(2),
					r.Position.InterestOutstanding.StringFixed(2))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&asOfFlag, "as-of", "", "reminder date YYYY-MM-DD (default today)")

	return cmd
}
