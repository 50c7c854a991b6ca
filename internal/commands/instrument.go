package commands

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/bahi-dev/bahi/internal/engine"
	"github.com/bahi-dev/bahi/internal/model"
	"github.com/bahi-dev/bahi/internal/money"
)

func newInstrumentCommand(open func() (*app, error)) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "instrument",
		Short: "Manage loans and bills",
	}
	cmd.AddCommand(newInstrumentAddCommand(open))
	cmd.AddCommand(newInstrumentListCommand(open))
	cmd.AddCommand(newInstrumentShowCommand(open))
	cmd.AddCommand(newInstrumentCorrectCommand(open))
	return cmd
}

func newInstrumentAddCommand(open func() (*app, error)) *cobra.Command {
	var (
		party     string
		phone     string
		category  string
		principal string
		fees      string
		rate      string
		mode      string
		origin    string
		due       string
	)

	cmd := &cobra.Command{
		Use:   "add <label>",
		Short: "Originate a new loan or bill",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			cp, err := a.resolveCounterparty(party)
			if errors.Is(err, model.ErrCounterpartyNotFound) {
				// Unknown names become new counterparties on the spot.
				cp = &model.Counterparty{
					ID:        uuid.New(),
					Name:      party,
					Phone:     phone,
					CreatedAt: time.Now().UTC(),
				}
				if err := a.store.CreateCounterparty(cp); err != nil {
					return err
				}
			} else if err != nil {
				return err
			}

			p, err := money.Parse(principal)
			if err != nil {
				return fmt.Errorf("principal: %w", err)
			}
			f, err := money.Parse(fees)
			if err != nil {
				return fmt.Errorf("fees: %w", err)
			}

			if rate == "" {
				rate = a.cfg.Interest.DefaultRate
			}
			r, err := money.Parse(rate)
			if err != nil {
				return fmt.Errorf("rate: %w", err)
			}

			if mode == "" {
				mode = a.cfg.Interest.DefaultMode
			}
			im, err := model.ParseInterestMode(mode)
			if err != nil {
				return err
			}

			originDate, err := parseAsOf(origin)
			if err != nil {
				return fmt.Errorf("origin: %w", err)
			}

			var dueDate *time.Time
			if due != "" {
				d, err := parseDate(due)
				if err != nil {
					return fmt.Errorf("due: %w", err)
				}
				dueDate = &d
			}

			inst, err := a.engine.OpenInstrument(engine.OpenParams{
				Category:       model.Category(category),
				CounterpartyID: cp.ID,
				Label:          args[0],
				Principal:      p,
				Fees:           f,
				InterestRate:   r,
				InterestMode:   im,
				OriginDate:     originDate,
				DueDate:        dueDate,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Opened %s %q for %s: opening balance %s (id %s)\n",
				inst.Category, inst.Label, cp.Name, inst.Opening().StringFixed(2), inst.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&party, "party", "", "counterparty name or ID (required)")
	_ = cmd.MarkFlagRequired("party")
	cmd.Flags().StringVar(&phone, "phone", "", "counterparty phone, used only when creating a new counterparty")
	cmd.Flags().StringVar(&category, "category", "loan", "instrument category: loan or bill")
	cmd.Flags().StringVar(&principal, "principal", "", "principal amount (required)")
	_ = cmd.MarkFlagRequired("principal")
	cmd.Flags().StringVar(&fees, "fees", "0", "origination fees, repaid as principal")
	cmd.Flags().StringVar(&rate, "rate", "", "interest rate percent (default from config)")
	cmd.Flags().StringVar(&mode, "mode", "", "interest mode: none, flat, daily or monthly (default from config)")
	cmd.Flags().StringVar(&origin, "origin", "", "origin date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&due, "due", "", "due date YYYY-MM-DD")

	return cmd
}

func newInstrumentCorrectCommand(open func() (*app, error)) *cobra.Command {
	var (
		actorFlag string
		label     string
		rate      string
		mode      string
		due       string
	)

	cmd := &cobra.Command{
		Use:   "correct <instrument>",
		Short: "Correct an instrument's terms (audited)",
		Args:  cobra.ExactArgs(1),
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

			var r *decimal.Decimal
			if rate != "" {
				parsed, err := money.Parse(rate)
				if err != nil {
					return fmt.Errorf("rate: %w", err)
				}
				r = &parsed
			}
			var im *model.InterestMode
			if mode != "" {
				parsed, err := model.ParseInterestMode(mode)
				if err != nil {
					return err
				}
				im = &parsed
			}
			var dueDate *time.Time
			if due != "" {
				parsed, err := parseDate(due)
				if err != nil {
					return fmt.Errorf("due: %w", err)
				}
				dueDate = &parsed
			}

			updated, err := a.engine.CorrectInstrument(inst.ID, actor(actorFlag), func(i *model.Instrument) {
				if label != "" {
					i.Label = label
				}
				if r != nil {
					i.InterestRate = *r
				}
				if im != nil {
					i.InterestMode = *im
				}
				if dueDate != nil {
					i.DueDate = dueDate
				}
			})
			if err != nil {
				return err
			}

			fmt.Printf("Corrected %q: %s interest at %s%%\n",
				updated.Label, updated.InterestMode, updated.InterestRate.String())
			return nil
		},
	}

	cmd.Flags().StringVar(&actorFlag, "actor", "", "acting user (default $BAHI_ACTOR or $USER)")
	cmd.Flags().StringVar(&label, "label", "", "new label")
	cmd.Flags().StringVar(&rate, "rate", "", "new interest rate percent")
	cmd.Flags().StringVar(&mode, "mode", "", "new interest mode")
	cmd.Flags().StringVar(&due, "due", "", "new due date YYYY-MM-DD")

	return cmd
}

func newInstrumentListCommand(open func() (*app, error)) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List instruments with their outstanding balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := open()
			if err != nil {
				return err
			}
			defer a.close()

			instruments, err := a.store.ListInstruments(!all)
			if err != nil {
				return err
			}

			asOf := today()
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "LABEL\tCATEGORY\tPRINCIPAL DUE\tINTEREST DUE\tSTATUS\tID")
			for _, inst := range instruments {
				pos, err := a.engine.InstrumentPosition(inst.ID, asOf)
				if err != nil {
					return err
				}
				status := "open"
				if !inst.Active {
					status = "settled"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					inst.Label, inst.Category,
					pos.PrincipalOutstanding.StringFixed(2),
					pos.InterestOutstanding.StringFixed(2),
					status, inst.ID)
			}
			return w.Flush()
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include settled instruments")
	return cmd
}

func newInstrumentShowCommand(open func() (*app, error)) *cobra.Command {
	var asOfFlag string

	cmd := &cobra.Command{
		Use:   "show <instrument>",
		Short: "Show an instrument's position and payment history",
		Args:  cobra.ExactArgs(1),
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

			asOf, err := parseAsOf(asOfFlag)
			if err != nil {
				return err
			}

			pos, err := a.engine.InstrumentPosition(inst.ID, asOf)
			if err != nil {
				return err
			}

			cp, err := a.store.GetCounterparty(inst.CounterpartyID)
			if err != nil {
				return err
			}

			fmt.Printf("%s %q with %s\n", inst.Category, inst.Label, cp.Name)
			fmt.Printf("  opened %s, principal %s + fees %s, %s interest at %s%%\n",
				inst.OriginDate.Format("2006-01-02"),
				inst.Principal.StringFixed(2), inst.Fees.StringFixed(2),
				inst.InterestMode, inst.InterestRate.String())
			if inst.DueDate != nil {
				fmt.Printf("  due %s\n", inst.DueDate.Format("2006-01-02"))
			}
			fmt.Printf("  as of %s: principal due %s, interest due %s (accrued %s, paid %s)\n",
				asOf.Format("2006-01-02"),
				pos.PrincipalOutstanding.StringFixed(2),
				pos.InterestOutstanding.StringFixed(2),
				pos.InterestAccrued.StringFixed(2),
				pos.InterestPaid.StringFixed(2))
			if pos.Settled {
				fmt.Println("  settled")
			}

			txns, err := a.store.FetchTransactions(inst.ID)
			if err != nil {
				return err
			}
			if len(txns) == 0 {
				return nil
			}

			fmt.Println("\nPayments:")
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VOUCHER\tDATE\tKIND\tAMOUNT\tMODE\tCONFIRMED\tID")
			for _, txn := range txns {
				confirmed := ""
				if txn.Confirmed {
					confirmed = "by " + txn.ConfirmedBy
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					txn.Voucher, txn.PaymentDate.Format("2006-01-02"),
					txn.Kind, txn.Amount.StringFixed(2), txn.Mode, confirmed, txn.ID)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&asOfFlag, "as-of", "", "position date YYYY-MM-DD (default today)")
	return cmd
}
