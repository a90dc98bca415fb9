package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"expenses/internal/backend"
	"expenses/internal/core"
	"expenses/internal/storage"
)

// expenseFlags are shared by add and update.
type expenseFlags struct {
	description   string
	amount        string
	category      string
	date          string
	paymentMethod string
	tags          []string
}

func (f *expenseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.description, "description", "d", "", "what the money was spent on")
	cmd.Flags().StringVarP(&f.amount, "amount", "a", "", "amount, e.g. 12.50")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category: food, transportation, entertainment, utilities, shopping, healthcare, education or other")
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&f.paymentMethod, "payment-method", "p", "", "cash, credit-card, debit-card, bank-transfer or digital-wallet")
	cmd.Flags().StringSliceVarP(&f.tags, "tag", "t", nil, "tag, repeatable")
}

func newAddCommand(a *app) *cobra.Command {
	var f expenseFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an expense from explicit fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// An unusable amount stays zero so validation reports it together
			// with the other fields.
			amount, _ := core.ParseAmount(f.amount)
			tr, err := a.tracker(cmd.Context(), backend.JSONBackend, false)
			if err != nil {
				return err
			}
			e, err := tr.Add(cmd.Context(), core.ExpenseInput{
				Description:   f.description,
				Amount:        amount,
				Category:      f.category,
				Date:          f.date,
				PaymentMethod: f.paymentMethod,
				Tags:          f.tags,
			})
			if err != nil {
				return err
			}
			a.printAdded(e)
			return nil
		},
	}
	f.register(cmd)
	_ = cmd.MarkFlagRequired("description")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newParseCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "parse <text...>",
		Aliases: []string{"text"},
		Short:   "Add an expense described in plain text",
		Example: `  expenses parse "Lunch at the cafe for 12.50 yesterday, paid by card"`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := a.tracker(cmd.Context(), backend.JSONBackend, true)
			if err != nil {
				return err
			}
			e, err := tr.AddFromText(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			a.printAdded(e)
			if e.Metadata != nil && e.Metadata.Confidence > 0 {
				fmt.Fprintf(a.out, "confidence: %.0f%%\n", e.Metadata.Confidence*100)
			}
			return nil
		},
	}
}

func newGetCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print one expense as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := a.tracker(cmd.Context(), backend.JSONBackend, false)
			if err != nil {
				return err
			}
			e, err := tr.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if e == nil {
				return fmt.Errorf("%w: %s", storage.ErrNotFound, args[0])
			}
			return a.printJSON(e)
		},
	}
}

func newUpdateCommand(a *app) *cobra.Command {
	var f expenseFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change the given fields of an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := f.patch(cmd)
			if err != nil {
				return err
			}
			tr, err := a.tracker(cmd.Context(), backend.JSONBackend, false)
			if err != nil {
				return err
			}
			e, err := tr.Update(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			if e == nil {
				return fmt.Errorf("%w: %s", storage.ErrNotFound, args[0])
			}
			fmt.Fprintf(a.out, "Updated %s\n", e.ID)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

// patch holds only the flags given on the command line.
func (f *expenseFlags) patch(cmd *cobra.Command) (core.ExpensePatch, error) {
	var p core.ExpensePatch
	n := 0
	changed := func(name string) bool {
		if cmd.Flags().Changed(name) {
			n++
			return true
		}
		return false
	}
	if changed("description") {
		p.Description = &f.description
	}
	if changed("amount") {
		m, err := core.ParseAmount(f.amount)
		if err != nil {
			return p, fmt.Errorf("amount %q: %w", f.amount, err)
		}
		p.Amount = &m
	}
	if changed("category") {
		c := core.NormalizeCategory(f.category)
		p.Category = &c
	}
	if changed("date") {
		d, err := core.ParseDate(f.date)
		if err != nil {
			return p, fmt.Errorf("date %q: %w", f.date, err)
		}
		p.Date = &d
	}
	if changed("payment-method") {
		pm, ok := core.ParsePaymentMethod(f.paymentMethod)
		if !ok {
			return p, fmt.Errorf("unknown payment method %q", f.paymentMethod)
		}
		p.PaymentMethod = &pm
	}
	if changed("tag") {
		p.Tags = f.tags
	}
	if n == 0 {
		return p, fmt.Errorf("nothing to update: pass at least one field flag")
	}
	return p, nil
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an expense",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tr, err := a.tracker(cmd.Context(), backend.JSONBackend, false)
			if err != nil {
				return err
			}
			ok, err := tr.Delete(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: %s", storage.ErrNotFound, args[0])
			}
			fmt.Fprintf(a.out, "Deleted %s\n", args[0])
			return nil
		},
	}
}

func (a *app) printAdded(e core.Expense) {
	fmt.Fprintf(a.out, "Added %s: %s, %s, %s, %s\n",
		e.ID, e.Description, a.money(e.Amount), e.Category, e.Date)
}

func (a *app) money(m core.Money) string {
	return core.FormatCurrency(m, a.cfg.Currency)
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
