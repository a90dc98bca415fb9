package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"expenses/internal/backend"
	"expenses/internal/core"
	"expenses/internal/export"
	"expenses/internal/log"
	"expenses/internal/query"
	"expenses/internal/services"
)

// queryFlags select and order expenses for list and export.
type queryFlags struct {
	category      string
	paymentMethod string
	from          string
	to            string
	search        string
	sort          string
	order         string
}

func (f *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "only this category")
	cmd.Flags().StringVarP(&f.paymentMethod, "payment-method", "p", "", "only this payment method")
	cmd.Flags().StringVar(&f.from, "from", "", "first date, YYYY-MM-DD")
	cmd.Flags().StringVar(&f.to, "to", "", "last date, YYYY-MM-DD")
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "text to find in the description or amount")
	cmd.Flags().StringVar(&f.sort, "sort", "date", "date, amount, category or description")
	cmd.Flags().StringVar(&f.order, "order", "desc", "asc or desc")
}

func (f *queryFlags) filters() (query.Filters, error) {
	out := query.Filters{Search: f.search}
	if f.category != "" {
		out.Category = string(core.NormalizeCategory(f.category))
	}
	if f.paymentMethod != "" {
		pm, ok := core.ParsePaymentMethod(f.paymentMethod)
		if !ok {
			return out, fmt.Errorf("unknown payment method %q", f.paymentMethod)
		}
		out.PaymentMethod = string(pm)
	}
	var err error
	if f.from != "" {
		if out.StartDate, err = core.ParseDate(f.from); err != nil {
			return out, fmt.Errorf("--from %q: %w", f.from, err)
		}
	}
	if f.to != "" {
		if out.EndDate, err = core.ParseDate(f.to); err != nil {
			return out, fmt.Errorf("--to %q: %w", f.to, err)
		}
	}
	return out, nil
}

func (f *queryFlags) apply(list []core.Expense) ([]core.Expense, error) {
	filters, err := f.filters()
	if err != nil {
		return nil, err
	}
	return query.Sort(query.Filter(list, filters), query.ParseSort(f.sort, f.order)), nil
}

func (a *app) selectExpenses(cmd *cobra.Command, f *queryFlags) ([]core.Expense, error) {
	tr, err := a.tracker(cmd.Context(), backend.JSONBackend, false)
	if err != nil {
		return nil, err
	}
	all, err := tr.List(cmd.Context())
	if err != nil {
		return nil, err
	}
	return f.apply(all)
}

func newListCommand(a *app) *cobra.Command {
	var (
		f      queryFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List expenses, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.selectExpenses(cmd, &f)
			if err != nil {
				return err
			}
			if asJSON {
				if list == nil {
					list = []core.Expense{}
				}
				return a.printJSON(list)
			}
			if len(list) == 0 {
				fmt.Fprintln(a.out, "No expenses found.")
				return nil
			}
			return a.renderMarkdown(a.listMarkdown(list))
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

func (a *app) listMarkdown(list []core.Expense) string {
	var b strings.Builder
	b.WriteString("| Date | Description | Amount | Category | Payment | ID |\n")
	b.WriteString("|---|---|---:|---|---|---|\n")
	for _, e := range list {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			e.Date, escapeCell(e.Description), a.money(e.Amount), e.Category.Label(),
			e.PaymentMethod.Label(), e.ID)
	}
	stats := query.Calculate(list)
	fmt.Fprintf(&b, "\n**%d expenses, total %s, average %s**\n",
		stats.Count, a.money(stats.Total), a.money(stats.Average))
	return b.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func newExportCommand(a *app) *cobra.Command {
	var (
		f      queryFlags
		output string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write expenses as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := a.selectExpenses(cmd, &f)
			if err != nil {
				return err
			}
			if len(list) == 0 {
				return export.ErrNothingToExport
			}

			var w io.Writer = a.out
			if output != "" {
				file, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer file.Close()
				w = file
			}
			if err := export.WriteCSV(w, list); err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(a.out, "Exported %d expenses to %s\n", len(list), output)
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write, e.g. "+export.FileName(timeNow())+" (default stdout)")
	return cmd
}

func newImportCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Add the expenses of an exported CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open %s: %w", args[0], err)
			}
			defer file.Close()

			list, err := export.ReadCSV(file)
			if err != nil {
				return err
			}
			tr, err := a.tracker(cmd.Context(), backend.JSONBackend, false)
			if err != nil {
				return err
			}
			n, err := importAll(cmd, tr, list)
			a.logger.InfoContext(cmd.Context(), "Imported expenses",
				log.FieldFile, args[0],
				log.FieldCount, n,
				log.FieldOperation, log.OpImport)
			fmt.Fprintf(a.out, "Imported %d of %d expenses\n", n, len(list))
			return err
		},
	}
}

func importAll(cmd *cobra.Command, tr *services.Tracker, list []core.Expense) (int, error) {
	for i := range list {
		if list[i].Metadata == nil {
			list[i].Metadata = &core.Metadata{Source: core.SourceImport}
		}
	}
	return tr.Import(cmd.Context(), list)
}
