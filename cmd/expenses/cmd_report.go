package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"expenses/internal/ai"
	"expenses/internal/backend"
	"expenses/internal/core"
	"expenses/internal/log"
)

const wordWrap = 100

func newAnalyzeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Ask the language model for insights on your spending",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, err := a.tracker(cmd.Context(), backend.JSONBackend, true)
			if err != nil {
				return err
			}
			a.logger.DebugContext(cmd.Context(), "Requesting spending analysis", log.FieldOperation, log.OpAnalyze)
			analysis, err := tr.Analyze(cmd.Context())
			if err != nil {
				return err
			}
			return a.renderMarkdown(analysisMarkdown(analysis))
		},
	}
}

func analysisMarkdown(an ai.Analysis) string {
	var b strings.Builder
	b.WriteString("# Spending analysis\n\n")
	if an.Summary != "" {
		b.WriteString(an.Summary + "\n\n")
	}
	writeList(&b, "Insights", an.Insights)
	writeList(&b, "Recommendations", an.Recommendations)
	return b.String()
}

func writeList(b *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
	b.WriteString("\n")
}

func newSummaryCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print totals per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, err := a.tracker(cmd.Context(), backend.JSONBackend, false)
			if err != nil {
				return err
			}
			s, err := tr.Summary(cmd.Context())
			if err != nil {
				return err
			}
			return a.renderMarkdown(a.summaryMarkdown(s))
		},
	}
}

func (a *app) summaryMarkdown(s core.Summary) string {
	var b strings.Builder
	b.WriteString("# Expense summary\n\n")
	fmt.Fprintf(&b, "**Total:** %s across %d expenses\n\n", a.money(s.Total), s.Count)
	if len(s.ByCategory) == 0 {
		return b.String()
	}
	b.WriteString("| Category | Amount | Share |\n|---|---:|---:|\n")
	for _, c := range s.ByCategory {
		share := 0.0
		if s.Total.Cents > 0 {
			share = float64(c.Amount.Cents) * 100 / float64(s.Total.Cents)
		}
		fmt.Fprintf(&b, "| %s | %s | %.1f%% |\n",
			core.Category(c.Name).Label(), a.money(c.Amount), share)
	}
	return b.String()
}

// renderMarkdown styles md for the terminal, or prints it as is with --plain.
func (a *app) renderMarkdown(md string) error {
	if a.plain {
		_, err := fmt.Fprint(a.out, md)
		return err
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wordWrap),
	)
	if err != nil {
		return fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		a.logger.Warn("Markdown rendering failed, printing plain text", "error", err)
		out = md
	}
	_, err = fmt.Fprint(a.out, out)
	return err
}
