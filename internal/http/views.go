package http

import (
	"context"
	"fmt"
	"html/template"
	"strings"

	"expenses/internal/core"
	"expenses/internal/i18n"
	"expenses/internal/query"
)

// listResult is the cached outcome of filtering, sorting and aggregating.
// It does not depend on language or currency.
type listResult struct {
	Items []core.Expense
	Stats query.Stats
	Total int // expenses stored, before filtering
}

type option struct {
	Value, Label string
}

type itemView struct {
	ID            string
	Date          string
	Description   string
	Amount        string
	Category      string
	CategoryLabel string
	Color         string
	PaymentMethod string
	Tags          []string
}

type shareView struct {
	Label   string
	Amount  string
	Percent string
	Width   int
	Color   string
}

type trendView struct {
	Label  string
	Amount string
	Height int
}

type statsView struct {
	Total         string
	Count         int
	Average       string
	CategoryCount int
}

type listView struct {
	Items          []itemView
	Stats          statsView
	CategoryShares []shareView
	PaymentShares  []shareView
	Trend          []trendView
	ExportURL      template.URL
	Sort           query.SortConfig
	HasAny         bool
	Error          string
}

type filterView struct {
	Category      string
	PaymentMethod string
	StartDate     string
	EndDate       string
	Search        string
}

type formView struct {
	EditID string
	Values core.FormData
	Errors map[string]string
}

// pageData is passed to every template. Only the parts a template uses are filled.
type pageData struct {
	T              i18n.Table
	Settings       core.Settings
	Currencies     []core.CurrencyInfo
	Categories     []option
	PaymentMethods []option
	SortFields     []option
	Filters        filterView
	Form           formView
	List           listView
	CanParse       bool
	Today          string
}

func (s *Server) basePage(ctx context.Context) pageData {
	settings, err := s.expenses.Settings(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to load settings, using defaults", "error", err)
		settings = core.DefaultSettings()
	}
	t := i18n.For(settings.Language)

	data := pageData{
		T:          t,
		Settings:   settings,
		Currencies: core.Currencies,
		CanParse:   s.expenses.CanParse(),
		Today:      core.DateOf(s.now()).String(),
		SortFields: []option{
			{string(query.SortByDate), t.Get("sortByDate")},
			{string(query.SortByAmount), t.Get("sortByAmount")},
			{string(query.SortByCategory), t.Get("sortByCategory")},
			{string(query.SortByDescription), t.Get("sortByDescription")},
		},
	}
	for _, c := range core.Categories {
		data.Categories = append(data.Categories, option{string(c.Value), t.Category(c.Value)})
	}
	for _, p := range core.PaymentMethods {
		data.PaymentMethods = append(data.PaymentMethods, option{string(p.Value), t.PaymentMethod(p.Value)})
	}
	data.Form = s.blankForm()
	return data
}

func (s *Server) blankForm() formView {
	return formView{Values: core.FormData{Date: core.DateOf(s.now()).String()}}
}

func translateErrors(t i18n.Table, errs core.FormErrors) map[string]string {
	out := make(map[string]string, len(errs))
	for field, msg := range errs {
		out[field] = t.Message(msg)
	}
	return out
}

func listCacheKey(f query.Filters, sc query.SortConfig) string {
	return strings.Join([]string{
		f.Category, f.PaymentMethod, f.StartDate.String(), f.EndDate.String(),
		strings.ToLower(f.Search), string(sc.Field), string(sc.Order),
	}, "|")
}

// loadList filters, sorts and aggregates the stored expenses, reusing a
// cached result until the next write.
func (s *Server) loadList(ctx context.Context, f query.Filters, sc query.SortConfig) (listResult, error) {
	key := listCacheKey(f, sc)
	if res, ok := s.views.Get(key); ok {
		s.logger.DebugContext(ctx, "List cache hit", "key", key)
		return res, nil
	}

	all, err := s.expenses.List(ctx)
	if err != nil {
		return listResult{}, fmt.Errorf("load expense list: %w", err)
	}
	filtered := query.Filter(all, f)
	res := listResult{
		Items: query.Sort(filtered, sc),
		Stats: query.Calculate(filtered),
		Total: len(all),
	}
	s.views.Set(key, res)
	return res, nil
}

func (s *Server) invalidateViews() {
	s.views.Purge()
}

func newFilterView(f query.Filters) filterView {
	return filterView{
		Category:      f.Category,
		PaymentMethod: f.PaymentMethod,
		StartDate:     f.StartDate.String(),
		EndDate:       f.EndDate.String(),
		Search:        f.Search,
	}
}

func buildListView(res listResult, f query.Filters, sc query.SortConfig, t i18n.Table, settings core.Settings) listView {
	v := listView{
		ExportURL: exportURL(f, sc),
		Sort:      sc,
		HasAny:    res.Total > 0,
		Stats: statsView{
			Total:         formatMoney(res.Stats.Total, settings),
			Count:         res.Stats.Count,
			Average:       formatMoney(res.Stats.Average, settings),
			CategoryCount: len(res.Stats.ByCategory),
		},
	}

	for _, e := range res.Items {
		v.Items = append(v.Items, itemView{
			ID:            e.ID,
			Date:          e.Date.String(),
			Description:   e.Description,
			Amount:        formatMoney(e.Amount, settings),
			Category:      string(e.Category),
			CategoryLabel: t.Category(e.Category),
			Color:         e.Category.Color(),
			PaymentMethod: t.PaymentMethod(e.PaymentMethod),
			Tags:          e.Tags,
		})
	}

	for _, sh := range query.Breakdown(res.Stats.ByCategory) {
		c := core.Category(sh.Key)
		v.CategoryShares = append(v.CategoryShares, newShareView(t.Category(c), c.Color(), sh, settings))
	}
	for _, sh := range query.Breakdown(res.Stats.ByPaymentMethod) {
		v.PaymentShares = append(v.PaymentShares, newShareView(t.PaymentMethod(core.PaymentMethod(sh.Key)), "", sh, settings))
	}

	peak := res.Stats.TrendMax()
	for _, p := range res.Stats.Trend {
		v.Trend = append(v.Trend, trendView{
			Label:  p.Label,
			Amount: formatMoney(p.Amount, settings),
			Height: scaled(p.Amount.Cents, peak.Cents),
		})
	}
	return v
}

// exportURL links the CSV download to the filters and sort on screen.
func exportURL(f query.Filters, sc query.SortConfig) template.URL {
	q := EncodeListQuery(f, sc)
	if q == "" {
		return "/export.csv"
	}
	return template.URL("/export.csv?" + q)
}

func newShareView(label, color string, sh query.Share, settings core.Settings) shareView {
	return shareView{
		Label:   label,
		Amount:  formatMoney(sh.Amount, settings),
		Percent: fmt.Sprintf("%.1f%%", sh.Percent),
		Width:   clampWidth(int(sh.Percent + 0.5)),
		Color:   color,
	}
}

// scaled returns value as a rounded percentage of peak. Non-zero values
// never drop below 2 so small bars stay visible.
func scaled(value, peak int64) int {
	if peak <= 0 || value <= 0 {
		return 0
	}
	return clampWidth(int((value*100 + peak/2) / peak))
}

func clampWidth(w int) int {
	switch {
	case w <= 0:
		return 0
	case w < 2:
		return 2
	case w > 100:
		return 100
	}
	return w
}
