package query

import (
	"cmp"
	"slices"
	"strings"

	"expenses/internal/core"
)

type SortField string

const (
	SortByDate        SortField = "date"
	SortByAmount      SortField = "amount"
	SortByCategory    SortField = "category"
	SortByDescription SortField = "description"
)

type SortOrder string

const (
	Asc  SortOrder = "asc"
	Desc SortOrder = "desc"
)

type SortConfig struct {
	Field SortField
	Order SortOrder
}

// DefaultSort shows the newest expenses first.
var DefaultSort = SortConfig{Field: SortByDate, Order: Desc}

// ParseSort maps query values onto a SortConfig, falling back to DefaultSort
// for each unknown part.
func ParseSort(field, order string) SortConfig {
	sc := DefaultSort
	switch f := SortField(strings.ToLower(field)); f {
	case SortByDate, SortByAmount, SortByCategory, SortByDescription:
		sc.Field = f
	}
	switch o := SortOrder(strings.ToLower(order)); o {
	case Asc, Desc:
		sc.Order = o
	}
	return sc
}

// Sort returns a sorted copy. Equal keys keep their input order in both directions.
func Sort(expenses []core.Expense, sc SortConfig) []core.Expense {
	sorted := slices.Clone(expenses)
	compare := comparator(sc.Field)
	if compare == nil {
		return sorted
	}
	slices.SortStableFunc(sorted, func(a, b core.Expense) int {
		c := compare(a, b)
		if sc.Order == Desc {
			return -c
		}
		return c
	})
	return sorted
}

func comparator(field SortField) func(a, b core.Expense) int {
	switch field {
	case SortByDate:
		return func(a, b core.Expense) int { return a.Date.Compare(b.Date.Time) }
	case SortByAmount:
		return func(a, b core.Expense) int { return cmp.Compare(a.Amount.Cents, b.Amount.Cents) }
	case SortByCategory:
		return func(a, b core.Expense) int { return cmp.Compare(a.Category, b.Category) }
	case SortByDescription:
		return func(a, b core.Expense) int {
			return cmp.Compare(strings.ToLower(a.Description), strings.ToLower(b.Description))
		}
	}
	return nil
}
