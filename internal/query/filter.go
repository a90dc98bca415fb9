// Package query holds the pure list operations behind the expense views:
// filtering, sorting and aggregate statistics.
package query

import (
	"strings"
	"time"

	"expenses/internal/core"
)

// All matches any category or payment method.
const All = "all"

// now is replaced in tests.
var now = time.Now

// Filters are combined with AND. Zero values disable a predicate.
type Filters struct {
	Category      string
	PaymentMethod string
	StartDate     core.Date
	EndDate       core.Date
	Search        string
}

// IsZero reports whether no predicate is active.
func (f Filters) IsZero() bool {
	return (f.Category == "" || f.Category == All) &&
		(f.PaymentMethod == "" || f.PaymentMethod == All) &&
		f.StartDate.IsZero() && f.EndDate.IsZero() &&
		strings.TrimSpace(f.Search) == ""
}

// Filter returns the expenses matching every active predicate, in input order.
//
// The date range is inclusive on whole days. With only a start date the range
// ends today, so expenses dated in the future are excluded.
func Filter(expenses []core.Expense, f Filters) []core.Expense {
	out := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if f.matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func (f Filters) matches(e core.Expense) bool {
	if f.Category != "" && f.Category != All && string(e.Category) != f.Category {
		return false
	}
	if f.PaymentMethod != "" && f.PaymentMethod != All && string(e.PaymentMethod) != f.PaymentMethod {
		return false
	}

	if !f.StartDate.IsZero() || !f.EndDate.IsZero() {
		end := f.EndDate
		if end.IsZero() {
			end = core.DateOf(now())
		}
		if e.Date.Before(f.StartDate.Time) || e.Date.After(end.Time) {
			return false
		}
	}

	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		return strings.Contains(strings.ToLower(e.Description), term) ||
			strings.Contains(e.Amount.Short(), term)
	}
	return true
}
