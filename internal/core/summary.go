package core

import (
	"cmp"
	"slices"
)

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// Summary is the CLI overview: grand total, count and per-category totals
// sorted by amount, largest first.
type Summary struct {
	Total      Money
	Count      int
	ByCategory []CategoryAmount
}

// Summarize totals expenses by category.
func Summarize(expenses []Expense) Summary {
	sums := map[string]int64{}
	var s Summary
	for _, e := range expenses {
		s.Total.Cents += e.Amount.Cents
		sums[string(e.Category)] += e.Amount.Cents
	}
	s.Count = len(expenses)
	for name, cents := range sums {
		s.ByCategory = append(s.ByCategory, CategoryAmount{Name: name, Amount: Money{Cents: cents}})
	}
	slices.SortFunc(s.ByCategory, func(a, b CategoryAmount) int {
		if c := cmp.Compare(b.Amount.Cents, a.Amount.Cents); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return s
}
