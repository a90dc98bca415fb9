package query

import (
	"cmp"
	"maps"
	"slices"

	"github.com/shopspring/decimal"

	"expenses/internal/core"
)

// TrendMonths is how many of the most recent months the trend keeps.
const TrendMonths = 6

type TrendPoint struct {
	Month  string // YYYY-MM
	Label  string // e.g. "Jan 2024"
	Amount core.Money
}

type Stats struct {
	Total           core.Money
	Count           int
	Average         core.Money
	ByCategory      map[core.Category]core.Money
	ByPaymentMethod map[core.PaymentMethod]core.Money
	ByMonth         map[string]core.Money
	Trend           []TrendPoint
}

// Calculate aggregates expenses in one pass. Expenses without a payment
// method are left out of ByPaymentMethod.
func Calculate(expenses []core.Expense) Stats {
	s := Stats{
		ByCategory:      map[core.Category]core.Money{},
		ByPaymentMethod: map[core.PaymentMethod]core.Money{},
		ByMonth:         map[string]core.Money{},
	}
	for _, e := range expenses {
		s.Total = s.Total.Add(e.Amount)
		s.ByCategory[e.Category] = s.ByCategory[e.Category].Add(e.Amount)
		if e.PaymentMethod != "" {
			s.ByPaymentMethod[e.PaymentMethod] = s.ByPaymentMethod[e.PaymentMethod].Add(e.Amount)
		}
		if !e.Date.IsZero() {
			key := e.Date.MonthKey()
			s.ByMonth[key] = s.ByMonth[key].Add(e.Amount)
		}
	}
	s.Count = len(expenses)
	if s.Count > 0 {
		avg := s.Total.Decimal().Div(decimal.NewFromInt(int64(s.Count))).Round(2)
		s.Average = core.Money{Cents: avg.Shift(2).IntPart()}
	}

	months := slices.Sorted(maps.Keys(s.ByMonth))
	if len(months) > TrendMonths {
		months = months[len(months)-TrendMonths:]
	}
	for _, m := range months {
		s.Trend = append(s.Trend, TrendPoint{Month: m, Label: monthLabel(m), Amount: s.ByMonth[m]})
	}
	return s
}

func monthLabel(key string) string {
	d, err := core.ParseDate(key + "-01")
	if err != nil {
		return key
	}
	return d.Format("Jan 2006")
}

// TrendMax is the largest monthly amount in the trend, used to scale bars.
func (s Stats) TrendMax() core.Money {
	var m core.Money
	for _, p := range s.Trend {
		if p.Amount.Cents > m.Cents {
			m = p.Amount
		}
	}
	return m
}

// Share is one slice of a breakdown.
type Share struct {
	Key     string
	Amount  core.Money
	Percent float64
}

// Breakdown turns per-key sums into shares of their total, largest first
// with ties ordered by key.
func Breakdown[K ~string](sums map[K]core.Money) []Share {
	var total int64
	for _, m := range sums {
		total += m.Cents
	}
	shares := make([]Share, 0, len(sums))
	for k, m := range sums {
		var pct float64
		if total > 0 {
			pct = decimal.NewFromInt(m.Cents).Mul(decimal.NewFromInt(100)).
				Div(decimal.NewFromInt(total)).Round(1).InexactFloat64()
		}
		shares = append(shares, Share{Key: string(k), Amount: m, Percent: pct})
	}
	slices.SortFunc(shares, func(a, b Share) int {
		if c := cmp.Compare(b.Amount.Cents, a.Amount.Cents); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return shares
}
