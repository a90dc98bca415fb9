package http

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"expenses/internal/core"
	"expenses/internal/i18n"
	"expenses/internal/query"
)

func TestScaled(t *testing.T) {
	tests := []struct {
		value, peak int64
		want        int
	}{
		{0, 100, 0},
		{50, 0, 0},
		{100, 100, 100},
		{50, 100, 50},
		{1, 1000, 2},
		{333, 1000, 33},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, scaled(tt.value, tt.peak), "scaled(%d, %d)", tt.value, tt.peak)
	}
}

func TestBuildListView(t *testing.T) {
	items := []core.Expense{
		{ID: "1", Description: "Lunch", Amount: core.Money{Cents: 3000}, Category: core.CategoryFood, Date: core.NewDate(2024, 5, 2), PaymentMethod: core.PaymentCash},
		{ID: "2", Description: "Taxi", Amount: core.Money{Cents: 1000}, Category: core.CategoryTransportation, Date: core.NewDate(2024, 6, 1)},
	}
	res := listResult{Items: items, Stats: query.Calculate(items), Total: 5}
	settings := core.Settings{Currency: core.CurrencyUSD, Language: core.LanguageEnglish, Theme: core.ThemeLight}

	v := buildListView(res, query.Filters{Category: "all"}, query.DefaultSort, i18n.For(core.LanguageEnglish), settings)

	assert.True(t, v.HasAny)
	assert.Equal(t, "/export.csv", string(v.ExportURL))
	assert.Equal(t, 2, v.Stats.Count)
	assert.Equal(t, 2, v.Stats.CategoryCount)
	assert.Len(t, v.Items, 2)
	assert.Equal(t, "Food & Dining", v.Items[0].CategoryLabel)
	assert.Equal(t, "Cash", v.Items[0].PaymentMethod)
	assert.Equal(t, "", v.Items[1].PaymentMethod)

	if assert.Len(t, v.CategoryShares, 2) {
		assert.Equal(t, "Food & Dining", v.CategoryShares[0].Label)
		assert.Equal(t, "75.0%", v.CategoryShares[0].Percent)
		assert.Equal(t, 75, v.CategoryShares[0].Width)
		assert.Equal(t, core.CategoryFood.Color(), v.CategoryShares[0].Color)
	}
	if assert.Len(t, v.Trend, 2) {
		assert.Equal(t, 100, v.Trend[0].Height)
		assert.Equal(t, 33, v.Trend[1].Height)
	}
}

func TestListCacheKeyIgnoresSearchCase(t *testing.T) {
	a := listCacheKey(query.Filters{Search: "Coffee"}, query.DefaultSort)
	b := listCacheKey(query.Filters{Search: "coffee"}, query.DefaultSort)
	c := listCacheKey(query.Filters{Search: "coffee"}, query.SortConfig{Field: query.SortByAmount, Order: query.Desc})
	assert.Equal(t, a, b)
	assert.NotEqual(t, b, c)
}
