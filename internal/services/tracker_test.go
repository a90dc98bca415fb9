package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expenses/internal/ai"
	"expenses/internal/core"
	"expenses/internal/events"
	"expenses/internal/storage/jsonfile"
	"expenses/internal/storage/kv"
)

type fakeParser struct {
	result ai.ParseResult
	err    error
	points []ai.SpendingPoint
}

func (p *fakeParser) ParseExpense(context.Context, string) (ai.ParseResult, error) {
	return p.result, p.err
}

func (p *fakeParser) AnalyzeSpending(_ context.Context, points []ai.SpendingPoint) (ai.Analysis, error) {
	p.points = points
	if p.err != nil {
		return ai.Analysis{}, p.err
	}
	return ai.Analysis{Summary: "fine", Insights: []string{"food dominates"}}, nil
}

type recordingPublisher struct {
	events []*events.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, ev *events.Event) error {
	p.events = append(p.events, ev)
	return p.err
}

var fixedNow = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newJSONTracker(t *testing.T, opts ...Option) *Tracker {
	t.Helper()
	store := jsonfile.New(filepath.Join(t.TempDir(), "expenses.json"))
	opts = append([]Option{WithClock(func() time.Time { return fixedNow }), WithIDGenerator(sequentialIDs())}, opts...)
	tr := NewTracker(store, opts...)
	require.NoError(t, tr.Initialize(context.Background()))
	return tr
}

func TestTracker_Add(t *testing.T) {
	pub := &recordingPublisher{}
	tr := newJSONTracker(t, WithPublisher(pub))
	ctx := context.Background()

	e, err := tr.Add(ctx, core.ExpenseInput{
		Description:   "  Groceries ",
		Amount:        core.Money{Cents: 4599},
		Category:      "Food & Dining",
		PaymentMethod: "credit card",
		Tags:          []string{"weekly"},
	})
	require.NoError(t, err)

	assert.Equal(t, "id-1", e.ID)
	assert.Equal(t, "Groceries", e.Description)
	assert.Equal(t, core.CategoryFood, e.Category)
	assert.Equal(t, core.PaymentCreditCard, e.PaymentMethod)
	assert.Equal(t, "2024-06-15", e.Date.String(), "empty date defaults to today")
	assert.Equal(t, fixedNow, e.CreatedAt)
	assert.Equal(t, core.SourceManual, e.Metadata.Source)

	got, err := tr.Get(ctx, "id-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, e.Amount, got.Amount)

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.TypeCreated, pub.events[0].Type)
}

func TestTracker_AddInvalid(t *testing.T) {
	tr := newJSONTracker(t)

	_, err := tr.Add(context.Background(), core.ExpenseInput{Description: " ", Amount: core.Money{Cents: 0}})
	require.ErrorIs(t, err, ErrInvalidInput)

	var inputErrs core.InputErrors
	require.ErrorAs(t, err, &inputErrs)
	assert.Equal(t, core.InputErrors{core.MsgDescriptionRequired, core.MsgAmountPositive}, inputErrs)
	assert.EqualError(t, err, "invalid expense input: Description is required, Amount must be a positive number")

	list, err := tr.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestTracker_AddFromText(t *testing.T) {
	parser := &fakeParser{result: ai.ParseResult{
		Description:   "Coffee at Starbucks",
		Amount:        core.Money{Cents: 550},
		Category:      core.CategoryFood,
		Date:          core.NewDate(2024, 6, 14),
		Tags:          []string{"coffee"},
		Merchant:      "Starbucks",
		PaymentMethod: "cash",
		Confidence:    0.92,
	}}
	tr := newJSONTracker(t, WithParser(parser))

	e, err := tr.AddFromText(context.Background(), "coffee 5.50 yesterday")
	require.NoError(t, err)

	assert.Equal(t, "Coffee at Starbucks", e.Description)
	assert.Equal(t, core.PaymentCash, e.PaymentMethod)
	require.NotNil(t, e.Metadata)
	assert.Equal(t, 0.92, e.Metadata.Confidence)
	assert.Equal(t, "Starbucks", e.Metadata.Merchant)
	assert.Equal(t, core.SourceText, e.Metadata.Source)
}

func TestTracker_ParserErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("no parser", func(t *testing.T) {
		tr := newJSONTracker(t)
		assert.False(t, tr.CanParse())

		_, err := tr.AddFromText(ctx, "lunch 12")
		assert.ErrorIs(t, err, ErrParserUnavailable)
		_, err = tr.Analyze(ctx)
		assert.ErrorIs(t, err, ErrParserUnavailable)
	})

	t.Run("parser failure", func(t *testing.T) {
		tr := newJSONTracker(t, WithParser(&fakeParser{err: ai.ErrNoJSON}))

		_, err := tr.AddFromText(ctx, "lunch 12")
		assert.ErrorIs(t, err, ai.ErrNoJSON)

		list, err := tr.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, list)
	})
}

func TestTracker_Analyze(t *testing.T) {
	parser := &fakeParser{}
	tr := newJSONTracker(t, WithParser(parser))
	ctx := context.Background()

	_, err := tr.Add(ctx, core.ExpenseInput{Description: "Lunch", Amount: core.Money{Cents: 1200}, Category: "food", Date: "2024-06-01"})
	require.NoError(t, err)
	_, err = tr.Add(ctx, core.ExpenseInput{Description: "Bus", Amount: core.Money{Cents: 250}, Category: "transportation", Date: "2024-06-02"})
	require.NoError(t, err)

	a, err := tr.Analyze(ctx)
	require.NoError(t, err)
	assert.Equal(t, "fine", a.Summary)

	require.Len(t, parser.points, 2)
	assert.Equal(t, ai.SpendingPoint{Category: "food", Amount: core.Money{Cents: 1200}, Date: core.NewDate(2024, 6, 1)}, parser.points[0])
}

func TestTracker_UpdateDeleteSummary(t *testing.T) {
	pub := &recordingPublisher{}
	tr := newJSONTracker(t, WithPublisher(pub))
	ctx := context.Background()

	for _, in := range []core.ExpenseInput{
		{Description: "Lunch", Amount: core.Money{Cents: 1000}, Category: "food"},
		{Description: "Dinner", Amount: core.Money{Cents: 3000}, Category: "food"},
		{Description: "Taxi", Amount: core.Money{Cents: 1500}, Category: "transportation"},
	} {
		_, err := tr.Add(ctx, in)
		require.NoError(t, err)
	}

	desc := "Late lunch"
	updated, err := tr.Update(ctx, "id-1", core.ExpensePatch{Description: &desc})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "Late lunch", updated.Description)

	missing, err := tr.Update(ctx, "nope", core.ExpensePatch{Description: &desc})
	require.NoError(t, err)
	assert.Nil(t, missing)

	blank := " "
	_, err = tr.Update(ctx, "id-1", core.ExpensePatch{Description: &blank})
	assert.ErrorIs(t, err, ErrInvalidInput)

	ok, err := tr.Delete(ctx, "id-3")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = tr.Delete(ctx, "id-3")
	require.NoError(t, err)
	assert.False(t, ok)

	s, err := tr.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4000), s.Total.Cents)
	assert.Equal(t, 2, s.Count)
	require.Len(t, s.ByCategory, 1)
	assert.Equal(t, "food", s.ByCategory[0].Name)

	var types []events.Type
	for _, ev := range pub.events {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []events.Type{events.TypeCreated, events.TypeCreated, events.TypeCreated, events.TypeUpdated, events.TypeDeleted}, types)
}

func TestTracker_PublishFailureDoesNotFail(t *testing.T) {
	tr := newJSONTracker(t, WithPublisher(&recordingPublisher{err: errors.New("broker down")}))

	e, err := tr.Add(context.Background(), core.ExpenseInput{Description: "Lunch", Amount: core.Money{Cents: 100}})
	require.NoError(t, err)

	got, err := tr.Get(context.Background(), e.ID)
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestTracker_ImportAndClear(t *testing.T) {
	pub := &recordingPublisher{}
	tr := NewTracker(kv.NewRepository(kv.NewMemoryStore()), WithPublisher(pub), WithIDGenerator(sequentialIDs()))
	ctx := context.Background()

	n, err := tr.Import(ctx, []core.Expense{
		{Description: "A", Amount: core.Money{Cents: 100}, Date: core.NewDate(2024, 1, 1)},
		{ID: "keep", Description: "B", Amount: core.Money{Cents: 200}, Date: core.NewDate(2024, 1, 2)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	list, err := tr.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "keep", list[0].ID, "kv repository keeps newest first")
	assert.Equal(t, "id-1", list[1].ID)

	require.NoError(t, tr.Clear(ctx))
	list, err = tr.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Len(t, pub.events, 4)
}

func TestTracker_Settings(t *testing.T) {
	ctx := context.Background()

	t.Run("persisted by kv repository", func(t *testing.T) {
		store := kv.NewMemoryStore()
		tr := NewTracker(kv.NewRepository(store))

		s, err := tr.SaveSettings(ctx, core.Settings{Theme: core.ThemeDark, Currency: "EUR", Language: core.LanguageEnglish})
		require.NoError(t, err)
		assert.Equal(t, "EUR", s.Currency)

		again, err := NewTracker(kv.NewRepository(store)).Settings(ctx)
		require.NoError(t, err)
		assert.Equal(t, s, again)
	})

	t.Run("kept in process for json store", func(t *testing.T) {
		tr := newJSONTracker(t)
		s, err := tr.Settings(ctx)
		require.NoError(t, err)
		assert.Equal(t, core.DefaultSettings(), s)

		_, err = tr.SaveSettings(ctx, core.Settings{Theme: "neon", Currency: "GBP", Language: core.LanguageEnglish})
		require.NoError(t, err)
		s, err = tr.Settings(ctx)
		require.NoError(t, err)
		assert.Equal(t, core.Settings{Theme: core.ThemeLight, Currency: "GBP", Language: core.LanguageEnglish}, s)
	})
}

func TestNewParser(t *testing.T) {
	ctx := context.Background()

	_, err := NewParser(ctx, AIConfig{Provider: ai.ProviderAnthropic})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewParser(ctx, AIConfig{Provider: "openai", APIKey: "k"})
	assert.ErrorContains(t, err, "unsupported AI provider")

	p, err := NewParser(ctx, AIConfig{Provider: ai.ProviderAnthropic, APIKey: "k"})
	require.NoError(t, err)
	assert.NotNil(t, p)
}
