// Package services composes storage, parsing and event publishing into the
// operations the CLI and web server expose.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"expenses/internal/ai"
	"expenses/internal/core"
	"expenses/internal/events"
	"expenses/internal/storage"
)

var (
	ErrParserUnavailable = errors.New("natural-language parsing is not configured")
	ErrInvalidInput      = errors.New("invalid expense input")
)

// ExpenseParser turns free text into expense fields and spending data into advice.
type ExpenseParser interface {
	ParseExpense(ctx context.Context, text string) (ai.ParseResult, error)
	AnalyzeSpending(ctx context.Context, points []ai.SpendingPoint) (ai.Analysis, error)
}

// Tracker orchestrates expense operations over a Repository, with optional
// parsing and event publishing.
type Tracker struct {
	repo      storage.Repository
	parser    ExpenseParser
	publisher events.Publisher
	now       func() time.Time
	newID     func() string

	// settings used when repo cannot persist them
	mu       sync.Mutex
	settings core.Settings
}

type Option func(*Tracker)

func WithParser(p ExpenseParser) Option {
	return func(t *Tracker) { t.parser = p }
}

func WithPublisher(p events.Publisher) Option {
	return func(t *Tracker) { t.publisher = p }
}

func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

func WithIDGenerator(f func() string) Option {
	return func(t *Tracker) { t.newID = f }
}

func NewTracker(repo storage.Repository, opts ...Option) *Tracker {
	t := &Tracker{
		repo:     repo,
		now:      time.Now,
		newID:    uuid.NewString,
		settings: core.DefaultSettings(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// CanParse reports whether natural-language operations are available.
func (t *Tracker) CanParse() bool {
	return t.parser != nil
}

func (t *Tracker) Initialize(ctx context.Context) error {
	if err := t.repo.Init(ctx); err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	return nil
}

// AddFromText parses text with the model and saves the result as returned.
// The reported confidence is stored but not checked.
func (t *Tracker) AddFromText(ctx context.Context, text string) (core.Expense, error) {
	if t.parser == nil {
		return core.Expense{}, ErrParserUnavailable
	}
	r, err := t.parser.ParseExpense(ctx, text)
	if err != nil {
		return core.Expense{}, fmt.Errorf("parse expense: %w", err)
	}

	e := core.Expense{
		Description: r.Description,
		Amount:      r.Amount,
		Category:    r.Category,
		Date:        r.Date,
		Tags:        r.Tags,
		Metadata: &core.Metadata{
			Merchant:      r.Merchant,
			PaymentMethod: r.PaymentMethod,
			Confidence:    r.Confidence,
			Source:        core.SourceText,
		},
	}
	if pm, ok := core.ParsePaymentMethod(r.PaymentMethod); ok {
		e.PaymentMethod = pm
	}
	return t.Create(ctx, e)
}

// Add validates field input and saves it. An empty date means today.
func (t *Tracker) Add(ctx context.Context, in core.ExpenseInput) (core.Expense, error) {
	if err := core.ValidateInput(in); err != nil {
		return core.Expense{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	date := core.DateOf(t.now())
	if s := strings.TrimSpace(in.Date); s != "" {
		d, err := core.ParseDate(s)
		if err != nil {
			return core.Expense{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		date = d
	}

	e := core.Expense{
		Description: strings.TrimSpace(in.Description),
		Amount:      in.Amount,
		Category:    core.NormalizeCategory(in.Category),
		Date:        date,
		Tags:        in.Tags,
		Metadata:    &core.Metadata{Source: core.SourceManual},
	}
	if in.PaymentMethod != "" {
		pm, ok := core.ParsePaymentMethod(in.PaymentMethod)
		if !ok {
			slog.WarnContext(ctx, "Ignoring unknown payment method", "payment_method", in.PaymentMethod)
		}
		e.PaymentMethod = pm
	}
	return t.Create(ctx, e)
}

// Create assigns an ID and creation time when missing, saves e and
// announces it.
func (t *Tracker) Create(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.ID == "" {
		e.ID = t.newID()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = t.now().UTC()
	}
	if err := t.repo.Save(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense created",
		"expense_id", e.ID,
		"amount_cents", e.Amount.Cents,
		"category", e.Category)
	t.publish(ctx, events.Created(e))
	return e, nil
}

// Import saves every expense in order and returns how many were stored.
func (t *Tracker) Import(ctx context.Context, list []core.Expense) (int, error) {
	for i, e := range list {
		if _, err := t.Create(ctx, e); err != nil {
			return i, err
		}
	}
	return len(list), nil
}

func (t *Tracker) List(ctx context.Context) ([]core.Expense, error) {
	list, err := t.repo.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	return list, nil
}

// Get returns nil when no expense has the id.
func (t *Tracker) Get(ctx context.Context, id string) (*core.Expense, error) {
	e, err := t.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get expense %s: %w", id, err)
	}
	return e, nil
}

// Update applies patch and returns the merged expense, or nil when the id is unknown.
func (t *Tracker) Update(ctx context.Context, id string, patch core.ExpensePatch) (*core.Expense, error) {
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, core.MsgDescriptionRequired)
	}
	if patch.Amount != nil && patch.Amount.Cents <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, core.MsgAmountPositive)
	}

	e, err := t.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("update expense %s: %w", id, err)
	}
	if e != nil {
		slog.InfoContext(ctx, "Expense updated", "expense_id", id)
		t.publish(ctx, events.Updated(*e))
	}
	return e, nil
}

// Delete reports whether an expense was removed.
func (t *Tracker) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := t.repo.DeleteByID(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete expense %s: %w", id, err)
	}
	if ok {
		slog.InfoContext(ctx, "Expense deleted", "expense_id", id)
		t.publish(ctx, events.Deleted(id))
	}
	return ok, nil
}

// Clear removes every expense and announces each deletion.
func (t *Tracker) Clear(ctx context.Context) error {
	list, err := t.repo.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}
	if err := t.repo.Clear(ctx); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}
	slog.InfoContext(ctx, "Expenses cleared", "count", len(list))
	for _, e := range list {
		t.publish(ctx, events.Deleted(e.ID))
	}
	return nil
}

// Analyze sends category, amount and date of every expense to the model.
func (t *Tracker) Analyze(ctx context.Context) (ai.Analysis, error) {
	if t.parser == nil {
		return ai.Analysis{}, ErrParserUnavailable
	}
	list, err := t.List(ctx)
	if err != nil {
		return ai.Analysis{}, err
	}
	points := make([]ai.SpendingPoint, len(list))
	for i, e := range list {
		points[i] = ai.SpendingPoint{Category: string(e.Category), Amount: e.Amount, Date: e.Date}
	}
	a, err := t.parser.AnalyzeSpending(ctx, points)
	if err != nil {
		return ai.Analysis{}, fmt.Errorf("analyze spending: %w", err)
	}
	return a, nil
}

func (t *Tracker) Summary(ctx context.Context) (core.Summary, error) {
	list, err := t.List(ctx)
	if err != nil {
		return core.Summary{}, err
	}
	return core.Summarize(list), nil
}

// Settings loads display preferences, falling back to the in-process copy
// when the repository does not store them.
func (t *Tracker) Settings(ctx context.Context) (core.Settings, error) {
	if s, ok := t.repo.(storage.SettingsStore); ok {
		return s.LoadSettings(ctx)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settings, nil
}

func (t *Tracker) SaveSettings(ctx context.Context, s core.Settings) (core.Settings, error) {
	s = s.Normalize()
	if store, ok := t.repo.(storage.SettingsStore); ok {
		if err := store.SaveSettings(ctx, s); err != nil {
			return core.Settings{}, err
		}
		return s, nil
	}
	t.mu.Lock()
	t.settings = s
	t.mu.Unlock()
	return s, nil
}

// publish never fails the caller; the expense is already stored.
func (t *Tracker) publish(ctx context.Context, ev *events.Event) {
	if t.publisher == nil {
		return
	}
	if err := t.publisher.Publish(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"type", ev.Type,
			"expense_id", ev.ExpenseID,
			"error", err)
	}
}
