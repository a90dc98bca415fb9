package kv

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"expenses/internal/core"
	"expenses/internal/storage"
)

// Repository stores the whole expense array as one JSON blob under DataKey.
// New expenses go to the front of the array.
type Repository struct {
	store Store
	mu    sync.Mutex
}

var (
	_ storage.Repository    = (*Repository)(nil)
	_ storage.SettingsStore = (*Repository)(nil)
)

func NewRepository(store Store) *Repository {
	return &Repository{store: store}
}

// Store exposes the underlying key/value store.
func (r *Repository) Store() Store {
	return r.store
}

// Init is a no-op; an absent key reads as an empty list.
func (r *Repository) Init(context.Context) error {
	return nil
}

func (r *Repository) Save(ctx context.Context, e core.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return err
	}
	list = append([]core.Expense{e}, list...)
	return r.write(ctx, list)
}

// LoadAll treats an undecodable blob as empty and logs it. Store errors are returned.
func (r *Repository) LoadAll(ctx context.Context) ([]core.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load(ctx)
}

func (r *Repository) FindByID(ctx context.Context, id string) (*core.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return storage.Find(list, id), nil
}

func (r *Repository) DeleteByID(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return false, err
	}
	list, removed := storage.Remove(list, id)
	if !removed {
		return false, nil
	}
	if err := r.write(ctx, list); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Repository) Update(ctx context.Context, id string, patch core.ExpensePatch) (*core.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	list, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	list, updated := storage.Patch(list, id, patch)
	if updated == nil {
		return nil, nil
	}
	if err := r.write(ctx, list); err != nil {
		return nil, err
	}
	return updated, nil
}

// Clear removes the data key; settings are kept.
func (r *Repository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.store.Delete(ctx, DataKey); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}
	return nil
}

func (r *Repository) LoadSettings(ctx context.Context) (core.Settings, error) {
	s := core.DefaultSettings()
	for key, dst := range map[string]*string{
		CurrencyKey: &s.Currency,
		LanguageKey: (*string)(&s.Language),
		ThemeKey:    (*string)(&s.Theme),
	} {
		v, ok, err := r.store.Get(ctx, key)
		if err != nil {
			return core.DefaultSettings(), fmt.Errorf("load settings: %w", err)
		}
		if ok {
			*dst = string(v)
		}
	}
	return s.Normalize(), nil
}

func (r *Repository) SaveSettings(ctx context.Context, s core.Settings) error {
	s = s.Normalize()
	for key, v := range map[string]string{
		CurrencyKey: s.Currency,
		LanguageKey: string(s.Language),
		ThemeKey:    string(s.Theme),
	} {
		if err := r.store.Set(ctx, key, []byte(v)); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
	}
	return nil
}

func (r *Repository) load(ctx context.Context) ([]core.Expense, error) {
	raw, ok, err := r.store.Get(ctx, DataKey)
	if err != nil {
		return nil, fmt.Errorf("load expenses: %w", err)
	}
	if !ok || len(raw) == 0 {
		return []core.Expense{}, nil
	}
	var list []core.Expense
	if err := json.Unmarshal(raw, &list); err != nil {
		slog.WarnContext(ctx, "Stored expenses are unreadable, treating as empty", "key", DataKey, "error", err)
		return []core.Expense{}, nil
	}
	if list == nil {
		list = []core.Expense{}
	}
	return list, nil
}

func (r *Repository) write(ctx context.Context, list []core.Expense) error {
	raw, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encode expenses: %w", err)
	}
	if err := r.store.Set(ctx, DataKey, raw); err != nil {
		return fmt.Errorf("save expenses: %w", err)
	}
	return nil
}
