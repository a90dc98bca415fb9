// Package storage defines the persistence port shared by the JSON file
// repository and the key/value repository.
package storage

import (
	"context"
	"errors"
	"slices"

	"expenses/internal/core"
)

var ErrNotFound = errors.New("expense not found")

type (
	// Repository persists the whole expense list with read-modify-write cycles.
	Repository interface {
		// Init prepares the backing store; it is safe to call repeatedly.
		Init(ctx context.Context) error
		Save(ctx context.Context, e core.Expense) error
		LoadAll(ctx context.Context) ([]core.Expense, error)
		// FindByID returns nil when no expense has the id.
		FindByID(ctx context.Context, id string) (*core.Expense, error)
		// DeleteByID reports whether an expense was removed.
		DeleteByID(ctx context.Context, id string) (bool, error)
		// Update returns the merged expense, or nil when the id is unknown.
		Update(ctx context.Context, id string, patch core.ExpensePatch) (*core.Expense, error)
		Clear(ctx context.Context) error
	}

	// SettingsStore keeps display preferences next to the data.
	SettingsStore interface {
		LoadSettings(ctx context.Context) (core.Settings, error)
		SaveSettings(ctx context.Context, s core.Settings) error
	}
)

// Find returns a copy of the expense with the given id.
func Find(list []core.Expense, id string) *core.Expense {
	i := slices.IndexFunc(list, func(e core.Expense) bool { return e.ID == id })
	if i < 0 {
		return nil
	}
	e := list[i]
	return &e
}

// Remove drops every expense with the given id.
func Remove(list []core.Expense, id string) ([]core.Expense, bool) {
	out := slices.DeleteFunc(slices.Clone(list), func(e core.Expense) bool { return e.ID == id })
	return out, len(out) != len(list)
}

// Patch merges p into the first expense with the given id.
func Patch(list []core.Expense, id string, p core.ExpensePatch) ([]core.Expense, *core.Expense) {
	i := slices.IndexFunc(list, func(e core.Expense) bool { return e.ID == id })
	if i < 0 {
		return list, nil
	}
	out := slices.Clone(list)
	out[i] = out[i].Apply(p)
	updated := out[i]
	return out, &updated
}
