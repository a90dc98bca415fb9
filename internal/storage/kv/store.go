// Package kv keeps the expense list and display settings under fixed keys in
// a small key/value store, the server-side stand-in for browser storage.
package kv

import (
	"context"
	"errors"
)

// Keys used by Repository.
const (
	DataKey     = "expense-tracker-data"
	CurrencyKey = "expense-tracker-currency"
	LanguageKey = "expense-tracker-language"
	ThemeKey    = "expense-tracker-theme"
)

var ErrClosed = errors.New("kv store closed")

// Store is a string-keyed blob store.
type Store interface {
	// Get returns ok=false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}
