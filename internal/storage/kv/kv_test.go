package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expenses/internal/core"
)

func expense(id string) core.Expense {
	return core.Expense{
		ID:            id,
		Description:   "item " + id,
		Amount:        core.Money{Cents: 1000},
		Category:      core.CategoryFood,
		Date:          core.NewDate(2024, 4, 1),
		PaymentMethod: core.PaymentCash,
	}
}

// storeContract runs the same checks against every Store implementation.
func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	_, ok, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(ctx, "k", []byte("v1")))
	require.NoError(t, s.Set(ctx, "k", []byte("v2")))
	v, ok, err := s.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "v2", string(v))

	require.NoError(t, s.Delete(ctx, "k"))
	require.NoError(t, s.Delete(ctx, "k"))
	_, ok, err = s.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	storeContract(t, s)

	require.NoError(t, s.Close())
	_, _, err := s.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemoryStore_CopiesValues(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	buf := []byte("abc")
	require.NoError(t, s.Set(ctx, "k", buf))
	buf[0] = 'X'

	v, _, _ := s.Get(ctx, "k")
	assert.Equal(t, "abc", string(v))
}

func TestNewMemoryStoreFromFile(t *testing.T) {
	dir := t.TempDir()

	empty, err := NewMemoryStoreFromFile(filepath.Join(dir, "none.json"))
	require.NoError(t, err)
	all, err := NewRepository(empty).LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)

	seed := filepath.Join(dir, "seed.json")
	require.NoError(t, os.WriteFile(seed, []byte(`[{"id":"s1","description":"Seeded","amount":3.5,"category":"food","date":"2024-01-01"}]`), 0o644))
	seeded, err := NewMemoryStoreFromFile(seed)
	require.NoError(t, err)
	all, err = NewRepository(seeded).LoadAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(350), all[0].Amount.Cents)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{`), 0o644))
	_, err = NewMemoryStoreFromFile(bad)
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "expenses.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	assert.Equal(t, "sqlite", s.Dialect())
	require.NoError(t, s.Ping(context.Background()))
	storeContract(t, s)
}

func TestSQLiteStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "expenses.db")

	s, err := OpenSQLite(path)
	require.NoError(t, err)
	require.NoError(t, NewRepository(s).Save(ctx, expense("1")))
	require.NoError(t, s.Close())

	s, err = OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	all, err := NewRepository(s).LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "1", all[0].ID)
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	r := NewRepository(NewMemoryStore())
	require.NoError(t, r.Init(ctx))

	require.NoError(t, r.Save(ctx, expense("1")))
	require.NoError(t, r.Save(ctx, expense("2")))

	all, err := r.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "2", all[0].ID, "newest first")

	amount := core.Money{Cents: 42}
	updated, err := r.Update(ctx, "1", core.ExpensePatch{Amount: &amount})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, int64(42), updated.Amount.Cents)

	got, err := r.FindByID(ctx, "1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(42), got.Amount.Cents)

	removed, err := r.DeleteByID(ctx, "2")
	require.NoError(t, err)
	assert.True(t, removed)
	removed, err = r.DeleteByID(ctx, "2")
	require.NoError(t, err)
	assert.False(t, removed)

	require.NoError(t, r.Clear(ctx))
	all, err = r.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestRepository_CorruptBlobReadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Set(ctx, DataKey, []byte("not json")))
	r := NewRepository(store)

	all, err := r.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	require.NoError(t, r.Save(ctx, expense("1")))
	all, _ = r.LoadAll(ctx)
	assert.Len(t, all, 1)
}

func TestRepository_StoreErrorsSurface(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Close())
	r := NewRepository(store)

	_, err := r.LoadAll(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, r.Save(context.Background(), expense("1")), ErrClosed)
}

func TestRepository_Settings(t *testing.T) {
	ctx := context.Background()
	r := NewRepository(NewMemoryStore())

	s, err := r.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, core.DefaultSettings(), s)

	want := core.Settings{Theme: core.ThemeDark, Currency: core.CurrencyEUR, Language: core.LanguageEnglish}
	require.NoError(t, r.SaveSettings(ctx, want))
	s, err = r.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, s)

	require.NoError(t, r.Save(ctx, expense("1")))
	require.NoError(t, r.Clear(ctx))
	s, _ = r.LoadSettings(ctx)
	assert.Equal(t, want, s, "clearing expenses keeps settings")

	v, _, _ := r.Store().Get(ctx, CurrencyKey)
	assert.Equal(t, "EUR", string(v))
}
