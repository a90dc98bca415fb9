package jsonfile

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expenses/internal/core"
)

func newStore(t *testing.T) *Store {
	t.Helper()
	s := New(filepath.Join(t.TempDir(), "nested", "expenses.json"))
	require.NoError(t, s.Init(context.Background()))
	return s
}

func expense(id string, cents int64) core.Expense {
	return core.Expense{
		ID:          id,
		Description: "item " + id,
		Amount:      core.Money{Cents: cents},
		Category:    core.CategoryOther,
		Date:        core.NewDate(2024, 1, 2),
	}
}

func TestInit_CreatesEmptyArray(t *testing.T) {
	s := newStore(t)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	// A second Init must not truncate existing data.
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, expense("1", 100)))
	require.NoError(t, s.Init(ctx))
	all, _ := s.LoadAll(ctx)
	assert.Len(t, all, 1)
}

func TestSaveAppendsAndPersists(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.Save(ctx, expense("1", 100)))
	require.NoError(t, s.Save(ctx, expense("2", 200)))

	reopened := New(s.Path())
	all, err := reopened.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "1", all[0].ID)
	assert.Equal(t, "2", all[1].ID)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  {\n    \"id\": \"1\"")
}

func TestFindDeleteUpdate(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.Save(ctx, expense("1", 100)))
	require.NoError(t, s.Save(ctx, expense("2", 200)))

	got, err := s.FindByID(ctx, "2")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(200), got.Amount.Cents)

	missing, err := s.FindByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	desc := "renamed"
	updated, err := s.Update(ctx, "1", core.ExpensePatch{Description: &desc})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "renamed", updated.Description)
	assert.Equal(t, int64(100), updated.Amount.Cents)

	none, err := s.Update(ctx, "nope", core.ExpensePatch{Description: &desc})
	require.NoError(t, err)
	assert.Nil(t, none)

	removed, err := s.DeleteByID(ctx, "2")
	require.NoError(t, err)
	assert.True(t, removed)

	removed, err = s.DeleteByID(ctx, "2")
	require.NoError(t, err)
	assert.False(t, removed)

	all, _ := s.LoadAll(ctx)
	require.Len(t, all, 1)
	assert.Equal(t, "renamed", all[0].Description)
}

func TestLoadAll_SwallowsBadFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	missing := New(filepath.Join(dir, "missing.json"))
	all, err := missing.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	corruptPath := filepath.Join(dir, "corrupt.json")
	require.NoError(t, os.WriteFile(corruptPath, []byte("{not json"), 0o644))
	corrupt := New(corruptPath)
	all, err = corrupt.LoadAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	// The next write replaces the corrupt content.
	require.NoError(t, corrupt.Save(ctx, expense("1", 100)))
	all, _ = corrupt.LoadAll(ctx)
	assert.Len(t, all, 1)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)
	require.NoError(t, s.Save(ctx, expense("1", 100)))
	require.NoError(t, s.Clear(ctx))
	all, _ := s.LoadAll(ctx)
	assert.Empty(t, all)
}

func TestConcurrentSavesInOneProcess(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			assert.NoError(t, s.Save(ctx, expense(string(rune('a'+i)), int64(i+1))))
		}(i)
	}
	wg.Wait()

	all, _ := s.LoadAll(ctx)
	assert.Len(t, all, 20)
}

func TestDefaultPath(t *testing.T) {
	assert.Equal(t, DefaultPath, New("").Path())
}

func TestWriteKeepsFileMode(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	info, err := os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o644), info.Mode().Perm(), "new data file")

	require.NoError(t, os.Chmod(s.Path(), 0o640))
	require.NoError(t, s.Save(ctx, expense("1", 100)))

	info, err = os.Stat(s.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o640), info.Mode().Perm(), "rewritten data file")
}
