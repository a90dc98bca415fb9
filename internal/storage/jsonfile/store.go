// Package jsonfile stores expenses as one pretty-printed JSON array on disk.
package jsonfile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"expenses/internal/core"
	"expenses/internal/storage"
)

// DefaultPath is used when no data file is configured.
const DefaultPath = "./data/expenses.json"

// Store is safe for concurrent use within one process. Separate processes
// writing the same file can still lose each other's updates.
type Store struct {
	path string
	mu   sync.Mutex
}

var _ storage.Repository = (*Store)(nil)

func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Path returns the data file location.
func (s *Store) Path() string {
	return s.path
}

// Init creates the data directory and an empty array file when missing.
func (s *Store) Init(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat data file: %w", err)
	}
	slog.InfoContext(ctx, "Creating data file", "file", s.path)
	return s.write([]core.Expense{})
}

// Save appends e to the end of the array.
func (s *Store) Save(ctx context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.load(ctx)
	list = append(list, e)
	return s.write(list)
}

// LoadAll never fails: a missing, unreadable or corrupt file reads as empty.
func (s *Store) LoadAll(ctx context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx), nil
}

func (s *Store) FindByID(ctx context.Context, id string) (*core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return storage.Find(s.load(ctx), id), nil
}

func (s *Store) DeleteByID(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, removed := storage.Remove(s.load(ctx), id)
	if !removed {
		return false, nil
	}
	if err := s.write(list); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) Update(ctx context.Context, id string, patch core.ExpensePatch) (*core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, updated := storage.Patch(s.load(ctx), id, patch)
	if updated == nil {
		return nil, nil
	}
	if err := s.write(list); err != nil {
		return nil, err
	}
	return updated, nil
}

// Clear rewrites the file as an empty array.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write([]core.Expense{})
}

func (s *Store) load(ctx context.Context) []core.Expense {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.WarnContext(ctx, "Failed to read data file, treating as empty", "file", s.path, "error", err)
		}
		return []core.Expense{}
	}
	var list []core.Expense
	if err := json.Unmarshal(data, &list); err != nil {
		slog.WarnContext(ctx, "Failed to decode data file, treating as empty", "file", s.path, "error", err)
		return []core.Expense{}
	}
	if list == nil {
		list = []core.Expense{}
	}
	return list
}

// fileMode keeps the permissions of an existing data file, 0644 otherwise.
func (s *Store) fileMode() fs.FileMode {
	if info, err := os.Stat(s.path); err == nil {
		return info.Mode().Perm()
	}
	return 0o644
}

// write replaces the file through a temp file and rename.
func (s *Store) write(list []core.Expense) error {
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("encode expenses: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(s.fileMode()); err != nil {
		tmp.Close()
		return fmt.Errorf("set data file mode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}
