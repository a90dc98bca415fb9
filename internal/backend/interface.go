package backend

import (
	"context"
	"time"

	"expenses/internal/services"
	"expenses/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// ReadyFunc reports whether the backing store can serve requests.
type ReadyFunc func(ctx context.Context) error

// BackendResult contains the tracker built over the backend and the hooks
// to probe and release it.
type BackendResult struct {
	Tracker    *services.Tracker
	Repository storage.Repository
	Ready      ReadyFunc
	Cleanup    CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	// json and memory
	DataPath string

	// sqlite
	SQLiteDBPath string

	// postgres
	DatabaseURL string

	// AMQP publishing is enabled when AMQPURL is set
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	AI services.AIConfig
	// RequireParser turns a missing API key into an error instead of
	// running without natural-language parsing.
	RequireParser bool
}

// BackendType represents the type of backend
type BackendType string

const (
	JSONBackend     BackendType = "json"
	MemoryBackend   BackendType = "memory"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

const connectTimeout = 10 * time.Second

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case JSONBackend, MemoryBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}
