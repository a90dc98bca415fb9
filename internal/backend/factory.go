package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"expenses/internal/events"
	"expenses/internal/log"
	"expenses/internal/services"
	"expenses/internal/storage/jsonfile"
	"expenses/internal/storage/kv"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		result *BackendResult
		err    error
	)
	switch config.Type {
	case JSONBackend:
		result = f.createJSONBackend(config)
	case MemoryBackend:
		result, err = f.createMemoryBackend(config)
	case SQLiteBackend:
		result, err = f.createSQLiteBackend(config)
	case PostgresBackend:
		result, err = f.createPostgresBackend(ctx, config)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, err
	}

	opts, closers, err := f.trackerOptions(ctx, config)
	if err != nil {
		result.close()
		return nil, err
	}
	if result.Cleanup != nil {
		closers = append(closers, result.Cleanup)
	}
	result.Cleanup = joinCleanup(closers)
	result.Tracker = services.NewTracker(result.Repository, opts...)

	if err := result.Tracker.Initialize(ctx); err != nil {
		result.close()
		return nil, err
	}
	return result, nil
}

func (f *DefaultFactory) createJSONBackend(config Config) *BackendResult {
	f.logger.Info("Initialized JSON file backend", "path", config.DataPath)
	return &BackendResult{Repository: jsonfile.New(config.DataPath)}
}

func (f *DefaultFactory) createMemoryBackend(config Config) (*BackendResult, error) {
	store, err := kv.NewMemoryStoreFromFile(config.DataPath)
	if err != nil {
		return nil, fmt.Errorf("failed to seed memory backend: %w", err)
	}
	f.logger.Info("Initialized memory backend", "seed", config.DataPath)
	return &BackendResult{
		Repository: kv.NewRepository(store),
		Cleanup:    store.Close,
	}, nil
}

func (f *DefaultFactory) createSQLiteBackend(config Config) (*BackendResult, error) {
	store, err := kv.OpenSQLite(config.SQLiteDBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
	}
	f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
	return &BackendResult{
		Repository: kv.NewRepository(store),
		Ready:      store.Ping,
		Cleanup:    store.Close,
	}, nil
}

func (f *DefaultFactory) createPostgresBackend(ctx context.Context, config Config) (*BackendResult, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	store, err := kv.OpenPostgres(ctx, config.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL store: %w", err)
	}
	f.logger.Info("Initialized PostgreSQL backend")
	return &BackendResult{
		Repository: kv.NewRepository(store),
		Ready:      store.Ping,
		Cleanup:    store.Close,
	}, nil
}

// trackerOptions wires the optional parser and event publisher.
func (f *DefaultFactory) trackerOptions(ctx context.Context, config Config) ([]services.Option, []CleanupFunc, error) {
	var (
		opts    []services.Option
		closers []CleanupFunc
	)

	parser, err := services.NewParser(ctx, config.AI)
	switch {
	case err == nil:
		opts = append(opts, services.WithParser(parser))
		f.logger.Info("Natural-language parsing enabled", log.FieldProvider, config.AI.Provider)
	case errors.Is(err, services.ErrMissingAPIKey) && !config.RequireParser:
		f.logger.Debug("Natural-language parsing disabled, no API key", log.FieldProvider, config.AI.Provider)
	default:
		return nil, nil, err
	}

	if config.AMQPURL != "" {
		client, err := events.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			opts = append(opts, services.WithPublisher(client))
			closers = append(closers, client.Close)
		}
	}
	return opts, closers, nil
}

func (r *BackendResult) close() {
	if r.Cleanup != nil {
		_ = r.Cleanup()
	}
}

// ReadyCheck is Ready, or a no-op when the backend has nothing to probe.
func (r *BackendResult) ReadyCheck(ctx context.Context) error {
	if r.Ready == nil {
		return nil
	}
	return r.Ready(ctx)
}

func joinCleanup(fns []CleanupFunc) CleanupFunc {
	if len(fns) == 0 {
		return nil
	}
	return func() error {
		var errs []error
		for _, fn := range fns {
			if err := fn(); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}
