package backend

import (
	"fmt"

	"expenses/internal/config"
	"expenses/internal/services"
)

// FromAppConfig converts the application config to backend config. fallback
// is used when DATA_BACKEND is unset.
func FromAppConfig(appConfig *config.Config, fallback BackendType) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.Backend(string(fallback)))
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", backendType)
	}

	return Config{
		Type: backendType,

		DataPath:     appConfig.DataPath,
		SQLiteDBPath: appConfig.SQLiteDBPath,
		DatabaseURL:  appConfig.DatabaseURL,

		AMQPURL:      appConfig.AMQPURL,
		AMQPExchange: appConfig.AMQPExchange,
		AMQPQueue:    appConfig.AMQPQueue,

		AI: services.AIConfig{
			Provider: appConfig.AIProvider,
			APIKey:   appConfig.APIKey(),
			Model:    appConfig.AIModel,
			Timeout:  appConfig.AITimeout,
		},
	}, nil
}

// Validate validates the backend configuration
func (c Config) Validate() error {
	if !c.Type.IsValid() {
		return fmt.Errorf("invalid backend type: %s", c.Type)
	}

	switch c.Type {
	case JSONBackend:
		if c.DataPath == "" {
			return fmt.Errorf("data path is required for json backend")
		}
	case SQLiteBackend:
		if c.SQLiteDBPath == "" {
			return fmt.Errorf("SQLite database path is required for sqlite backend")
		}
	case PostgresBackend:
		if c.DatabaseURL == "" {
			return fmt.Errorf("database URL is required for postgres backend")
		}
	case MemoryBackend:
		// DataPath optionally seeds the store
	}

	return nil
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{JSONBackend, MemoryBackend, SQLiteBackend, PostgresBackend}
}

// GetBackendTypeStrings returns all valid backend type strings
func GetBackendTypeStrings() []string {
	types := GetBackendTypes()
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.String()
	}
	return out
}
