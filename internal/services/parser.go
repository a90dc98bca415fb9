package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"expenses/internal/ai"
)

var ErrMissingAPIKey = errors.New("API key is required")

// AIConfig selects and configures the model provider.
type AIConfig struct {
	Provider string
	APIKey   string
	Model    string
	Timeout  time.Duration
	BaseURL  string
}

// NewParser builds a parser for the configured provider. A missing key is
// ErrMissingAPIKey.
func NewParser(ctx context.Context, cfg AIConfig) (*ai.Parser, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w for provider %s", ErrMissingAPIKey, cfg.Provider)
	}

	var completer ai.Completer
	switch cfg.Provider {
	case ai.ProviderAnthropic, "":
		completer = ai.NewAnthropicClient(ai.AnthropicConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: cfg.Timeout,
		})
	case ai.ProviderGemini:
		c, err := ai.NewGeminiClient(ctx, ai.GeminiConfig{
			APIKey:  cfg.APIKey,
			Model:   cfg.Model,
			BaseURL: cfg.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		completer = c
	default:
		return nil, fmt.Errorf("unsupported AI provider %q", cfg.Provider)
	}
	return ai.NewParser(completer), nil
}
