// Package ai turns free text into expenses and spending data into advice by
// prompting a hosted language model and pulling a JSON object out of its reply.
package ai

import (
	"context"
	"errors"
)

// Providers selectable through configuration.
const (
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
)

var (
	// ErrNoJSON means the model reply contained no brace-delimited object.
	ErrNoJSON = errors.New("failed to parse AI response")
	// ErrUnexpectedResponse means the reply carried no text content.
	ErrUnexpectedResponse = errors.New("unexpected response type from AI")
)

// Completer sends one user prompt and returns the model's text reply.
type Completer interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
	// Model names the model answering, for logs.
	Model() string
}
