package ai

import (
	"context"
	"errors"
	"fmt"
)

// Request describes a single completion request to a provider.
type Request struct {
	// System is the system instruction for the conversation.
	System string
	// Prompt is the user message content.
	Prompt string
	// MaxTokens caps the response length. Zero leaves the provider default.
	MaxTokens int32
	// Temperature controls sampling randomness. Zero leaves the provider default.
	Temperature float32
}

// Generator produces a free-text completion for a request.
type Generator interface {
	Complete(ctx context.Context, req Request) (string, error)
	Model() string
}

// APIError is a provider error carrying a status code. Errors of this kind are
// considered transient and safe to retry; any other provider error is not.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider error (status %d): %s", e.StatusCode, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("provider error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider error (status %d)", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsAPIError reports whether err wraps a provider APIError.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
