// Package llm talks to hosted text-completion services and turns their
// free-text answers into structured candidates.
package llm

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrEmptyResponse is returned when a provider answers without any text.
	ErrEmptyResponse = errors.New("llm: empty response")
	// ErrNoResult is returned when no JSON object can be recovered from a completion.
	ErrNoResult = errors.New("llm: no structured result")
)

// Client is a single-prompt text completion provider.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config selects and tunes a provider.
type Config struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	Timeout     time.Duration
}
