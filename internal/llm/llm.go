package llm

import (
	"context"
	"errors"
)

// ErrMissingAPIKey is returned when a client is constructed without a
// credential.
var ErrMissingAPIKey = errors.New("llm: missing API key")

// LLM is the interface every generative model client implements.
type LLM interface {
	// Generate produces a completion for the given prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}
