package embedding

import (
	"context"
	"errors"
)

// ErrMissingAPIKey is returned when an embedding client is constructed without
// a credential.
var ErrMissingAPIKey = errors.New("embedding: missing API key")

// Embedding is the interface every embedding model client implements.
//
// The same client (and therefore the same model identifier) must be used for
// indexing and for query-time embedding: vectors produced by different models
// are not comparable, and an index queried with a mismatched model returns
// meaningless neighbors. The vector index records the model identifier at
// build time and refuses to load under a different one.
type Embedding interface {
	// Embed produces the embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch produces embedding vectors for a batch of texts, in order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Model returns the model identifier the client embeds with.
	Model() string
}
