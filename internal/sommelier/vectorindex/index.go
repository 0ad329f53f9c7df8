package vectorindex

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/philippweder/wine-shop/internal/sommelier/schema"
)

var (
	// ErrNotFound is returned by Load when no index artifact exists at the
	// given path. Callers should treat it as "run indexing first".
	ErrNotFound = errors.New("vector index not found")

	// ErrCorrupt is returned by Load when an artifact exists but cannot be
	// read back into a consistent index.
	ErrCorrupt = errors.New("vector index corrupt")

	// ErrIncompatible is returned when an index was produced under a
	// different embedding model or dimensionality than the one in use.
	ErrIncompatible = errors.New("vector index incompatible with embedding model")
)

// Index is an in-memory vector index over sommelier documents. Similarity is
// cosine; search is exhaustive, which is adequate for a catalog-sized corpus.
// An Index is immutable after Build or Load and safe for concurrent searches.
type Index struct {
	model     string
	dimension int
	vectors   [][]float32
	documents []*schema.Document
}

// Build constructs a fresh index from parallel slices of documents and their
// embedding vectors. The model identifier is recorded so a later Load can
// verify it is being read under the same embedding configuration.
func Build(documents []*schema.Document, vectors [][]float32, model string) (*Index, error) {
	if len(documents) == 0 {
		return nil, fmt.Errorf("cannot build index from zero documents")
	}
	if len(documents) != len(vectors) {
		return nil, fmt.Errorf("documents and vectors length mismatch: %d vs %d", len(documents), len(vectors))
	}

	dimension := len(vectors[0])
	if dimension == 0 {
		return nil, fmt.Errorf("embedding vectors are empty")
	}
	for i, v := range vectors {
		if len(v) != dimension {
			return nil, fmt.Errorf("vector %d has dimension %d, expected %d", i, len(v), dimension)
		}
	}

	return &Index{
		model:     model,
		dimension: dimension,
		vectors:   vectors,
		documents: documents,
	}, nil
}

// Model returns the embedding model identifier the index was built with.
func (x *Index) Model() string { return x.model }

// Dimension returns the embedding dimensionality of the index.
func (x *Index) Dimension() int { return x.dimension }

// Len returns the number of indexed documents.
func (x *Index) Len() int { return len(x.documents) }

// Search returns the k documents whose vectors are nearest to the query
// vector under cosine similarity, most similar first. Ties are broken by
// insertion order. If the index holds fewer than k documents, all of them are
// returned.
func (x *Index) Search(query []float32, k int) ([]*schema.Document, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", k)
	}
	if len(query) != x.dimension {
		return nil, fmt.Errorf("%w: query vector has dimension %d, index has %d",
			ErrIncompatible, len(query), x.dimension)
	}

	scores := make([]float32, len(x.vectors))
	order := make([]int, len(x.vectors))
	for i, v := range x.vectors {
		scores[i] = cosineSimilarity(query, v)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	if k > len(order) {
		k = len(order)
	}
	results := make([]*schema.Document, k)
	for i := 0; i < k; i++ {
		results[i] = x.documents[order[i]]
	}
	return results, nil
}

// cosineSimilarity computes the cosine similarity between two vectors of the
// same length. Zero vectors score 0.
func cosineSimilarity(a, b []float32) float32 {
	var dot, normA, normB float32
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
