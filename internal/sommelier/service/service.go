package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/philippweder/wine-shop/internal/embedding"
	"github.com/philippweder/wine-shop/internal/llm"
	"github.com/philippweder/wine-shop/internal/sommelier/pipeline"
	"github.com/philippweder/wine-shop/internal/sommelier/schema"
	"github.com/philippweder/wine-shop/internal/sommelier/vectorindex"
	"github.com/philippweder/wine-shop/pkg/logger"
)

var (
	// ErrEmptyQuestion is returned when a query is blank. It is a validation
	// error, not a service failure.
	ErrEmptyQuestion = errors.New("question must not be empty")

	// ErrIndexMissing is returned when no persisted vector index exists yet.
	// The operator has to run the indexer before queries can be served.
	ErrIndexMissing = errors.New("sommelier unavailable: vector index missing, run indexing")

	// ErrNotConfigured is returned when the generative model credential is
	// missing or invalid. Queries can be retried once the configuration is
	// fixed, without re-running indexing.
	ErrNotConfigured = errors.New("sommelier misconfigured: missing or invalid model API credential")
)

// readiness is the service's initialization state. It only ever advances:
// uninitialized -> indexLoaded -> ready. A failed transition leaves the state
// where it was, so the failed step (and only that step) is retried on the
// next query.
type readiness int

const (
	uninitialized readiness = iota
	indexLoaded
	ready
)

// Answer is the result of one sommelier query: the generated text and the
// retrieved documents that grounded it.
type Answer struct {
	Text    string
	Sources []*schema.Document
}

// Service is the process-wide sommelier façade. Initialization (loading the
// vector index, constructing the answer pipeline) happens lazily on the first
// query and is serialized, so concurrent first requests initialize at most
// once. Queries in the ready state run without shared mutable state and are
// fully concurrent.
type Service struct {
	embedder     embedding.Embedding
	newGenerator func() (llm.LLM, error)
	indexPath    string
	topK         int
	log          *logger.Logger

	mu       sync.Mutex
	state    readiness
	index    *vectorindex.Index
	answerer *pipeline.AnswerPipeline
}

// New creates a sommelier Service. newGenerator constructs the generative
// model client; it is called lazily so a missing credential fails the query
// that needed it instead of the process start, and is called again on later
// queries once the configuration is corrected.
func New(embedder embedding.Embedding, newGenerator func() (llm.LLM, error), indexPath string, topK int, log *logger.Logger) *Service {
	return &Service{
		embedder:     embedder,
		newGenerator: newGenerator,
		indexPath:    indexPath,
		topK:         topK,
		log:          log,
	}
}

// Warmup drives the service into the ready state ahead of the first query.
// Failures are the same ones a first query would see.
func (s *Service) Warmup() error {
	_, _, err := s.ensureReady()
	return err
}

// ensureReady performs the at-most-once transitions into the ready state and
// returns the index and answer pipeline to use. The two handles are returned
// by value so queries never touch s.index/s.answerer outside the lock.
func (s *Service) ensureReady() (*vectorindex.Index, *pipeline.AnswerPipeline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == uninitialized {
		index, err := vectorindex.Load(s.indexPath, s.embedder.Model())
		if err != nil {
			if errors.Is(err, vectorindex.ErrNotFound) {
				s.log.Warn(fmt.Sprintf("Vector index not found at %s", s.indexPath))
				return nil, nil, fmt.Errorf("%w: %v", ErrIndexMissing, err)
			}
			s.log.Error(fmt.Sprintf("Failed to load vector index: %v", err))
			return nil, nil, fmt.Errorf("failed to load vector index: %w", err)
		}
		s.index = index
		s.state = indexLoaded
		s.log.WithPayload(map[string]interface{}{
			"documents": index.Len(),
			"dimension": index.Dimension(),
		}).Info("Vector index loaded")
	}

	if s.state == indexLoaded {
		generator, err := s.newGenerator()
		if err != nil {
			s.log.Error(fmt.Sprintf("Failed to construct answer generator: %v", err))
			// State stays at indexLoaded: a retry with a fixed credential
			// must not re-load the index.
			return nil, nil, fmt.Errorf("%w: %v", ErrNotConfigured, err)
		}
		s.answerer = pipeline.NewAnswerPipeline(generator, s.log)
		s.state = ready
		s.log.Info("Sommelier service ready")
	}

	return s.index, s.answerer, nil
}

// Query answers a free-text question grounded in the indexed catalog. Blank
// questions are rejected before any retrieval or model call is made.
func (s *Service) Query(ctx context.Context, question string) (*Answer, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	index, answerer, err := s.ensureReady()
	if err != nil {
		return nil, err
	}

	queryVector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	documents, err := index.Search(queryVector, s.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search vector index: %w", err)
	}

	answer, err := answerer.Run(ctx, question, documents)
	if err != nil {
		return nil, err
	}

	return &Answer{
		Text:    answer,
		Sources: documents,
	}, nil
}
