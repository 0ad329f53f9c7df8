package pipeline

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/philippweder/wine-shop/internal/embedding"
	"github.com/philippweder/wine-shop/internal/sommelier/docbuilder"
	"github.com/philippweder/wine-shop/internal/sommelier/schema"
	"github.com/philippweder/wine-shop/internal/sommelier/vectorindex"
	"github.com/philippweder/wine-shop/pkg/logger"
)

// ErrNoData is returned by Run when the catalog holds no records. It signals
// "nothing to index", not a failure; any previously persisted index is left
// untouched.
var ErrNoData = errors.New("no catalog data to index")

const (
	// embedBatchSize is the number of document texts embedded per request.
	embedBatchSize = 64
	// embedConcurrency bounds the number of in-flight embedding requests.
	embedConcurrency = 4
)

// CatalogSource is the read-only boundary to the catalog store: it returns
// every record as a mapping of non-null fields.
type CatalogSource interface {
	ListRecords(ctx context.Context) ([]map[string]interface{}, error)
}

// IndexingPipeline rebuilds the persisted vector index from the catalog. Each
// run is a full rebuild: the previous artifact is replaced wholesale, and only
// after the new index is completely built in memory.
type IndexingPipeline struct {
	source    CatalogSource
	embedder  embedding.Embedding
	indexPath string
	log       *logger.Logger
}

// NewIndexingPipeline creates a new IndexingPipeline.
func NewIndexingPipeline(source CatalogSource, embedder embedding.Embedding, indexPath string, log *logger.Logger) *IndexingPipeline {
	return &IndexingPipeline{
		source:    source,
		embedder:  embedder,
		indexPath: indexPath,
		log:       log,
	}
}

// Run executes the full indexing pipeline: load catalog records, build
// documents, embed, build the index, and persist it. A failure at any step
// aborts the run and leaves the previously persisted index intact.
func (p *IndexingPipeline) Run(ctx context.Context) error {
	p.log.Info("Starting sommelier indexing run")

	records, err := p.source.ListRecords(ctx)
	if err != nil {
		p.log.Error(fmt.Sprintf("Failed to load catalog records: %v", err))
		return fmt.Errorf("failed to load catalog records: %w", err)
	}
	if len(records) == 0 {
		p.log.Warn("Catalog is empty, nothing to index")
		return ErrNoData
	}
	p.log.Info(fmt.Sprintf("Loaded %d catalog records", len(records)))

	documents := docbuilder.Build(records)
	p.log.Info(fmt.Sprintf("Built %d documents for embedding", len(documents)))

	vectors, err := p.embedDocuments(ctx, documents)
	if err != nil {
		p.log.Error(fmt.Sprintf("Failed to embed documents: %v", err))
		return fmt.Errorf("failed to embed documents: %w", err)
	}

	index, err := vectorindex.Build(documents, vectors, p.embedder.Model())
	if err != nil {
		p.log.Error(fmt.Sprintf("Failed to build vector index: %v", err))
		return fmt.Errorf("failed to build vector index: %w", err)
	}

	if err := index.Persist(p.indexPath); err != nil {
		p.log.Error(fmt.Sprintf("Failed to persist vector index: %v", err))
		return fmt.Errorf("failed to persist vector index: %w", err)
	}

	p.log.WithPayload(map[string]interface{}{
		"documents": index.Len(),
		"dimension": index.Dimension(),
		"path":      p.indexPath,
	}).Info("Sommelier indexing run finished")
	return nil
}

// embedDocuments embeds all document texts in fixed-size batches, with a
// bounded number of batches in flight. The result is ordered like the input.
func (p *IndexingPipeline) embedDocuments(ctx context.Context, documents []*schema.Document) ([][]float32, error) {
	texts := make([]string, len(documents))
	for i, doc := range documents {
		texts[i] = doc.Text
	}

	vectors := make([][]float32, len(texts))
	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(embedConcurrency)

	for start := 0; start < len(texts); start += embedBatchSize {
		start := start
		end := start + embedBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		eg.Go(func() error {
			batch, err := p.embedder.EmbedBatch(gCtx, texts[start:end])
			if err != nil {
				return err
			}
			copy(vectors[start:end], batch)
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
