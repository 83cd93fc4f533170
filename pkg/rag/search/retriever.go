package search

import (
	"context"
	"fmt"
	"log"

	"hr-assistant-be/pkg/embedding"
	"hr-assistant-be/pkg/store"
	"hr-assistant-be/pkg/vectorstore"
)

// Retriever is the read-only front of the retrieval engine: it embeds a
// query and runs a filtered top-k search against the current index
// snapshot. It has no side effects.
type Retriever struct {
	embedder embedding.Provider
	vstore   vectorstore.VectorStore
	logger   *log.Logger

	// Defaults used when a caller passes zero values.
	DefaultK        int
	DefaultMinScore float64
}

func NewRetriever(embedder embedding.Provider, vstore vectorstore.VectorStore, logger *log.Logger) *Retriever {
	return &Retriever{
		embedder:        embedder,
		vstore:          vstore,
		logger:          logger,
		DefaultK:        5,
		DefaultMinScore: 0.35,
	}
}

// Query returns up to k results with score >= minScore, ordered by
// descending similarity. An empty index produces an empty slice.
func (r *Retriever) Query(ctx context.Context, text string, k int, minScore float64) ([]store.RetrievalResult, error) {
	if k <= 0 {
		k = r.DefaultK
	}
	if minScore <= 0 {
		minScore = r.DefaultMinScore
	}

	vector, err := r.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := r.vstore.Search(ctx, vector, k, minScore)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	r.logger.Printf("[RETRIEVER] Query matched %d chunks (k=%d, minScore=%.2f)", len(results), k, minScore)
	return results, nil
}
