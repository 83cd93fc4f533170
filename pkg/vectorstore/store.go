package vectorstore

import (
	"context"

	"hr-assistant-be/pkg/store"
)

// VectorStore is the contract shared by the in-memory snapshot store and
// the pgvector-backed store.
//
// Replace swaps the entire chunk set atomically: queries running during a
// replace see either the old or the new index, never a mix.
// Search returns results ordered by descending similarity, truncated to k
// and filtered to score >= minScore. An empty index yields an empty slice.
type VectorStore interface {
	Replace(ctx context.Context, chunks []store.DocumentChunk) error
	Search(ctx context.Context, embedding []float32, k int, minScore float64) ([]store.RetrievalResult, error)
	Count(ctx context.Context) (int, error)
}
