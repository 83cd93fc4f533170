package memory

import (
	"context"
	"math"
	"sort"
	"sync"
	"sync/atomic"

	"hr-assistant-be/pkg/store"
	"hr-assistant-be/pkg/vectorstore"
)

// Storage is an in-memory brute-force cosine similarity store.
//
// The index lives in an immutable snapshot behind an atomic pointer:
// searches load the pointer once and never observe a half-built index,
// while Replace builds the new snapshot off to the side and swaps it in
// a single store. Replaces are serialized with a mutex.
type Storage struct {
	snapshot  atomic.Pointer[snapshot]
	replaceMu sync.Mutex
}

type snapshot struct {
	chunks []store.DocumentChunk
	norms  []float64
}

var _ vectorstore.VectorStore = &Storage{}

func NewStorage() *Storage {
	s := &Storage{}
	s.snapshot.Store(&snapshot{})
	return s
}

func (s *Storage) Replace(ctx context.Context, chunks []store.DocumentChunk) error {
	s.replaceMu.Lock()
	defer s.replaceMu.Unlock()

	snap := &snapshot{
		chunks: make([]store.DocumentChunk, len(chunks)),
		norms:  make([]float64, len(chunks)),
	}
	copy(snap.chunks, chunks)
	for i, c := range chunks {
		snap.norms[i] = norm(c.Embedding)
	}

	s.snapshot.Store(snap)
	return nil
}

func (s *Storage) Search(ctx context.Context, embedding []float32, k int, minScore float64) ([]store.RetrievalResult, error) {
	snap := s.snapshot.Load()
	if len(snap.chunks) == 0 {
		return []store.RetrievalResult{}, nil
	}
	if k <= 0 {
		k = 5
	}

	queryNorm := norm(embedding)
	if queryNorm == 0 {
		return []store.RetrievalResult{}, nil
	}

	results := make([]store.RetrievalResult, 0, len(snap.chunks))
	for i, c := range snap.chunks {
		if snap.norms[i] == 0 {
			continue
		}
		score := dot(embedding, c.Embedding) / (queryNorm * snap.norms[i])
		if score >= minScore {
			results = append(results, store.RetrievalResult{Chunk: c, Score: score})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (s *Storage) Count(ctx context.Context) (int, error) {
	return len(s.snapshot.Load().chunks), nil
}

func dot(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func norm(v []float32) float64 {
	sum := 0.0
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
