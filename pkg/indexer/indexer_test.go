package indexer

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-assistant-be/pkg/vectorstore/memory"
)

type mapLoader struct {
	sources map[string]string
}

func (l *mapLoader) Load() (map[string]string, error) {
	return l.sources, nil
}

// hashEmbedder produces a deterministic vector from text content.
type hashEmbedder struct{}

func (hashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	v := make([]float32, 8)
	for i, r := range text {
		v[i%8] += float32(r) / 1000
	}
	return v, nil
}

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func TestRebuildChunksAllSources(t *testing.T) {
	loader := &mapLoader{sources: map[string]string{
		"leave_policy.txt":      "Employees accrue annual leave monthly. Unused days carry over up to ten days per year.",
		"healthcare_policy.txt": "The company healthcare plan covers medical, dental and vision for employees and dependents.",
	}}
	vstore := memory.NewStorage()
	ix := NewIndexer(loader, hashEmbedder{}, vstore, 60, 15, testLogger())

	count, err := ix.Rebuild(context.Background())
	require.NoError(t, err)
	assert.Greater(t, count, 2)

	stored, err := vstore.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, count, stored)
}

func TestRebuildStableChunkIndexPerSource(t *testing.T) {
	loader := &mapLoader{sources: map[string]string{
		"doc.txt": "aaaa bbbb cccc dddd eeee ffff gggg hhhh iiii jjjj kkkk llll mmmm nnnn",
	}}
	vstore := memory.NewStorage()
	ix := NewIndexer(loader, hashEmbedder{}, vstore, 25, 5, testLogger())

	_, err := ix.Rebuild(context.Background())
	require.NoError(t, err)

	results, err := vstore.Search(context.Background(), []float32{1, 1, 1, 1, 1, 1, 1, 1}, 50, -1)
	require.NoError(t, err)

	seen := map[int]bool{}
	for _, r := range results {
		assert.Equal(t, "doc.txt", r.Chunk.SourceID)
		assert.False(t, seen[r.Chunk.ChunkIndex], "duplicate chunk index %d", r.Chunk.ChunkIndex)
		seen[r.Chunk.ChunkIndex] = true
	}
	for i := 0; i < len(results); i++ {
		assert.True(t, seen[i], "missing chunk index %d", i)
	}
}

func TestRebuildReplacesOldChunks(t *testing.T) {
	loader := &mapLoader{sources: map[string]string{"a.txt": "first version of the policy"}}
	vstore := memory.NewStorage()
	ix := NewIndexer(loader, hashEmbedder{}, vstore, 200, 20, testLogger())

	_, err := ix.Rebuild(context.Background())
	require.NoError(t, err)

	loader.sources = map[string]string{"b.txt": "second version entirely"}
	_, err = ix.Rebuild(context.Background())
	require.NoError(t, err)

	results, err := vstore.Search(context.Background(), []float32{1, 1, 1, 1, 1, 1, 1, 1}, 10, -1)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	for _, r := range results {
		assert.Equal(t, "b.txt", r.Chunk.SourceID)
	}
}

func TestRebuildIdempotentOnIdenticalInput(t *testing.T) {
	loader := &mapLoader{sources: map[string]string{
		"x.txt": "healthcare benefits include dental coverage and an annual vision allowance",
		"y.txt": "annual leave requests need manager approval before travel is booked",
	}}
	vstore := memory.NewStorage()
	ix := NewIndexer(loader, hashEmbedder{}, vstore, 40, 10, testLogger())

	query := []float32{0.3, 0.5, 0.2, 0.4, 0.1, 0.6, 0.2, 0.3}

	_, err := ix.Rebuild(context.Background())
	require.NoError(t, err)
	first, err := vstore.Search(context.Background(), query, 5, -1)
	require.NoError(t, err)

	_, err = ix.Rebuild(context.Background())
	require.NoError(t, err)
	second, err := vstore.Search(context.Background(), query, 5, -1)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Chunk.SourceID, second[i].Chunk.SourceID)
		assert.Equal(t, first[i].Chunk.ChunkIndex, second[i].Chunk.ChunkIndex)
		assert.InDelta(t, first[i].Score, second[i].Score, 1e-9)
	}
}
