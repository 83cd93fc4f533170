package indexer

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"hr-assistant-be/pkg/embedding"
	"hr-assistant-be/pkg/store"
	"hr-assistant-be/pkg/textsplit"
	"hr-assistant-be/pkg/vectorstore"
)

// SourceLoader yields the plain-text policy sources to index.
// Keys are stable source IDs, values are the extracted text.
type SourceLoader interface {
	Load() (map[string]string, error)
}

// DirLoader reads .txt and .md files from a directory. Document-to-text
// extraction for richer formats happens upstream.
type DirLoader struct {
	Path string
}

func (l *DirLoader) Load() (map[string]string, error) {
	entries, err := os.ReadDir(l.Path)
	if err != nil {
		return nil, fmt.Errorf("read policy dir %s: %w", l.Path, err)
	}

	sources := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".txt" && ext != ".md" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(l.Path, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		sources[entry.Name()] = string(data)
	}
	return sources, nil
}

// Indexer rebuilds the retrieval index from policy sources: each source is
// split into overlapping windows, embedded, and the whole chunk set is
// swapped into the store at once. Rebuilds run only on an explicit Rebuild
// call and are exclusive with each other.
type Indexer struct {
	loader    SourceLoader
	embedder  embedding.Provider
	vstore    vectorstore.VectorStore
	chunkSize int
	overlap   int
	logger    *log.Logger

	rebuildMu sync.Mutex
}

func NewIndexer(
	loader SourceLoader,
	embedder embedding.Provider,
	vstore vectorstore.VectorStore,
	chunkSize int,
	overlap int,
	logger *log.Logger,
) *Indexer {
	if chunkSize <= 0 {
		chunkSize = 800
	}
	if overlap < 0 {
		overlap = 150
	}
	return &Indexer{
		loader:    loader,
		embedder:  embedder,
		vstore:    vstore,
		chunkSize: chunkSize,
		overlap:   overlap,
		logger:    logger,
	}
}

// Rebuild replaces the entire index from the current source set.
// Queries in flight keep seeing the previous index until the final swap.
func (ix *Indexer) Rebuild(ctx context.Context) (int, error) {
	ix.rebuildMu.Lock()
	defer ix.rebuildMu.Unlock()

	sources, err := ix.loader.Load()
	if err != nil {
		return 0, fmt.Errorf("load sources: %w", err)
	}

	// Deterministic source order keeps rebuilds reproducible.
	sourceIDs := make([]string, 0, len(sources))
	for id := range sources {
		sourceIDs = append(sourceIDs, id)
	}
	sort.Strings(sourceIDs)

	var chunks []store.DocumentChunk
	for _, sourceID := range sourceIDs {
		pieces := textsplit.Split(sources[sourceID], ix.chunkSize, ix.overlap)
		for i, text := range pieces {
			vector, err := ix.embedder.Embed(ctx, text)
			if err != nil {
				return 0, fmt.Errorf("embed chunk %d of %s: %w", i, sourceID, err)
			}
			chunks = append(chunks, store.DocumentChunk{
				SourceID:   sourceID,
				Text:       text,
				Embedding:  vector,
				ChunkIndex: i,
			})
		}
	}

	if err := ix.vstore.Replace(ctx, chunks); err != nil {
		return 0, fmt.Errorf("replace index: %w", err)
	}

	ix.logger.Printf("[INDEXER] Rebuilt index: %d sources, %d chunks", len(sourceIDs), len(chunks))
	return len(chunks), nil
}
