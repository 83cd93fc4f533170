package store

// DocumentChunk is the unit of retrieval: a bounded slice of a source
// policy document with its embedding. Chunks are replaced wholesale on
// reindex, never partially updated.
type DocumentChunk struct {
	SourceID   string    `json:"source_id"`
	Text       string    `json:"text"`
	Embedding  []float32 `json:"embedding"`
	ChunkIndex int       `json:"chunk_index"`
}

// RetrievalResult pairs a chunk with its similarity score for one query.
// Higher score = more relevant. Ephemeral, produced per query.
type RetrievalResult struct {
	Chunk DocumentChunk `json:"chunk"`
	Score float64       `json:"score"`
}
