package pgvector

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"

	"hr-assistant-be/pkg/store"
	"hr-assistant-be/pkg/vectorstore"
)

// PolicyChunk is the persisted form of a document chunk.
type PolicyChunk struct {
	ID             int64           `gorm:"primaryKey;autoIncrement"`
	SourceID       string          `gorm:"type:text;not null;index"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(1024)"` // mistral-embed uses 1024 dimensions
	ChunkIndex     int             `gorm:"default:0"`
}

func (PolicyChunk) TableName() string {
	return "policy_chunks"
}

// Storage keeps the chunk index in Postgres with pgvector cosine search.
// A Replace runs in one transaction, so readers see either the previous
// chunk set or the new one.
type Storage struct {
	db *gorm.DB
}

var _ vectorstore.VectorStore = &Storage{}

func NewStorage(db *gorm.DB) (*Storage, error) {
	if err := db.AutoMigrate(&PolicyChunk{}); err != nil {
		return nil, fmt.Errorf("migrate policy_chunks: %w", err)
	}
	return &Storage{db: db}, nil
}

func (s *Storage) Replace(ctx context.Context, chunks []store.DocumentChunk) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM policy_chunks").Error; err != nil {
			return err
		}
		if len(chunks) == 0 {
			return nil
		}

		models := make([]*PolicyChunk, len(chunks))
		for i, c := range chunks {
			models[i] = &PolicyChunk{
				SourceID:       c.SourceID,
				Document:       c.Text,
				EmbeddingValue: pgvector.NewVector(c.Embedding),
				ChunkIndex:     c.ChunkIndex,
			}
		}
		return tx.CreateInBatches(models, 100).Error
	})
}

func (s *Storage) Search(ctx context.Context, embedding []float32, k int, minScore float64) ([]store.RetrievalResult, error) {
	if k <= 0 {
		k = 5
	}

	// pgvector cosine distance is 1 - cosine_similarity, so similarity is
	// 1 - (embedding_value <=> query_vector).
	type row struct {
		PolicyChunk
		Similarity float64
	}
	var rows []row

	queryVector := pgvector.NewVector(embedding)

	err := s.db.WithContext(ctx).
		Table("policy_chunks").
		Select("policy_chunks.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Where("1 - (embedding_value <=> ?) >= ?", queryVector, minScore).
		Order("similarity DESC").
		Limit(k).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	results := make([]store.RetrievalResult, len(rows))
	for i, r := range rows {
		results[i] = store.RetrievalResult{
			Chunk: store.DocumentChunk{
				SourceID:   r.SourceID,
				Text:       r.Document,
				Embedding:  r.EmbeddingValue.Slice(),
				ChunkIndex: r.ChunkIndex,
			},
			Score: r.Similarity,
		}
	}
	return results, nil
}

func (s *Storage) Count(ctx context.Context) (int, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&PolicyChunk{}).Count(&count).Error
	return int(count), err
}
