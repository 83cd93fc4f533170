package embedding

import "context"

// Provider generates fixed-length embedding vectors for text.
type Provider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}
