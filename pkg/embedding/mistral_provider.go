package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const mistralEmbedURL = "https://api.mistral.ai/v1/embeddings"

// MistralProvider calls the Mistral embeddings API (mistral-embed).
type MistralProvider struct {
	APIKey string
	Model  string
	Client *http.Client
}

var _ Provider = &MistralProvider{}

func NewMistralProvider(apiKey string) *MistralProvider {
	return &MistralProvider{
		APIKey: apiKey,
		Model:  "mistral-embed",
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type mistralEmbedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type mistralEmbedResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (p *MistralProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	payload, err := json.Marshal(mistralEmbedRequest{
		Model: p.Model,
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", mistralEmbedURL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mistral embed request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mistral embed error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var embedResp mistralEmbedResponse
	if err := json.Unmarshal(bodyBytes, &embedResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if len(embedResp.Data) == 0 {
		return nil, fmt.Errorf("mistral embed: empty data in response")
	}

	return embedResp.Data[0].Embedding, nil
}
