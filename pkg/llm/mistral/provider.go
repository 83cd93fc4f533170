package mistral

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"hr-assistant-be/pkg/llm"
)

const chatCompletionsURL = "https://api.mistral.ai/v1/chat/completions"

// MistralProvider talks to the Mistral chat completions API.
type MistralProvider struct {
	APIKey    string
	ModelName string
	Client    *http.Client
}

// Ensure MistralProvider implements LLMProvider
var _ llm.LLMProvider = &MistralProvider{}

func NewMistralProvider(apiKey, modelName string) *MistralProvider {
	if modelName == "" {
		modelName = "mistral-large-latest"
	}
	return &MistralProvider{
		APIKey:    apiKey,
		ModelName: modelName,
		Client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// --- Request/Response structs (Internal to this package) ---

type mistralMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type mistralChatRequest struct {
	Model       string           `json:"model"`
	Messages    []mistralMessage `json:"messages"`
	Temperature float64          `json:"temperature,omitempty"`
	MaxTokens   int              `json:"max_tokens,omitempty"`
}

type mistralChatResponse struct {
	Choices []struct {
		Message mistralMessage `json:"message"`
	} `json:"choices"`
}

// --- Interface Implementation ---

func (m *MistralProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := &llm.Options{
		Temperature: 0.1, // Default, matches policy answering
	}
	for _, opt := range opts {
		opt(options)
	}

	messages := make([]mistralMessage, len(history))
	for i, msg := range history {
		role := msg.Role
		if role == "model" {
			role = "assistant"
		}
		messages[i] = mistralMessage{
			Role:    role,
			Content: msg.Content,
		}
	}

	model := m.ModelName
	if options.Model != "" {
		model = options.Model
	}

	reqPayload := mistralChatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: options.Temperature,
	}
	if options.MaxTokens > 0 {
		reqPayload.MaxTokens = options.MaxTokens
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", chatCompletionsURL, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.APIKey)

	resp, err := m.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("mistral request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("mistral error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var chatResp mistralChatResponse
	if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("mistral: empty choices in response")
	}

	return chatResp.Choices[0].Message.Content, nil
}

func (m *MistralProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return m.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, opts...)
}
