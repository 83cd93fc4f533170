package factory

import (
	"fmt"

	"hr-assistant-be/pkg/llm"
	"hr-assistant-be/pkg/llm/mistral"
	"hr-assistant-be/pkg/llm/ollama"
)

// NewLLMProvider constructs the configured chat backend.
// Supported providers: "mistral", "ollama".
func NewLLMProvider(provider, model, ollamaBaseURL, mistralAPIKey string) (llm.LLMProvider, error) {
	switch provider {
	case "mistral":
		if mistralAPIKey == "" {
			return nil, fmt.Errorf("mistral provider requires MISTRAL_API_KEY")
		}
		return mistral.NewMistralProvider(mistralAPIKey, model), nil
	case "ollama":
		return ollama.NewOllamaProvider(ollamaBaseURL, model), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", provider)
	}
}
