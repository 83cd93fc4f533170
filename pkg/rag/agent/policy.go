package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"hr-assistant-be/pkg/llm"
	"hr-assistant-be/pkg/rag/response"
	"hr-assistant-be/pkg/rag/search"
	"hr-assistant-be/pkg/store"
)

// Retriever is the read side of the retrieval engine the agent depends on.
// *search.Retriever implements it.
type Retriever interface {
	Query(ctx context.Context, text string, k int, minScore float64) ([]store.RetrievalResult, error)
}

var _ Retriever = &search.Retriever{}

// PolicyAgent answers open-domain policy questions with retrieval-grounded
// synthesis. It never calls the completion model without attempting
// retrieval first; when nothing clears the relevance threshold it answers
// "not covered" instead of fabricating policy text.
type PolicyAgent struct {
	retriever   Retriever
	llmProvider llm.LLMProvider
	logger      *log.Logger

	TopK     int
	MinScore float64
}

var _ Handler = &PolicyAgent{}

func NewPolicyAgent(retriever Retriever, llmProvider llm.LLMProvider, logger *log.Logger) *PolicyAgent {
	return &PolicyAgent{
		retriever:   retriever,
		llmProvider: llmProvider,
		logger:      logger,
		TopK:        5,
		MinScore:    0.35,
	}
}

func (a *PolicyAgent) Handle(ctx context.Context, turn *Turn) (*Outcome, error) {
	results, err := a.retriever.Query(ctx, turn.Message, a.TopK, a.MinScore)
	if err != nil {
		// Retrieval failure degrades to the "not covered" branch, never a crash.
		a.logger.Printf("[POLICY] Retrieval failed, answering not-covered: %v", err)
		return &Outcome{Reply: response.NotCovered}, nil
	}

	if len(results) == 0 {
		a.logger.Printf("[POLICY] No chunk cleared threshold %.2f", a.MinScore)
		return &Outcome{Reply: response.NotCovered}, nil
	}

	prompt := a.buildPrompt(turn.Message, results)
	answer, err := a.llmProvider.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}},
		llm.WithTemperature(0.1), llm.WithMaxTokens(1024))
	if err != nil {
		return nil, fmt.Errorf("policy synthesis: %w", err)
	}

	return &Outcome{Reply: strings.TrimSpace(answer)}, nil
}

func (a *PolicyAgent) buildPrompt(question string, results []store.RetrievalResult) string {
	var prompt strings.Builder

	prompt.WriteString("You are an expert HR policy assistant. Answer the question using ONLY the context below.\n")
	prompt.WriteString("If the answer is not in the context, say you don't have that information in the policy documents.\n")
	prompt.WriteString("Cite specific numbers, dates and procedures when the context provides them.\n\n")

	prompt.WriteString("<context>\n")
	for i, r := range results {
		prompt.WriteString(fmt.Sprintf("[Document %d - %s]:\n%s\n\n", i+1, r.Chunk.SourceID, r.Chunk.Text))
	}
	prompt.WriteString("</context>\n\n")

	prompt.WriteString("<question>\n")
	prompt.WriteString(question)
	prompt.WriteString("\n</question>")

	return prompt.String()
}
