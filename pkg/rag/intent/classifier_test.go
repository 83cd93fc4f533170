package intent

import (
	"context"
	"errors"
	"io"
	"log"
	"testing"

	"hr-assistant-be/pkg/llm"
)

// fakeLLM returns a canned response or error for every call.
type fakeLLM struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.Chat(ctx, nil)
}

func newClassifier(provider llm.LLMProvider) *Classifier {
	return NewClassifier(provider, log.New(io.Discard, "", 0))
}

func TestKeywordFastPath(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    Intent
	}{
		{"balance question", "What is my current leave balance?", IntentLeaveBalance},
		{"remaining days", "How many vacation days do I have left?", IntentLeaveBalance},
		{"leave request", "I want 3 days annual leave 2024-03-15 to 2024-03-17 for a family vacation", IntentLeaveSubmit},
		{"book vacation", "Can I book time off next week?", IntentLeaveSubmit},
		{"pay stub", "Show me my last pay stub", IntentPayrollInquiry},
		{"deductions", "Why are my deductions so high this month?", IntentPayrollInquiry},
		{"policy", "What is the remote work policy?", IntentPolicyQuestion},
		{"benefits", "What are the healthcare benefits?", IntentPolicyQuestion},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &fakeLLM{}
			c := newClassifier(provider)

			result := c.Classify(context.Background(), tt.message, nil)

			if result.Intent != tt.want {
				t.Errorf("Intent = %s, want %s", result.Intent, tt.want)
			}
			if provider.calls != 0 {
				t.Errorf("keyword-resolvable message triggered %d model calls", provider.calls)
			}
		})
	}
}

func TestModelFallbackForAmbiguousMessage(t *testing.T) {
	provider := &fakeLLM{response: `{"intent": "policy_question", "confidence": 0.8, "reasoning": "asks about rules"}`}
	c := newClassifier(provider)

	result := c.Classify(context.Background(), "can my manager say no to that?", nil)

	if result.Intent != IntentPolicyQuestion {
		t.Errorf("Intent = %s, want policy_question", result.Intent)
	}
	if provider.calls != 1 {
		t.Errorf("expected exactly one model call, got %d", provider.calls)
	}
}

func TestModelFailureDegradesToUnknown(t *testing.T) {
	provider := &fakeLLM{err: errors.New("rate limited")}
	c := newClassifier(provider)

	result := c.Classify(context.Background(), "hello", nil)

	if result.Intent != IntentUnknown {
		t.Errorf("Intent = %s, want unknown on provider failure", result.Intent)
	}
}

func TestOutOfVocabularyLabelDegradesToUnknown(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{"made-up label", `{"intent": "SMALL_TALK", "confidence": 0.9}`},
		{"no JSON at all", "I think the user wants to chat."},
		{"broken JSON", `{"intent": "policy_question",`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClassifier(&fakeLLM{response: tt.response})

			result := c.Classify(context.Background(), "hmm", nil)

			if result.Intent != IntentUnknown {
				t.Errorf("Intent = %s, want unknown", result.Intent)
			}
		})
	}
}

func TestLabelNormalization(t *testing.T) {
	c := newClassifier(&fakeLLM{response: `{"intent": " Payroll_Inquiry ", "confidence": 0.7}`})

	result := c.Classify(context.Background(), "money stuff", nil)

	if result.Intent != IntentPayrollInquiry {
		t.Errorf("Intent = %s, want payroll_inquiry after normalization", result.Intent)
	}
}
