package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hr-assistant-be/pkg/rag/intent"
	"hr-assistant-be/pkg/rag/response"
	"hr-assistant-be/pkg/store"
)

type fakeRetriever struct {
	results []store.RetrievalResult
	err     error
	lastK   int
}

func (f *fakeRetriever) Query(ctx context.Context, text string, k int, minScore float64) ([]store.RetrievalResult, error) {
	f.lastK = k
	return f.results, f.err
}

func policyTurn() *Turn {
	return &Turn{
		EmployeeID: "EMP-1001",
		Intent:     intent.IntentPolicyQuestion,
		Message:    "What is the remote work policy?",
	}
}

func TestPolicyGroundedAnswer(t *testing.T) {
	retriever := &fakeRetriever{results: []store.RetrievalResult{
		{Chunk: store.DocumentChunk{SourceID: "remote_work.md", Text: "Employees may work remotely up to 3 days per week."}, Score: 0.82},
	}}
	provider := &fakeLLM{response: "You may work remotely up to 3 days per week."}
	a := NewPolicyAgent(retriever, provider, discard())

	outcome, err := a.Handle(context.Background(), policyTurn())
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(outcome.Reply, "3 days") {
		t.Errorf("Reply = %q", outcome.Reply)
	}
	if retriever.lastK != a.TopK {
		t.Errorf("retriever queried with k=%d, want %d", retriever.lastK, a.TopK)
	}
	if len(outcome.ToolCalls) != 0 {
		t.Errorf("policy answers must not record tool calls: %+v", outcome.ToolCalls)
	}
}

func TestPolicyNothingRelevant(t *testing.T) {
	a := NewPolicyAgent(&fakeRetriever{}, &fakeLLM{response: "should not be used"}, discard())

	outcome, err := a.Handle(context.Background(), policyTurn())
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if outcome.Reply != response.NotCovered {
		t.Errorf("Reply = %q, want the not-covered message", outcome.Reply)
	}
}

func TestPolicyRetrievalFailureDegrades(t *testing.T) {
	a := NewPolicyAgent(&fakeRetriever{err: errors.New("embedder offline")}, &fakeLLM{}, discard())

	outcome, err := a.Handle(context.Background(), policyTurn())
	if err != nil {
		t.Fatalf("retrieval failure must degrade, not error: %v", err)
	}
	if outcome.Reply != response.NotCovered {
		t.Errorf("Reply = %q, want the not-covered message", outcome.Reply)
	}
}

func TestPolicySynthesisFailurePropagates(t *testing.T) {
	retriever := &fakeRetriever{results: []store.RetrievalResult{
		{Chunk: store.DocumentChunk{SourceID: "leave.md", Text: "Annual leave accrues monthly."}, Score: 0.7},
	}}
	a := NewPolicyAgent(retriever, &fakeLLM{err: errors.New("rate limited")}, discard())

	if _, err := a.Handle(context.Background(), policyTurn()); err == nil {
		t.Fatal("expected synthesis failure to surface as an error")
	}
}
