package router

import (
	"context"
	"testing"

	"hr-assistant-be/pkg/rag/agent"
	"hr-assistant-be/pkg/rag/intent"
	"hr-assistant-be/pkg/rag/response"
)

type stubHandler struct{ name string }

func (s *stubHandler) Handle(ctx context.Context, turn *agent.Turn) (*agent.Outcome, error) {
	return &agent.Outcome{Reply: s.name}, nil
}

func TestEveryLabelRoutes(t *testing.T) {
	policy := &stubHandler{name: "policy"}
	leave := &stubHandler{name: "leave"}
	payroll := &stubHandler{name: "payroll"}
	r := NewRouter(policy, leave, payroll)

	tests := []struct {
		label intent.Intent
		want  agent.Handler
	}{
		{intent.IntentPolicyQuestion, policy},
		{intent.IntentLeaveBalance, leave},
		{intent.IntentLeaveSubmit, leave},
		{intent.IntentPayrollInquiry, payroll},
	}
	for _, tt := range tests {
		if got := r.Route(tt.label); got != tt.want {
			t.Errorf("Route(%s) = %v, want %v", tt.label, got, tt.want)
		}
	}
}

func TestUnknownAndCorruptedLabelsClarify(t *testing.T) {
	r := NewRouter(&stubHandler{}, &stubHandler{}, &stubHandler{})

	for _, label := range []intent.Intent{intent.IntentUnknown, intent.Intent("garbage")} {
		h := r.Route(label)
		outcome, err := h.Handle(context.Background(), &agent.Turn{})
		if err != nil {
			t.Fatalf("clarify handler errored: %v", err)
		}
		if outcome.Reply != response.Clarification {
			t.Errorf("Route(%s) reply = %q, want the clarification message", label, outcome.Reply)
		}
	}
}
