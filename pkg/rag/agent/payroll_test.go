package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"hr-assistant-be/pkg/hr"
	"hr-assistant-be/pkg/rag/intent"
)

func payrollTurn() *Turn {
	return &Turn{EmployeeID: "EMP-1001", Intent: intent.IntentPayrollInquiry, Message: "show me my pay stubs"}
}

func TestPayrollFormatsStubs(t *testing.T) {
	invoker := &fakeInvoker{payloads: map[string]any{
		hr.ToolGetPayStubs: []hr.PayStub{
			{
				Period: "2024-02",
				Gross:  5200,
				Deductions: []hr.Deduction{
					{Name: "Federal tax", Amount: 780},
					{Name: "Health insurance", Amount: 150},
				},
				Net: 4270,
			},
		},
	}}
	a := NewPayrollAgent(invoker, discard())

	outcome, err := a.Handle(context.Background(), payrollTurn())
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	for _, want := range []string{"2024-02", "$5200.00", "Federal tax", "$780.00", "Health insurance", "$4270.00"} {
		if !strings.Contains(outcome.Reply, want) {
			t.Errorf("reply missing %q:\n%s", want, outcome.Reply)
		}
	}
	if len(outcome.ToolCalls) != 1 || outcome.ToolCalls[0].Name != hr.ToolGetPayStubs {
		t.Errorf("expected one recorded pay stub call, got %+v", outcome.ToolCalls)
	}
}

func TestPayrollEmptyWindow(t *testing.T) {
	invoker := &fakeInvoker{payloads: map[string]any{hr.ToolGetPayStubs: []hr.PayStub{}}}
	a := NewPayrollAgent(invoker, discard())

	outcome, err := a.Handle(context.Background(), payrollTurn())
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(outcome.Reply, "No pay stubs") {
		t.Errorf("Reply = %q", outcome.Reply)
	}
}

func TestPayrollLookupFailurePropagates(t *testing.T) {
	invoker := &fakeInvoker{errs: map[string]error{hr.ToolGetPayStubs: errors.New("503")}}
	a := NewPayrollAgent(invoker, discard())

	if _, err := a.Handle(context.Background(), payrollTurn()); err == nil {
		t.Fatal("expected error for failed lookup")
	}
}
