package agent

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"hr-assistant-be/pkg/hr"
	"hr-assistant-be/pkg/llm"
	"hr-assistant-be/pkg/rag/intent"
	"hr-assistant-be/pkg/rag/response"
	"hr-assistant-be/pkg/tools"
)

// fakeInvoker records calls and answers each tool from a canned table.
type fakeInvoker struct {
	payloads map[string]any
	errs     map[string]error
	calls    []string
}

func (f *fakeInvoker) Invoke(ctx context.Context, name string, args map[string]any) (any, error) {
	f.calls = append(f.calls, name)
	if err := f.errs[name]; err != nil {
		return nil, err
	}
	return f.payloads[name], nil
}

type fakeLLM struct {
	response string
	err      error
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return f.response, f.err
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return f.response, f.err
}

func discard() *log.Logger { return log.New(io.Discard, "", 0) }

func fixedNow() time.Time {
	return time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
}

func testBalance() *hr.LeaveBalance {
	return &hr.LeaveBalance{
		EmployeeID: "EMP-1001",
		Categories: map[string]float64{
			hr.LeaveAnnual: 12,
			hr.LeaveSick:   5,
		},
	}
}

func TestBalanceListsEveryCategory(t *testing.T) {
	invoker := &fakeInvoker{payloads: map[string]any{hr.ToolGetLeaveBalance: testBalance()}}
	a := NewLeaveAgent(invoker, &fakeLLM{}, discard())

	outcome, err := a.Handle(context.Background(), &Turn{
		EmployeeID: "EMP-1001",
		Intent:     intent.IntentLeaveBalance,
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	for _, category := range hr.LeaveTypes {
		if !strings.Contains(strings.ToLower(outcome.Reply), category) {
			t.Errorf("reply missing category %q:\n%s", category, outcome.Reply)
		}
	}
	if !strings.Contains(outcome.Reply, "17.0") {
		t.Errorf("reply missing total 17.0:\n%s", outcome.Reply)
	}
	if len(outcome.ToolCalls) != 1 || outcome.ToolCalls[0].Name != hr.ToolGetLeaveBalance {
		t.Errorf("expected one recorded balance call, got %+v", outcome.ToolCalls)
	}
}

func TestBalanceLookupFailurePropagates(t *testing.T) {
	invoker := &fakeInvoker{errs: map[string]error{hr.ToolGetLeaveBalance: errors.New("employee not found")}}
	a := NewLeaveAgent(invoker, &fakeLLM{}, discard())

	_, err := a.Handle(context.Background(), &Turn{EmployeeID: "EMP-404", Intent: intent.IntentLeaveBalance})
	if err == nil {
		t.Fatal("expected error for failed lookup")
	}
}

func submitTurn() *Turn {
	return &Turn{
		EmployeeID: "EMP-1001",
		Intent:     intent.IntentLeaveSubmit,
		Message:    "I need annual leave March 15 to 17 for a family trip",
	}
}

func extractionJSON(leaveType, start, end, reason string) string {
	return `{"type": "` + leaveType + `", "start_date": "` + start + `", "end_date": "` + end + `", "reason": "` + reason + `"}`
}

func TestSubmitHappyPath(t *testing.T) {
	invoker := &fakeInvoker{payloads: map[string]any{
		hr.ToolGetLeaveBalance:    testBalance(),
		hr.ToolSubmitLeaveRequest: &hr.LeaveReceipt{RequestID: "LR-A1B2C3D4", Status: "pending manager approval"},
	}}
	a := NewLeaveAgent(invoker, &fakeLLM{response: extractionJSON("annual", "2024-03-15", "2024-03-17", "family trip")}, discard())
	a.now = fixedNow

	outcome, err := a.Handle(context.Background(), submitTurn())
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if !strings.Contains(outcome.Reply, "LR-A1B2C3D4") {
		t.Errorf("reply missing request ID:\n%s", outcome.Reply)
	}
	if !strings.Contains(outcome.Reply, "pending manager approval") {
		t.Errorf("reply missing verbatim status:\n%s", outcome.Reply)
	}
	if !strings.Contains(outcome.Reply, "3 day(s)") {
		t.Errorf("inclusive day count wrong:\n%s", outcome.Reply)
	}
	if len(outcome.ToolCalls) != 2 {
		t.Fatalf("expected balance check then submit recorded, got %+v", outcome.ToolCalls)
	}
	if outcome.ToolCalls[1].Name != hr.ToolSubmitLeaveRequest || !outcome.ToolCalls[1].Result.Success {
		t.Errorf("submit call not recorded as success: %+v", outcome.ToolCalls[1])
	}
}

func TestSubmitValidationStopsBeforeAnyTool(t *testing.T) {
	tests := []struct {
		name       string
		extraction string
		wantReply  string
	}{
		{"unknown type", extractionJSON("sabbatical", "2024-03-15", "2024-03-17", "rest"), "not a recognized leave type"},
		{"bad start date", extractionJSON("annual", "March 15", "2024-03-17", "trip"), "start date"},
		{"bad end date", extractionJSON("annual", "2024-03-15", "soon", "trip"), "end date"},
		{"end before start", extractionJSON("annual", "2024-03-17", "2024-03-15", "trip"), "cannot be before"},
		{"starts in past", extractionJSON("annual", "2024-02-01", "2024-02-02", "trip"), "in the past"},
		{"missing reason", extractionJSON("annual", "2024-03-15", "2024-03-17", " "), "reason"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			invoker := &fakeInvoker{payloads: map[string]any{hr.ToolGetLeaveBalance: testBalance()}}
			a := NewLeaveAgent(invoker, &fakeLLM{response: tt.extraction}, discard())
			a.now = fixedNow

			outcome, err := a.Handle(context.Background(), submitTurn())
			if err != nil {
				t.Fatalf("Handle: %v", err)
			}
			if !strings.Contains(outcome.Reply, tt.wantReply) {
				t.Errorf("reply = %q, want it to mention %q", outcome.Reply, tt.wantReply)
			}
			if len(invoker.calls) != 0 {
				t.Errorf("validation failure still invoked tools: %v", invoker.calls)
			}
			if len(outcome.ToolCalls) != 0 {
				t.Errorf("validation failure recorded tool calls: %+v", outcome.ToolCalls)
			}
		})
	}
}

func TestSubmitInsufficientBalance(t *testing.T) {
	invoker := &fakeInvoker{payloads: map[string]any{hr.ToolGetLeaveBalance: testBalance()}}
	// 2024-03-10 to 2024-03-25 is 16 inclusive days against 12 available.
	a := NewLeaveAgent(invoker, &fakeLLM{response: extractionJSON("annual", "2024-03-10", "2024-03-25", "long trip")}, discard())
	a.now = fixedNow

	outcome, err := a.Handle(context.Background(), submitTurn())
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if !strings.Contains(outcome.Reply, "16 day(s)") || !strings.Contains(outcome.Reply, "12.0 day(s)") {
		t.Errorf("reply should state requested vs available days:\n%s", outcome.Reply)
	}
	for _, call := range invoker.calls {
		if call == hr.ToolSubmitLeaveRequest {
			t.Error("insufficient balance still reached the mutating tool")
		}
	}
}

func TestSubmitTimeoutReportsUnknownStatus(t *testing.T) {
	invoker := &fakeInvoker{
		payloads: map[string]any{hr.ToolGetLeaveBalance: testBalance()},
		errs: map[string]error{
			hr.ToolSubmitLeaveRequest: &tools.ExternalError{
				Tool: hr.ToolSubmitLeaveRequest, Transient: true, Err: context.DeadlineExceeded,
			},
		},
	}
	a := NewLeaveAgent(invoker, &fakeLLM{response: extractionJSON("sick", "2024-03-05", "2024-03-05", "doctor visit")}, discard())
	a.now = fixedNow

	outcome, err := a.Handle(context.Background(), submitTurn())
	if err != nil {
		t.Fatalf("uncertain submission must not be a handler error: %v", err)
	}

	if outcome.Reply != response.SubmitStatusUnknown {
		t.Errorf("Reply = %q, want the status-unknown message", outcome.Reply)
	}
	last := outcome.ToolCalls[len(outcome.ToolCalls)-1]
	if last.Name != hr.ToolSubmitLeaveRequest || last.Result.Success {
		t.Errorf("failed submission must be recorded as unsuccessful: %+v", last)
	}

	submits := 0
	for _, call := range invoker.calls {
		if call == hr.ToolSubmitLeaveRequest {
			submits++
		}
	}
	if submits != 1 {
		t.Errorf("submission attempted %d times, want exactly 1", submits)
	}
}

func TestSubmitPermanentFailurePropagates(t *testing.T) {
	invoker := &fakeInvoker{
		payloads: map[string]any{hr.ToolGetLeaveBalance: testBalance()},
		errs: map[string]error{
			hr.ToolSubmitLeaveRequest: &tools.ExternalError{
				Tool: hr.ToolSubmitLeaveRequest, Transient: false, Err: errors.New("422 unprocessable"),
			},
		},
	}
	a := NewLeaveAgent(invoker, &fakeLLM{response: extractionJSON("sick", "2024-03-05", "2024-03-05", "doctor visit")}, discard())
	a.now = fixedNow

	if _, err := a.Handle(context.Background(), submitTurn()); err == nil {
		t.Fatal("expected permanent submission failure to surface as an error")
	}
}

func TestSubmitExtractionFailureAsksForDetails(t *testing.T) {
	invoker := &fakeInvoker{}
	a := NewLeaveAgent(invoker, &fakeLLM{err: errors.New("model down")}, discard())

	outcome, err := a.Handle(context.Background(), submitTurn())
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(outcome.Reply, "leave type") {
		t.Errorf("reply should ask for the missing details:\n%s", outcome.Reply)
	}
	if len(invoker.calls) != 0 {
		t.Errorf("extraction failure still invoked tools: %v", invoker.calls)
	}
}
