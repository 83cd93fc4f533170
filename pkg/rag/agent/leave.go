package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"hr-assistant-be/pkg/hr"
	"hr-assistant-be/pkg/llm"
	"hr-assistant-be/pkg/rag/intent"
	"hr-assistant-be/pkg/rag/response"
	"hr-assistant-be/pkg/store"
	"hr-assistant-be/pkg/tools"
)

// Invoker is the slice of the tool registry the agents use.
type Invoker interface {
	Invoke(ctx context.Context, name string, args map[string]any) (any, error)
}

// LeaveAgent serves both leave sub-operations: balance lookups and
// request submissions. Submission arguments are extracted from free text
// by the model, then validated here before the mutating call; validation
// failures produce a corrective reply and never reach the HR system.
type LeaveAgent struct {
	invoker     Invoker
	llmProvider llm.LLMProvider
	logger      *log.Logger

	// now is injectable for date-boundary tests.
	now func() time.Time
}

var _ Handler = &LeaveAgent{}

func NewLeaveAgent(invoker Invoker, llmProvider llm.LLMProvider, logger *log.Logger) *LeaveAgent {
	return &LeaveAgent{
		invoker:     invoker,
		llmProvider: llmProvider,
		logger:      logger,
		now:         time.Now,
	}
}

func (a *LeaveAgent) Handle(ctx context.Context, turn *Turn) (*Outcome, error) {
	switch turn.Intent {
	case intent.IntentLeaveSubmit:
		return a.handleSubmit(ctx, turn)
	default:
		return a.handleBalance(ctx, turn)
	}
}

// --- Balance ---

func (a *LeaveAgent) handleBalance(ctx context.Context, turn *Turn) (*Outcome, error) {
	args := map[string]any{"employee_id": turn.EmployeeID}

	payload, err := a.invoker.Invoke(ctx, hr.ToolGetLeaveBalance, args)
	if err != nil {
		// An unknown employee (or any lookup failure) surfaces loudly.
		return nil, fmt.Errorf("leave balance lookup for %s: %w", turn.EmployeeID, err)
	}

	balance, ok := payload.(*hr.LeaveBalance)
	if !ok {
		return nil, fmt.Errorf("leave balance lookup: unexpected payload type %T", payload)
	}

	return &Outcome{
		Reply: formatBalance(balance),
		ToolCalls: []store.ToolCall{{
			Name:   hr.ToolGetLeaveBalance,
			Args:   args,
			Result: store.ToolResult{Success: true, Payload: balance},
		}},
	}, nil
}

// formatBalance lists every known category, including zero-day ones.
func formatBalance(balance *hr.LeaveBalance) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("Leave balance for %s:\n", balance.EmployeeID))

	total := 0.0
	for _, category := range hr.LeaveTypes {
		days := balance.Categories[category]
		total += days
		b.WriteString(fmt.Sprintf("- %s leave: %.1f days\n", capitalize(category), days))
	}
	b.WriteString(fmt.Sprintf("\nTotal available: %.1f days", total))
	return b.String()
}

// --- Submit ---

// submitArgs is the model-extracted candidate argument set. It is only a
// candidate: dispatch happens exclusively through the validated registry.
type submitArgs struct {
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Reason    string `json:"reason"`
}

func (a *LeaveAgent) handleSubmit(ctx context.Context, turn *Turn) (*Outcome, error) {
	extracted, err := a.extractArgs(ctx, turn.Message)
	if err != nil {
		a.logger.Printf("[LEAVE] Argument extraction failed: %v", err)
		return &Outcome{Reply: "To submit a leave request I need the leave type (annual, sick, personal, maternity or paternity), the start and end dates (YYYY-MM-DD), and a short reason. Could you provide those?"}, nil
	}

	if corrective := a.validateSubmit(extracted); corrective != "" {
		return &Outcome{Reply: corrective}, nil
	}

	start, _ := time.Parse("2006-01-02", extracted.StartDate)
	end, _ := time.Parse("2006-01-02", extracted.EndDate)
	daysRequested := end.Sub(start).Hours()/24 + 1

	// Balance sufficiency check before the mutating call.
	balanceArgs := map[string]any{"employee_id": turn.EmployeeID}
	payload, err := a.invoker.Invoke(ctx, hr.ToolGetLeaveBalance, balanceArgs)
	if err != nil {
		return nil, fmt.Errorf("pre-submit balance check for %s: %w", turn.EmployeeID, err)
	}
	balance := payload.(*hr.LeaveBalance)
	calls := []store.ToolCall{{
		Name:   hr.ToolGetLeaveBalance,
		Args:   balanceArgs,
		Result: store.ToolResult{Success: true, Payload: balance},
	}}

	available := balance.Categories[extracted.Type]
	if daysRequested > available {
		return &Outcome{
			Reply: fmt.Sprintf("You requested %.0f day(s) of %s leave but only %.1f day(s) are available. Please adjust the dates or pick another leave type.",
				daysRequested, extracted.Type, available),
			ToolCalls: calls,
		}, nil
	}

	submitToolArgs := map[string]any{
		"employee_id": turn.EmployeeID,
		"type":        extracted.Type,
		"start_date":  extracted.StartDate,
		"end_date":    extracted.EndDate,
		"reason":      extracted.Reason,
	}

	payload, err = a.invoker.Invoke(ctx, hr.ToolSubmitLeaveRequest, submitToolArgs)
	if err != nil {
		var extErr *tools.ExternalError
		if errors.As(err, &extErr) && extErr.Transient {
			// Timed out or transport failure: the outcome is unknown and a
			// blind retry could duplicate the request. Record the failure
			// and tell the user to verify.
			a.logger.Printf("[LEAVE] Submission outcome uncertain: %v", err)
			calls = append(calls, store.ToolCall{
				Name:   hr.ToolSubmitLeaveRequest,
				Args:   submitToolArgs,
				Result: store.ToolResult{Success: false, Error: err.Error()},
			})
			return &Outcome{Reply: response.SubmitStatusUnknown, ToolCalls: calls}, nil
		}
		return nil, fmt.Errorf("submit leave request: %w", err)
	}

	receipt := payload.(*hr.LeaveReceipt)
	calls = append(calls, store.ToolCall{
		Name:   hr.ToolSubmitLeaveRequest,
		Args:   submitToolArgs,
		Result: store.ToolResult{Success: true, Payload: receipt},
	})

	return &Outcome{
		Reply: fmt.Sprintf("Leave request submitted.\n\nRequest ID: %s\nType: %s leave\nDates: %s to %s (%.0f day(s))\nStatus: %s",
			receipt.RequestID, capitalize(extracted.Type), extracted.StartDate, extracted.EndDate, daysRequested, receipt.Status),
		ToolCalls: calls,
	}, nil
}

// validateSubmit returns a corrective message for the user, or "" when the
// candidate arguments pass every business rule.
func (a *LeaveAgent) validateSubmit(args *submitArgs) string {
	args.Type = strings.ToLower(strings.TrimSpace(args.Type))
	if !hr.ValidLeaveType(args.Type) {
		return fmt.Sprintf("%q is not a recognized leave type. Valid types are: %s.", args.Type, strings.Join(hr.LeaveTypes, ", "))
	}

	start, err := time.Parse("2006-01-02", args.StartDate)
	if err != nil {
		return fmt.Sprintf("I couldn't read the start date %q. Please use YYYY-MM-DD format (e.g. 2024-03-15).", args.StartDate)
	}
	end, err := time.Parse("2006-01-02", args.EndDate)
	if err != nil {
		return fmt.Sprintf("I couldn't read the end date %q. Please use YYYY-MM-DD format (e.g. 2024-03-17).", args.EndDate)
	}

	if end.Before(start) {
		return "The end date cannot be before the start date."
	}

	today := a.now().Truncate(24 * time.Hour)
	if start.Before(today) {
		return "Leave requests cannot start in the past."
	}

	if strings.TrimSpace(args.Reason) == "" {
		return "Please include a short reason for the leave request."
	}
	return ""
}

func (a *LeaveAgent) extractArgs(ctx context.Context, message string) (*submitArgs, error) {
	var prompt strings.Builder
	prompt.WriteString("Extract the leave request details from the user's message.\n")
	prompt.WriteString(fmt.Sprintf("Today's date is %s.\n\n", a.now().Format("2006-01-02")))
	prompt.WriteString("<user_message>\n")
	prompt.WriteString(message)
	prompt.WriteString("\n</user_message>\n\n")
	prompt.WriteString("Respond with ONLY valid JSON:\n")
	prompt.WriteString("{\n")
	prompt.WriteString("  \"type\": \"annual|sick|personal|maternity|paternity\",\n")
	prompt.WriteString("  \"start_date\": \"YYYY-MM-DD\",\n")
	prompt.WriteString("  \"end_date\": \"YYYY-MM-DD\",\n")
	prompt.WriteString("  \"reason\": \"short reason\"\n")
	prompt.WriteString("}\n")
	prompt.WriteString("Use empty strings for anything the message does not state.")

	raw, err := a.llmProvider.Generate(ctx, prompt.String(), llm.WithTemperature(0.0))
	if err != nil {
		return nil, fmt.Errorf("extraction call: %w", err)
	}

	jsonContent := extractJSON(raw)
	if jsonContent == "" {
		return nil, fmt.Errorf("no JSON in extraction response")
	}

	var args submitArgs
	if err := json.Unmarshal([]byte(jsonContent), &args); err != nil {
		return nil, fmt.Errorf("unmarshal extraction: %w", err)
	}
	return &args, nil
}

func extractJSON(response string) string {
	startIdx := strings.Index(response, "{")
	endIdx := strings.LastIndex(response, "}")
	if startIdx == -1 || endIdx == -1 || endIdx <= startIdx {
		return ""
	}
	return response[startIdx : endIdx+1]
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
