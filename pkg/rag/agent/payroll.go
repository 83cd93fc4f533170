package agent

import (
	"context"
	"fmt"
	"log"
	"strings"

	"hr-assistant-be/pkg/hr"
	"hr-assistant-be/pkg/store"
)

// DefaultPayStubMonths bounds the lookback window when the user does not
// ask for a specific range.
const DefaultPayStubMonths = 6

// PayrollAgent answers pay stub inquiries. Read-only: it never touches a
// mutating tool.
type PayrollAgent struct {
	invoker Invoker
	logger  *log.Logger

	Months int
}

var _ Handler = &PayrollAgent{}

func NewPayrollAgent(invoker Invoker, logger *log.Logger) *PayrollAgent {
	return &PayrollAgent{
		invoker: invoker,
		logger:  logger,
		Months:  DefaultPayStubMonths,
	}
}

func (a *PayrollAgent) Handle(ctx context.Context, turn *Turn) (*Outcome, error) {
	args := map[string]any{
		"employee_id": turn.EmployeeID,
		"months":      a.Months,
	}

	payload, err := a.invoker.Invoke(ctx, hr.ToolGetPayStubs, args)
	if err != nil {
		return nil, fmt.Errorf("pay stub lookup for %s: %w", turn.EmployeeID, err)
	}

	stubs, ok := payload.([]hr.PayStub)
	if !ok {
		return nil, fmt.Errorf("pay stub lookup: unexpected payload type %T", payload)
	}

	return &Outcome{
		Reply: formatPayStubs(turn.EmployeeID, stubs, a.Months),
		ToolCalls: []store.ToolCall{{
			Name:   hr.ToolGetPayStubs,
			Args:   args,
			Result: store.ToolResult{Success: true, Payload: stubs},
		}},
	}, nil
}

func formatPayStubs(employeeID string, stubs []hr.PayStub, months int) string {
	if len(stubs) == 0 {
		return fmt.Sprintf("No pay stubs were found for the last %d months.", months)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("Pay stubs for %s (last %d months):\n", employeeID, months))
	for _, stub := range stubs {
		b.WriteString(fmt.Sprintf("\n%s\n", stub.Period))
		b.WriteString(fmt.Sprintf("  Gross pay: $%.2f\n", stub.Gross))
		for _, d := range stub.Deductions {
			b.WriteString(fmt.Sprintf("  - %s: $%.2f\n", d.Name, d.Amount))
		}
		b.WriteString(fmt.Sprintf("  Net pay: $%.2f\n", stub.Net))
	}
	return strings.TrimRight(b.String(), "\n")
}
