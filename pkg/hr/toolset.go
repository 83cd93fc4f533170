package hr

import (
	"context"

	"hr-assistant-be/pkg/tools"
)

// Tool names in the fixed registry.
const (
	ToolGetLeaveBalance    = "get_leave_balance"
	ToolSubmitLeaveRequest = "submit_leave_request"
	ToolGetPayStubs        = "get_pay_stubs"
)

// Argument schemas. Validator tags are the single source of truth checked
// by the tool registry before any call leaves the process.

type GetLeaveBalanceArgs struct {
	EmployeeID string `json:"employee_id" validate:"required"`
}

type SubmitLeaveRequestArgs struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Type       string `json:"type" validate:"required,oneof=annual sick personal maternity paternity"`
	StartDate  string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason     string `json:"reason" validate:"required"`
}

type GetPayStubsArgs struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Months     int    `json:"months" validate:"omitempty,min=1,max=24"`
}

// RegisterTools wires the HR operations into the registry. Submission is
// the only mutating operation.
func RegisterTools(reg *tools.Registry, client *Client) {
	reg.Register(&tools.Tool{
		Name:    ToolGetLeaveBalance,
		NewArgs: func() any { return &GetLeaveBalanceArgs{} },
		Run: func(ctx context.Context, args any, _ tools.Meta) (any, error) {
			a := args.(*GetLeaveBalanceArgs)
			return client.GetLeaveBalance(ctx, a.EmployeeID)
		},
	})

	reg.Register(&tools.Tool{
		Name:     ToolSubmitLeaveRequest,
		Mutating: true,
		NewArgs:  func() any { return &SubmitLeaveRequestArgs{} },
		Run: func(ctx context.Context, args any, meta tools.Meta) (any, error) {
			a := args.(*SubmitLeaveRequestArgs)
			return client.SubmitLeaveRequest(ctx, &LeaveRequest{
				EmployeeID: a.EmployeeID,
				Type:       a.Type,
				StartDate:  a.StartDate,
				EndDate:    a.EndDate,
				Reason:     a.Reason,
			}, meta.IdempotencyKey)
		},
	})

	reg.Register(&tools.Tool{
		Name:    ToolGetPayStubs,
		NewArgs: func() any { return &GetPayStubsArgs{} },
		Run: func(ctx context.Context, args any, _ tools.Meta) (any, error) {
			a := args.(*GetPayStubsArgs)
			return client.GetPayStubs(ctx, a.EmployeeID, a.Months)
		},
	})
}
