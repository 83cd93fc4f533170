package router

import (
	"hr-assistant-be/pkg/rag/agent"
	"hr-assistant-be/pkg/rag/intent"
)

// Router maps every intent label to exactly one handler. The mapping is
// total over the closed label set, so routing can never fail: anything
// unmapped (including a corrupted label) lands on the clarification handler.
type Router struct {
	handlers map[intent.Intent]agent.Handler
	fallback agent.Handler
}

func NewRouter(policy, leave, payroll agent.Handler) *Router {
	clarify := agent.NewClarifyAgent()
	return &Router{
		handlers: map[intent.Intent]agent.Handler{
			intent.IntentPolicyQuestion: policy,
			intent.IntentLeaveBalance:   leave,
			intent.IntentLeaveSubmit:    leave,
			intent.IntentPayrollInquiry: payroll,
			intent.IntentUnknown:        clarify,
		},
		fallback: clarify,
	}
}

// Route returns the handler for the label.
func (r *Router) Route(label intent.Intent) agent.Handler {
	if h, ok := r.handlers[label]; ok {
		return h
	}
	return r.fallback
}
