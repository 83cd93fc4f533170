package agent

import (
	"context"

	"hr-assistant-be/pkg/rag/intent"
	"hr-assistant-be/pkg/store"
)

// Turn is one user message plus the context a handler needs to answer it.
type Turn struct {
	EmployeeID string
	ThreadID   string
	Message    string
	Intent     intent.Intent
	History    []store.Message
}

// Outcome is a handler's natural-language reply plus the record of every
// tool call it made, successful or not.
type Outcome struct {
	Reply     string
	ToolCalls []store.ToolCall
}

// Handler answers one labeled turn. A returned error means the handler
// could not produce a user-facing reply; recoverable conditions (validation
// failures, empty retrieval, uncertain submissions) come back as an Outcome
// with an explanatory reply instead.
type Handler interface {
	Handle(ctx context.Context, turn *Turn) (*Outcome, error)
}
