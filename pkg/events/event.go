package events

import "time"

// Topics for the internal event bus and the NATS bridge.
const (
	TopicTurnCompleted  = "assistant.turn.completed"
	TopicLeaveSubmitted = "assistant.leave.submitted"
	TopicIndexRebuilt   = "assistant.index.rebuilt"
)

// TurnCompleted is emitted after a conversation turn has been delivered,
// including apology turns. Reply text is not carried; subscribers that
// need it read the session.
type TurnCompleted struct {
	ThreadID   string    `json:"thread_id"`
	EmployeeID string    `json:"employee_id"`
	Intent     string    `json:"intent"`
	State      string    `json:"state"`
	ToolCalls  int       `json:"tool_calls"`
	DurationMs int64     `json:"duration_ms"`
	OccurredAt time.Time `json:"occurred_at"`
}

// LeaveSubmitted is emitted when a leave request reached the HR system
// and was acknowledged.
type LeaveSubmitted struct {
	EmployeeID string    `json:"employee_id"`
	RequestID  string    `json:"request_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// IndexRebuilt is emitted after a successful knowledge base rebuild.
type IndexRebuilt struct {
	Chunks     int       `json:"chunks"`
	DurationMs int64     `json:"duration_ms"`
	OccurredAt time.Time `json:"occurred_at"`
}
