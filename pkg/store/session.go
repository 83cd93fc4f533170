package store

import "time"

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ToolCall records one structured invocation of an external HR operation.
// It is immutable once the turn that produced it has been appended.
type ToolCall struct {
	Name   string         `json:"name"`
	Args   map[string]any `json:"args"`
	Result ToolResult     `json:"result"`
}

// ToolResult captures either the success payload or the error descriptor
// of an executed tool call. Success and Error are mutually exclusive.
type ToolResult struct {
	Success bool   `json:"success"`
	Payload any    `json:"payload,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Message is one entry in a conversation. Messages are append-only: once
// part of a Session they are never modified.
type Message struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	Timestamp time.Time  `json:"timestamp"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

// Session holds the ordered history of one conversation thread.
// ThreadID is the sole identity; one Session exists per thread.
type Session struct {
	ThreadID   string    `json:"thread_id"`
	EmployeeID string    `json:"employee_id"`
	Messages   []Message `json:"messages"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewSession creates an empty session bound to an employee.
func NewSession(threadID, employeeID string) *Session {
	now := time.Now()
	return &Session{
		ThreadID:   threadID,
		EmployeeID: employeeID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Append adds messages in conversation order.
func (s *Session) Append(msgs ...Message) {
	s.Messages = append(s.Messages, msgs...)
	s.UpdatedAt = time.Now()
}

// Window returns up to n most recent messages, oldest first.
func (s *Session) Window(n int) []Message {
	if n <= 0 || len(s.Messages) <= n {
		return s.Messages
	}
	return s.Messages[len(s.Messages)-n:]
}
