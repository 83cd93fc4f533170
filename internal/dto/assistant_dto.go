package dto

import "time"

type ChatRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Message    string `json:"message" validate:"required,max=4000"`
	ThreadID   string `json:"thread_id,omitempty"`
}

type ToolCallDTO struct {
	Name    string                 `json:"name"`
	Args    map[string]interface{} `json:"args"`
	Success bool                   `json:"success"`
}

type ChatResponse struct {
	ThreadID   string        `json:"thread_id"`
	EmployeeID string        `json:"employee_id"`
	Response   string        `json:"response"`
	Intent     string        `json:"intent"`
	ToolCalls  []ToolCallDTO `json:"tool_calls,omitempty"`
}

type ResetSessionRequest struct {
	ThreadID string `json:"thread_id" validate:"required"`
}

type HistoryMessageDTO struct {
	Role      string        `json:"role"`
	Content   string        `json:"content"`
	Timestamp time.Time     `json:"timestamp"`
	ToolCalls []ToolCallDTO `json:"tool_calls,omitempty"`
}

type GetHistoryResponse struct {
	ThreadID string              `json:"thread_id"`
	Messages []HistoryMessageDTO `json:"messages"`
}

type RefreshIndexResponse struct {
	Chunks     int   `json:"chunks"`
	DurationMs int64 `json:"duration_ms"`
}
