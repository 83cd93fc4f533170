package tools

import "fmt"

// UnknownToolError is returned when a name has no registry entry.
// No external call is made.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool: %s", e.Name)
}

// ValidationError is an argument-schema or business-rule violation,
// detected before any external call.
type ValidationError struct {
	Tool   string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("tool %s: invalid arguments: %s", e.Tool, e.Reason)
}

// ExternalError wraps a failure from the external operation itself.
// Transient failures were already retried (for non-mutating tools) before
// this error surfaces.
type ExternalError struct {
	Tool      string
	Transient bool
	Err       error
}

func (e *ExternalError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("tool %s: %s external failure: %v", e.Tool, kind, e.Err)
}

func (e *ExternalError) Unwrap() error {
	return e.Err
}
