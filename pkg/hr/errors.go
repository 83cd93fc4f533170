package hr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx answer from the HR system.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hr api error: status %d, body: %s", e.StatusCode, e.Body)
}

// Transient reports whether the call may be retried safely from the
// protocol's point of view: timeouts, rate limits and 5xx answers.
// Whether a retry actually happens is decided by the tool layer.
func (e *APIError) Transient() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsTransient classifies any error from the HR client.
func IsTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Transient()
	}
	// Network-level timeouts are transient.
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return false
}
