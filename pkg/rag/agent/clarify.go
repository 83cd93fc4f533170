package agent

import (
	"context"

	"hr-assistant-be/pkg/rag/response"
)

// ClarifyAgent handles unrecognized turns with a capability overview. It
// runs no tools and no retrieval.
type ClarifyAgent struct{}

var _ Handler = ClarifyAgent{}

func NewClarifyAgent() ClarifyAgent { return ClarifyAgent{} }

func (ClarifyAgent) Handle(_ context.Context, _ *Turn) (*Outcome, error) {
	return &Outcome{Reply: response.Clarification}, nil
}
