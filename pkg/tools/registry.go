package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Meta carries per-invocation data into an operation.
type Meta struct {
	// IdempotencyKey is set for mutating tools only. It is generated once
	// per invocation so the external system can deduplicate, since the
	// registry never retries a mutating call.
	IdempotencyKey string
}

// Operation executes the external call. args is the validated pointer
// returned by Tool.NewArgs.
type Operation func(ctx context.Context, args any, meta Meta) (any, error)

// Tool is one fixed registry entry.
type Tool struct {
	Name     string
	Mutating bool
	// NewArgs returns a pointer to the argument struct; validator tags on
	// the struct define the schema.
	NewArgs func() any
	Run     Operation
}

// Registry maps tool names to operations and enforces the invocation
// policy in one place: argument validation before any network call, a
// timeout per attempt, bounded retry with backoff for idempotent tools,
// and never an automatic retry for mutating tools.
type Registry struct {
	tools     map[string]*Tool
	validate  *validator.Validate
	timeout   time.Duration
	maxTries  uint
	transient func(error) bool
	logger    *log.Logger
}

func NewRegistry(timeout time.Duration, maxTries uint, transient func(error) bool, logger *log.Logger) *Registry {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if maxTries == 0 {
		maxTries = 3
	}
	if transient == nil {
		transient = func(error) bool { return false }
	}
	return &Registry{
		tools:     make(map[string]*Tool),
		validate:  validator.New(),
		timeout:   timeout,
		maxTries:  maxTries,
		transient: transient,
		logger:    logger,
	}
}

func (r *Registry) Register(t *Tool) {
	if _, exists := r.tools[t.Name]; exists {
		panic("tools: duplicate registration of " + t.Name)
	}
	r.tools[t.Name] = t
}

// Names returns the registered tool names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	return names
}

// Mutating reports whether a registered tool mutates external state.
func (r *Registry) Mutating(name string) bool {
	t, ok := r.tools[name]
	return ok && t.Mutating
}

// Invoke validates args against the tool's schema and dispatches the call.
// Unknown names and malformed arguments are rejected without any network
// traffic.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (any, error) {
	tool, ok := r.tools[name]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}

	typed, err := r.decodeArgs(tool, args)
	if err != nil {
		return nil, err
	}

	meta := Meta{}
	if tool.Mutating {
		meta.IdempotencyKey = uuid.NewString()
	}

	if tool.Mutating {
		return r.invokeOnce(ctx, tool, typed, meta)
	}
	return r.invokeWithRetry(ctx, tool, typed, meta)
}

func (r *Registry) decodeArgs(tool *Tool, args map[string]any) (any, error) {
	raw, err := json.Marshal(args)
	if err != nil {
		return nil, &ValidationError{Tool: tool.Name, Reason: err.Error()}
	}

	typed := tool.NewArgs()
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(typed); err != nil {
		return nil, &ValidationError{Tool: tool.Name, Reason: err.Error()}
	}

	if err := r.validate.Struct(typed); err != nil {
		return nil, &ValidationError{Tool: tool.Name, Reason: err.Error()}
	}
	return typed, nil
}

// invokeOnce runs a mutating tool exactly one time. A timeout here is
// surfaced as a transient ExternalError so callers can report an uncertain
// outcome, but no retry ever happens.
func (r *Registry) invokeOnce(ctx context.Context, tool *Tool, args any, meta Meta) (any, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	payload, err := tool.Run(attemptCtx, args, meta)
	if err != nil {
		r.logger.Printf("[TOOLS] %s failed (mutating, no retry): %v", tool.Name, err)
		return nil, &ExternalError{Tool: tool.Name, Transient: r.transient(err), Err: err}
	}
	return payload, nil
}

func (r *Registry) invokeWithRetry(ctx context.Context, tool *Tool, args any, meta Meta) (any, error) {
	attempt := 0
	op := func() (any, error) {
		attempt++
		attemptCtx, cancel := context.WithTimeout(ctx, r.timeout)
		defer cancel()

		payload, err := tool.Run(attemptCtx, args, meta)
		if err != nil {
			if !r.transient(err) {
				return nil, backoff.Permanent(err)
			}
			r.logger.Printf("[TOOLS] %s attempt %d transient failure: %v", tool.Name, attempt, err)
			return nil, err
		}
		return payload, nil
	}

	payload, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(r.maxTries),
	)
	if err != nil {
		cause := err
		transient := true
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			transient = false
			if inner := perm.Unwrap(); inner != nil {
				cause = inner
			}
		}
		return nil, &ExternalError{Tool: tool.Name, Transient: transient, Err: cause}
	}
	return payload, nil
}
