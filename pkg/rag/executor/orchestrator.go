package executor

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"hr-assistant-be/pkg/events"
	"hr-assistant-be/pkg/rag/agent"
	"hr-assistant-be/pkg/rag/intent"
	"hr-assistant-be/pkg/rag/response"
	"hr-assistant-be/pkg/store"
)

// TurnState tracks a turn through its lifecycle. Transitions are strictly
// forward; Errored is reachable from any state.
type TurnState string

const (
	StateReceived     TurnState = "received"
	StateClassified   TurnState = "classified"
	StateRouted       TurnState = "routed"
	StateToolPending  TurnState = "tool_pending"
	StateToolResolved TurnState = "tool_resolved"
	StateSynthesized  TurnState = "synthesized"
	StateDelivered    TurnState = "delivered"
	StateErrored      TurnState = "errored"
)

// SessionRepository persists conversation threads. Get returns (nil, nil)
// for a thread that does not exist yet.
type SessionRepository interface {
	Get(ctx context.Context, threadID string) (*store.Session, error)
	Save(ctx context.Context, session *store.Session) error
	Delete(ctx context.Context, threadID string) error
}

// Classifier labels one turn against the bounded history window.
type Classifier interface {
	Classify(ctx context.Context, message string, history []store.Message) *intent.Result
}

// Router resolves a label to its handler.
type Router interface {
	Route(label intent.Intent) agent.Handler
}

// EventSink receives turn lifecycle events. Publishing is fire-and-forget
// from the orchestrator's point of view.
type EventSink interface {
	TurnCompleted(event *events.TurnCompleted)
}

// Request is one inbound user turn.
type Request struct {
	EmployeeID string
	ThreadID   string
	Message    string
}

// Reply is the delivered result of a turn.
type Reply struct {
	ThreadID   string
	EmployeeID string
	Response   string
	Intent     intent.Intent
	State      TurnState
	ToolCalls  []store.ToolCall
}

// Orchestrator drives each turn through classify, route, handle and
// persist. Turns on the same thread are serialized; turns on different
// threads run concurrently.
type Orchestrator struct {
	classifier Classifier
	router     Router
	sessions   SessionRepository
	sink       EventSink
	logger     *log.Logger

	// HistoryWindow bounds how much history the classifier and handlers see.
	HistoryWindow int
	// TurnTimeout bounds a whole turn once it has been accepted.
	TurnTimeout time.Duration

	mu      sync.Mutex
	threads map[string]*sync.Mutex
}

func NewOrchestrator(classifier Classifier, router Router, sessions SessionRepository, sink EventSink, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		classifier:    classifier,
		router:        router,
		sessions:      sessions,
		sink:          sink,
		logger:        logger,
		HistoryWindow: 10,
		TurnTimeout:   60 * time.Second,
		threads:       make(map[string]*sync.Mutex),
	}
}

// HandleTurn processes one user message to completion. Handler failures
// never surface to the caller: the turn is delivered as an apology and the
// exchange is still recorded, so the history stays unambiguous. Only
// persistence failures return an error.
func (o *Orchestrator) HandleTurn(ctx context.Context, req *Request) (*Reply, error) {
	started := time.Now()

	if req.ThreadID == "" {
		req.ThreadID = uuid.New().String()
	}

	lock := o.threadLock(req.ThreadID)
	lock.Lock()
	defer lock.Unlock()

	// Once accepted, a turn runs to completion even if the caller goes
	// away. A half-applied turn (tool executed, session not updated)
	// would be worse than a slow response.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.TurnTimeout)
	defer cancel()

	state := StateReceived

	session, err := o.sessions.Get(ctx, req.ThreadID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", req.ThreadID, err)
	}
	if session == nil {
		session = store.NewSession(req.ThreadID, req.EmployeeID)
	}

	history := session.Window(o.HistoryWindow)

	result := o.classifier.Classify(ctx, req.Message, history)
	o.step(req.ThreadID, &state, StateClassified)
	o.logger.Printf("[ORCHESTRATOR] thread=%s intent=%s confidence=%.2f", req.ThreadID, result.Intent, result.Confidence)

	handler := o.router.Route(result.Intent)
	o.step(req.ThreadID, &state, StateRouted)

	outcome, err := handler.Handle(ctx, &agent.Turn{
		EmployeeID: req.EmployeeID,
		ThreadID:   req.ThreadID,
		Message:    req.Message,
		Intent:     result.Intent,
		History:    history,
	})
	if err != nil {
		o.step(req.ThreadID, &state, StateErrored)
		o.logger.Printf("[ORCHESTRATOR] thread=%s handler failed: %v", req.ThreadID, err)
		outcome = &agent.Outcome{Reply: response.Apology}
	} else {
		if len(outcome.ToolCalls) > 0 {
			o.step(req.ThreadID, &state, StateToolResolved)
		}
		o.step(req.ThreadID, &state, StateSynthesized)
	}

	session.Append(
		store.Message{Role: store.RoleUser, Content: req.Message, Timestamp: started},
		store.Message{Role: store.RoleAssistant, Content: outcome.Reply, Timestamp: time.Now(), ToolCalls: outcome.ToolCalls},
	)
	if err := o.sessions.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session %s: %w", req.ThreadID, err)
	}
	if state != StateErrored {
		o.step(req.ThreadID, &state, StateDelivered)
	}

	o.publish(req, result.Intent, state, len(outcome.ToolCalls), started)

	return &Reply{
		ThreadID:   req.ThreadID,
		EmployeeID: req.EmployeeID,
		Response:   outcome.Reply,
		Intent:     result.Intent,
		State:      state,
		ToolCalls:  outcome.ToolCalls,
	}, nil
}

// History returns the stored messages for a thread, oldest first.
func (o *Orchestrator) History(ctx context.Context, threadID string) ([]store.Message, error) {
	session, err := o.sessions.Get(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("load session %s: %w", threadID, err)
	}
	if session == nil {
		return nil, nil
	}
	return session.Messages, nil
}

// Reset discards a thread's history.
func (o *Orchestrator) Reset(ctx context.Context, threadID string) error {
	lock := o.threadLock(threadID)
	lock.Lock()
	defer lock.Unlock()

	if err := o.sessions.Delete(ctx, threadID); err != nil {
		return fmt.Errorf("delete session %s: %w", threadID, err)
	}
	return nil
}

func (o *Orchestrator) publish(req *Request, label intent.Intent, state TurnState, toolCalls int, started time.Time) {
	if o.sink == nil {
		return
	}
	o.sink.TurnCompleted(&events.TurnCompleted{
		ThreadID:   req.ThreadID,
		EmployeeID: req.EmployeeID,
		Intent:     string(label),
		State:      string(state),
		ToolCalls:  toolCalls,
		DurationMs: time.Since(started).Milliseconds(),
		OccurredAt: time.Now(),
	})
}

func (o *Orchestrator) step(threadID string, state *TurnState, next TurnState) {
	*state = next
	o.logger.Printf("[ORCHESTRATOR] thread=%s state=%s", threadID, next)
}

func (o *Orchestrator) threadLock(threadID string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	lock, ok := o.threads[threadID]
	if !ok {
		lock = &sync.Mutex{}
		o.threads[threadID] = lock
	}
	return lock
}
