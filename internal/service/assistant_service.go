package service

import (
	"context"
	"time"

	"hr-assistant-be/internal/dto"
	"hr-assistant-be/internal/pkg/logger"
	"hr-assistant-be/pkg/events"
	"hr-assistant-be/pkg/hr"
	"hr-assistant-be/pkg/indexer"
	"hr-assistant-be/pkg/rag/executor"
	"hr-assistant-be/pkg/store"
)

type IAssistantService interface {
	Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error)
	GetHistory(ctx context.Context, threadID string) (*dto.GetHistoryResponse, error)
	ResetSession(ctx context.Context, threadID string) error
	RefreshIndex(ctx context.Context) (*dto.RefreshIndexResponse, error)
}

type assistantService struct {
	orchestrator *executor.Orchestrator
	indexer      *indexer.Indexer
	publisher    IPublisherService
	sysLogger    logger.ILogger
}

func NewAssistantService(orchestrator *executor.Orchestrator, ix *indexer.Indexer, publisher IPublisherService, sysLogger logger.ILogger) IAssistantService {
	return &assistantService{
		orchestrator: orchestrator,
		indexer:      ix,
		publisher:    publisher,
		sysLogger:    sysLogger,
	}
}

func (s *assistantService) Chat(ctx context.Context, request *dto.ChatRequest) (*dto.ChatResponse, error) {
	reply, err := s.orchestrator.HandleTurn(ctx, &executor.Request{
		EmployeeID: request.EmployeeID,
		ThreadID:   request.ThreadID,
		Message:    request.Message,
	})
	if err != nil {
		s.sysLogger.Error("ASSISTANT", "Turn failed", map[string]interface{}{
			"thread_id":   request.ThreadID,
			"employee_id": request.EmployeeID,
			"error":       err.Error(),
		})
		return nil, err
	}

	s.sysLogger.Info("ASSISTANT", "Turn delivered", map[string]interface{}{
		"thread_id": reply.ThreadID,
		"intent":    string(reply.Intent),
		"state":     string(reply.State),
	})
	s.announceSubmissions(request.EmployeeID, reply.ToolCalls)

	return &dto.ChatResponse{
		ThreadID:   reply.ThreadID,
		EmployeeID: reply.EmployeeID,
		Response:   reply.Response,
		Intent:     string(reply.Intent),
		ToolCalls:  toToolCallDTOs(reply.ToolCalls),
	}, nil
}

func (s *assistantService) GetHistory(ctx context.Context, threadID string) (*dto.GetHistoryResponse, error) {
	messages, err := s.orchestrator.History(ctx, threadID)
	if err != nil {
		return nil, err
	}

	res := &dto.GetHistoryResponse{
		ThreadID: threadID,
		Messages: make([]dto.HistoryMessageDTO, 0, len(messages)),
	}
	for _, msg := range messages {
		res.Messages = append(res.Messages, dto.HistoryMessageDTO{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
			ToolCalls: toToolCallDTOs(msg.ToolCalls),
		})
	}
	return res, nil
}

func (s *assistantService) ResetSession(ctx context.Context, threadID string) error {
	if err := s.orchestrator.Reset(ctx, threadID); err != nil {
		return err
	}
	s.sysLogger.Info("ASSISTANT", "Session reset", map[string]interface{}{"thread_id": threadID})
	return nil
}

func (s *assistantService) RefreshIndex(ctx context.Context) (*dto.RefreshIndexResponse, error) {
	started := time.Now()

	chunks, err := s.indexer.Rebuild(ctx)
	if err != nil {
		s.sysLogger.Error("ASSISTANT", "Index rebuild failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	duration := time.Since(started)
	s.sysLogger.Info("ASSISTANT", "Index rebuilt", map[string]interface{}{
		"chunks":      chunks,
		"duration_ms": duration.Milliseconds(),
	})
	s.publisher.IndexRebuilt(&events.IndexRebuilt{
		Chunks:     chunks,
		DurationMs: duration.Milliseconds(),
		OccurredAt: time.Now(),
	})

	return &dto.RefreshIndexResponse{
		Chunks:     chunks,
		DurationMs: duration.Milliseconds(),
	}, nil
}

// announceSubmissions emits an event for each leave request that reached
// the HR system and was acknowledged.
func (s *assistantService) announceSubmissions(employeeID string, calls []store.ToolCall) {
	for _, call := range calls {
		if call.Name != hr.ToolSubmitLeaveRequest || !call.Result.Success {
			continue
		}
		receipt, ok := call.Result.Payload.(*hr.LeaveReceipt)
		if !ok {
			continue
		}
		s.publisher.LeaveSubmitted(&events.LeaveSubmitted{
			EmployeeID: employeeID,
			RequestID:  receipt.RequestID,
			Status:     receipt.Status,
			OccurredAt: time.Now(),
		})
	}
}

func toToolCallDTOs(calls []store.ToolCall) []dto.ToolCallDTO {
	if len(calls) == 0 {
		return nil
	}
	out := make([]dto.ToolCallDTO, 0, len(calls))
	for _, call := range calls {
		out = append(out, dto.ToolCallDTO{
			Name:    call.Name,
			Args:    call.Args,
			Success: call.Result.Success,
		})
	}
	return out
}
