package service

import (
	"context"
	"encoding/json"
	"fmt"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/scheduler/dto"
	"golang-market-movers/internal/scheduler/repository"
	"golang-market-movers/pkg/logger"
)

// DefaultHistoryLimit caps history listings.
const DefaultHistoryLimit = 100

// ExecutionHistoryService defines the interface for reading execution history.
type ExecutionHistoryService interface {
	GetExecutionHistoryByID(ctx context.Context, id uint) (*dto.ExecutionHistoryResponse, error)
	GetRecentExecutionHistories(ctx context.Context) ([]*dto.ExecutionHistoryResponse, error)
	GetExecutionHistoriesByJobID(ctx context.Context, jobID uint) ([]*dto.ExecutionHistoryResponse, error)
}

// NewExecutionHistoryService creates a new execution history service.
func NewExecutionHistoryService(historyRepo repository.TaskExecutionHistoryRepository, log *logger.Logger) ExecutionHistoryService {
	return &executionHistoryService{
		historyRepo: historyRepo,
		logger:      log,
	}
}

type executionHistoryService struct {
	historyRepo repository.TaskExecutionHistoryRepository
	logger      *logger.Logger
}

func (s *executionHistoryService) GetExecutionHistoryByID(ctx context.Context, id uint) (*dto.ExecutionHistoryResponse, error) {
	history, err := s.historyRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to find execution history", logger.ErrorField(err), logger.Field("history_id", id))
		return nil, err
	}
	if history == nil {
		return nil, fmt.Errorf("execution %d: %w", id, ErrNotFound)
	}
	return mapToExecutionHistoryResponse(history), nil
}

func (s *executionHistoryService) GetRecentExecutionHistories(ctx context.Context) ([]*dto.ExecutionHistoryResponse, error) {
	histories, err := s.historyRepo.FindRecent(ctx, DefaultHistoryLimit)
	if err != nil {
		s.logger.Error("Failed to get execution histories", logger.ErrorField(err))
		return nil, err
	}
	return mapHistories(histories), nil
}

func (s *executionHistoryService) GetExecutionHistoriesByJobID(ctx context.Context, jobID uint) ([]*dto.ExecutionHistoryResponse, error) {
	histories, err := s.historyRepo.FindAllByJobID(ctx, jobID, DefaultHistoryLimit)
	if err != nil {
		s.logger.Error("Failed to get execution histories by job ID", logger.ErrorField(err), logger.Field("job_id", jobID))
		return nil, err
	}
	return mapHistories(histories), nil
}

func mapHistories(histories []entity.TaskExecutionHistory) []*dto.ExecutionHistoryResponse {
	out := make([]*dto.ExecutionHistoryResponse, 0, len(histories))
	for i := range histories {
		out = append(out, mapToExecutionHistoryResponse(&histories[i]))
	}
	return out
}

func mapToExecutionHistoryResponse(history *entity.TaskExecutionHistory) *dto.ExecutionHistoryResponse {
	var duration int64
	if history.CompletedAt.Valid {
		duration = history.CompletedAt.Time.Sub(history.StartedAt).Milliseconds()
	}

	resp := &dto.ExecutionHistoryResponse{
		ID:              history.ID,
		JobID:           history.JobID,
		ScheduleID:      history.ScheduleID,
		Status:          string(history.Status),
		PayloadOverride: json.RawMessage(history.PayloadOverride),
		StartedAt:       history.StartedAt,
		Duration:        duration,
		ErrorMessage:    history.ErrorMessage.String,
	}
	// strategies write JSON output; anything else is returned as a JSON string
	if history.Output.Valid && history.Output.String != "" {
		if json.Valid([]byte(history.Output.String)) {
			resp.Output = json.RawMessage(history.Output.String)
		} else {
			resp.Output, _ = json.Marshal(history.Output.String)
		}
	}
	return resp
}
