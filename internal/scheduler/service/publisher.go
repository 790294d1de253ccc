package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/scheduler/repository"
	"golang-market-movers/pkg/common"
	"golang-market-movers/pkg/logger"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
)

// StreamWriter is the part of the redis client the publisher needs.
type StreamWriter interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
}

// TaskPublisher records a queued execution and hands it to the executor stream.
type TaskPublisher interface {
	Publish(ctx context.Context, jobID uint, scheduleID *uint, override datatypes.JSON) (*entity.TaskExecutionHistory, error)
}

// NewTaskPublisher creates a new TaskPublisher.
func NewTaskPublisher(historyRepo repository.TaskExecutionHistoryRepository, stream StreamWriter, maxLen int64, log *logger.Logger) TaskPublisher {
	return &taskPublisher{historyRepo: historyRepo, stream: stream, maxLen: maxLen, logger: log}
}

type taskPublisher struct {
	historyRepo repository.TaskExecutionHistoryRepository
	stream      StreamWriter
	maxLen      int64
	logger      *logger.Logger
}

// Publish marks the history failed when the stream rejects the message.
func (p *taskPublisher) Publish(ctx context.Context, jobID uint, scheduleID *uint, override datatypes.JSON) (*entity.TaskExecutionHistory, error) {
	history := &entity.TaskExecutionHistory{
		JobID:           jobID,
		ScheduleID:      scheduleID,
		Status:          entity.StatusQueued,
		PayloadOverride: override,
		StartedAt:       time.Now(),
	}
	if err := p.historyRepo.Create(ctx, history); err != nil {
		return nil, fmt.Errorf("failed to create task history: %w", err)
	}

	payload, err := json.Marshal(history)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}

	err = p.stream.XAdd(ctx, &redis.XAddArgs{
		Stream: common.RedisStreamSchedulerTaskExecution,
		Values: map[string]interface{}{common.RedisStreamPayloadField: string(payload)},
		MaxLen: p.maxLen,
		Approx: true,
	}).Err()
	if err != nil {
		history.Status = entity.StatusFailed
		history.CompletedAt = sql.NullTime{Time: time.Now(), Valid: true}
		history.ErrorMessage = sql.NullString{String: err.Error(), Valid: true}
		if updateErr := p.historyRepo.Update(ctx, history); updateErr != nil {
			p.logger.Error("Failed to update task history", logger.ErrorField(updateErr), logger.Field("history_id", history.ID))
		}
		return history, fmt.Errorf("failed to enqueue task: %w", err)
	}

	p.logger.Info("Task published", logger.Field("history_id", history.ID), logger.Field("job_id", jobID))
	return history, nil
}
