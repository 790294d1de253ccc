package repository

import (
	"context"

	"golang-market-movers/internal/entity"

	"gorm.io/gorm"
)

// TaskExecutionHistoryRepository records the outcome of executed tasks.
type TaskExecutionHistoryRepository interface {
	Complete(ctx context.Context, history *entity.TaskExecutionHistory) error
}

// NewTaskExecutionHistoryRepository creates a new GORM-based task execution history repository.
func NewTaskExecutionHistoryRepository(db *gorm.DB) TaskExecutionHistoryRepository {
	return &taskExecutionHistoryRepository{db: db}
}

type taskExecutionHistoryRepository struct {
	db *gorm.DB
}

// Complete stores the final status, output and error of a run.
func (r *taskExecutionHistoryRepository) Complete(ctx context.Context, history *entity.TaskExecutionHistory) error {
	return r.db.WithContext(ctx).Model(&entity.TaskExecutionHistory{}).
		Where("id = ?", history.ID).
		Updates(map[string]interface{}{
			"status":        history.Status,
			"completed_at":  history.CompletedAt,
			"output":        history.Output,
			"error_message": history.ErrorMessage,
		}).Error
}
