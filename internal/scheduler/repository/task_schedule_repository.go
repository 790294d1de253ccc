package repository

import (
	"context"
	"time"

	"golang-market-movers/internal/entity"

	"gorm.io/gorm"
)

// TaskScheduleRepository defines the interface for task schedule data operations.
type TaskScheduleRepository interface {
	FindDue(ctx context.Context, now time.Time) ([]entity.TaskSchedule, error)
	MarkExecuted(ctx context.Context, id uint, last, next time.Time) error
	SetNextExecution(ctx context.Context, id uint, next time.Time) error
}

// NewTaskScheduleRepository creates a new GORM-based task schedule repository.
func NewTaskScheduleRepository(db *gorm.DB) TaskScheduleRepository {
	return &taskScheduleRepository{db: db}
}

type taskScheduleRepository struct {
	db *gorm.DB
}

// FindDue returns active schedules that never ran or whose next execution has passed.
func (r *taskScheduleRepository) FindDue(ctx context.Context, now time.Time) ([]entity.TaskSchedule, error) {
	var schedules []entity.TaskSchedule
	err := r.db.WithContext(ctx).
		Where("is_active = ? AND (next_execution IS NULL OR next_execution <= ?)", true, now).
		Order("id asc").
		Find(&schedules).Error
	if err != nil {
		return nil, err
	}
	return schedules, nil
}

func (r *taskScheduleRepository) MarkExecuted(ctx context.Context, id uint, last, next time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.TaskSchedule{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"last_execution": last, "next_execution": next}).Error
}

func (r *taskScheduleRepository) SetNextExecution(ctx context.Context, id uint, next time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.TaskSchedule{}).
		Where("id = ?", id).
		Update("next_execution", next).Error
}
