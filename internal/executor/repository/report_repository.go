package repository

import (
	"context"
	"errors"
	"time"

	"golang-market-movers/internal/entity"

	"gorm.io/gorm"
)

// ReportRepository persists daily report records.
type ReportRepository interface {
	FindByDate(ctx context.Context, date time.Time) (*entity.DailyReport, error)
	Create(ctx context.Context, report *entity.DailyReport) error
	MarkNotified(ctx context.Context, id uint, at time.Time) error
}

type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new GORM-based report repository.
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// FindByDate returns nil when no report exists for date.
func (r *reportRepository) FindByDate(ctx context.Context, date time.Time) (*entity.DailyReport, error) {
	var report entity.DailyReport
	if err := r.db.WithContext(ctx).Where("report_date = ?", date).First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

func (r *reportRepository) Create(ctx context.Context, report *entity.DailyReport) error {
	return r.db.WithContext(ctx).Create(report).Error
}

func (r *reportRepository) MarkNotified(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.DailyReport{}).Where("id = ?", id).
		Updates(map[string]interface{}{"notification_sent": true, "notification_sent_at": at}).Error
}
