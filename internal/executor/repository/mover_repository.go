package repository

import (
	"context"
	"errors"
	"time"

	"golang-market-movers/internal/entity"
	"golang-market-movers/internal/movers"

	"gorm.io/gorm"
)

// MoverRepository persists ranked movers.
type MoverRepository interface {
	FindByDate(ctx context.Context, date time.Time) ([]entity.MoverRecord, error)
	CreateAll(ctx context.Context, records []entity.MoverRecord) error
	UpdateHeadlines(ctx context.Context, record *entity.MoverRecord) error
	MarkNewsFetched(ctx context.Context, date time.Time, symbol string, at time.Time) error
}

type moverRepository struct {
	db *gorm.DB
}

// NewMoverRepository creates a new GORM-based mover repository.
func NewMoverRepository(db *gorm.DB) MoverRepository {
	return &moverRepository{db: db}
}

// FindByDate returns the movers of date in insertion order: gainers by rank, then losers by rank.
func (r *moverRepository) FindByDate(ctx context.Context, date time.Time) ([]entity.MoverRecord, error) {
	var records []entity.MoverRecord
	if err := r.db.WithContext(ctx).Where("date = ?", date).Order("id asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// CreateAll inserts records in one transaction. Any existing (symbol, date)
// fails the whole batch with movers.ErrDuplicateWrite.
func (r *moverRepository) CreateAll(ctx context.Context, records []entity.MoverRecord) error {
	if len(records) == 0 {
		return nil
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			var count int64
			if err := tx.Model(&entity.MoverRecord{}).
				Where("date = ? AND symbol = ?", rec.Date, rec.Symbol).
				Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return movers.ErrDuplicateWrite
			}
		}
		return tx.Create(&records).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return movers.ErrDuplicateWrite
	}
	return err
}

// UpdateHeadlines writes only the headline fields of record, keyed by (symbol, date).
func (r *moverRepository) UpdateHeadlines(ctx context.Context, record *entity.MoverRecord) error {
	return r.db.WithContext(ctx).Model(&entity.MoverRecord{}).
		Where("date = ? AND symbol = ?", record.Date, record.Symbol).
		Updates(map[string]interface{}{
			"positive_headline":       record.PositiveHeadline,
			"positive_headline_score": record.PositiveHeadlineScore,
			"positive_headline_url":   record.PositiveHeadlineURL,
			"negative_headline":       record.NegativeHeadline,
			"negative_headline_score": record.NegativeHeadlineScore,
			"negative_headline_url":   record.NegativeHeadlineURL,
		}).Error
}

// MarkNewsFetched records that the news fetch for (symbol, date) completed.
func (r *moverRepository) MarkNewsFetched(ctx context.Context, date time.Time, symbol string, at time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.MoverRecord{}).
		Where("date = ? AND symbol = ?", date, symbol).
		Update("news_fetched_at", at).Error
}
