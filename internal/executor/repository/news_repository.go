package repository

import (
	"context"
	"time"

	"golang-market-movers/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NewsRepository persists headlines and their sentiment.
type NewsRepository interface {
	Create(ctx context.Context, item *entity.NewsItem) (bool, error)
	FindByDate(ctx context.Context, date time.Time) ([]entity.NewsItem, error)
	CountByDate(ctx context.Context, date time.Time) (int64, error)
	SaveSentiment(ctx context.Context, items []*entity.NewsItem) error
}

type newsRepository struct {
	db *gorm.DB
}

// NewNewsRepository creates a new GORM-based news repository.
func NewNewsRepository(db *gorm.DB) NewsRepository {
	return &newsRepository{db: db}
}

// Create inserts item unless its (symbol, url) is already stored.
func (r *newsRepository) Create(ctx context.Context, item *entity.NewsItem) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "url"}},
		DoNothing: true,
	}).Create(item)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *newsRepository) FindByDate(ctx context.Context, date time.Time) ([]entity.NewsItem, error) {
	var items []entity.NewsItem
	if err := r.db.WithContext(ctx).Where("date = ?", date).Order("id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *newsRepository) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.NewsItem{}).Where("date = ?", date).Count(&count).Error
	return count, err
}

// SaveSentiment writes label, score and the representative flag of each item.
func (r *newsRepository) SaveSentiment(ctx context.Context, items []*entity.NewsItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range items {
			err := tx.Model(&entity.NewsItem{}).Where("id = ?", item.ID).Updates(map[string]interface{}{
				"sentiment_label": item.SentimentLabel,
				"sentiment_score": item.SentimentScore,
				"is_top_headline": item.IsTopHeadline,
			}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
