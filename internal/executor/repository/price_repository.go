package repository

import (
	"context"
	"errors"
	"time"

	"golang-market-movers/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PriceRepository stores price observations and index levels. Neither is ever overwritten.
type PriceRepository interface {
	FindByDate(ctx context.Context, date time.Time) ([]entity.PriceObservation, error)
	Create(ctx context.Context, observation *entity.PriceObservation) (bool, error)
	FindIndexLevel(ctx context.Context, date time.Time) (*entity.IndexLevel, error)
	CreateIndexLevel(ctx context.Context, level *entity.IndexLevel) (bool, error)
}

type priceRepository struct {
	db *gorm.DB
}

// NewPriceRepository creates a new GORM-based price repository.
func NewPriceRepository(db *gorm.DB) PriceRepository {
	return &priceRepository{db: db}
}

func (r *priceRepository) FindByDate(ctx context.Context, date time.Time) ([]entity.PriceObservation, error) {
	var prices []entity.PriceObservation
	if err := r.db.WithContext(ctx).Where("date = ?", date).Order("symbol asc").Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// Create inserts the observation unless one exists for (symbol, date). It reports whether a row was written.
func (r *priceRepository) Create(ctx context.Context, observation *entity.PriceObservation) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "date"}},
		DoNothing: true,
	}).Create(observation)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// FindIndexLevel returns nil when no level is stored for date.
func (r *priceRepository) FindIndexLevel(ctx context.Context, date time.Time) (*entity.IndexLevel, error) {
	var level entity.IndexLevel
	if err := r.db.WithContext(ctx).Where("date = ?", date).First(&level).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &level, nil
}

func (r *priceRepository) CreateIndexLevel(ctx context.Context, level *entity.IndexLevel) (bool, error) {
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "date"}},
		DoNothing: true,
	}).Create(level)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
