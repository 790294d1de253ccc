package repository

import (
	"context"
	"errors"
	"time"

	"golang-market-movers/internal/entity"

	"gorm.io/gorm"
)

// MarketRepository reads what the executor pipeline stored.
type MarketRepository interface {
	LatestReport(ctx context.Context) (*entity.DailyReport, error)
	ReportByDate(ctx context.Context, date time.Time) (*entity.DailyReport, error)
	MoversByDate(ctx context.Context, date time.Time, moverType entity.MoverType) ([]entity.MoverRecord, error)
	Constituents(ctx context.Context, activeOnly bool) ([]entity.Constituent, error)
	IndexLevelByDate(ctx context.Context, date time.Time) (*entity.IndexLevel, error)
	LatestIndexLevel(ctx context.Context) (*entity.IndexLevel, error)
}

// NewMarketRepository creates a new GORM-based market repository.
func NewMarketRepository(db *gorm.DB) MarketRepository {
	return &marketRepository{db: db}
}

type marketRepository struct {
	db *gorm.DB
}

func first[T any](q *gorm.DB) (*T, error) {
	var out T
	if err := q.First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

func (r *marketRepository) LatestReport(ctx context.Context) (*entity.DailyReport, error) {
	return first[entity.DailyReport](r.db.WithContext(ctx).Order("report_date desc"))
}

func (r *marketRepository) ReportByDate(ctx context.Context, date time.Time) (*entity.DailyReport, error) {
	return first[entity.DailyReport](r.db.WithContext(ctx).Where("report_date = ?", date))
}

// MoversByDate returns gainers by rank ascending followed by losers from -1 down.
// An empty moverType returns both.
func (r *marketRepository) MoversByDate(ctx context.Context, date time.Time, moverType entity.MoverType) ([]entity.MoverRecord, error) {
	q := r.db.WithContext(ctx).Where("date = ?", date)
	if moverType != "" {
		q = q.Where("mover_type = ?", moverType)
	}
	var records []entity.MoverRecord
	if err := q.Order("mover_type asc").Order("ABS(rank) asc").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Constituents are ordered by weight, heaviest first.
func (r *marketRepository) Constituents(ctx context.Context, activeOnly bool) ([]entity.Constituent, error) {
	q := r.db.WithContext(ctx)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var constituents []entity.Constituent
	if err := q.Order("weight desc").Order("symbol asc").Find(&constituents).Error; err != nil {
		return nil, err
	}
	return constituents, nil
}

func (r *marketRepository) IndexLevelByDate(ctx context.Context, date time.Time) (*entity.IndexLevel, error) {
	return first[entity.IndexLevel](r.db.WithContext(ctx).Where("date = ?", date))
}

func (r *marketRepository) LatestIndexLevel(ctx context.Context) (*entity.IndexLevel, error) {
	return first[entity.IndexLevel](r.db.WithContext(ctx).Order("date desc"))
}
