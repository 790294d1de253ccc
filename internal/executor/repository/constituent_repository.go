package repository

import (
	"context"
	"time"

	"golang-market-movers/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ConstituentRepository persists the index registry.
type ConstituentRepository interface {
	GetActive(ctx context.Context) ([]entity.Constituent, error)
	CountActive(ctx context.Context) (int64, error)
	Sync(ctx context.Context, members []entity.Constituent, asOf time.Time) ([]string, error)
}

type constituentRepository struct {
	db *gorm.DB
}

// NewConstituentRepository creates a new GORM-based constituent repository.
func NewConstituentRepository(db *gorm.DB) ConstituentRepository {
	return &constituentRepository{db: db}
}

// GetActive returns active constituents ordered by symbol.
func (r *constituentRepository) GetActive(ctx context.Context) ([]entity.Constituent, error) {
	var constituents []entity.Constituent
	if err := r.db.WithContext(ctx).Where("is_active = ?", true).Order("symbol asc").Find(&constituents).Error; err != nil {
		return nil, err
	}
	return constituents, nil
}

func (r *constituentRepository) CountActive(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Constituent{}).Where("is_active = ?", true).Count(&count).Error
	return count, err
}

// Sync makes members the active registry. Existing symbols are reactivated and
// updated in place, new ones inserted, and active symbols missing from members
// deactivated with removed_date set to asOf. It returns the deactivated symbols.
func (r *constituentRepository) Sync(ctx context.Context, members []entity.Constituent, asOf time.Time) ([]string, error) {
	symbols := make([]string, 0, len(members))
	for i := range members {
		members[i].IsActive = true
		members[i].RemovedDate = nil
		if members[i].AddedDate == nil {
			added := asOf
			members[i].AddedDate = &added
		}
		symbols = append(symbols, members[i].Symbol)
	}

	var deactivated []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		leaving := tx.Model(&entity.Constituent{}).Where("is_active = ?", true)
		if len(symbols) > 0 {
			leaving = leaving.Where("symbol NOT IN ?", symbols)
		}
		if err := leaving.Order("symbol asc").Pluck("symbol", &deactivated).Error; err != nil {
			return err
		}

		if len(members) > 0 {
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "symbol"}},
				DoUpdates: clause.AssignmentColumns([]string{"company_name", "sector", "weight", "is_active", "removed_date", "updated_at"}),
			}).Create(&members).Error
			if err != nil {
				return err
			}
		}

		if len(deactivated) == 0 {
			return nil
		}
		return tx.Model(&entity.Constituent{}).
			Where("symbol IN ?", deactivated).
			Updates(map[string]interface{}{"is_active": false, "removed_date": asOf}).Error
	})
	if err != nil {
		return nil, err
	}
	return deactivated, nil
}
