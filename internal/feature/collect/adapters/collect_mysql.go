// Package adapters provides the store implementations for the collect feature.
package adapters

import (
	"context"

	"stock_screener/internal/feature/collect/domain/entity"
	"stock_screener/internal/feature/collect/usecase"

	"gorm.io/gorm"
)

// collectMySQL implements usecase.CollectRepository on MySQL.
type collectMySQL struct {
	db *gorm.DB
}

var _ usecase.CollectRepository = (*collectMySQL)(nil)

// NewCollectRepository creates the MySQL-backed watchlist repository.
func NewCollectRepository(db *gorm.DB) *collectMySQL {
	return &collectMySQL{db: db}
}

// Insert creates a watchlist row for the code. The database assigns the ID
// and timestamps. The unique index on ts_code rejects a concurrent duplicate.
func (r *collectMySQL) Insert(ctx context.Context, tsCode string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&entity.Collect{TsCode: tsCode}).Error
	})
}

// DeleteByCode removes the row matching the code and returns how many rows
// were deleted (zero or one).
func (r *collectMySQL) DeleteByCode(ctx context.Context, tsCode string) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("ts_code = ?", tsCode).
		Delete(&entity.Collect{})
	return res.RowsAffected, res.Error
}

// ExistsByCode reports whether the code has a watchlist row.
func (r *collectMySQL) ExistsByCode(ctx context.Context, tsCode string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entity.Collect{}).
		Where("ts_code = ?", tsCode).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListCodesByCreation returns all watched codes ordered by created_at
// ascending, the canonical watchlist order.
func (r *collectMySQL) ListCodesByCreation(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&entity.Collect{}).
		Order("created_at ASC").
		Pluck("ts_code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}
