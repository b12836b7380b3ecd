// Package adapters provides the MySQL read layer for the stocks feature.
package adapters

import (
	"context"
	"fmt"

	"stock_screener/internal/feature/stocks/domain/entity"
	"stock_screener/internal/feature/stocks/usecase"

	"gorm.io/gorm"
)

// Tolerance band for the moving-average proximity screens: the close must be
// within 3% of the line.
const maProximity = 0.03

type stockMySQL struct {
	db *gorm.DB
}

var _ usecase.StockRepository = (*stockMySQL)(nil)

// NewStockRepository creates the MySQL-backed stock data repository.
func NewStockRepository(db *gorm.DB) *stockMySQL {
	return &stockMySQL{db: db}
}

// FindMaxDate returns the latest trade date present, or "" on an empty table.
func (r *stockMySQL) FindMaxDate(ctx context.Context) (string, error) {
	var date *string
	if err := r.db.WithContext(ctx).
		Model(&entity.StockData{}).
		Select("MAX(trade_date)").
		Scan(&date).Error; err != nil {
		return "", err
	}
	if date == nil {
		return "", nil
	}
	return *date, nil
}

// FindMinDate returns the earliest trade date present, or "" on an empty
// table.
func (r *stockMySQL) FindMinDate(ctx context.Context) (string, error) {
	var date *string
	if err := r.db.WithContext(ctx).
		Model(&entity.StockData{}).
		Select("MIN(trade_date)").
		Scan(&date).Error; err != nil {
		return "", err
	}
	if date == nil {
		return "", nil
	}
	return *date, nil
}

// FindPreviousNthTradeDate returns the nth distinct trade date before the
// given date, or "" when fewer trading days exist.
func (r *stockMySQL) FindPreviousNthTradeDate(ctx context.Context, date string, n int) (string, error) {
	var found *string
	if err := r.db.WithContext(ctx).
		Model(&entity.StockData{}).
		Distinct("trade_date").
		Where("trade_date < ?", date).
		Order("trade_date DESC").
		Offset(n - 1).
		Limit(1).
		Scan(&found).Error; err != nil {
		return "", err
	}
	if found == nil {
		return "", nil
	}
	return *found, nil
}

// FindNextNthTradeDate returns the nth distinct trade date after the given
// date, or "" when fewer trading days exist.
func (r *stockMySQL) FindNextNthTradeDate(ctx context.Context, date string, n int) (string, error) {
	var found *string
	if err := r.db.WithContext(ctx).
		Model(&entity.StockData{}).
		Distinct("trade_date").
		Where("trade_date > ?", date).
		Order("trade_date ASC").
		Offset(n - 1).
		Limit(1).
		Scan(&found).Error; err != nil {
		return "", err
	}
	if found == nil {
		return "", nil
	}
	return *found, nil
}

// ExistsByCode reports whether the code has any price rows.
func (r *stockMySQL) ExistsByCode(ctx context.Context, tsCode string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entity.StockData{}).
		Where("ts_code = ?", tsCode).
		Limit(1).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindScreen returns one page of rows matching the screen on the given date,
// ordered by ts_code.
func (r *stockMySQL) FindScreen(ctx context.Context, screen usecase.Screen, tsCode, tradeDate string, limit, offset int) ([]entity.StockData, error) {
	q, err := r.screenQuery(ctx, screen, tsCode, tradeDate)
	if err != nil {
		return nil, err
	}
	var rows []entity.StockData
	if err := q.Order("ts_code ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// CountScreen returns the number of rows matching the screen on the date.
func (r *stockMySQL) CountScreen(ctx context.Context, screen usecase.Screen, tsCode, tradeDate string) (int64, error) {
	q, err := r.screenQuery(ctx, screen, tsCode, tradeDate)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ListScreenCodes returns every code matching the screen on the date,
// unpaged, ordered by ts_code.
func (r *stockMySQL) ListScreenCodes(ctx context.Context, screen usecase.Screen, tsCode, tradeDate string) ([]string, error) {
	q, err := r.screenQuery(ctx, screen, tsCode, tradeDate)
	if err != nil {
		return nil, err
	}
	var codes []string
	if err := q.Order("ts_code ASC").Pluck("ts_code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// FindByCode returns the history for one code, oldest first. Empty bounds
// mean an unbounded range.
func (r *stockMySQL) FindByCode(ctx context.Context, tsCode, startDate, endDate string) ([]entity.StockData, error) {
	q := r.db.WithContext(ctx).Where("ts_code = ?", tsCode)
	if startDate != "" {
		q = q.Where("trade_date >= ?", startDate)
	}
	if endDate != "" {
		q = q.Where("trade_date <= ?", endDate)
	}
	var rows []entity.StockData
	if err := q.Order("trade_date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindByCodes returns one page of rows for the given codes on one date,
// ordered by ts_code.
func (r *stockMySQL) FindByCodes(ctx context.Context, tsCodes []string, tradeDate string, limit, offset int) ([]entity.StockData, error) {
	var rows []entity.StockData
	if err := r.db.WithContext(ctx).
		Where("ts_code IN ?", tsCodes).
		Where("trade_date = ?", tradeDate).
		Order("ts_code ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindIndexRange returns the benchmark index rows between the bounds
// inclusive, oldest first.
func (r *stockMySQL) FindIndexRange(ctx context.Context, startDate, endDate string) ([]entity.IndexDaily, error) {
	var rows []entity.IndexDaily
	if err := r.db.WithContext(ctx).
		Where("trade_date >= ? AND trade_date <= ?", startDate, endDate).
		Order("trade_date ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindStockSlope returns the precomputed slope for a stock on a date, 0 when
// the row is absent.
func (r *stockMySQL) FindStockSlope(ctx context.Context, tsCode, tradeDate string) (float64, error) {
	var slope *float64
	err := r.db.WithContext(ctx).
		Model(&entity.StockData{}).
		Select("slope").
		Where("ts_code = ? AND trade_date = ?", tsCode, tradeDate).
		Scan(&slope).Error
	if err != nil || slope == nil {
		return 0, err
	}
	return *slope, nil
}

// FindMarketSlope returns the benchmark index slope for a date, 0 when the
// row is absent.
func (r *stockMySQL) FindMarketSlope(ctx context.Context, tradeDate string) (float64, error) {
	var slope *float64
	err := r.db.WithContext(ctx).
		Model(&entity.IndexDaily{}).
		Select("slope").
		Where("trade_date = ?", tradeDate).
		Scan(&slope).Error
	if err != nil || slope == nil {
		return 0, err
	}
	return *slope, nil
}

// screenQuery builds the base query for one screen: day filter, optional
// code filter, plus the screen's own condition.
func (r *stockMySQL) screenQuery(ctx context.Context, screen usecase.Screen, tsCode, tradeDate string) (*gorm.DB, error) {
	q := r.db.WithContext(ctx).
		Model(&entity.StockData{}).
		Where("trade_date = ?", tradeDate)
	if tsCode != "" {
		q = q.Where("ts_code = ?", tsCode)
	}

	switch screen {
	case usecase.ScreenAll:
		// no extra condition
	case usecase.ScreenLimitUp:
		q = q.Where("state > 0")
	case usecase.ScreenLimitDown:
		q = q.Where("state < 0")
	case usecase.ScreenHalfYearLine:
		q = q.Where("ma120 > 0 AND ABS(close - ma120) / ma120 <= ?", maProximity)
	case usecase.ScreenYearLine:
		q = q.Where("ma250 > 0 AND ABS(close - ma250) / ma250 <= ?", maProximity)
	case usecase.ScreenOutperform:
		q = q.Where("slope > (?)", r.marketSlopeSubquery(tradeDate))
	case usecase.ScreenUnderperform:
		q = q.Where("slope < (?)", r.marketSlopeSubquery(tradeDate))
	case usecase.ScreenFiveDayAdjustment:
		q = q.Where("bay > 0")
	case usecase.ScreenMacdGolden:
		q = q.Where("macd_golden_state > 0")
	case usecase.ScreenKdjGolden:
		q = q.Where("kdj_golden_state > 0")
	case usecase.ScreenLowPriceInflow:
		q = q.Where("low_price_state > 0")
	case usecase.ScreenHighLevelOutflow:
		q = q.Where("high_level_state > 0")
	default:
		return nil, fmt.Errorf("unknown screen %q", screen)
	}
	return q, nil
}

func (r *stockMySQL) marketSlopeSubquery(tradeDate string) *gorm.DB {
	return r.db.Model(&entity.IndexDaily{}).
		Select("slope").
		Where("trade_date = ?", tradeDate)
}
