package usecase

import (
	"context"
	"fmt"

	"stock_screener/internal/feature/stocks/domain/entity"
)

const (
	// DefaultPageSize is the number of rows per screen page.
	DefaultPageSize = 20

	// indexWindow is the number of trading days shown on each side of the
	// target date in the benchmark index view.
	indexWindow = 20
)

// Screen identifies one of the parameterized stock screens.
type Screen string

const (
	ScreenAll               Screen = "all"
	ScreenLimitUp           Screen = "limit_up"
	ScreenLimitDown         Screen = "limit_down"
	ScreenHalfYearLine      Screen = "half_year_line"
	ScreenYearLine          Screen = "year_line"
	ScreenOutperform        Screen = "outperform"
	ScreenUnderperform      Screen = "underperform"
	ScreenFiveDayAdjustment Screen = "five_day_adjustment"
	ScreenMacdGolden        Screen = "macd_golden"
	ScreenKdjGolden         Screen = "kdj_golden"
	ScreenLowPriceInflow    Screen = "low_price_inflow"
	ScreenHighLevelOutflow  Screen = "high_level_outflow"
)

// listsCodes reports whether the screen is one of the analysis screens, whose
// responses carry the unpaged code list alongside the paged rows.
func (s Screen) listsCodes() bool {
	switch s {
	case ScreenFiveDayAdjustment, ScreenMacdGolden, ScreenKdjGolden, ScreenLowPriceInflow, ScreenHighLevelOutflow:
		return true
	}
	return false
}

// StockRepository abstracts the read layer over the daily price table.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type StockRepository interface {
	FindMaxDate(ctx context.Context) (string, error)
	FindMinDate(ctx context.Context) (string, error)
	FindPreviousNthTradeDate(ctx context.Context, date string, n int) (string, error)
	FindNextNthTradeDate(ctx context.Context, date string, n int) (string, error)
	ExistsByCode(ctx context.Context, tsCode string) (bool, error)

	FindScreen(ctx context.Context, screen Screen, tsCode, tradeDate string, limit, offset int) ([]entity.StockData, error)
	CountScreen(ctx context.Context, screen Screen, tsCode, tradeDate string) (int64, error)
	ListScreenCodes(ctx context.Context, screen Screen, tsCode, tradeDate string) ([]string, error)

	FindByCode(ctx context.Context, tsCode, startDate, endDate string) ([]entity.StockData, error)
	FindByCodes(ctx context.Context, tsCodes []string, tradeDate string, limit, offset int) ([]entity.StockData, error)
	FindIndexRange(ctx context.Context, startDate, endDate string) ([]entity.IndexDaily, error)
	FindStockSlope(ctx context.Context, tsCode, tradeDate string) (float64, error)
	FindMarketSlope(ctx context.Context, tradeDate string) (float64, error)
}

// WatchlistSource lists the watchlisted codes the favorites view reads.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type WatchlistSource interface {
	ListCodesByCreation(ctx context.Context) ([]string, error)
}

// ScreenResult is one page of a stock screen.
type ScreenResult struct {
	Date  string
	Page  int
	Total int64
	Rows  []entity.StockData

	// Codes lists every matching code for the date (unpaged). Only populated
	// for the analysis screens.
	Codes []string
}

// IndexResult is the benchmark index history around one trade date.
type IndexResult struct {
	Date string
	Rows []entity.IndexDaily
}

// StocksUsecase provides the screen queries and the symbol existence check.
type StocksUsecase struct {
	repo      StockRepository
	watchlist WatchlistSource
	pageSize  int
}

// NewStocksUsecase creates a StocksUsecase. A non-positive pageSize falls
// back to DefaultPageSize.
func NewStocksUsecase(repo StockRepository, watchlist WatchlistSource, pageSize int) *StocksUsecase {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &StocksUsecase{repo: repo, watchlist: watchlist, pageSize: pageSize}
}

// StockCodeExists reports whether the code appears in the price table. This
// is the existence gate consumed by the watchlist feature.
func (u *StocksUsecase) StockCodeExists(ctx context.Context, tsCode string) (bool, error) {
	return u.repo.ExistsByCode(ctx, tsCode)
}

// GetScreen returns one page of the given screen for the given date. An
// empty tradeDate resolves to the latest trade date; an empty tsCode means
// no code filter; pages are 1-based.
func (u *StocksUsecase) GetScreen(ctx context.Context, screen Screen, tsCode, tradeDate string, page int) (*ScreenResult, error) {
	date, err := u.resolveDate(ctx, tradeDate)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * u.pageSize

	total, err := u.repo.CountScreen(ctx, screen, tsCode, date)
	if err != nil {
		return nil, fmt.Errorf("screen count failed: %w", err)
	}

	result := &ScreenResult{Date: date, Page: page, Total: total, Rows: []entity.StockData{}}

	if screen.listsCodes() {
		codes, err := u.repo.ListScreenCodes(ctx, screen, tsCode, date)
		if err != nil {
			return nil, fmt.Errorf("screen code list failed: %w", err)
		}
		result.Codes = codes
	}

	if total == 0 || total <= int64(offset) {
		return result, nil
	}

	rows, err := u.repo.FindScreen(ctx, screen, tsCode, date, u.pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("screen query failed: %w", err)
	}
	result.Rows = rows
	return result, nil
}

// GetFavoriteStocks returns one page of price rows for the watchlisted codes
// on the given date. The watchlist size is the reported total.
func (u *StocksUsecase) GetFavoriteStocks(ctx context.Context, tradeDate string, page int) (*ScreenResult, error) {
	date, err := u.resolveDate(ctx, tradeDate)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * u.pageSize

	codes, err := u.watchlist.ListCodesByCreation(ctx)
	if err != nil {
		return nil, fmt.Errorf("watchlist read failed: %w", err)
	}

	total := int64(len(codes))
	result := &ScreenResult{Date: date, Page: page, Total: total, Rows: []entity.StockData{}}
	if total == 0 || total <= int64(offset) {
		return result, nil
	}

	rows, err := u.repo.FindByCodes(ctx, codes, date, u.pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("favorites query failed: %w", err)
	}
	result.Rows = rows
	return result, nil
}

// GetIndexData returns the benchmark index rows in a window of indexWindow
// trading days on each side of the target date. When the table holds fewer
// trading days the window clamps to the earliest and latest dates.
func (u *StocksUsecase) GetIndexData(ctx context.Context, tradeDate string) (*IndexResult, error) {
	date, err := u.resolveDate(ctx, tradeDate)
	if err != nil {
		return nil, err
	}

	start, err := u.repo.FindPreviousNthTradeDate(ctx, date, indexWindow)
	if err != nil {
		return nil, fmt.Errorf("window start lookup failed: %w", err)
	}
	if start == "" {
		if start, err = u.repo.FindMinDate(ctx); err != nil {
			return nil, fmt.Errorf("earliest trade date lookup failed: %w", err)
		}
	}

	end, err := u.repo.FindNextNthTradeDate(ctx, date, indexWindow)
	if err != nil {
		return nil, fmt.Errorf("window end lookup failed: %w", err)
	}
	if end == "" {
		if end, err = u.repo.FindMaxDate(ctx); err != nil {
			return nil, fmt.Errorf("latest trade date lookup failed: %w", err)
		}
	}

	rows, err := u.repo.FindIndexRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("index query failed: %w", err)
	}
	return &IndexResult{Date: date, Rows: rows}, nil
}

// GetSingleStock returns the daily history for one code, oldest first. Empty
// date bounds mean the full history.
func (u *StocksUsecase) GetSingleStock(ctx context.Context, tsCode, startDate, endDate string) ([]entity.StockData, error) {
	return u.repo.FindByCode(ctx, tsCode, startDate, endDate)
}

// GetStockSlope returns the precomputed slope for a stock on a date, or 0
// when absent.
func (u *StocksUsecase) GetStockSlope(ctx context.Context, tsCode, tradeDate string) (float64, error) {
	return u.repo.FindStockSlope(ctx, tsCode, tradeDate)
}

// GetMarketSlope returns the precomputed benchmark slope for a date, or 0
// when absent.
func (u *StocksUsecase) GetMarketSlope(ctx context.Context, tradeDate string) (float64, error) {
	return u.repo.FindMarketSlope(ctx, tradeDate)
}

func (u *StocksUsecase) resolveDate(ctx context.Context, tradeDate string) (string, error) {
	if tradeDate != "" {
		return tradeDate, nil
	}
	date, err := u.repo.FindMaxDate(ctx)
	if err != nil {
		return "", fmt.Errorf("latest trade date lookup failed: %w", err)
	}
	if date == "" {
		return "", ErrNoTradeData
	}
	return date, nil
}
