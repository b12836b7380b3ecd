package adapters

import (
	"context"
	"testing"

	"stock_screener/internal/feature/stocks/domain/entity"
	"stock_screener/internal/feature/stocks/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&entity.StockData{}, &entity.IndexDaily{})
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// seedScreenDay seeds one trade date covering every screen condition:
//
//	600001.SH  limit-up, slope above market
//	600002.SH  limit-down, slope below market
//	600003.SH  close within 3% of ma120
//	600004.SH  close within 3% of ma250
//	600005.SH  buy point (bay > 0)
//	600006.SH  MACD golden cross
//	600007.SH  KDJ golden cross
//	600008.SH  low-price inflow
//	600009.SH  high-level outflow
//
// The benchmark index slope for the date is 1.0.
func seedScreenDay(t *testing.T, db *gorm.DB, tradeDate string) {
	t.Helper()

	rows := []entity.StockData{
		{TsCode: "600001.SH", TradeDate: tradeDate, Close: dec(10), State: dec(10), Slope: dec(1.5), Ma120: dec(20), Ma250: dec(20)},
		{TsCode: "600002.SH", TradeDate: tradeDate, Close: dec(10), State: dec(-10), Slope: dec(0.5), Ma120: dec(20), Ma250: dec(20)},
		{TsCode: "600003.SH", TradeDate: tradeDate, Close: dec(100), Slope: dec(1.0), Ma120: dec(101), Ma250: dec(200)},
		{TsCode: "600004.SH", TradeDate: tradeDate, Close: dec(100), Slope: dec(1.0), Ma120: dec(200), Ma250: dec(98)},
		{TsCode: "600005.SH", TradeDate: tradeDate, Close: dec(10), Slope: dec(1.0), Ma120: dec(20), Ma250: dec(20), Bay: dec(1)},
		{TsCode: "600006.SH", TradeDate: tradeDate, Close: dec(10), Slope: dec(1.0), Ma120: dec(20), Ma250: dec(20), MacdGoldenState: 1},
		{TsCode: "600007.SH", TradeDate: tradeDate, Close: dec(10), Slope: dec(1.0), Ma120: dec(20), Ma250: dec(20), KdjGoldenState: 1},
		{TsCode: "600008.SH", TradeDate: tradeDate, Close: dec(10), Slope: dec(1.0), Ma120: dec(20), Ma250: dec(20), LowPriceState: 1},
		{TsCode: "600009.SH", TradeDate: tradeDate, Close: dec(10), Slope: dec(1.0), Ma120: dec(20), Ma250: dec(20), HighLevelState: 1},
	}
	for _, row := range rows {
		require.NoError(t, db.Create(&row).Error)
	}
	require.NoError(t, db.Create(&entity.IndexDaily{TradeDate: tradeDate, Close: dec(3000), Slope: dec(1.0)}).Error)
}

// TestStockMySQL_FindMaxDate は最新取引日の取得と空テーブル時の空文字返却を検証します。
func TestStockMySQL_FindMaxDate(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewStockRepository(db)
	ctx := context.Background()

	date, err := repo.FindMaxDate(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "", date, "empty table has no trade date")

	seedScreenDay(t, db, "2024-06-27")
	seedScreenDay(t, db, "2024-06-28")

	date, err = repo.FindMaxDate(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "2024-06-28", date)
}

// TestStockMySQL_ExistsByCode は株価テーブルでの銘柄存在判定を検証します。
func TestStockMySQL_ExistsByCode(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewStockRepository(db)
	seedScreenDay(t, db, "2024-06-28")

	exists, err := repo.ExistsByCode(context.Background(), "600001.SH")
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByCode(context.Background(), "999999.XX")
	assert.NoError(t, err)
	assert.False(t, exists)
}

// TestStockMySQL_ScreenConditions は各スクリーンの抽出条件が期待した銘柄だけを返すことを検証します。
func TestStockMySQL_ScreenConditions(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewStockRepository(db)
	seedScreenDay(t, db, "2024-06-28")
	ctx := context.Background()

	tests := []struct {
		screen        usecase.Screen
		expectedCodes []string
	}{
		{usecase.ScreenAll, []string{"600001.SH", "600002.SH", "600003.SH", "600004.SH", "600005.SH", "600006.SH", "600007.SH", "600008.SH", "600009.SH"}},
		{usecase.ScreenLimitUp, []string{"600001.SH"}},
		{usecase.ScreenLimitDown, []string{"600002.SH"}},
		{usecase.ScreenHalfYearLine, []string{"600003.SH"}},
		{usecase.ScreenYearLine, []string{"600004.SH"}},
		{usecase.ScreenOutperform, []string{"600001.SH"}},
		{usecase.ScreenUnderperform, []string{"600002.SH"}},
		{usecase.ScreenFiveDayAdjustment, []string{"600005.SH"}},
		{usecase.ScreenMacdGolden, []string{"600006.SH"}},
		{usecase.ScreenKdjGolden, []string{"600007.SH"}},
		{usecase.ScreenLowPriceInflow, []string{"600008.SH"}},
		{usecase.ScreenHighLevelOutflow, []string{"600009.SH"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.screen), func(t *testing.T) {
			t.Parallel()

			codes, err := repo.ListScreenCodes(ctx, tt.screen, "", "2024-06-28")
			require.NoError(t, err)
			assert.Equal(t, tt.expectedCodes, codes)

			count, err := repo.CountScreen(ctx, tt.screen, "", "2024-06-28")
			require.NoError(t, err)
			assert.Equal(t, int64(len(tt.expectedCodes)), count)
		})
	}
}

// TestStockMySQL_ScreenFiltersByDateAndCode は日付と銘柄コードによる絞り込みを検証します。
func TestStockMySQL_ScreenFiltersByDateAndCode(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewStockRepository(db)
	seedScreenDay(t, db, "2024-06-27")
	seedScreenDay(t, db, "2024-06-28")
	ctx := context.Background()

	// A different trade date never bleeds into the result.
	count, err := repo.CountScreen(ctx, usecase.ScreenAll, "", "2024-06-28")
	require.NoError(t, err)
	assert.Equal(t, int64(9), count)

	// Code filter narrows the screen to one stock.
	rows, err := repo.FindScreen(ctx, usecase.ScreenAll, "600003.SH", "2024-06-28", 20, 0)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "600003.SH", rows[0].TsCode)
	assert.Equal(t, "2024-06-28", rows[0].TradeDate)
}

// TestStockMySQL_FindScreen_Pagination はスクリーン照会のページングを検証します。
func TestStockMySQL_FindScreen_Pagination(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewStockRepository(db)
	seedScreenDay(t, db, "2024-06-28")
	ctx := context.Background()

	rows, err := repo.FindScreen(ctx, usecase.ScreenAll, "", "2024-06-28", 2, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "600001.SH", rows[0].TsCode)
	assert.Equal(t, "600002.SH", rows[1].TsCode)

	rows, err = repo.FindScreen(ctx, usecase.ScreenAll, "", "2024-06-28", 2, 8)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "600009.SH", rows[0].TsCode)
}

// TestStockMySQL_UnknownScreenIsRejected は未知のスクリーン指定がエラーになることを検証します。
func TestStockMySQL_UnknownScreenIsRejected(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewStockRepository(db)
	ctx := context.Background()

	_, err := repo.CountScreen(ctx, usecase.Screen("bogus"), "", "2024-06-28")
	assert.Error(t, err)

	_, err = repo.FindScreen(ctx, usecase.Screen("bogus"), "", "2024-06-28", 20, 0)
	assert.Error(t, err)

	_, err = repo.ListScreenCodes(ctx, usecase.Screen("bogus"), "", "2024-06-28")
	assert.Error(t, err)
}

// TestStockMySQL_FindByCode は単一銘柄の履歴が日付昇順で返ることを検証します。
func TestStockMySQL_FindByCode(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewStockRepository(db)
	// Inserted newest first; the query must return oldest first.
	seedScreenDay(t, db, "2024-06-28")
	seedScreenDay(t, db, "2024-06-27")

	rows, err := repo.FindByCode(context.Background(), "600001.SH", "", "")

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-06-27", rows[0].TradeDate)
	assert.Equal(t, "2024-06-28", rows[1].TradeDate)
}

// TestStockMySQL_FindByCode_DateRange は開始・終了日付による履歴の絞り込みを検証します。
func TestStockMySQL_FindByCode_DateRange(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewStockRepository(db)
	seedScreenDay(t, db, "2024-06-26")
	seedScreenDay(t, db, "2024-06-27")
	seedScreenDay(t, db, "2024-06-28")
	ctx := context.Background()

	rows, err := repo.FindByCode(ctx, "600001.SH", "2024-06-27", "")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-06-27", rows[0].TradeDate)

	rows, err = repo.FindByCode(ctx, "600001.SH", "", "2024-06-27")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-06-27", rows[1].TradeDate)

	rows, err = repo.FindByCode(ctx, "600001.SH", "2024-06-27", "2024-06-27")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-06-27", rows[0].TradeDate)
}

// TestStockMySQL_FindByCodes は複数銘柄照会の日付絞り込みと銘柄コード順のページングを検証します。
func TestStockMySQL_FindByCodes(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewStockRepository(db)
	seedScreenDay(t, db, "2024-06-27")
	seedScreenDay(t, db, "2024-06-28")
	ctx := context.Background()

	codes := []string{"600003.SH", "600001.SH", "600005.SH"}

	rows, err := repo.FindByCodes(ctx, codes, "2024-06-28", 20, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "600001.SH", rows[0].TsCode)
	assert.Equal(t, "600003.SH", rows[1].TsCode)
	assert.Equal(t, "600005.SH", rows[2].TsCode)
	for _, row := range rows {
		assert.Equal(t, "2024-06-28", row.TradeDate)
	}

	rows, err = repo.FindByCodes(ctx, codes, "2024-06-28", 2, 2)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "600005.SH", rows[0].TsCode)
}

// TestStockMySQL_FindMinDate は最古取引日の取得と空テーブル時の空文字返却を検証します。
func TestStockMySQL_FindMinDate(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewStockRepository(db)
	ctx := context.Background()

	date, err := repo.FindMinDate(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "", date, "empty table has no trade date")

	seedScreenDay(t, db, "2024-06-27")
	seedScreenDay(t, db, "2024-06-28")

	date, err = repo.FindMinDate(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "2024-06-27", date)
}

// TestStockMySQL_TradeDateNavigation は前後N取引日の探索と端での空文字返却を検証します。
func TestStockMySQL_TradeDateNavigation(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewStockRepository(db)
	seedScreenDay(t, db, "2024-06-26")
	seedScreenDay(t, db, "2024-06-27")
	seedScreenDay(t, db, "2024-06-28")
	ctx := context.Background()

	date, err := repo.FindPreviousNthTradeDate(ctx, "2024-06-28", 1)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-27", date)

	date, err = repo.FindPreviousNthTradeDate(ctx, "2024-06-28", 2)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-26", date)

	date, err = repo.FindPreviousNthTradeDate(ctx, "2024-06-28", 20)
	require.NoError(t, err, "running out of trading days is not an error")
	assert.Equal(t, "", date)

	date, err = repo.FindNextNthTradeDate(ctx, "2024-06-26", 2)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-28", date)

	date, err = repo.FindNextNthTradeDate(ctx, "2024-06-28", 1)
	require.NoError(t, err)
	assert.Equal(t, "", date)
}

// TestStockMySQL_FindIndexRange は指数テーブルの日付範囲照会を検証します。
func TestStockMySQL_FindIndexRange(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewStockRepository(db)
	seedScreenDay(t, db, "2024-06-26")
	seedScreenDay(t, db, "2024-06-27")
	seedScreenDay(t, db, "2024-06-28")

	rows, err := repo.FindIndexRange(context.Background(), "2024-06-27", "2024-06-28")

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-06-27", rows[0].TradeDate)
	assert.Equal(t, "2024-06-28", rows[1].TradeDate)
}

// TestStockMySQL_FindStockSlope は銘柄斜率の取得と欠損時のゼロ返却を検証します。
func TestStockMySQL_FindStockSlope(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewStockRepository(db)
	seedScreenDay(t, db, "2024-06-28")
	ctx := context.Background()

	slope, err := repo.FindStockSlope(ctx, "600001.SH", "2024-06-28")
	assert.NoError(t, err)
	assert.InDelta(t, 1.5, slope, 1e-9)

	slope, err = repo.FindStockSlope(ctx, "600001.SH", "2024-01-01")
	assert.NoError(t, err, "a missing row is not an error")
	assert.Zero(t, slope)
}

// TestStockMySQL_FindMarketSlope は大盤斜率の取得と欠損時のゼロ返却を検証します。
func TestStockMySQL_FindMarketSlope(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewStockRepository(db)
	seedScreenDay(t, db, "2024-06-28")
	ctx := context.Background()

	slope, err := repo.FindMarketSlope(ctx, "2024-06-28")
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, slope, 1e-9)

	slope, err = repo.FindMarketSlope(ctx, "2024-01-01")
	assert.NoError(t, err, "a missing row is not an error")
	assert.Zero(t, slope)
}
