// Package entity defines the domain models for the stocks feature.
package entity

import "github.com/shopspring/decimal"

// StockData is one daily price row for a stock. All technical columns
// (states, moving averages, slope, buy marker) are precomputed upstream;
// this service only filters and pages over them.
type StockData struct {
	ID        uint64          `gorm:"primaryKey"`
	TsCode    string          `gorm:"size:20;not null;index:idx_code_date,priority:1"`
	TradeDate string          `gorm:"size:10;not null;index:idx_code_date,priority:2"`
	Open      decimal.Decimal `gorm:"type:decimal(12,2)"`
	High      decimal.Decimal `gorm:"type:decimal(12,2)"`
	Low       decimal.Decimal `gorm:"type:decimal(12,2)"`
	Close     decimal.Decimal `gorm:"type:decimal(12,2)"`
	PctChg    decimal.Decimal `gorm:"type:decimal(8,4)"`
	Vol       decimal.Decimal `gorm:"type:decimal(16,2)"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2)"`

	// State flags limit moves: positive for limit-up, negative for limit-down.
	State           decimal.Decimal `gorm:"type:decimal(6,2)"`
	FiveDaysState   int             `gorm:"not null;default:0"`
	MacdGoldenState int             `gorm:"not null;default:0"`
	KdjGoldenState  int             `gorm:"not null;default:0"`
	LowPriceState   int             `gorm:"not null;default:0"`
	HighLevelState  int             `gorm:"not null;default:0"`
	// Fmark marks a buy/sell point on the chart: 0 sell, 1 buy, 2/3
	// suppressed, nil none.
	Fmark *int

	// Bay > 0 marks a buy point for the five-day adjustment screen.
	Bay   decimal.Decimal `gorm:"type:decimal(8,2)"`
	Ma120 decimal.Decimal `gorm:"type:decimal(12,2)"`
	Ma250 decimal.Decimal `gorm:"type:decimal(12,2)"`
	Slope decimal.Decimal `gorm:"type:decimal(10,4)"`
	Name  string          `gorm:"size:64"`
}

func (StockData) TableName() string {
	return "all_stocks_days"
}

// IndexDaily is one daily row of the market benchmark index, used to compare
// a stock's slope against the market's.
type IndexDaily struct {
	ID        uint64          `gorm:"primaryKey"`
	TradeDate string          `gorm:"size:10;not null;uniqueIndex"`
	Close     decimal.Decimal `gorm:"type:decimal(12,2)"`
	Slope     decimal.Decimal `gorm:"type:decimal(10,4)"`
}

func (IndexDaily) TableName() string {
	return "shangzheng"
}
