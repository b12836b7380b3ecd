// Package dto defines data transfer objects for the stocks HTTP API.
package dto

import (
	"github.com/shopspring/decimal"

	"stock_screener/internal/feature/stocks/domain/entity"
)

// StockRow is one daily price row in an API response.
type StockRow struct {
	TsCode    string          `json:"ts_code"`
	TradeDate string          `json:"trade_date"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	PctChg    decimal.Decimal `json:"pct_chg"`
	Vol       decimal.Decimal `json:"vol"`
	Bay       decimal.Decimal `json:"bay"`
	Ma120     decimal.Decimal `json:"ma120"`
	Ma250     decimal.Decimal `json:"ma250"`
	Name      string          `json:"name"`
}

// ScreenResponse is one page of a stock screen.
type ScreenResponse struct {
	Date       string     `json:"date"`
	Page       int        `json:"page"`
	StockCount int64      `json:"stock_count"`
	Rows       []StockRow `json:"rows"`
	TsCodes    []string   `json:"ts_codes,omitempty"`
}

// SingleStockRow is one daily price row in the single-stock response, with
// the buy/sell marker resolved to a plottable price level.
type SingleStockRow struct {
	StockRow
	Fmark decimal.Decimal `json:"fmark"`
}

// IndexRow is one daily row of the benchmark index in an API response.
type IndexRow struct {
	TradeDate string          `json:"trade_date"`
	Close     decimal.Decimal `json:"close"`
	Slope     decimal.Decimal `json:"slope"`
}

// IndexResponse is the benchmark index history around one trade date.
type IndexResponse struct {
	Date string     `json:"date"`
	Rows []IndexRow `json:"rows"`
}

// FromEntitySingle converts a price row for the single-stock view. The raw
// fmark flag maps to the price level the chart draws the marker at: 0 is a
// sell mark at the day's high, 1 a buy mark at the day's low, 2 and 3 are
// suppressed.
func FromEntitySingle(s entity.StockData) SingleStockRow {
	row := SingleStockRow{StockRow: FromEntity(s)}
	if s.Fmark == nil {
		return row
	}
	switch *s.Fmark {
	case 0:
		row.Fmark = s.High
	case 1:
		row.Fmark = s.Low
	case 2, 3:
		row.Fmark = decimal.Zero
	default:
		row.Fmark = decimal.NewFromInt(int64(*s.Fmark))
	}
	return row
}

// FromIndexEntity converts a benchmark index row into its response form.
func FromIndexEntity(s entity.IndexDaily) IndexRow {
	return IndexRow{TradeDate: s.TradeDate, Close: s.Close, Slope: s.Slope}
}

// FromEntity converts a price row entity into its response form.
func FromEntity(s entity.StockData) StockRow {
	return StockRow{
		TsCode:    s.TsCode,
		TradeDate: s.TradeDate,
		Open:      s.Open,
		High:      s.High,
		Low:       s.Low,
		Close:     s.Close,
		PctChg:    s.PctChg,
		Vol:       s.Vol,
		Bay:       s.Bay,
		Ma120:     s.Ma120,
		Ma250:     s.Ma250,
		Name:      s.Name,
	}
}
