// Package handler provides the HTTP handlers for the stock screens.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"stock_screener/internal/feature/stocks/domain/entity"
	"stock_screener/internal/feature/stocks/transport/http/dto"
	"stock_screener/internal/feature/stocks/usecase"

	"github.com/gin-gonic/gin"
)

// StocksUsecase is the screen query interface.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type StocksUsecase interface {
	GetScreen(ctx context.Context, screen usecase.Screen, tsCode, tradeDate string, page int) (*usecase.ScreenResult, error)
	GetFavoriteStocks(ctx context.Context, tradeDate string, page int) (*usecase.ScreenResult, error)
	GetIndexData(ctx context.Context, tradeDate string) (*usecase.IndexResult, error)
	GetSingleStock(ctx context.Context, tsCode, startDate, endDate string) ([]entity.StockData, error)
	GetStockSlope(ctx context.Context, tsCode, tradeDate string) (float64, error)
	GetMarketSlope(ctx context.Context, tradeDate string) (float64, error)
}

// StockHandler handles HTTP requests for the stock screens.
type StockHandler struct {
	uc StocksUsecase
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(uc StocksUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

// Screen returns a gin handler serving one page of the given screen.
//
// GET /stocks/<screen>?ts_code=&trade_date=&page=1
func (h *StockHandler) Screen(screen usecase.Screen) gin.HandlerFunc {
	return func(c *gin.Context) {
		tsCode := c.Query("ts_code")
		tradeDate := c.Query("trade_date")
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

		res, err := h.uc.GetScreen(c.Request.Context(), screen, tsCode, tradeDate, page)
		if err != nil {
			if errors.Is(err, usecase.ErrNoTradeData) {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		rows := make([]dto.StockRow, 0, len(res.Rows))
		for _, s := range res.Rows {
			rows = append(rows, dto.FromEntity(s))
		}
		c.JSON(http.StatusOK, dto.ScreenResponse{
			Date:       res.Date,
			Page:       res.Page,
			StockCount: res.Total,
			Rows:       rows,
			TsCodes:    res.Codes,
		})
	}
}

// Favorites serves one page of price rows for the watchlisted codes.
//
// GET /stocks/favorites?trade_date=&page=1
func (h *StockHandler) Favorites(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	res, err := h.uc.GetFavoriteStocks(c.Request.Context(), c.Query("trade_date"), page)
	if err != nil {
		if errors.Is(err, usecase.ErrNoTradeData) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	rows := make([]dto.StockRow, 0, len(res.Rows))
	for _, s := range res.Rows {
		rows = append(rows, dto.FromEntity(s))
	}
	c.JSON(http.StatusOK, dto.ScreenResponse{
		Date:       res.Date,
		Page:       res.Page,
		StockCount: res.Total,
		Rows:       rows,
	})
}

// Index serves the benchmark index history around one trade date.
//
// GET /stocks/index?trade_date=
func (h *StockHandler) Index(c *gin.Context) {
	res, err := h.uc.GetIndexData(c.Request.Context(), c.Query("trade_date"))
	if err != nil {
		if errors.Is(err, usecase.ErrNoTradeData) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	rows := make([]dto.IndexRow, 0, len(res.Rows))
	for _, s := range res.Rows {
		rows = append(rows, dto.FromIndexEntity(s))
	}
	c.JSON(http.StatusOK, dto.IndexResponse{Date: res.Date, Rows: rows})
}

// SingleStock returns the daily history for one code, optionally bounded by
// start_date/end_date query parameters.
//
// GET /stocks/single/:ts_code?start_date=&end_date=
func (h *StockHandler) SingleStock(c *gin.Context) {
	rows, err := h.uc.GetSingleStock(c.Request.Context(), c.Param("ts_code"), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.SingleStockRow, 0, len(rows))
	for _, s := range rows {
		out = append(out, dto.FromEntitySingle(s))
	}
	c.JSON(http.StatusOK, out)
}

// Slope returns a stock's trend slope next to the market's for one date.
//
// GET /stocks/slope?ts_code=&trade_date=
func (h *StockHandler) Slope(c *gin.Context) {
	tsCode := c.Query("ts_code")
	tradeDate := c.Query("trade_date")
	if tsCode == "" || tradeDate == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ts_code and trade_date are required"})
		return
	}

	slope, err := h.uc.GetStockSlope(c.Request.Context(), tsCode, tradeDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	marketSlope, err := h.uc.GetMarketSlope(c.Request.Context(), tradeDate)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ts_code":       tsCode,
		"trade_date":    tradeDate,
		"slope":         slope,
		"market_slope":  marketSlope,
		"is_outperform": slope > marketSlope,
	})
}
