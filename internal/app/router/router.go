package router

import (
	"net/http"

	collecthandler "stock_screener/internal/feature/collect/transport/handler"
	stockhandler "stock_screener/internal/feature/stocks/transport/handler"
	stocksusecase "stock_screener/internal/feature/stocks/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(collect *collecthandler.CollectHandler, stocks *stockhandler.StockHandler) *gin.Engine {
	r := gin.Default()

	// フロントエンドは別オリジンから叩くため全許可
	r.Use(cors.Default())

	// 導通確認用
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ウォッチリスト（お気に入り銘柄）
	col := r.Group("/collect")
	{
		col.GET("/all", collect.List)
		col.POST("/sync", collect.Sync)
		col.POST("/:ts_code", collect.Add)
		col.GET("/:ts_code", collect.IsCollected)
		col.DELETE("/:ts_code", collect.Remove)
	}

	// 株価スクリーニング
	st := r.Group("/stocks")
	{
		st.GET("/all", stocks.Screen(stocksusecase.ScreenAll))
		st.GET("/limit-up", stocks.Screen(stocksusecase.ScreenLimitUp))
		st.GET("/limit-down", stocks.Screen(stocksusecase.ScreenLimitDown))
		st.GET("/half-year-line", stocks.Screen(stocksusecase.ScreenHalfYearLine))
		st.GET("/year-line", stocks.Screen(stocksusecase.ScreenYearLine))
		st.GET("/outperform", stocks.Screen(stocksusecase.ScreenOutperform))
		st.GET("/underperform", stocks.Screen(stocksusecase.ScreenUnderperform))
		st.GET("/five-day-adjustment", stocks.Screen(stocksusecase.ScreenFiveDayAdjustment))
		st.GET("/macd-golden", stocks.Screen(stocksusecase.ScreenMacdGolden))
		st.GET("/kdj-golden", stocks.Screen(stocksusecase.ScreenKdjGolden))
		st.GET("/low-price-inflow", stocks.Screen(stocksusecase.ScreenLowPriceInflow))
		st.GET("/high-level-outflow", stocks.Screen(stocksusecase.ScreenHighLevelOutflow))
		st.GET("/favorites", stocks.Favorites)
		st.GET("/index", stocks.Index)
		st.GET("/slope", stocks.Slope)
		st.GET("/single/:ts_code", stocks.SingleStock)
	}

	return r
}
