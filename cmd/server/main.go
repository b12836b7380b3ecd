package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strconv"

	"stock_screener/internal/app/router"
	collectadapters "stock_screener/internal/feature/collect/adapters"
	collecthandler "stock_screener/internal/feature/collect/transport/handler"
	collectusecase "stock_screener/internal/feature/collect/usecase"
	stockadapters "stock_screener/internal/feature/stocks/adapters"
	stockhandler "stock_screener/internal/feature/stocks/transport/handler"
	stocksusecase "stock_screener/internal/feature/stocks/usecase"
	infradb "stock_screener/internal/platform/db"
	"stock_screener/internal/platform/logger"
	infraredis "stock_screener/internal/platform/redis"
)

func main() {
	slog.SetDefault(logger.New(os.Getenv("LOG_LEVEL")))

	// db
	db := infradb.OpenDB()

	// Redis: ウォッチリストのキャッシュに必須
	rdb, err := infraredis.NewRedisClient()
	if err != nil {
		log.Fatalf("Redis connect failed: %v", err)
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			slog.Error("failed to close Redis client", "error", err)
		}
	}()

	// Repository
	collectRepo := collectadapters.NewCollectRepository(db)
	watchlistCache := collectadapters.NewWatchlistRedis(rdb, collectadapters.DefaultWatchlistKey)
	stockRepo := stockadapters.NewStockRepository(db)

	// Usecase
	// 自選株ビューはウォッチリストの永続ストアを直接読む
	pageSize, _ := strconv.Atoi(os.Getenv("STOCK_PAGE_SIZE"))
	stocksUC := stocksusecase.NewStocksUsecase(stockRepo, collectRepo, pageSize)
	collectUC := collectusecase.NewCollectUsecase(collectRepo, watchlistCache, stocksUC)

	// 起動時にキャッシュをDBと同期。失敗したら起動させない
	if err := collectUC.Sync(context.Background()); err != nil {
		log.Fatalf("watchlist startup sync failed: %v", err)
	}

	// Handler
	collectH := collecthandler.NewCollectHandler(collectUC)
	stocksH := stockhandler.NewStockHandler(stocksUC)

	// ルータ生成
	router := router.NewRouter(collectH, stocksH)

	if err := router.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
