// Package usecase implements the business logic for the collect (watchlist)
// feature: keeping the relational watchlist table and its Redis sorted-set
// mirror consistent.
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Status is a caller-facing outcome of a watchlist mutation. Domain outcomes
// such as "already in watchlist" are values, not errors; errors are reserved
// for store failures.
type Status string

const (
	// StatusCollected indicates the stock was newly added to the watchlist.
	StatusCollected Status = "stock added to watchlist"
	// StatusAlreadyCollected indicates the stock was already in the watchlist.
	StatusAlreadyCollected Status = "stock already in watchlist"
	// StatusUnknownCode indicates the stock code is not a recognized symbol.
	StatusUnknownCode Status = "stock code does not exist"
	// StatusRemoved indicates the stock was removed from the watchlist.
	StatusRemoved Status = "stock removed from watchlist"
	// StatusNotCollected indicates the stock was not in the watchlist.
	StatusNotCollected Status = "stock is not in watchlist"
)

// CollectRepository abstracts the relational watchlist table. It is the
// source of truth for watch membership.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type CollectRepository interface {
	Insert(ctx context.Context, tsCode string) error
	DeleteByCode(ctx context.Context, tsCode string) (int64, error)
	ExistsByCode(ctx context.Context, tsCode string) (bool, error)
	ListCodesByCreation(ctx context.Context) ([]string, error)
}

// WatchlistCache abstracts the Redis sorted set mirroring the watchlist.
// Members are stock codes; the score only determines enumeration order.
type WatchlistCache interface {
	Add(ctx context.Context, tsCode string, score float64) error
	Range(ctx context.Context) ([]string, error)
	Score(ctx context.Context, tsCode string) (float64, bool, error)
	Remove(ctx context.Context, tsCode string) (int64, error)
	Clear(ctx context.Context) error
}

// StockLookup verifies that a code is a recognized stock symbol before it may
// be watchlisted. Backed by the price-data table.
type StockLookup interface {
	StockCodeExists(ctx context.Context, tsCode string) (bool, error)
}

// CollectUsecase coordinates the durable watchlist table and its cache
// mirror. Writes go to the database first, then to the cache; reads prefer
// the cache and repair it from the database when they disagree.
type CollectUsecase struct {
	repo   CollectRepository
	cache  WatchlistCache
	stocks StockLookup
}

// NewCollectUsecase creates a CollectUsecase over the given stores.
func NewCollectUsecase(repo CollectRepository, cache WatchlistCache, stocks StockLookup) *CollectUsecase {
	return &CollectUsecase{repo: repo, cache: cache, stocks: stocks}
}

// Add puts a stock on the watchlist. Adding a code that is already watched
// succeeds and re-mirrors the cache entry, which heals a previously dropped
// member. Unknown codes are rejected without touching either store.
func (u *CollectUsecase) Add(ctx context.Context, tsCode string) (Status, error) {
	tsCode = strings.TrimSpace(tsCode)
	if tsCode == "" {
		return "", ErrEmptyCode
	}

	known, err := u.stocks.StockCodeExists(ctx, tsCode)
	if err != nil {
		return "", fmt.Errorf("stock lookup failed: %w", err)
	}
	if !known {
		return StatusUnknownCode, nil
	}

	exists, err := u.repo.ExistsByCode(ctx, tsCode)
	if err != nil {
		return "", fmt.Errorf("watchlist lookup failed: %w", err)
	}
	if exists {
		u.mirror(ctx, tsCode)
		return StatusAlreadyCollected, nil
	}

	if err := u.repo.Insert(ctx, tsCode); err != nil {
		return "", fmt.Errorf("watchlist insert failed: %w", err)
	}
	u.mirror(ctx, tsCode)
	return StatusCollected, nil
}

// Remove takes a stock off the watchlist. It deletes from both stores and is
// idempotent: removing an unwatched code reports StatusNotCollected without
// an error.
func (u *CollectUsecase) Remove(ctx context.Context, tsCode string) (Status, error) {
	rows, err := u.repo.DeleteByCode(ctx, tsCode)
	if err != nil {
		return "", fmt.Errorf("watchlist delete failed: %w", err)
	}

	removed, err := u.cache.Remove(ctx, tsCode)
	if err != nil {
		// The database row is already gone; a stale cache member would
		// resurrect the code on reads, so surface the failure.
		return "", fmt.Errorf("watchlist cache remove failed: %w", err)
	}

	if rows > 0 || removed > 0 {
		return StatusRemoved, nil
	}
	return StatusNotCollected, nil
}

// List returns all watched codes in insertion order. The cache serves the
// common case; when it is empty or unreachable the database order is
// returned and replayed into the cache with index scores.
func (u *CollectUsecase) List(ctx context.Context) ([]string, error) {
	codes, err := u.cache.Range(ctx)
	if err != nil {
		slog.Warn("watchlist cache read failed, falling back to database", "error", err)
		codes = nil
	}
	if len(codes) > 0 {
		return codes, nil
	}

	dbCodes, err := u.repo.ListCodesByCreation(ctx)
	if err != nil {
		return nil, fmt.Errorf("watchlist list failed: %w", err)
	}
	if len(dbCodes) == 0 {
		return []string{}, nil
	}

	for i, code := range dbCodes {
		if err := u.cache.Add(ctx, code, float64(i)); err != nil {
			slog.Warn("watchlist cache repopulation failed", "ts_code", code, "error", err)
			break
		}
	}
	return dbCodes, nil
}

// IsCollected reports whether a stock is on the watchlist. A cache miss with
// a database hit repairs the cache before returning true.
func (u *CollectUsecase) IsCollected(ctx context.Context, tsCode string) (bool, error) {
	_, found, err := u.cache.Score(ctx, tsCode)
	if err != nil {
		slog.Warn("watchlist cache lookup failed, falling back to database", "ts_code", tsCode, "error", err)
	} else if found {
		return true, nil
	}

	exists, err := u.repo.ExistsByCode(ctx, tsCode)
	if err != nil {
		return false, fmt.Errorf("watchlist lookup failed: %w", err)
	}
	if exists {
		u.mirror(ctx, tsCode)
	}
	return exists, nil
}

// Sync rebuilds the cache as an exact mirror of the database: the cache key
// is dropped wholesale, then repopulated with index scores in created_at
// order. Any cache-only members are discarded. Runs once at startup and on
// the manual trigger.
func (u *CollectUsecase) Sync(ctx context.Context) error {
	codes, err := u.repo.ListCodesByCreation(ctx)
	if err != nil {
		return fmt.Errorf("watchlist sync read failed: %w", err)
	}

	if err := u.cache.Clear(ctx); err != nil {
		return fmt.Errorf("watchlist cache clear failed: %w", err)
	}

	if len(codes) == 0 {
		slog.Info("watchlist sync: no rows in database, cache cleared")
		return nil
	}

	for i, code := range codes {
		if err := u.cache.Add(ctx, code, float64(i)); err != nil {
			return fmt.Errorf("watchlist cache write failed: %w", err)
		}
	}
	slog.Info("watchlist synced to cache", "count", len(codes))
	return nil
}

// mirror upserts the code into the cache with a fresh timestamp score.
// Best effort: after a committed insert a failed mirror is a recoverable
// inconsistency that the read paths repair, so it is logged, not returned.
func (u *CollectUsecase) mirror(ctx context.Context, tsCode string) {
	score := float64(time.Now().UnixMilli())
	if err := u.cache.Add(ctx, tsCode, score); err != nil {
		slog.Warn("watchlist cache mirror failed", "ts_code", tsCode, "error", err)
	}
}
