// Package handler provides the HTTP handlers for the collect feature.
package handler

import (
	"context"
	"errors"
	"net/http"

	"stock_screener/internal/feature/collect/usecase"

	"github.com/gin-gonic/gin"
)

// CollectUsecase is the watchlist operations interface.
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type CollectUsecase interface {
	Add(ctx context.Context, tsCode string) (usecase.Status, error)
	Remove(ctx context.Context, tsCode string) (usecase.Status, error)
	List(ctx context.Context) ([]string, error)
	IsCollected(ctx context.Context, tsCode string) (bool, error)
	Sync(ctx context.Context) error
}

// CollectHandler handles HTTP requests for the watchlist.
type CollectHandler struct {
	uc CollectUsecase
}

// NewCollectHandler creates a new CollectHandler.
func NewCollectHandler(uc CollectUsecase) *CollectHandler {
	return &CollectHandler{uc: uc}
}

// Add watchlists a stock.
//
// POST /collect/:ts_code
func (h *CollectHandler) Add(c *gin.Context) {
	status, err := h.uc.Add(c.Request.Context(), c.Param("ts_code"))
	if err != nil {
		if errors.Is(err, usecase.ErrEmptyCode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if status == usecase.StatusUnknownCode {
		c.JSON(http.StatusNotFound, gin.H{"message": string(status)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": string(status)})
}

// Remove takes a stock off the watchlist.
//
// DELETE /collect/:ts_code
func (h *CollectHandler) Remove(c *gin.Context) {
	status, err := h.uc.Remove(c.Request.Context(), c.Param("ts_code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": string(status)})
}

// List returns all watched codes in insertion order.
//
// GET /collect/all
func (h *CollectHandler) List(c *gin.Context) {
	codes, err := h.uc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, codes)
}

// IsCollected reports whether a stock is watched.
//
// GET /collect/:ts_code
func (h *CollectHandler) IsCollected(c *gin.Context) {
	collected, err := h.uc.IsCollected(c.Request.Context(), c.Param("ts_code"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"collected": collected})
}

// Sync manually rebuilds the cache from the database.
//
// POST /collect/sync
func (h *CollectHandler) Sync(c *gin.Context) {
	if err := h.uc.Sync(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "sync completed"})
}
