// Package usecase implements the business logic for the stock screen queries.
package usecase

import "errors"

var (
	// ErrNoTradeData is returned when the price table has no rows at all, so
	// no latest trade date can be resolved.
	ErrNoTradeData = errors.New("no trade data available")
)
