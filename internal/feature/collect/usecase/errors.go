package usecase

import "errors"

var (
	// ErrEmptyCode is returned when a blank stock code is supplied to Add.
	// It is rejected before either store is touched.
	ErrEmptyCode = errors.New("stock code must not be empty")
)
