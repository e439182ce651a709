package models

import "errors"

// Custom errors
var (
	ErrNoPredictions    = errors.New("no predictions supplied")
	ErrInsufficientData = errors.New("insufficient data for split")
	ErrInvalidConfig    = errors.New("invalid configuration")
)
