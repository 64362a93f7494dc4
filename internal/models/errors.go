package models

import "errors"

var (
	// ErrDataSourceUnavailable marks failures to obtain the district reference table
	// or the transaction data. It is the only error that crosses the core boundary.
	ErrDataSourceUnavailable = errors.New("data source unavailable")

	// ErrInvalidQuery marks caller input that failed validation before any lookup ran.
	ErrInvalidQuery = errors.New("invalid query")
)
