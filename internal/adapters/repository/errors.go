package repository

import "errors"

// Sentinel kinds for key-value errors.
var (
	ErrQuotaExceeded = errors.New("storage quota exceeded")
	ErrUnavailable   = errors.New("storage unavailable")
)
