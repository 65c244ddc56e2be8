package domain

import "errors"

var (
	ErrReceiptNotFound = errors.New("transaction receipt not found")
	ErrMarketNotFound  = errors.New("market not found")
	ErrNotFound        = errors.New("not found")
	ErrContextDone     = errors.New("context cancelled")
)
