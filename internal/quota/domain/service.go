package domain

import (
	"context"
	"errors"
)

var ErrQuotaExceeded = errors.New("quota_exceeded")

type Service interface {
	// CanRenderQuoteSheet counts one PDF render for client and reports
	// ErrQuotaExceeded once the minute's allowance is spent.
	CanRenderQuoteSheet(ctx context.Context, client string) error
}
