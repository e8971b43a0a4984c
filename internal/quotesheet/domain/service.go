package domain

import (
	"context"
	"errors"

	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
)

var ErrNoPlans = errors.New("no_plans")

type Request struct {
	Cycle    cycledomain.Cycle
	PlanType string
}

type Service interface {
	// Render returns a PDF with one row per active plan quoted for
	// req.Cycle with the customer discount schedule.
	Render(ctx context.Context, req Request) ([]byte, error)
}
