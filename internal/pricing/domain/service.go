package domain

import (
	"context"

	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	catalogdomain "github.com/railzwaylabs/storefront/internal/catalog/domain"
	"github.com/railzwaylabs/storefront/pkg/money"
	"github.com/railzwaylabs/storefront/pkg/pagination"
)

// PlanCard is a plan as the pricing page renders it, quoted for one cycle.
type PlanCard struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Description   string   `json:"description,omitempty"`
	PlanType      string   `json:"plan_type"`
	PlanTypeLabel string   `json:"plan_type_label"`
	VCPU          int      `json:"vcpu"`
	RAMGB         int      `json:"ram_gb"`
	StorageGB     int      `json:"storage_gb"`
	BandwidthTB   float64  `json:"bandwidth_tb"`
	Features      []string `json:"features"`
	Popular       bool     `json:"popular"`

	Quote QuoteResponse `json:"quote"`
}

// PlanType is one tab on the pricing page.
type PlanType struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

type QuotePlansRequest struct {
	Cycle    cycledomain.Cycle
	PlanType string
	Page     pagination.Request
}

type Service interface {
	// Quote prices a monthly amount with the named discount schedule.
	Quote(monthly money.Rupees, cycle cycledomain.Cycle, kind cycledomain.TableKind) (Quote, error)
	QuotePlans(ctx context.Context, req QuotePlansRequest) (pagination.Page[PlanCard], error)
	PlanTypes(ctx context.Context) ([]PlanType, error)
	// Autofill derives all six tier totals from one base price.
	Autofill(base money.Rupees) TierPrices
	// FillPlanPrices returns a plan's stored tiers with empty ones derived
	// from its base price.
	FillPlanPrices(plan catalogdomain.Plan) TierPrices
}
