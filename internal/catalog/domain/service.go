package domain

import (
	"context"
	"errors"
	"fmt"

	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	"github.com/railzwaylabs/storefront/pkg/pagination"
)

var (
	ErrNotFound        = errors.New("not_found")
	ErrInvalidPlan     = errors.New("invalid_plan")
	ErrInvalidID       = errors.New("invalid_id")
	ErrInvalidResponse = errors.New("invalid_upstream_response")
	ErrUnavailable     = errors.New("upstream_unavailable")
)

// UpstreamError is a non-2xx answer from the backend.
type UpstreamError struct {
	Op     string
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s: upstream status %d", e.Op, e.Status)
	}
	return fmt.Sprintf("%s: upstream status %d: %s", e.Op, e.Status, e.Body)
}

// Backend is the hosting REST API the storefront reads plans, addons,
// orders, accounts and the affiliate ledger from.
type Backend interface {
	ListActivePlans(ctx context.Context) ([]Plan, error)
	ListAllPlans(ctx context.Context) ([]Plan, error)
	GetPlan(ctx context.Context, id int64) (*Plan, error)
	CreatePlan(ctx context.Context, in PlanInput) (*Plan, error)
	UpdatePlan(ctx context.Context, id int64, in PlanInput) (*Plan, error)
	DeletePlan(ctx context.Context, id int64) error
	TogglePlanActive(ctx context.Context, id int64) (bool, error)
	TogglePlanFeatured(ctx context.Context, id int64) (bool, error)
	PlanDiscount(ctx context.Context, id int64, cycle cycledomain.Cycle) (float64, error)
	ListAddons(ctx context.Context, category string) ([]Addon, error)
	ListOrders(ctx context.Context) ([]Order, error)
	ListUsers(ctx context.Context) ([]User, error)
	ListAffiliates(ctx context.Context) ([]Affiliate, error)
	ListPendingEarnings(ctx context.Context) ([]Earning, error)
	ListPayouts(ctx context.Context, queue PayoutQueue) ([]Payout, error)
}

// FilterAll is the select value that disables a status filter.
const FilterAll = "all"

type PlanFilter struct {
	Search   string `form:"search"`
	PlanType string `form:"plan_type"`
	// ActiveOnly restricts the listing to the public catalogue.
	ActiveOnly bool `form:"-"`
}

type AddonFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
}

type OrderFilter struct {
	Search        string `form:"search"`
	Status        string `form:"status"`
	PaymentStatus string `form:"payment_status"`
}

// Service is the caller-owned plan state plus the admin listings built on
// top of the backend.
type Service interface {
	FetchActivePlans(ctx context.Context) ([]Plan, error)
	FetchAllPlans(ctx context.Context) ([]Plan, error)
	FetchPlan(ctx context.Context, id int64) (*Plan, error)

	ActivePlans() []Plan
	Plans() []Plan
	Selected() *Plan

	CreatePlan(ctx context.Context, in PlanInput) (*Plan, error)
	UpdatePlan(ctx context.Context, id int64, in PlanInput) (*Plan, error)
	DeletePlan(ctx context.Context, id int64) error
	ToggleActive(ctx context.Context, id int64) (bool, error)
	ToggleFeatured(ctx context.Context, id int64) (bool, error)
	PlanDiscount(ctx context.Context, id int64, cycle cycledomain.Cycle) (float64, error)

	ListPlans(ctx context.Context, filter PlanFilter, req pagination.Request) (pagination.Page[Plan], error)
	ListAddons(ctx context.Context, filter AddonFilter, req pagination.Request) (pagination.Page[Addon], error)
	ListOrders(ctx context.Context, filter OrderFilter, req pagination.Request) (pagination.Page[Order], error)
	RevenueSummary(ctx context.Context) (RevenueSummary, error)

	ListUsers(ctx context.Context, filter UserFilter, req pagination.Request) (pagination.Page[User], error)
	UserSummary(ctx context.Context) (UserSummary, error)
	ListAffiliates(ctx context.Context, filter AffiliateFilter, req pagination.Request) (pagination.Page[Affiliate], error)
	ListPendingEarnings(ctx context.Context, filter PayoutFilter, req pagination.Request) (pagination.Page[Earning], error)
	ListPayouts(ctx context.Context, queue PayoutQueue, filter PayoutFilter, req pagination.Request) (pagination.Page[Payout], error)
}
