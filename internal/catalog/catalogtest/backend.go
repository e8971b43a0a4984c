// Package catalogtest provides a testify mock of the catalog backend.
package catalogtest

import (
	"context"

	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	catalogdomain "github.com/railzwaylabs/storefront/internal/catalog/domain"
	"github.com/stretchr/testify/mock"
)

var _ catalogdomain.Backend = (*Backend)(nil)

type Backend struct {
	mock.Mock
}

func (m *Backend) ListActivePlans(ctx context.Context) ([]catalogdomain.Plan, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalogdomain.Plan), args.Error(1)
}

func (m *Backend) ListAllPlans(ctx context.Context) ([]catalogdomain.Plan, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalogdomain.Plan), args.Error(1)
}

func (m *Backend) GetPlan(ctx context.Context, id int64) (*catalogdomain.Plan, error) {
	args := m.Called(ctx, id)
	plan, _ := args.Get(0).(*catalogdomain.Plan)
	return plan, args.Error(1)
}

func (m *Backend) CreatePlan(ctx context.Context, in catalogdomain.PlanInput) (*catalogdomain.Plan, error) {
	args := m.Called(ctx, in)
	plan, _ := args.Get(0).(*catalogdomain.Plan)
	return plan, args.Error(1)
}

func (m *Backend) UpdatePlan(ctx context.Context, id int64, in catalogdomain.PlanInput) (*catalogdomain.Plan, error) {
	args := m.Called(ctx, id, in)
	plan, _ := args.Get(0).(*catalogdomain.Plan)
	return plan, args.Error(1)
}

func (m *Backend) DeletePlan(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *Backend) TogglePlanActive(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *Backend) TogglePlanFeatured(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *Backend) PlanDiscount(ctx context.Context, id int64, cycle cycledomain.Cycle) (float64, error) {
	args := m.Called(ctx, id, cycle)
	return args.Get(0).(float64), args.Error(1)
}

func (m *Backend) ListAddons(ctx context.Context, category string) ([]catalogdomain.Addon, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]catalogdomain.Addon), args.Error(1)
}

func (m *Backend) ListOrders(ctx context.Context) ([]catalogdomain.Order, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalogdomain.Order), args.Error(1)
}

func (m *Backend) ListUsers(ctx context.Context) ([]catalogdomain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalogdomain.User), args.Error(1)
}

func (m *Backend) ListAffiliates(ctx context.Context) ([]catalogdomain.Affiliate, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalogdomain.Affiliate), args.Error(1)
}

func (m *Backend) ListPendingEarnings(ctx context.Context) ([]catalogdomain.Earning, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalogdomain.Earning), args.Error(1)
}

func (m *Backend) ListPayouts(ctx context.Context, queue catalogdomain.PayoutQueue) ([]catalogdomain.Payout, error) {
	args := m.Called(ctx, queue)
	return args.Get(0).([]catalogdomain.Payout), args.Error(1)
}
