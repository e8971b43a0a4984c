package cache

import (
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/railzwaylabs/storefront/internal/catalog/catalogtest"
	catalogdomain "github.com/railzwaylabs/storefront/internal/catalog/domain"
	"github.com/railzwaylabs/storefront/internal/observability"
	"github.com/railzwaylabs/storefront/pkg/money"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setup(t *testing.T) (*Backend, *catalogtest.Backend, *miniredis.Miniredis, *observability.Metrics) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	next := &catalogtest.Backend{}
	metrics := observability.NewMetrics()
	return New(next, rdb, 0, zap.NewNop(), metrics), next, mr, metrics
}

func TestReadThroughCachesPlans(t *testing.T) {
	b, next, mr, metrics := setup(t)
	plans := []catalogdomain.Plan{{ID: 1, Name: "G.4GB", BasePrice: money.NewRupees(499)}}
	next.On("ListActivePlans", mock.Anything).Return(plans, nil).Once()

	first, err := b.ListActivePlans(t.Context())
	require.NoError(t, err)
	second, err := b.ListActivePlans(t.Context())
	require.NoError(t, err)

	assert.Equal(t, "G.4GB", second[0].Name)
	assert.True(t, first[0].BasePrice.Equal(second[0].BasePrice.Decimal))
	assert.True(t, mr.Exists(keyActivePlans))
	assert.Equal(t, defaultTTL, mr.TTL(keyActivePlans))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheLookupsTotal.WithLabelValues("plans:active", "hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.CacheLookupsTotal.WithLabelValues("plans:active", "miss")))
	next.AssertExpectations(t)
}

func TestWritesInvalidatePlans(t *testing.T) {
	b, next, mr, _ := setup(t)
	next.On("ListAllPlans", mock.Anything).Return([]catalogdomain.Plan{{ID: 1}}, nil).Twice()
	next.On("TogglePlanFeatured", mock.Anything, int64(1)).Return(true, nil).Once()

	_, err := b.ListAllPlans(t.Context())
	require.NoError(t, err)
	require.True(t, mr.Exists(keyAllPlans))

	featured, err := b.TogglePlanFeatured(t.Context(), 1)
	require.NoError(t, err)
	assert.True(t, featured)
	assert.False(t, mr.Exists(keyAllPlans))

	_, err = b.ListAllPlans(t.Context())
	require.NoError(t, err)
	next.AssertExpectations(t)
}

func TestFailedWritesStillInvalidate(t *testing.T) {
	b, next, mr, _ := setup(t)
	require.NoError(t, mr.Set(keyActivePlans, "stale"))
	next.On("DeletePlan", mock.Anything, int64(2)).Return(catalogdomain.ErrNotFound)

	err := b.DeletePlan(t.Context(), 2)
	assert.ErrorIs(t, err, catalogdomain.ErrNotFound)
	assert.False(t, mr.Exists(keyActivePlans))
}

func TestAddonsKeyedByCategory(t *testing.T) {
	b, next, mr, _ := setup(t)
	next.On("ListAddons", mock.Anything, "Storage").Return([]catalogdomain.Addon{{ID: 1}}, nil).Once()

	_, err := b.ListAddons(t.Context(), "Storage")
	require.NoError(t, err)
	assert.True(t, mr.Exists(keyAddons+"storage"))
}

func TestCorruptEntryFallsBack(t *testing.T) {
	b, next, mr, _ := setup(t)
	require.NoError(t, mr.Set(keyActivePlans, "not snappy"))
	next.On("ListActivePlans", mock.Anything).Return([]catalogdomain.Plan{{ID: 7}}, nil).Once()

	plans, err := b.ListActivePlans(t.Context())
	require.NoError(t, err)
	assert.Equal(t, int64(7), plans[0].ID)
}

func TestLoadErrorIsNotCached(t *testing.T) {
	b, next, mr, _ := setup(t)
	boom := errors.New("boom")
	next.On("ListActivePlans", mock.Anything).Return([]catalogdomain.Plan(nil), boom).Once()

	_, err := b.ListActivePlans(t.Context())
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(keyActivePlans))
}

func TestNilRedisPassesThrough(t *testing.T) {
	next := &catalogtest.Backend{}
	next.On("ListActivePlans", mock.Anything).Return([]catalogdomain.Plan{{ID: 1}}, nil).Twice()
	next.On("CreatePlan", mock.Anything, mock.Anything).Return(&catalogdomain.Plan{ID: 2}, nil)

	b := New(next, nil, 0, zap.NewNop(), observability.NewMetrics())
	_, _ = b.ListActivePlans(t.Context())
	_, _ = b.ListActivePlans(t.Context())
	plan, err := b.CreatePlan(t.Context(), catalogdomain.PlanInput{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), plan.ID)
	next.AssertExpectations(t)
}

func TestOrdersBypassCache(t *testing.T) {
	b, next, mr, _ := setup(t)
	next.On("ListOrders", mock.Anything).Return([]catalogdomain.Order{{ID: 1}}, nil).Twice()

	_, _ = b.ListOrders(t.Context())
	_, _ = b.ListOrders(t.Context())
	assert.Empty(t, mr.Keys())
	next.AssertExpectations(t)
}

func TestAccountsAndLedgerBypassCache(t *testing.T) {
	b, next, mr, _ := setup(t)
	next.On("ListUsers", mock.Anything).Return([]catalogdomain.User{{ID: 1}}, nil).Once()
	next.On("ListAffiliates", mock.Anything).Return([]catalogdomain.Affiliate{{ID: 2}}, nil).Once()
	next.On("ListPendingEarnings", mock.Anything).Return([]catalogdomain.Earning{{ID: 3}}, nil).Once()
	next.On("ListPayouts", mock.Anything, catalogdomain.PayoutsHistory).Return([]catalogdomain.Payout{{ID: 4}}, nil).Once()

	users, err := b.ListUsers(t.Context())
	require.NoError(t, err)
	assert.Len(t, users, 1)
	_, _ = b.ListAffiliates(t.Context())
	_, _ = b.ListPendingEarnings(t.Context())
	payouts, err := b.ListPayouts(t.Context(), catalogdomain.PayoutsHistory)
	require.NoError(t, err)
	assert.Equal(t, int64(4), payouts[0].ID)
	assert.Empty(t, mr.Keys())
	next.AssertExpectations(t)
}
