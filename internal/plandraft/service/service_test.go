package service

import (
	"strconv"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/prometheus/client_golang/prometheus/testutil"
	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	cycleservice "github.com/railzwaylabs/storefront/internal/billingcycle/service"
	"github.com/railzwaylabs/storefront/internal/catalog/catalogtest"
	catalogdomain "github.com/railzwaylabs/storefront/internal/catalog/domain"
	catalogservice "github.com/railzwaylabs/storefront/internal/catalog/service"
	"github.com/railzwaylabs/storefront/internal/clock"
	"github.com/railzwaylabs/storefront/internal/config"
	"github.com/railzwaylabs/storefront/internal/observability"
	"github.com/railzwaylabs/storefront/internal/plandraft/domain"
	"github.com/railzwaylabs/storefront/internal/plandraft/repository"
	"github.com/railzwaylabs/storefront/pkg/money"
	"github.com/railzwaylabs/storefront/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var testNow = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.Draft{}))
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestService(t *testing.T) (*Service, *catalogtest.Backend, *observability.Metrics) {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	cycles, err := cycleservice.NewService(cycleservice.Params{Cfg: config.Config{}, Log: zap.NewNop()})
	require.NoError(t, err)

	backend := &catalogtest.Backend{}
	t.Cleanup(func() { backend.AssertExpectations(t) })
	metrics := observability.NewMetrics()

	svc := New(Params{
		DB:      setupTestDB(t),
		Log:     zap.NewNop(),
		GenID:   node,
		Clock:   clock.Fixed(testNow),
		Repo:    repository.Provide(),
		Cycles:  cycles,
		Catalog: catalogservice.NewStore(backend, zap.NewNop(), 5),
		Metrics: metrics,
	})
	return svc.(*Service), backend, metrics
}

func draftInput() catalogdomain.PlanInput {
	return catalogdomain.PlanInput{
		Name: "G.16GB", PlanType: "general_purpose",
		CPUCores: 4, RAMGB: 16, StorageGB: 160, BandwidthGB: 3000,
		BasePrice: money.NewRupees(1000),
		Features:  []string{"Daily backups"},
	}
}

func TestCreateForwardFillsTiers(t *testing.T) {
	svc, _, _ := newTestService(t)

	resp, err := svc.Create(t.Context(), draftInput())
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, domain.StatusDraft, resp.Status)
	assert.Equal(t, "G.16GB", resp.Name)
	assert.Empty(t, resp.Overridden)
	assert.Equal(t, int64(1000), resp.Prices.MonthlyPrice.IntPart())
	assert.Equal(t, int64(2850), resp.Prices.QuarterlyPrice.IntPart())
	assert.Equal(t, int64(10800), resp.Prices.AnnualPrice.IntPart())
	assert.Equal(t, int64(28800), resp.Prices.TriennialPrice.IntPart())

	got, err := svc.Get(t.Context(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.Prices, got.Prices)
	assert.Equal(t, []string{"Daily backups"}, got.Input.Features)
	assert.WithinDuration(t, testNow, got.CreatedAt, time.Second)
}

func TestGetRejectsBadIDs(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Get(t.Context(), "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.Get(t.Context(), "-4")
	assert.ErrorIs(t, err, domain.ErrInvalidID)

	_, err = svc.Get(t.Context(), "12345")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOverrideTierSticksUntilBasePriceChanges(t *testing.T) {
	svc, _, _ := newTestService(t)
	created, err := svc.Create(t.Context(), draftInput())
	require.NoError(t, err)

	resp, err := svc.OverrideTier(t.Context(), created.ID, cycledomain.Quarterly, money.ParseRupees("2700.50"))
	require.NoError(t, err)
	assert.Equal(t, []cycledomain.Cycle{cycledomain.Quarterly}, resp.Overridden)
	assert.Equal(t, "2700.50", resp.Prices.QuarterlyPrice.StringFixed(2))

	got, err := svc.Get(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, []cycledomain.Cycle{cycledomain.Quarterly}, got.Overridden)
	assert.Equal(t, "2700.50", got.Prices.QuarterlyPrice.StringFixed(2))
	assert.Equal(t, int64(10800), got.Prices.AnnualPrice.IntPart())

	resp, err = svc.SetBasePrice(t.Context(), created.ID, money.NewRupees(2000))
	require.NoError(t, err)
	assert.Empty(t, resp.Overridden)
	assert.Equal(t, int64(5700), resp.Prices.QuarterlyPrice.IntPart())
	assert.Equal(t, int64(2000), resp.Input.BasePrice.IntPart())
}

func TestOverrideTierRejectsUnknownCycle(t *testing.T) {
	svc, _, _ := newTestService(t)
	created, err := svc.Create(t.Context(), draftInput())
	require.NoError(t, err)

	_, err = svc.OverrideTier(t.Context(), created.ID, "weekly", money.NewRupees(10))
	assert.Error(t, err)

	got, err := svc.Get(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Overridden)
}

func TestPublishCreatesPlanWithTiers(t *testing.T) {
	svc, backend, metrics := newTestService(t)
	created, err := svc.Create(t.Context(), draftInput())
	require.NoError(t, err)
	_, err = svc.OverrideTier(t.Context(), created.ID, cycledomain.Annually, money.NewRupees(9999))
	require.NoError(t, err)

	backend.On("CreatePlan", mock.Anything, mock.MatchedBy(func(in catalogdomain.PlanInput) bool {
		return in.Slug == "g-16gb" &&
			in.AnnualPrice.IntPart() == 9999 &&
			in.QuarterlyPrice.IntPart() == 2850 &&
			in.BasePrice.IntPart() == 1000
	})).Return(&catalogdomain.Plan{ID: 42, Name: "G.16GB", Slug: "g-16gb"}, nil).Once()

	plan, err := svc.Publish(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), plan.ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.DraftsPublishedTotal))

	got, err := svc.Get(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, got.Status)
	require.NotNil(t, got.PublishedPlanID)
	assert.Equal(t, int64(42), *got.PublishedPlanID)
	require.NotNil(t, got.PublishedAt)

	_, err = svc.Publish(t.Context(), created.ID)
	assert.ErrorIs(t, err, domain.ErrAlreadyPublished)
	_, err = svc.SetBasePrice(t.Context(), created.ID, money.NewRupees(1))
	assert.ErrorIs(t, err, domain.ErrAlreadyPublished)
}

func TestPublishInvalidDraftLeavesItOpen(t *testing.T) {
	svc, _, _ := newTestService(t)
	in := draftInput()
	in.PlanType = ""
	created, err := svc.Create(t.Context(), in)
	require.NoError(t, err)

	_, err = svc.Publish(t.Context(), created.ID)
	assert.ErrorIs(t, err, catalogdomain.ErrInvalidPlan)

	got, err := svc.Get(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, got.Status)
}

func TestPublishClaimsDraftBeforeCreatingPlan(t *testing.T) {
	svc, backend, metrics := newTestService(t)
	created, err := svc.Create(t.Context(), draftInput())
	require.NoError(t, err)

	backend.On("CreatePlan", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		got, err := svc.Get(t.Context(), created.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPublishing, got.Status)

		_, err = svc.Publish(t.Context(), created.ID)
		assert.ErrorIs(t, err, domain.ErrPublishing)
		_, err = svc.SetBasePrice(t.Context(), created.ID, money.NewRupees(5))
		assert.ErrorIs(t, err, domain.ErrPublishing)
	}).Return(&catalogdomain.Plan{ID: 7}, nil).Once()

	plan, err := svc.Publish(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), plan.ID)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.DraftsPublishedTotal))

	got, err := svc.Get(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, got.Status)
	assert.Equal(t, "1000", got.BasePrice.String())
}

func TestStaleDraftWriteLosesClaim(t *testing.T) {
	svc, _, _ := newTestService(t)
	created, err := svc.Create(t.Context(), draftInput())
	require.NoError(t, err)
	id, err := strconv.ParseInt(created.ID, 10, 64)
	require.NoError(t, err)

	first, err := svc.repo.FindByID(t.Context(), svc.db, id)
	require.NoError(t, err)
	second, err := svc.repo.FindByID(t.Context(), svc.db, id)
	require.NoError(t, err)

	first.Status = domain.StatusPublishing
	require.NoError(t, svc.repo.Update(t.Context(), svc.db, first, domain.StatusDraft))
	second.Status = domain.StatusPublishing
	assert.ErrorIs(t, svc.repo.Update(t.Context(), svc.db, second, domain.StatusDraft), domain.ErrStatusConflict)

	missing := *first
	missing.ID = 1
	assert.ErrorIs(t, svc.repo.Update(t.Context(), svc.db, &missing, domain.StatusPublishing), domain.ErrNotFound)
}

func TestPublishUpstreamFailureReleasesDraft(t *testing.T) {
	svc, backend, metrics := newTestService(t)
	created, err := svc.Create(t.Context(), draftInput())
	require.NoError(t, err)

	backend.On("CreatePlan", mock.Anything, mock.Anything).Return(nil, catalogdomain.ErrUnavailable).Once()
	_, err = svc.Publish(t.Context(), created.ID)
	assert.ErrorIs(t, err, catalogdomain.ErrUnavailable)
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.DraftsPublishedTotal))

	got, err := svc.Get(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, got.Status)
	assert.Nil(t, got.PublishedPlanID)

	backend.On("CreatePlan", mock.Anything, mock.Anything).Return(&catalogdomain.Plan{ID: 9}, nil).Once()
	plan, err := svc.Publish(t.Context(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(9), plan.ID)
}

func TestListPagesNewestFirst(t *testing.T) {
	svc, _, _ := newTestService(t)

	var ids []string
	for range 7 {
		resp, err := svc.Create(t.Context(), draftInput())
		require.NoError(t, err)
		ids = append(ids, resp.ID)
	}

	page, err := svc.List(t.Context(), domain.ListRequest{Page: pagination.Request{Page: 2, PageSize: 3}})
	require.NoError(t, err)
	assert.Equal(t, 7, page.PageInfo.TotalItems)
	assert.Equal(t, 3, page.PageInfo.TotalPages)
	require.Len(t, page.Items, 3)
	assert.Equal(t, ids[3], page.Items[0].ID)
	assert.Equal(t, ids[1], page.Items[2].ID)

	page, err = svc.List(t.Context(), domain.ListRequest{Page: pagination.Request{Page: 9, PageSize: 3}})
	require.NoError(t, err)
	assert.Equal(t, 3, page.PageInfo.CurrentPage)
	require.Len(t, page.Items, 1)
	assert.Equal(t, ids[0], page.Items[0].ID)

	page, err = svc.List(t.Context(), domain.ListRequest{Status: domain.StatusPublished, Page: pagination.Request{Page: 1, PageSize: 3}})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.Equal(t, 1, page.PageInfo.CurrentPage)
}
