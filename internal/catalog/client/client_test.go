package client

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	catalogdomain "github.com/railzwaylabs/storefront/internal/catalog/domain"
	"github.com/railzwaylabs/storefront/internal/config"
	"github.com/railzwaylabs/storefront/internal/observability"
	"github.com/railzwaylabs/storefront/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *observability.Metrics) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	metrics := observability.NewMetrics()
	cfg := config.Config{Backend: config.BackendConfig{BaseURL: srv.URL + "/", Token: "secret"}}
	return New(Params{Cfg: cfg, Log: zap.NewNop(), Metrics: metrics, HTTP: srv.Client()}), metrics
}

func TestListActivePlansBareArray(t *testing.T) {
	c, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/plans/", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[{"id":1,"name":"G.4GB","base_price":"499.00"}]`)
	})

	plans, err := c.ListActivePlans(t.Context())
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, "499", plans[0].BasePrice.String())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.UpstreamRequestsTotal.WithLabelValues("list_active_plans", "ok")))
}

func TestListAllPlansEnvelope(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/plans/all", r.URL.Path)
		_, _ = io.WriteString(w, `{"items":[{"id":1},{"id":2}],"total":2}`)
	})

	plans, err := c.ListAllPlans(t.Context())
	require.NoError(t, err)
	assert.Len(t, plans, 2)
}

func TestGetPlanNotFound(t *testing.T) {
	c, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Plan not found"}`, http.StatusNotFound)
	})

	_, err := c.GetPlan(t.Context(), 42)
	assert.ErrorIs(t, err, catalogdomain.ErrNotFound)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.UpstreamRequestsTotal.WithLabelValues("get_plan", "not_found")))

	_, err = c.GetPlan(t.Context(), 0)
	assert.ErrorIs(t, err, catalogdomain.ErrInvalidID)
}

func TestUpstreamError(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = io.WriteString(w, `{"detail":"slug taken"}`)
	})

	_, err := c.CreatePlan(t.Context(), catalogdomain.PlanInput{Name: "x"})
	var upstream *catalogdomain.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusUnprocessableEntity, upstream.Status)
	assert.Contains(t, upstream.Body, "slug taken")
}

func TestCreatePlanSendsJSON(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "G.8GB", body["name"])
		assert.Equal(t, 999.0, body["base_price"])

		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":9,"name":"G.8GB","base_price":999}`)
	})

	plan, err := c.CreatePlan(t.Context(), catalogdomain.PlanInput{Name: "G.8GB", BasePrice: money.NewRupees(999)})
	require.NoError(t, err)
	assert.Equal(t, int64(9), plan.ID)
}

func TestTogglesAndDiscount(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/plans/3/toggle":
			_, _ = io.WriteString(w, `{"is_active":false}`)
		case "/api/v1/plans/3/toggle-featured":
			_, _ = io.WriteString(w, `{"is_featured":true}`)
		case "/api/v1/plans/3/discount":
			assert.Equal(t, "annually", r.URL.Query().Get("billing_cycle"))
			_, _ = io.WriteString(w, `{"discount":20}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	active, err := c.TogglePlanActive(t.Context(), 3)
	require.NoError(t, err)
	assert.False(t, active)

	featured, err := c.TogglePlanFeatured(t.Context(), 3)
	require.NoError(t, err)
	assert.True(t, featured)

	d, err := c.PlanDiscount(t.Context(), 3, cycledomain.Annually)
	require.NoError(t, err)
	assert.Equal(t, 20.0, d)
}

func TestDeletePlanNoContent(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		w.WriteHeader(http.StatusNoContent)
	})
	assert.NoError(t, c.DeletePlan(t.Context(), 5))
}

func TestListAddonsCategoryAndOrders(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/addons/":
			assert.Equal(t, "STORAGE", r.URL.Query().Get("category"))
			_, _ = io.WriteString(w, `[{"id":1,"name":"Block storage","category":"STORAGE","price":"99"}]`)
		case "/api/v1/orders/admin":
			_, _ = io.WriteString(w, `{"items":[{"id":1,"order_number":"ORD-1","grand_total":1180.5}]}`)
		}
	})

	addons, err := c.ListAddons(t.Context(), " STORAGE ")
	require.NoError(t, err)
	require.Len(t, addons, 1)

	orders, err := c.ListOrders(t.Context())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "1180.5", orders[0].GrandTotal.String())
}

func TestInvalidPayload(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `"oops"`)
	})
	_, err := c.ListActivePlans(t.Context())
	assert.ErrorIs(t, err, catalogdomain.ErrInvalidResponse)
}

func TestUnavailable(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	c.baseURL = "http://127.0.0.1:1"
	_, err := c.ListActivePlans(t.Context())
	assert.ErrorIs(t, err, catalogdomain.ErrUnavailable)
}

func TestListUsersEnvelope(t *testing.T) {
	c, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/admin/users", r.URL.Path)
		assert.Equal(t, "1000", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, `{"users":[{"id":1,"email":"asha@example.in","role":"admin","account_status":"active"}]}`)
	})

	users, err := c.ListUsers(t.Context())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.True(t, users[0].IsAdmin())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.UpstreamRequestsTotal.WithLabelValues("list_users", "ok")))
}

func TestAffiliateLedger(t *testing.T) {
	var paths []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/api/v1/affiliate/admin/affiliates":
			_, _ = io.WriteString(w, `{"items":[{"id":1,"referral_code":"ASHA10","total_commission":"1500.50","user":{"email":"asha@example.in"}}],"total":1}`)
		case "/api/v1/affiliate/admin/earnings/pending":
			_, _ = io.WriteString(w, `[{"id":3,"commission_amount":120,"level":1}]`)
		default:
			_, _ = io.WriteString(w, `[{"id":9,"amount":"5000","net_amount":"4750","status":"completed"}]`)
		}
	})

	affiliates, err := c.ListAffiliates(t.Context())
	require.NoError(t, err)
	require.Len(t, affiliates, 1)
	assert.Equal(t, "1500.5", affiliates[0].TotalCommission.String())
	assert.Equal(t, "asha@example.in", affiliates[0].User.Email)

	earnings, err := c.ListPendingEarnings(t.Context())
	require.NoError(t, err)
	require.Len(t, earnings, 1)
	assert.Equal(t, "120", earnings[0].CommissionAmount.String())

	payouts, err := c.ListPayouts(t.Context(), catalogdomain.PayoutsHistory)
	require.NoError(t, err)
	require.Len(t, payouts, 1)
	assert.Equal(t, "4750", payouts[0].Payable().String())

	_, err = c.ListPayouts(t.Context(), "")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/api/v1/affiliate/admin/affiliates",
		"/api/v1/affiliate/admin/earnings/pending",
		"/api/v1/affiliate/admin/payouts/history",
		"/api/v1/affiliate/admin/payouts/pending",
	}, paths)
}
