package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	catalogdomain "github.com/railzwaylabs/storefront/internal/catalog/domain"
	"github.com/railzwaylabs/storefront/internal/config"
	"github.com/railzwaylabs/storefront/internal/observability"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const maxErrorBody = 512

type Params struct {
	fx.In

	Cfg     config.Config
	Log     *zap.Logger
	Metrics *observability.Metrics
	HTTP    *http.Client `optional:"true"`
}

// Client talks to the hosting backend's REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *zap.Logger
	metrics *observability.Metrics
}

func New(p Params) *Client {
	hc := p.HTTP
	if hc == nil {
		hc = &http.Client{Timeout: p.Cfg.Backend.Timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(p.Cfg.Backend.BaseURL, "/"),
		token:   p.Cfg.Backend.Token,
		http:    hc,
		log:     p.Log.Named("catalog.client"),
		metrics: p.Metrics,
	}
}

func (c *Client) ListActivePlans(ctx context.Context) ([]catalogdomain.Plan, error) {
	var out catalogdomain.List[catalogdomain.Plan]
	if err := c.do(ctx, "list_active_plans", http.MethodGet, "/api/v1/plans/", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) ListAllPlans(ctx context.Context) ([]catalogdomain.Plan, error) {
	var out catalogdomain.List[catalogdomain.Plan]
	if err := c.do(ctx, "list_all_plans", http.MethodGet, "/api/v1/plans/all", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) GetPlan(ctx context.Context, id int64) (*catalogdomain.Plan, error) {
	if id <= 0 {
		return nil, catalogdomain.ErrInvalidID
	}
	var out catalogdomain.Plan
	if err := c.do(ctx, "get_plan", http.MethodGet, planPath(id, ""), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreatePlan(ctx context.Context, in catalogdomain.PlanInput) (*catalogdomain.Plan, error) {
	var out catalogdomain.Plan
	if err := c.do(ctx, "create_plan", http.MethodPost, "/api/v1/plans/", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdatePlan(ctx context.Context, id int64, in catalogdomain.PlanInput) (*catalogdomain.Plan, error) {
	if id <= 0 {
		return nil, catalogdomain.ErrInvalidID
	}
	var out catalogdomain.Plan
	if err := c.do(ctx, "update_plan", http.MethodPut, planPath(id, ""), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeletePlan(ctx context.Context, id int64) error {
	if id <= 0 {
		return catalogdomain.ErrInvalidID
	}
	return c.do(ctx, "delete_plan", http.MethodDelete, planPath(id, ""), nil, nil)
}

func (c *Client) TogglePlanActive(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, catalogdomain.ErrInvalidID
	}
	var out struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.do(ctx, "toggle_plan", http.MethodPost, planPath(id, "/toggle"), nil, &out); err != nil {
		return false, err
	}
	return out.IsActive, nil
}

func (c *Client) TogglePlanFeatured(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, catalogdomain.ErrInvalidID
	}
	var out struct {
		IsFeatured bool `json:"is_featured"`
	}
	if err := c.do(ctx, "toggle_plan_featured", http.MethodPost, planPath(id, "/toggle-featured"), nil, &out); err != nil {
		return false, err
	}
	return out.IsFeatured, nil
}

func (c *Client) PlanDiscount(ctx context.Context, id int64, cycle cycledomain.Cycle) (float64, error) {
	if id <= 0 {
		return 0, catalogdomain.ErrInvalidID
	}
	q := url.Values{"billing_cycle": []string{cycle.String()}}
	var out struct {
		Discount json.Number `json:"discount"`
	}
	if err := c.do(ctx, "plan_discount", http.MethodGet, planPath(id, "/discount")+"?"+q.Encode(), nil, &out); err != nil {
		return 0, err
	}
	if out.Discount == "" {
		return 0, nil
	}
	d, err := out.Discount.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: discount %q", catalogdomain.ErrInvalidResponse, out.Discount)
	}
	return d, nil
}

func (c *Client) ListAddons(ctx context.Context, category string) ([]catalogdomain.Addon, error) {
	path := "/api/v1/addons/"
	if category = strings.TrimSpace(category); category != "" {
		path += "?" + url.Values{"category": []string{category}}.Encode()
	}
	var out catalogdomain.List[catalogdomain.Addon]
	if err := c.do(ctx, "list_addons", http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) ListOrders(ctx context.Context) ([]catalogdomain.Order, error) {
	var out catalogdomain.List[catalogdomain.Order]
	if err := c.do(ctx, "list_orders", http.MethodGet, "/api/v1/orders/admin?limit=1000", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]catalogdomain.User, error) {
	var out catalogdomain.List[catalogdomain.User]
	if err := c.do(ctx, "list_users", http.MethodGet, "/api/v1/admin/users?limit=1000", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) ListAffiliates(ctx context.Context) ([]catalogdomain.Affiliate, error) {
	var out catalogdomain.List[catalogdomain.Affiliate]
	if err := c.do(ctx, "list_affiliates", http.MethodGet, "/api/v1/affiliate/admin/affiliates?skip=0&limit=1000", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) ListPendingEarnings(ctx context.Context) ([]catalogdomain.Earning, error) {
	var out catalogdomain.List[catalogdomain.Earning]
	if err := c.do(ctx, "list_pending_earnings", http.MethodGet, "/api/v1/affiliate/admin/earnings/pending?skip=0&limit=1000", nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) ListPayouts(ctx context.Context, queue catalogdomain.PayoutQueue) ([]catalogdomain.Payout, error) {
	if queue != catalogdomain.PayoutsHistory {
		queue = catalogdomain.PayoutsPending
	}
	var out catalogdomain.List[catalogdomain.Payout]
	path := "/api/v1/affiliate/admin/payouts/" + string(queue) + "?skip=0&limit=1000"
	if err := c.do(ctx, "list_payouts_"+string(queue), http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Items, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) (err error) {
	defer func() {
		c.metrics.UpstreamRequestsTotal.WithLabelValues(op, outcome(err)).Inc()
		if err != nil && !errors.Is(err, catalogdomain.ErrNotFound) {
			c.log.Warn("upstream request failed",
				zap.String("operation", op),
				zap.String("method", method),
				zap.String("path", path),
				zap.Error(err),
			)
		}
	}()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build %s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", catalogdomain.ErrUnavailable, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return catalogdomain.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &catalogdomain.UpstreamError{
			Op:     op,
			Status: resp.StatusCode,
			Body:   strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %s: %v", catalogdomain.ErrInvalidResponse, op, err)
	}
	return nil
}

func planPath(id int64, suffix string) string {
	return "/api/v1/plans/" + strconv.FormatInt(id, 10) + suffix
}

func outcome(err error) string {
	var upstream *catalogdomain.UpstreamError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, catalogdomain.ErrNotFound):
		return "not_found"
	case errors.As(err, &upstream):
		return "status_" + strconv.Itoa(upstream.Status)
	case errors.Is(err, catalogdomain.ErrInvalidResponse):
		return "invalid_response"
	default:
		return "error"
	}
}
