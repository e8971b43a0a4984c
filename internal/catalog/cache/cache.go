package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/golang/snappy"
	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	catalogdomain "github.com/railzwaylabs/storefront/internal/catalog/domain"
	"github.com/railzwaylabs/storefront/internal/observability"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix      = "storefront:catalog:"
	keyActivePlans = keyPrefix + "plans:active"
	keyAllPlans    = keyPrefix + "plans:all"
	keyAddons      = keyPrefix + "addons:"

	defaultTTL = 5 * time.Minute
)

// Backend is a read-through Redis cache in front of another Backend. Plan
// and addon lists are stored as snappy-compressed JSON; every plan write
// drops the plan keys. A nil Redis client disables caching.
type Backend struct {
	next    catalogdomain.Backend
	redis   *redis.Client
	ttl     time.Duration
	log     *zap.Logger
	metrics *observability.Metrics
}

func New(next catalogdomain.Backend, rdb *redis.Client, ttl time.Duration, log *zap.Logger, metrics *observability.Metrics) *Backend {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Backend{
		next:    next,
		redis:   rdb,
		ttl:     ttl,
		log:     log.Named("catalog.cache"),
		metrics: metrics,
	}
}

func (b *Backend) ListActivePlans(ctx context.Context) ([]catalogdomain.Plan, error) {
	return readThrough(ctx, b, keyActivePlans, b.next.ListActivePlans)
}

func (b *Backend) ListAllPlans(ctx context.Context) ([]catalogdomain.Plan, error) {
	return readThrough(ctx, b, keyAllPlans, b.next.ListAllPlans)
}

func (b *Backend) ListAddons(ctx context.Context, category string) ([]catalogdomain.Addon, error) {
	key := keyAddons + strings.ToLower(strings.TrimSpace(category))
	return readThrough(ctx, b, key, func(ctx context.Context) ([]catalogdomain.Addon, error) {
		return b.next.ListAddons(ctx, category)
	})
}

// ListOrders is never cached; payment state changes too often.
func (b *Backend) ListOrders(ctx context.Context) ([]catalogdomain.Order, error) {
	return b.next.ListOrders(ctx)
}

func (b *Backend) ListUsers(ctx context.Context) ([]catalogdomain.User, error) {
	return b.next.ListUsers(ctx)
}

// The affiliate ledger moves with every approval, so it is read through.
func (b *Backend) ListAffiliates(ctx context.Context) ([]catalogdomain.Affiliate, error) {
	return b.next.ListAffiliates(ctx)
}

func (b *Backend) ListPendingEarnings(ctx context.Context) ([]catalogdomain.Earning, error) {
	return b.next.ListPendingEarnings(ctx)
}

func (b *Backend) ListPayouts(ctx context.Context, queue catalogdomain.PayoutQueue) ([]catalogdomain.Payout, error) {
	return b.next.ListPayouts(ctx, queue)
}

func (b *Backend) GetPlan(ctx context.Context, id int64) (*catalogdomain.Plan, error) {
	return b.next.GetPlan(ctx, id)
}

func (b *Backend) PlanDiscount(ctx context.Context, id int64, cycle cycledomain.Cycle) (float64, error) {
	return b.next.PlanDiscount(ctx, id, cycle)
}

func (b *Backend) CreatePlan(ctx context.Context, in catalogdomain.PlanInput) (*catalogdomain.Plan, error) {
	plan, err := b.next.CreatePlan(ctx, in)
	b.invalidatePlans(ctx)
	return plan, err
}

func (b *Backend) UpdatePlan(ctx context.Context, id int64, in catalogdomain.PlanInput) (*catalogdomain.Plan, error) {
	plan, err := b.next.UpdatePlan(ctx, id, in)
	b.invalidatePlans(ctx)
	return plan, err
}

func (b *Backend) DeletePlan(ctx context.Context, id int64) error {
	err := b.next.DeletePlan(ctx, id)
	b.invalidatePlans(ctx)
	return err
}

func (b *Backend) TogglePlanActive(ctx context.Context, id int64) (bool, error) {
	v, err := b.next.TogglePlanActive(ctx, id)
	b.invalidatePlans(ctx)
	return v, err
}

func (b *Backend) TogglePlanFeatured(ctx context.Context, id int64) (bool, error) {
	v, err := b.next.TogglePlanFeatured(ctx, id)
	b.invalidatePlans(ctx)
	return v, err
}

func (b *Backend) invalidatePlans(ctx context.Context) {
	if b.redis == nil {
		return
	}
	if err := b.redis.Del(ctx, keyActivePlans, keyAllPlans).Err(); err != nil {
		b.log.Warn("failed to invalidate plan cache", zap.Error(err))
	}
}

func readThrough[T any](ctx context.Context, b *Backend, key string, load func(context.Context) ([]T, error)) ([]T, error) {
	if b.redis == nil {
		return load(ctx)
	}

	raw, err := b.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var items []T
		derr := decode(raw, &items)
		if derr == nil {
			b.metrics.CacheLookupsTotal.WithLabelValues(metricKey(key), "hit").Inc()
			return items, nil
		}
		b.log.Warn("dropping unreadable cache entry", zap.String("key", key), zap.Error(derr))
	case !errors.Is(err, redis.Nil):
		// fail open, the backend is still reachable
		b.log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	b.metrics.CacheLookupsTotal.WithLabelValues(metricKey(key), "miss").Inc()

	items, err := load(ctx)
	if err != nil {
		return nil, err
	}
	payload, err := encode(items)
	if err != nil {
		b.log.Warn("cache encode failed", zap.String("key", key), zap.Error(err))
		return items, nil
	}
	if err := b.redis.Set(ctx, key, payload, b.ttl).Err(); err != nil {
		b.log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return items, nil
}

func encode(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, raw), nil
}

func decode(payload []byte, v any) error {
	raw, err := snappy.Decode(nil, payload)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, v)
}

func metricKey(key string) string {
	if strings.HasPrefix(key, keyAddons) {
		return "addons"
	}
	return strings.TrimPrefix(key, keyPrefix)
}
