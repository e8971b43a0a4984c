package service

import (
	"context"
	"fmt"
	"time"

	"github.com/railzwaylabs/storefront/internal/clock"
	quotadomain "github.com/railzwaylabs/storefront/internal/quota/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Redis  *redis.Client `optional:"true"`
	Log    *zap.Logger
	Clock  clock.Clock
	Config *quotadomain.Config
}

type service struct {
	redis *redis.Client
	log   *zap.Logger
	clock clock.Clock
	cfg   *quotadomain.Config
}

func NewService(p ServiceParam) quotadomain.Service {
	return &service{
		redis: p.Redis,
		log:   p.Log.Named("quota.service"),
		clock: p.Clock,
		cfg:   p.Config,
	}
}

func (s *service) CanRenderQuoteSheet(ctx context.Context, client string) error {
	if !s.cfg.Enabled || s.redis == nil {
		return nil
	}

	// storefront:quota:quote_sheet:{client}:{yyyymmddhhmm}
	now := s.clock.Now(ctx)
	key := fmt.Sprintf("storefront:quota:quote_sheet:%s:%s", client, now.Format("200601021504"))

	val, err := s.redis.Incr(ctx, key).Result()
	if err != nil {
		// fail open, the quota only protects the renderer
		s.log.Warn("failed to increment quote sheet quota", zap.Error(err))
		return nil
	}
	if val == 1 {
		s.redis.Expire(ctx, key, 2*time.Minute)
	}

	if val > int64(s.cfg.QuoteSheetPerMinute) {
		return quotadomain.ErrQuotaExceeded
	}
	return nil
}
