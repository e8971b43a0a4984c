package catalog

import (
	"github.com/railzwaylabs/storefront/internal/catalog/cache"
	"github.com/railzwaylabs/storefront/internal/catalog/client"
	catalogdomain "github.com/railzwaylabs/storefront/internal/catalog/domain"
	"github.com/railzwaylabs/storefront/internal/catalog/service"
	"github.com/railzwaylabs/storefront/internal/config"
	"github.com/railzwaylabs/storefront/internal/observability"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("catalog.service",
	fx.Provide(client.New),
	fx.Provide(newBackend),
	fx.Provide(service.New),
)

func newBackend(c *client.Client, rdb *redis.Client, cfg config.Config, log *zap.Logger, metrics *observability.Metrics) catalogdomain.Backend {
	return cache.New(c, rdb, cfg.Redis.PlanTTL, log, metrics)
}
