package billingcycle

import (
	"github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	"github.com/railzwaylabs/storefront/internal/billingcycle/service"
	"github.com/railzwaylabs/storefront/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("billingcycle.service",
	fx.Provide(service.NewService),
	fx.Invoke(watchDiscounts),
)

func watchDiscounts(cfg config.Config, svc domain.Service) {
	reloader, ok := svc.(interface {
		Reload(config.Config, error)
	})
	if !ok {
		return
	}
	cfg.Watch(reloader.Reload)
}
