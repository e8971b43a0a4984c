package quota

import (
	"github.com/railzwaylabs/storefront/internal/quota/domain"
	"github.com/railzwaylabs/storefront/internal/quota/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quota.service",
	fx.Provide(
		domain.FromConfig,
		service.NewService,
	),
)
