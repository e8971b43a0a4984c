package quotesheet

import (
	"github.com/railzwaylabs/storefront/internal/quotesheet/service"
	"go.uber.org/fx"
)

var Module = fx.Module("quotesheet.service",
	fx.Provide(service.New),
)
