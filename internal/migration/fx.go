package migration

import (
	"context"
	"time"

	"github.com/railzwaylabs/storefront/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Module migrates on construction, before any lifecycle hook starts serving.
var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, clk clock.Clock, log *zap.Logger) error {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		return Run(ctx, conn, clk, log.Named("migration"))
	}),
)
