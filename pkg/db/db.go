// Package db opens the GORM connection used for plan drafts.
package db

import (
	"fmt"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/railzwaylabs/storefront/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	gormprometheus "gorm.io/plugin/prometheus"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

var Module = fx.Module("db",
	fx.Provide(New),
)

type Params struct {
	fx.In

	Lc  fx.Lifecycle
	Cfg config.Config
	Log *zap.Logger
}

func New(p Params) (*gorm.DB, error) {
	conn, err := Open(p.Cfg.Database)
	if err != nil {
		return nil, err
	}

	if p.Cfg.Database.MetricsEnabled {
		if err := conn.Use(gormprometheus.New(gormprometheus.Config{
			DBName:          "storefront",
			RefreshInterval: 15,
		})); err != nil {
			return nil, fmt.Errorf("register db metrics: %w", err)
		}
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	p.Lc.Append(fx.StopHook(sqlDB.Close))

	p.Log.Info("database connected", zap.String("driver", Driver(p.Cfg.Database)))
	return conn, nil
}

// Open connects with the dialector matching cfg.Driver.
func Open(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch Driver(cfg) {
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	case DriverMySQL:
		dialector = mysql.Open(cfg.DSN)
	case DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Driver, err)
	}
	return conn, nil
}

// Driver normalizes the configured driver name.
func Driver(cfg config.DatabaseConfig) string {
	switch d := strings.ToLower(strings.TrimSpace(cfg.Driver)); d {
	case "", "sqlite3":
		return DriverSQLite
	case "postgresql", "pgx":
		return DriverPostgres
	default:
		return d
	}
}
