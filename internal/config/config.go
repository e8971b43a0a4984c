package config

import (
	"errors"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/fx"
)

var Module = fx.Module("config",
	fx.Provide(Load),
)

type Config struct {
	Env      string `mapstructure:"env"`
	LogLevel string `mapstructure:"log_level"`

	HTTP       HTTPConfig       `mapstructure:"http"`
	Backend    BackendConfig    `mapstructure:"backend"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Pagination PaginationConfig `mapstructure:"pagination"`
	Pricing    PricingConfig    `mapstructure:"pricing"`
	Quota      QuotaConfig      `mapstructure:"quota"`

	// viper instance the config was read from; nil for hand-built configs
	v *viper.Viper
}

type HTTPConfig struct {
	Addr           string        `mapstructure:"addr"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
}

// BackendConfig points at the hosting REST API that owns plans and orders.
type BackendConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type RedisConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	PlanTTL  time.Duration `mapstructure:"plan_ttl"`
}

type DatabaseConfig struct {
	Driver         string `mapstructure:"driver"`
	DSN            string `mapstructure:"dsn"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}

type PaginationConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size"`
	MaxVisible      int `mapstructure:"max_visible"`
}

// PricingConfig overrides the discount schedules; keys are cycle ids.
type PricingConfig struct {
	CustomerDiscounts map[string]int `mapstructure:"customer_discounts"`
	AutofillDiscounts map[string]int `mapstructure:"autofill_discounts"`
}

// QuotaConfig limits expensive public endpoints per client.
type QuotaConfig struct {
	Enabled             bool `mapstructure:"enabled"`
	QuoteSheetPerMinute int  `mapstructure:"quote_sheet_per_minute"`
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "production")
	v.SetDefault("log_level", "info")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.allowed_origins", []string{"*"})
	v.SetDefault("http.read_timeout", 15*time.Second)
	v.SetDefault("http.write_timeout", 30*time.Second)

	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.token", "")
	v.SetDefault("backend.timeout", 10*time.Second)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.plan_ttl", 5*time.Minute)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "file:storefront.db?cache=shared")
	v.SetDefault("database.metrics_enabled", true)

	v.SetDefault("pagination.default_page_size", 10)
	v.SetDefault("pagination.max_visible", 5)

	v.SetDefault("pricing.customer_discounts", map[string]int{})
	v.SetDefault("pricing.autofill_discounts", map[string]int{})

	v.SetDefault("quota.enabled", true)
	v.SetDefault("quota.quote_sheet_per_minute", 30)
}

// Load reads .env, then storefront.yaml (optional), then STOREFRONT_*
// environment variables, in increasing precedence.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("storefront")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/storefront")

	v.SetEnvPrefix("STOREFRONT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Backend.BaseURL), "/")
	cfg.v = v
	return cfg, nil
}

// Watch calls fn with the re-read config every time the config file
// changes. It is a no-op when no config file was found.
func (c Config) Watch(fn func(Config, error)) {
	if c.v == nil || c.v.ConfigFileUsed() == "" {
		return
	}
	c.v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		fn(decode(c.v))
	})
	c.v.WatchConfig()
}
