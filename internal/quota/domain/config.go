package domain

import "github.com/railzwaylabs/storefront/internal/config"

type Config struct {
	Enabled bool

	// Per client, per clock minute.
	QuoteSheetPerMinute int
}

func FromConfig(cfg config.Config) *Config {
	return &Config{
		Enabled:             cfg.Quota.Enabled && cfg.Quota.QuoteSheetPerMinute > 0,
		QuoteSheetPerMinute: cfg.Quota.QuoteSheetPerMinute,
	}
}
