package domain

import "github.com/railzwaylabs/storefront/pkg/money"

// Addon is an optional extra sold with a plan (storage, backups, IPs).
type Addon struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Category    string       `json:"category"`
	Description string       `json:"description"`
	Price       money.Rupees `json:"price"`
	BillingType string       `json:"billing_type"`
	Currency    string       `json:"currency"`
	IsActive    bool         `json:"is_active"`
	IsFeatured  bool         `json:"is_featured"`
	SortOrder   int          `json:"sort_order"`
}
