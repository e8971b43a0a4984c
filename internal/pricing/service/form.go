package service

import (
	"fmt"

	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	pricingdomain "github.com/railzwaylabs/storefront/internal/pricing/domain"
	"github.com/railzwaylabs/storefront/pkg/money"
)

// PriceForm is the admin plan editor's tier price state. Setting the base
// price forward-fills every tier from the autofill table; a manual override
// sticks until the base price changes again.
type PriceForm struct {
	table      cycledomain.DiscountTable
	base       money.Rupees
	prices     pricingdomain.TierPrices
	overridden map[cycledomain.Cycle]bool
}

func NewPriceForm(table cycledomain.DiscountTable) *PriceForm {
	return &PriceForm{
		table:      table.Clone(),
		prices:     DeriveTieredPriceTable(money.Rupees{}, table),
		overridden: map[cycledomain.Cycle]bool{},
	}
}

// LoadPriceForm restores a form from stored state. Overridden cycles that
// are not valid are dropped.
func LoadPriceForm(table cycledomain.DiscountTable, base money.Rupees, prices pricingdomain.TierPrices, overridden []cycledomain.Cycle) *PriceForm {
	f := &PriceForm{
		table:      table.Clone(),
		base:       base,
		prices:     FillMissing(base, prices, table),
		overridden: map[cycledomain.Cycle]bool{},
	}
	for _, c := range overridden {
		if c.Valid() {
			f.overridden[c] = true
		}
	}
	return f
}

// SetBasePrice replaces every tier with values derived from base and clears
// all overrides.
func (f *PriceForm) SetBasePrice(base money.Rupees) {
	f.base = base
	f.prices = DeriveTieredPriceTable(base, f.table)
	f.overridden = map[cycledomain.Cycle]bool{}
}

// Override pins one tier to an admin-entered total.
func (f *PriceForm) Override(c cycledomain.Cycle, total money.Rupees) error {
	if !c.Valid() {
		return fmt.Errorf("%w: %q", pricingdomain.ErrInvalidCycle, c)
	}
	f.prices[c] = total
	f.overridden[c] = true
	return nil
}

func (f *PriceForm) BasePrice() money.Rupees {
	return f.base
}

func (f *PriceForm) Prices() pricingdomain.TierPrices {
	return f.prices.Clone()
}

func (f *PriceForm) IsOverridden(c cycledomain.Cycle) bool {
	return f.overridden[c]
}

// Overridden lists the pinned cycles in cycle order.
func (f *PriceForm) Overridden() []cycledomain.Cycle {
	out := make([]cycledomain.Cycle, 0, len(f.overridden))
	for _, c := range cycledomain.All() {
		if f.overridden[c] {
			out = append(out, c)
		}
	}
	return out
}

// FillMissing returns existing with every zero or absent tier derived from
// base. Non-zero tiers are kept as they are.
func FillMissing(base money.Rupees, existing pricingdomain.TierPrices, table cycledomain.DiscountTable) pricingdomain.TierPrices {
	derived := DeriveTieredPriceTable(base, table)
	out := make(pricingdomain.TierPrices, len(derived))
	for _, c := range cycledomain.All() {
		if v, ok := existing[c]; ok && v.IsPositive() {
			out[c] = v
			continue
		}
		out[c] = derived[c]
	}
	return out
}
