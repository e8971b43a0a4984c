package service

import (
	"math"

	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	pricingdomain "github.com/railzwaylabs/storefront/internal/pricing/domain"
	"github.com/railzwaylabs/storefront/pkg/money"
)

// ComputeQuote prices monthlyRupees over cycle using table. All rounding is
// half-up at paise granularity, and the per-month figure is derived from
// the discounted total so the two never disagree on screen.
func ComputeQuote(monthlyRupees money.Rupees, cycle cycledomain.Cycle, table cycledomain.DiscountTable) pricingdomain.Quote {
	months := cycle.Months()
	discount := table.Percent(cycle)

	monthly := min(max(monthlyRupees.ToPaise(), 0), money.MaxPaise)
	before := monthly * money.Paise(months)
	after := divRoundHalfUp(int64(before)*int64(100-discount), 100)
	perMonth := divRoundHalfUp(after, int64(months))

	return pricingdomain.Quote{
		Cycle:                 cycle,
		CycleMonths:           months,
		DiscountPercent:       discount,
		MonthlyBase:           monthly,
		CycleTotalBefore:      before,
		CycleTotalAfter:       money.Paise(after),
		EffectiveMonthlyAfter: money.Paise(perMonth),
	}
}

// DeriveTieredPriceTable pre-fills every cycle total from one monthly base
// price. It rounds once, to whole rupees, on the product
// monthly * months * (1 - discount/100).
func DeriveTieredPriceTable(monthlyRupees money.Rupees, table cycledomain.DiscountTable) pricingdomain.TierPrices {
	base := monthlyRupees.Float()
	if math.IsNaN(base) || base < 0 {
		base = 0
	}

	out := make(pricingdomain.TierPrices, len(cycledomain.All()))
	for _, c := range cycledomain.All() {
		factor := float64(100-table.Percent(c)) / 100
		out[c] = money.ParseRupees(roundRupees(base * float64(c.Months()) * factor))
	}
	return out
}

// divRoundHalfUp divides non-negative n by d rounding halves up.
func divRoundHalfUp(n, d int64) int64 {
	if d <= 0 || n <= 0 {
		return 0
	}
	return (2*n + d) / (2 * d)
}

func roundRupees(raw float64) int64 {
	return int64(math.Floor(raw + 0.5))
}
