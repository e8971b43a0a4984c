package domain

import (
	"errors"

	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	"github.com/railzwaylabs/storefront/pkg/money"
)

var (
	ErrInvalidCycle = errors.New("invalid_cycle")
	ErrInvalidTable = errors.New("invalid_discount_table")
)

// Quote is the price of one plan for one billing cycle. Every amount is
// derived from MonthlyBase through paise arithmetic only.
type Quote struct {
	Cycle           cycledomain.Cycle
	CycleMonths     int
	DiscountPercent int

	MonthlyBase           money.Paise
	CycleTotalBefore      money.Paise
	CycleTotalAfter       money.Paise
	EffectiveMonthlyAfter money.Paise
}

// Savings is what the discount takes off the cycle total.
func (q Quote) Savings() money.Paise {
	return q.CycleTotalBefore - q.CycleTotalAfter
}

// QuoteResponse is the wire form of a Quote: paise for arithmetic, rupees
// for display.
type QuoteResponse struct {
	Cycle           cycledomain.Cycle `json:"cycle"`
	CycleLabel      string            `json:"cycle_label"`
	CycleMonths     int               `json:"cycle_months"`
	DiscountPercent int               `json:"discount_percent"`

	MonthlyBasePaise           int64 `json:"monthly_base_paise"`
	CycleTotalBeforePaise      int64 `json:"cycle_total_before_paise"`
	CycleTotalAfterPaise       int64 `json:"cycle_total_after_paise"`
	EffectiveMonthlyAfterPaise int64 `json:"effective_monthly_after_paise"`
	SavingsPaise               int64 `json:"savings_paise"`

	MonthlyBase           float64 `json:"monthly_base"`
	CycleTotalBefore      float64 `json:"cycle_total_before"`
	CycleTotalAfter       float64 `json:"cycle_total_after"`
	EffectiveMonthlyAfter float64 `json:"effective_monthly_after"`

	Display QuoteDisplay `json:"display"`
}

// QuoteDisplay holds preformatted INR strings.
type QuoteDisplay struct {
	MonthlyBase           string `json:"monthly_base"`
	CycleTotalBefore      string `json:"cycle_total_before"`
	CycleTotalAfter       string `json:"cycle_total_after"`
	EffectiveMonthlyAfter string `json:"effective_monthly_after"`
}

func (q Quote) Response() QuoteResponse {
	return QuoteResponse{
		Cycle:           q.Cycle,
		CycleLabel:      q.Cycle.Label(),
		CycleMonths:     q.CycleMonths,
		DiscountPercent: q.DiscountPercent,

		MonthlyBasePaise:           int64(q.MonthlyBase),
		CycleTotalBeforePaise:      int64(q.CycleTotalBefore),
		CycleTotalAfterPaise:       int64(q.CycleTotalAfter),
		EffectiveMonthlyAfterPaise: int64(q.EffectiveMonthlyAfter),
		SavingsPaise:               int64(q.Savings()),

		MonthlyBase:           q.MonthlyBase.Float(),
		CycleTotalBefore:      q.CycleTotalBefore.Float(),
		CycleTotalAfter:       q.CycleTotalAfter.Float(),
		EffectiveMonthlyAfter: q.EffectiveMonthlyAfter.Float(),

		Display: QuoteDisplay{
			MonthlyBase:           money.FormatINRRounded(q.MonthlyBase),
			CycleTotalBefore:      money.FormatINRRounded(q.CycleTotalBefore),
			CycleTotalAfter:       money.FormatINRRounded(q.CycleTotalAfter),
			EffectiveMonthlyAfter: money.FormatINRRounded(q.EffectiveMonthlyAfter),
		},
	}
}

// TierPrices are cycle totals in rupees keyed by cycle, as the admin plan
// editor holds them.
type TierPrices map[cycledomain.Cycle]money.Rupees

// TierPricesResponse uses the backend's plan column names.
type TierPricesResponse struct {
	MonthlyPrice    money.Rupees `json:"monthly_price"`
	QuarterlyPrice  money.Rupees `json:"quarterly_price"`
	SemiannualPrice money.Rupees `json:"semiannual_price"`
	AnnualPrice     money.Rupees `json:"annual_price"`
	BiennialPrice   money.Rupees `json:"biennial_price"`
	TriennialPrice  money.Rupees `json:"triennial_price"`
}

// Clone returns an independent copy.
func (t TierPrices) Clone() TierPrices {
	out := make(TierPrices, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

func (t TierPrices) Response() TierPricesResponse {
	return TierPricesResponse{
		MonthlyPrice:    t[cycledomain.Monthly],
		QuarterlyPrice:  t[cycledomain.Quarterly],
		SemiannualPrice: t[cycledomain.Semiannually],
		AnnualPrice:     t[cycledomain.Annually],
		BiennialPrice:   t[cycledomain.Biennially],
		TriennialPrice:  t[cycledomain.Triennially],
	}
}
