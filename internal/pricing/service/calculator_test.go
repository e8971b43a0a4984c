package service

import (
	"testing"

	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	"github.com/railzwaylabs/storefront/pkg/money"
	"github.com/stretchr/testify/assert"
)

func TestComputeQuoteAnnual(t *testing.T) {
	q := ComputeQuote(money.NewRupees(1000), cycledomain.Annually, cycledomain.CustomerDiscounts())

	assert.Equal(t, 12, q.CycleMonths)
	assert.Equal(t, 20, q.DiscountPercent)
	assert.Equal(t, money.Paise(100_000), q.MonthlyBase)
	assert.Equal(t, money.Paise(1_200_000), q.CycleTotalBefore)
	assert.Equal(t, money.Paise(960_000), q.CycleTotalAfter)
	assert.Equal(t, money.Paise(80_000), q.EffectiveMonthlyAfter)
	assert.Equal(t, money.Paise(240_000), q.Savings())
}

func TestComputeQuoteZeroDiscountKeepsTotal(t *testing.T) {
	table := cycledomain.DiscountTable{}
	for _, c := range cycledomain.All() {
		for _, price := range []string{"0", "1", "99.99", "333.33", "1249.5"} {
			q := ComputeQuote(money.ParseRupees(price), c, table)
			assert.Equal(t, q.CycleTotalBefore, q.CycleTotalAfter, "%s %s", c, price)
		}
	}
}

func TestComputeQuoteMonthlyPerMonthEqualsTotal(t *testing.T) {
	for _, price := range []string{"0", "7", "99.99", "1234.56"} {
		q := ComputeQuote(money.ParseRupees(price), cycledomain.Monthly, cycledomain.CustomerDiscounts())
		assert.Equal(t, q.CycleTotalAfter, q.EffectiveMonthlyAfter, price)
	}
}

func TestComputeQuoteRoundsAtPaise(t *testing.T) {
	// 333.33 * 3 = 999.99; 10% off = 899.991 -> 899.99; / 3 = 299.996667 -> 300.00
	q := ComputeQuote(money.ParseRupees("333.33"), cycledomain.Quarterly, cycledomain.CustomerDiscounts())
	assert.Equal(t, money.Paise(99_999), q.CycleTotalBefore)
	assert.Equal(t, money.Paise(89_999), q.CycleTotalAfter)
	assert.Equal(t, money.Paise(30_000), q.EffectiveMonthlyAfter)

	// 0.10 * 5% off = 0.095 -> rounds half up to 0.10 (10 paise * 95 = 950 / 100 = 9.5 -> 10)
	q = ComputeQuote(money.ParseRupees("0.10"), cycledomain.Monthly, cycledomain.CustomerDiscounts())
	assert.Equal(t, money.Paise(10), q.CycleTotalAfter)

	// 99.99 * 36 = 3599.64; 35% off = 2339.766 -> 2339.77; / 36 = 64.99361 -> 64.99
	q = ComputeQuote(money.ParseRupees("99.99"), cycledomain.Triennially, cycledomain.CustomerDiscounts())
	assert.Equal(t, money.Paise(359_964), q.CycleTotalBefore)
	assert.Equal(t, money.Paise(233_977), q.CycleTotalAfter)
	assert.Equal(t, money.Paise(6_499), q.EffectiveMonthlyAfter)
}

func TestComputeQuoteInvalidInputIsZero(t *testing.T) {
	for _, in := range []any{"abc", -10.0, nil, ""} {
		q := ComputeQuote(money.ParseRupees(in), cycledomain.Annually, cycledomain.CustomerDiscounts())
		assert.Equal(t, money.Paise(0), q.CycleTotalBefore)
		assert.Equal(t, money.Paise(0), q.CycleTotalAfter)
		assert.Equal(t, money.Paise(0), q.EffectiveMonthlyAfter)
	}
}

func TestComputeQuoteFullDiscount(t *testing.T) {
	q := ComputeQuote(money.NewRupees(500), cycledomain.Biennially, cycledomain.DiscountTable{cycledomain.Biennially: 100})
	assert.Equal(t, money.Paise(1_200_000), q.CycleTotalBefore)
	assert.Equal(t, money.Paise(0), q.CycleTotalAfter)
	assert.Equal(t, money.Paise(0), q.EffectiveMonthlyAfter)
}

func TestComputeQuoteIsPure(t *testing.T) {
	in := money.ParseRupees("449.5")
	assert.Equal(t,
		ComputeQuote(in, cycledomain.Semiannually, cycledomain.CustomerDiscounts()),
		ComputeQuote(in, cycledomain.Semiannually, cycledomain.CustomerDiscounts()),
	)
}

func TestDeriveTieredPriceTable(t *testing.T) {
	prices := DeriveTieredPriceTable(money.NewRupees(1000), cycledomain.AutofillDiscounts())

	assert.Equal(t, int64(1000), prices[cycledomain.Monthly].IntPart())
	assert.Equal(t, int64(2850), prices[cycledomain.Quarterly].IntPart())
	assert.Equal(t, int64(5520), prices[cycledomain.Semiannually].IntPart())
	assert.Equal(t, int64(10800), prices[cycledomain.Annually].IntPart())
	assert.Equal(t, int64(20400), prices[cycledomain.Biennially].IntPart())
	assert.Equal(t, int64(28800), prices[cycledomain.Triennially].IntPart())
}

func TestDeriveTieredPriceTableRoundsWholeRupees(t *testing.T) {
	prices := DeriveTieredPriceTable(money.ParseRupees("99.99"), cycledomain.AutofillDiscounts())

	// 99.99, 284.9715, 551.9448, 1079.892 before rounding
	assert.Equal(t, int64(100), prices[cycledomain.Monthly].IntPart())
	assert.Equal(t, int64(285), prices[cycledomain.Quarterly].IntPart())
	assert.Equal(t, int64(552), prices[cycledomain.Semiannually].IntPart())
	assert.Equal(t, int64(1080), prices[cycledomain.Annually].IntPart())
}

func TestDeriveTieredPriceTableInvalidBase(t *testing.T) {
	prices := DeriveTieredPriceTable(money.ParseRupees("-20"), cycledomain.AutofillDiscounts())
	for _, c := range cycledomain.All() {
		assert.Equal(t, int64(0), prices[c].IntPart())
	}
}

func TestComputeQuoteClampsHugeInputs(t *testing.T) {
	for _, in := range []any{"100000000000000", "99999999999999999999", 1e300} {
		q := ComputeQuote(money.ParseRupees(in), cycledomain.Triennially, cycledomain.CustomerDiscounts())
		assert.Equal(t, money.MaxPaise, q.MonthlyBase, "%v", in)
		assert.Equal(t, money.Paise(3_600_000_000_000_000), q.CycleTotalBefore, "%v", in)
		assert.Equal(t, money.Paise(2_340_000_000_000_000), q.CycleTotalAfter, "%v", in)
		assert.Equal(t, money.Paise(65_000_000_000_000), q.EffectiveMonthlyAfter, "%v", in)
	}
}

func TestComputeQuoteTotalsStayOrderedAtMaximum(t *testing.T) {
	top := money.ParseRupees("1e30")
	for _, table := range []cycledomain.DiscountTable{cycledomain.CustomerDiscounts(), cycledomain.AutofillDiscounts(), {}} {
		for _, c := range cycledomain.All() {
			q := ComputeQuote(top, c, table)
			assert.Positive(t, int64(q.CycleTotalAfter), c)
			assert.LessOrEqual(t, q.CycleTotalAfter, q.CycleTotalBefore, c)
			assert.LessOrEqual(t, q.EffectiveMonthlyAfter, q.MonthlyBase, c)
		}
	}
}
