package service

import (
	"testing"

	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	pricingdomain "github.com/railzwaylabs/storefront/internal/pricing/domain"
	"github.com/railzwaylabs/storefront/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceFormForwardFills(t *testing.T) {
	f := NewPriceForm(cycledomain.AutofillDiscounts())
	f.SetBasePrice(money.NewRupees(1000))

	prices := f.Prices()
	assert.Equal(t, int64(1000), prices[cycledomain.Monthly].IntPart())
	assert.Equal(t, int64(28800), prices[cycledomain.Triennially].IntPart())
	assert.Empty(t, f.Overridden())
}

func TestPriceFormOverrideStickyUntilBaseChanges(t *testing.T) {
	f := NewPriceForm(cycledomain.AutofillDiscounts())
	f.SetBasePrice(money.NewRupees(1000))

	require.NoError(t, f.Override(cycledomain.Annually, money.NewRupees(9999)))
	assert.True(t, f.IsOverridden(cycledomain.Annually))
	assert.Equal(t, []cycledomain.Cycle{cycledomain.Annually}, f.Overridden())
	assert.Equal(t, int64(9999), f.Prices()[cycledomain.Annually].IntPart())
	assert.Equal(t, int64(2850), f.Prices()[cycledomain.Quarterly].IntPart())

	f.SetBasePrice(money.NewRupees(500))
	assert.False(t, f.IsOverridden(cycledomain.Annually))
	assert.Equal(t, int64(5400), f.Prices()[cycledomain.Annually].IntPart())
}

func TestPriceFormOverrideRejectsUnknownCycle(t *testing.T) {
	f := NewPriceForm(cycledomain.AutofillDiscounts())
	err := f.Override(cycledomain.Cycle("weekly"), money.NewRupees(1))
	assert.ErrorIs(t, err, pricingdomain.ErrInvalidCycle)
}

func TestPriceFormPricesAreCopies(t *testing.T) {
	f := NewPriceForm(cycledomain.AutofillDiscounts())
	f.SetBasePrice(money.NewRupees(100))

	p := f.Prices()
	p[cycledomain.Monthly] = money.NewRupees(1)
	assert.Equal(t, int64(100), f.Prices()[cycledomain.Monthly].IntPart())
}

func TestFillMissing(t *testing.T) {
	existing := pricingdomain.TierPrices{
		cycledomain.Monthly:    money.NewRupees(1000),
		cycledomain.Annually:   money.NewRupees(9000),
		cycledomain.Biennially: money.Rupees{},
	}
	out := FillMissing(money.NewRupees(1000), existing, cycledomain.AutofillDiscounts())

	assert.Equal(t, int64(9000), out[cycledomain.Annually].IntPart())
	assert.Equal(t, int64(2850), out[cycledomain.Quarterly].IntPart())
	assert.Equal(t, int64(20400), out[cycledomain.Biennially].IntPart())
	assert.Len(t, out, 6)
}

func TestLoadPriceForm(t *testing.T) {
	f := LoadPriceForm(cycledomain.AutofillDiscounts(), money.NewRupees(1000),
		pricingdomain.TierPrices{cycledomain.Annually: money.NewRupees(9000)},
		[]cycledomain.Cycle{cycledomain.Annually, "weekly"})

	assert.Equal(t, []cycledomain.Cycle{cycledomain.Annually}, f.Overridden())
	assert.Equal(t, int64(9000), f.Prices()[cycledomain.Annually].IntPart())
	assert.Equal(t, int64(1000), f.Prices()[cycledomain.Monthly].IntPart())
	assert.Equal(t, "1000", f.BasePrice().String())
}
