package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCycleMonths(t *testing.T) {
	want := []int{1, 3, 6, 12, 24, 36}
	for i, c := range All() {
		assert.Equal(t, want[i], c.Months(), c)
		assert.True(t, c.Valid())
		assert.NotEmpty(t, c.PriceField())
	}
	assert.Equal(t, 1, Cycle("weekly").Months())
	assert.False(t, Cycle("weekly").Valid())
}

func TestParse(t *testing.T) {
	cases := map[string]Cycle{
		"monthly":       Monthly,
		" Annually ":    Annually,
		"semiannual":    Semiannually,
		"semi-annually": Semiannually,
		"yearly":        Annually,
		"biennial":      Biennially,
		"TRIENNIALLY":   Triennially,
	}
	for in, want := range cases {
		got, err := Parse(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := Parse("fortnightly")
	assert.ErrorIs(t, err, ErrInvalidCycle)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Semi-Annually", Semiannually.Label())
	assert.Equal(t, "semiannual_price", Semiannually.PriceField())
	assert.Equal(t, "weekly", Cycle("weekly").Label())
}

func TestDiscountTablesAreDistinct(t *testing.T) {
	customer := CustomerDiscounts()
	autofill := AutofillDiscounts()

	assert.Equal(t, []int{5, 10, 15, 20, 25, 35}, percents(customer))
	assert.Equal(t, []int{0, 5, 8, 10, 15, 20}, percents(autofill))

	customer[Annually] = 99
	assert.Equal(t, 20, CustomerDiscounts().Percent(Annually), "constructors return fresh tables")
}

func TestPercentClamps(t *testing.T) {
	table := DiscountTable{Monthly: -4, Annually: 140}
	assert.Equal(t, 0, table.Percent(Monthly))
	assert.Equal(t, 100, table.Percent(Annually))
	assert.Equal(t, 0, table.Percent(Quarterly))
}

func TestParseTable(t *testing.T) {
	table, err := ParseTable(map[string]int{"annual": 30, "semiannual": 12}, CustomerDiscounts())
	require.NoError(t, err)
	assert.Equal(t, 30, table[Annually])
	assert.Equal(t, 12, table[Semiannually])
	assert.Equal(t, 5, table[Monthly])

	_, err = ParseTable(map[string]int{"weekly": 3}, CustomerDiscounts())
	assert.ErrorIs(t, err, ErrInvalidCycle)

	_, err = ParseTable(map[string]int{"monthly": 101}, CustomerDiscounts())
	assert.ErrorIs(t, err, ErrInvalidDiscount)

	table, err = ParseTable(nil, AutofillDiscounts())
	require.NoError(t, err)
	assert.Equal(t, AutofillDiscounts(), table)
}

func percents(t DiscountTable) []int {
	out := make([]int, 0, len(ordered))
	for _, c := range All() {
		out = append(out, t.Percent(c))
	}
	return out
}
