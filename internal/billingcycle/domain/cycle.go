package domain

import (
	"errors"
	"strings"
)

type Cycle string

const (
	Monthly      Cycle = "monthly"
	Quarterly    Cycle = "quarterly"
	Semiannually Cycle = "semiannually"
	Annually     Cycle = "annually"
	Biennially   Cycle = "biennially"
	Triennially  Cycle = "triennially"
)

var (
	ErrInvalidCycle    = errors.New("invalid_cycle")
	ErrInvalidDiscount = errors.New("invalid_discount")
)

var ordered = []Cycle{Monthly, Quarterly, Semiannually, Annually, Biennially, Triennially}

var months = map[Cycle]int{
	Monthly:      1,
	Quarterly:    3,
	Semiannually: 6,
	Annually:     12,
	Biennially:   24,
	Triennially:  36,
}

var labels = map[Cycle]string{
	Monthly:      "Monthly",
	Quarterly:    "Quarterly",
	Semiannually: "Semi-Annually",
	Annually:     "Annually",
	Biennially:   "Biennially",
	Triennially:  "Triennially",
}

// priceFields are the backend plan columns holding each cycle's total.
var priceFields = map[Cycle]string{
	Monthly:      "monthly_price",
	Quarterly:    "quarterly_price",
	Semiannually: "semiannual_price",
	Annually:     "annual_price",
	Biennially:   "biennial_price",
	Triennially:  "triennial_price",
}

var aliases = map[string]Cycle{
	"month":         Monthly,
	"quarter":       Quarterly,
	"semiannual":    Semiannually,
	"semi_annual":   Semiannually,
	"semi-annual":   Semiannually,
	"semi_annually": Semiannually,
	"semi-annually": Semiannually,
	"annual":        Annually,
	"yearly":        Annually,
	"year":          Annually,
	"biennial":      Biennially,
	"triennial":     Triennially,
}

// All returns every cycle from shortest to longest.
func All() []Cycle {
	out := make([]Cycle, len(ordered))
	copy(out, ordered)
	return out
}

// Parse accepts the canonical ids plus the spellings the backend and older
// clients use ("semiannual", "yearly", ...).
func Parse(value string) (Cycle, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if c := Cycle(v); c.Valid() {
		return c, nil
	}
	if c, ok := aliases[v]; ok {
		return c, nil
	}
	return "", ErrInvalidCycle
}

func (c Cycle) Valid() bool {
	_, ok := months[c]
	return ok
}

// Months is the cycle length. Unknown cycles count as one month.
func (c Cycle) Months() int {
	if m, ok := months[c]; ok {
		return m
	}
	return 1
}

func (c Cycle) Label() string {
	if l, ok := labels[c]; ok {
		return l
	}
	return string(c)
}

func (c Cycle) PriceField() string {
	return priceFields[c]
}

func (c Cycle) String() string {
	return string(c)
}
