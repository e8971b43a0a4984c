// Package money holds the rupee/paise amount types used by pricing.
package money

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// MaxRupees is the largest amount the storefront prices. Larger inputs clamp
// to it, which keeps 36 months of it times a percentage inside int64 paise.
var MaxRupees = decimal.New(1, 12)

// MaxPaise is MaxRupees in minor units.
const MaxPaise Paise = 100_000_000_000_000

// Paise is an amount in minor currency units (1/100 rupee).
type Paise int64

// Rupees returns the amount as a decimal rupee value.
func (p Paise) Rupees() decimal.Decimal {
	return decimal.NewFromInt(int64(p)).Shift(-2)
}

// Float returns the rupee value for display only.
func (p Paise) Float() float64 {
	return float64(p) / 100
}

// Rupees is a non-negative rupee amount decoded leniently from the backend,
// which sends prices both as strings ("999.00") and as numbers.
type Rupees struct {
	decimal.Decimal
}

// NewRupees builds an amount from a float, normalizing invalid values to zero.
func NewRupees(v float64) Rupees {
	return ParseRupees(v)
}

// ParseRupees coerces any input to an amount in [0, MaxRupees]. Anything
// that is not a finite, non-negative number becomes zero; amounts above the
// maximum clamp to it.
func ParseRupees(v any) Rupees {
	var (
		d   decimal.Decimal
		err error
	)
	switch t := v.(type) {
	case nil:
		return Rupees{}
	case Rupees:
		d = t.Decimal
	case decimal.Decimal:
		d = t
	case string:
		d, err = parseString(t)
	case json.Number:
		d, err = parseString(t.String())
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return Rupees{}
		}
		d = decimal.NewFromFloat(t)
	case float32:
		return ParseRupees(float64(t))
	case int:
		d = decimal.NewFromInt(int64(t))
	case int64:
		d = decimal.NewFromInt(t)
	case int32:
		d = decimal.NewFromInt(int64(t))
	default:
		return Rupees{}
	}
	if err != nil || d.IsNegative() {
		return Rupees{}
	}
	if d.GreaterThan(MaxRupees) {
		d = MaxRupees
	}
	return Rupees{Decimal: d}
}

func parseString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimPrefix(s, "₹"))
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// ToPaise converts to minor units, rounding half-up to the nearest paisa.
// The result saturates to [0, MaxPaise].
func (r Rupees) ToPaise() Paise {
	switch {
	case r.Decimal.IsNegative():
		return 0
	case r.Decimal.GreaterThan(MaxRupees):
		return MaxPaise
	}
	return Paise(r.Decimal.Mul(hundred).Round(0).IntPart())
}

// Float returns the amount as float64.
func (r Rupees) Float() float64 {
	f, _ := r.Decimal.Float64()
	return f
}

func (r Rupees) MarshalJSON() ([]byte, error) {
	return []byte(r.Decimal.StringFixed(2)), nil
}

func (r *Rupees) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" || raw == "" {
		*r = Rupees{}
		return nil
	}
	*r = ParseRupees(strings.Trim(raw, `"`))
	return nil
}
