package domain

import "fmt"

// DiscountTable maps a cycle to a whole discount percentage.
type DiscountTable map[Cycle]int

// TableKind names one of the two independent discount schedules.
type TableKind string

const (
	// Customer is the schedule shown on the public pricing page.
	Customer TableKind = "customer"
	// Autofill is the schedule the admin plan editor uses to pre-populate
	// tier prices from one base price.
	Autofill TableKind = "autofill"
)

func CustomerDiscounts() DiscountTable {
	return DiscountTable{
		Monthly:      5,
		Quarterly:    10,
		Semiannually: 15,
		Annually:     20,
		Biennially:   25,
		Triennially:  35,
	}
}

func AutofillDiscounts() DiscountTable {
	return DiscountTable{
		Monthly:      0,
		Quarterly:    5,
		Semiannually: 8,
		Annually:     10,
		Biennially:   15,
		Triennially:  20,
	}
}

// Percent returns the discount for c clamped to [0, 100]. Missing cycles
// carry no discount.
func (t DiscountTable) Percent(c Cycle) int {
	p := t[c]
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Clone returns an independent copy.
func (t DiscountTable) Clone() DiscountTable {
	out := make(DiscountTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

func (t DiscountTable) Validate() error {
	for c, p := range t {
		if !c.Valid() {
			return fmt.Errorf("%w: %q", ErrInvalidCycle, c)
		}
		if p < 0 || p > 100 {
			return fmt.Errorf("%w: %s=%d", ErrInvalidDiscount, c, p)
		}
	}
	return nil
}

// ParseTable builds a table from configuration keys. Keys go through Parse,
// so "semiannual" and "semiannually" are the same cycle. Cycles that are
// absent keep the value from base.
func ParseTable(raw map[string]int, base DiscountTable) (DiscountTable, error) {
	out := base.Clone()
	for k, v := range raw {
		c, err := Parse(k)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidCycle, k)
		}
		out[c] = v
	}
	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// Info describes a cycle for the pricing page.
type Info struct {
	ID       Cycle  `json:"id"`
	Name     string `json:"name"`
	Months   int    `json:"months"`
	Discount int    `json:"discount"`
}

type Service interface {
	Table(kind TableKind) DiscountTable
	Customer() DiscountTable
	Autofill() DiscountTable
	Cycles() []Info
	Replace(customer, autofill DiscountTable) error
}
