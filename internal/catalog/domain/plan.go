package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gosimple/slug"
	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	"github.com/railzwaylabs/storefront/pkg/money"
)

// Plan is a hosting plan as the backend serves it. Prices arrive as strings
// or numbers; SemiannualPrice is null on plans created before that column
// existed.
type Plan struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	PlanType    string `json:"plan_type"`

	CPUCores    int `json:"cpu_cores"`
	RAMGB       int `json:"ram_gb"`
	StorageGB   int `json:"storage_gb"`
	BandwidthGB int `json:"bandwidth_gb"`

	BasePrice       money.Rupees  `json:"base_price"`
	MonthlyPrice    *money.Rupees `json:"monthly_price"`
	QuarterlyPrice  money.Rupees  `json:"quarterly_price"`
	SemiannualPrice *money.Rupees `json:"semiannual_price"`
	AnnualPrice     money.Rupees  `json:"annual_price"`
	BiennialPrice   money.Rupees  `json:"biennial_price"`
	TriennialPrice  money.Rupees  `json:"triennial_price"`

	IsActive   bool     `json:"is_active"`
	IsFeatured bool     `json:"is_featured"`
	Features   []string `json:"features"`

	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// MonthlyRupees is the price quotes start from: the monthly column when it
// is set, the base price otherwise.
func (p Plan) MonthlyRupees() money.Rupees {
	if p.MonthlyPrice != nil && p.MonthlyPrice.IsPositive() {
		return *p.MonthlyPrice
	}
	return p.BasePrice
}

// TierPrice returns the stored cycle total for c. Missing columns are zero.
func (p Plan) TierPrice(c cycledomain.Cycle) money.Rupees {
	switch c {
	case cycledomain.Monthly:
		if p.MonthlyPrice != nil {
			return *p.MonthlyPrice
		}
	case cycledomain.Quarterly:
		return p.QuarterlyPrice
	case cycledomain.Semiannually:
		if p.SemiannualPrice != nil {
			return *p.SemiannualPrice
		}
	case cycledomain.Annually:
		return p.AnnualPrice
	case cycledomain.Biennially:
		return p.BiennialPrice
	case cycledomain.Triennially:
		return p.TriennialPrice
	}
	return money.Rupees{}
}

// PlanInput is the admin plan form. Create and update both send the whole
// form.
type PlanInput struct {
	Name        string `json:"name" validate:"required,max=255"`
	Slug        string `json:"slug" validate:"required,max=255"`
	Description string `json:"description,omitempty" validate:"max=2000"`
	PlanType    string `json:"plan_type" validate:"required,max=64"`

	CPUCores    int `json:"cpu_cores" validate:"min=1"`
	RAMGB       int `json:"ram_gb" validate:"min=1"`
	StorageGB   int `json:"storage_gb" validate:"min=1"`
	BandwidthGB int `json:"bandwidth_gb" validate:"min=0"`

	BasePrice       money.Rupees `json:"base_price"`
	MonthlyPrice    money.Rupees `json:"monthly_price"`
	QuarterlyPrice  money.Rupees `json:"quarterly_price"`
	SemiannualPrice money.Rupees `json:"semiannual_price"`
	AnnualPrice     money.Rupees `json:"annual_price"`
	BiennialPrice   money.Rupees `json:"biennial_price"`
	TriennialPrice  money.Rupees `json:"triennial_price"`

	IsActive   bool     `json:"is_active"`
	IsFeatured bool     `json:"is_featured"`
	Features   []string `json:"features" validate:"dive,max=255"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate normalizes the form and checks it. A missing slug is derived from
// the name; blank feature lines are dropped; plan types are lower-cased.
func (in *PlanInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.PlanType = strings.ToLower(strings.TrimSpace(in.PlanType))
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Slug == "" && in.Name != "" {
		in.Slug = slug.Make(in.Name)
	}

	features := make([]string, 0, len(in.Features))
	for _, f := range in.Features {
		if f = strings.TrimSpace(f); f != "" {
			features = append(features, f)
		}
	}
	in.Features = features

	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%w: %s failed %s", ErrInvalidPlan, verrs[0].Field(), verrs[0].Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidPlan, err)
	}
	if !in.BasePrice.IsPositive() {
		return fmt.Errorf("%w: base_price must be positive", ErrInvalidPlan)
	}
	return nil
}

// Tiers returns the form's tier columns keyed by cycle.
func (in PlanInput) Tiers() map[cycledomain.Cycle]money.Rupees {
	return map[cycledomain.Cycle]money.Rupees{
		cycledomain.Monthly:      in.MonthlyPrice,
		cycledomain.Quarterly:    in.QuarterlyPrice,
		cycledomain.Semiannually: in.SemiannualPrice,
		cycledomain.Annually:     in.AnnualPrice,
		cycledomain.Biennially:   in.BiennialPrice,
		cycledomain.Triennially:  in.TriennialPrice,
	}
}

// SetTiers writes cycle totals into the form's tier columns.
func (in *PlanInput) SetTiers(tiers map[cycledomain.Cycle]money.Rupees) {
	in.MonthlyPrice = tiers[cycledomain.Monthly]
	in.QuarterlyPrice = tiers[cycledomain.Quarterly]
	in.SemiannualPrice = tiers[cycledomain.Semiannually]
	in.AnnualPrice = tiers[cycledomain.Annually]
	in.BiennialPrice = tiers[cycledomain.Biennially]
	in.TriennialPrice = tiers[cycledomain.Triennially]
}
