package service

import (
	"context"
	"fmt"
	"strings"

	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	catalogdomain "github.com/railzwaylabs/storefront/internal/catalog/domain"
	"github.com/railzwaylabs/storefront/internal/observability"
	pricingdomain "github.com/railzwaylabs/storefront/internal/pricing/domain"
	"github.com/railzwaylabs/storefront/pkg/money"
	"github.com/railzwaylabs/storefront/pkg/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Cycles  cycledomain.Service
	Catalog catalogdomain.Service
	Metrics *observability.Metrics
}

type Service struct {
	log     *zap.Logger
	cycles  cycledomain.Service
	catalog catalogdomain.Service
	metrics *observability.Metrics
}

func New(p Params) pricingdomain.Service {
	return &Service{
		log:     p.Log.Named("pricing.service"),
		cycles:  p.Cycles,
		catalog: p.Catalog,
		metrics: p.Metrics,
	}
}

func (s *Service) Quote(monthly money.Rupees, cycle cycledomain.Cycle, kind cycledomain.TableKind) (pricingdomain.Quote, error) {
	if !cycle.Valid() {
		return pricingdomain.Quote{}, fmt.Errorf("%w: %q", pricingdomain.ErrInvalidCycle, cycle)
	}
	if kind != cycledomain.Customer && kind != cycledomain.Autofill {
		return pricingdomain.Quote{}, fmt.Errorf("%w: %q", pricingdomain.ErrInvalidTable, kind)
	}
	q := ComputeQuote(monthly, cycle, s.cycles.Table(kind))
	s.metrics.QuotesTotal.WithLabelValues(string(cycle), string(kind)).Inc()
	return q, nil
}

// QuotePlans pages through the active catalogue, optionally restricted to
// one plan type, and quotes every visible plan with the customer schedule.
func (s *Service) QuotePlans(ctx context.Context, req pricingdomain.QuotePlansRequest) (pagination.Page[pricingdomain.PlanCard], error) {
	if !req.Cycle.Valid() {
		return pagination.Page[pricingdomain.PlanCard]{}, fmt.Errorf("%w: %q", pricingdomain.ErrInvalidCycle, req.Cycle)
	}

	page, err := s.catalog.ListPlans(ctx, catalogdomain.PlanFilter{
		PlanType:   req.PlanType,
		ActiveOnly: true,
	}, req.Page)
	if err != nil {
		s.log.Error("failed to list active plans", zap.Error(err))
		return pagination.Page[pricingdomain.PlanCard]{}, err
	}

	table := s.cycles.Customer()
	cards := make([]pricingdomain.PlanCard, 0, len(page.Items))
	for _, p := range page.Items {
		q := ComputeQuote(p.MonthlyRupees(), req.Cycle, table)
		s.metrics.QuotesTotal.WithLabelValues(string(req.Cycle), string(cycledomain.Customer)).Inc()
		cards = append(cards, s.card(p, q))
	}
	return pagination.Page[pricingdomain.PlanCard]{Items: cards, PageInfo: page.PageInfo}, nil
}

// PlanTypes lists the distinct plan types of the active catalogue in order
// of first appearance.
func (s *Service) PlanTypes(ctx context.Context) ([]pricingdomain.PlanType, error) {
	plans, err := s.catalog.FetchActivePlans(ctx)
	if err != nil {
		s.log.Error("failed to fetch active plans", zap.Error(err))
		return nil, err
	}

	var (
		out   []pricingdomain.PlanType
		index = map[string]int{}
	)
	for _, p := range plans {
		id := strings.TrimSpace(p.PlanType)
		if id == "" {
			id = "unknown"
		}
		if i, ok := index[id]; ok {
			out[i].Count++
			continue
		}
		index[id] = len(out)
		out = append(out, pricingdomain.PlanType{ID: id, Label: humanize(id), Count: 1})
	}
	if out == nil {
		out = []pricingdomain.PlanType{}
	}
	return out, nil
}

func (s *Service) Autofill(base money.Rupees) pricingdomain.TierPrices {
	return DeriveTieredPriceTable(base, s.cycles.Autofill())
}

func (s *Service) FillPlanPrices(plan catalogdomain.Plan) pricingdomain.TierPrices {
	stored := make(pricingdomain.TierPrices, len(cycledomain.All()))
	for _, c := range cycledomain.All() {
		stored[c] = plan.TierPrice(c)
	}
	return FillMissing(plan.BasePrice, stored, s.cycles.Autofill())
}

func (s *Service) card(p catalogdomain.Plan, q pricingdomain.Quote) pricingdomain.PlanCard {
	return pricingdomain.PlanCard{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		Description:   p.Description,
		PlanType:      p.PlanType,
		PlanTypeLabel: humanize(p.PlanType),
		VCPU:          p.CPUCores,
		RAMGB:         p.RAMGB,
		StorageGB:     p.StorageGB,
		BandwidthTB:   bandwidthTB(p.BandwidthGB),
		Features:      displayFeatures(p),
		Popular:       p.IsFeatured,
		Quote:         q.Response(),
	}
}

// humanize turns "general_purpose" into "General Purpose". Casers are
// stateful, so each call builds its own.
func humanize(raw string) string {
	words := strings.FieldsFunc(raw, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	return cases.Title(language.English, cases.NoLower).String(strings.Join(words, " "))
}

func bandwidthTB(gb int) float64 {
	return float64(gb) / 1000
}

func displayFeatures(p catalogdomain.Plan) []string {
	kind := strings.ToLower(p.PlanType)
	special := "IPv4 Address"
	switch {
	case strings.Contains(kind, "cpu"):
		special = "Dedicated CPU"
	case strings.Contains(kind, "memory"):
		special = "High Memory Ratio"
	}
	return []string{
		fmt.Sprintf("%d vCPU", p.CPUCores),
		fmt.Sprintf("%dGB RAM", p.RAMGB),
		fmt.Sprintf("%dGB SSD Storage", p.StorageGB),
		fmt.Sprintf("%gTB Bandwidth", bandwidthTB(p.BandwidthGB)),
		special,
		"Console Access",
		"Full Root Access",
	}
}
