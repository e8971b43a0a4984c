package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	catalogdomain "github.com/railzwaylabs/storefront/internal/catalog/domain"
	"github.com/railzwaylabs/storefront/internal/clock"
	pricingdomain "github.com/railzwaylabs/storefront/internal/pricing/domain"
	"github.com/railzwaylabs/storefront/internal/quotesheet/domain"
	"github.com/railzwaylabs/storefront/pkg/money"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Clock   clock.Clock
	Catalog catalogdomain.Service
	Pricing pricingdomain.Service
}

type Service struct {
	log     *zap.Logger
	clock   clock.Clock
	catalog catalogdomain.Service
	pricing pricingdomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("quotesheet.service"),
		clock:   p.Clock,
		catalog: p.Catalog,
		pricing: p.Pricing,
	}
}

var (
	titleStyle  = props.Text{Size: 14, Style: fontstyle.Bold, Align: align.Left}
	subStyle    = props.Text{Size: 9, Align: align.Left}
	headerLeft  = props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Left, Top: 1}
	headerRight = props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right, Top: 1}
	cellLeft    = props.Text{Size: 9, Align: align.Left, Top: 1}
	cellRight   = props.Text{Size: 9, Align: align.Right, Top: 1}
)

func (s *Service) Render(ctx context.Context, req domain.Request) ([]byte, error) {
	if !req.Cycle.Valid() {
		return nil, fmt.Errorf("%w: %q", cycledomain.ErrInvalidCycle, req.Cycle)
	}

	plans, err := s.catalog.FetchActivePlans(ctx)
	if err != nil {
		return nil, err
	}

	planType := strings.ToLower(strings.TrimSpace(req.PlanType))
	rows := make([]core.Row, 0, len(plans))
	var discount int
	for _, p := range plans {
		if planType != "" && planType != catalogdomain.FilterAll && p.PlanType != planType {
			continue
		}
		q, err := s.pricing.Quote(p.MonthlyRupees(), req.Cycle, cycledomain.Customer)
		if err != nil {
			return nil, err
		}
		discount = q.DiscountPercent
		rows = append(rows, quoteRow(p, q))
	}
	if len(rows) == 0 {
		return nil, domain.ErrNoPlans
	}

	cfg := config.NewBuilder().
		WithLeftMargin(12).
		WithRightMargin(12).
		WithTopMargin(12).
		Build()
	m := maroto.New(cfg)

	m.AddRows(
		text.NewRow(10, "Plan pricing: "+req.Cycle.Label(), titleStyle),
		text.NewRow(6, fmt.Sprintf("%d months, %d%% discount. Generated %s.",
			req.Cycle.Months(), discount, s.clock.Now(ctx).Format("02 Jan 2006")), subStyle),
		row.New(4),
		row.New(7).Add(
			text.NewCol(3, "Plan", headerLeft),
			text.NewCol(2, "Specs", headerLeft),
			text.NewCol(2, "Monthly", headerRight),
			text.NewCol(2, "Before", headerRight),
			text.NewCol(2, "After", headerRight),
			text.NewCol(1, "/mo", headerRight),
		),
		row.New(1).Add(col.New(12).Add(line.New())),
	)
	m.AddRows(rows...)

	doc, err := m.Generate()
	if err != nil {
		s.log.Error("failed to render quote sheet", zap.String("cycle", req.Cycle.String()), zap.Error(err))
		return nil, fmt.Errorf("render quote sheet: %w", err)
	}
	return doc.GetBytes(), nil
}

func quoteRow(p catalogdomain.Plan, q pricingdomain.Quote) core.Row {
	specs := fmt.Sprintf("%d vCPU / %dGB", p.CPUCores, p.RAMGB)
	return row.New(6).Add(
		text.NewCol(3, p.Name, cellLeft),
		text.NewCol(2, specs, cellLeft),
		text.NewCol(2, amount(q.MonthlyBase), cellRight),
		text.NewCol(2, amount(q.CycleTotalBefore), cellRight),
		text.NewCol(2, amount(q.CycleTotalAfter), cellRight),
		text.NewCol(1, amount(q.EffectiveMonthlyAfter), cellRight),
	)
}

// amount spells the currency out; the PDF core fonts have no rupee glyph.
func amount(p money.Paise) string {
	return "Rs " + strings.TrimPrefix(money.FormatINRRounded(p), "₹")
}
