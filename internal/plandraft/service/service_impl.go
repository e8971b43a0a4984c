package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/bwmarrin/snowflake"
	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	catalogdomain "github.com/railzwaylabs/storefront/internal/catalog/domain"
	"github.com/railzwaylabs/storefront/internal/clock"
	"github.com/railzwaylabs/storefront/internal/observability"
	"github.com/railzwaylabs/storefront/internal/plandraft/domain"
	pricingdomain "github.com/railzwaylabs/storefront/internal/pricing/domain"
	pricingservice "github.com/railzwaylabs/storefront/internal/pricing/service"
	"github.com/railzwaylabs/storefront/pkg/money"
	"github.com/railzwaylabs/storefront/pkg/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Clock   clock.Clock
	Repo    domain.Repository
	Cycles  cycledomain.Service
	Catalog catalogdomain.Service
	Metrics *observability.Metrics
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	genID   *snowflake.Node
	clock   clock.Clock
	repo    domain.Repository
	cycles  cycledomain.Service
	catalog catalogdomain.Service
	metrics *observability.Metrics
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("plandraft.service"),
		genID:   p.GenID,
		clock:   p.Clock,
		repo:    p.Repo,
		cycles:  p.Cycles,
		catalog: p.Catalog,
		metrics: p.Metrics,
	}
}

// Create saves a new draft with every tier forward-filled from the form's
// base price.
func (s *Service) Create(ctx context.Context, in catalogdomain.PlanInput) (*domain.Response, error) {
	form := pricingservice.NewPriceForm(s.cycles.Autofill())
	form.SetBasePrice(in.BasePrice)

	now := s.clock.Now(ctx)
	d := &domain.Draft{
		ID:        s.genID.Generate(),
		Name:      strings.TrimSpace(in.Name),
		Status:    domain.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	writeForm(d, in, form)

	if err := s.repo.Insert(ctx, s.db, d); err != nil {
		s.log.Error("failed to insert plan draft", zap.Error(err))
		return nil, err
	}
	return s.toResponse(d), nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	d, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(d), nil
}

// List pages drafts newest first. The window is computed from the row count
// before the page is read, so out-of-range pages clamp to the last one.
func (s *Service) List(ctx context.Context, req domain.ListRequest) (pagination.Page[domain.Response], error) {
	total, err := s.repo.Count(ctx, s.db, req.Status)
	if err != nil {
		return pagination.Page[domain.Response]{}, err
	}

	w := pagination.ComputeWindow(req.Page.Page, int(total), req.Page.PageSize)
	items := []domain.Response{}
	if w.Len() > 0 {
		drafts, err := s.repo.List(ctx, s.db, req.Status, w.StartIndex, w.Len())
		if err != nil {
			return pagination.Page[domain.Response]{}, err
		}
		for i := range drafts {
			items = append(items, *s.toResponse(&drafts[i]))
		}
	}

	return pagination.Page[domain.Response]{
		Items: items,
		PageInfo: pagination.PageInfo{
			Window:   w,
			Controls: pagination.ComputePageControls(w.CurrentPage, w.TotalPages, pagination.DefaultMaxVisible),
		},
	}, nil
}

// SetBasePrice re-derives every tier and drops manual overrides.
func (s *Service) SetBasePrice(ctx context.Context, id string, base money.Rupees) (*domain.Response, error) {
	return s.mutate(ctx, id, func(in *catalogdomain.PlanInput, form *pricingservice.PriceForm) error {
		in.BasePrice = base
		form.SetBasePrice(base)
		return nil
	})
}

func (s *Service) OverrideTier(ctx context.Context, id string, cycle cycledomain.Cycle, total money.Rupees) (*domain.Response, error) {
	return s.mutate(ctx, id, func(_ *catalogdomain.PlanInput, form *pricingservice.PriceForm) error {
		return form.Override(cycle, total)
	})
}

// Publish validates the draft's form with its current tiers and creates the
// plan through the catalog. The draft is claimed before the upstream call so
// concurrent publishes of one draft create at most one plan.
func (s *Service) Publish(ctx context.Context, id string) (*catalogdomain.Plan, error) {
	d, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status != domain.StatusDraft {
		return nil, statusError(d.Status)
	}

	in, form := s.readForm(d)
	in.SetTiers(form.Prices())
	if err := in.Validate(); err != nil {
		return nil, err
	}

	d.Status = domain.StatusPublishing
	d.UpdatedAt = s.clock.Now(ctx)
	if err := s.repo.Update(ctx, s.db, d, domain.StatusDraft); err != nil {
		if errors.Is(err, domain.ErrStatusConflict) {
			return nil, domain.ErrPublishing
		}
		return nil, err
	}

	plan, err := s.catalog.CreatePlan(ctx, in)
	if err != nil {
		s.release(ctx, d)
		return nil, err
	}

	now := s.clock.Now(ctx)
	planID := plan.ID
	d.Status = domain.StatusPublished
	d.PublishedPlanID = &planID
	d.PublishedAt = &now
	d.UpdatedAt = now
	writeForm(d, in, form)

	if err := s.repo.Update(ctx, s.db, d, domain.StatusPublishing); err != nil {
		// the plan exists upstream; only the draft bookkeeping failed
		s.log.Error("failed to mark plan draft published",
			zap.String("draft_id", d.ID.String()),
			zap.Int64("plan_id", planID),
			zap.Error(err),
		)
		return nil, err
	}

	s.metrics.DraftsPublishedTotal.Inc()
	s.log.Info("plan draft published", zap.String("draft_id", d.ID.String()), zap.Int64("plan_id", planID))
	return plan, nil
}

// release hands a claimed draft back to the editor after a failed publish.
func (s *Service) release(ctx context.Context, d *domain.Draft) {
	ctx = context.WithoutCancel(ctx)
	d.Status = domain.StatusDraft
	d.UpdatedAt = s.clock.Now(ctx)
	if err := s.repo.Update(ctx, s.db, d, domain.StatusPublishing); err != nil {
		s.log.Error("failed to release plan draft", zap.String("draft_id", d.ID.String()), zap.Error(err))
	}
}

func (s *Service) mutate(ctx context.Context, id string, fn func(*catalogdomain.PlanInput, *pricingservice.PriceForm) error) (*domain.Response, error) {
	d, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status != domain.StatusDraft {
		return nil, statusError(d.Status)
	}

	in, form := s.readForm(d)
	if err := fn(&in, form); err != nil {
		return nil, err
	}
	d.UpdatedAt = s.clock.Now(ctx)
	writeForm(d, in, form)

	if err := s.repo.Update(ctx, s.db, d, domain.StatusDraft); err != nil {
		if errors.Is(err, domain.ErrStatusConflict) {
			return nil, domain.ErrPublishing
		}
		return nil, err
	}
	return s.toResponse(d), nil
}

func statusError(st domain.Status) error {
	if st == domain.StatusPublishing {
		return domain.ErrPublishing
	}
	return domain.ErrAlreadyPublished
}

func (s *Service) find(ctx context.Context, id string) (*domain.Draft, error) {
	parsed, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
	if err != nil || parsed <= 0 {
		return nil, domain.ErrInvalidID
	}
	return s.repo.FindByID(ctx, s.db, parsed)
}

func (s *Service) readForm(d *domain.Draft) (catalogdomain.PlanInput, *pricingservice.PriceForm) {
	in := d.Input.Data()
	base := money.ParseRupees(d.BasePrice)

	tiers := make(pricingdomain.TierPrices, len(d.Tiers))
	for k, v := range d.Tiers {
		c, err := cycledomain.Parse(k)
		if err != nil {
			continue
		}
		tiers[c] = money.ParseRupees(v)
	}

	overridden := make([]cycledomain.Cycle, 0, len(d.Overridden))
	for _, raw := range d.Overridden {
		overridden = append(overridden, cycledomain.Cycle(raw))
	}
	return in, pricingservice.LoadPriceForm(s.cycles.Autofill(), base, tiers, overridden)
}

func writeForm(d *domain.Draft, in catalogdomain.PlanInput, form *pricingservice.PriceForm) {
	in.BasePrice = form.BasePrice()
	d.Input = datatypes.NewJSONType(in)
	d.BasePrice = form.BasePrice().String()

	prices := form.Prices()
	d.Tiers = make(datatypes.JSONMap, len(prices))
	for c, v := range prices {
		d.Tiers[c.String()] = v.StringFixed(2)
	}

	overridden := form.Overridden()
	d.Overridden = make(datatypes.JSONSlice[string], 0, len(overridden))
	for _, c := range overridden {
		d.Overridden = append(d.Overridden, c.String())
	}
}

func (s *Service) toResponse(d *domain.Draft) *domain.Response {
	in, form := s.readForm(d)
	return &domain.Response{
		ID:              d.ID.String(),
		Name:            d.Name,
		Status:          d.Status,
		Input:           in,
		BasePrice:       form.BasePrice(),
		Prices:          form.Prices().Response(),
		Overridden:      form.Overridden(),
		PublishedPlanID: d.PublishedPlanID,
		PublishedAt:     d.PublishedAt,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}
