package service

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	catalogdomain "github.com/railzwaylabs/storefront/internal/catalog/domain"
	"github.com/railzwaylabs/storefront/internal/config"
	"github.com/railzwaylabs/storefront/pkg/money"
	"github.com/railzwaylabs/storefront/pkg/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg     config.Config
	Log     *zap.Logger
	Backend catalogdomain.Backend
}

// Store holds the plan state the storefront and admin screens share. Each
// caller owns its Store; nothing here is global.
type Store struct {
	backend    catalogdomain.Backend
	log        *zap.Logger
	maxVisible int

	mu          sync.RWMutex
	plans       []catalogdomain.Plan
	activePlans []catalogdomain.Plan
	selected    *catalogdomain.Plan
}

func New(p Params) catalogdomain.Service {
	return NewStore(p.Backend, p.Log, p.Cfg.Pagination.MaxVisible)
}

func NewStore(backend catalogdomain.Backend, log *zap.Logger, maxVisible int) *Store {
	if maxVisible < 1 {
		maxVisible = pagination.DefaultMaxVisible
	}
	return &Store{
		backend:    backend,
		log:        log.Named("catalog.service"),
		maxVisible: maxVisible,
	}
}

func (s *Store) FetchActivePlans(ctx context.Context) ([]catalogdomain.Plan, error) {
	plans, err := s.backend.ListActivePlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch active plans: %w", err)
	}
	s.mu.Lock()
	s.activePlans = slices.Clone(plans)
	s.mu.Unlock()
	return plans, nil
}

func (s *Store) FetchAllPlans(ctx context.Context) ([]catalogdomain.Plan, error) {
	plans, err := s.backend.ListAllPlans(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch plans: %w", err)
	}
	s.mu.Lock()
	s.plans = slices.Clone(plans)
	s.mu.Unlock()
	return plans, nil
}

func (s *Store) FetchPlan(ctx context.Context, id int64) (*catalogdomain.Plan, error) {
	plan, err := s.backend.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.selected = plan
	s.mu.Unlock()
	cp := *plan
	return &cp, nil
}

func (s *Store) ActivePlans() []catalogdomain.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.activePlans)
}

func (s *Store) Plans() []catalogdomain.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.plans)
}

func (s *Store) Selected() *catalogdomain.Plan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return nil
	}
	cp := *s.selected
	return &cp
}

func (s *Store) CreatePlan(ctx context.Context, in catalogdomain.PlanInput) (*catalogdomain.Plan, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	plan, err := s.backend.CreatePlan(ctx, in)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.plans = append(s.plans, *plan)
	s.mu.Unlock()

	s.log.Info("plan created", zap.Int64("plan_id", plan.ID), zap.String("slug", plan.Slug))
	return plan, nil
}

func (s *Store) UpdatePlan(ctx context.Context, id int64, in catalogdomain.PlanInput) (*catalogdomain.Plan, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	plan, err := s.backend.UpdatePlan(ctx, id, in)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	for i := range s.plans {
		if s.plans[i].ID == id {
			s.plans[i] = *plan
		}
	}
	selected := *plan
	s.selected = &selected
	s.mu.Unlock()

	s.log.Info("plan updated", zap.Int64("plan_id", id))
	return plan, nil
}

func (s *Store) DeletePlan(ctx context.Context, id int64) error {
	if err := s.backend.DeletePlan(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	s.plans = slices.DeleteFunc(s.plans, func(p catalogdomain.Plan) bool { return p.ID == id })
	s.activePlans = slices.DeleteFunc(s.activePlans, func(p catalogdomain.Plan) bool { return p.ID == id })
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	s.mu.Unlock()

	s.log.Info("plan deleted", zap.Int64("plan_id", id))
	return nil
}

func (s *Store) ToggleActive(ctx context.Context, id int64) (bool, error) {
	active, err := s.backend.TogglePlanActive(ctx, id)
	if err != nil {
		return false, err
	}
	s.updateLocal(id, func(p *catalogdomain.Plan) { p.IsActive = active })
	return active, nil
}

func (s *Store) ToggleFeatured(ctx context.Context, id int64) (bool, error) {
	featured, err := s.backend.TogglePlanFeatured(ctx, id)
	if err != nil {
		return false, err
	}
	s.updateLocal(id, func(p *catalogdomain.Plan) { p.IsFeatured = featured })
	return featured, nil
}

func (s *Store) PlanDiscount(ctx context.Context, id int64, cycle cycledomain.Cycle) (float64, error) {
	if !cycle.Valid() {
		return 0, fmt.Errorf("%w: %q", cycledomain.ErrInvalidCycle, cycle)
	}
	return s.backend.PlanDiscount(ctx, id, cycle)
}

func (s *Store) updateLocal(id int64, fn func(*catalogdomain.Plan)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.plans {
		if s.plans[i].ID == id {
			fn(&s.plans[i])
		}
	}
	if s.selected != nil && s.selected.ID == id {
		fn(s.selected)
	}
}

// ListPlans refreshes the plan list and returns the requested page after
// filtering. A filter that matches fewer rows than the requested page
// reaches clamps to the last page.
func (s *Store) ListPlans(ctx context.Context, filter catalogdomain.PlanFilter, req pagination.Request) (pagination.Page[catalogdomain.Plan], error) {
	var (
		plans []catalogdomain.Plan
		err   error
	)
	if filter.ActiveOnly {
		plans, err = s.FetchActivePlans(ctx)
	} else {
		plans, err = s.FetchAllPlans(ctx)
	}
	if err != nil {
		return pagination.Page[catalogdomain.Plan]{}, err
	}

	search := normalize(filter.Search)
	planType := normalize(filter.PlanType)
	matched := selectWhere(plans, func(p catalogdomain.Plan) bool {
		if !matchStatus(planType, p.PlanType) {
			return false
		}
		return contains(search, p.Name, p.Slug)
	})
	return pagination.Paginate(matched, req, s.maxVisible), nil
}

func (s *Store) ListAddons(ctx context.Context, filter catalogdomain.AddonFilter, req pagination.Request) (pagination.Page[catalogdomain.Addon], error) {
	category := strings.TrimSpace(filter.Category)
	if strings.EqualFold(category, catalogdomain.FilterAll) {
		category = ""
	}
	addons, err := s.backend.ListAddons(ctx, category)
	if err != nil {
		return pagination.Page[catalogdomain.Addon]{}, fmt.Errorf("fetch addons: %w", err)
	}

	search := normalize(filter.Search)
	matched := selectWhere(addons, func(a catalogdomain.Addon) bool {
		if category != "" && !strings.EqualFold(a.Category, category) {
			return false
		}
		return contains(search, a.Name, a.Slug, a.Category)
	})
	return pagination.Paginate(matched, req, s.maxVisible), nil
}

func (s *Store) ListOrders(ctx context.Context, filter catalogdomain.OrderFilter, req pagination.Request) (pagination.Page[catalogdomain.Order], error) {
	orders, err := s.backend.ListOrders(ctx)
	if err != nil {
		return pagination.Page[catalogdomain.Order]{}, fmt.Errorf("fetch orders: %w", err)
	}

	search := normalize(filter.Search)
	status := normalize(filter.Status)
	payment := normalize(filter.PaymentStatus)
	matched := selectWhere(orders, func(o catalogdomain.Order) bool {
		if !matchStatus(status, o.OrderStatus) || !matchStatus(payment, o.PaymentStatus) {
			return false
		}
		return contains(search, o.OrderNumber, o.Email(), o.FullName())
	})
	return pagination.Paginate(matched, req, s.maxVisible), nil
}

// RevenueSummary sums grand totals of paid orders, whatever their status.
func (s *Store) RevenueSummary(ctx context.Context) (catalogdomain.RevenueSummary, error) {
	orders, err := s.backend.ListOrders(ctx)
	if err != nil {
		return catalogdomain.RevenueSummary{}, fmt.Errorf("fetch orders: %w", err)
	}

	var (
		sum     catalogdomain.RevenueSummary
		revenue money.Paise
	)
	sum.TotalOrders = len(orders)
	for _, o := range orders {
		switch normalize(o.OrderStatus) {
		case catalogdomain.OrderStatusCompleted:
			sum.CompletedOrders++
		case catalogdomain.OrderStatusPending:
			sum.PendingOrders++
		}
		if normalize(o.PaymentStatus) == catalogdomain.PaymentStatusPaid {
			revenue += o.GrandTotal.ToPaise()
		}
	}
	sum.TotalRevenue = money.ParseRupees(revenue.Rupees())
	return sum, nil
}

func (s *Store) ListUsers(ctx context.Context, filter catalogdomain.UserFilter, req pagination.Request) (pagination.Page[catalogdomain.User], error) {
	users, err := s.backend.ListUsers(ctx)
	if err != nil {
		return pagination.Page[catalogdomain.User]{}, fmt.Errorf("fetch users: %w", err)
	}

	search := normalize(filter.Search)
	role := normalize(filter.Role)
	status := normalize(filter.AccountStatus)
	matched := selectWhere(users, func(u catalogdomain.User) bool {
		if !matchStatus(role, u.Role) || !matchStatus(status, u.AccountStatus) {
			return false
		}
		return contains(search, u.Email, u.FullName)
	})
	return pagination.Paginate(matched, req, s.maxVisible), nil
}

// UserSummary counts over every account, ignoring any list filter.
func (s *Store) UserSummary(ctx context.Context) (catalogdomain.UserSummary, error) {
	users, err := s.backend.ListUsers(ctx)
	if err != nil {
		return catalogdomain.UserSummary{}, fmt.Errorf("fetch users: %w", err)
	}

	sum := catalogdomain.UserSummary{TotalUsers: len(users)}
	for _, u := range users {
		if normalize(u.AccountStatus) == catalogdomain.AccountActive {
			sum.ActiveUsers++
		}
		if u.IsAdmin() {
			sum.Admins++
		}
		if normalize(u.Role) == catalogdomain.RoleSupport {
			sum.SupportStaff++
		}
		if strings.TrimSpace(u.ReferralCode) != "" {
			sum.ReferralUsers++
		}
		if u.Flagged() {
			sum.FlaggedUsers++
		}
	}
	return sum, nil
}

func (s *Store) ListAffiliates(ctx context.Context, filter catalogdomain.AffiliateFilter, req pagination.Request) (pagination.Page[catalogdomain.Affiliate], error) {
	affiliates, err := s.backend.ListAffiliates(ctx)
	if err != nil {
		return pagination.Page[catalogdomain.Affiliate]{}, fmt.Errorf("fetch affiliates: %w", err)
	}

	search := normalize(filter.Search)
	status := normalize(filter.Status)
	matched := selectWhere(affiliates, func(a catalogdomain.Affiliate) bool {
		return matchStatus(status, a.Status) && contains(search, a.SearchFields()...)
	})
	return pagination.Paginate(matched, req, s.maxVisible), nil
}

func (s *Store) ListPendingEarnings(ctx context.Context, filter catalogdomain.PayoutFilter, req pagination.Request) (pagination.Page[catalogdomain.Earning], error) {
	earnings, err := s.backend.ListPendingEarnings(ctx)
	if err != nil {
		return pagination.Page[catalogdomain.Earning]{}, fmt.Errorf("fetch earnings: %w", err)
	}

	search := normalize(filter.Search)
	status := normalize(filter.Status)
	matched := selectWhere(earnings, func(e catalogdomain.Earning) bool {
		return matchStatus(status, e.Status) && contains(search, e.SearchFields()...)
	})
	return pagination.Paginate(matched, req, s.maxVisible), nil
}

func (s *Store) ListPayouts(ctx context.Context, queue catalogdomain.PayoutQueue, filter catalogdomain.PayoutFilter, req pagination.Request) (pagination.Page[catalogdomain.Payout], error) {
	payouts, err := s.backend.ListPayouts(ctx, queue)
	if err != nil {
		return pagination.Page[catalogdomain.Payout]{}, fmt.Errorf("fetch %s payouts: %w", queue, err)
	}

	search := normalize(filter.Search)
	status := normalize(filter.Status)
	matched := selectWhere(payouts, func(p catalogdomain.Payout) bool {
		return matchStatus(status, p.Status) && contains(search, p.SearchFields()...)
	})
	return pagination.Paginate(matched, req, s.maxVisible), nil
}

// selectWhere returns the items keep accepts, in order, without touching items.
func selectWhere[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// matchStatus treats an empty want or "all" as no filter.
func matchStatus(want, got string) bool {
	return want == "" || want == catalogdomain.FilterAll || normalize(got) == want
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// contains reports whether needle occurs in any field, case-insensitively.
// An empty needle matches everything.
func contains(needle string, fields ...string) bool {
	if needle == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
