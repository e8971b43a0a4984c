package service

import (
	"sync"

	"github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	"github.com/railzwaylabs/storefront/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Cfg config.Config
	Log *zap.Logger
}

// Service holds the two discount schedules. They can be swapped at runtime
// when the config file changes; readers always get a private copy.
type Service struct {
	log *zap.Logger

	mu       sync.RWMutex
	customer domain.DiscountTable
	autofill domain.DiscountTable
}

func NewService(p Params) (domain.Service, error) {
	customer, autofill, err := tablesFromConfig(p.Cfg)
	if err != nil {
		return nil, err
	}
	return &Service{
		log:      p.Log.Named("billingcycle.service"),
		customer: customer,
		autofill: autofill,
	}, nil
}

func tablesFromConfig(cfg config.Config) (domain.DiscountTable, domain.DiscountTable, error) {
	customer, err := domain.ParseTable(cfg.Pricing.CustomerDiscounts, domain.CustomerDiscounts())
	if err != nil {
		return nil, nil, err
	}
	autofill, err := domain.ParseTable(cfg.Pricing.AutofillDiscounts, domain.AutofillDiscounts())
	if err != nil {
		return nil, nil, err
	}
	return customer, autofill, nil
}

func (s *Service) Table(kind domain.TableKind) domain.DiscountTable {
	if kind == domain.Autofill {
		return s.Autofill()
	}
	return s.Customer()
}

func (s *Service) Customer() domain.DiscountTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.customer.Clone()
}

func (s *Service) Autofill() domain.DiscountTable {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.autofill.Clone()
}

func (s *Service) Cycles() []domain.Info {
	table := s.Customer()
	out := make([]domain.Info, 0, len(domain.All()))
	for _, c := range domain.All() {
		out = append(out, domain.Info{
			ID:       c,
			Name:     c.Label(),
			Months:   c.Months(),
			Discount: table.Percent(c),
		})
	}
	return out
}

func (s *Service) Replace(customer, autofill domain.DiscountTable) error {
	if err := customer.Validate(); err != nil {
		return err
	}
	if err := autofill.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.customer = customer.Clone()
	s.autofill = autofill.Clone()
	s.mu.Unlock()
	return nil
}

// Reload applies the discount tables of a re-read config. A broken config
// keeps the tables currently in use.
func (s *Service) Reload(cfg config.Config, readErr error) {
	if readErr != nil {
		s.log.Warn("config reload failed, keeping discount tables", zap.Error(readErr))
		return
	}
	customer, autofill, err := tablesFromConfig(cfg)
	if err == nil {
		err = s.Replace(customer, autofill)
	}
	if err != nil {
		s.log.Warn("invalid discount tables in config, keeping current ones", zap.Error(err))
		return
	}
	s.log.Info("discount tables reloaded")
}
