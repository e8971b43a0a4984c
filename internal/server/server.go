package server

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	catalogdomain "github.com/railzwaylabs/storefront/internal/catalog/domain"
	"github.com/railzwaylabs/storefront/internal/config"
	"github.com/railzwaylabs/storefront/internal/observability"
	plandraftdomain "github.com/railzwaylabs/storefront/internal/plandraft/domain"
	pricingdomain "github.com/railzwaylabs/storefront/internal/pricing/domain"
	quotadomain "github.com/railzwaylabs/storefront/internal/quota/domain"
	quotesheetdomain "github.com/railzwaylabs/storefront/internal/quotesheet/domain"
	"github.com/rs/cors"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Cfg     config.Config
	Log     *zap.Logger
	Metrics *observability.Metrics
	DB      *gorm.DB `optional:"true"`

	CycleSvc      cycledomain.Service
	PricingSvc    pricingdomain.Service
	CatalogSvc    catalogdomain.Service
	PlanDraftSvc  plandraftdomain.Service
	QuoteSheetSvc quotesheetdomain.Service
	QuotaSvc      quotadomain.Service
}

type Server struct {
	cfg     config.Config
	log     *zap.Logger
	metrics *observability.Metrics
	db      *gorm.DB
	engine  *gin.Engine

	cycleSvc      cycledomain.Service
	pricingSvc    pricingdomain.Service
	catalogSvc    catalogdomain.Service
	planDraftSvc  plandraftdomain.Service
	quoteSheetSvc quotesheetdomain.Service
	quotaSvc      quotadomain.Service
}

func NewServer(p Params) *Server {
	if !p.Cfg.IsDevelopment() && gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:           p.Cfg,
		log:           p.Log.Named("http"),
		metrics:       p.Metrics,
		db:            p.DB,
		engine:        gin.New(),
		cycleSvc:      p.CycleSvc,
		pricingSvc:    p.PricingSvc,
		catalogSvc:    p.CatalogSvc,
		planDraftSvc:  p.PlanDraftSvc,
		quoteSheetSvc: p.QuoteSheetSvc,
		quotaSvc:      p.QuotaSvc,
	}
	s.engine.Use(gin.Recovery(), s.RequestID(), s.Observe())
	s.RegisterRoutes(s.engine)
	return s
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.Health)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.Gatherer(), promhttp.HandlerOpts{})))

	api := r.Group("/api")

	pricing := api.Group("/pricing")
	{
		pricing.GET("/billing-cycles", s.ListBillingCycles)
		pricing.GET("/plan-types", s.ListPlanTypes)
		pricing.GET("/plans", s.ListPricingPlans)
		pricing.GET("/quote", s.GetQuote)
		pricing.GET("/quote-sheet.pdf", s.QuoteSheetQuota(), s.GetQuoteSheet)
	}

	admin := api.Group("/admin")
	{
		admin.GET("/plans", s.ListPlans)
		admin.POST("/plans", s.CreatePlan)
		admin.POST("/plans/autofill", s.AutofillPlanPrices)
		admin.GET("/plans/:id", s.GetPlanByID)
		admin.PUT("/plans/:id", s.UpdatePlan)
		admin.DELETE("/plans/:id", s.DeletePlan)
		admin.POST("/plans/:id/toggle", s.TogglePlanActive)
		admin.POST("/plans/:id/toggle-featured", s.TogglePlanFeatured)
		admin.GET("/plans/:id/prices", s.GetPlanPrices)
		admin.GET("/plans/:id/discount", s.GetPlanDiscount)

		admin.GET("/addons", s.ListAddons)
		admin.GET("/orders", s.ListOrders)
		admin.GET("/orders/summary", s.GetRevenueSummary)
		admin.GET("/users", s.ListUsers)
		admin.GET("/users/summary", s.GetUserSummary)
		admin.GET("/affiliates", s.ListAffiliates)
		admin.GET("/affiliates/earnings", s.ListPendingEarnings)
		admin.GET("/payouts", s.ListPendingPayouts)
		admin.GET("/payouts/history", s.ListPayoutHistory)

		admin.GET("/plan-drafts", s.ListPlanDrafts)
		admin.POST("/plan-drafts", s.CreatePlanDraft)
		admin.GET("/plan-drafts/:id", s.GetPlanDraft)
		admin.PUT("/plan-drafts/:id/base-price", s.SetPlanDraftBasePrice)
		admin.PUT("/plan-drafts/:id/tiers/:cycle", s.OverridePlanDraftTier)
		admin.POST("/plan-drafts/:id/publish", s.PublishPlanDraft)
	}
}

// Handler is the gin engine behind the CORS policy.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: s.cfg.HTTP.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})
	return c.Handler(s.engine)
}

func (s *Server) Health(c *gin.Context) {
	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			s.log.Warn("database ping failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RunHTTP binds the listener on start and drains in-flight requests on stop.
func RunHTTP(lc fx.Lifecycle, s *Server) {
	srv := &http.Server{
		Addr:         s.cfg.HTTP.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.HTTP.ReadTimeout,
		WriteTimeout: s.cfg.HTTP.WriteTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			s.log.Info("http server listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					s.log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
