package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	pricingdomain "github.com/railzwaylabs/storefront/internal/pricing/domain"
	quotesheetdomain "github.com/railzwaylabs/storefront/internal/quotesheet/domain"
	"github.com/railzwaylabs/storefront/pkg/money"
	"github.com/railzwaylabs/storefront/pkg/pagination"
)

func (s *Server) ListBillingCycles(c *gin.Context) {
	respondData(c, s.cycleSvc.Cycles())
}

func (s *Server) ListPlanTypes(c *gin.Context) {
	types, err := s.pricingSvc.PlanTypes(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, types)
}

// ListPricingPlans answers the public pricing page: active plans quoted for
// one cycle, paged.
func (s *Server) ListPricingPlans(c *gin.Context) {
	cycle, err := cycleQuery(c, "cycle")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	page, err := s.pricingSvc.QuotePlans(c.Request.Context(), pricingdomain.QuotePlansRequest{
		Cycle:    cycle,
		PlanType: strings.TrimSpace(c.Query("plan_type")),
		Page:     s.pageRequest(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondPage(c, page)
}

func (s *Server) GetQuote(c *gin.Context) {
	cycle, err := cycleQuery(c, "cycle")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	kind := cycledomain.TableKind(strings.ToLower(strings.TrimSpace(c.DefaultQuery("table", string(cycledomain.Customer)))))

	q, err := s.pricingSvc.Quote(money.ParseRupees(c.Query("monthly")), cycle, kind)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, q.Response())
}

func (s *Server) GetQuoteSheet(c *gin.Context) {
	cycle, err := cycleQuery(c, "cycle")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	pdf, err := s.quoteSheetSvc.Render(c.Request.Context(), quotesheetdomain.Request{
		Cycle:    cycle,
		PlanType: c.Query("plan_type"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="quote-`+cycle.String()+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// cycleQuery reads a cycle id from the query string, defaulting to monthly.
func cycleQuery(c *gin.Context, key string) (cycledomain.Cycle, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return cycledomain.Monthly, nil
	}
	cycle, err := cycledomain.Parse(raw)
	if err != nil {
		return "", newValidationError(key, "invalid_cycle", "unknown billing cycle "+raw)
	}
	return cycle, nil
}

func (s *Server) pageRequest(c *gin.Context) pagination.Request {
	return pagination.ParseRequest(c.Query("page"), c.Query("page_size"), s.cfg.Pagination.DefaultPageSize)
}
