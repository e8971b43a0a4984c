package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/railzwaylabs/storefront/internal/catalog/domain"
	"github.com/railzwaylabs/storefront/pkg/money"
)

type autofillRequest struct {
	BasePrice money.Rupees `json:"base_price"`
}

func (s *Server) ListPlans(c *gin.Context) {
	var filter catalogdomain.PlanFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	page, err := s.catalogSvc.ListPlans(c.Request.Context(), filter, s.pageRequest(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondPage(c, page)
}

func (s *Server) GetPlanByID(c *gin.Context) {
	id, err := planIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	plan, err := s.catalogSvc.FetchPlan(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, plan)
}

func (s *Server) CreatePlan(c *gin.Context) {
	var req catalogdomain.PlanInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	plan, err := s.catalogSvc.CreatePlan(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, plan)
}

func (s *Server) UpdatePlan(c *gin.Context) {
	id, err := planIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	var req catalogdomain.PlanInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	plan, err := s.catalogSvc.UpdatePlan(c.Request.Context(), id, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, plan)
}

func (s *Server) DeletePlan(c *gin.Context) {
	id, err := planIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.catalogSvc.DeletePlan(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"id": id, "deleted": true})
}

func (s *Server) TogglePlanActive(c *gin.Context) {
	id, err := planIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	active, err := s.catalogSvc.ToggleActive(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"id": id, "is_active": active})
}

func (s *Server) TogglePlanFeatured(c *gin.Context) {
	id, err := planIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	featured, err := s.catalogSvc.ToggleFeatured(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"id": id, "is_featured": featured})
}

// AutofillPlanPrices derives all tier totals from one base price for the
// plan editor.
func (s *Server) AutofillPlanPrices(c *gin.Context) {
	var req autofillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	respondData(c, s.pricingSvc.Autofill(req.BasePrice).Response())
}

// GetPlanPrices returns a plan's tier totals with missing tiers derived
// from its base price, as the edit form opens them.
func (s *Server) GetPlanPrices(c *gin.Context) {
	id, err := planIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	plan, err := s.catalogSvc.FetchPlan(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, s.pricingSvc.FillPlanPrices(*plan).Response())
}

func (s *Server) GetPlanDiscount(c *gin.Context) {
	id, err := planIDParam(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	cycle, err := cycleQuery(c, "billing_cycle")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	discount, err := s.catalogSvc.PlanDiscount(c.Request.Context(), id, cycle)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, gin.H{"id": id, "billing_cycle": cycle, "discount": discount})
}

func planIDParam(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id <= 0 {
		return 0, newValidationError("id", "invalid_id", "invalid plan id")
	}
	return id, nil
}
