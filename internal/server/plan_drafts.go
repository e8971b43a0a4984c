package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	catalogdomain "github.com/railzwaylabs/storefront/internal/catalog/domain"
	plandraftdomain "github.com/railzwaylabs/storefront/internal/plandraft/domain"
	"github.com/railzwaylabs/storefront/pkg/money"
)

type basePriceRequest struct {
	BasePrice money.Rupees `json:"base_price"`
}

type tierOverrideRequest struct {
	Total money.Rupees `json:"total"`
}

func (s *Server) CreatePlanDraft(c *gin.Context) {
	var req catalogdomain.PlanInput
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.planDraftSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondCreated(c, resp)
}

func (s *Server) ListPlanDrafts(c *gin.Context) {
	status := plandraftdomain.Status(strings.ToLower(strings.TrimSpace(c.Query("status"))))
	switch status {
	case "", plandraftdomain.StatusDraft, plandraftdomain.StatusPublishing, plandraftdomain.StatusPublished:
	default:
		AbortWithError(c, newValidationError("status", "invalid_status", "invalid status"))
		return
	}

	page, err := s.planDraftSvc.List(c.Request.Context(), plandraftdomain.ListRequest{
		Status: status,
		Page:   s.pageRequest(c),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondPage(c, page)
}

func (s *Server) GetPlanDraft(c *gin.Context) {
	resp, err := s.planDraftSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

func (s *Server) SetPlanDraftBasePrice(c *gin.Context) {
	var req basePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.planDraftSvc.SetBasePrice(c.Request.Context(), c.Param("id"), req.BasePrice)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

func (s *Server) OverridePlanDraftTier(c *gin.Context) {
	cycle, err := cycledomain.Parse(c.Param("cycle"))
	if err != nil {
		AbortWithError(c, newValidationError("cycle", "invalid_cycle", "unknown billing cycle"))
		return
	}

	var req tierOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.planDraftSvc.OverrideTier(c.Request.Context(), c.Param("id"), cycle, req.Total)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, resp)
}

func (s *Server) PublishPlanDraft(c *gin.Context) {
	plan, err := s.planDraftSvc.Publish(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, plan)
}
