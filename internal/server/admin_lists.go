package server

import (
	"github.com/gin-gonic/gin"
	catalogdomain "github.com/railzwaylabs/storefront/internal/catalog/domain"
)

func (s *Server) ListAddons(c *gin.Context) {
	var filter catalogdomain.AddonFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	page, err := s.catalogSvc.ListAddons(c.Request.Context(), filter, s.pageRequest(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondPage(c, page)
}

func (s *Server) ListOrders(c *gin.Context) {
	var filter catalogdomain.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	page, err := s.catalogSvc.ListOrders(c.Request.Context(), filter, s.pageRequest(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondPage(c, page)
}

func (s *Server) GetRevenueSummary(c *gin.Context) {
	summary, err := s.catalogSvc.RevenueSummary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, summary)
}

func (s *Server) ListUsers(c *gin.Context) {
	var filter catalogdomain.UserFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	page, err := s.catalogSvc.ListUsers(c.Request.Context(), filter, s.pageRequest(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondPage(c, page)
}

func (s *Server) GetUserSummary(c *gin.Context) {
	summary, err := s.catalogSvc.UserSummary(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondData(c, summary)
}

func (s *Server) ListAffiliates(c *gin.Context) {
	var filter catalogdomain.AffiliateFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	page, err := s.catalogSvc.ListAffiliates(c.Request.Context(), filter, s.pageRequest(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondPage(c, page)
}

func (s *Server) ListPendingEarnings(c *gin.Context) {
	var filter catalogdomain.PayoutFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	page, err := s.catalogSvc.ListPendingEarnings(c.Request.Context(), filter, s.pageRequest(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondPage(c, page)
}

func (s *Server) ListPendingPayouts(c *gin.Context) {
	s.listPayouts(c, catalogdomain.PayoutsPending)
}

func (s *Server) ListPayoutHistory(c *gin.Context) {
	s.listPayouts(c, catalogdomain.PayoutsHistory)
}

func (s *Server) listPayouts(c *gin.Context, queue catalogdomain.PayoutQueue) {
	var filter catalogdomain.PayoutFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	page, err := s.catalogSvc.ListPayouts(c.Request.Context(), queue, filter, s.pageRequest(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	respondPage(c, page)
}
