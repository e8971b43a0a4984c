package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	catalogdomain "github.com/railzwaylabs/storefront/internal/catalog/domain"
	plandraftdomain "github.com/railzwaylabs/storefront/internal/plandraft/domain"
	pricingdomain "github.com/railzwaylabs/storefront/internal/pricing/domain"
	quotadomain "github.com/railzwaylabs/storefront/internal/quota/domain"
	quotesheetdomain "github.com/railzwaylabs/storefront/internal/quotesheet/domain"
)

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type apiError struct {
	status  int
	errType string
	message string
	field   string
}

func (e *apiError) Error() string {
	return e.message
}

func invalidRequestError() error {
	return &apiError{status: http.StatusBadRequest, errType: "invalid_request", message: "invalid request"}
}

func newValidationError(field, errType, message string) error {
	return &apiError{status: http.StatusBadRequest, errType: errType, message: message, field: field}
}

var errorStatuses = []struct {
	err    error
	status int
}{
	{cycledomain.ErrInvalidCycle, http.StatusBadRequest},
	{cycledomain.ErrInvalidDiscount, http.StatusBadRequest},
	{pricingdomain.ErrInvalidCycle, http.StatusBadRequest},
	{pricingdomain.ErrInvalidTable, http.StatusBadRequest},
	{catalogdomain.ErrInvalidPlan, http.StatusBadRequest},
	{catalogdomain.ErrInvalidID, http.StatusBadRequest},
	{plandraftdomain.ErrInvalidID, http.StatusBadRequest},
	{catalogdomain.ErrNotFound, http.StatusNotFound},
	{plandraftdomain.ErrNotFound, http.StatusNotFound},
	{quotesheetdomain.ErrNoPlans, http.StatusNotFound},
	{plandraftdomain.ErrAlreadyPublished, http.StatusConflict},
	{plandraftdomain.ErrPublishing, http.StatusConflict},
	{plandraftdomain.ErrStatusConflict, http.StatusConflict},
	{quotadomain.ErrQuotaExceeded, http.StatusTooManyRequests},
	{catalogdomain.ErrUnavailable, http.StatusBadGateway},
	{catalogdomain.ErrInvalidResponse, http.StatusBadGateway},
}

// AbortWithError writes err as the error envelope and stops the chain.
func AbortWithError(c *gin.Context, err error) {
	_ = c.Error(err)

	var apiErr *apiError
	if errors.As(err, &apiErr) {
		c.AbortWithStatusJSON(apiErr.status, ErrorResponse{Error: ErrorBody{
			Type:    apiErr.errType,
			Message: apiErr.message,
			Field:   apiErr.field,
		}})
		return
	}

	var upstream *catalogdomain.UpstreamError
	if errors.As(err, &upstream) {
		status := http.StatusBadGateway
		if upstream.Status >= 400 && upstream.Status < 500 {
			status = upstream.Status
		}
		c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{
			Type:    "upstream_error",
			Message: upstream.Error(),
		}})
		return
	}

	for _, m := range errorStatuses {
		if errors.Is(err, m.err) {
			c.AbortWithStatusJSON(m.status, ErrorResponse{Error: ErrorBody{
				Type:    m.err.Error(),
				Message: err.Error(),
			}})
			return
		}
	}

	c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: ErrorBody{
		Type:    "internal_error",
		Message: "internal server error",
	}})
}
