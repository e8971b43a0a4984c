package domain

import (
	"context"
	"errors"
	"time"

	cycledomain "github.com/railzwaylabs/storefront/internal/billingcycle/domain"
	catalogdomain "github.com/railzwaylabs/storefront/internal/catalog/domain"
	pricingdomain "github.com/railzwaylabs/storefront/internal/pricing/domain"
	"github.com/railzwaylabs/storefront/pkg/money"
	"github.com/railzwaylabs/storefront/pkg/pagination"
	"gorm.io/gorm"
)

var (
	ErrNotFound         = errors.New("not_found")
	ErrInvalidID        = errors.New("invalid_id")
	ErrAlreadyPublished = errors.New("already_published")
	ErrPublishing       = errors.New("publish_in_progress")
	// ErrStatusConflict means the stored draft left the expected status
	// between read and write.
	ErrStatusConflict = errors.New("draft_status_conflict")
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, d *Draft) error
	// Update writes d only while the stored row is still in status from.
	Update(ctx context.Context, db *gorm.DB, d *Draft, from Status) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Draft, error)
	List(ctx context.Context, db *gorm.DB, status Status, offset, limit int) ([]Draft, error)
	Count(ctx context.Context, db *gorm.DB, status Status) (int64, error)
}

type ListRequest struct {
	Status Status
	Page   pagination.Request
}

type Response struct {
	ID              string                           `json:"id"`
	Name            string                           `json:"name"`
	Status          Status                           `json:"status"`
	Input           catalogdomain.PlanInput          `json:"input"`
	BasePrice       money.Rupees                     `json:"base_price"`
	Prices          pricingdomain.TierPricesResponse `json:"prices"`
	Overridden      []cycledomain.Cycle              `json:"overridden"`
	PublishedPlanID *int64                           `json:"published_plan_id,omitempty"`
	PublishedAt     *time.Time                       `json:"published_at,omitempty"`
	CreatedAt       time.Time                        `json:"created_at"`
	UpdatedAt       time.Time                        `json:"updated_at"`
}

type Service interface {
	Create(ctx context.Context, in catalogdomain.PlanInput) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) (pagination.Page[Response], error)
	SetBasePrice(ctx context.Context, id string, base money.Rupees) (*Response, error)
	OverrideTier(ctx context.Context, id string, cycle cycledomain.Cycle, total money.Rupees) (*Response, error)
	Publish(ctx context.Context, id string) (*catalogdomain.Plan, error)
}
