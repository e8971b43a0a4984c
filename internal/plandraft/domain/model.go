package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	catalogdomain "github.com/railzwaylabs/storefront/internal/catalog/domain"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusDraft Status = "draft"
	// StatusPublishing marks a draft claimed by an in-flight publish.
	StatusPublishing Status = "publishing"
	StatusPublished  Status = "published"
)

// Draft is a saved admin plan-editor session. Tier totals are stored as
// decimal strings keyed by cycle id; Overridden lists the cycles the admin
// pinned by hand.
type Draft struct {
	ID              snowflake.ID                                `gorm:"primaryKey;autoIncrement:false"`
	Name            string                                      `gorm:"size:255;not null"`
	Status          Status                                      `gorm:"size:32;not null;index"`
	Input           datatypes.JSONType[catalogdomain.PlanInput] `gorm:"not null"`
	BasePrice       string                                      `gorm:"size:32;not null"`
	Tiers           datatypes.JSONMap                           `gorm:"not null"`
	Overridden      datatypes.JSONSlice[string]                 `gorm:"not null"`
	PublishedPlanID *int64
	PublishedAt     *time.Time
	CreatedAt       time.Time `gorm:"not null"`
	UpdatedAt       time.Time `gorm:"not null"`
}

func (Draft) TableName() string {
	return "plan_drafts"
}
