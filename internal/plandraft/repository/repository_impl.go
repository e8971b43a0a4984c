package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	plandraftdomain "github.com/railzwaylabs/storefront/internal/plandraft/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() plandraftdomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, d *plandraftdomain.Draft) error {
	return db.WithContext(ctx).Create(d).Error
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, d *plandraftdomain.Draft, from plandraftdomain.Status) error {
	res := db.WithContext(ctx).
		Model(&plandraftdomain.Draft{}).
		Where("id = ? AND status = ?", d.ID, from).
		Updates(map[string]any{
			"name":              d.Name,
			"status":            d.Status,
			"input":             d.Input,
			"base_price":        d.BasePrice,
			"tiers":             d.Tiers,
			"overridden":        d.Overridden,
			"published_plan_id": d.PublishedPlanID,
			"published_at":      d.PublishedAt,
			"updated_at":        d.UpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.missOrConflict(ctx, db, d.ID)
	}
	return nil
}

func (r *repo) missOrConflict(ctx context.Context, db *gorm.DB, id snowflake.ID) error {
	var n int64
	if err := db.WithContext(ctx).Model(&plandraftdomain.Draft{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return plandraftdomain.ErrNotFound
	}
	return plandraftdomain.ErrStatusConflict
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*plandraftdomain.Draft, error) {
	var d plandraftdomain.Draft
	err := db.WithContext(ctx).Where("id = ?", id).First(&d).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, plandraftdomain.ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, status plandraftdomain.Status, offset, limit int) ([]plandraftdomain.Draft, error) {
	var items []plandraftdomain.Draft
	q := db.WithContext(ctx).Model(&plandraftdomain.Draft{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Order("id DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error
	return items, err
}

func (r *repo) Count(ctx context.Context, db *gorm.DB, status plandraftdomain.Status) (int64, error) {
	var n int64
	q := db.WithContext(ctx).Model(&plandraftdomain.Draft{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Count(&n).Error
	return n, err
}
