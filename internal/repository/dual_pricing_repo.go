package repository

import (
	"context"

	"bms/internal/model"
	"bms/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DualPricingQuery struct {
	ListQuery
	ProductID *uuid.UUID
	OutletID  *uuid.UUID
}

type DualPricingRepository interface {
	Create(ctx context.Context, price *model.DualPricing) error
	Update(ctx context.Context, price *model.DualPricing) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.DualPricing, error)
	FindByProductOutlet(ctx context.Context, productID, outletID uuid.UUID) (*model.DualPricing, error)
	List(ctx context.Context, q DualPricingQuery) ([]model.DualPricing, pagination.Window, error)
}

type dualPricingRepository struct {
	db *gorm.DB
}

func NewDualPricingRepository(db *gorm.DB) DualPricingRepository {
	return &dualPricingRepository{db: db}
}

func (r *dualPricingRepository) Create(ctx context.Context, price *model.DualPricing) error {
	return GetDB(ctx, r.db).Create(price).Error
}

func (r *dualPricingRepository) Update(ctx context.Context, price *model.DualPricing) error {
	return GetDB(ctx, r.db).Omit("Product", "Outlet").Save(price).Error
}

func (r *dualPricingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.DualPricing{}).Error
}

func (r *dualPricingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.DualPricing, error) {
	var price model.DualPricing
	if err := GetDB(ctx, r.db).Preload("Product").Preload("Outlet").First(&price, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &price, nil
}

func (r *dualPricingRepository) FindByProductOutlet(ctx context.Context, productID, outletID uuid.UUID) (*model.DualPricing, error) {
	var price model.DualPricing
	err := GetDB(ctx, r.db).
		Where("product_id = ? AND outlet_id = ?", productID, outletID).
		First(&price).Error
	if err != nil {
		return nil, err
	}
	return &price, nil
}

func (r *dualPricingRepository) List(ctx context.Context, q DualPricingQuery) ([]model.DualPricing, pagination.Window, error) {
	db := GetDB(ctx, r.db).Model(&model.DualPricing{})
	if q.ProductID != nil {
		db = db.Where("dual_pricing.product_id = ?", *q.ProductID)
	}
	if q.OutletID != nil {
		db = db.Where("dual_pricing.outlet_id = ?", *q.OutletID)
	}
	if q.Search != "" {
		db = searchLike(db.Joins("JOIN products ON products.id = dual_pricing.product_id"), q.Search, "products.name")
	}
	return paginate[model.DualPricing](db, q.Params, "dual_pricing.created_at desc", "Product", "Outlet")
}
