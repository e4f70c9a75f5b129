package repository

import (
	"context"

	"bms/internal/model"
	"bms/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductQuery struct {
	ListQuery
	ProductTypeID *uuid.UUID
	OutletID      *uuid.UUID
}

type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	List(ctx context.Context, q ProductQuery) ([]model.Product, pagination.Window, error)
	UpdateQuantity(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Create(product).Error
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	return GetDB(ctx, r.db).Omit("ProductType", "Outlet").Save(product).Error
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Product{}).Error
}

func (r *productRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := GetDB(ctx, r.db).Preload("ProductType").Preload("Outlet").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context, q ProductQuery) ([]model.Product, pagination.Window, error) {
	db := GetDB(ctx, r.db).Model(&model.Product{})
	if q.ProductTypeID != nil {
		db = db.Where("product_type_id = ?", *q.ProductTypeID)
	}
	if q.OutletID != nil {
		db = db.Where("outlet_id = ?", *q.OutletID)
	}
	db = searchLike(db, q.Search, "name")
	return paginate[model.Product](db, q.Params, "created_at desc", "ProductType", "Outlet")
}

func (r *productRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error {
	return GetDB(ctx, r.db).Model(&model.Product{}).Where("id = ?", id).Update("quantity", quantity).Error
}

func (r *productRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var product model.Product
	if err := forUpdate(GetDB(ctx, r.db)).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}
