package repository

import (
	"context"
	"time"

	"bms/internal/model"
	"bms/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SaleQuery struct {
	ListQuery
	OutletID  *uuid.UUID
	ProductID *uuid.UUID
	From, To  *time.Time
}

type SaleRepository interface {
	Create(ctx context.Context, sale *model.Sale) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error)
	List(ctx context.Context, q SaleQuery) ([]model.Sale, pagination.Window, error)
	CountByPrefix(ctx context.Context, prefix string) (int64, error)
}

type saleRepository struct {
	db *gorm.DB
}

func NewSaleRepository(db *gorm.DB) SaleRepository {
	return &saleRepository{db: db}
}

// Create inserts the sale together with its Items.
func (r *saleRepository) Create(ctx context.Context, sale *model.Sale) error {
	return GetDB(ctx, r.db).Omit("Outlet", "Items.Product").Create(sale).Error
}

func (r *saleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	var sale model.Sale
	err := GetDB(ctx, r.db).
		Preload("Outlet").Preload("Items").Preload("Items.Product").
		First(&sale, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *saleRepository) List(ctx context.Context, q SaleQuery) ([]model.Sale, pagination.Window, error) {
	db := GetDB(ctx, r.db).Model(&model.Sale{})
	if q.OutletID != nil {
		db = db.Where("sales.outlet_id = ?", *q.OutletID)
	}
	if q.ProductID != nil {
		db = db.Where("EXISTS (SELECT 1 FROM sale_items si WHERE si.sale_id = sales.id AND si.product_id = ?)", *q.ProductID)
	}
	if q.From != nil {
		db = db.Where("sales.created_at >= ?", *q.From)
	}
	if q.To != nil {
		db = db.Where("sales.created_at <= ?", *q.To)
	}
	db = searchLike(db, q.Search, "sales.transaction_no", "sales.customer_name")
	return paginate[model.Sale](db, q.Params, "sales.created_at desc", "Outlet", "Items")
}

func (r *saleRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	var count int64
	if err := GetDB(ctx, r.db).Model(&model.Sale{}).Where("transaction_no LIKE ?", prefix+"%").Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
