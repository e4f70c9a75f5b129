package repository

import (
	"context"

	"bms/internal/model"
	"bms/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OutletRepository interface {
	Create(ctx context.Context, outlet *model.Outlet) error
	Update(ctx context.Context, outlet *model.Outlet) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Outlet, error)
	List(ctx context.Context, q ListQuery) ([]model.Outlet, pagination.Window, error)
}

type outletRepository struct {
	db *gorm.DB
}

func NewOutletRepository(db *gorm.DB) OutletRepository {
	return &outletRepository{db: db}
}

func (r *outletRepository) Create(ctx context.Context, outlet *model.Outlet) error {
	return GetDB(ctx, r.db).Create(outlet).Error
}

func (r *outletRepository) Update(ctx context.Context, outlet *model.Outlet) error {
	return GetDB(ctx, r.db).Omit("Manager").Save(outlet).Error
}

func (r *outletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Outlet{}).Error
}

func (r *outletRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Outlet, error) {
	var outlet model.Outlet
	if err := GetDB(ctx, r.db).Preload("Manager").First(&outlet, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &outlet, nil
}

func (r *outletRepository) List(ctx context.Context, q ListQuery) ([]model.Outlet, pagination.Window, error) {
	db := searchLike(GetDB(ctx, r.db).Model(&model.Outlet{}), q.Search, "name", "contact")
	return paginate[model.Outlet](db, q.Params, "created_at desc", "Manager")
}
