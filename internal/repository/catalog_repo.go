package repository

import (
	"context"

	"bms/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogRepository serves the name + status lookup tables (departments,
// product types, customer types). T is the model struct.
type CatalogRepository[T any] interface {
	Create(ctx context.Context, entry *T) error
	Update(ctx context.Context, entry *T) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	FindByName(ctx context.Context, name string) (*T, error)
	List(ctx context.Context, q CatalogQuery) ([]T, pagination.Window, error)
}

// CatalogQuery narrows a catalog list; Status is optional.
type CatalogQuery struct {
	ListQuery
	Status string
}

type catalogRepository[T any] struct {
	db *gorm.DB
}

func NewCatalogRepository[T any](db *gorm.DB) CatalogRepository[T] {
	return &catalogRepository[T]{db: db}
}

func (r *catalogRepository[T]) Create(ctx context.Context, entry *T) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *catalogRepository[T]) Update(ctx context.Context, entry *T) error {
	return GetDB(ctx, r.db).Save(entry).Error
}

func (r *catalogRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(new(T)).Error
}

func (r *catalogRepository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	entry := new(T)
	if err := GetDB(ctx, r.db).First(entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *catalogRepository[T]) FindByName(ctx context.Context, name string) (*T, error) {
	entry := new(T)
	if err := GetDB(ctx, r.db).Where("LOWER(name) = LOWER(?)", name).First(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *catalogRepository[T]) List(ctx context.Context, q CatalogQuery) ([]T, pagination.Window, error) {
	db := GetDB(ctx, r.db).Model(new(T))
	if q.Status != "" {
		db = db.Where("status = ?", q.Status)
	}
	db = searchLike(db, q.Search, "name")
	return paginate[T](db, q.Params, "name asc")
}
