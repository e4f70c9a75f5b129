package repository

import (
	"context"

	"bms/internal/model"
	"bms/pkg/pagination"

	"gorm.io/gorm"
)

type AuditQuery struct {
	ListQuery
	Action     string
	EntityType string
}

type AuditRepository interface {
	Log(ctx context.Context, entry *model.AuditLog) error
	List(ctx context.Context, q AuditQuery) ([]model.AuditLog, pagination.Window, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	return GetDB(ctx, r.db).Omit("User").Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, q AuditQuery) ([]model.AuditLog, pagination.Window, error) {
	db := GetDB(ctx, r.db).Model(&model.AuditLog{})
	if q.Action != "" {
		db = db.Where("action = ?", q.Action)
	}
	if q.EntityType != "" {
		db = db.Where("entity_type = ?", q.EntityType)
	}
	db = searchLike(db, q.Search, "entity_name", "entity_id")
	return paginate[model.AuditLog](db, q.Params, "created_at desc", "User")
}
