package repository

import (
	"context"

	"bms/internal/model"
	"bms/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type EmployeeQuery struct {
	ListQuery
	DepartmentID *uuid.UUID
	OutletID     *uuid.UUID
}

type EmployeeRepository interface {
	Create(ctx context.Context, employee *model.Employee) error
	Update(ctx context.Context, employee *model.Employee) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error)
	List(ctx context.Context, q EmployeeQuery) ([]model.Employee, pagination.Window, error)
}

type employeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	return GetDB(ctx, r.db).Create(employee).Error
}

func (r *employeeRepository) Update(ctx context.Context, employee *model.Employee) error {
	return GetDB(ctx, r.db).Omit("Department", "Outlet", "Role").Save(employee).Error
}

func (r *employeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.Employee{}).Error
}

func (r *employeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	err := GetDB(ctx, r.db).
		Preload("Department").Preload("Outlet").Preload("Role").
		First(&employee, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) List(ctx context.Context, q EmployeeQuery) ([]model.Employee, pagination.Window, error) {
	db := GetDB(ctx, r.db).Model(&model.Employee{})
	if q.DepartmentID != nil {
		db = db.Where("department_id = ?", *q.DepartmentID)
	}
	if q.OutletID != nil {
		db = db.Where("outlet_id = ?", *q.OutletID)
	}
	db = searchLike(db, q.Search, "name", "employee_code", "contact")
	return paginate[model.Employee](db, q.Params, "created_at desc", "Department", "Outlet", "Role")
}
