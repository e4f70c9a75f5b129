package repository

import (
	"context"
	"time"

	"bms/internal/model"
	"bms/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendanceQuery struct {
	ListQuery
	EmployeeID *uuid.UUID
	From, To   *time.Time
}

type AttendanceRepository interface {
	Create(ctx context.Context, record *model.Attendance) error
	Update(ctx context.Context, record *model.Attendance) error
	FindOpenForUpdate(ctx context.Context, employeeID uuid.UUID) (*model.Attendance, error)
	List(ctx context.Context, q AttendanceQuery) ([]model.Attendance, pagination.Window, error)
}

type attendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &attendanceRepository{db: db}
}

func (r *attendanceRepository) Create(ctx context.Context, record *model.Attendance) error {
	return GetDB(ctx, r.db).Omit("Employee").Create(record).Error
}

func (r *attendanceRepository) Update(ctx context.Context, record *model.Attendance) error {
	return GetDB(ctx, r.db).Omit("Employee").Save(record).Error
}

// FindOpenForUpdate returns the employee's shift that has no clock-out, locking the row.
func (r *attendanceRepository) FindOpenForUpdate(ctx context.Context, employeeID uuid.UUID) (*model.Attendance, error) {
	var record model.Attendance
	err := forUpdate(GetDB(ctx, r.db)).
		Where("employee_id = ? AND clock_out_at IS NULL", employeeID).
		Order("clock_in_at desc").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *attendanceRepository) List(ctx context.Context, q AttendanceQuery) ([]model.Attendance, pagination.Window, error) {
	db := GetDB(ctx, r.db).Model(&model.Attendance{})
	if q.EmployeeID != nil {
		db = db.Where("employee_id = ?", *q.EmployeeID)
	}
	if q.From != nil {
		db = db.Where("clock_in_at >= ?", *q.From)
	}
	if q.To != nil {
		db = db.Where("clock_in_at <= ?", *q.To)
	}
	return paginate[model.Attendance](db, q.Params, "clock_in_at desc", "Employee")
}
