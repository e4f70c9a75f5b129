package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bms/internal/model"
	"bms/internal/repository"
	"bms/pkg/apperror"
	"bms/pkg/pagination"

	"gorm.io/gorm"
)

type ClockRequest struct {
	EmployeeID string `json:"employee_id" binding:"required,uuid"`
}

type AttendanceService interface {
	ClockIn(ctx context.Context, actor string, req ClockRequest) (*model.Attendance, error)
	ClockOut(ctx context.Context, actor string, req ClockRequest) (*model.Attendance, error)
	ListAttendance(ctx context.Context, q repository.AttendanceQuery) (*pagination.Page[model.Attendance], error)
}

type attendanceService struct {
	repo      repository.AttendanceRepository
	employees repository.EmployeeRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	events    EventPublisher
	now       func() time.Time
}

func NewAttendanceService(
	repo repository.AttendanceRepository,
	employees repository.EmployeeRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	events EventPublisher,
) AttendanceService {
	return &attendanceService{
		repo:      repo,
		employees: employees,
		auditRepo: auditRepo,
		txManager: txManager,
		events:    publisherOrDiscard(events),
		now:       time.Now,
	}
}

func (s *attendanceService) loadEmployee(ctx context.Context, raw string) (*model.Employee, error) {
	id, err := parseID(raw, "employee")
	if err != nil {
		return nil, err
	}
	employee, err := s.employees.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "employee", raw)
	}
	return employee, nil
}

// ClockIn opens a shift. An employee with a shift still open cannot clock in again.
func (s *attendanceService) ClockIn(ctx context.Context, actor string, req ClockRequest) (*model.Attendance, error) {
	employee, err := s.loadEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	if employee.Status == model.StatusInactive {
		return nil, apperror.InvalidArgument("employee %s is inactive", employee.Name)
	}

	var record *model.Attendance
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		open, err := s.repo.FindOpenForUpdate(txCtx, employee.ID)
		if err == nil {
			return apperror.Conflict(fmt.Sprintf("%s is already clocked in since %s", employee.Name, open.ClockInAt.Format(time.RFC3339)))
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to check open shift: %w", err)
		}

		record = &model.Attendance{EmployeeID: employee.ID, ClockInAt: s.now()}
		if err := s.repo.Create(txCtx, record); err != nil {
			// a concurrent clock-in won the open shift index
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperror.Conflict(employee.Name + " is already clocked in")
			}
			return fmt.Errorf("failed to clock in: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: actor, action: model.ActionClockIn, entityType: "attendance",
			entityID: record.ID.String(), entityName: employee.Name,
		})
	})
	if err != nil {
		return nil, err
	}

	record.Employee = employee
	s.events.Publish(EventAttendanceChanged, record)
	return record, nil
}

// ClockOut closes the open shift and stores its duration in whole seconds.
func (s *attendanceService) ClockOut(ctx context.Context, actor string, req ClockRequest) (*model.Attendance, error) {
	employee, err := s.loadEmployee(ctx, req.EmployeeID)
	if err != nil {
		return nil, err
	}

	var record *model.Attendance
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		open, err := s.repo.FindOpenForUpdate(txCtx, employee.ID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.Conflict(employee.Name + " is not clocked in")
		}
		if err != nil {
			return fmt.Errorf("failed to load open shift: %w", err)
		}

		out := s.now()
		if out.Before(open.ClockInAt) {
			out = open.ClockInAt
		}
		open.ClockOutAt = &out
		open.DurationSeconds = int64(out.Sub(open.ClockInAt) / time.Second)
		if err := s.repo.Update(txCtx, open); err != nil {
			return fmt.Errorf("failed to clock out: %w", err)
		}
		record = open
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: actor, action: model.ActionClockOut, entityType: "attendance",
			entityID: open.ID.String(), entityName: employee.Name,
			details: map[string]any{"duration_seconds": open.DurationSeconds},
		})
	})
	if err != nil {
		return nil, err
	}

	record.Employee = employee
	s.events.Publish(EventAttendanceChanged, record)
	return record, nil
}

func (s *attendanceService) ListAttendance(ctx context.Context, q repository.AttendanceQuery) (*pagination.Page[model.Attendance], error) {
	rows, w, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return &pagination.Page[model.Attendance]{Items: rows, Pagination: w}, nil
}
