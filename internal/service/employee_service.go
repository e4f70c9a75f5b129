package service

import (
	"context"
	"fmt"
	"strings"

	"bms/internal/model"
	"bms/internal/repository"
	"bms/pkg/apperror"
	"bms/pkg/pagination"

	"github.com/google/uuid"
)

type EmployeeRequest struct {
	EmployeeCode string `json:"employee_code" binding:"required,max=100"`
	IOT          string `json:"iot" binding:"required,max=100"`
	Name         string `json:"name" binding:"required,max=200"`
	DepartmentID string `json:"department_id" binding:"required,uuid"`
	OutletID     string `json:"outlet_id" binding:"required,uuid"`
	RoleID       string `json:"role_id" binding:"required,uuid"`
	Status       string `json:"status" binding:"required,status"`
	Contact      string `json:"contact" binding:"required,max=50"`
}

type EmployeeService interface {
	ListEmployees(ctx context.Context, q repository.EmployeeQuery) (*pagination.Page[model.Employee], error)
	GetEmployee(ctx context.Context, id string) (*model.Employee, error)
	CreateEmployee(ctx context.Context, actor string, req EmployeeRequest) (*model.Employee, error)
	UpdateEmployee(ctx context.Context, actor, id string, req EmployeeRequest) (*model.Employee, error)
	DeleteEmployee(ctx context.Context, actor, id string) error
}

type employeeService struct {
	repo        repository.EmployeeRepository
	departments repository.CatalogRepository[model.Department]
	outlets     repository.OutletRepository
	roles       repository.RoleRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
}

func NewEmployeeService(
	repo repository.EmployeeRepository,
	departments repository.CatalogRepository[model.Department],
	outlets repository.OutletRepository,
	roles repository.RoleRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) EmployeeService {
	return &employeeService{
		repo:        repo,
		departments: departments,
		outlets:     outlets,
		roles:       roles,
		auditRepo:   auditRepo,
		txManager:   txManager,
	}
}

func (s *employeeService) ListEmployees(ctx context.Context, q repository.EmployeeQuery) (*pagination.Page[model.Employee], error) {
	rows, w, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return &pagination.Page[model.Employee]{Items: rows, Pagination: w}, nil
}

func (s *employeeService) GetEmployee(ctx context.Context, id string) (*model.Employee, error) {
	employeeID, err := parseID(id, "employee")
	if err != nil {
		return nil, err
	}
	employee, err := s.repo.FindByID(ctx, employeeID)
	if err != nil {
		return nil, lookupErr(err, "employee", id)
	}
	return employee, nil
}

// apply validates the references of req and copies it onto employee.
func (s *employeeService) apply(ctx context.Context, employee *model.Employee, req EmployeeRequest) error {
	code := strings.TrimSpace(req.EmployeeCode)
	if code == "" {
		return apperror.InvalidArgument("employee code is required")
	}
	status := defaultStatus(req.Status)
	if err := validStatus(status); err != nil {
		return err
	}

	var ids [3]uuid.UUID
	for i, ref := range []struct{ raw, what string }{
		{req.DepartmentID, "department"},
		{req.OutletID, "outlet"},
		{req.RoleID, "role"},
	} {
		id, err := parseID(ref.raw, ref.what)
		if err != nil {
			return err
		}
		ids[i] = id
	}

	dept, err := s.departments.FindByID(ctx, ids[0])
	if err != nil {
		return lookupErr(err, "department", req.DepartmentID)
	}
	outlet, err := s.outlets.FindByID(ctx, ids[1])
	if err != nil {
		return lookupErr(err, "outlet", req.OutletID)
	}
	role, err := s.roles.FindByID(ctx, ids[2])
	if err != nil {
		return lookupErr(err, "role", req.RoleID)
	}

	employee.EmployeeCode = code
	employee.IOT = strings.TrimSpace(req.IOT)
	employee.Name = strings.TrimSpace(req.Name)
	employee.DepartmentID, employee.Department = dept.ID, dept
	employee.OutletID, employee.Outlet = outlet.ID, outlet
	employee.RoleID, employee.Role = role.ID, role
	employee.Contact = strings.TrimSpace(req.Contact)
	employee.Status = status
	return nil
}

func (s *employeeService) CreateEmployee(ctx context.Context, actor string, req EmployeeRequest) (*model.Employee, error) {
	employee := &model.Employee{}
	if err := s.apply(ctx, employee, req); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, employee); err != nil {
			return writeErr(err, "employee", "employee_code", employee.EmployeeCode)
		}
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: actor, action: model.ActionCreate, entityType: "employee",
			entityID: employee.ID.String(), entityName: employee.Name, details: req,
		})
	})
	if err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *employeeService) UpdateEmployee(ctx context.Context, actor, id string, req EmployeeRequest) (*model.Employee, error) {
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, employee, req); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, employee); err != nil {
			return writeErr(err, "employee", "employee_code", employee.EmployeeCode)
		}
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: actor, action: model.ActionUpdate, entityType: "employee",
			entityID: employee.ID.String(), entityName: employee.Name, details: req,
		})
	})
	if err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *employeeService) DeleteEmployee(ctx context.Context, actor, id string) error {
	employee, err := s.GetEmployee(ctx, id)
	if err != nil {
		return err
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, employee.ID); err != nil {
			return fmt.Errorf("failed to delete employee: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: actor, action: model.ActionDelete, entityType: "employee",
			entityID: employee.ID.String(), entityName: employee.Name,
		})
	})
}
