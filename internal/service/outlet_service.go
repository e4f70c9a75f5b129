package service

import (
	"context"
	"fmt"
	"strings"

	"bms/internal/model"
	"bms/internal/repository"
	"bms/pkg/apperror"
	"bms/pkg/pagination"
)

type OutletRequest struct {
	Name      string `json:"name" binding:"required,max=200"`
	ManagerID string `json:"manager_id" binding:"required,uuid"`
	Contact   string `json:"contact" binding:"required,max=50"`
	Status    string `json:"status" binding:"required,status"`
}

type OutletService interface {
	ListOutlets(ctx context.Context, q repository.ListQuery) (*pagination.Page[model.Outlet], error)
	GetOutlet(ctx context.Context, id string) (*model.Outlet, error)
	CreateOutlet(ctx context.Context, actor string, req OutletRequest) (*model.Outlet, error)
	UpdateOutlet(ctx context.Context, actor, id string, req OutletRequest) (*model.Outlet, error)
	DeleteOutlet(ctx context.Context, actor, id string) error
}

type outletService struct {
	repo      repository.OutletRepository
	users     repository.UserRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewOutletService(
	repo repository.OutletRepository,
	users repository.UserRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) OutletService {
	return &outletService{repo: repo, users: users, auditRepo: auditRepo, txManager: txManager}
}

func (s *outletService) ListOutlets(ctx context.Context, q repository.ListQuery) (*pagination.Page[model.Outlet], error) {
	rows, w, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list outlets: %w", err)
	}
	return &pagination.Page[model.Outlet]{Items: rows, Pagination: w}, nil
}

func (s *outletService) GetOutlet(ctx context.Context, id string) (*model.Outlet, error) {
	outletID, err := parseID(id, "outlet")
	if err != nil {
		return nil, err
	}
	outlet, err := s.repo.FindByID(ctx, outletID)
	if err != nil {
		return nil, lookupErr(err, "outlet", id)
	}
	return outlet, nil
}

// apply copies req onto outlet after checking that the manager is a known user.
func (s *outletService) apply(ctx context.Context, outlet *model.Outlet, req OutletRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return apperror.InvalidArgument("outlet name is required")
	}
	status := defaultStatus(req.Status)
	if err := validStatus(status); err != nil {
		return err
	}
	managerID, err := parseID(req.ManagerID, "manager")
	if err != nil {
		return err
	}
	manager, err := s.users.FindByID(ctx, managerID)
	if err != nil {
		return lookupErr(err, "manager", req.ManagerID)
	}

	outlet.Name = name
	outlet.ManagerID = manager.ID
	outlet.Manager = manager
	outlet.Contact = strings.TrimSpace(req.Contact)
	outlet.Status = status
	return nil
}

func (s *outletService) CreateOutlet(ctx context.Context, actor string, req OutletRequest) (*model.Outlet, error) {
	outlet := &model.Outlet{}
	if err := s.apply(ctx, outlet, req); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, outlet); err != nil {
			return writeErr(err, "outlet", "name", outlet.Name)
		}
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: actor, action: model.ActionCreate, entityType: "outlet",
			entityID: outlet.ID.String(), entityName: outlet.Name, details: req,
		})
	})
	if err != nil {
		return nil, err
	}
	return outlet, nil
}

func (s *outletService) UpdateOutlet(ctx context.Context, actor, id string, req OutletRequest) (*model.Outlet, error) {
	outlet, err := s.GetOutlet(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, outlet, req); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, outlet); err != nil {
			return writeErr(err, "outlet", "name", outlet.Name)
		}
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: actor, action: model.ActionUpdate, entityType: "outlet",
			entityID: outlet.ID.String(), entityName: outlet.Name, details: req,
		})
	})
	if err != nil {
		return nil, err
	}
	return outlet, nil
}

func (s *outletService) DeleteOutlet(ctx context.Context, actor, id string) error {
	outlet, err := s.GetOutlet(ctx, id)
	if err != nil {
		return err
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, outlet.ID); err != nil {
			return fmt.Errorf("failed to delete outlet: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: actor, action: model.ActionDelete, entityType: "outlet",
			entityID: outlet.ID.String(), entityName: outlet.Name,
		})
	})
}
