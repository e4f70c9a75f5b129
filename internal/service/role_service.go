package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bms/internal/access"
	"bms/internal/model"
	"bms/internal/repository"
	"bms/pkg/apperror"
	"bms/pkg/pagination"
)

type CreateRoleRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
}

type UpdateRoleRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description"`
}

// RoleResponse carries the capability tuple the role resolves to.
type RoleResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	IsSystem    bool               `json:"is_system"`
	Permissions access.Permissions `json:"permissions"`
	CreatedAt   string             `json:"created_at"`
}

// PermissionsResponse answers "what may this role do".
type PermissionsResponse struct {
	Role        string             `json:"role"`
	Builtin     bool               `json:"builtin"`
	Permissions access.Permissions `json:"permissions"`
	Actions     []access.Action    `json:"actions"`
}

type RoleService interface {
	ListRoles(ctx context.Context, q repository.ListQuery) (*pagination.Page[RoleResponse], error)
	GetRole(ctx context.Context, id string) (*RoleResponse, error)
	CreateRole(ctx context.Context, actor string, req CreateRoleRequest) (*RoleResponse, error)
	UpdateRole(ctx context.Context, actor, id string, req UpdateRoleRequest) (*RoleResponse, error)
	DeleteRole(ctx context.Context, actor, id string) error
	ResolvePermissions(role string) PermissionsResponse
}

type roleService struct {
	repo      repository.RoleRepository
	users     repository.UserRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewRoleService(
	repo repository.RoleRepository,
	users repository.UserRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) RoleService {
	return &roleService{repo: repo, users: users, auditRepo: auditRepo, txManager: txManager}
}

func toRoleResponse(r *model.Role) RoleResponse {
	return RoleResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		Description: r.Description,
		IsSystem:    r.IsSystem,
		Permissions: access.Resolve(r.Name),
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
}

func (s *roleService) ListRoles(ctx context.Context, q repository.ListQuery) (*pagination.Page[RoleResponse], error) {
	roles, w, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch roles: %w", err)
	}
	return pagination.NewPage(roles, w, toRoleResponse), nil
}

func (s *roleService) GetRole(ctx context.Context, id string) (*RoleResponse, error) {
	role, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toRoleResponse(role)
	return &resp, nil
}

func (s *roleService) find(ctx context.Context, id string) (*model.Role, error) {
	roleID, err := parseID(id, "role")
	if err != nil {
		return nil, err
	}
	role, err := s.repo.FindByID(ctx, roleID)
	if err != nil {
		return nil, lookupErr(err, "role", id)
	}
	return role, nil
}

func (s *roleService) CreateRole(ctx context.Context, actor string, req CreateRoleRequest) (*RoleResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.InvalidArgument("role name is required")
	}
	if access.IsBuiltin(name) {
		return nil, apperror.AlreadyExists("role", "name", name)
	}

	role := &model.Role{Name: name, Description: req.Description}
	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, role); err != nil {
			return writeErr(err, "role", "name", name)
		}
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: actor, action: model.ActionCreate, entityType: "role",
			entityID: role.ID.String(), entityName: role.Name,
		})
	})
	if err != nil {
		return nil, err
	}
	resp := toRoleResponse(role)
	return &resp, nil
}

func (s *roleService) UpdateRole(ctx context.Context, actor, id string, req UpdateRoleRequest) (*RoleResponse, error) {
	role, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.InvalidArgument("role name is required")
	}
	if role.IsSystem && name != role.Name {
		return nil, apperror.Forbidden("built-in roles cannot be renamed")
	}
	if !role.IsSystem && access.IsBuiltin(name) {
		return nil, apperror.AlreadyExists("role", "name", name)
	}
	role.Name = name
	role.Description = req.Description

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, role); err != nil {
			return writeErr(err, "role", "name", name)
		}
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: actor, action: model.ActionUpdate, entityType: "role",
			entityID: role.ID.String(), entityName: role.Name,
		})
	})
	if err != nil {
		return nil, err
	}
	resp := toRoleResponse(role)
	return &resp, nil
}

func (s *roleService) DeleteRole(ctx context.Context, actor, id string) error {
	role, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if role.IsSystem {
		return apperror.Forbidden("built-in roles cannot be deleted")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		inUse, err := s.users.CountByRole(txCtx, role.ID)
		if err != nil {
			return fmt.Errorf("failed to count role members: %w", err)
		}
		if inUse > 0 {
			return apperror.Conflict(fmt.Sprintf("role %s is assigned to %d user(s)", role.Name, inUse))
		}
		if err := s.repo.Delete(txCtx, role.ID); err != nil {
			return fmt.Errorf("failed to delete role: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: actor, action: model.ActionDelete, entityType: "role",
			entityID: role.ID.String(), entityName: role.Name,
		})
	})
}

func (s *roleService) ResolvePermissions(role string) PermissionsResponse {
	perms := access.Resolve(role)
	return PermissionsResponse{
		Role:        role,
		Builtin:     access.IsBuiltin(role),
		Permissions: perms,
		Actions:     perms.Actions(),
	}
}
