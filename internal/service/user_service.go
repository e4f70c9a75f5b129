package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bms/internal/access"
	"bms/internal/model"
	"bms/internal/repository"
	"bms/pkg/apperror"
	"bms/pkg/pagination"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type CreateUserRequest struct {
	UserName string `json:"user_name"`
	FullName string `json:"full_name" binding:"required,max=200"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	RoleID   string `json:"role_id" binding:"required,uuid"`
	OutletID string `json:"outlet_id" binding:"omitempty,uuid"`
	Contact  string `json:"contact" binding:"max=50"`
	Status   string `json:"status" binding:"omitempty,status"`
}

type UpdateUserRequest struct {
	UserName string `json:"user_name"`
	FullName string `json:"full_name" binding:"max=200"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"omitempty,min=6"`
	RoleID   string `json:"role_id" binding:"omitempty,uuid"`
	OutletID string `json:"outlet_id" binding:"omitempty,uuid"`
	Contact  string `json:"contact" binding:"max=50"`
	Status   string `json:"status" binding:"omitempty,status"`
}

// UserResponse never exposes the password hash.
type UserResponse struct {
	ID          uuid.UUID          `json:"id"`
	UserName    string             `json:"user_name"`
	FullName    string             `json:"full_name"`
	Email       string             `json:"email"`
	RoleID      uuid.UUID          `json:"role_id"`
	RoleName    string             `json:"role_name"`
	Permissions access.Permissions `json:"permissions"`
	OutletID    *uuid.UUID         `json:"outlet_id"`
	Contact     string             `json:"contact"`
	Status      string             `json:"status"`
	CreatedAt   string             `json:"created_at"`
	UpdatedAt   string             `json:"updated_at"`
}

type UserService interface {
	CreateUser(ctx context.Context, actor string, req CreateUserRequest) (*UserResponse, error)
	GetUser(ctx context.Context, id string) (*UserResponse, error)
	ListUsers(ctx context.Context, q repository.ListQuery) (*pagination.Page[UserResponse], error)
	UpdateUser(ctx context.Context, actor, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, actor, id string) error
}

type userService struct {
	repo      repository.UserRepository
	roleRepo  repository.RoleRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewUserService(
	repo repository.UserRepository,
	roleRepo repository.RoleRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) UserService {
	return &userService{repo: repo, roleRepo: roleRepo, auditRepo: auditRepo, txManager: txManager}
}

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		UserName:    user.UserName,
		FullName:    user.FullName,
		Email:       user.Email,
		RoleID:      user.RoleID,
		RoleName:    user.RoleName(),
		Permissions: access.Resolve(user.RoleName()),
		OutletID:    user.OutletID,
		Contact:     user.Contact,
		Status:      user.Status,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   user.UpdatedAt.Format(time.RFC3339),
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperror.Internal(err)
	}
	return string(hashed), nil
}

// ensureUnique rejects an email or user name that already belongs to another account.
func ensureUnique(ctx context.Context, repo repository.UserRepository, email, userName string) error {
	if email != "" {
		_, err := repo.FindByEmail(ctx, email)
		if err == nil {
			return apperror.AlreadyExists("user", "email", email)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return lookupErr(err, "user", email)
		}
	}
	if userName != "" {
		_, err := repo.FindByUserName(ctx, userName)
		if err == nil {
			return apperror.AlreadyExists("user", "user_name", userName)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return lookupErr(err, "user", userName)
		}
	}
	return nil
}

func (s *userService) loadRole(ctx context.Context, raw string) (*model.Role, error) {
	roleID, err := parseID(raw, "role")
	if err != nil {
		return nil, err
	}
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return nil, lookupErr(err, "role", raw)
	}
	return role, nil
}

func (s *userService) CreateUser(ctx context.Context, actor string, req CreateUserRequest) (*UserResponse, error) {
	email := normalizeEmail(req.Email)
	userName := strings.TrimSpace(req.UserName)
	if userName == "" {
		userName = email
	}
	status := defaultStatus(req.Status)
	if err := validStatus(status); err != nil {
		return nil, err
	}

	role, err := s.loadRole(ctx, req.RoleID)
	if err != nil {
		return nil, err
	}
	outletID, err := parseOptionalID(req.OutletID, "outlet")
	if err != nil {
		return nil, err
	}
	if err := ensureUnique(ctx, s.repo, email, userName); err != nil {
		return nil, err
	}

	hashed, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		UserName: userName,
		FullName: strings.TrimSpace(req.FullName),
		Email:    email,
		Password: hashed,
		RoleID:   role.ID,
		OutletID: outletID,
		Contact:  req.Contact,
		Status:   status,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, user); err != nil {
			return writeErr(err, "user", "email", email)
		}
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: actor, action: model.ActionCreate, entityType: "user",
			entityID: user.ID.String(), entityName: user.Email,
			details: map[string]any{"role": role.Name, "status": status},
		})
	})
	if err != nil {
		return nil, err
	}

	user.Role = role
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) GetUser(ctx context.Context, id string) (*UserResponse, error) {
	userID, err := parseID(id, "user")
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "user", id)
	}
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) ListUsers(ctx context.Context, q repository.ListQuery) (*pagination.Page[UserResponse], error) {
	users, w, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return pagination.NewPage(users, w, toUserResponse), nil
}

func (s *userService) UpdateUser(ctx context.Context, actor, id string, req UpdateUserRequest) (*UserResponse, error) {
	userID, err := parseID(id, "user")
	if err != nil {
		return nil, err
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupErr(err, "user", id)
	}

	if req.RoleID != "" {
		role, err := s.loadRole(ctx, req.RoleID)
		if err != nil {
			return nil, err
		}
		user.RoleID = role.ID
		user.Role = role
	}

	email := normalizeEmail(req.Email)
	if email != "" && email != user.Email {
		if err := ensureUnique(ctx, s.repo, email, ""); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if name := strings.TrimSpace(req.UserName); name != "" && name != user.UserName {
		if err := ensureUnique(ctx, s.repo, "", name); err != nil {
			return nil, err
		}
		user.UserName = name
	}
	if req.FullName != "" {
		user.FullName = strings.TrimSpace(req.FullName)
	}
	if req.Contact != "" {
		user.Contact = req.Contact
	}
	if req.OutletID != "" {
		if user.OutletID, err = parseOptionalID(req.OutletID, "outlet"); err != nil {
			return nil, err
		}
	}
	if req.Status != "" {
		if err := validStatus(req.Status); err != nil {
			return nil, err
		}
		user.Status = req.Status
	}
	if req.Password != "" {
		if user.Password, err = hashPassword(req.Password); err != nil {
			return nil, err
		}
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, user); err != nil {
			return writeErr(err, "user", "email", user.Email)
		}
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: actor, action: model.ActionUpdate, entityType: "user",
			entityID: user.ID.String(), entityName: user.Email,
			details: map[string]any{"role_id": user.RoleID, "status": user.Status},
		})
	})
	if err != nil {
		return nil, err
	}

	resp := toUserResponse(user)
	return &resp, nil
}

func (s *userService) DeleteUser(ctx context.Context, actor, id string) error {
	userID, err := parseID(id, "user")
	if err != nil {
		return err
	}
	if actor == userID.String() {
		return apperror.Conflict("you cannot delete your own account")
	}
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return lookupErr(err, "user", id)
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, userID); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: actor, action: model.ActionDelete, entityType: "user",
			entityID: user.ID.String(), entityName: user.Email,
		})
	})
}
