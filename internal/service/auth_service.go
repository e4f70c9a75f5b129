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
	"bms/internal/session"
	"bms/internal/token"
	"bms/pkg/apperror"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	UserName        string `json:"user_name" binding:"required,max=100"`
	FullName        string `json:"full_name" binding:"required,max=200"`
	Password        string `json:"password" binding:"required,min=6"`
	ConfirmPassword string `json:"confirm_password" binding:"required,eqfield=Password"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken string             `json:"access_token"`
	TokenType   string             `json:"token_type"`
	ExpiresAt   time.Time          `json:"expires_at"`
	Role        string             `json:"role"`
	Permissions access.Permissions `json:"permissions"`
	User        UserResponse       `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Logout(ctx context.Context, claims *token.Claims) error
	Me(ctx context.Context, userID string) (*UserResponse, error)
}

type authService struct {
	users       repository.UserRepository
	roles       repository.RoleRepository
	auditRepo   repository.AuditRepository
	txManager   repository.TransactionManager
	issuer      *token.Issuer
	revoked     session.Store
	defaultRole string
	now         func() time.Time
}

func NewAuthService(
	users repository.UserRepository,
	roles repository.RoleRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	issuer *token.Issuer,
	revoked session.Store,
	defaultRole string,
) AuthService {
	return &authService{
		users:       users,
		roles:       roles,
		auditRepo:   auditRepo,
		txManager:   txManager,
		issuer:      issuer,
		revoked:     revoked,
		defaultRole: defaultRole,
		now:         time.Now,
	}
}

func (s *authService) Register(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	if req.Password != req.ConfirmPassword {
		return nil, apperror.InvalidArgument("passwords do not match")
	}
	email := normalizeEmail(req.Email)
	userName := strings.TrimSpace(req.UserName)
	if err := ensureUnique(ctx, s.users, email, userName); err != nil {
		return nil, err
	}

	role, err := s.roles.FindByName(ctx, s.defaultRole)
	if err != nil {
		return nil, lookupErr(err, "role", s.defaultRole)
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
		Status:   model.StatusActive,
	}
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.users.Create(txCtx, user); err != nil {
			return writeErr(err, "user", "email", email)
		}
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: user.ID.String(), action: model.ActionRegister, entityType: "user",
			entityID: user.ID.String(), entityName: user.Email,
		})
	})
	if err != nil {
		return nil, err
	}

	user.Role = role
	resp := toUserResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Unauthorized("invalid email or password")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("invalid email or password")
	}
	if user.Status == model.StatusInactive {
		return nil, apperror.Forbidden("account is inactive")
	}

	signed, claims, err := s.issuer.Issue(user.ID, user.RoleName(), user.Email)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &LoginResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresAt:   claims.ExpiresAt.Time,
		Role:        user.RoleName(),
		Permissions: access.Resolve(user.RoleName()),
		User:        toUserResponse(user),
	}, nil
}

// Logout puts the token id on the deny-list until the token expires.
func (s *authService) Logout(ctx context.Context, claims *token.Claims) error {
	if claims == nil || claims.ID == "" {
		return apperror.Unauthorized("token has no id")
	}
	if err := s.revoked.Revoke(ctx, claims.ID, claims.Remaining(s.now())); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}
	return nil
}

func (s *authService) Me(ctx context.Context, userID string) (*UserResponse, error) {
	id, err := parseID(userID, "user")
	if err != nil {
		return nil, apperror.Unauthorized("invalid subject")
	}
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, lookupErr(err, "user", userID)
	}
	resp := toUserResponse(user)
	return &resp, nil
}
