package service

import (
	"context"
	"fmt"
	"time"

	"bms/internal/model"
	"bms/internal/repository"
	"bms/pkg/pagination"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	UserName   string `json:"user_name"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, q repository.AuditQuery) (*pagination.Page[AuditLogResponse], error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func toAuditLogResponse(l *model.AuditLog) AuditLogResponse {
	userName := "System"
	userID := ""
	if l.User != nil {
		userName = l.User.UserName
	}
	if l.UserID != nil {
		userID = l.UserID.String()
	}
	return AuditLogResponse{
		ID:         l.ID.String(),
		UserID:     userID,
		UserName:   userName,
		Action:     l.Action,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		EntityName: l.EntityName,
		Details:    l.Details,
		CreatedAt:  l.CreatedAt.Format(time.RFC3339),
	}
}

func (s *auditService) GetAuditLogs(ctx context.Context, q repository.AuditQuery) (*pagination.Page[AuditLogResponse], error) {
	logs, w, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	return pagination.NewPage(logs, w, toAuditLogResponse), nil
}
