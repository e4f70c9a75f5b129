package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"bms/internal/model"
	"bms/internal/repository"
	"bms/pkg/apperror"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Realtime event names pushed to websocket clients.
const (
	EventSaleCreated       = "sale.created"
	EventStockChanged      = "product.stock_changed"
	EventAttendanceChanged = "attendance.changed"
)

// EventPublisher fans an event out to connected clients. *websocket.Hub implements it.
type EventPublisher interface {
	Publish(event string, data any)
}

type discardPublisher struct{}

func (discardPublisher) Publish(string, any) {}

func publisherOrDiscard(p EventPublisher) EventPublisher {
	if p == nil {
		return discardPublisher{}
	}
	return p
}

// actorID turns the authenticated user id into the nullable audit column value.
func actorID(userID string) *uuid.UUID {
	if parsed, err := uuid.Parse(userID); err == nil {
		return &parsed
	}
	return nil
}

func parseID(raw, what string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, apperror.InvalidArgument("invalid %s id %q", what, raw)
	}
	return id, nil
}

func parseOptionalID(raw, what string) (*uuid.UUID, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	id, err := parseID(raw, what)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// lookupErr maps a repository read error to NotFound or a wrapped database error.
func lookupErr(err error, resource, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(resource, id)
	}
	return fmt.Errorf("failed to load %s: %w", resource, err)
}

// writeErr maps a repository write error, turning unique violations into AlreadyExists.
func writeErr(err error, resource, field, value string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.AlreadyExists(resource, field, value)
	}
	return fmt.Errorf("failed to save %s: %w", resource, err)
}

func defaultStatus(status string) string {
	if status == "" {
		return model.StatusActive
	}
	return status
}

func validStatus(status string) error {
	if status != model.StatusActive && status != model.StatusInactive {
		return apperror.InvalidArgument("status must be %s or %s", model.StatusActive, model.StatusInactive)
	}
	return nil
}

type auditEntry struct {
	userID     string
	action     string
	entityType string
	entityID   string
	entityName string
	details    any
}

func writeAudit(ctx context.Context, repo repository.AuditRepository, e auditEntry) error {
	details := "{}"
	if e.details != nil {
		raw, err := json.Marshal(e.details)
		if err != nil {
			return fmt.Errorf("failed to encode audit details: %w", err)
		}
		details = string(raw)
	}
	entry := &model.AuditLog{
		UserID:     actorID(e.userID),
		Action:     e.action,
		EntityType: e.entityType,
		EntityID:   e.entityID,
		EntityName: e.entityName,
		Details:    details,
	}
	if err := repo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
