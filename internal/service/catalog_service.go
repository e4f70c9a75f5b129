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

type CatalogRequest struct {
	Name   string `json:"name" binding:"required,max=200"`
	Status string `json:"status" binding:"required,status"`
}

// CatalogModel is satisfied by pointers to the models embedding model.CatalogEntry.
type CatalogModel[T any] interface {
	*T
	Entry() *model.CatalogEntry
}

// CatalogService manages one name + status lookup table.
type CatalogService[T any] interface {
	List(ctx context.Context, q repository.CatalogQuery) (*pagination.Page[T], error)
	Get(ctx context.Context, id string) (*T, error)
	Create(ctx context.Context, actor string, req CatalogRequest) (*T, error)
	Update(ctx context.Context, actor, id string, req CatalogRequest) (*T, error)
	Delete(ctx context.Context, actor, id string) error
}

type catalogService[T any, PT CatalogModel[T]] struct {
	kind      string
	repo      repository.CatalogRepository[T]
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

// NewCatalogService builds a CatalogService; kind names the table in errors and audit logs.
func NewCatalogService[T any, PT CatalogModel[T]](
	kind string,
	repo repository.CatalogRepository[T],
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) CatalogService[T] {
	return &catalogService[T, PT]{kind: kind, repo: repo, auditRepo: auditRepo, txManager: txManager}
}

func (s *catalogService[T, PT]) List(ctx context.Context, q repository.CatalogQuery) (*pagination.Page[T], error) {
	rows, w, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.kind, err)
	}
	return &pagination.Page[T]{Items: rows, Pagination: w}, nil
}

func (s *catalogService[T, PT]) Get(ctx context.Context, id string) (*T, error) {
	entryID, err := parseID(id, s.kind)
	if err != nil {
		return nil, err
	}
	row, err := s.repo.FindByID(ctx, entryID)
	if err != nil {
		return nil, lookupErr(err, s.kind, id)
	}
	return row, nil
}

func (s *catalogService[T, PT]) Create(ctx context.Context, actor string, req CatalogRequest) (*T, error) {
	row := new(T)
	entry := PT(row).Entry()
	if err := s.apply(entry, req); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, row); err != nil {
			return writeErr(err, s.kind, "name", entry.Name)
		}
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: actor, action: model.ActionCreate, entityType: s.kind,
			entityID: entry.ID.String(), entityName: entry.Name, details: req,
		})
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (s *catalogService[T, PT]) Update(ctx context.Context, actor, id string, req CatalogRequest) (*T, error) {
	row, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	entry := PT(row).Entry()
	if err := s.apply(entry, req); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, row); err != nil {
			return writeErr(err, s.kind, "name", entry.Name)
		}
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: actor, action: model.ActionUpdate, entityType: s.kind,
			entityID: entry.ID.String(), entityName: entry.Name, details: req,
		})
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

func (s *catalogService[T, PT]) Delete(ctx context.Context, actor, id string) error {
	row, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	entry := PT(row).Entry()

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, entry.ID); err != nil {
			return fmt.Errorf("failed to delete %s: %w", s.kind, err)
		}
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: actor, action: model.ActionDelete, entityType: s.kind,
			entityID: entry.ID.String(), entityName: entry.Name,
		})
	})
}

func (s *catalogService[T, PT]) apply(entry *model.CatalogEntry, req CatalogRequest) error {
	status := defaultStatus(req.Status)
	if err := validStatus(status); err != nil {
		return err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return apperror.InvalidArgument("%s name is required", s.kind)
	}
	entry.Name = name
	entry.Status = status
	return nil
}
