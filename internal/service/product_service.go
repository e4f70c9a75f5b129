package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bms/internal/model"
	"bms/internal/repository"
	"bms/pkg/apperror"
	"bms/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductRequest struct {
	Name          string          `json:"name" binding:"required,max=200"`
	ProductTypeID string          `json:"product_type_id" binding:"required,uuid"`
	OutletID      string          `json:"outlet_id" binding:"required,uuid"`
	Quantity      decimal.Decimal `json:"quantity"`
	Status        string          `json:"status" binding:"required,status"`
	CreatedBy     string          `json:"created_by" binding:"omitempty,uuid"`
}

type ProductResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	ProductTypeID   string          `json:"product_type_id"`
	ProductTypeName string          `json:"product_type_name,omitempty"`
	OutletID        string          `json:"outlet_id"`
	OutletName      string          `json:"outlet_name,omitempty"`
	Quantity        decimal.Decimal `json:"quantity"`
	StockStatus     string          `json:"stock_status"`
	Status          string          `json:"status"`
	CreatedBy       *uuid.UUID      `json:"created_by"`
	CreatedAt       string          `json:"created_at"`
	UpdatedAt       string          `json:"updated_at"`
}

type ProductService interface {
	ListProducts(ctx context.Context, q repository.ProductQuery) (*pagination.Page[ProductResponse], error)
	GetProduct(ctx context.Context, id string) (*ProductResponse, error)
	CreateProduct(ctx context.Context, actor string, req ProductRequest) (*ProductResponse, error)
	UpdateProduct(ctx context.Context, actor, id string, req ProductRequest) (*ProductResponse, error)
	DeleteProduct(ctx context.Context, actor, id string) error
}

type productService struct {
	repo         repository.ProductRepository
	productTypes repository.CatalogRepository[model.ProductType]
	outlets      repository.OutletRepository
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	events       EventPublisher
	lowStock     decimal.Decimal
}

func NewProductService(
	repo repository.ProductRepository,
	productTypes repository.CatalogRepository[model.ProductType],
	outlets repository.OutletRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	events EventPublisher,
	lowStockThreshold int64,
) ProductService {
	return &productService{
		repo:         repo,
		productTypes: productTypes,
		outlets:      outlets,
		auditRepo:    auditRepo,
		txManager:    txManager,
		events:       publisherOrDiscard(events),
		lowStock:     decimal.NewFromInt(lowStockThreshold),
	}
}

func (s *productService) toResponse(p *model.Product) ProductResponse {
	res := ProductResponse{
		ID:            p.ID.String(),
		Name:          p.Name,
		ProductTypeID: p.ProductTypeID.String(),
		OutletID:      p.OutletID.String(),
		Quantity:      p.Quantity,
		StockStatus:   p.StockStatus(s.lowStock),
		Status:        p.Status,
		CreatedBy:     p.CreatedBy,
		CreatedAt:     p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     p.UpdatedAt.Format(time.RFC3339),
	}
	if p.ProductType != nil {
		res.ProductTypeName = p.ProductType.Name
	}
	if p.Outlet != nil {
		res.OutletName = p.Outlet.Name
	}
	return res
}

func (s *productService) ListProducts(ctx context.Context, q repository.ProductQuery) (*pagination.Page[ProductResponse], error) {
	rows, w, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return pagination.NewPage(rows, w, s.toResponse), nil
}

func (s *productService) find(ctx context.Context, id string) (*model.Product, error) {
	productID, err := parseID(id, "product")
	if err != nil {
		return nil, err
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, lookupErr(err, "product", id)
	}
	return product, nil
}

func (s *productService) GetProduct(ctx context.Context, id string) (*ProductResponse, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	res := s.toResponse(product)
	return &res, nil
}

func (s *productService) apply(ctx context.Context, product *model.Product, req ProductRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return apperror.InvalidArgument("product name is required")
	}
	if req.Quantity.IsNegative() {
		return apperror.InvalidArgument("quantity must be 0 or greater")
	}
	status := defaultStatus(req.Status)
	if err := validStatus(status); err != nil {
		return err
	}

	typeID, err := parseID(req.ProductTypeID, "product type")
	if err != nil {
		return err
	}
	productType, err := s.productTypes.FindByID(ctx, typeID)
	if err != nil {
		return lookupErr(err, "product type", req.ProductTypeID)
	}
	outletID, err := parseID(req.OutletID, "outlet")
	if err != nil {
		return err
	}
	outlet, err := s.outlets.FindByID(ctx, outletID)
	if err != nil {
		return lookupErr(err, "outlet", req.OutletID)
	}

	product.Name = name
	product.ProductTypeID, product.ProductType = productType.ID, productType
	product.OutletID, product.Outlet = outlet.ID, outlet
	product.Quantity = req.Quantity
	product.Status = status
	return nil
}

func (s *productService) CreateProduct(ctx context.Context, actor string, req ProductRequest) (*ProductResponse, error) {
	product := &model.Product{}
	if err := s.apply(ctx, product, req); err != nil {
		return nil, err
	}
	createdBy, err := parseOptionalID(req.CreatedBy, "creator")
	if err != nil {
		return nil, err
	}
	if createdBy == nil {
		createdBy = actorID(actor)
	}
	product.CreatedBy = createdBy

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, product); err != nil {
			return writeErr(err, "product", "name", product.Name)
		}
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: actor, action: model.ActionCreate, entityType: "product",
			entityID: product.ID.String(), entityName: product.Name, details: req,
		})
	})
	if err != nil {
		return nil, err
	}

	res := s.toResponse(product)
	return &res, nil
}

// UpdateProduct sets the product's fields, quantity included, on the row locked
// for update, so it serialises with sales decrementing the same stock.
func (s *productService) UpdateProduct(ctx context.Context, actor, id string, req ProductRequest) (*ProductResponse, error) {
	productID, err := parseID(id, "product")
	if err != nil {
		return nil, err
	}

	var (
		product *model.Product
		before  decimal.Decimal
	)
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		locked, err := s.repo.FindByIDForUpdate(txCtx, productID)
		if err != nil {
			return lookupErr(err, "product", id)
		}
		before = locked.Quantity
		if err := s.apply(txCtx, locked, req); err != nil {
			return err
		}
		if err := s.repo.Update(txCtx, locked); err != nil {
			return writeErr(err, "product", "name", locked.Name)
		}
		product = locked
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: actor, action: model.ActionUpdate, entityType: "product",
			entityID: locked.ID.String(), entityName: locked.Name,
			details: map[string]any{"request": req, "previous_quantity": before},
		})
	})
	if err != nil {
		return nil, err
	}

	res := s.toResponse(product)
	if !before.Equal(product.Quantity) {
		s.events.Publish(EventStockChanged, res)
	}
	return &res, nil
}

func (s *productService) DeleteProduct(ctx context.Context, actor, id string) error {
	product, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, product.ID); err != nil {
			return fmt.Errorf("failed to delete product: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: actor, action: model.ActionDelete, entityType: "product",
			entityID: product.ID.String(), entityName: product.Name,
		})
	})
}
