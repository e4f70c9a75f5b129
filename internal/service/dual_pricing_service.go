package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bms/internal/model"
	"bms/internal/pricing"
	"bms/internal/repository"
	"bms/pkg/apperror"
	"bms/pkg/pagination"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type DualPricingRequest struct {
	ProductID      string          `json:"product_id" binding:"required,uuid"`
	OutletID       string          `json:"outlet_id" binding:"required,uuid"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
	Status         string          `json:"status" binding:"required,status"`
}

type DualPricingResponse struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name,omitempty"`
	OutletID       string          `json:"outlet_id"`
	OutletName     string          `json:"outlet_name,omitempty"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	RetailPrice    decimal.Decimal `json:"retail_price"`
	MarginPercent  decimal.Decimal `json:"margin_percent"`
	Status         string          `json:"status"`
	CreatedAt      string          `json:"created_at"`
	UpdatedAt      string          `json:"updated_at"`
}

type MarginResponse struct {
	RetailPrice    decimal.Decimal `json:"retail_price"`
	WholesalePrice decimal.Decimal `json:"wholesale_price"`
	MarginPercent  decimal.Decimal `json:"margin_percent"`
}

type DualPricingService interface {
	ListPrices(ctx context.Context, q repository.DualPricingQuery) (*pagination.Page[DualPricingResponse], error)
	GetPrice(ctx context.Context, id string) (*DualPricingResponse, error)
	CreatePrice(ctx context.Context, actor string, req DualPricingRequest) (*DualPricingResponse, error)
	UpdatePrice(ctx context.Context, actor, id string, req DualPricingRequest) (*DualPricingResponse, error)
	DeletePrice(ctx context.Context, actor, id string) error
	Margin(retail, wholesale decimal.Decimal) (*MarginResponse, error)
}

type dualPricingService struct {
	repo      repository.DualPricingRepository
	products  repository.ProductRepository
	outlets   repository.OutletRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewDualPricingService(
	repo repository.DualPricingRepository,
	products repository.ProductRepository,
	outlets repository.OutletRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
) DualPricingService {
	return &dualPricingService{repo: repo, products: products, outlets: outlets, auditRepo: auditRepo, txManager: txManager}
}

// toDualPricingResponse adds the margin. Stored prices are never negative, so the error is ignored.
func toDualPricingResponse(p *model.DualPricing) DualPricingResponse {
	margin, _ := pricing.MarginPercent(p.RetailPrice, p.WholesalePrice)
	res := DualPricingResponse{
		ID:             p.ID.String(),
		ProductID:      p.ProductID.String(),
		OutletID:       p.OutletID.String(),
		WholesalePrice: p.WholesalePrice,
		RetailPrice:    p.RetailPrice,
		MarginPercent:  margin,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      p.UpdatedAt.Format(time.RFC3339),
	}
	if p.Product != nil {
		res.ProductName = p.Product.Name
	}
	if p.Outlet != nil {
		res.OutletName = p.Outlet.Name
	}
	return res
}

func (s *dualPricingService) ListPrices(ctx context.Context, q repository.DualPricingQuery) (*pagination.Page[DualPricingResponse], error) {
	rows, w, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list dual pricing: %w", err)
	}
	return pagination.NewPage(rows, w, toDualPricingResponse), nil
}

func (s *dualPricingService) find(ctx context.Context, id string) (*model.DualPricing, error) {
	priceID, err := parseID(id, "dual pricing")
	if err != nil {
		return nil, err
	}
	price, err := s.repo.FindByID(ctx, priceID)
	if err != nil {
		return nil, lookupErr(err, "dual pricing", id)
	}
	return price, nil
}

func (s *dualPricingService) GetPrice(ctx context.Context, id string) (*DualPricingResponse, error) {
	price, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	res := toDualPricingResponse(price)
	return &res, nil
}

// apply validates req and copies it onto price. A product/outlet pair already
// priced by a different record is a conflict.
func (s *dualPricingService) apply(ctx context.Context, price *model.DualPricing, req DualPricingRequest) error {
	if err := pricing.ValidatePrices(req.RetailPrice, req.WholesalePrice); err != nil {
		return err
	}
	status := defaultStatus(req.Status)
	if err := validStatus(status); err != nil {
		return err
	}

	productID, err := parseID(req.ProductID, "product")
	if err != nil {
		return err
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return lookupErr(err, "product", req.ProductID)
	}
	outletID, err := parseID(req.OutletID, "outlet")
	if err != nil {
		return err
	}
	outlet, err := s.outlets.FindByID(ctx, outletID)
	if err != nil {
		return lookupErr(err, "outlet", req.OutletID)
	}

	existing, err := s.repo.FindByProductOutlet(ctx, productID, outletID)
	switch {
	case err == nil && existing.ID != price.ID:
		return apperror.AlreadyExists("dual pricing", "product/outlet", product.Name+" @ "+outlet.Name)
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("failed to check existing pricing: %w", err)
	}

	price.ProductID, price.Product = product.ID, product
	price.OutletID, price.Outlet = outlet.ID, outlet
	price.RetailPrice = req.RetailPrice
	price.WholesalePrice = req.WholesalePrice
	price.Status = status
	return nil
}

func (s *dualPricingService) CreatePrice(ctx context.Context, actor string, req DualPricingRequest) (*DualPricingResponse, error) {
	price := &model.DualPricing{}
	if err := s.apply(ctx, price, req); err != nil {
		return nil, err
	}

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, price); err != nil {
			return writeErr(err, "dual pricing", "product/outlet", req.ProductID+"/"+req.OutletID)
		}
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: actor, action: model.ActionCreate, entityType: "dual_pricing",
			entityID: price.ID.String(), entityName: price.Product.Name, details: req,
		})
	})
	if err != nil {
		return nil, err
	}
	res := toDualPricingResponse(price)
	return &res, nil
}

func (s *dualPricingService) UpdatePrice(ctx context.Context, actor, id string, req DualPricingRequest) (*DualPricingResponse, error) {
	price, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, price, req); err != nil {
		return nil, err
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, price); err != nil {
			return writeErr(err, "dual pricing", "product/outlet", req.ProductID+"/"+req.OutletID)
		}
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: actor, action: model.ActionUpdate, entityType: "dual_pricing",
			entityID: price.ID.String(), entityName: price.Product.Name, details: req,
		})
	})
	if err != nil {
		return nil, err
	}
	res := toDualPricingResponse(price)
	return &res, nil
}

func (s *dualPricingService) DeletePrice(ctx context.Context, actor, id string) error {
	price, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, price.ID); err != nil {
			return fmt.Errorf("failed to delete dual pricing: %w", err)
		}
		return writeAudit(txCtx, s.auditRepo, auditEntry{
			userID: actor, action: model.ActionDelete, entityType: "dual_pricing",
			entityID: price.ID.String(),
		})
	})
}

func (s *dualPricingService) Margin(retail, wholesale decimal.Decimal) (*MarginResponse, error) {
	margin, err := pricing.MarginPercent(retail, wholesale)
	if err != nil {
		return nil, err
	}
	return &MarginResponse{RetailPrice: retail, WholesalePrice: wholesale, MarginPercent: margin}, nil
}
