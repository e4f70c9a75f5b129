package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bms/internal/model"
	"bms/internal/pricing"
	"bms/internal/repository"
	"bms/pkg/apperror"
	"bms/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// maxNumberAttempts bounds retries when two sales race for the same transaction number.
const maxNumberAttempts = 3

type SaleItemRequest struct {
	ProductID      string          `json:"product_id" binding:"required,uuid"`
	CustomerTypeID string          `json:"customer_type_id" binding:"required,uuid"`
	Quantity       decimal.Decimal `json:"quantity"`
}

type CreateSaleRequest struct {
	CustomerName string            `json:"customer_name" binding:"max=200"`
	Contact      string            `json:"contact" binding:"max=50"`
	OutletID     string            `json:"outlet_id" binding:"required,uuid"`
	Items        []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
}

type SaleService interface {
	CreateSale(ctx context.Context, actor string, req CreateSaleRequest) (*model.Sale, error)
	GetSale(ctx context.Context, id string) (*model.Sale, error)
	ListSales(ctx context.Context, q repository.SaleQuery) (*pagination.Page[model.Sale], error)
}

type saleService struct {
	sales         repository.SaleRepository
	products      repository.ProductRepository
	prices        repository.DualPricingRepository
	customerTypes repository.CatalogRepository[model.CustomerType]
	outlets       repository.OutletRepository
	auditRepo     repository.AuditRepository
	txManager     repository.TransactionManager
	events        EventPublisher
	now           func() time.Time
}

func NewSaleService(
	sales repository.SaleRepository,
	products repository.ProductRepository,
	prices repository.DualPricingRepository,
	customerTypes repository.CatalogRepository[model.CustomerType],
	outlets repository.OutletRepository,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	events EventPublisher,
) SaleService {
	return &saleService{
		sales:         sales,
		products:      products,
		prices:        prices,
		customerTypes: customerTypes,
		outlets:       outlets,
		auditRepo:     auditRepo,
		txManager:     txManager,
		events:        publisherOrDiscard(events),
		now:           time.Now,
	}
}

// stockChange is published once per product touched by a sale.
type stockChange struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  decimal.Decimal `json:"quantity"`
}

func (s *saleService) CreateSale(ctx context.Context, actor string, req CreateSaleRequest) (*model.Sale, error) {
	if len(req.Items) == 0 {
		return nil, apperror.InvalidArgument("a sale needs at least one item")
	}
	outletID, err := parseID(req.OutletID, "outlet")
	if err != nil {
		return nil, err
	}

	var (
		sale    *model.Sale
		changes map[uuid.UUID]stockChange
	)
	for attempt := 1; ; attempt++ {
		sale, changes = nil, make(map[uuid.UUID]stockChange)
		err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
			var txErr error
			sale, txErr = s.record(txCtx, actor, outletID, req, changes)
			return txErr
		})
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) || attempt == maxNumberAttempts {
			break
		}
	}
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperror.Conflict("could not allocate a transaction number, please retry")
		}
		return nil, err
	}

	s.events.Publish(EventSaleCreated, sale)
	for _, c := range changes {
		s.events.Publish(EventStockChanged, c)
	}
	return sale, nil
}

// record prices every line, decrements stock under row locks and stores the sale.
// It must run inside a transaction.
func (s *saleService) record(ctx context.Context, actor string, outletID uuid.UUID, req CreateSaleRequest, changes map[uuid.UUID]stockChange) (*model.Sale, error) {
	outlet, err := s.outlets.FindByID(ctx, outletID)
	if err != nil {
		return nil, lookupErr(err, "outlet", req.OutletID)
	}
	if outlet.Status == model.StatusInactive {
		return nil, apperror.InvalidArgument("outlet %s is inactive", outlet.Name)
	}

	number, err := s.nextTransactionNo(ctx)
	if err != nil {
		return nil, err
	}

	sale := &model.Sale{
		TransactionNo: number,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		Contact:       strings.TrimSpace(req.Contact),
		OutletID:      outlet.ID,
		CreatedBy:     actorID(actor),
		Total:         decimal.Zero,
	}

	for i, line := range req.Items {
		item, product, err := s.priceLine(ctx, outlet, i, line)
		if err != nil {
			return nil, err
		}

		if product.Quantity.LessThan(item.Quantity) {
			return nil, apperror.Conflict(fmt.Sprintf("insufficient stock for %s: %s available, %s requested",
				product.Name, product.Quantity, item.Quantity))
		}
		product.Quantity = product.Quantity.Sub(item.Quantity)
		if err := s.products.UpdateQuantity(ctx, product.ID, product.Quantity); err != nil {
			return nil, fmt.Errorf("failed to update stock: %w", err)
		}
		changes[product.ID] = stockChange{ProductID: product.ID.String(), Name: product.Name, Quantity: product.Quantity}

		sale.Items = append(sale.Items, item)
		sale.Total = sale.Total.Add(item.LineTotal)
	}

	if err := s.sales.Create(ctx, sale); err != nil {
		return nil, err
	}
	sale.Outlet = outlet

	err = writeAudit(ctx, s.auditRepo, auditEntry{
		userID: actor, action: model.ActionCreateSale, entityType: "sale",
		entityID: sale.ID.String(), entityName: sale.TransactionNo,
		details: map[string]any{"outlet": outlet.Name, "total": sale.Total, "lines": len(sale.Items)},
	})
	if err != nil {
		return nil, err
	}
	return sale, nil
}

// priceLine resolves one request line to a priced SaleItem and the locked product row.
func (s *saleService) priceLine(ctx context.Context, outlet *model.Outlet, idx int, line SaleItemRequest) (model.SaleItem, *model.Product, error) {
	if !line.Quantity.IsPositive() {
		return model.SaleItem{}, nil, apperror.InvalidArgument("item %d: quantity must be greater than 0", idx+1)
	}
	productID, err := parseID(line.ProductID, "product")
	if err != nil {
		return model.SaleItem{}, nil, err
	}
	customerTypeID, err := parseID(line.CustomerTypeID, "customer type")
	if err != nil {
		return model.SaleItem{}, nil, err
	}

	product, err := s.products.FindByIDForUpdate(ctx, productID)
	if err != nil {
		return model.SaleItem{}, nil, lookupErr(err, "product", line.ProductID)
	}
	if product.Status == model.StatusInactive {
		return model.SaleItem{}, nil, apperror.InvalidArgument("product %s is inactive", product.Name)
	}
	if product.OutletID != outlet.ID {
		return model.SaleItem{}, nil, apperror.InvalidArgument("product %s is not stocked at outlet %s", product.Name, outlet.Name)
	}

	customerType, err := s.customerTypes.FindByID(ctx, customerTypeID)
	if err != nil {
		return model.SaleItem{}, nil, lookupErr(err, "customer type", line.CustomerTypeID)
	}

	price, err := s.prices.FindByProductOutlet(ctx, product.ID, outlet.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.SaleItem{}, nil, apperror.InvalidArgument("product %s has no price at outlet %s", product.Name, outlet.Name)
		}
		return model.SaleItem{}, nil, fmt.Errorf("failed to load price: %w", err)
	}
	if price.Status == model.StatusInactive {
		return model.SaleItem{}, nil, apperror.InvalidArgument("price of %s at outlet %s is inactive", product.Name, outlet.Name)
	}

	wholesale := pricing.IsWholesale(customerType.Name)
	unit := pricing.UnitPrice(pricing.DualPrice{Retail: price.RetailPrice, Wholesale: price.WholesalePrice}, wholesale)

	return model.SaleItem{
		ProductID:      product.ID,
		CustomerTypeID: customerType.ID,
		Quantity:       line.Quantity,
		UnitPrice:      unit,
		LineTotal:      unit.Mul(line.Quantity),
		PriceTier:      pricing.Tier(customerType.Name),
	}, product, nil
}

// nextTransactionNo returns INV-YYYYMMDD-NNNNN, numbered per day.
func (s *saleService) nextTransactionNo(ctx context.Context) (string, error) {
	prefix := "INV-" + s.now().Format("20060102") + "-"
	count, err := s.sales.CountByPrefix(ctx, prefix)
	if err != nil {
		return "", fmt.Errorf("failed to count sales: %w", err)
	}
	return fmt.Sprintf("%s%05d", prefix, count+1), nil
}

func (s *saleService) GetSale(ctx context.Context, id string) (*model.Sale, error) {
	saleID, err := parseID(id, "sale")
	if err != nil {
		return nil, err
	}
	sale, err := s.sales.FindByID(ctx, saleID)
	if err != nil {
		return nil, lookupErr(err, "sale", id)
	}
	return sale, nil
}

func (s *saleService) ListSales(ctx context.Context, q repository.SaleQuery) (*pagination.Page[model.Sale], error) {
	rows, w, err := s.sales.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	return &pagination.Page[model.Sale]{Items: rows, Pagination: w}, nil
}
