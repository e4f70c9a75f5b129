package service

import (
	"context"
	"testing"
	"time"

	"bms/internal/model"
	"bms/internal/pricing"
	"bms/pkg/apperror"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func decEq(want string) any {
	return mock.MatchedBy(func(got decimal.Decimal) bool { return got.Equal(dec(want)) })
}

type saleFixture struct {
	sales         *mockSaleRepository
	products      *mockProductRepository
	prices        *mockDualPricingRepository
	customerTypes *mockCatalogRepository[model.CustomerType]
	outlets       *mockOutletRepository
	audit         *mockAuditRepository
	events        *mockPublisher
	tx            *fakeTx
	svc           *saleService

	outlet    *model.Outlet
	product   *model.Product
	retail    *model.CustomerType
	wholesale *model.CustomerType
}

func newSaleFixture(t *testing.T) *saleFixture {
	t.Helper()
	f := &saleFixture{
		sales:         &mockSaleRepository{},
		products:      &mockProductRepository{},
		prices:        &mockDualPricingRepository{},
		customerTypes: &mockCatalogRepository[model.CustomerType]{},
		outlets:       &mockOutletRepository{},
		audit:         acceptingAudit(),
		events:        &mockPublisher{},
		tx:            &fakeTx{},
	}
	f.svc = NewSaleService(f.sales, f.products, f.prices, f.customerTypes, f.outlets, f.audit, f.tx, f.events).(*saleService)
	f.svc.now = func() time.Time { return time.Date(2024, 3, 9, 15, 4, 5, 0, time.UTC) }

	f.outlet = &model.Outlet{ID: uuid.New(), Name: "Central", Status: model.StatusActive}
	f.product = &model.Product{ID: uuid.New(), Name: "Rice 5kg", OutletID: f.outlet.ID, Quantity: dec("10"), Status: model.StatusActive}
	f.retail = &model.CustomerType{CatalogEntry: model.CatalogEntry{ID: uuid.New(), Name: "Walk-in", Status: model.StatusActive}}
	f.wholesale = &model.CustomerType{CatalogEntry: model.CatalogEntry{ID: uuid.New(), Name: "Wholesale", Status: model.StatusActive}}

	f.outlets.On("FindByID", mock.Anything, f.outlet.ID).Return(f.outlet, nil)
	f.products.On("FindByIDForUpdate", mock.Anything, f.product.ID).Return(f.product, nil)
	f.customerTypes.On("FindByID", mock.Anything, f.retail.ID).Return(f.retail, nil)
	f.customerTypes.On("FindByID", mock.Anything, f.wholesale.ID).Return(f.wholesale, nil)
	f.prices.On("FindByProductOutlet", mock.Anything, f.product.ID, f.outlet.ID).Return(&model.DualPricing{
		ID:             uuid.New(),
		ProductID:      f.product.ID,
		OutletID:       f.outlet.ID,
		RetailPrice:    dec("12.50"),
		WholesalePrice: dec("10"),
		Status:         model.StatusActive,
	}, nil)
	return f
}

func (f *saleFixture) request(customerType *model.CustomerType, qty string) CreateSaleRequest {
	return CreateSaleRequest{
		CustomerName: " Ana ",
		OutletID:     f.outlet.ID.String(),
		Items: []SaleItemRequest{{
			ProductID:      f.product.ID.String(),
			CustomerTypeID: customerType.ID.String(),
			Quantity:       dec(qty),
		}},
	}
}

func TestCreateSale_RetailTier(t *testing.T) {
	f := newSaleFixture(t)
	f.sales.On("CountByPrefix", mock.Anything, "INV-20240309-").Return(int64(4), nil)
	f.products.On("UpdateQuantity", mock.Anything, f.product.ID, decEq("7")).Return(nil)
	f.sales.On("Create", mock.Anything, mock.AnythingOfType("*model.Sale")).Return(nil)
	f.events.On("Publish", EventSaleCreated, mock.Anything).Return()
	f.events.On("Publish", EventStockChanged, mock.Anything).Return()

	sale, err := f.svc.CreateSale(context.Background(), uuid.NewString(), f.request(f.retail, "3"))
	require.NoError(t, err)

	assert.Equal(t, "INV-20240309-00005", sale.TransactionNo)
	assert.Equal(t, "Ana", sale.CustomerName)
	require.Len(t, sale.Items, 1)
	assert.Equal(t, pricing.TierRetail, sale.Items[0].PriceTier)
	assert.True(t, dec("12.50").Equal(sale.Items[0].UnitPrice))
	assert.True(t, dec("37.5").Equal(sale.Total), "total %s", sale.Total)
	assert.Equal(t, 1, f.tx.calls)

	f.products.AssertExpectations(t)
	f.events.AssertNumberOfCalls(t, "Publish", 2)
}

func TestCreateSale_WholesaleTier(t *testing.T) {
	f := newSaleFixture(t)
	f.sales.On("CountByPrefix", mock.Anything, mock.Anything).Return(int64(0), nil)
	f.products.On("UpdateQuantity", mock.Anything, f.product.ID, decEq("0")).Return(nil)
	f.sales.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.events.On("Publish", mock.Anything, mock.Anything).Return()

	sale, err := f.svc.CreateSale(context.Background(), "", f.request(f.wholesale, "10"))
	require.NoError(t, err)

	assert.Equal(t, "INV-20240309-00001", sale.TransactionNo)
	assert.Equal(t, pricing.TierWholesale, sale.Items[0].PriceTier)
	assert.True(t, dec("100").Equal(sale.Total))
	assert.Nil(t, sale.CreatedBy)
}

func TestCreateSale_InsufficientStock(t *testing.T) {
	f := newSaleFixture(t)
	f.sales.On("CountByPrefix", mock.Anything, mock.Anything).Return(int64(0), nil)

	_, err := f.svc.CreateSale(context.Background(), "", f.request(f.retail, "10.5"))
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Contains(t, err.Error(), "insufficient stock")

	f.products.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
	f.sales.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.events.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestCreateSale_ProductFromOtherOutlet(t *testing.T) {
	f := newSaleFixture(t)
	f.product.OutletID = uuid.New()
	f.sales.On("CountByPrefix", mock.Anything, mock.Anything).Return(int64(0), nil)

	_, err := f.svc.CreateSale(context.Background(), "", f.request(f.retail, "1"))
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
}

func TestCreateSale_MissingPrice(t *testing.T) {
	f := newSaleFixture(t)
	f.prices.ExpectedCalls = nil
	f.prices.On("FindByProductOutlet", mock.Anything, mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)
	f.sales.On("CountByPrefix", mock.Anything, mock.Anything).Return(int64(0), nil)

	_, err := f.svc.CreateSale(context.Background(), "", f.request(f.retail, "1"))
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
	assert.Contains(t, err.Error(), "no price")
}

func TestCreateSale_RejectsBadQuantity(t *testing.T) {
	f := newSaleFixture(t)
	f.sales.On("CountByPrefix", mock.Anything, mock.Anything).Return(int64(0), nil)

	_, err := f.svc.CreateSale(context.Background(), "", f.request(f.retail, "0"))
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)

	_, err = f.svc.CreateSale(context.Background(), "", CreateSaleRequest{OutletID: f.outlet.ID.String()})
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
}

func TestCreateSale_InactiveOutlet(t *testing.T) {
	f := newSaleFixture(t)
	f.outlet.Status = model.StatusInactive

	_, err := f.svc.CreateSale(context.Background(), "", f.request(f.retail, "1"))
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
}

func TestCreateSale_RetriesNumberCollision(t *testing.T) {
	f := newSaleFixture(t)
	f.sales.On("CountByPrefix", mock.Anything, mock.Anything).Return(int64(0), nil)
	f.products.On("UpdateQuantity", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.sales.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey).Once()
	f.sales.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	f.events.On("Publish", mock.Anything, mock.Anything).Return()

	sale, err := f.svc.CreateSale(context.Background(), "", f.request(f.retail, "1"))
	require.NoError(t, err)
	assert.NotNil(t, sale)
	assert.Equal(t, 2, f.tx.calls)
}

func TestCreateSale_GivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newSaleFixture(t)
	f.sales.On("CountByPrefix", mock.Anything, mock.Anything).Return(int64(0), nil)
	f.products.On("UpdateQuantity", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.sales.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

	_, err := f.svc.CreateSale(context.Background(), "", f.request(f.retail, "1"))
	assert.ErrorIs(t, err, apperror.ErrConflict)
	assert.Equal(t, maxNumberAttempts, f.tx.calls)
}

func TestGetSale_NotFound(t *testing.T) {
	f := newSaleFixture(t)
	id := uuid.New()
	f.sales.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.GetSale(context.Background(), id.String())
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = f.svc.GetSale(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
}
