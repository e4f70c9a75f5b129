package service

import (
	"context"
	"testing"

	"bms/internal/model"
	"bms/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type pricingFixture struct {
	repo     *mockDualPricingRepository
	products *mockProductRepository
	outlets  *mockOutletRepository
	audit    *mockAuditRepository
	svc      DualPricingService

	product *model.Product
	outlet  *model.Outlet
}

func newPricingFixture() *pricingFixture {
	f := &pricingFixture{
		repo:     &mockDualPricingRepository{},
		products: &mockProductRepository{},
		outlets:  &mockOutletRepository{},
		audit:    acceptingAudit(),
	}
	f.svc = NewDualPricingService(f.repo, f.products, f.outlets, f.audit, &fakeTx{})
	f.outlet = &model.Outlet{ID: uuid.New(), Name: "Central"}
	f.product = &model.Product{ID: uuid.New(), Name: "Rice 5kg", OutletID: f.outlet.ID}
	f.products.On("FindByID", mock.Anything, f.product.ID).Return(f.product, nil)
	f.outlets.On("FindByID", mock.Anything, f.outlet.ID).Return(f.outlet, nil)
	return f
}

func (f *pricingFixture) request(retail, wholesale string) DualPricingRequest {
	return DualPricingRequest{
		ProductID:      f.product.ID.String(),
		OutletID:       f.outlet.ID.String(),
		RetailPrice:    dec(retail),
		WholesalePrice: dec(wholesale),
		Status:         model.StatusActive,
	}
}

func TestCreatePrice_ComputesMargin(t *testing.T) {
	f := newPricingFixture()
	f.repo.On("FindByProductOutlet", mock.Anything, f.product.ID, f.outlet.ID).Return(nil, gorm.ErrRecordNotFound)
	f.repo.On("Create", mock.Anything, mock.AnythingOfType("*model.DualPricing")).Return(nil)

	res, err := f.svc.CreatePrice(context.Background(), uuid.NewString(), f.request("100", "60"))
	require.NoError(t, err)
	assert.Equal(t, "40", res.MarginPercent.String())
	assert.Equal(t, "Rice 5kg", res.ProductName)
	assert.Equal(t, "Central", res.OutletName)
	f.audit.AssertNumberOfCalls(t, "Log", 1)
}

func TestCreatePrice_DuplicatePair(t *testing.T) {
	f := newPricingFixture()
	f.repo.On("FindByProductOutlet", mock.Anything, f.product.ID, f.outlet.ID).Return(&model.DualPricing{ID: uuid.New()}, nil)

	_, err := f.svc.CreatePrice(context.Background(), "", f.request("10", "8"))
	assert.ErrorIs(t, err, apperror.ErrAlreadyExists)
	assert.Equal(t, 409, apperror.HTTPStatus(err))
	f.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreatePrice_UniqueIndexRace(t *testing.T) {
	f := newPricingFixture()
	f.repo.On("FindByProductOutlet", mock.Anything, mock.Anything, mock.Anything).Return(nil, gorm.ErrRecordNotFound)
	f.repo.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

	_, err := f.svc.CreatePrice(context.Background(), "", f.request("10", "8"))
	assert.ErrorIs(t, err, apperror.ErrAlreadyExists)
}

func TestCreatePrice_NegativePrice(t *testing.T) {
	f := newPricingFixture()

	_, err := f.svc.CreatePrice(context.Background(), "", f.request("-1", "8"))
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
}

func TestUpdatePrice_SamePairIsAllowed(t *testing.T) {
	f := newPricingFixture()
	existing := &model.DualPricing{ID: uuid.New(), ProductID: f.product.ID, OutletID: f.outlet.ID, RetailPrice: dec("10"), WholesalePrice: dec("9")}
	f.repo.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	f.repo.On("FindByProductOutlet", mock.Anything, f.product.ID, f.outlet.ID).Return(existing, nil)
	f.repo.On("Update", mock.Anything, existing).Return(nil)

	res, err := f.svc.UpdatePrice(context.Background(), "", existing.ID.String(), f.request("3", "2"))
	require.NoError(t, err)
	assert.Equal(t, "33.3", res.MarginPercent.String())
	assert.True(t, dec("3").Equal(existing.RetailPrice))
}

func TestMargin(t *testing.T) {
	svc := NewDualPricingService(nil, nil, nil, nil, nil)

	res, err := svc.Margin(dec("3"), dec("1"))
	require.NoError(t, err)
	assert.Equal(t, "66.7", res.MarginPercent.String())

	res, err = svc.Margin(dec("0"), dec("5"))
	require.NoError(t, err)
	assert.True(t, res.MarginPercent.IsZero())

	_, err = svc.Margin(dec("10"), dec("-1"))
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
}
