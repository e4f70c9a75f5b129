package service

import (
	"context"
	"time"

	"bms/internal/model"
	"bms/internal/repository"
	"bms/pkg/pagination"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// ============================================================================
// Transaction manager and publisher
// ============================================================================

// fakeTx runs fn inline and counts the transactions it was asked to open.
type fakeTx struct {
	calls int
}

func (f *fakeTx) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(event string, data any) {
	m.Called(event, data)
}

// ============================================================================
// Repositories
// ============================================================================

type mockAuditRepository struct {
	mock.Mock
}

func (m *mockAuditRepository) Log(ctx context.Context, entry *model.AuditLog) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockAuditRepository) List(ctx context.Context, q repository.AuditQuery) ([]model.AuditLog, pagination.Window, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.AuditLog), args.Get(1).(pagination.Window), args.Error(2)
}

// acceptingAudit returns an audit repository that records every entry without failing.
func acceptingAudit() *mockAuditRepository {
	m := &mockAuditRepository{}
	m.On("Log", mock.Anything, mock.Anything).Return(nil)
	return m
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) FindByUserName(ctx context.Context, userName string) (*model.User, error) {
	args := m.Called(ctx, userName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepository) List(ctx context.Context, q repository.ListQuery) ([]model.User, pagination.Window, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.User), args.Get(1).(pagination.Window), args.Error(2)
}

func (m *mockUserRepository) Update(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUserRepository) CountByRole(ctx context.Context, roleID uuid.UUID) (int64, error) {
	args := m.Called(ctx, roleID)
	return args.Get(0).(int64), args.Error(1)
}

type mockRoleRepository struct {
	mock.Mock
}

func (m *mockRoleRepository) Create(ctx context.Context, role *model.Role) error {
	return m.Called(ctx, role).Error(0)
}

func (m *mockRoleRepository) Update(ctx context.Context, role *model.Role) error {
	return m.Called(ctx, role).Error(0)
}

func (m *mockRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *mockRoleRepository) FindByName(ctx context.Context, name string) (*model.Role, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Role), args.Error(1)
}

func (m *mockRoleRepository) List(ctx context.Context, q repository.ListQuery) ([]model.Role, pagination.Window, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.Role), args.Get(1).(pagination.Window), args.Error(2)
}

type mockOutletRepository struct {
	mock.Mock
}

func (m *mockOutletRepository) Create(ctx context.Context, outlet *model.Outlet) error {
	return m.Called(ctx, outlet).Error(0)
}

func (m *mockOutletRepository) Update(ctx context.Context, outlet *model.Outlet) error {
	return m.Called(ctx, outlet).Error(0)
}

func (m *mockOutletRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockOutletRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Outlet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Outlet), args.Error(1)
}

func (m *mockOutletRepository) List(ctx context.Context, q repository.ListQuery) ([]model.Outlet, pagination.Window, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.Outlet), args.Get(1).(pagination.Window), args.Error(2)
}

type mockCatalogRepository[T any] struct {
	mock.Mock
}

func (m *mockCatalogRepository[T]) Create(ctx context.Context, entry *T) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockCatalogRepository[T]) Update(ctx context.Context, entry *T) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *mockCatalogRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockCatalogRepository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *mockCatalogRepository[T]) FindByName(ctx context.Context, name string) (*T, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*T), args.Error(1)
}

func (m *mockCatalogRepository[T]) List(ctx context.Context, q repository.CatalogQuery) ([]T, pagination.Window, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]T), args.Get(1).(pagination.Window), args.Error(2)
}

type mockProductRepository struct {
	mock.Mock
}

func (m *mockProductRepository) Create(ctx context.Context, product *model.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepository) Update(ctx context.Context, product *model.Product) error {
	return m.Called(ctx, product).Error(0)
}

func (m *mockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *mockProductRepository) List(ctx context.Context, q repository.ProductQuery) ([]model.Product, pagination.Window, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.Product), args.Get(1).(pagination.Window), args.Error(2)
}

func (m *mockProductRepository) UpdateQuantity(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error {
	return m.Called(ctx, id, quantity).Error(0)
}

func (m *mockProductRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

type mockDualPricingRepository struct {
	mock.Mock
}

func (m *mockDualPricingRepository) Create(ctx context.Context, price *model.DualPricing) error {
	return m.Called(ctx, price).Error(0)
}

func (m *mockDualPricingRepository) Update(ctx context.Context, price *model.DualPricing) error {
	return m.Called(ctx, price).Error(0)
}

func (m *mockDualPricingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockDualPricingRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.DualPricing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DualPricing), args.Error(1)
}

func (m *mockDualPricingRepository) FindByProductOutlet(ctx context.Context, productID, outletID uuid.UUID) (*model.DualPricing, error) {
	args := m.Called(ctx, productID, outletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DualPricing), args.Error(1)
}

func (m *mockDualPricingRepository) List(ctx context.Context, q repository.DualPricingQuery) ([]model.DualPricing, pagination.Window, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.DualPricing), args.Get(1).(pagination.Window), args.Error(2)
}

type mockSaleRepository struct {
	mock.Mock
}

func (m *mockSaleRepository) Create(ctx context.Context, sale *model.Sale) error {
	return m.Called(ctx, sale).Error(0)
}

func (m *mockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Sale), args.Error(1)
}

func (m *mockSaleRepository) List(ctx context.Context, q repository.SaleQuery) ([]model.Sale, pagination.Window, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.Sale), args.Get(1).(pagination.Window), args.Error(2)
}

func (m *mockSaleRepository) CountByPrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

type mockEmployeeRepository struct {
	mock.Mock
}

func (m *mockEmployeeRepository) Create(ctx context.Context, employee *model.Employee) error {
	return m.Called(ctx, employee).Error(0)
}

func (m *mockEmployeeRepository) Update(ctx context.Context, employee *model.Employee) error {
	return m.Called(ctx, employee).Error(0)
}

func (m *mockEmployeeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockEmployeeRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Employee), args.Error(1)
}

func (m *mockEmployeeRepository) List(ctx context.Context, q repository.EmployeeQuery) ([]model.Employee, pagination.Window, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.Employee), args.Get(1).(pagination.Window), args.Error(2)
}

type mockAttendanceRepository struct {
	mock.Mock
}

func (m *mockAttendanceRepository) Create(ctx context.Context, record *model.Attendance) error {
	return m.Called(ctx, record).Error(0)
}

func (m *mockAttendanceRepository) Update(ctx context.Context, record *model.Attendance) error {
	return m.Called(ctx, record).Error(0)
}

func (m *mockAttendanceRepository) FindOpenForUpdate(ctx context.Context, employeeID uuid.UUID) (*model.Attendance, error) {
	args := m.Called(ctx, employeeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Attendance), args.Error(1)
}

func (m *mockAttendanceRepository) List(ctx context.Context, q repository.AttendanceQuery) ([]model.Attendance, pagination.Window, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.Attendance), args.Get(1).(pagination.Window), args.Error(2)
}

type mockAnalyticsRepository struct {
	mock.Mock
}

func (m *mockAnalyticsRepository) SalesTotals(ctx context.Context, from, to time.Time) (decimal.Decimal, int64, decimal.Decimal, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).(decimal.Decimal), args.Get(1).(int64), args.Get(2).(decimal.Decimal), args.Error(3)
}

func (m *mockAnalyticsRepository) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]model.ProductRanking, error) {
	args := m.Called(ctx, from, to, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ProductRanking), args.Error(1)
}

func (m *mockAnalyticsRepository) EntityCounts(ctx context.Context, lowStockThreshold decimal.Decimal) (model.EntityCounts, error) {
	args := m.Called(ctx, lowStockThreshold)
	return args.Get(0).(model.EntityCounts), args.Error(1)
}
