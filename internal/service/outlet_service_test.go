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

func TestCreateOutlet(t *testing.T) {
	repo := &mockOutletRepository{}
	users := &mockUserRepository{}
	manager := &model.User{ID: uuid.New(), FullName: "Mai"}
	users.On("FindByID", mock.Anything, manager.ID).Return(manager, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Outlet")).Return(nil)
	tx := &fakeTx{}
	svc := NewOutletService(repo, users, acceptingAudit(), tx)

	outlet, err := svc.CreateOutlet(context.Background(), "", OutletRequest{
		Name: "  Central ", ManagerID: manager.ID.String(), Contact: " 0901 ", Status: model.StatusActive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Central", outlet.Name)
	assert.Equal(t, "0901", outlet.Contact)
	assert.Equal(t, manager, outlet.Manager)
	assert.Equal(t, 1, tx.calls)
}

func TestCreateOutlet_UnknownManager(t *testing.T) {
	repo := &mockOutletRepository{}
	users := &mockUserRepository{}
	managerID := uuid.New()
	users.On("FindByID", mock.Anything, managerID).Return(nil, gorm.ErrRecordNotFound)
	svc := NewOutletService(repo, users, acceptingAudit(), &fakeTx{})

	_, err := svc.CreateOutlet(context.Background(), "", OutletRequest{
		Name: "Central", ManagerID: managerID.String(), Contact: "1", Status: model.StatusActive,
	})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateOutlet_BadStatus(t *testing.T) {
	repo := &mockOutletRepository{}
	svc := NewOutletService(repo, &mockUserRepository{}, acceptingAudit(), &fakeTx{})

	_, err := svc.CreateOutlet(context.Background(), "", OutletRequest{
		Name: "Central", ManagerID: uuid.NewString(), Contact: "1", Status: "Closed",
	})
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
}

func TestDeleteOutlet(t *testing.T) {
	repo := &mockOutletRepository{}
	outlet := &model.Outlet{ID: uuid.New(), Name: "Central"}
	repo.On("FindByID", mock.Anything, outlet.ID).Return(outlet, nil)
	repo.On("Delete", mock.Anything, outlet.ID).Return(nil)
	svc := NewOutletService(repo, &mockUserRepository{}, acceptingAudit(), &fakeTx{})

	require.NoError(t, svc.DeleteOutlet(context.Background(), "", outlet.ID.String()))
	repo.AssertExpectations(t)
}
