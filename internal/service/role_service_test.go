package service

import (
	"context"
	"testing"

	"bms/internal/access"
	"bms/internal/model"
	"bms/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newRoleFixture() (RoleService, *mockRoleRepository, *mockUserRepository) {
	roles := &mockRoleRepository{}
	users := &mockUserRepository{}
	return NewRoleService(roles, users, acceptingAudit(), &fakeTx{}), roles, users
}

func TestCreateRole(t *testing.T) {
	svc, roles, _ := newRoleFixture()
	roles.On("Create", mock.Anything, mock.AnythingOfType("*model.Role")).Return(nil).Once()

	res, err := svc.CreateRole(context.Background(), "", CreateRoleRequest{Name: " Cashier "})
	require.NoError(t, err)
	assert.Equal(t, "Cashier", res.Name)
	assert.Equal(t, access.Resolve("Viewer"), res.Permissions)

	_, err = svc.CreateRole(context.Background(), "", CreateRoleRequest{Name: "admin"})
	assert.ErrorIs(t, err, apperror.ErrAlreadyExists)

	roles.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)
	_, err = svc.CreateRole(context.Background(), "", CreateRoleRequest{Name: "Cashier"})
	assert.ErrorIs(t, err, apperror.ErrAlreadyExists)
}

func TestUpdateRole_SystemRoleCannotBeRenamed(t *testing.T) {
	svc, roles, _ := newRoleFixture()
	role := &model.Role{ID: uuid.New(), Name: "Admin", IsSystem: true}
	roles.On("FindByID", mock.Anything, role.ID).Return(role, nil)

	_, err := svc.UpdateRole(context.Background(), "", role.ID.String(), UpdateRoleRequest{Name: "Root"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	roles.On("Update", mock.Anything, role).Return(nil)
	res, err := svc.UpdateRole(context.Background(), "", role.ID.String(), UpdateRoleRequest{Name: "Admin", Description: "everything"})
	require.NoError(t, err)
	assert.Equal(t, "everything", res.Description)
}

func TestDeleteRole(t *testing.T) {
	svc, roles, users := newRoleFixture()
	system := &model.Role{ID: uuid.New(), Name: "Staff", IsSystem: true}
	busy := &model.Role{ID: uuid.New(), Name: "Cashier"}
	idle := &model.Role{ID: uuid.New(), Name: "Auditor"}
	roles.On("FindByID", mock.Anything, system.ID).Return(system, nil)
	roles.On("FindByID", mock.Anything, busy.ID).Return(busy, nil)
	roles.On("FindByID", mock.Anything, idle.ID).Return(idle, nil)
	users.On("CountByRole", mock.Anything, busy.ID).Return(int64(2), nil)
	users.On("CountByRole", mock.Anything, idle.ID).Return(int64(0), nil)
	roles.On("Delete", mock.Anything, idle.ID).Return(nil)

	assert.ErrorIs(t, svc.DeleteRole(context.Background(), "", system.ID.String()), apperror.ErrForbidden)
	assert.ErrorIs(t, svc.DeleteRole(context.Background(), "", busy.ID.String()), apperror.ErrConflict)
	assert.NoError(t, svc.DeleteRole(context.Background(), "", idle.ID.String()))

	roles.AssertNumberOfCalls(t, "Delete", 1)
}

func TestDeleteRole_NotFound(t *testing.T) {
	svc, roles, _ := newRoleFixture()
	id := uuid.New()
	roles.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	assert.ErrorIs(t, svc.DeleteRole(context.Background(), "", id.String()), apperror.ErrNotFound)
}

func TestResolvePermissions(t *testing.T) {
	svc, _, _ := newRoleFixture()

	res := svc.ResolvePermissions("manager")
	assert.True(t, res.Builtin)
	assert.Equal(t, []access.Action{access.ActionCreate, access.ActionRead, access.ActionUpdate}, res.Actions)

	res = svc.ResolvePermissions("Cashier")
	assert.False(t, res.Builtin)
	assert.Equal(t, []access.Action{access.ActionRead}, res.Actions)
}
