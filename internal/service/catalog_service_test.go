package service

import (
	"context"
	"net/http"
	"testing"

	"bms/internal/model"
	"bms/pkg/apperror"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDepartmentService() (CatalogService[model.Department], *mockCatalogRepository[model.Department], *fakeTx) {
	repo := &mockCatalogRepository[model.Department]{}
	tx := &fakeTx{}
	return NewCatalogService[model.Department]("department", repo, acceptingAudit(), tx), repo, tx
}

func TestCatalogService_CreateTrimsAndDefaultsStatus(t *testing.T) {
	svc, repo, tx := newDepartmentService()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(d *model.Department) bool {
		return d.Name == "Finance" && d.Status == model.StatusActive
	})).Return(nil)

	got, err := svc.Create(context.Background(), uuid.NewString(), CatalogRequest{Name: "  Finance "})
	require.NoError(t, err)
	assert.Equal(t, "Finance", got.Name)
	assert.Equal(t, 1, tx.calls)
}

func TestCatalogService_CreateRejectsBadInput(t *testing.T) {
	svc, repo, _ := newDepartmentService()

	_, err := svc.Create(context.Background(), "", CatalogRequest{Name: "   "})
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)

	_, err = svc.Create(context.Background(), "", CatalogRequest{Name: "Ops", Status: "Archived"})
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCatalogService_DuplicateName(t *testing.T) {
	svc, repo, _ := newDepartmentService()
	repo.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrDuplicatedKey)

	_, err := svc.Create(context.Background(), "", CatalogRequest{Name: "Finance", Status: model.StatusActive})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apperror.HTTPStatus(err))
}

func TestCatalogService_UpdateAndDelete(t *testing.T) {
	svc, repo, _ := newDepartmentService()
	id := uuid.New()
	existing := &model.Department{CatalogEntry: model.CatalogEntry{ID: id, Name: "HR", Status: model.StatusActive}}
	repo.On("FindByID", mock.Anything, id).Return(existing, nil)
	repo.On("Update", mock.Anything, existing).Return(nil)
	repo.On("Delete", mock.Anything, id).Return(nil)

	got, err := svc.Update(context.Background(), "", id.String(), CatalogRequest{Name: "People", Status: model.StatusInactive})
	require.NoError(t, err)
	assert.Equal(t, "People", got.Name)
	assert.Equal(t, model.StatusInactive, got.Status)

	require.NoError(t, svc.Delete(context.Background(), "", id.String()))
	repo.AssertExpectations(t)
}

func TestCatalogService_GetUnknown(t *testing.T) {
	svc, repo, _ := newDepartmentService()
	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(context.Background(), id.String())
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	_, err = svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, apperror.ErrInvalidArgument)
}
