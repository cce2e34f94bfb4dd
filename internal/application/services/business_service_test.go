package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bizlink/directory-backend/internal/application/services"
	"github.com/bizlink/directory-backend/internal/domain/entities"
	apperrors "github.com/bizlink/directory-backend/pkg/errors"
)

type mockBusinessRepository struct {
	mock.Mock
}

func (m *mockBusinessRepository) Create(ctx context.Context, business *entities.Business) error {
	args := m.Called(ctx, business)
	return args.Error(0)
}

func (m *mockBusinessRepository) GetAll(ctx context.Context) ([]*entities.Business, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Business), args.Error(1)
}

func (m *mockBusinessRepository) GetByID(ctx context.Context, id string) (*entities.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Business), args.Error(1)
}

func (m *mockBusinessRepository) GetByCity(ctx context.Context, city string) ([]*entities.Business, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Business), args.Error(1)
}

func (m *mockBusinessRepository) GetByCategory(ctx context.Context, category string) ([]*entities.Business, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Business), args.Error(1)
}

func (m *mockBusinessRepository) GetRecent(ctx context.Context, limit int) ([]*entities.Business, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Business), args.Error(1)
}

func (m *mockBusinessRepository) Update(ctx context.Context, business *entities.Business) error {
	args := m.Called(ctx, business)
	return args.Error(0)
}

func (m *mockBusinessRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func validBusiness() *entities.Business {
	return &entities.Business{
		Name:        "Crystal Clear Cleaning",
		Brief:       "Residential cleaning services",
		Description: "Full service cleaning for homes and small offices",
		Categories:  []string{"Services"},
		Addresses: []entities.Address{{
			Lines: []string{"12 Hill Road"},
			City:  "Mumbai",
		}},
	}
}

func TestBusinessService_Create_StampsIdentity(t *testing.T) {
	repo := new(mockBusinessRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Business")).Return(nil)

	svc := services.NewBusinessService(repo)
	identity := entities.UserIdentity{UID: "uid-42", Email: "owner@example.com"}

	created, err := svc.Create(context.Background(), validBusiness(), identity)

	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "uid-42", created.UserID)
	assert.Equal(t, "owner", created.CreatedBy)
	assert.Equal(t, "owner", created.UpdatedBy)
	repo.AssertExpectations(t)
}

func TestBusinessService_Create_RejectsInvalidPayload(t *testing.T) {
	repo := new(mockBusinessRepository)
	svc := services.NewBusinessService(repo)

	invalid := validBusiness()
	invalid.Name = "A"

	_, err := svc.Create(context.Background(), invalid, entities.UserIdentity{UID: "u"})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
	assert.Contains(t, err.Error(), "Name must be at least 2 characters")
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestBusinessService_Update_SkipsWriteWhenUnchanged(t *testing.T) {
	existing := validBusiness()
	existing.ID = "biz-1"
	existing.UpdatedBy = "original-author"

	repo := new(mockBusinessRepository)
	repo.On("GetByID", mock.Anything, "biz-1").Return(existing, nil)

	svc := services.NewBusinessService(repo)

	same := validBusiness()
	got, err := svc.Update(context.Background(), "biz-1", same, entities.UserIdentity{Email: "editor@example.com"})

	require.NoError(t, err)
	assert.Equal(t, "original-author", got.UpdatedBy)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestBusinessService_Update_StampsEditorOnChange(t *testing.T) {
	existing := validBusiness()
	existing.ID = "biz-1"
	existing.CreatedBy = "original-author"
	existing.UpdatedBy = "original-author"

	repo := new(mockBusinessRepository)
	repo.On("GetByID", mock.Anything, "biz-1").Return(existing, nil)
	repo.On("Update", mock.Anything, mock.AnythingOfType("*entities.Business")).Return(nil)

	svc := services.NewBusinessService(repo)

	changed := validBusiness()
	changed.Brief = "Commercial and residential cleaning"

	got, err := svc.Update(context.Background(), "biz-1", changed, entities.UserIdentity{Email: "editor@example.com"})

	require.NoError(t, err)
	assert.Equal(t, "Commercial and residential cleaning", got.Brief)
	assert.Equal(t, "original-author", got.CreatedBy)
	assert.Equal(t, "editor", got.UpdatedBy)
	repo.AssertExpectations(t)
}

func TestBusinessService_Update_NotFoundPassesThrough(t *testing.T) {
	repo := new(mockBusinessRepository)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.NewNotFoundError("business not found"))

	svc := services.NewBusinessService(repo)

	_, err := svc.Update(context.Background(), "missing", validBusiness(), entities.UserIdentity{})

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestBusinessService_GetByID_RequiresID(t *testing.T) {
	svc := services.NewBusinessService(new(mockBusinessRepository))
	_, err := svc.GetByID(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeValidation))
}

func TestBusinessService_Delete(t *testing.T) {
	repo := new(mockBusinessRepository)
	repo.On("Delete", mock.Anything, "biz-1").Return(nil)

	svc := services.NewBusinessService(repo)
	require.NoError(t, svc.Delete(context.Background(), "biz-1"))
	repo.AssertExpectations(t)
}
