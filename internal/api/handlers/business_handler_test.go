package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bizlink/directory-backend/internal/api/handlers"
	"github.com/bizlink/directory-backend/internal/api/middleware"
	"github.com/bizlink/directory-backend/internal/application/services"
	"github.com/bizlink/directory-backend/internal/domain/entities"
	apperrors "github.com/bizlink/directory-backend/pkg/errors"
)

type MockBusinessRepository struct {
	mock.Mock
}

func (m *MockBusinessRepository) Create(ctx context.Context, business *entities.Business) error {
	args := m.Called(ctx, business)
	return args.Error(0)
}

func (m *MockBusinessRepository) GetAll(ctx context.Context) ([]*entities.Business, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Business), args.Error(1)
}

func (m *MockBusinessRepository) GetByID(ctx context.Context, id string) (*entities.Business, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Business), args.Error(1)
}

func (m *MockBusinessRepository) GetByCity(ctx context.Context, city string) ([]*entities.Business, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Business), args.Error(1)
}

func (m *MockBusinessRepository) GetByCategory(ctx context.Context, category string) ([]*entities.Business, error) {
	args := m.Called(ctx, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Business), args.Error(1)
}

func (m *MockBusinessRepository) GetRecent(ctx context.Context, limit int) ([]*entities.Business, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Business), args.Error(1)
}

func (m *MockBusinessRepository) Update(ctx context.Context, business *entities.Business) error {
	args := m.Called(ctx, business)
	return args.Error(0)
}

func (m *MockBusinessRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func newBusinessHandler(repo *MockBusinessRepository) *handlers.BusinessHandler {
	return handlers.NewBusinessHandler(
		services.NewBusinessService(repo),
		services.NewSearchService(5),
	)
}

func seedDirectory() []*entities.Business {
	return []*entities.Business{
		{
			ID: "1", Name: "Acme Retail", Brief: "General store downtown",
			Categories: []string{"Retail"},
			Addresses:  []entities.Address{{City: "New York"}},
		},
		{
			ID: "2", Name: "Delta Cafe", Brief: "Coffee and light meals",
			Categories: []string{"Food", "Cafe"},
			Addresses:  []entities.Address{{City: "Rajkot"}},
		},
	}
}

func TestListBusinesses_ReturnsFilteredPageWithFacets(t *testing.T) {
	repo := new(MockBusinessRepository)
	repo.On("GetAll", mock.Anything).Return(seedDirectory(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/businesses?q=cafe&page=1&pageSize=10", nil)
	rec := httptest.NewRecorder()

	newBusinessHandler(repo).ListBusinesses(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result services.SearchResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	require.Len(t, result.Businesses, 1)
	assert.Equal(t, "Delta Cafe", result.Businesses[0].Name)
	assert.Equal(t, 1, result.TotalResults)
	assert.ElementsMatch(t, []string{"New York", "Rajkot"}, result.AvailableCities)
}

func TestGetBusiness_NotFound(t *testing.T) {
	repo := new(MockBusinessRepository)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.NewNotFoundError("business not found"))

	req := httptest.NewRequest(http.MethodGet, "/api/businesses/missing", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()

	newBusinessHandler(repo).GetBusiness(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "business not found", body["error"])
}

func TestGetBusiness_Found(t *testing.T) {
	repo := new(MockBusinessRepository)
	repo.On("GetByID", mock.Anything, "1").Return(seedDirectory()[0], nil)

	req := httptest.NewRequest(http.MethodGet, "/api/businesses/1", nil)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()

	newBusinessHandler(repo).GetBusiness(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got entities.Business
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "Acme Retail", got.Name)
}

func TestCreateBusiness_RequiresIdentity(t *testing.T) {
	repo := new(MockBusinessRepository)

	req := httptest.NewRequest(http.MethodPost, "/api/businesses", bytes.NewBufferString("{}"))
	rec := httptest.NewRecorder()

	newBusinessHandler(repo).CreateBusiness(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBusiness_StampsOwnerAndReturns201(t *testing.T) {
	repo := new(MockBusinessRepository)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*entities.Business")).Return(nil)

	payload := entities.Business{
		Name:        "Harbor View Restaurant",
		Brief:       "Seafood restaurant by the harbor",
		Description: "Family-run seafood restaurant serving fresh catch daily since 1998",
		Categories:  []string{"Restaurant"},
		Addresses:   []entities.Address{{Lines: []string{"12 Harbor Road"}, City: "Kochi"}},
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/businesses", bytes.NewReader(body))
	identity := entities.UserIdentity{UID: "uid-1", Email: "admin@example.com"}
	req = req.WithContext(middleware.WithIdentity(req.Context(), identity))
	rec := httptest.NewRecorder()

	newBusinessHandler(repo).CreateBusiness(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var created entities.Business
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "uid-1", created.UserID)
	assert.Equal(t, "admin", created.CreatedBy)
}

func TestCreateBusiness_InvalidPayloadIs400(t *testing.T) {
	repo := new(MockBusinessRepository)

	payload := entities.Business{Name: "X"}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/businesses", bytes.NewReader(body))
	req = req.WithContext(middleware.WithIdentity(req.Context(), entities.UserIdentity{UID: "u"}))
	rec := httptest.NewRecorder()

	newBusinessHandler(repo).CreateBusiness(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteBusiness_NoContent(t *testing.T) {
	repo := new(MockBusinessRepository)
	repo.On("Delete", mock.Anything, "1").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/businesses/1", nil)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()

	newBusinessHandler(repo).DeleteBusiness(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	repo.AssertExpectations(t)
}

func TestRecentBusinesses(t *testing.T) {
	repo := new(MockBusinessRepository)
	repo.On("GetRecent", mock.Anything, 3).Return(seedDirectory(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/businesses/recent?limit=3", nil)
	rec := httptest.NewRecorder()

	newBusinessHandler(repo).RecentBusinesses(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Businesses []entities.Business `json:"businesses"`
		Count      int                 `json:"count"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, 2, body.Count)
}
