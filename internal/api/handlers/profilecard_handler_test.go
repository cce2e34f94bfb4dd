package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bizlink/directory-backend/internal/api/handlers"
	"github.com/bizlink/directory-backend/internal/application/services"
	apperrors "github.com/bizlink/directory-backend/pkg/errors"
)

func newProfileCardHandler(repo *MockBusinessRepository) *handlers.ProfileCardHandler {
	return handlers.NewProfileCardHandler(
		services.NewBusinessService(repo),
		"https://directory.example.com",
	)
}

func TestGetQRCode_ReturnsPNG(t *testing.T) {
	repo := new(MockBusinessRepository)
	repo.On("GetByID", mock.Anything, "1").Return(seedDirectory()[0], nil)

	req := httptest.NewRequest(http.MethodGet, "/api/businesses/1/qr", nil)
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()

	newProfileCardHandler(repo).GetQRCode(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	// PNG signature
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, rec.Body.Bytes()[:4])
}

func TestGetQRCode_UnknownBusinessIs404(t *testing.T) {
	repo := new(MockBusinessRepository)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.NewNotFoundError("business not found"))

	req := httptest.NewRequest(http.MethodGet, "/api/businesses/missing/qr", nil)
	req.SetPathValue("id", "missing")
	rec := httptest.NewRecorder()

	newProfileCardHandler(repo).GetQRCode(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
