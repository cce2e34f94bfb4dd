package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bizlink/directory-backend/internal/api/handlers"
)

type fakeFileStore struct {
	key         string
	contentType string
	data        []byte
	err         error
}

func (f *fakeFileStore) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	f.key, f.contentType, f.data = key, contentType, data
	if f.err != nil {
		return "", f.err
	}
	return "https://bucket.s3.amazonaws.com/" + key, nil
}

// minimal valid PNG header so content sniffing sees an image
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func multipartBodyWithFile(t *testing.T, field, filename, contentType string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="`+field+`"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func TestUploadPhoto_StoresImageAndReturnsURL(t *testing.T) {
	store := &fakeFileStore{}
	handler := handlers.NewUploadHandler(store, "")

	body, contentType := multipartBodyWithFile(t, "file", "logo.png", "image/png", pngBytes)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.UploadPhoto(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Contains(t, resp["url"], "business-photos/")
	assert.Contains(t, store.key, "business-photos/")
	assert.Contains(t, store.key, ".png")
	assert.Equal(t, "image/png", store.contentType)
}

func TestUploadPhoto_UsesConfiguredKeyPrefix(t *testing.T) {
	store := &fakeFileStore{}
	handler := handlers.NewUploadHandler(store, "tenant-a/media/")

	body, contentType := multipartBodyWithFile(t, "file", "logo.png", "image/png", pngBytes)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.UploadPhoto(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, strings.HasPrefix(store.key, "tenant-a/media/"), "key %q should carry the configured prefix", store.key)
	assert.NotContains(t, store.key, "//")
}

func TestUploadPhoto_RejectsNonImage(t *testing.T) {
	store := &fakeFileStore{}
	handler := handlers.NewUploadHandler(store, "")

	body, contentType := multipartBodyWithFile(t, "file", "report.pdf", "application/pdf", []byte("%PDF-1.4"))
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.UploadPhoto(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, store.key)
}

func TestUploadPhoto_RequiresFileField(t *testing.T) {
	handler := handlers.NewUploadHandler(&fakeFileStore{}, "")

	body, contentType := multipartBodyWithFile(t, "other", "logo.png", "image/png", pngBytes)
	req := httptest.NewRequest(http.MethodPost, "/api/upload", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	handler.UploadPhoto(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
