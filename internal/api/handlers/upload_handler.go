package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bizlink/directory-backend/internal/domain/providers"
)

// 5 MB ceiling for profile photos
const maxPhotoSize = 5 << 20

// UploadHandler handles profile-photo uploads
type UploadHandler struct {
	store     providers.FileStore
	keyPrefix string
}

func NewUploadHandler(store providers.FileStore, keyPrefix string) *UploadHandler {
	if keyPrefix == "" {
		keyPrefix = "business-photos"
	}
	return &UploadHandler{store: store, keyPrefix: strings.TrimSuffix(keyPrefix, "/")}
}

// UploadPhoto handles POST /api/upload. The request is a multipart form
// with the image under the "file" field; the response carries the public
// URL to store as the business profile photo.
func (h *UploadHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		respondWithError(w, http.StatusBadRequest, "file exceeds the 5 MB limit")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	if header.Size > maxPhotoSize {
		respondWithError(w, http.StatusBadRequest, "file exceeds the 5 MB limit")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "failed to read uploaded file")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		respondWithError(w, http.StatusBadRequest, "only image uploads are allowed")
		return
	}

	key := h.photoKey(header.Filename)
	url, err := h.store.Upload(r.Context(), key, contentType, data)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"url": url})
}

func (h *UploadHandler) photoKey(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("%s/%d-%s%s", h.keyPrefix, time.Now().Unix(), uuid.NewString()[:8], ext)
}
