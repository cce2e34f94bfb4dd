package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/bizlink/directory-backend/internal/application/services"
)

// ProfileCardHandler serves the shareable profile-card QR code
type ProfileCardHandler struct {
	businesses    *services.BusinessService
	publicBaseURL string
}

func NewProfileCardHandler(businesses *services.BusinessService, publicBaseURL string) *ProfileCardHandler {
	return &ProfileCardHandler{
		businesses:    businesses,
		publicBaseURL: publicBaseURL,
	}
}

// GetQRCode handles GET /api/businesses/{id}/qr, returning a PNG that
// encodes the public profile-card URL for the listing. Unknown ids are a
// 404 so stale QR links surface cleanly.
func (h *ProfileCardHandler) GetQRCode(w http.ResponseWriter, r *http.Request) {
	business, err := h.businesses.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	size := parseIntParam(r.URL.Query().Get("size"), 256)
	if size < 64 || size > 1024 {
		size = 256
	}

	target := fmt.Sprintf("%s/profilecard/%s", h.publicBaseURL, business.ID)
	png, err := qrcode.Encode(target, qrcode.Medium, size)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.Write(png)
}
