package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/bizlink/directory-backend/internal/api/middleware"
	"github.com/bizlink/directory-backend/internal/application/services"
	"github.com/bizlink/directory-backend/internal/domain/entities"
	apperrors "github.com/bizlink/directory-backend/pkg/errors"
)

// BusinessHandler handles business listing HTTP requests
type BusinessHandler struct {
	businesses *services.BusinessService
	search     *services.SearchService
}

// NewBusinessHandler creates a new business handler
func NewBusinessHandler(businesses *services.BusinessService, search *services.SearchService) *BusinessHandler {
	return &BusinessHandler{
		businesses: businesses,
		search:     search,
	}
}

// ListBusinesses handles GET /api/businesses with q, city, tags, page and
// pageSize query parameters, returning the filtered page plus facets.
func (h *BusinessHandler) ListBusinesses(w http.ResponseWriter, r *http.Request) {
	all, err := h.businesses.GetAll(r.Context())
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	query := r.URL.Query()
	state := services.SearchState{
		Query:    query.Get("q"),
		City:     query.Get("city"),
		Tags:     splitTags(query.Get("tags")),
		Page:     parseIntParam(query.Get("page"), 1),
		PageSize: parseIntParam(query.Get("pageSize"), 0),
	}

	respondWithJSON(w, http.StatusOK, h.search.Search(all, state))
}

// GetBusiness handles GET /api/businesses/{id}
func (h *BusinessHandler) GetBusiness(w http.ResponseWriter, r *http.Request) {
	business, err := h.businesses.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, business)
}

// RecentBusinesses handles GET /api/businesses/recent
func (h *BusinessHandler) RecentBusinesses(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r.URL.Query().Get("limit"), 0)

	businesses, err := h.businesses.GetRecent(r.Context(), limit)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"businesses": businesses,
		"count":      len(businesses),
	})
}

// CreateBusiness handles POST /api/businesses
func (h *BusinessHandler) CreateBusiness(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var business entities.Business
	if err := json.NewDecoder(r.Body).Decode(&business); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := h.businesses.Create(r.Context(), &business, identity)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

// UpdateBusiness handles PUT /api/businesses/{id}
func (h *BusinessHandler) UpdateBusiness(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	id := r.PathValue("id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "business ID is required")
		return
	}

	var business entities.Business
	if err := json.NewDecoder(r.Body).Decode(&business); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.businesses.Update(r.Context(), id, &business, identity)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

// DeleteBusiness handles DELETE /api/businesses/{id}
func (h *BusinessHandler) DeleteBusiness(w http.ResponseWriter, r *http.Request) {
	if err := h.businesses.Delete(r.Context(), r.PathValue("id")); err != nil {
		respondWithServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	var tags []string
	for _, tag := range strings.Split(raw, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func parseIntParam(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

func respondWithServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		switch appErr.Type {
		case apperrors.ErrorTypeNotFound:
			respondWithError(w, http.StatusNotFound, appErr.Message)
		case apperrors.ErrorTypeValidation:
			respondWithError(w, http.StatusBadRequest, appErr.Message)
		case apperrors.ErrorTypeConflict:
			respondWithError(w, http.StatusConflict, appErr.Message)
		case apperrors.ErrorTypeUnauthorized:
			respondWithError(w, http.StatusUnauthorized, appErr.Message)
		default:
			respondWithError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}
	respondWithError(w, http.StatusInternalServerError, "internal server error")
}
