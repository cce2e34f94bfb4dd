package handlers

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bizlink/directory-backend/internal/api/middleware"
	"github.com/bizlink/directory-backend/internal/application/services"
)

// 10 MB ceiling for uploaded workbooks
const maxWorkbookSize = 10 << 20

// ImportHandler handles bulk-import HTTP requests
type ImportHandler struct {
	imports *services.ImportService
}

func NewImportHandler(imports *services.ImportService) *ImportHandler {
	return &ImportHandler{imports: imports}
}

// ImportBusinesses handles POST /api/businesses/import. The request is a
// multipart form with the workbook under the "file" field. A report with
// row errors comes back as 422; a clean batch returns the settled counts.
func (h *ImportHandler) ImportBusinesses(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxWorkbookSize)
	if err := r.ParseMultipartForm(maxWorkbookSize); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		respondWithError(w, http.StatusBadRequest, "please upload an Excel (.xlsx) file")
		return
	}

	report, err := h.imports.Import(r.Context(), file, identity)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	if len(report.Errors) > 0 {
		respondWithJSON(w, http.StatusUnprocessableEntity, report)
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}

// DownloadSample handles GET /api/businesses/import/sample, streaming the
// example workbook.
func (h *ImportHandler) DownloadSample(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="business_upload_sample.xlsx"`)

	if err := h.imports.SampleWorkbook(w); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to generate sample workbook")
	}
}
