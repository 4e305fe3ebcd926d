package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/codebyjv/PortaldeRastreio/internal/httpx"
	"github.com/codebyjv/PortaldeRastreio/internal/importer"
	"github.com/codebyjv/PortaldeRastreio/internal/middleware"
	"github.com/codebyjv/PortaldeRastreio/internal/services"

	"gorm.io/gorm"
)

type ImportHandler struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewImportHandler(db *gorm.DB, orders *services.OrderService) *ImportHandler {
	return &ImportHandler{DB: db, Orders: orders}
}

// Preview: POST /api/import/preview. Multipart form with an .xlsx "file".
// Parses the grid and validates every record against the current order-number
// set; nothing is written.
func (h *ImportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_multipart_form", nil)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", map[string]string{"file": "required"})
		return
	}
	defer file.Close()

	grid, err := importer.ReadGrid(file)
	if err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_spreadsheet", nil)
		return
	}
	records := importer.ParseGrid(grid)
	existing, err := h.Orders.ExistingOrderNumbers()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_validate_import", nil)
		return
	}
	records = importer.Validate(records, existing)

	valid := 0
	for _, rec := range records {
		if rec.Status == importer.StatusValid {
			valid++
		}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"records": records,
		"total":   len(records),
		"valid":   valid,
	})
}

// Commit: POST /api/import/commit. JSON body {"records": [...]} echoing the
// preview payload. Records are re-validated against a fresh snapshot before
// the sequential commit.
func (h *ImportHandler) Commit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Records []importer.PreviewRecord `json:"records"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if len(req.Records) == 0 {
		httpx.JSONError(w, http.StatusBadRequest, "no_records", nil)
		return
	}
	existing, err := h.Orders.ExistingOrderNumbers()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_commit_import", nil)
		return
	}
	records := importer.Validate(req.Records, existing)
	creator := h.Orders.NewImportCreator(actorEmail(h.DB, r))
	result := importer.Commit(records, creator)
	middleware.RecordOrderOperation("import", result.Errors == 0)
	httpx.JSON(w, http.StatusOK, result)
}
