package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/codebyjv/PortaldeRastreio/internal/httpx"
	"github.com/codebyjv/PortaldeRastreio/internal/models"
	"github.com/codebyjv/PortaldeRastreio/internal/services"
	"github.com/codebyjv/PortaldeRastreio/internal/validation"

	"gorm.io/gorm"
)

// maxUploadBytes caps a single document upload at 25 MiB.
const maxUploadBytes = 25 << 20

type DocumentHandler struct {
	DB  *gorm.DB
	Svc *services.DocumentService
}

func NewDocumentHandler(db *gorm.DB, svc *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{DB: db, Svc: svc}
}

// List: GET /api/documents?order_id=. The synthetic manual is injected first.
func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	orderID := r.URL.Query().Get("order_id")
	if orderID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_order_id", nil)
		return
	}
	includeArchived, _ := strconv.ParseBool(r.URL.Query().Get("include_archived"))
	docs, err := h.Svc.ForOrder(orderID, includeArchived)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_documents", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": docs, "total": len(docs)})
}

// Upload: POST /api/documents/upload. Multipart form with "file", "order_id"
// and "category" fields.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_multipart_form", nil)
		return
	}
	orderID := r.FormValue("order_id")
	category := r.FormValue("category")

	v := validation.Violations{}
	validation.Required("order_id", orderID, v)
	validation.OneOf("category", category, models.DocumentCategories, v)
	file, header, err := r.FormFile("file")
	if err != nil {
		v["file"] = "required"
	} else {
		defer file.Close()
	}
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}

	var order models.Order
	if err := h.DB.Select("id").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "order_not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_upload_document", nil)
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	doc, err := h.Svc.Upload(orderID, category, header.Filename, mimeType, header.Size, file, actorEmail(h.DB, r))
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_upload_document", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, doc)
}

// Archive: POST /api/documents/archive?id=. Body: {"archived": bool}.
func (h *DocumentHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" || id == "manual" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	archived := true
	if raw := r.URL.Query().Get("archived"); raw != "" {
		archived, _ = strconv.ParseBool(raw)
	}
	if err := h.Svc.SetArchived(id, archived, actorEmail(h.DB, r)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_archive_document", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"archived": archived})
}

// Delete: POST /api/documents/delete?id=. The synthetic manual cannot be
// deleted.
func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" || id == "manual" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	if err := h.Svc.Delete(id, actorEmail(h.DB, r)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_delete_document", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}
