package handlers

import (
	"net/http"
	"time"

	"github.com/codebyjv/PortaldeRastreio/internal/httpx"
	"github.com/codebyjv/PortaldeRastreio/internal/models"
	"github.com/codebyjv/PortaldeRastreio/internal/notify"

	"gorm.io/gorm"
)

type NotificationHandler struct {
	DB     *gorm.DB
	Engine *notify.Engine
}

func NewNotificationHandler(db *gorm.DB, engine *notify.Engine) *NotificationHandler {
	return &NotificationHandler{DB: db, Engine: engine}
}

// Unread: GET /api/notifications/unread
func (h *NotificationHandler) Unread(w http.ResponseWriter, r *http.Request) {
	var items []models.Notification
	err := h.DB.Where("is_read = ?", false).Order("created_at desc").Find(&items).Error
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_notifications", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": items, "total": len(items)})
}

// MarkRead: POST /api/notifications/read?id=
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "missing_id", nil)
		return
	}
	res := h.DB.Model(&models.Notification{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_mark_read", nil)
		return
	}
	if res.RowsAffected == 0 {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// MarkAllRead: POST /api/notifications/read-all
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	res := h.DB.Model(&models.Notification{}).Where("is_read = ?", false).Update("is_read", true)
	if res.Error != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_mark_read", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int64{"updated": res.RowsAffected})
}

// Check: POST /api/notifications/check. Runs every rule against the current
// clock and returns whatever was created.
func (h *NotificationHandler) Check(w http.ResponseWriter, r *http.Request) {
	created, err := h.Engine.Run(time.Now())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_check_notifications", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"created": created, "total": len(created)})
}
