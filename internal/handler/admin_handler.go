package handler

import (
	"net/http"

	"refnet/internal/repository"

	"github.com/gin-gonic/gin"
)

// AdminHandler covers the operator surface: audit trail and the runtime
// analytics settings.
type AdminHandler struct {
	auditRepo   *repository.AuditLogRepository
	settingRepo *repository.SettingRepository
}

func NewAdminHandler(auditRepo *repository.AuditLogRepository, settingRepo *repository.SettingRepository) *AdminHandler {
	return &AdminHandler{auditRepo: auditRepo, settingRepo: settingRepo}
}

// AuditLogs lists privileged mutations, newest first.
// GET /admin/audit-logs
func (h *AdminHandler) AuditLogs(c *gin.Context) {
	limit, offset := pagination(c)
	logs, err := h.auditRepo.List(limit, offset)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable, please try again"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs, "total": len(logs)})
}

// GetSettings returns every tunable.
// GET /admin/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingRepo.GetAll()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable, please try again"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

// PutSettings upserts tunables (engagement thresholds, points weights).
// PUT /admin/settings
func (h *AdminHandler) PutSettings(c *gin.Context) {
	var req map[string]string
	if err := c.ShouldBindJSON(&req); err != nil || len(req) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected a key/value object"})
		return
	}
	for k, v := range req {
		if err := h.settingRepo.Set(k, v); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "temporarily unavailable, please try again"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
