package handler

import (
	"net/http"

	"bms/internal/access"
	"bms/internal/middleware"
	"bms/internal/repository"
	"bms/internal/service"
	"bms/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuditHandler struct {
	auditService service.AuditService
}

func NewAuditHandler(auditService service.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/audit-logs")
	group.Use(middleware.RequireRole(access.RoleAdmin, access.RoleManager))
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs retrieves a page of audit records, newest first
// @Summary      Get audit logs
// @Tags         audit
// @Security     BearerAuth
// @Produce      json
// @Param        page         query     int     false  "Page number"
// @Param        page_size    query     int     false  "Items per page"
// @Param        search       query     string  false  "Entity name contains"
// @Param        action       query     string  false  "Action filter"
// @Param        entity_type  query     string  false  "Entity type filter"
// @Success      200          {object}  response.Response{data=pagination.Page[service.AuditLogResponse]}
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	logs, err := h.auditService.GetAuditLogs(c.Request.Context(), repository.AuditQuery{
		ListQuery:  listQuery(c),
		Action:     c.Query("action"),
		EntityType: c.Query("entity_type"),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, logs))
}
