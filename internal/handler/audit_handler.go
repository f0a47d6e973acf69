package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/spms-api/internal/service"
	"github.com/noah-isme/spms-api/pkg/response"
)

// AuditHandler handles the audit trail endpoint.
type AuditHandler struct {
	service *service.AuditService
}

// NewAuditHandler creates a new audit handler.
func NewAuditHandler(svc *service.AuditService) *AuditHandler {
	return &AuditHandler{service: svc}
}

// List godoc
// @Summary List audit logs
// @Description Full audit trail, most recent entry first
// @Tags Audit
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /audit-logs [get]
func (h *AuditHandler) List(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.List(c.Request.Context()))
}
