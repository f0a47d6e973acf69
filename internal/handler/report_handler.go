package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/spms-api/internal/service"
	"github.com/noah-isme/spms-api/pkg/response"
)

// ReportHandler handles transcript downloads.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler creates a new report handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// StudentTranscript godoc
// @Summary Student transcript
// @Description Download a student's grades as a PDF transcript
// @Tags Reports
// @Produce application/pdf
// @Param id path string true "Student ID"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/transcript [get]
func (h *ReportHandler) StudentTranscript(c *gin.Context) {
	studentID := c.Param("id")
	pdf, err := h.service.StudentTranscript(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("transcript-%s.pdf", studentID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
