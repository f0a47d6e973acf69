package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/spms-api/internal/service"
	appErrors "github.com/noah-isme/spms-api/pkg/errors"
	"github.com/noah-isme/spms-api/pkg/response"
)

// RosterHandler handles the class roster endpoint.
type RosterHandler struct {
	service *service.RosterService
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(svc *service.RosterService) *RosterHandler {
	return &RosterHandler{service: svc}
}

// StudentsByClass godoc
// @Summary Class roster
// @Description List (student, subject) pairs for the calling teacher's subjects
// @Tags Roster
// @Produce json
// @Param subject_id query string false "Narrow the roster to one subject"
// @Success 200 {object} response.Envelope
// @Router /classes/roster [get]
func (h *RosterHandler) StudentsByClass(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	entries := h.service.StudentsByClass(c.Request.Context(), claims.UserID, c.Query("subject_id"))
	response.JSON(c, http.StatusOK, entries)
}
