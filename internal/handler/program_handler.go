package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/acadbase/degree-progress-api/internal/models"
	"github.com/acadbase/degree-progress-api/internal/service"
	"github.com/acadbase/degree-progress-api/pkg/response"
)

// ProgramHandler exposes the degree-program catalog.
type ProgramHandler struct {
	programs *service.ProgramService
}

// NewProgramHandler constructs ProgramHandler.
func NewProgramHandler(programs *service.ProgramService) *ProgramHandler {
	return &ProgramHandler{programs: programs}
}

// List godoc
// @Summary List degree programs
// @Tags Programs
// @Produce json
// @Param track query string false "Filter by track (BTECH or BS)"
// @Success 200 {object} response.Envelope
// @Router /programs [get]
func (h *ProgramHandler) List(c *gin.Context) {
	var filter models.ProgramFilter
	filter.Track = models.ProgramTrack(strings.ToUpper(c.Query("track")))

	programs, err := h.programs.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programs, nil)
}

// Get godoc
// @Summary Get a degree program by code
// @Tags Programs
// @Produce json
// @Param code path string true "Program code"
// @Success 200 {object} response.Envelope
// @Router /programs/{code} [get]
func (h *ProgramHandler) Get(c *gin.Context) {
	program, err := h.programs.Get(c.Request.Context(), strings.ToUpper(c.Param("code")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, program, nil)
}
