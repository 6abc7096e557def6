package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/acadbase/degree-progress-api/internal/service"
	appErrors "github.com/acadbase/degree-progress-api/pkg/errors"
	"github.com/acadbase/degree-progress-api/pkg/response"
)

// StudentHandler exposes student records, memberships and preferences.
type StudentHandler struct {
	students *service.StudentService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService) *StudentHandler {
	return &StudentHandler{students: students}
}

// Get godoc
// @Summary Get a student record
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	actorID, isAdmin := actor(c)
	student, err := h.students.Get(c.Request.Context(), targetStudentID(c), actorID, isAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// UpdatePreferences godoc
// @Summary Update the project-credit preference toggles
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.UpdatePreferencesRequest true "Preference payload"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/preferences [put]
func (h *StudentHandler) UpdatePreferences(c *gin.Context) {
	var req service.UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	actorID, isAdmin := actor(c)
	student, err := h.students.UpdatePreferences(c.Request.Context(), targetStudentID(c), req, actorID, isAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// ListPrograms godoc
// @Summary List a student's program memberships
// @Tags Students
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/programs [get]
func (h *StudentHandler) ListPrograms(c *gin.Context) {
	actorID, isAdmin := actor(c)
	programs, err := h.students.ListPrograms(c.Request.Context(), targetStudentID(c), actorID, isAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, programs, nil)
}

// EnrollProgram godoc
// @Summary Register a student into a program
// @Tags Students
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.EnrollProgramRequest true "Membership payload"
// @Success 201 {object} response.Envelope
// @Router /students/{id}/programs [post]
func (h *StudentHandler) EnrollProgram(c *gin.Context) {
	var req service.EnrollProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	membership, err := h.students.EnrollProgram(c.Request.Context(), targetStudentID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, membership)
}
