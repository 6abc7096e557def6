package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/acadbase/degree-progress-api/internal/models"
	"github.com/acadbase/degree-progress-api/internal/service"
	appErrors "github.com/acadbase/degree-progress-api/pkg/errors"
	"github.com/acadbase/degree-progress-api/pkg/response"
)

// EnrollmentHandler exposes the enrollment ledger.
type EnrollmentHandler struct {
	enrollments *service.EnrollmentService
	metrics     *service.MetricsService
}

// NewEnrollmentHandler constructs EnrollmentHandler.
func NewEnrollmentHandler(enrollments *service.EnrollmentService, metrics *service.MetricsService) *EnrollmentHandler {
	return &EnrollmentHandler{enrollments: enrollments, metrics: metrics}
}

// List godoc
// @Summary List enrollments
// @Tags Enrollments
// @Produce json
// @Param studentId query string false "Filter by student (admin only)"
// @Param programId query string false "Filter by program"
// @Param term query int false "Filter by term"
// @Param status query string false "Filter by status"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /enrollments [get]
func (h *EnrollmentHandler) List(c *gin.Context) {
	var filter models.EnrollmentFilter
	filter.StudentID = c.Query("studentId")
	filter.ProgramID = c.Query("programId")
	if term, err := strconv.Atoi(c.Query("term")); err == nil {
		filter.Term = term
	}
	filter.Status = models.EnrollmentStatus(strings.ToUpper(c.Query("status")))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	actorID, isAdmin := actor(c)
	enrollments, pagination, err := h.enrollments.List(c.Request.Context(), filter, actorID, isAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollments, pagination)
}

// Get godoc
// @Summary Get one enrollment
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id} [get]
func (h *EnrollmentHandler) Get(c *gin.Context) {
	actorID, isAdmin := actor(c)
	enrollment, err := h.enrollments.Get(c.Request.Context(), c.Param("id"), actorID, isAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// Create godoc
// @Summary Record a course attempt
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body service.CreateEnrollmentRequest true "Enrollment payload"
// @Success 201 {object} response.Envelope
// @Router /enrollments [post]
func (h *EnrollmentHandler) Create(c *gin.Context) {
	var req service.CreateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	actorID, isAdmin := actor(c)
	if !isAdmin {
		// Students only write their own ledger.
		req.StudentID = actorID
	}
	enrollment, err := h.enrollments.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, enrollment)
}

// Update godoc
// @Summary Update grade, status or pass/fail mode
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param id path string true "Enrollment ID"
// @Param payload body service.UpdateEnrollmentRequest true "Update payload"
// @Success 200 {object} response.Envelope
// @Router /enrollments/{id} [put]
func (h *EnrollmentHandler) Update(c *gin.Context) {
	var req service.UpdateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	actorID, isAdmin := actor(c)
	enrollment, err := h.enrollments.Update(c.Request.Context(), c.Param("id"), req, actorID, isAdmin)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, enrollment, nil)
}

// Delete godoc
// @Summary Remove an enrollment from the ledger
// @Tags Enrollments
// @Produce json
// @Param id path string true "Enrollment ID"
// @Success 204
// @Router /enrollments/{id} [delete]
func (h *EnrollmentHandler) Delete(c *gin.Context) {
	actorID, isAdmin := actor(c)
	if err := h.enrollments.Delete(c.Request.Context(), c.Param("id"), actorID, isAdmin); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// BulkImportRequest wraps an import payload for one student.
type BulkImportRequest struct {
	StudentID string                 `json:"student_id"`
	ProgramID string                 `json:"program_id"`
	Rows      []models.BulkImportRow `json:"rows"`
}

// BulkImport godoc
// @Summary Import a student's enrollment history
// @Tags Enrollments
// @Accept json
// @Produce json
// @Param payload body BulkImportRequest true "Import payload"
// @Success 200 {object} response.Envelope
// @Router /enrollments/import [post]
func (h *EnrollmentHandler) BulkImport(c *gin.Context) {
	var req BulkImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	actorID, isAdmin := actor(c)
	if !isAdmin || req.StudentID == "" {
		req.StudentID = actorID
	}
	result, err := h.enrollments.BulkImport(c.Request.Context(), req.StudentID, req.ProgramID, req.Rows)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordImportRows(len(result.Results), len(result.Errors))
	response.JSON(c, http.StatusOK, result, nil)
}
