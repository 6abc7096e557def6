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

// CourseHandler exposes the course catalog and branch classification.
type CourseHandler struct {
	courses *service.CourseService
}

// NewCourseHandler constructs CourseHandler.
func NewCourseHandler(courses *service.CourseService) *CourseHandler {
	return &CourseHandler{courses: courses}
}

// List godoc
// @Summary List catalog courses
// @Tags Courses
// @Produce json
// @Param search query string false "Search by code or name"
// @Param department query string false "Filter by department"
// @Param active query bool false "Filter by active flag"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	var filter models.CourseFilter
	filter.Search = c.Query("search")
	filter.Department = c.Query("department")
	if raw := c.Query("active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.Active = &active
		}
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	courses, pagination, err := h.courses.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses, pagination)
}

// Get godoc
// @Summary Get a course by code
// @Tags Courses
// @Produce json
// @Param code path string true "Course code"
// @Success 200 {object} response.Envelope
// @Router /courses/{code} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	course, err := h.courses.Get(c.Request.Context(), strings.ToUpper(c.Param("code")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course, nil)
}

// Create godoc
// @Summary Add a course to the catalog
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req service.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Category godoc
// @Summary Resolve the requirement category a course fills for a branch
// @Tags Courses
// @Produce json
// @Param code path string true "Course code"
// @Param branch query string true "Branch code"
// @Success 200 {object} response.Envelope
// @Router /courses/{code}/category [get]
func (h *CourseHandler) Category(c *gin.Context) {
	branch := strings.ToUpper(c.Query("branch"))
	if branch == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "branch is required"))
		return
	}
	category, err := h.courses.CategoryFor(c.Request.Context(), strings.ToUpper(c.Param("code")), branch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"category": category}, nil)
}

// ListMappings godoc
// @Summary List course-branch mappings
// @Tags Courses
// @Produce json
// @Param branch query string false "Filter by branch"
// @Param courseId query string false "Filter by course"
// @Param category query string false "Filter by category"
// @Success 200 {object} response.Envelope
// @Router /mappings [get]
func (h *CourseHandler) ListMappings(c *gin.Context) {
	var filter models.MappingFilter
	filter.Branch = strings.ToUpper(c.Query("branch"))
	filter.CourseID = c.Query("courseId")
	if raw := c.Query("category"); raw != "" {
		category, err := models.ParseCategory(raw)
		if err != nil {
			response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid category"))
			return
		}
		filter.Category = category
	}

	mappings, err := h.courses.ListMappings(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mappings, nil)
}

// UpsertMapping godoc
// @Summary Create or update a course-branch classification
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body service.UpsertMappingRequest true "Mapping payload"
// @Success 200 {object} response.Envelope
// @Router /mappings [put]
func (h *CourseHandler) UpsertMapping(c *gin.Context) {
	var req service.UpsertMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	mapping, err := h.courses.UpsertMapping(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mapping, nil)
}

// BulkUpsertMappings godoc
// @Summary Apply a batch of course-branch classifications
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body []service.UpsertMappingRequest true "Mapping batch"
// @Success 200 {object} response.Envelope
// @Router /mappings/bulk [post]
func (h *CourseHandler) BulkUpsertMappings(c *gin.Context) {
	var reqs []service.UpsertMappingRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.courses.BulkUpsertMappings(c.Request.Context(), reqs)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
