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

// ProgressHandler exposes credit aggregation, the eligibility checks and the
// degree-audit export.
type ProgressHandler struct {
	progress    *service.ProgressService
	eligibility *service.EligibilityService
	export      *service.ExportService
	metrics     *service.MetricsService
}

// NewProgressHandler constructs ProgressHandler.
func NewProgressHandler(progress *service.ProgressService, eligibility *service.EligibilityService, export *service.ExportService, metrics *service.MetricsService) *ProgressHandler {
	return &ProgressHandler{progress: progress, eligibility: eligibility, export: export, metrics: metrics}
}

func (h *ProgressHandler) authorize(c *gin.Context, studentID string) bool {
	actorID, isAdmin := actor(c)
	if isAdmin || actorID == studentID {
		return true
	}
	// Non-owners see someone else's progress as missing.
	response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "student not found"))
	return false
}

// GetProgress godoc
// @Summary Calculate credit progress against a program
// @Tags Progress
// @Produce json
// @Param id path string true "Student ID"
// @Param programId path string true "Program ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/programs/{programId}/progress [get]
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	studentID := targetStudentID(c)
	if !h.authorize(c, studentID) {
		return
	}
	progress, err := h.progress.CalculateProgress(c.Request.Context(), studentID, c.Param("programId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordProgressCalculation()
	response.JSON(c, http.StatusOK, progress, nil)
}

// GetMinorProgress godoc
// @Summary Calculate minor progress with overlapping credits
// @Tags Progress
// @Produce json
// @Param id path string true "Student ID"
// @Param programId path string true "Minor program ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/programs/{programId}/minor-progress [get]
func (h *ProgressHandler) GetMinorProgress(c *gin.Context) {
	studentID := targetStudentID(c)
	if !h.authorize(c, studentID) {
		return
	}
	progress, err := h.progress.CalculateMinorProgress(c.Request.Context(), studentID, c.Param("programId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordProgressCalculation()
	response.JSON(c, http.StatusOK, progress, nil)
}

// GetReport godoc
// @Summary Progress report with terminal-project eligibility
// @Tags Progress
// @Produce json
// @Param id path string true "Student ID"
// @Param programId path string true "Program ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/programs/{programId}/report [get]
func (h *ProgressHandler) GetReport(c *gin.Context) {
	studentID := targetStudentID(c)
	if !h.authorize(c, studentID) {
		return
	}
	report, err := h.progress.Report(c.Request.Context(), studentID, c.Param("programId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordProgressCalculation()
	response.JSON(c, http.StatusOK, report, nil)
}

// CheckPassFail godoc
// @Summary Check the pass/fail credit caps
// @Tags Eligibility
// @Produce json
// @Param id path string true "Student ID"
// @Param credits query int true "Course credits"
// @Param term query int true "Term"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/eligibility/pass-fail [get]
func (h *ProgressHandler) CheckPassFail(c *gin.Context) {
	studentID := targetStudentID(c)
	if !h.authorize(c, studentID) {
		return
	}
	credits, err := strconv.Atoi(c.Query("credits"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "credits must be an integer"))
		return
	}
	term, err := strconv.Atoi(c.Query("term"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "term must be an integer"))
		return
	}
	decision, err := h.eligibility.CanTakePassFail(c.Request.Context(), studentID, credits, term)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordEligibilityCheck("pass_fail", decision.Allowed)
	response.JSON(c, http.StatusOK, decision, nil)
}

// CheckBranchCourse godoc
// @Summary Check branch and term restrictions for a course
// @Tags Eligibility
// @Produce json
// @Param id path string true "Student ID"
// @Param course query string true "Course code"
// @Param term query int true "Term"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/eligibility/branch-course [get]
func (h *ProgressHandler) CheckBranchCourse(c *gin.Context) {
	studentID := targetStudentID(c)
	if !h.authorize(c, studentID) {
		return
	}
	courseCode := strings.ToUpper(c.Query("course"))
	if courseCode == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "course is required"))
		return
	}
	term, err := strconv.Atoi(c.Query("term"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "term must be an integer"))
		return
	}
	decision, err := h.eligibility.ValidateBranchSpecificCourse(c.Request.Context(), studentID, courseCode, term)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordEligibilityCheck("branch_course", decision.Valid)
	response.JSON(c, http.StatusOK, decision, nil)
}

// InternshipCredits godoc
// @Summary Compute the internship credit award
// @Tags Eligibility
// @Produce json
// @Param id path string true "Student ID"
// @Param type query string true "Internship type (REMOTE or ONSITE)"
// @Param days query int true "Duration in days"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/eligibility/internship-credits [get]
func (h *ProgressHandler) InternshipCredits(c *gin.Context) {
	studentID := targetStudentID(c)
	if !h.authorize(c, studentID) {
		return
	}
	days, err := strconv.Atoi(c.Query("days"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "days must be an integer"))
		return
	}
	internshipType := models.InternshipType(strings.ToUpper(c.Query("type")))
	credits, err := h.eligibility.InternshipCredits(c.Request.Context(), studentID, internshipType, days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"credits": credits}, nil)
}

// CheckTerminalProject godoc
// @Summary Check major or independent project eligibility
// @Tags Eligibility
// @Produce json
// @Param id path string true "Student ID"
// @Param programId path string true "Program ID"
// @Param kind query string true "Project kind (MAJOR or INDEPENDENT)"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/programs/{programId}/terminal-project [get]
func (h *ProgressHandler) CheckTerminalProject(c *gin.Context) {
	studentID := targetStudentID(c)
	if !h.authorize(c, studentID) {
		return
	}
	kind := models.TerminalProjectKind(strings.ToUpper(c.Query("kind")))
	result, err := h.eligibility.CheckTerminalProject(c.Request.Context(), studentID, c.Param("programId"), kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordEligibilityCheck("terminal_project", result.Eligible)
	response.JSON(c, http.StatusOK, result, nil)
}

// ExportAudit godoc
// @Summary Export a degree audit as CSV or PDF
// @Tags Progress
// @Produce octet-stream
// @Param id path string true "Student ID"
// @Param programId path string true "Program ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} binary
// @Router /students/{id}/programs/{programId}/audit [get]
func (h *ProgressHandler) ExportAudit(c *gin.Context) {
	studentID := targetStudentID(c)
	if !h.authorize(c, studentID) {
		return
	}
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	file, err := h.export.DegreeAudit(c.Request.Context(), studentID, c.Param("programId"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+file.Filename)
	c.Data(http.StatusOK, file.ContentType, file.Content)
}
