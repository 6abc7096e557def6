package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadbase/degree-progress-api/internal/models"
	appErrors "github.com/acadbase/degree-progress-api/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
	FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error)
	FindByNaturalKey(ctx context.Context, studentID, courseID string, term int) (*models.Enrollment, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id string) error
}

type enrollmentCourseReader interface {
	FindByCode(ctx context.Context, code string) (*models.Course, error)
	FindMapping(ctx context.Context, courseID, branch string) (*models.CourseBranchMapping, error)
}

type enrollmentStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindPrimaryProgram(ctx context.Context, studentID string) (*models.StudentProgram, error)
}

type enrollmentProgramReader interface {
	FindByID(ctx context.Context, id string) (*models.Program, error)
}

// CreateEnrollmentRequest records one course attempt.
type CreateEnrollmentRequest struct {
	StudentID  string  `json:"student_id" validate:"required"`
	CourseCode string  `json:"course_code" validate:"required"`
	ProgramID  string  `json:"program_id"`
	Term       int     `json:"term" validate:"required,min=1,max=12"`
	Year       int     `json:"year" validate:"required,min=2000"`
	Category   string  `json:"category"`
	Status     string  `json:"status"`
	Grade      *string `json:"grade,omitempty"`
	IsPassFail bool    `json:"is_pass_fail"`

	IsInternship   bool    `json:"is_internship"`
	InternshipType *string `json:"internship_type,omitempty"`
	InternshipDays int     `json:"internship_days"`
}

// UpdateEnrollmentRequest mutates an existing attempt. Nil fields are left
// untouched.
type UpdateEnrollmentRequest struct {
	Status     *string `json:"status,omitempty"`
	Grade      *string `json:"grade,omitempty"`
	IsPassFail *bool   `json:"is_pass_fail,omitempty"`
}

// EnrollmentService owns the enrollment ledger.
type EnrollmentService struct {
	repo      enrollmentRepository
	courses   enrollmentCourseReader
	students  enrollmentStudentReader
	programs  enrollmentProgramReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, courses enrollmentCourseReader, students enrollmentStudentReader, programs enrollmentProgramReader, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, courses: courses, students: students, programs: programs, validator: validate, logger: logger}
}

// List returns a student's ledger. Non-admin callers only see their own rows.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter, actorID string, isAdmin bool) ([]models.EnrollmentDetail, *models.Pagination, error) {
	if !isAdmin {
		filter.StudentID = actorID
	}
	if filter.StudentID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "student_id is required")
	}
	rows, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return rows, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns one enrollment with course detail, subject to ownership.
func (s *EnrollmentService) Get(ctx context.Context, id, actorID string, isAdmin bool) (*models.EnrollmentDetail, error) {
	row, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if !isAdmin && row.StudentID != actorID {
		// Hide other students' ledgers entirely.
		return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	return row, nil
}

// Create records a new attempt. The requirement category is snapshotted from
// the student's branch mapping unless the caller supplies one explicitly; a
// course with no mapping for the branch lands in FE.
func (s *EnrollmentService) Create(ctx context.Context, req CreateEnrollmentRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	course, err := s.courses.FindByCode(ctx, req.CourseCode)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if !course.IsActive {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course is not active")
	}
	if req.IsPassFail && !course.PassFailEligible {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course is not pass/fail eligible")
	}

	programID := req.ProgramID
	if programID == "" {
		primary, err := s.students.FindPrimaryProgram(ctx, req.StudentID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "student has no active primary program")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load primary program")
		}
		programID = primary.ProgramID
	}

	if existing, err := s.repo.FindByNaturalKey(ctx, req.StudentID, course.ID, req.Term); err == nil && existing != nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "enrollment already exists for this course and term")
	} else if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}

	category, err := s.resolveCategory(ctx, req.Category, course.ID, student.Branch)
	if err != nil {
		return nil, err
	}

	status := models.EnrollmentStatusInProgress
	if req.Status != "" {
		status = models.EnrollmentStatus(req.Status)
		if status != models.EnrollmentStatusInProgress && status != models.EnrollmentStatusCompleted && status != models.EnrollmentStatusWithdrawn {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid enrollment status")
		}
	}

	grade, err := parseOptionalGrade(req.Grade)
	if err != nil {
		return nil, err
	}
	if grade != nil {
		status = models.EnrollmentStatusCompleted
	}

	enrollment := &models.Enrollment{
		StudentID:  req.StudentID,
		CourseID:   course.ID,
		ProgramID:  programID,
		Term:       req.Term,
		Year:       req.Year,
		Category:   category,
		Status:     status,
		Grade:      grade,
		IsPassFail: req.IsPassFail,
	}

	if req.IsInternship {
		if req.InternshipType == nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "internship_type is required for internship enrollments")
		}
		t := models.InternshipType(*req.InternshipType)
		if t != models.InternshipRemote && t != models.InternshipOnsite {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid internship type")
		}
		program, err := s.programs.FindByID(ctx, programID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
		}
		enrollment.IsInternship = true
		enrollment.InternshipType = &t
		enrollment.InternshipCredits = internshipCreditAward(t, req.InternshipDays, program.Track == models.TrackScience)
	}

	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	s.logger.Info("enrollment created",
		zap.String("student_id", enrollment.StudentID),
		zap.String("course_code", course.Code),
		zap.Int("term", enrollment.Term))
	return enrollment, nil
}

// Update mutates grade, status or pass/fail mode. Students may only touch
// their own rows; non-owners get not-found rather than forbidden.
func (s *EnrollmentService) Update(ctx context.Context, id string, req UpdateEnrollmentRequest, actorID string, isAdmin bool) (*models.Enrollment, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if !isAdmin && enrollment.StudentID != actorID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}

	if req.Status != nil {
		status := models.EnrollmentStatus(*req.Status)
		if status != models.EnrollmentStatusInProgress && status != models.EnrollmentStatusCompleted && status != models.EnrollmentStatusWithdrawn {
			return nil, appErrors.Clone(appErrors.ErrValidation, "invalid enrollment status")
		}
		enrollment.Status = status
	}
	if req.Grade != nil {
		if *req.Grade == "" {
			enrollment.Grade = nil
		} else {
			grade, err := parseOptionalGrade(req.Grade)
			if err != nil {
				return nil, err
			}
			enrollment.Grade = grade
			enrollment.Status = models.EnrollmentStatusCompleted
		}
	}
	if req.IsPassFail != nil {
		enrollment.IsPassFail = *req.IsPassFail
	}

	if err := s.repo.Update(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment")
	}
	return enrollment, nil
}

// Delete removes an attempt from the ledger.
func (s *EnrollmentService) Delete(ctx context.Context, id, actorID string, isAdmin bool) error {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if !isAdmin && enrollment.StudentID != actorID {
		return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}
	return nil
}

// BulkImport upserts a student's enrollment history keyed on
// (student, course, term). Rows with a grade land as COMPLETED, rows without
// as IN_PROGRESS. Rows failing individually are reported, not fatal, so the
// whole call is idempotent: re-importing the same payload updates in place.
func (s *EnrollmentService) BulkImport(ctx context.Context, studentID, programID string, rows []models.BulkImportRow) (*models.BulkImportResult, error) {
	if len(rows) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "import payload is empty")
	}

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if programID == "" {
		primary, err := s.students.FindPrimaryProgram(ctx, studentID)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "student has no active primary program")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load primary program")
		}
		programID = primary.ProgramID
	}

	result := &models.BulkImportResult{Total: len(rows)}
	for _, row := range rows {
		outcome, err := s.importRow(ctx, student, programID, row)
		if err != nil {
			result.Errors = append(result.Errors, models.BulkImportRowError{
				CourseCode: row.CourseCode,
				Error:      appErrors.FromError(err).Message,
			})
			continue
		}
		result.Results = append(result.Results, *outcome)
	}
	s.logger.Info("ledger import",
		zap.String("student_id", studentID),
		zap.Int("total", result.Total),
		zap.Int("imported", len(result.Results)),
		zap.Int("failed", len(result.Errors)))
	return result, nil
}

func (s *EnrollmentService) importRow(ctx context.Context, student *models.Student, programID string, row models.BulkImportRow) (*models.BulkImportRowResult, error) {
	if err := s.validator.Struct(row); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid import row")
	}
	course, err := s.courses.FindByCode(ctx, row.CourseCode)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("unknown course %s", row.CourseCode))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	category := row.Category
	if category == "" {
		category, err = s.resolveCategory(ctx, "", course.ID, student.Branch)
		if err != nil {
			return nil, err
		}
	} else if !category.Countable() && category != models.CategoryNotApplicable {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid category %q", category))
	}
	if row.Grade != nil && !row.Grade.Earning() && !row.Grade.Audit() && *row.Grade != models.GradeF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid grade %q", *row.Grade))
	}

	status := models.EnrollmentStatusInProgress
	if row.Grade != nil {
		status = models.EnrollmentStatusCompleted
	}

	existing, err := s.repo.FindByNaturalKey(ctx, student.ID, course.ID, row.Term)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}

	if existing != nil {
		existing.Category = category
		existing.Status = status
		existing.Grade = row.Grade
		existing.IsPassFail = row.IsPassFail
		existing.ProgramID = programID
		if err := s.repo.Update(ctx, existing); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment")
		}
		return &models.BulkImportRowResult{CourseCode: row.CourseCode, Action: "updated", ID: existing.ID}, nil
	}

	enrollment := &models.Enrollment{
		StudentID:  student.ID,
		CourseID:   course.ID,
		ProgramID:  programID,
		Term:       row.Term,
		Category:   category,
		Status:     status,
		Grade:      row.Grade,
		IsPassFail: row.IsPassFail,
	}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	return &models.BulkImportRowResult{CourseCode: row.CourseCode, Action: "created", ID: enrollment.ID}, nil
}

// resolveCategory snapshots the branch mapping's category, falling back to FE
// for unmapped courses. An explicit raw value wins over the mapping.
func (s *EnrollmentService) resolveCategory(ctx context.Context, raw, courseID, branch string) (models.CourseCategory, error) {
	if raw != "" {
		category, err := models.ParseCategory(raw)
		if err != nil {
			return "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course category")
		}
		return category, nil
	}
	mapping, err := s.courses.FindMapping(ctx, courseID, branch)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.CategoryFreeElective, nil
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mapping")
	}
	return mapping.Category, nil
}

func parseOptionalGrade(raw *string) (*models.Grade, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	grade := models.Grade(*raw)
	if !grade.Earning() && !grade.Audit() && grade != models.GradeF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid grade %q", grade))
	}
	return &grade, nil
}
