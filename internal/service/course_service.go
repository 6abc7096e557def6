package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadbase/degree-progress-api/internal/models"
	appErrors "github.com/acadbase/degree-progress-api/pkg/errors"
)

type courseRepository interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindByCode(ctx context.Context, code string) (*models.Course, error)
	List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error)
	Create(ctx context.Context, course *models.Course) error
	ExistsByCode(ctx context.Context, code string) (bool, error)
	FindMappingByCourseCode(ctx context.Context, courseCode, branch string) (*models.CourseBranchMapping, error)
	ListMappings(ctx context.Context, filter models.MappingFilter) ([]models.CourseBranchMappingDetail, error)
	UpsertMapping(ctx context.Context, mapping *models.CourseBranchMapping) error
}

// CreateCourseRequest describes a new catalog entry.
type CreateCourseRequest struct {
	Code             string   `json:"code" validate:"required"`
	Name             string   `json:"name" validate:"required"`
	Credits          int      `json:"credits" validate:"required,min=1,max=5"`
	Department       string   `json:"department"`
	PassFailEligible bool     `json:"pass_fail_eligible"`
	IsBranchSpecific bool     `json:"is_branch_specific"`
	AllowedBranches  []string `json:"allowed_branches"`
	RequiredTerm     *int     `json:"required_term" validate:"omitempty,min=1,max=12"`
}

// UpsertMappingRequest assigns a category to a (course, branch) pair.
type UpsertMappingRequest struct {
	CourseCode    string `json:"course_code" validate:"required"`
	Branch        string `json:"branch" validate:"required"`
	Category      string `json:"category" validate:"required"`
	IsRequired    bool   `json:"is_required"`
	SuggestedTerm *int   `json:"suggested_term" validate:"omitempty,min=1,max=12"`
}

// BulkMappingFailure records one rejected mapping row.
type BulkMappingFailure struct {
	CourseCode string `json:"course_code"`
	Branch     string `json:"branch"`
	Error      string `json:"error"`
}

// BulkMappingResult summarises a partial bulk upsert.
type BulkMappingResult struct {
	Applied  []models.CourseBranchMapping `json:"applied"`
	Failures []BulkMappingFailure         `json:"failures,omitempty"`
}

// CourseService serves the course catalog and its per-branch classification.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(repo courseRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger}
}

// Get returns a course by code.
func (s *CourseService) Get(ctx context.Context, code string) (*models.Course, error) {
	course, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// List returns catalog courses with pagination metadata.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return courses, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Create adds a course to the catalog.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	exists, err := s.repo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate course code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course code already exists")
	}
	course := &models.Course{
		Code:             req.Code,
		Name:             req.Name,
		Credits:          req.Credits,
		Department:       req.Department,
		PassFailEligible: req.PassFailEligible,
		IsBranchSpecific: req.IsBranchSpecific,
		AllowedBranches:  req.AllowedBranches,
		RequiredTerm:     req.RequiredTerm,
		IsActive:         true,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// CategoryFor resolves the requirement bucket a course fills for a branch.
// A missing mapping means the course does not count toward any requirement
// for that branch.
func (s *CourseService) CategoryFor(ctx context.Context, courseCode, branch string) (models.CourseCategory, error) {
	if _, err := s.repo.FindByCode(ctx, courseCode); err != nil {
		if err == sql.ErrNoRows {
			return "", appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	mapping, err := s.repo.FindMappingByCourseCode(ctx, courseCode, branch)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.CategoryNotApplicable, nil
		}
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mapping")
	}
	return mapping.Category, nil
}

// ListMappings returns branch mappings with course detail.
func (s *CourseService) ListMappings(ctx context.Context, filter models.MappingFilter) ([]models.CourseBranchMappingDetail, error) {
	mappings, err := s.repo.ListMappings(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list mappings")
	}
	return mappings, nil
}

// UpsertMapping creates or updates a single (course, branch) classification.
func (s *CourseService) UpsertMapping(ctx context.Context, req UpsertMappingRequest) (*models.CourseBranchMapping, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mapping payload")
	}
	category, err := models.ParseCategory(req.Category)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course category")
	}
	course, err := s.repo.FindByCode(ctx, req.CourseCode)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	mapping := &models.CourseBranchMapping{
		CourseID:      course.ID,
		Branch:        req.Branch,
		Category:      category,
		IsRequired:    req.IsRequired,
		SuggestedTerm: req.SuggestedTerm,
	}
	if err := s.repo.UpsertMapping(ctx, mapping); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to upsert mapping")
	}
	return mapping, nil
}

// BulkUpsertMappings processes an ordered sequence of mapping changes. Bad
// rows are collected as failures; the batch never aborts on one of them.
func (s *CourseService) BulkUpsertMappings(ctx context.Context, reqs []UpsertMappingRequest) (*BulkMappingResult, error) {
	if len(reqs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "mappings payload is empty")
	}
	result := &BulkMappingResult{}
	for _, req := range reqs {
		mapping, err := s.UpsertMapping(ctx, req)
		if err != nil {
			result.Failures = append(result.Failures, BulkMappingFailure{
				CourseCode: req.CourseCode,
				Branch:     req.Branch,
				Error:      appErrors.FromError(err).Message,
			})
			continue
		}
		result.Applied = append(result.Applied, *mapping)
	}
	s.logger.Info("bulk mapping upsert",
		zap.Int("applied", len(result.Applied)),
		zap.Int("failed", len(result.Failures)))
	return result, nil
}
