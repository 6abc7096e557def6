package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/acadbase/degree-progress-api/internal/models"
	appErrors "github.com/acadbase/degree-progress-api/pkg/errors"
)

type studentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	UpdatePreferences(ctx context.Context, id string, doISTP, doMTP2 bool) error
	FindPrimaryProgram(ctx context.Context, studentID string) (*models.StudentProgram, error)
	ListPrograms(ctx context.Context, studentID string) ([]models.StudentProgram, error)
	HasActivePrimary(ctx context.Context, studentID string) (bool, error)
	CreateProgramMembership(ctx context.Context, membership *models.StudentProgram) error
}

// UpdatePreferencesRequest toggles the project-credit substitutions.
type UpdatePreferencesRequest struct {
	DoISTP bool `json:"do_istp"`
	DoMTP2 bool `json:"do_mtp2"`
}

// EnrollProgramRequest registers a student into a program.
type EnrollProgramRequest struct {
	ProgramID string `json:"program_id" validate:"required"`
	IsPrimary bool   `json:"is_primary"`
	StartTerm int    `json:"start_term" validate:"required,min=1,max=12"`
}

// StudentService serves student records, program memberships and the
// preference toggles that feed the aggregator.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs StudentService.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// Get returns a student record, subject to ownership.
func (s *StudentService) Get(ctx context.Context, id, actorID string, isAdmin bool) (*models.Student, error) {
	if !isAdmin && id != actorID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// UpdatePreferences flips the MTP-2 and ISTP toggles. The change shapes
// future aggregation calls only; banked credits are never reclassified.
func (s *StudentService) UpdatePreferences(ctx context.Context, id string, req UpdatePreferencesRequest, actorID string, isAdmin bool) (*models.Student, error) {
	if !isAdmin && id != actorID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	if err := s.repo.UpdatePreferences(ctx, id, req.DoISTP, req.DoMTP2); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update preferences")
	}
	s.logger.Info("preferences updated",
		zap.String("student_id", id),
		zap.Bool("do_istp", req.DoISTP),
		zap.Bool("do_mtp2", req.DoMTP2))
	return s.repo.FindByID(ctx, id)
}

// ListPrograms returns all program memberships for a student.
func (s *StudentService) ListPrograms(ctx context.Context, studentID, actorID string, isAdmin bool) ([]models.StudentProgram, error) {
	if !isAdmin && studentID != actorID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	programs, err := s.repo.ListPrograms(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programs")
	}
	return programs, nil
}

// EnrollProgram registers a program membership. A student holds at most one
// active primary program.
func (s *StudentService) EnrollProgram(ctx context.Context, studentID string, req EnrollProgramRequest) (*models.StudentProgram, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	if _, err := s.repo.FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if req.IsPrimary {
		hasPrimary, err := s.repo.HasActivePrimary(ctx, studentID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check primary program")
		}
		if hasPrimary {
			return nil, appErrors.Clone(appErrors.ErrConflict, "student already has an active primary program")
		}
	}
	membership := &models.StudentProgram{
		StudentID: studentID,
		ProgramID: req.ProgramID,
		IsPrimary: req.IsPrimary,
		StartTerm: req.StartTerm,
		Status:    models.StudentProgramActive,
	}
	if err := s.repo.CreateProgramMembership(ctx, membership); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enroll in program")
	}
	return membership, nil
}
