package service

import (
	"context"
	"database/sql"
	"math"

	"go.uber.org/zap"

	"github.com/acadbase/degree-progress-api/internal/catalog"
	"github.com/acadbase/degree-progress-api/internal/models"
	appErrors "github.com/acadbase/degree-progress-api/pkg/errors"
)

type progressLedgerReader interface {
	ListForProgram(ctx context.Context, studentID, programID string) ([]models.EnrollmentDetail, error)
	CompletedCourseCredits(ctx context.Context, studentID, programID string) (map[string]int, error)
}

type progressStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindPrimaryProgram(ctx context.Context, studentID string) (*models.StudentProgram, error)
}

type progressProgramReader interface {
	FindByID(ctx context.Context, id string) (*models.Program, error)
}

type terminalProjectChecker interface {
	CheckTerminalProject(ctx context.Context, studentID, programID string, kind models.TerminalProjectKind) (*models.TerminalProjectEligibility, error)
}

// ProgressService is the credit aggregator: it turns a student's ledger and a
// program's targets into the per-category progress picture.
type ProgressService struct {
	ledger      progressLedgerReader
	students    progressStudentReader
	programs    progressProgramReader
	eligibility terminalProjectChecker
	logger      *zap.Logger
}

// NewProgressService constructs ProgressService.
func NewProgressService(ledger progressLedgerReader, students progressStudentReader, programs progressProgramReader, eligibility terminalProjectChecker, logger *zap.Logger) *ProgressService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressService{ledger: ledger, students: students, programs: programs, eligibility: eligibility, logger: logger}
}

// CalculateProgress aggregates a student's enrollments against one program.
// Every figure is computed fresh from the ledger on each call.
func (s *ProgressService) CalculateProgress(ctx context.Context, studentID, programID string) (*models.ProgramProgress, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	program, err := s.programs.FindByID(ctx, programID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}
	enrollments, err := s.ledger.ListForProgram(ctx, studentID, programID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}

	progress := &models.ProgramProgress{
		ProgramID:   program.ID,
		ProgramCode: program.Code,
		ProgramName: program.Name,
		Track:       program.Track,
		Required:    requiredBreakdown(program, student),
	}

	for _, e := range enrollments {
		credits := e.CourseCredits
		if e.IsInternship {
			credits = e.InternshipCredits
		}
		switch {
		case e.CountsCompleted():
			// The stored category is the point-in-time truth for this attempt,
			// even if the catalog mapping has since changed.
			progress.Completed.Add(e.Category, credits)
		case e.Status == models.EnrollmentStatusInProgress:
			progress.InProgress.Add(e.Category, credits)
		}
		// Withdrawn, failed and audited attempts stay in the ledger but feed
		// no aggregate.
	}

	progress.Remaining = remainingBreakdown(progress.Required, progress.Completed)
	progress.Percentage = completionPercentage(progress.Completed.Total, progress.Required.Total)
	return progress, nil
}

// CalculateMinorProgress aggregates against a secondary program and reports
// how many of its completed credits were also counted by the primary one.
func (s *ProgressService) CalculateMinorProgress(ctx context.Context, studentID, minorProgramID string) (*models.MinorProgress, error) {
	progress, err := s.CalculateProgress(ctx, studentID, minorProgramID)
	if err != nil {
		return nil, err
	}

	result := &models.MinorProgress{ProgramProgress: *progress}
	primary, err := s.students.FindPrimaryProgram(ctx, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return result, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load primary program")
	}
	if primary.ProgramID == minorProgramID {
		return result, nil
	}

	primaryCredits, err := s.ledger.CompletedCourseCredits(ctx, studentID, primary.ProgramID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load primary credits")
	}
	minorCredits, err := s.ledger.CompletedCourseCredits(ctx, studentID, minorProgramID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load minor credits")
	}
	for courseID, credits := range minorCredits {
		if _, ok := primaryCredits[courseID]; ok {
			result.OverlappingCredits += credits
		}
	}
	return result, nil
}

// Report bundles progress with both terminal-project eligibilities, the
// single call the student dashboard renders from.
func (s *ProgressService) Report(ctx context.Context, studentID, programID string) (*models.ProgressReport, error) {
	progress, err := s.CalculateProgress(ctx, studentID, programID)
	if err != nil {
		return nil, err
	}
	mtp, err := s.eligibility.CheckTerminalProject(ctx, studentID, programID, models.TerminalProjectMajor)
	if err != nil {
		return nil, err
	}
	istp, err := s.eligibility.CheckTerminalProject(ctx, studentID, programID, models.TerminalProjectIndependent)
	if err != nil {
		return nil, err
	}
	return &models.ProgressReport{
		Progress:        *progress,
		MTPEligibility:  *mtp,
		ISTPEligibility: *istp,
	}, nil
}

// requiredBreakdown builds the target breakdown from the program's static
// figures and applies the student's preference substitutions. Substitutions
// move credits between targets and never change the total.
func requiredBreakdown(program *models.Program, student *models.Student) models.CreditBreakdown {
	required := models.CreditBreakdown{
		InstituteCore:      program.ICCredits,
		DisciplineCore:     program.DCCredits,
		DisciplineElective: program.DECredits,
		FreeElective:       program.FECredits,
		MajorProject:       program.MTPCredits,
		IndependentProject: program.ISTPCredits,
	}
	if !student.DoISTP && required.IndependentProject > 0 {
		required.FreeElective += required.IndependentProject
		required.IndependentProject = 0
	}
	if !student.DoMTP2 && program.MTPRequired && required.MajorProject >= catalog.MTPSecondHalfCredits {
		required.DisciplineElective += catalog.MTPSecondHalfCredits
		required.MajorProject -= catalog.MTPSecondHalfCredits
	}
	required.Total = required.InstituteCore + required.DisciplineCore + required.DisciplineElective +
		required.FreeElective + required.MajorProject + required.IndependentProject
	return required
}

// remainingBreakdown floors every bucket at zero: over-completion in one
// category never offsets a deficit in another, so the total is the sum of the
// per-category remainders rather than required minus completed.
func remainingBreakdown(required, completed models.CreditBreakdown) models.CreditBreakdown {
	remaining := models.CreditBreakdown{
		InstituteCore:      nonNegative(required.InstituteCore - completed.InstituteCore),
		DisciplineCore:     nonNegative(required.DisciplineCore - completed.DisciplineCore),
		DisciplineElective: nonNegative(required.DisciplineElective - completed.DisciplineElective),
		FreeElective:       nonNegative(required.FreeElective - completed.FreeElective),
		MajorProject:       nonNegative(required.MajorProject - completed.MajorProject),
		IndependentProject: nonNegative(required.IndependentProject - completed.IndependentProject),
	}
	remaining.Total = remaining.InstituteCore + remaining.DisciplineCore + remaining.DisciplineElective +
		remaining.FreeElective + remaining.MajorProject + remaining.IndependentProject
	return remaining
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}

// completionPercentage is completed over required to one decimal place,
// clamped to [0, 100].
func completionPercentage(completed, required int) float64 {
	if required <= 0 {
		return 0
	}
	pct := math.Round(float64(completed)/float64(required)*1000) / 10
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}
