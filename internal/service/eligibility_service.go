package service

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/acadbase/degree-progress-api/internal/models"
	appErrors "github.com/acadbase/degree-progress-api/pkg/errors"
)

// Pass/fail grading is capped at 9 credits over a degree and 6 within a
// single term. Both figures are summed fresh from the ledger on every check.
const (
	passFailCareerCap = 9
	passFailTermCap   = 6
)

// Internship credit awards by mode. Science-track internships of six weeks
// or less earn nothing.
const (
	internshipRemoteCredits = 6
	internshipOnsiteCredits = 9
	shortInternshipMaxDays  = 42
)

type eligibilityLedgerReader interface {
	SumPassFailCredits(ctx context.Context, studentID string) (int, error)
	SumPassFailCreditsInTerm(ctx context.Context, studentID string, term int) (int, error)
	SumCompletedCredits(ctx context.Context, studentID, programID string) (int, error)
	MaxTerm(ctx context.Context, studentID string) (int, error)
}

type eligibilityCourseReader interface {
	FindByCode(ctx context.Context, code string) (*models.Course, error)
}

type eligibilityStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	FindPrimaryProgram(ctx context.Context, studentID string) (*models.StudentProgram, error)
}

type eligibilityProgramReader interface {
	FindByID(ctx context.Context, id string) (*models.Program, error)
}

// EligibilityService evaluates the rule checks. Denials are decisions, not
// errors: each carries the figures that produced it.
type EligibilityService struct {
	ledger   eligibilityLedgerReader
	courses  eligibilityCourseReader
	students eligibilityStudentReader
	programs eligibilityProgramReader
	logger   *zap.Logger
}

// NewEligibilityService constructs EligibilityService.
func NewEligibilityService(ledger eligibilityLedgerReader, courses eligibilityCourseReader, students eligibilityStudentReader, programs eligibilityProgramReader, logger *zap.Logger) *EligibilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EligibilityService{ledger: ledger, courses: courses, students: students, programs: programs, logger: logger}
}

// CanTakePassFail checks the career and per-term pass/fail caps against the
// ledger for a prospective enrollment of courseCredits in term.
func (s *EligibilityService) CanTakePassFail(ctx context.Context, studentID string, courseCredits, term int) (*models.PassFailDecision, error) {
	if courseCredits <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course credits must be positive")
	}
	if term < 1 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "term must be positive")
	}

	career, err := s.ledger.SumPassFailCredits(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum pass/fail credits")
	}
	inTerm, err := s.ledger.SumPassFailCreditsInTerm(ctx, studentID, term)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum pass/fail credits for term")
	}

	decision := &models.PassFailDecision{CareerCredits: career, TermCredits: inTerm}
	switch {
	case career+courseCredits > passFailCareerCap:
		decision.Reason = fmt.Sprintf("pass/fail cap exceeded: %d credits taken, %d requested, limit %d", career, courseCredits, passFailCareerCap)
	case inTerm+courseCredits > passFailTermCap:
		decision.Reason = fmt.Sprintf("per-term pass/fail cap exceeded: %d credits in term %d, %d requested, limit %d", inTerm, term, courseCredits, passFailTermCap)
	default:
		decision.Allowed = true
	}
	return decision, nil
}

// ValidateBranchSpecificCourse checks whether a student may enrol in a course
// carrying branch or term restrictions. Unrestricted courses are always valid.
func (s *EligibilityService) ValidateBranchSpecificCourse(ctx context.Context, studentID, courseCode string, term int) (*models.BranchCourseDecision, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	// A student without a branch cannot enrol in anything, restricted or not.
	if student.Branch == "" {
		return &models.BranchCourseDecision{Reason: "student has no branch assigned"}, nil
	}

	course, err := s.courses.FindByCode(ctx, courseCode)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if !course.IsBranchSpecific {
		return &models.BranchCourseDecision{Valid: true}, nil
	}

	allowed := false
	for _, b := range course.AllowedBranches {
		if b == student.Branch {
			allowed = true
			break
		}
	}
	if !allowed {
		return &models.BranchCourseDecision{
			Reason:          fmt.Sprintf("course %s is restricted to branches %v", course.Code, []string(course.AllowedBranches)),
			AllowedBranches: course.AllowedBranches,
		}, nil
	}
	// Term-locked courses must be taken in exactly their designated term.
	if course.RequiredTerm != nil && term != *course.RequiredTerm {
		return &models.BranchCourseDecision{
			Reason:          fmt.Sprintf("course %s must be taken in term %d", course.Code, *course.RequiredTerm),
			AllowedBranches: course.AllowedBranches,
		}, nil
	}
	return &models.BranchCourseDecision{Valid: true, AllowedBranches: course.AllowedBranches}, nil
}

// InternshipCredits computes the credit award for an internship of the given
// mode and duration against the student's primary program.
func (s *EligibilityService) InternshipCredits(ctx context.Context, studentID string, internshipType models.InternshipType, internshipDays int) (int, error) {
	if internshipType != models.InternshipRemote && internshipType != models.InternshipOnsite {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid internship type")
	}
	if internshipDays < 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "internship duration must not be negative")
	}

	primary, err := s.students.FindPrimaryProgram(ctx, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, appErrors.Clone(appErrors.ErrPreconditionFailed, "student has no active primary program")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load primary program")
	}
	program, err := s.programs.FindByID(ctx, primary.ProgramID)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}
	return internshipCreditAward(internshipType, internshipDays, program.Track == models.TrackScience), nil
}

// internshipCreditAward is the pure rule: short science-track internships
// (up to and including 42 days) earn nothing, otherwise the award is fixed
// per mode.
func internshipCreditAward(t models.InternshipType, days int, scienceTrack bool) int {
	if scienceTrack && days <= shortInternshipMaxDays {
		return 0
	}
	if t == models.InternshipOnsite {
		return internshipOnsiteCredits
	}
	return internshipRemoteCredits
}

// CheckTerminalProject evaluates the capstone gate for the major or
// independent project. Both kinds share the program's credit and term
// thresholds; the current term is the student's maximum ledger term across
// all programs.
func (s *EligibilityService) CheckTerminalProject(ctx context.Context, studentID, programID string, kind models.TerminalProjectKind) (*models.TerminalProjectEligibility, error) {
	if kind != models.TerminalProjectMajor && kind != models.TerminalProjectIndependent {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid terminal project kind")
	}

	program, err := s.programs.FindByID(ctx, programID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}

	switch kind {
	case models.TerminalProjectMajor:
		if !program.MTPRequired {
			return &models.TerminalProjectEligibility{
				Reason: fmt.Sprintf("major terminal project is not required for program %s", program.Code),
			}, nil
		}
	case models.TerminalProjectIndependent:
		if !program.ISTPAllowed {
			return &models.TerminalProjectEligibility{
				Reason: fmt.Sprintf("program %s does not offer an independent terminal project", program.Code),
			}, nil
		}
	}

	completed, err := s.ledger.SumCompletedCredits(ctx, studentID, programID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum completed credits")
	}
	currentTerm, err := s.ledger.MaxTerm(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to determine current term")
	}

	result := &models.TerminalProjectEligibility{
		CreditsCompleted: completed,
		CreditsRequired:  program.MinCreditsForMTP,
		CurrentTerm:      currentTerm,
		MinTermRequired:  program.MinTermForMTP,
	}
	switch {
	case completed < program.MinCreditsForMTP:
		result.Reason = fmt.Sprintf("%d more completed credits needed (have %d, need %d)",
			program.MinCreditsForMTP-completed, completed, program.MinCreditsForMTP)
	case currentTerm < program.MinTermForMTP:
		result.Reason = fmt.Sprintf("available from term %d (current term %d)", program.MinTermForMTP, currentTerm)
	default:
		result.Eligible = true
	}
	return result, nil
}
