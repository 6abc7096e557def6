package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acadbase/degree-progress-api/internal/models"
)

type mockEligibilityLedger struct {
	careerPassFail int
	termPassFail   map[int]int
	completed      int
	maxTerm        int
}

func (m *mockEligibilityLedger) SumPassFailCredits(ctx context.Context, studentID string) (int, error) {
	return m.careerPassFail, nil
}

func (m *mockEligibilityLedger) SumPassFailCreditsInTerm(ctx context.Context, studentID string, term int) (int, error) {
	return m.termPassFail[term], nil
}

func (m *mockEligibilityLedger) SumCompletedCredits(ctx context.Context, studentID, programID string) (int, error) {
	return m.completed, nil
}

func (m *mockEligibilityLedger) MaxTerm(ctx context.Context, studentID string) (int, error) {
	return m.maxTerm, nil
}

type mockEligibilityCourses struct {
	courses map[string]*models.Course
}

func (m *mockEligibilityCourses) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	if c, ok := m.courses[code]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

type mockEligibilityStudents struct {
	students map[string]*models.Student
	primary  map[string]*models.StudentProgram
}

func (m *mockEligibilityStudents) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEligibilityStudents) FindPrimaryProgram(ctx context.Context, studentID string) (*models.StudentProgram, error) {
	if p, ok := m.primary[studentID]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

type mockEligibilityPrograms struct {
	programs map[string]*models.Program
}

func (m *mockEligibilityPrograms) FindByID(ctx context.Context, id string) (*models.Program, error) {
	if p, ok := m.programs[id]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func newEligibilityService(ledger *mockEligibilityLedger, courses *mockEligibilityCourses, students *mockEligibilityStudents, programs *mockEligibilityPrograms) *EligibilityService {
	if ledger == nil {
		ledger = &mockEligibilityLedger{}
	}
	if courses == nil {
		courses = &mockEligibilityCourses{}
	}
	if students == nil {
		students = &mockEligibilityStudents{}
	}
	if programs == nil {
		programs = &mockEligibilityPrograms{}
	}
	return NewEligibilityService(ledger, courses, students, programs, zap.NewNop())
}

func TestCanTakePassFailCareerCap(t *testing.T) {
	svc := newEligibilityService(&mockEligibilityLedger{careerPassFail: 9}, nil, nil, nil)

	decision, err := svc.CanTakePassFail(context.Background(), "s1", 1, 3)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Contains(t, decision.Reason, "pass/fail cap")
	assert.Equal(t, 9, decision.CareerCredits)
}

func TestCanTakePassFailAtCapBoundary(t *testing.T) {
	svc := newEligibilityService(&mockEligibilityLedger{careerPassFail: 3}, nil, nil, nil)

	decision, err := svc.CanTakePassFail(context.Background(), "s1", 6, 3)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)

	decision, err = svc.CanTakePassFail(context.Background(), "s1", 7, 3)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
}

func TestCanTakePassFailTermCap(t *testing.T) {
	// Per-term cap binds even with career headroom left.
	svc := newEligibilityService(&mockEligibilityLedger{careerPassFail: 6, termPassFail: map[int]int{4: 6}}, nil, nil, nil)

	decision, err := svc.CanTakePassFail(context.Background(), "s1", 3, 4)
	require.NoError(t, err)
	assert.False(t, decision.Allowed)
	assert.Contains(t, decision.Reason, "per-term")
	assert.Equal(t, 6, decision.TermCredits)

	decision, err = svc.CanTakePassFail(context.Background(), "s1", 3, 5)
	require.NoError(t, err)
	assert.True(t, decision.Allowed)
}

func TestCanTakePassFailRejectsBadInput(t *testing.T) {
	svc := newEligibilityService(nil, nil, nil, nil)

	_, err := svc.CanTakePassFail(context.Background(), "s1", 0, 3)
	assert.Error(t, err)
	_, err = svc.CanTakePassFail(context.Background(), "s1", 3, 0)
	assert.Error(t, err)
}

func restrictedCourse() *models.Course {
	term := 8
	return &models.Course{
		ID: "c1", Code: "EE400", Credits: 4,
		IsBranchSpecific: true,
		AllowedBranches:  []string{"EE", "MEVLSI"},
		RequiredTerm:     &term,
		IsActive:         true,
	}
}

func TestValidateBranchSpecificCourse(t *testing.T) {
	courses := &mockEligibilityCourses{courses: map[string]*models.Course{"EE400": restrictedCourse()}}
	students := &mockEligibilityStudents{students: map[string]*models.Student{
		"ee":  {ID: "ee", Branch: "EE"},
		"cse": {ID: "cse", Branch: "CSE"},
	}}
	svc := newEligibilityService(nil, courses, students, nil)

	decision, err := svc.ValidateBranchSpecificCourse(context.Background(), "ee", "EE400", 8)
	require.NoError(t, err)
	assert.True(t, decision.Valid)

	decision, err = svc.ValidateBranchSpecificCourse(context.Background(), "cse", "EE400", 8)
	require.NoError(t, err)
	assert.False(t, decision.Valid)
	assert.Equal(t, []string{"EE", "MEVLSI"}, decision.AllowedBranches)

	decision, err = svc.ValidateBranchSpecificCourse(context.Background(), "ee", "EE400", 7)
	require.NoError(t, err)
	assert.False(t, decision.Valid)
	assert.Contains(t, decision.Reason, "term 8")
}

func TestValidateUnrestrictedCourse(t *testing.T) {
	courses := &mockEligibilityCourses{courses: map[string]*models.Course{
		"HS101": {ID: "c2", Code: "HS101", Credits: 3, IsActive: true},
	}}
	students := &mockEligibilityStudents{students: map[string]*models.Student{"s1": {ID: "s1", Branch: "CSE"}}}
	svc := newEligibilityService(nil, courses, students, nil)

	decision, err := svc.ValidateBranchSpecificCourse(context.Background(), "s1", "HS101", 2)
	require.NoError(t, err)
	assert.True(t, decision.Valid)
}

func TestValidateBranchCourseWithoutBranch(t *testing.T) {
	// No branch means no enrollment, regardless of course restrictions.
	courses := &mockEligibilityCourses{courses: map[string]*models.Course{
		"EE400": restrictedCourse(),
		"HS101": {ID: "c2", Code: "HS101", Credits: 3, IsActive: true},
	}}
	students := &mockEligibilityStudents{students: map[string]*models.Student{"s1": {ID: "s1"}}}
	svc := newEligibilityService(nil, courses, students, nil)

	decision, err := svc.ValidateBranchSpecificCourse(context.Background(), "s1", "EE400", 8)
	require.NoError(t, err)
	assert.False(t, decision.Valid)
	assert.Contains(t, decision.Reason, "branch")

	decision, err = svc.ValidateBranchSpecificCourse(context.Background(), "s1", "HS101", 2)
	require.NoError(t, err)
	assert.False(t, decision.Valid)
	assert.Contains(t, decision.Reason, "branch")
}

func internshipFixtures(track models.ProgramTrack) (*mockEligibilityStudents, *mockEligibilityPrograms) {
	students := &mockEligibilityStudents{
		students: map[string]*models.Student{"s1": {ID: "s1"}},
		primary:  map[string]*models.StudentProgram{"s1": {StudentID: "s1", ProgramID: "p1", IsPrimary: true}},
	}
	programs := &mockEligibilityPrograms{programs: map[string]*models.Program{
		"p1": {ID: "p1", Code: "X", Track: track},
	}}
	return students, programs
}

func TestInternshipCreditsByMode(t *testing.T) {
	students, programs := internshipFixtures(models.TrackEngineering)
	svc := newEligibilityService(nil, nil, students, programs)

	credits, err := svc.InternshipCredits(context.Background(), "s1", models.InternshipRemote, 60)
	require.NoError(t, err)
	assert.Equal(t, 6, credits)

	credits, err = svc.InternshipCredits(context.Background(), "s1", models.InternshipOnsite, 60)
	require.NoError(t, err)
	assert.Equal(t, 9, credits)
}

func TestInternshipCreditsScienceTrackBoundary(t *testing.T) {
	students, programs := internshipFixtures(models.TrackScience)
	svc := newEligibilityService(nil, nil, students, programs)

	// 42 days is inclusive: still too short to earn credit.
	credits, err := svc.InternshipCredits(context.Background(), "s1", models.InternshipOnsite, 42)
	require.NoError(t, err)
	assert.Equal(t, 0, credits)

	credits, err = svc.InternshipCredits(context.Background(), "s1", models.InternshipOnsite, 43)
	require.NoError(t, err)
	assert.Equal(t, 9, credits)
}

func TestInternshipCreditsShortEngineering(t *testing.T) {
	students, programs := internshipFixtures(models.TrackEngineering)
	svc := newEligibilityService(nil, nil, students, programs)

	credits, err := svc.InternshipCredits(context.Background(), "s1", models.InternshipRemote, 30)
	require.NoError(t, err)
	assert.Equal(t, 6, credits)
}

func mtpProgram() *models.Program {
	return &models.Program{
		ID: "p1", Code: "CSE", Track: models.TrackEngineering,
		MTPCredits: 8, ISTPCredits: 4,
		MTPRequired: true, ISTPAllowed: true,
		MinCreditsForMTP: 90, MinTermForMTP: 7,
	}
}

func TestCheckTerminalProjectEligible(t *testing.T) {
	ledger := &mockEligibilityLedger{completed: 95, maxTerm: 7}
	programs := &mockEligibilityPrograms{programs: map[string]*models.Program{"p1": mtpProgram()}}
	svc := newEligibilityService(ledger, nil, nil, programs)

	result, err := svc.CheckTerminalProject(context.Background(), "s1", "p1", models.TerminalProjectMajor)
	require.NoError(t, err)
	assert.True(t, result.Eligible)
	assert.Equal(t, 95, result.CreditsCompleted)
	assert.Equal(t, 7, result.CurrentTerm)
}

func TestCheckTerminalProjectCreditShortfall(t *testing.T) {
	ledger := &mockEligibilityLedger{completed: 82, maxTerm: 8}
	programs := &mockEligibilityPrograms{programs: map[string]*models.Program{"p1": mtpProgram()}}
	svc := newEligibilityService(ledger, nil, nil, programs)

	result, err := svc.CheckTerminalProject(context.Background(), "s1", "p1", models.TerminalProjectMajor)
	require.NoError(t, err)
	assert.False(t, result.Eligible)
	assert.Contains(t, result.Reason, "8 more completed credits")
}

func TestCheckTerminalProjectTermGate(t *testing.T) {
	ledger := &mockEligibilityLedger{completed: 100, maxTerm: 6}
	programs := &mockEligibilityPrograms{programs: map[string]*models.Program{"p1": mtpProgram()}}
	svc := newEligibilityService(ledger, nil, nil, programs)

	result, err := svc.CheckTerminalProject(context.Background(), "s1", "p1", models.TerminalProjectMajor)
	require.NoError(t, err)
	assert.False(t, result.Eligible)
	assert.Contains(t, result.Reason, "term 7")
}

func TestCheckTerminalProjectSharedGates(t *testing.T) {
	// The independent project reuses the major-project thresholds.
	ledger := &mockEligibilityLedger{completed: 95, maxTerm: 7}
	programs := &mockEligibilityPrograms{programs: map[string]*models.Program{"p1": mtpProgram()}}
	svc := newEligibilityService(ledger, nil, nil, programs)

	major, err := svc.CheckTerminalProject(context.Background(), "s1", "p1", models.TerminalProjectMajor)
	require.NoError(t, err)
	independent, err := svc.CheckTerminalProject(context.Background(), "s1", "p1", models.TerminalProjectIndependent)
	require.NoError(t, err)
	assert.Equal(t, major.Eligible, independent.Eligible)
	assert.Equal(t, major.CreditsRequired, independent.CreditsRequired)
}

func TestCheckTerminalProjectNotOffered(t *testing.T) {
	program := &models.Program{ID: "p2", Code: "BSCS", Track: models.TrackScience, MTPCredits: 14, MTPRequired: false, ISTPAllowed: false}
	programs := &mockEligibilityPrograms{programs: map[string]*models.Program{"p2": program}}
	svc := newEligibilityService(&mockEligibilityLedger{completed: 120, maxTerm: 8}, nil, nil, programs)

	result, err := svc.CheckTerminalProject(context.Background(), "s1", "p2", models.TerminalProjectIndependent)
	require.NoError(t, err)
	assert.False(t, result.Eligible)
	assert.Contains(t, result.Reason, "independent")
}

func TestCheckTerminalProjectMajorNotRequired(t *testing.T) {
	// Research credits without an MTP requirement do not open the major
	// project gate, however far along the student is.
	program := &models.Program{ID: "p2", Code: "BSCS", Track: models.TrackScience, MTPCredits: 14, MTPRequired: false, ISTPAllowed: false}
	programs := &mockEligibilityPrograms{programs: map[string]*models.Program{"p2": program}}
	svc := newEligibilityService(&mockEligibilityLedger{completed: 120, maxTerm: 8}, nil, nil, programs)

	result, err := svc.CheckTerminalProject(context.Background(), "s1", "p2", models.TerminalProjectMajor)
	require.NoError(t, err)
	assert.False(t, result.Eligible)
	assert.Contains(t, result.Reason, "not required")
	assert.Equal(t, 0, result.CreditsCompleted)
	assert.Equal(t, 0, result.CreditsRequired)
}
