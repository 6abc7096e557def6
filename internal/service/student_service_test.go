package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acadbase/degree-progress-api/internal/models"
)

type mockStudentRepo struct {
	students    map[string]*models.Student
	memberships []models.StudentProgram
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) UpdatePreferences(ctx context.Context, id string, doISTP, doMTP2 bool) error {
	s, ok := m.students[id]
	if !ok {
		return sql.ErrNoRows
	}
	s.DoISTP = doISTP
	s.DoMTP2 = doMTP2
	return nil
}

func (m *mockStudentRepo) FindPrimaryProgram(ctx context.Context, studentID string) (*models.StudentProgram, error) {
	for _, p := range m.memberships {
		if p.StudentID == studentID && p.IsPrimary && p.Status == models.StudentProgramActive {
			found := p
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ListPrograms(ctx context.Context, studentID string) ([]models.StudentProgram, error) {
	var out []models.StudentProgram
	for _, p := range m.memberships {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockStudentRepo) HasActivePrimary(ctx context.Context, studentID string) (bool, error) {
	_, err := m.FindPrimaryProgram(ctx, studentID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (m *mockStudentRepo) CreateProgramMembership(ctx context.Context, membership *models.StudentProgram) error {
	membership.ID = "sp-new"
	m.memberships = append(m.memberships, *membership)
	return nil
}

func newStudentService(repo *mockStudentRepo) *StudentService {
	return NewStudentService(repo, validator.New(), zap.NewNop())
}

func TestStudentUpdatePreferences(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{
		"s1": {ID: "s1", Branch: "CSE", DoISTP: true, DoMTP2: true},
	}}
	svc := newStudentService(repo)

	student, err := svc.UpdatePreferences(context.Background(), "s1", UpdatePreferencesRequest{DoISTP: false, DoMTP2: true}, "s1", false)
	require.NoError(t, err)
	assert.False(t, student.DoISTP)
	assert.True(t, student.DoMTP2)
}

func TestStudentUpdatePreferencesOwnership(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{
		"s1": {ID: "s1", Branch: "CSE"},
	}}
	svc := newStudentService(repo)

	_, err := svc.UpdatePreferences(context.Background(), "s1", UpdatePreferencesRequest{}, "s2", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	// Admins may act on any student.
	_, err = svc.UpdatePreferences(context.Background(), "s1", UpdatePreferencesRequest{DoISTP: true}, "admin", true)
	require.NoError(t, err)
}

func TestStudentEnrollProgramSinglePrimary(t *testing.T) {
	repo := &mockStudentRepo{
		students: map[string]*models.Student{"s1": {ID: "s1", Branch: "CSE"}},
		memberships: []models.StudentProgram{
			{ID: "sp1", StudentID: "s1", ProgramID: "p-cse", IsPrimary: true, Status: models.StudentProgramActive},
		},
	}
	svc := newStudentService(repo)

	_, err := svc.EnrollProgram(context.Background(), "s1", EnrollProgramRequest{ProgramID: "p-dse", IsPrimary: true, StartTerm: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "primary")

	membership, err := svc.EnrollProgram(context.Background(), "s1", EnrollProgramRequest{ProgramID: "p-dse", IsPrimary: false, StartTerm: 5})
	require.NoError(t, err)
	assert.Equal(t, models.StudentProgramActive, membership.Status)
}

func TestStudentGetOwnership(t *testing.T) {
	repo := &mockStudentRepo{students: map[string]*models.Student{"s1": {ID: "s1"}}}
	svc := newStudentService(repo)

	_, err := svc.Get(context.Background(), "s1", "s2", false)
	require.Error(t, err)

	student, err := svc.Get(context.Background(), "s1", "s1", false)
	require.NoError(t, err)
	assert.Equal(t, "s1", student.ID)
}
