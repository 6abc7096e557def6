package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acadbase/degree-progress-api/internal/models"
)

type mockAuditLedger struct {
	rows []models.EnrollmentDetail
}

func (m *mockAuditLedger) ListForProgram(ctx context.Context, studentID, programID string) ([]models.EnrollmentDetail, error) {
	return m.rows, nil
}

type mockProgressCalc struct{}

func (m *mockProgressCalc) CalculateProgress(ctx context.Context, studentID, programID string) (*models.ProgramProgress, error) {
	return &models.ProgramProgress{
		ProgramID:   programID,
		ProgramCode: "CSE",
		ProgramName: "B.Tech in Computer Science & Engineering",
		Required:    models.CreditBreakdown{InstituteCore: 60, DisciplineCore: 38, DisciplineElective: 28, FreeElective: 22, MajorProject: 8, IndependentProject: 4, Total: 160},
		Completed:   models.CreditBreakdown{DisciplineCore: 4, Total: 4},
		Percentage:  2.5,
	}, nil
}

func auditRows() []models.EnrollmentDetail {
	g := models.GradeA
	return []models.EnrollmentDetail{
		{
			Enrollment: models.Enrollment{
				Term: 3, Category: models.CategoryDisciplineCore,
				Status: models.EnrollmentStatusCompleted, Grade: &g,
			},
			CourseCode: "CS201", CourseName: "Data Structures", CourseCredits: 4,
		},
	}
}

func TestDegreeAuditCSV(t *testing.T) {
	svc := NewExportService(&mockAuditLedger{rows: auditRows()}, &mockProgressCalc{}, true, zap.NewNop())

	file, err := svc.DegreeAudit(context.Background(), "s1", "p-cse", FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.Equal(t, "degree-audit-s1-CSE.csv", file.Filename)

	body := string(file.Content)
	assert.Contains(t, body, "CS201")
	assert.Contains(t, body, "Discipline Core,4 / 38")
	assert.Contains(t, body, "2.5%")
}

func TestDegreeAuditPDF(t *testing.T) {
	svc := NewExportService(&mockAuditLedger{rows: auditRows()}, &mockProgressCalc{}, true, zap.NewNop())

	file, err := svc.DegreeAudit(context.Background(), "s1", "p-cse", FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasPrefix(string(file.Content), "%PDF"))
}

func TestDegreeAuditDisabled(t *testing.T) {
	svc := NewExportService(&mockAuditLedger{}, &mockProgressCalc{}, false, zap.NewNop())

	_, err := svc.DegreeAudit(context.Background(), "s1", "p-cse", FormatCSV)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disabled")
}

func TestDegreeAuditUnknownFormat(t *testing.T) {
	svc := NewExportService(&mockAuditLedger{}, &mockProgressCalc{}, true, zap.NewNop())

	_, err := svc.DegreeAudit(context.Background(), "s1", "p-cse", "xlsx")
	require.Error(t, err)
}
