package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/acadbase/degree-progress-api/internal/models"
	appErrors "github.com/acadbase/degree-progress-api/pkg/errors"
	"github.com/acadbase/degree-progress-api/pkg/export"
)

// ExportFormat selects the degree-audit output encoding.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

type auditLedgerReader interface {
	ListForProgram(ctx context.Context, studentID, programID string) ([]models.EnrollmentDetail, error)
}

type progressCalculator interface {
	CalculateProgress(ctx context.Context, studentID, programID string) (*models.ProgramProgress, error)
}

// ExportFile is a rendered degree audit ready to stream to the client.
type ExportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders degree audits: the full ledger for a program followed
// by the per-category progress summary.
type ExportService struct {
	ledger   auditLedgerReader
	progress progressCalculator
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	enabled  bool
	logger   *zap.Logger
}

// NewExportService constructs ExportService.
func NewExportService(ledger auditLedgerReader, progress progressCalculator, enabled bool, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		ledger:   ledger,
		progress: progress,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		enabled:  enabled,
		logger:   logger,
	}
}

// DegreeAudit renders the audit for one student/program pair.
func (s *ExportService) DegreeAudit(ctx context.Context, studentID, programID string, format ExportFormat) (*ExportFile, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "exports are disabled")
	}
	format = ExportFormat(strings.ToLower(string(format)))
	if format != FormatCSV && format != FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	progress, err := s.progress.CalculateProgress(ctx, studentID, programID)
	if err != nil {
		return nil, err
	}
	enrollments, err := s.ledger.ListForProgram(ctx, studentID, programID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}

	dataset := auditDataset(progress, enrollments)
	filename := fmt.Sprintf("degree-audit-%s-%s.%s", studentID, progress.ProgramCode, format)

	switch format {
	case FormatPDF:
		content, err := s.pdf.Render(dataset, fmt.Sprintf("Degree Audit - %s", progress.ProgramName))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{Content: content, ContentType: "application/pdf", Filename: filename}, nil
	default:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{Content: content, ContentType: "text/csv", Filename: filename}, nil
	}
}

func auditDataset(progress *models.ProgramProgress, enrollments []models.EnrollmentDetail) export.Dataset {
	rows := make([][]string, 0, len(enrollments)+8)
	for _, e := range enrollments {
		grade := ""
		if e.Grade != nil {
			grade = string(*e.Grade)
		}
		credits := e.CourseCredits
		if e.IsInternship {
			credits = e.InternshipCredits
		}
		rows = append(rows, []string{
			e.CourseCode,
			e.CourseName,
			strconv.Itoa(e.Term),
			string(e.Category),
			strconv.Itoa(credits),
			string(e.Status),
			grade,
			strconv.FormatBool(e.IsPassFail),
		})
	}

	// Summary block after the ledger rows.
	rows = append(rows,
		[]string{},
		summaryRow("Institute Core", progress.Completed.InstituteCore, progress.Required.InstituteCore),
		summaryRow("Discipline Core", progress.Completed.DisciplineCore, progress.Required.DisciplineCore),
		summaryRow("Discipline Elective", progress.Completed.DisciplineElective, progress.Required.DisciplineElective),
		summaryRow("Free Elective", progress.Completed.FreeElective, progress.Required.FreeElective),
		summaryRow("Major Project", progress.Completed.MajorProject, progress.Required.MajorProject),
		summaryRow("Independent Project", progress.Completed.IndependentProject, progress.Required.IndependentProject),
		summaryRow("Total", progress.Completed.Total, progress.Required.Total),
		[]string{"Completion", fmt.Sprintf("%.1f%%", progress.Percentage)},
	)

	return export.Dataset{
		Headers: []string{"Course", "Name", "Term", "Category", "Credits", "Status", "Grade", "Pass/Fail"},
		Rows:    rows,
	}
}

func summaryRow(label string, completed, required int) []string {
	return []string{label, fmt.Sprintf("%d / %d", completed, required)}
}
