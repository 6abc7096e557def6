package models

import "time"

// EnrollmentStatus represents the lifecycle of a course attempt.
type EnrollmentStatus string

// Possible enrollment statuses.
const (
	EnrollmentStatusInProgress EnrollmentStatus = "IN_PROGRESS"
	EnrollmentStatusCompleted  EnrollmentStatus = "COMPLETED"
	EnrollmentStatusWithdrawn  EnrollmentStatus = "WITHDRAWN"
)

// Grade is the recorded outcome of a completed enrollment. P earns credit
// without a grade point; AU/AUF are audit outcomes that never earn credit.
type Grade string

const (
	GradeA         Grade = "A"
	GradeAMinus    Grade = "A-"
	GradeB         Grade = "B"
	GradeBMinus    Grade = "B-"
	GradeC         Grade = "C"
	GradeCMinus    Grade = "C-"
	GradeD         Grade = "D"
	GradeF         Grade = "F"
	GradePass      Grade = "P"
	GradeAuditPass Grade = "AU"
	GradeAuditFail Grade = "AUF"
)

// Audit reports whether the grade belongs to the audit mode, which sits
// entirely outside the credit system.
func (g Grade) Audit() bool {
	return g == GradeAuditPass || g == GradeAuditFail
}

// Earning reports whether the grade earns the course's credits.
func (g Grade) Earning() bool {
	switch g {
	case GradeA, GradeAMinus, GradeB, GradeBMinus, GradeC, GradeCMinus, GradeD, GradePass:
		return true
	}
	return false
}

// InternshipType distinguishes the internship modes with fixed credit awards.
type InternshipType string

const (
	InternshipRemote InternshipType = "REMOTE"
	InternshipOnsite InternshipType = "ONSITE"
)

// Enrollment records one course attempt by a student in a term. The category
// is copied from the branch mapping at enrollment time and stays authoritative
// for this attempt even if the mapping changes later.
type Enrollment struct {
	ID        string `db:"id" json:"id"`
	StudentID string `db:"student_id" json:"student_id"`
	CourseID  string `db:"course_id" json:"course_id"`
	ProgramID string `db:"program_id" json:"program_id"`
	Term      int    `db:"term" json:"term"`
	Year      int    `db:"year" json:"year"`

	Category CourseCategory   `db:"category" json:"category"`
	Status   EnrollmentStatus `db:"status" json:"status"`
	Grade    *Grade           `db:"grade" json:"grade,omitempty"`

	IsPassFail        bool            `db:"is_pass_fail" json:"is_pass_fail"`
	IsInternship      bool            `db:"is_internship" json:"is_internship"`
	InternshipType    *InternshipType `db:"internship_type" json:"internship_type,omitempty"`
	InternshipCredits int             `db:"internship_credits" json:"internship_credits"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// CountsCompleted reports whether this attempt contributes to completed
// aggregates: finished, graded, and the grade earns credit. Audit outcomes
// and failures keep the row in the ledger but earn nothing.
func (e Enrollment) CountsCompleted() bool {
	return e.Status == EnrollmentStatusCompleted && e.Grade != nil && e.Grade.Earning()
}

// EnrollmentDetail enriches an enrollment with course info from the catalog.
type EnrollmentDetail struct {
	Enrollment
	CourseCode    string `db:"course_code" json:"course_code"`
	CourseName    string `db:"course_name" json:"course_name"`
	CourseCredits int    `db:"course_credits" json:"course_credits"`
}

// EnrollmentFilter defines filters for listing a student's ledger.
type EnrollmentFilter struct {
	StudentID string
	ProgramID string
	Term      int
	Status    EnrollmentStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

// BulkImportRow is one row of an enrollment history import.
type BulkImportRow struct {
	CourseCode string         `json:"course_code" validate:"required"`
	Term       int            `json:"term" validate:"required,min=1,max=12"`
	Category   CourseCategory `json:"category"`
	Grade      *Grade         `json:"grade,omitempty"`
	IsPassFail bool           `json:"is_pass_fail"`
}

// BulkImportRowResult records the outcome of one imported row.
type BulkImportRowResult struct {
	CourseCode string `json:"course_code"`
	Action     string `json:"action"`
	ID         string `json:"id"`
}

// BulkImportRowError records a row that could not be imported.
type BulkImportRowError struct {
	CourseCode string `json:"course_code"`
	Error      string `json:"error"`
}

// BulkImportResult aggregates per-row outcomes; one bad row never aborts the
// batch.
type BulkImportResult struct {
	Results []BulkImportRowResult `json:"results"`
	Errors  []BulkImportRowError  `json:"errors"`
	Total   int                   `json:"total"`
}
