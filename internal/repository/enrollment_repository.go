package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadbase/degree-progress-api/internal/models"
)

// Grades that earn no credit. Failed and audit-graded attempts stay in the
// ledger but are excluded from every completed aggregate.
const nonEarningGrades = "('F', 'AU', 'AUF')"

// EnrollmentRepository handles persistence of the enrollment ledger.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

const enrollmentColumns = `e.id, e.student_id, e.course_id, e.program_id, e.term, e.year, e.category,
e.status, e.grade, e.is_pass_fail, e.is_internship, e.internship_type, e.internship_credits,
e.created_at, e.updated_at`

const enrollmentDetailColumns = enrollmentColumns + `,
c.code AS course_code, c.name AS course_name, c.credits AS course_credits`

// List returns enrollments with course detail filtered by the criteria.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	base := ` FROM enrollments e JOIN courses c ON c.id = e.course_id`
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("e.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.ProgramID != "" {
		conditions = append(conditions, fmt.Sprintf("e.program_id = $%d", len(args)+1))
		args = append(args, filter.ProgramID)
	}
	if filter.Term > 0 {
		conditions = append(conditions, fmt.Sprintf("e.term = $%d", len(args)+1))
		args = append(args, filter.Term)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("e.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"term":        "e.term",
		"course_code": "c.code",
		"created_at":  "e.created_at",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "e.term"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s%s%s ORDER BY %s %s, c.code ASC LIMIT %d OFFSET %d",
		enrollmentDetailColumns, base, clause, orderBy, order, size, offset)

	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}

	countQuery := "SELECT COUNT(*)" + base + clause
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}
	return enrollments, total, nil
}

// ListForProgram returns the full ledger for a student scoped to a program,
// with course credits for aggregation.
func (r *EnrollmentRepository) ListForProgram(ctx context.Context, studentID, programID string) ([]models.EnrollmentDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments e JOIN courses c ON c.id = e.course_id
        WHERE e.student_id = $1 AND e.program_id = $2`, enrollmentDetailColumns)
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID, programID); err != nil {
		return nil, fmt.Errorf("list program enrollments: %w", err)
	}
	return enrollments, nil
}

// FindByID returns an enrollment by its ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	query := fmt.Sprintf("SELECT %s FROM enrollments e WHERE e.id = $1", enrollmentColumns)
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindDetailByID returns an enrollment with course detail.
func (r *EnrollmentRepository) FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments e JOIN courses c ON c.id = e.course_id
        WHERE e.id = $1`, enrollmentDetailColumns)
	var detail models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FindByNaturalKey returns the enrollment for (student, course, term), if any.
func (r *EnrollmentRepository) FindByNaturalKey(ctx context.Context, studentID, courseID string, term int) (*models.Enrollment, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollments e
        WHERE e.student_id = $1 AND e.course_id = $2 AND e.term = $3`, enrollmentColumns)
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, studentID, courseID, term); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Create persists a new enrollment record.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	enrollment.CreatedAt = now
	enrollment.UpdatedAt = now
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusInProgress
	}

	const query = `INSERT INTO enrollments (id, student_id, course_id, program_id, term, year, category,
        status, grade, is_pass_fail, is_internship, internship_type, internship_credits, created_at, updated_at)
        VALUES (:id, :student_id, :course_id, :program_id, :term, :year, :category,
        :status, :grade, :is_pass_fail, :is_internship, :internship_type, :internship_credits, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// Update persists changed fields of an existing enrollment.
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE enrollments SET category = :category, status = :status, grade = :grade,
        is_pass_fail = :is_pass_fail, is_internship = :is_internship, internship_type = :internship_type,
        internship_credits = :internship_credits, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}
	return nil
}

// Delete removes an enrollment from the ledger.
func (r *EnrollmentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM enrollments WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return nil
}

// SumPassFailCredits computes a student's career pass/fail credits from the
// ledger. Always derived, never read from a stored counter.
func (r *EnrollmentRepository) SumPassFailCredits(ctx context.Context, studentID string) (int, error) {
	const query = `SELECT COALESCE(SUM(c.credits), 0) FROM enrollments e
        JOIN courses c ON c.id = e.course_id
        WHERE e.student_id = $1 AND e.is_pass_fail = TRUE AND e.status <> 'WITHDRAWN'`
	var total int
	if err := r.db.GetContext(ctx, &total, query, studentID); err != nil {
		return 0, fmt.Errorf("sum pass/fail credits: %w", err)
	}
	return total, nil
}

// SumPassFailCreditsInTerm computes pass/fail credits recorded in one term.
func (r *EnrollmentRepository) SumPassFailCreditsInTerm(ctx context.Context, studentID string, term int) (int, error) {
	const query = `SELECT COALESCE(SUM(c.credits), 0) FROM enrollments e
        JOIN courses c ON c.id = e.course_id
        WHERE e.student_id = $1 AND e.term = $2 AND e.is_pass_fail = TRUE AND e.status <> 'WITHDRAWN'`
	var total int
	if err := r.db.GetContext(ctx, &total, query, studentID, term); err != nil {
		return 0, fmt.Errorf("sum term pass/fail credits: %w", err)
	}
	return total, nil
}

// SumCompletedCredits totals credits a student has earned within a program.
func (r *EnrollmentRepository) SumCompletedCredits(ctx context.Context, studentID, programID string) (int, error) {
	query := fmt.Sprintf(`SELECT COALESCE(SUM(c.credits), 0) FROM enrollments e
        JOIN courses c ON c.id = e.course_id
        WHERE e.student_id = $1 AND e.program_id = $2 AND e.status = 'COMPLETED'
        AND e.grade IS NOT NULL AND e.grade NOT IN %s`, nonEarningGrades)
	var total int
	if err := r.db.GetContext(ctx, &total, query, studentID, programID); err != nil {
		return 0, fmt.Errorf("sum completed credits: %w", err)
	}
	return total, nil
}

// MaxTerm returns the student's latest enrolled term across all programs.
// Zero means no enrollments yet.
func (r *EnrollmentRepository) MaxTerm(ctx context.Context, studentID string) (int, error) {
	const query = `SELECT COALESCE(MAX(term), 0) FROM enrollments WHERE student_id = $1`
	var term int
	if err := r.db.GetContext(ctx, &term, query, studentID); err != nil {
		return 0, fmt.Errorf("max term: %w", err)
	}
	return term, nil
}

// CompletedCourseCredits maps course IDs to credits for a student's earned
// courses within a program. Used for minor overlap computation.
func (r *EnrollmentRepository) CompletedCourseCredits(ctx context.Context, studentID, programID string) (map[string]int, error) {
	query := fmt.Sprintf(`SELECT e.course_id, c.credits FROM enrollments e
        JOIN courses c ON c.id = e.course_id
        WHERE e.student_id = $1 AND e.program_id = $2 AND e.status = 'COMPLETED'
        AND e.grade IS NOT NULL AND e.grade NOT IN %s`, nonEarningGrades)
	rows, err := r.db.QueryxContext(ctx, query, studentID, programID)
	if err != nil {
		return nil, fmt.Errorf("completed course credits: %w", err)
	}
	defer rows.Close()

	credits := make(map[string]int)
	for rows.Next() {
		var courseID string
		var courseCredits int
		if err := rows.Scan(&courseID, &courseCredits); err != nil {
			return nil, fmt.Errorf("scan completed course: %w", err)
		}
		credits[courseID] = courseCredits
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate completed courses: %w", err)
	}
	return credits, nil
}
