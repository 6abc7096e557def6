package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/acadbase/degree-progress-api/internal/models"
)

// StudentRepository handles persistence of students, their preference
// toggles, and their program memberships.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByID returns a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	const query = `SELECT id, email, full_name, branch, do_istp, do_mtp2, created_at, updated_at
        FROM students WHERE id = $1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// UpdatePreferences stores the project toggles. Historical aggregates are
// never recomputed; only future calls observe the change.
func (r *StudentRepository) UpdatePreferences(ctx context.Context, id string, doISTP, doMTP2 bool) error {
	const query = `UPDATE students SET do_istp = $2, do_mtp2 = $3, updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, doISTP, doMTP2, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update preferences: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("update preferences: student %s not found", id)
	}
	return nil
}

// FindPrimaryProgram returns the student's active primary program membership.
func (r *StudentRepository) FindPrimaryProgram(ctx context.Context, studentID string) (*models.StudentProgram, error) {
	const query = `SELECT id, student_id, program_id, is_primary, start_term, status, created_at
        FROM student_programs
        WHERE student_id = $1 AND is_primary = TRUE AND status = $2`
	var membership models.StudentProgram
	if err := r.db.GetContext(ctx, &membership, query, studentID, models.StudentProgramActive); err != nil {
		return nil, err
	}
	return &membership, nil
}

// ListPrograms returns all program memberships for a student.
func (r *StudentRepository) ListPrograms(ctx context.Context, studentID string) ([]models.StudentProgram, error) {
	const query = `SELECT id, student_id, program_id, is_primary, start_term, status, created_at
        FROM student_programs WHERE student_id = $1 ORDER BY is_primary DESC, created_at ASC`
	var memberships []models.StudentProgram
	if err := r.db.SelectContext(ctx, &memberships, query, studentID); err != nil {
		return nil, fmt.Errorf("list student programs: %w", err)
	}
	return memberships, nil
}

// HasActivePrimary reports whether the student already has an active primary
// program.
func (r *StudentRepository) HasActivePrimary(ctx context.Context, studentID string) (bool, error) {
	var exists bool
	const query = `SELECT EXISTS(SELECT 1 FROM student_programs
        WHERE student_id = $1 AND is_primary = TRUE AND status = $2)`
	if err := r.db.GetContext(ctx, &exists, query, studentID, models.StudentProgramActive); err != nil {
		return false, fmt.Errorf("check primary program: %w", err)
	}
	return exists, nil
}

// CreateProgramMembership persists a student-program relation.
func (r *StudentRepository) CreateProgramMembership(ctx context.Context, membership *models.StudentProgram) error {
	if membership.ID == "" {
		membership.ID = uuid.NewString()
	}
	if membership.CreatedAt.IsZero() {
		membership.CreatedAt = time.Now().UTC()
	}
	if membership.Status == "" {
		membership.Status = models.StudentProgramActive
	}
	const query = `INSERT INTO student_programs (id, student_id, program_id, is_primary, start_term, status, created_at)
        VALUES (:id, :student_id, :program_id, :is_primary, :start_term, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, membership); err != nil {
		return fmt.Errorf("create program membership: %w", err)
	}
	return nil
}
