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

// ProgramRepository handles persistence of degree programs.
type ProgramRepository struct {
	db *sqlx.DB
}

// NewProgramRepository constructs the repository.
func NewProgramRepository(db *sqlx.DB) *ProgramRepository {
	return &ProgramRepository{db: db}
}

const programColumns = `id, code, name, department, track, total_credits, ic_credits, dc_credits,
de_credits, fe_credits, mtp_credits, istp_credits, mtp_required, istp_allowed,
min_credits_for_mtp, min_term_for_mtp, created_at, updated_at`

// FindByID returns a program by its ID.
func (r *ProgramRepository) FindByID(ctx context.Context, id string) (*models.Program, error) {
	query := fmt.Sprintf("SELECT %s FROM programs WHERE id = $1", programColumns)
	var program models.Program
	if err := r.db.GetContext(ctx, &program, query, id); err != nil {
		return nil, err
	}
	return &program, nil
}

// FindByCode returns a program by its unique code.
func (r *ProgramRepository) FindByCode(ctx context.Context, code string) (*models.Program, error) {
	query := fmt.Sprintf("SELECT %s FROM programs WHERE code = $1", programColumns)
	var program models.Program
	if err := r.db.GetContext(ctx, &program, query, code); err != nil {
		return nil, err
	}
	return &program, nil
}

// List returns programs filtered by track.
func (r *ProgramRepository) List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, error) {
	var conditions []string
	var args []interface{}

	if filter.Track != "" {
		conditions = append(conditions, fmt.Sprintf("track = $%d", len(args)+1))
		args = append(args, filter.Track)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s FROM programs%s ORDER BY code ASC", programColumns, clause)
	var programs []models.Program
	if err := r.db.SelectContext(ctx, &programs, query, args...); err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	return programs, nil
}

// Upsert creates or refreshes a program keyed by code. Used by catalog
// seeding only; programs are immutable at runtime.
func (r *ProgramRepository) Upsert(ctx context.Context, program *models.Program) error {
	if program.ID == "" {
		program.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if program.CreatedAt.IsZero() {
		program.CreatedAt = now
	}
	program.UpdatedAt = now

	const query = `INSERT INTO programs (id, code, name, department, track, total_credits, ic_credits,
        dc_credits, de_credits, fe_credits, mtp_credits, istp_credits, mtp_required, istp_allowed,
        min_credits_for_mtp, min_term_for_mtp, created_at, updated_at)
        VALUES (:id, :code, :name, :department, :track, :total_credits, :ic_credits,
        :dc_credits, :de_credits, :fe_credits, :mtp_credits, :istp_credits, :mtp_required, :istp_allowed,
        :min_credits_for_mtp, :min_term_for_mtp, :created_at, :updated_at)
        ON CONFLICT (code) DO UPDATE SET
        name = EXCLUDED.name, department = EXCLUDED.department, track = EXCLUDED.track,
        total_credits = EXCLUDED.total_credits, ic_credits = EXCLUDED.ic_credits,
        dc_credits = EXCLUDED.dc_credits, de_credits = EXCLUDED.de_credits,
        fe_credits = EXCLUDED.fe_credits, mtp_credits = EXCLUDED.mtp_credits,
        istp_credits = EXCLUDED.istp_credits, mtp_required = EXCLUDED.mtp_required,
        istp_allowed = EXCLUDED.istp_allowed, min_credits_for_mtp = EXCLUDED.min_credits_for_mtp,
        min_term_for_mtp = EXCLUDED.min_term_for_mtp, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, program); err != nil {
		return fmt.Errorf("upsert program: %w", err)
	}
	return nil
}
