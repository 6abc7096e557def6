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

// CourseRepository handles persistence of courses and their branch mappings.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseColumns = `id, code, name, credits, department, pass_fail_eligible, is_branch_specific,
allowed_branches, required_term, is_active, created_at, updated_at`

// FindByID returns a course by its ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE id = $1", courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByCode returns a course by its unique code.
func (r *CourseRepository) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM courses WHERE code = $1", courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, code); err != nil {
		return nil, err
	}
	return &course, nil
}

// List returns courses filtered by the provided criteria.
func (r *CourseRepository) List(ctx context.Context, filter models.CourseFilter) ([]models.Course, int, error) {
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(code ILIKE $%d OR name ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.Active != nil {
		conditions = append(conditions, fmt.Sprintf("is_active = $%d", len(args)+1))
		args = append(args, *filter.Active)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"code":    "code",
		"name":    "name",
		"credits": "credits",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "code"
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
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s FROM courses%s ORDER BY %s %s LIMIT %d OFFSET %d",
		courseColumns, clause, orderBy, order, size, offset)

	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list courses: %w", err)
	}

	countQuery := "SELECT COUNT(*) FROM courses" + clause
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}
	return courses, total, nil
}

// Create persists a new course.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	course.CreatedAt = now
	course.UpdatedAt = now

	const query = `INSERT INTO courses (id, code, name, credits, department, pass_fail_eligible,
        is_branch_specific, allowed_branches, required_term, is_active, created_at, updated_at)
        VALUES (:id, :code, :name, :credits, :department, :pass_fail_eligible,
        :is_branch_specific, :allowed_branches, :required_term, :is_active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// ExistsByCode reports whether a course with the code already exists.
func (r *CourseRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var exists bool
	const query = "SELECT EXISTS(SELECT 1 FROM courses WHERE code = $1)"
	if err := r.db.GetContext(ctx, &exists, query, code); err != nil {
		return false, fmt.Errorf("check course code: %w", err)
	}
	return exists, nil
}

// FindMapping returns the branch mapping for a course, if any.
func (r *CourseRepository) FindMapping(ctx context.Context, courseID, branch string) (*models.CourseBranchMapping, error) {
	const query = `SELECT id, course_id, branch, category, is_required, suggested_term, created_at, updated_at
        FROM course_branch_mappings WHERE course_id = $1 AND branch = $2`
	var mapping models.CourseBranchMapping
	if err := r.db.GetContext(ctx, &mapping, query, courseID, branch); err != nil {
		return nil, err
	}
	return &mapping, nil
}

// FindMappingByCourseCode resolves the mapping via the course code in one query.
func (r *CourseRepository) FindMappingByCourseCode(ctx context.Context, courseCode, branch string) (*models.CourseBranchMapping, error) {
	const query = `SELECT m.id, m.course_id, m.branch, m.category, m.is_required, m.suggested_term,
        m.created_at, m.updated_at
        FROM course_branch_mappings m
        JOIN courses c ON c.id = m.course_id
        WHERE c.code = $1 AND m.branch = $2`
	var mapping models.CourseBranchMapping
	if err := r.db.GetContext(ctx, &mapping, query, courseCode, branch); err != nil {
		return nil, err
	}
	return &mapping, nil
}

// ListMappings returns mappings with course detail, filtered by branch and course.
func (r *CourseRepository) ListMappings(ctx context.Context, filter models.MappingFilter) ([]models.CourseBranchMappingDetail, error) {
	base := `SELECT m.id, m.course_id, m.branch, m.category, m.is_required, m.suggested_term,
        m.created_at, m.updated_at,
        c.code AS course_code, c.name AS course_name, c.credits AS course_credits
        FROM course_branch_mappings m
        JOIN courses c ON c.id = m.course_id`
	var conditions []string
	var args []interface{}

	if filter.Branch != "" {
		conditions = append(conditions, fmt.Sprintf("m.branch = $%d", len(args)+1))
		args = append(args, filter.Branch)
	}
	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("m.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.Category != "" {
		conditions = append(conditions, fmt.Sprintf("m.category = $%d", len(args)+1))
		args = append(args, filter.Category)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	query := base + clause + " ORDER BY m.branch ASC, c.code ASC"
	var mappings []models.CourseBranchMappingDetail
	if err := r.db.SelectContext(ctx, &mappings, query, args...); err != nil {
		return nil, fmt.Errorf("list mappings: %w", err)
	}
	return mappings, nil
}

// UpsertMapping creates or updates the mapping keyed by (course, branch).
func (r *CourseRepository) UpsertMapping(ctx context.Context, mapping *models.CourseBranchMapping) error {
	if mapping.ID == "" {
		mapping.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if mapping.CreatedAt.IsZero() {
		mapping.CreatedAt = now
	}
	mapping.UpdatedAt = now

	const query = `INSERT INTO course_branch_mappings (id, course_id, branch, category, is_required,
        suggested_term, created_at, updated_at)
        VALUES (:id, :course_id, :branch, :category, :is_required, :suggested_term, :created_at, :updated_at)
        ON CONFLICT (course_id, branch) DO UPDATE SET
        category = EXCLUDED.category, is_required = EXCLUDED.is_required,
        suggested_term = EXCLUDED.suggested_term, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, mapping); err != nil {
		return fmt.Errorf("upsert mapping: %w", err)
	}
	return nil
}
