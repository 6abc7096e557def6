package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadbase/degree-progress-api/internal/models"
)

func newEnrollmentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func enrollmentDetailRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "student_id", "course_id", "program_id", "term", "year", "category",
		"status", "grade", "is_pass_fail", "is_internship", "internship_type", "internship_credits",
		"created_at", "updated_at", "course_code", "course_name", "course_credits",
	})
}

func TestEnrollmentRepositoryList(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := enrollmentDetailRows().
		AddRow("e1", "s1", "c1", "p1", 3, 2026, "DISCIPLINE_CORE",
			"COMPLETED", "A", false, false, nil, 0,
			time.Now(), time.Now(), "CS201", "Data Structures", 4)
	mock.ExpectQuery("(?s)SELECT .+ FROM enrollments e JOIN courses c ON c.id = e.course_id WHERE e.student_id = \\$1 ORDER BY e.term ASC").
		WithArgs("s1").
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM enrollments e JOIN courses c ON c.id = e.course_id WHERE e.student_id = \\$1").
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	list, total, err := repo.List(context.Background(), models.EnrollmentFilter{StudentID: "s1"})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "CS201", list[0].CourseCode)
	assert.Equal(t, 4, list[0].CourseCredits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreateDefaultsStatus(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("INSERT INTO enrollments").
		WillReturnResult(sqlmock.NewResult(1, 1))

	enrollment := &models.Enrollment{StudentID: "s1", CourseID: "c1", ProgramID: "p1", Term: 3, Year: 2026}
	require.NoError(t, repo.Create(context.Background(), enrollment))
	assert.NotEmpty(t, enrollment.ID)
	assert.Equal(t, models.EnrollmentStatusInProgress, enrollment.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryFindByNaturalKeyMiss(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery("(?s)SELECT .+ FROM enrollments e\\s+WHERE e.student_id = \\$1 AND e.course_id = \\$2 AND e.term = \\$3").
		WithArgs("s1", "c1", 3).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByNaturalKey(context.Background(), "s1", "c1", 3)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryPassFailSums(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(c.credits\\), 0\\) FROM enrollments e\\s+JOIN courses c ON c.id = e.course_id\\s+WHERE e.student_id = \\$1 AND e.is_pass_fail = TRUE").
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(6))

	total, err := repo.SumPassFailCredits(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 6, total)

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(c.credits\\), 0\\) FROM enrollments e\\s+JOIN courses c ON c.id = e.course_id\\s+WHERE e.student_id = \\$1 AND e.term = \\$2").
		WithArgs("s1", 4).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(3))

	termTotal, err := repo.SumPassFailCreditsInTerm(context.Background(), "s1", 4)
	require.NoError(t, err)
	assert.Equal(t, 3, termTotal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCompletedAggregates(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(c.credits\\), 0\\) FROM enrollments e\\s+JOIN courses c ON c.id = e.course_id\\s+WHERE e.student_id = \\$1 AND e.program_id = \\$2 AND e.status = 'COMPLETED'").
		WithArgs("s1", "p1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(95))

	completed, err := repo.SumCompletedCredits(context.Background(), "s1", "p1")
	require.NoError(t, err)
	assert.Equal(t, 95, completed)

	mock.ExpectQuery("SELECT COALESCE\\(MAX\\(term\\), 0\\) FROM enrollments WHERE student_id = \\$1").
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(7))

	term, err := repo.MaxTerm(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, 7, term)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCompletedCourseCredits(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"course_id", "credits"}).
		AddRow("c1", 4).
		AddRow("c2", 3)
	mock.ExpectQuery("SELECT e.course_id, c.credits FROM enrollments e").
		WithArgs("s1", "p1").
		WillReturnRows(rows)

	credits, err := repo.CompletedCourseCredits(context.Background(), "s1", "p1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"c1": 4, "c2": 3}, credits)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryUpdateAndDelete(t *testing.T) {
	db, mock, cleanup := newEnrollmentRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("UPDATE enrollments SET").
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.Update(context.Background(), &models.Enrollment{ID: "e1", Status: models.EnrollmentStatusCompleted}))

	mock.ExpectExec("DELETE FROM enrollments WHERE id = \\$1").
		WithArgs("e1").
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.Delete(context.Background(), "e1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
