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

func newStudentRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestStudentRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "email", "full_name", "branch", "do_istp", "do_mtp2", "created_at", "updated_at"}).
		AddRow("s1", "s1@example.edu", "Student One", "CSE", true, true, time.Now(), time.Now())
	mock.ExpectQuery("(?s)SELECT .+ FROM students WHERE id = \\$1").
		WithArgs("s1").
		WillReturnRows(rows)

	student, err := repo.FindByID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "CSE", student.Branch)
	assert.True(t, student.DoISTP)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryUpdatePreferences(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("UPDATE students SET do_istp = \\$2, do_mtp2 = \\$3").
		WithArgs("s1", false, true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdatePreferences(context.Background(), "s1", false, true))

	mock.ExpectExec("UPDATE students SET do_istp = \\$2, do_mtp2 = \\$3").
		WithArgs("missing", false, true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.UpdatePreferences(context.Background(), "missing", false, true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryFindPrimaryProgram(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "program_id", "is_primary", "start_term", "status", "created_at"}).
		AddRow("sp1", "s1", "p1", true, 1, "ACTIVE", time.Now())
	mock.ExpectQuery("(?s)SELECT .+ FROM student_programs\\s+WHERE student_id = \\$1 AND is_primary = TRUE AND status = \\$2").
		WithArgs("s1", models.StudentProgramActive).
		WillReturnRows(rows)

	membership, err := repo.FindPrimaryProgram(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "p1", membership.ProgramID)
	assert.True(t, membership.IsPrimary)

	mock.ExpectQuery("(?s)SELECT .+ FROM student_programs\\s+WHERE student_id = \\$1 AND is_primary = TRUE AND status = \\$2").
		WithArgs("s2", models.StudentProgramActive).
		WillReturnError(sql.ErrNoRows)
	_, err = repo.FindPrimaryProgram(context.Background(), "s2")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStudentRepositoryProgramMembership(t *testing.T) {
	db, mock, cleanup := newStudentRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM student_programs").
		WithArgs("s1", models.StudentProgramActive).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	exists, err := repo.HasActivePrimary(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, exists)

	mock.ExpectExec("INSERT INTO student_programs").
		WillReturnResult(sqlmock.NewResult(1, 1))

	membership := &models.StudentProgram{StudentID: "s1", ProgramID: "p1", IsPrimary: true, StartTerm: 1}
	require.NoError(t, repo.CreateProgramMembership(context.Background(), membership))
	assert.NotEmpty(t, membership.ID)
	assert.Equal(t, models.StudentProgramActive, membership.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
