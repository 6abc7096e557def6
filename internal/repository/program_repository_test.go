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

func newProgramRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func programRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "code", "name", "department", "track", "total_credits", "ic_credits", "dc_credits",
		"de_credits", "fe_credits", "mtp_credits", "istp_credits", "mtp_required", "istp_allowed",
		"min_credits_for_mtp", "min_term_for_mtp", "created_at", "updated_at",
	})
}

func TestProgramRepositoryFindByCode(t *testing.T) {
	db, mock, cleanup := newProgramRepoMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	rows := programRows().
		AddRow("p1", "CSE", "B.Tech Computer Science and Engineering", "CSE", "BTECH",
			160, 60, 38, 30, 22, 8, 4, true, true, 90, 7, time.Now(), time.Now())
	mock.ExpectQuery("(?s)SELECT .+ FROM programs WHERE code = \\$1").
		WithArgs("CSE").
		WillReturnRows(rows)

	program, err := repo.FindByCode(context.Background(), "CSE")
	require.NoError(t, err)
	assert.Equal(t, "CSE", program.Code)
	assert.Equal(t, 160, program.TotalCredits)
	assert.True(t, program.MTPRequired)
	assert.Equal(t, 90, program.MinCreditsForMTP)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryFindByIDMiss(t *testing.T) {
	db, mock, cleanup := newProgramRepoMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	mock.ExpectQuery("(?s)SELECT .+ FROM programs WHERE id = \\$1").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryListByTrack(t *testing.T) {
	db, mock, cleanup := newProgramRepoMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	rows := programRows().
		AddRow("p2", "BSCS", "B.S. Chemical Sciences", "SCEE", "BS",
			148, 60, 40, 24, 24, 0, 0, false, false, 90, 7, time.Now(), time.Now())
	mock.ExpectQuery("(?s)SELECT .+ FROM programs WHERE track = \\$1 ORDER BY code ASC").
		WithArgs(models.TrackScience).
		WillReturnRows(rows)

	programs, err := repo.List(context.Background(), models.ProgramFilter{Track: models.TrackScience})
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, "BSCS", programs[0].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProgramRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newProgramRepoMock(t)
	defer cleanup()
	repo := NewProgramRepository(db)

	mock.ExpectExec("INSERT INTO programs").
		WillReturnResult(sqlmock.NewResult(1, 1))

	program := &models.Program{Code: "CSE", Name: "B.Tech Computer Science and Engineering", Track: models.TrackEngineering}
	require.NoError(t, repo.Upsert(context.Background(), program))
	assert.NotEmpty(t, program.ID)
	assert.False(t, program.UpdatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
