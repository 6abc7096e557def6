package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/acadbase/degree-progress-api/internal/models"
)

type mockProgramRepo struct {
	programs map[string]*models.Program
	listed   int
}

func (m *mockProgramRepo) FindByID(ctx context.Context, id string) (*models.Program, error) {
	for _, p := range m.programs {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockProgramRepo) FindByCode(ctx context.Context, code string) (*models.Program, error) {
	if p, ok := m.programs[code]; ok {
		return p, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockProgramRepo) List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, error) {
	m.listed++
	var out []models.Program
	for _, p := range m.programs {
		if filter.Track != "" && p.Track != filter.Track {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func TestProgramServiceGet(t *testing.T) {
	repo := &mockProgramRepo{programs: map[string]*models.Program{
		"CSE": {ID: "p1", Code: "CSE", TotalCredits: 160, Track: models.TrackEngineering},
	}}
	svc := NewProgramService(repo, nil, ProgramCacheConfig{}, zap.NewNop())

	program, err := svc.Get(context.Background(), "CSE")
	require.NoError(t, err)
	assert.Equal(t, 160, program.TotalCredits)

	_, err = svc.Get(context.Background(), "NOPE")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestProgramServiceListByTrack(t *testing.T) {
	repo := &mockProgramRepo{programs: map[string]*models.Program{
		"CSE":  {ID: "p1", Code: "CSE", Track: models.TrackEngineering},
		"BSCS": {ID: "p2", Code: "BSCS", Track: models.TrackScience},
	}}
	svc := NewProgramService(repo, nil, ProgramCacheConfig{}, zap.NewNop())

	programs, err := svc.List(context.Background(), models.ProgramFilter{Track: models.TrackScience})
	require.NoError(t, err)
	require.Len(t, programs, 1)
	assert.Equal(t, "BSCS", programs[0].Code)
}

func TestProgramServiceListWithoutCache(t *testing.T) {
	// A nil redis client must not be touched even with caching enabled.
	repo := &mockProgramRepo{programs: map[string]*models.Program{
		"CSE": {ID: "p1", Code: "CSE", Track: models.TrackEngineering},
	}}
	svc := NewProgramService(repo, nil, ProgramCacheConfig{Enabled: true}, zap.NewNop())

	programs, err := svc.List(context.Background(), models.ProgramFilter{})
	require.NoError(t, err)
	assert.Len(t, programs, 1)
	assert.Equal(t, 1, repo.listed)
}
