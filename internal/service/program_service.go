package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/acadbase/degree-progress-api/internal/models"
	appErrors "github.com/acadbase/degree-progress-api/pkg/errors"
)

type programRepository interface {
	FindByID(ctx context.Context, id string) (*models.Program, error)
	FindByCode(ctx context.Context, code string) (*models.Program, error)
	List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, error)
}

// ProgramCacheConfig tunes the read-through cache for program listings. The
// catalog is immutable at runtime, so a short TTL only bounds staleness after
// reseeding. Progress aggregates are never cached anywhere.
type ProgramCacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

// ProgramService serves the degree-program catalog.
type ProgramService struct {
	repo     programRepository
	cache    *redis.Client
	cacheCfg ProgramCacheConfig
	logger   *zap.Logger
}

// NewProgramService constructs ProgramService. The redis client may be nil.
func NewProgramService(repo programRepository, cache *redis.Client, cacheCfg ProgramCacheConfig, logger *zap.Logger) *ProgramService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgramService{repo: repo, cache: cache, cacheCfg: cacheCfg, logger: logger}
}

const programListCacheKey = "catalog:programs"

// Get returns a program by code.
func (s *ProgramService) Get(ctx context.Context, code string) (*models.Program, error) {
	program, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}
	return program, nil
}

// GetByID returns a program by its ID.
func (s *ProgramService) GetByID(ctx context.Context, id string) (*models.Program, error) {
	program, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "program not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load program")
	}
	return program, nil
}

// List returns all programs, optionally filtered by track. Unfiltered
// listings go through the cache when enabled.
func (s *ProgramService) List(ctx context.Context, filter models.ProgramFilter) ([]models.Program, error) {
	cacheable := s.cache != nil && s.cacheCfg.Enabled && filter.Track == ""

	if cacheable {
		if raw, err := s.cache.Get(ctx, programListCacheKey).Bytes(); err == nil {
			var programs []models.Program
			if err := json.Unmarshal(raw, &programs); err == nil {
				return programs, nil
			}
			// Corrupt cache entries fall through to the database.
			s.cache.Del(ctx, programListCacheKey)
		}
	}

	programs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list programs")
	}

	if cacheable {
		if raw, err := json.Marshal(programs); err == nil {
			if err := s.cache.Set(ctx, programListCacheKey, raw, s.cacheCfg.TTL).Err(); err != nil {
				s.logger.Warn("program cache write failed", zap.Error(err))
			}
		}
	}
	return programs, nil
}
