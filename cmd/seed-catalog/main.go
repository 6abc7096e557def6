// Command seed-catalog loads the compiled-in program table and default
// curricula into the database. Safe to re-run: everything is upserted.
package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/acadbase/degree-progress-api/internal/catalog"
	"github.com/acadbase/degree-progress-api/internal/models"
	"github.com/acadbase/degree-progress-api/internal/repository"
	"github.com/acadbase/degree-progress-api/pkg/config"
	"github.com/acadbase/degree-progress-api/pkg/database"
	"github.com/acadbase/degree-progress-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck
	sugar := logr.Sugar()

	// The catalog validates its credit sums on load; an inconsistent table
	// must never reach the database.
	programs, err := catalog.Load()
	if err != nil {
		sugar.Fatalw("catalog validation failed", "error", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		sugar.Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	programRepo := repository.NewProgramRepository(db)
	courseRepo := repository.NewCourseRepository(db)

	for i := range programs {
		if err := programRepo.Upsert(ctx, &programs[i]); err != nil {
			sugar.Fatalw("failed to upsert program", "code", programs[i].Code, "error", err)
		}
	}
	sugar.Infow("programs seeded", "count", len(programs))

	var courses, mappings int
	for _, branch := range catalog.Branches() {
		for _, planned := range catalog.FullPlan(branch, 6) {
			course, err := courseRepo.FindByCode(ctx, planned.Code)
			if err == sql.ErrNoRows {
				course = &models.Course{
					Code:     planned.Code,
					Name:     planned.Name,
					Credits:  planned.Credits,
					IsActive: true,
				}
				if err := courseRepo.Create(ctx, course); err != nil {
					sugar.Fatalw("failed to create course", "code", planned.Code, "error", err)
				}
				courses++
			} else if err != nil {
				sugar.Fatalw("failed to load course", "code", planned.Code, "error", err)
			}

			term := planned.Term
			mapping := &models.CourseBranchMapping{
				CourseID:      course.ID,
				Branch:        branch,
				Category:      planned.Category,
				IsRequired:    true,
				SuggestedTerm: &term,
			}
			if err := courseRepo.UpsertMapping(ctx, mapping); err != nil {
				sugar.Fatalw("failed to upsert mapping", "code", planned.Code, "branch", branch, "error", err)
			}
			mappings++
		}
	}
	sugar.Infow("curriculum seeded", "courses_created", courses, "mappings", mappings)
}
