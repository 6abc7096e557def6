package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/acadbase/degree-progress-api/api/swagger"
	"github.com/acadbase/degree-progress-api/internal/handler"
	"github.com/acadbase/degree-progress-api/internal/middleware"
	"github.com/acadbase/degree-progress-api/internal/models"
	"github.com/acadbase/degree-progress-api/internal/repository"
	"github.com/acadbase/degree-progress-api/internal/service"
	"github.com/acadbase/degree-progress-api/pkg/cache"
	"github.com/acadbase/degree-progress-api/pkg/config"
	"github.com/acadbase/degree-progress-api/pkg/database"
	"github.com/acadbase/degree-progress-api/pkg/logger"
	corsmiddleware "github.com/acadbase/degree-progress-api/pkg/middleware/cors"
	reqidmiddleware "github.com/acadbase/degree-progress-api/pkg/middleware/requestid"
)

// @title Degree Progress API
// @version 1.0.0
// @description Credit requirement and eligibility calculation engine
// @BasePath /
// @schemes http

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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, catalog cache disabled", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	programRepo := repository.NewProgramRepository(db)
	courseRepo := repository.NewCourseRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	studentRepo := repository.NewStudentRepository(db)

	metricsSvc := service.NewMetricsService()
	programSvc := service.NewProgramService(programRepo, redisClient, service.ProgramCacheConfig{
		Enabled: cfg.Catalog.CacheEnabled,
		TTL:     cfg.Catalog.CacheTTL,
	}, logr)
	courseSvc := service.NewCourseService(courseRepo, validate, logr)
	enrollmentSvc := service.NewEnrollmentService(enrollmentRepo, courseRepo, studentRepo, programRepo, validate, logr)
	eligibilitySvc := service.NewEligibilityService(enrollmentRepo, courseRepo, studentRepo, programRepo, logr)
	progressSvc := service.NewProgressService(enrollmentRepo, studentRepo, programRepo, eligibilitySvc, logr)
	exportSvc := service.NewExportService(enrollmentRepo, progressSvc, cfg.Export.Enabled, logr)
	studentSvc := service.NewStudentService(studentRepo, validate, logr)

	programHandler := handler.NewProgramHandler(programSvc)
	courseHandler := handler.NewCourseHandler(courseSvc)
	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentSvc, metricsSvc)
	progressHandler := handler.NewProgressHandler(progressSvc, eligibilitySvc, exportSvc, metricsSvc)
	studentHandler := handler.NewStudentHandler(studentSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "metrics": metricsSvc.Snapshot()})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(cfg.JWT))

	programs := api.Group("/programs")
	{
		programs.GET("", programHandler.List)
		programs.GET("/:code", programHandler.Get)
	}

	courses := api.Group("/courses")
	{
		courses.GET("", courseHandler.List)
		courses.GET("/:code", courseHandler.Get)
		courses.GET("/:code/category", courseHandler.Category)
		courses.POST("", middleware.RequireAdmin(), courseHandler.Create)
	}

	mappings := api.Group("/mappings")
	{
		mappings.GET("", courseHandler.ListMappings)
		mappings.PUT("", middleware.RequireAdmin(), courseHandler.UpsertMapping)
		mappings.POST("/bulk", middleware.RequireAdmin(), courseHandler.BulkUpsertMappings)
	}

	enrollments := api.Group("/enrollments")
	{
		enrollments.GET("", enrollmentHandler.List)
		enrollments.GET("/:id", enrollmentHandler.Get)
		enrollments.POST("", enrollmentHandler.Create)
		enrollments.PUT("/:id", enrollmentHandler.Update)
		enrollments.DELETE("/:id", enrollmentHandler.Delete)
		enrollments.POST("/import", enrollmentHandler.BulkImport)
	}

	students := api.Group("/students/:id")
	students.Use(middleware.RBAC(models.RoleAdmin, "SELF"))
	{
		students.GET("", studentHandler.Get)
		students.PUT("/preferences", studentHandler.UpdatePreferences)
		students.GET("/programs", studentHandler.ListPrograms)
		students.POST("/programs", middleware.RequireAdmin(), studentHandler.EnrollProgram)

		students.GET("/programs/:programId/progress", progressHandler.GetProgress)
		students.GET("/programs/:programId/minor-progress", progressHandler.GetMinorProgress)
		students.GET("/programs/:programId/report", progressHandler.GetReport)
		students.GET("/programs/:programId/terminal-project", progressHandler.CheckTerminalProject)
		students.GET("/programs/:programId/audit", progressHandler.ExportAudit)

		students.GET("/eligibility/pass-fail", progressHandler.CheckPassFail)
		students.GET("/eligibility/branch-course", progressHandler.CheckBranchCourse)
		students.GET("/eligibility/internship-credits", progressHandler.InternshipCredits)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
