package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/istorrs/junit-test-results-sub000/internal/api/handler"
	"github.com/istorrs/junit-test-results-sub000/internal/api/middleware"
	"github.com/istorrs/junit-test-results-sub000/internal/pkg/config"
	"github.com/istorrs/junit-test-results-sub000/internal/repository"
	"github.com/istorrs/junit-test-results-sub000/internal/service"
)

// Setup builds the engine, wires repositories, services and handlers, and
// registers the routes. The flaky notifier is injected by main so the worker
// owning the queue outlives the request path.
func Setup(cfg *config.Config, notifier service.FlakyNotifier) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggerMiddleware())
	r.Use(middleware.CORSMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	db := cfg.DB.(*gorm.DB)

	runRepo := repository.NewTestRunRepository(db)
	suiteRepo := repository.NewTestSuiteRepository(db)
	caseRepo := repository.NewTestCaseRepository(db)
	resultRepo := repository.NewTestResultRepository(db)
	uploadRepo := repository.NewFileUploadRepository(db)

	ingestService := service.NewIngestService(runRepo, suiteRepo, caseRepo, resultRepo, uploadRepo, notifier)
	runService := service.NewRunService(runRepo, suiteRepo, caseRepo, resultRepo, uploadRepo)
	analyticsService := service.NewAnalyticsService(runRepo, caseRepo)
	flakyService := service.NewFlakyService(runRepo, caseRepo, &cfg.Flaky)

	uploadHandler := handler.NewUploadHandler(ingestService, &cfg.Ingest)
	runHandler := handler.NewRunHandler(runService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService, flakyService)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/uploads", uploadHandler.Upload)
		v1.GET("/uploads", uploadHandler.List)
		v1.GET("/upload", uploadHandler.GetByID)

		v1.GET("/runs", runHandler.List)
		v1.GET("/run", runHandler.GetByID)
		v1.GET("/run/failures", analyticsHandler.AnalyzeFailures)
		v1.GET("/run/failed-cases", runHandler.GetFailedCases)
		v1.DELETE("/run/:id", runHandler.Delete)
		v1.POST("/run/:id/detect-flaky", analyticsHandler.DetectFlaky)

		v1.GET("/flaky", runHandler.ListFlaky)
	}

	return r
}
