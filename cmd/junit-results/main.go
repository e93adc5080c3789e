package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/istorrs/junit-test-results-sub000/internal/api/router"
	"github.com/istorrs/junit-test-results-sub000/internal/pkg/config"
	"github.com/istorrs/junit-test-results-sub000/internal/pkg/database"
	"github.com/istorrs/junit-test-results-sub000/internal/pkg/logger"
	"github.com/istorrs/junit-test-results-sub000/internal/repository"
	"github.com/istorrs/junit-test-results-sub000/internal/scheduler"
	"github.com/istorrs/junit-test-results-sub000/internal/service"
	"github.com/istorrs/junit-test-results-sub000/internal/worker"

	_ "github.com/istorrs/junit-test-results-sub000/docs" // Swagger docs
)

// @title JUnit Test Results API
// @version 1.0
// @description Test report ingestion and failure analysis service.
// @description Accepts JUnit XML uploads, deduplicates them, clusters failures into patterns and flags flaky tests.

// @contact.name API Support
// @contact.email support@example.com

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8080
// @BasePath /api/v1

var (
	configFile = flag.String("config", "", "config file path (e.g. -config=configs/config.yaml)")
	version    = flag.Bool("version", false, "print version and exit")
)

const (
	appVersion = "1.0.0"
	appName    = "junit-results-service"
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("%s version %s\n", appName, appVersion)
		os.Exit(0)
	}

	// init config and logger
	var cfg *config.Config
	{
		configPath := getConfigPath()

		c, err := config.Load(configPath)
		if err != nil {
			fmt.Printf("load config failed: %v\n", err)
			fmt.Println("\nusage:")
			fmt.Println("  1. command line flag:")
			fmt.Println("     ./junit-results -config=configs/config.yaml")
			fmt.Println("  2. environment variable:")
			fmt.Println("     export CONFIG_FILE=configs/config.yaml")
			fmt.Println("  3. default path: configs/config.yaml")
			os.Exit(1)
		}
		cfg = c

		if err := logger.Init(&cfg.Log); err != nil {
			fmt.Printf("init logger failed: %v\n", err)
			os.Exit(1)
		}
		logger.Info(fmt.Sprintf("Load config file: %s", configPath))

		defer func() {
			_ = logger.Close()
		}()
	}

	logger.Info(fmt.Sprintf("service %s starting...", appName), zap.String("version", appVersion))

	// init database
	if err := database.Init(&cfg.Database); err != nil {
		logger.Fatal("init database failed", zap.Error(err))
	}
	defer func() {
		_ = database.Close()
	}()

	logger.Info(fmt.Sprintf("database connected %s:%v", cfg.Database.Host, cfg.Database.Port),
		zap.String("database", cfg.Database.Database))

	if err := database.Migrate(); err != nil {
		logger.Fatal("database migration failed", zap.Error(err))
	}

	// inject the database handle into the config
	cfg.DB = database.GetDB()

	// background flaky detection worker
	db := database.GetDB()
	runRepo := repository.NewTestRunRepository(db)
	caseRepo := repository.NewTestCaseRepository(db)
	flakyService := service.NewFlakyService(runRepo, caseRepo, &cfg.Flaky)

	flakyWorker := worker.NewFlakyWorker(flakyService, cfg.Flaky.GetQueueSize())
	flakyWorker.Start()

	// stale-upload sweeper
	uploadRepo := repository.NewFileUploadRepository(db)
	sweeper := scheduler.New(uploadRepo, &cfg.Sweeper)
	if err := sweeper.Start(); err != nil {
		logger.Warn("scheduler start failed", zap.Error(err))
	}

	// routes
	r := router.Setup(cfg, flakyWorker)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		logger.Info(fmt.Sprintf("%s listening", cfg.Server.Name),
			zap.String("address", addr),
			zap.String("mode", cfg.Server.Mode),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server start failed", zap.Error(err))
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("service shutting down...")

	sweeper.Stop()
	flakyWorker.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	logger.Info("service stopped")
}

// getConfigPath resolves the config file path.
// Priority: command line flag > environment variable > default path.
func getConfigPath() string {
	if *configFile != "" {
		return *configFile
	}
	if envConfig := os.Getenv("CONFIG_FILE"); envConfig != "" {
		return envConfig
	}
	return "configs/config.yaml"
}
