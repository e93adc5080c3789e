// Package scheduler hosts the periodic maintenance jobs.
package scheduler

import (
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/istorrs/junit-test-results-sub000/internal/pkg/config"
	"github.com/istorrs/junit-test-results-sub000/internal/pkg/logger"
	"github.com/istorrs/junit-test-results-sub000/internal/repository"
)

const (
	// top of every hour, six-field expression with seconds
	defaultSweepCron = "0 0 * * * *"
	defaultMaxAge    = time.Hour
)

// Scheduler owns the cron instance and the stale-upload sweeper.
// Uploads stuck in processing longer than max_age are failed out so their
// content hash stops blocking nothing and the audit trail stays honest.
type Scheduler struct {
	cron       *cron.Cron
	uploadRepo repository.FileUploadRepository
	cfg        *config.SweeperConfig
}

// New creates the scheduler
func New(uploadRepo repository.FileUploadRepository, cfg *config.SweeperConfig) *Scheduler {
	return &Scheduler{
		cron:       cron.New(cron.WithSeconds()),
		uploadRepo: uploadRepo,
		cfg:        cfg,
	}
}

// Start registers the jobs and starts the cron loop
func (s *Scheduler) Start() error {
	spec := s.cfg.Cron
	if spec == "" {
		spec = defaultSweepCron
	}

	if _, err := s.cron.AddFunc(spec, s.sweepStaleUploads); err != nil {
		return err
	}

	s.cron.Start()
	logger.Info("scheduler started", zap.String("sweep_cron", spec))
	return nil
}

// Stop stops the cron loop and waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("scheduler stopped")
}

func (s *Scheduler) maxAge() time.Duration {
	if s.cfg.MaxAge == "" {
		return defaultMaxAge
	}
	d, err := time.ParseDuration(s.cfg.MaxAge)
	if err != nil || d <= 0 {
		logger.Warn("invalid sweeper max_age, using default",
			zap.String("max_age", s.cfg.MaxAge))
		return defaultMaxAge
	}
	return d
}

// sweepStaleUploads fails out uploads stuck in processing
func (s *Scheduler) sweepStaleUploads() {
	cutoff := time.Now().Add(-s.maxAge())

	n, err := s.uploadRepo.MarkStaleFailed(cutoff)
	if err != nil {
		logger.Error("stale upload sweep failed", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info("stale uploads failed out",
			zap.Int64("count", n),
			zap.Time("cutoff", cutoff))
	}
}
