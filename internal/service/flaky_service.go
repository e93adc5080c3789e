package service

import (
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/istorrs/junit-test-results-sub000/internal/dto"
	"github.com/istorrs/junit-test-results-sub000/internal/model"
	"github.com/istorrs/junit-test-results-sub000/internal/pkg/config"
	"github.com/istorrs/junit-test-results-sub000/internal/pkg/logger"
	"github.com/istorrs/junit-test-results-sub000/internal/repository"
	"github.com/istorrs/junit-test-results-sub000/pkg/constants"
)

// FlakyService flaky-test detection interface
type FlakyService interface {
	DetectForRun(runID int64) (*dto.FlakyDetectionResponse, error)
}

type flakyService struct {
	runRepo       repository.TestRunRepository
	caseRepo      repository.TestCaseRepository
	historyWindow int
	minHistory    int
	now           func() time.Time
}

// NewFlakyService creates the flaky detection service
func NewFlakyService(runRepo repository.TestRunRepository, caseRepo repository.TestCaseRepository, cfg *config.FlakyConfig) FlakyService {
	return &flakyService{
		runRepo:       runRepo,
		caseRepo:      caseRepo,
		historyWindow: cfg.GetHistoryWindow(),
		minHistory:    cfg.GetMinHistory(),
		now:           time.Now,
	}
}

// DetectForRun examines a run's failed and errored cases against the recent
// execution history of the same logical test. A test is flaky when its history
// is deep enough and shows both passing and failing outcomes. The flag is
// one-way: detection only ever sets it.
//
// Per-case history errors are logged and skipped, one broken test must not
// abort the pass over the rest of the run.
func (s *flakyService) DetectForRun(runID int64) (*dto.FlakyDetectionResponse, error) {
	if _, err := s.runRepo.FindByID(runID); err != nil {
		return nil, err
	}

	cases, err := s.caseRepo.ListFailedByRunID(runID)
	if err != nil {
		return nil, err
	}

	resp := &dto.FlakyDetectionResponse{RunID: runID}
	detectedAt := s.now()

	for _, tc := range cases {
		resp.Evaluated++

		history, err := s.caseRepo.ListRecentByNameAndClass(tc.Name, tc.Classname, tc.ID, s.historyWindow)
		if err != nil {
			logger.Error("flaky history query failed",
				zap.Int64("case_id", tc.ID),
				zap.String("name", tc.Name),
				zap.Error(err))
			continue
		}

		if tc.IsFlaky || !s.isFlaky(history) {
			continue
		}

		if err := s.caseRepo.MarkFlaky(tc.ID, detectedAt); err != nil {
			logger.Error("mark flaky failed",
				zap.Int64("case_id", tc.ID),
				zap.Error(err))
			continue
		}
		tc.IsFlaky = true
		tc.FlakyDetectedAt = &detectedAt

		resp.Flagged++
		resp.Cases = append(resp.Cases, dto.NewFlakyCaseInfo(tc))
	}

	if resp.Flagged > 0 {
		logger.Info("flaky detection flagged cases",
			zap.Int64("run_id", runID),
			zap.Int("evaluated", resp.Evaluated),
			zap.Int("flagged", resp.Flagged))
	}

	return resp, nil
}

// isFlaky a history is flaky evidence when it is deep enough and contains both
// passing and failing executions
func (s *flakyService) isFlaky(history []*model.TestCase) bool {
	if len(history) < s.minHistory {
		return false
	}

	passed := lo.ContainsBy(history, func(tc *model.TestCase) bool {
		return tc.Status == constants.TestStatusPassed
	})
	failed := lo.ContainsBy(history, func(tc *model.TestCase) bool {
		return tc.Status == constants.TestStatusFailed || tc.Status == constants.TestStatusError
	})
	return passed && failed
}
