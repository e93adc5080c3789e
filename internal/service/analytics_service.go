package service

import (
	"github.com/istorrs/junit-test-results-sub000/internal/analysis"
	"github.com/istorrs/junit-test-results-sub000/internal/dto"
	"github.com/istorrs/junit-test-results-sub000/internal/repository"
)

// AnalyticsService failure analysis interface
type AnalyticsService interface {
	AnalyzeFailures(runID int64) (*dto.FailureAnalysisResponse, error)
}

type analyticsService struct {
	runRepo  repository.TestRunRepository
	caseRepo repository.TestCaseRepository
}

// NewAnalyticsService creates the analytics service
func NewAnalyticsService(runRepo repository.TestRunRepository, caseRepo repository.TestCaseRepository) AnalyticsService {
	return &analyticsService{
		runRepo:  runRepo,
		caseRepo: caseRepo,
	}
}

// AnalyzeFailures clusters a run's failed and errored cases into failure
// patterns. A run with no failures yields an empty report, not an error.
func (s *analyticsService) AnalyzeFailures(runID int64) (*dto.FailureAnalysisResponse, error) {
	if _, err := s.runRepo.FindByID(runID); err != nil {
		return nil, err
	}

	cases, err := s.caseRepo.ListFailedByRunID(runID)
	if err != nil {
		return nil, err
	}

	inputs := make([]analysis.FailureInput, 0, len(cases))
	for _, tc := range cases {
		input := analysis.FailureInput{
			TestID: tc.Name,
			CaseID: tc.ID,
		}
		if tc.Classname != "" {
			input.TestID = tc.Classname + "." + tc.Name
		}
		if tc.Result != nil {
			input.Message = tc.Result.Message
			input.Trace = tc.Result.StackTrace
		}
		inputs = append(inputs, input)
	}

	report := analysis.ClusterFailures(inputs)

	resp := &dto.FailureAnalysisResponse{
		RunID:          runID,
		TotalFailures:  report.TotalFailures,
		Patterns:       report.Patterns,
		CategoryCounts: make(map[string]int, len(report.CategoryCounts)),
	}
	for category, count := range report.CategoryCounts {
		resp.CategoryCounts[string(category)] = count
	}
	return resp, nil
}
