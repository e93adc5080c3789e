package service

import (
	"go.uber.org/zap"

	"github.com/istorrs/junit-test-results-sub000/internal/dto"
	"github.com/istorrs/junit-test-results-sub000/internal/pkg/logger"
	"github.com/istorrs/junit-test-results-sub000/internal/repository"
)

// RunService test run query and lifecycle interface
type RunService interface {
	List(query *dto.RunListQuery) ([]*dto.RunResponse, int64, error)
	GetByID(id int64) (*dto.RunResponse, error)
	GetFailures(id int64) ([]*dto.FailedCaseResponse, error)
	Delete(id int64) error
	ListFlaky(query *dto.FlakyListQuery) ([]*dto.FlakyCaseInfo, int64, error)
}

type runService struct {
	runRepo    repository.TestRunRepository
	suiteRepo  repository.TestSuiteRepository
	caseRepo   repository.TestCaseRepository
	resultRepo repository.TestResultRepository
	uploadRepo repository.FileUploadRepository
}

// NewRunService creates the run service
func NewRunService(
	runRepo repository.TestRunRepository,
	suiteRepo repository.TestSuiteRepository,
	caseRepo repository.TestCaseRepository,
	resultRepo repository.TestResultRepository,
	uploadRepo repository.FileUploadRepository,
) RunService {
	return &runService{
		runRepo:    runRepo,
		suiteRepo:  suiteRepo,
		caseRepo:   caseRepo,
		resultRepo: resultRepo,
		uploadRepo: uploadRepo,
	}
}

func (s *runService) List(query *dto.RunListQuery) ([]*dto.RunResponse, int64, error) {
	runs, total, err := s.runRepo.List(query.GetPage(), query.GetPageSize(), query.Source, query.Keyword)
	if err != nil {
		return nil, 0, err
	}

	resps := make([]*dto.RunResponse, 0, len(runs))
	for _, run := range runs {
		resps = append(resps, dto.NewRunResponse(run))
	}
	return resps, total, nil
}

func (s *runService) GetByID(id int64) (*dto.RunResponse, error) {
	run, err := s.runRepo.FindByID(id, repository.WithPreload("Suites.Cases"))
	if err != nil {
		return nil, err
	}
	return dto.NewRunResponse(run), nil
}

func (s *runService) GetFailures(id int64) ([]*dto.FailedCaseResponse, error) {
	if _, err := s.runRepo.FindByID(id); err != nil {
		return nil, err
	}

	cases, err := s.caseRepo.ListFailedByRunID(id)
	if err != nil {
		return nil, err
	}

	resps := make([]*dto.FailedCaseResponse, 0, len(cases))
	for _, tc := range cases {
		resps = append(resps, dto.NewFailedCaseResponse(tc))
	}
	return resps, nil
}

// Delete removes a run and everything it owns, leaf tables first. Upload rows
// are kept for audit, only their run reference is cleared.
func (s *runService) Delete(id int64) error {
	run, err := s.runRepo.FindByID(id)
	if err != nil {
		return err
	}

	if err := s.resultRepo.DeleteByRunID(id); err != nil {
		return err
	}
	if err := s.caseRepo.DeleteByRunID(id); err != nil {
		return err
	}
	if err := s.suiteRepo.DeleteByRunID(id); err != nil {
		return err
	}
	if err := s.uploadRepo.DetachRun(id); err != nil {
		return err
	}
	if err := s.runRepo.Delete(id); err != nil {
		return err
	}

	logger.Info("test run deleted", zap.Int64("run_id", id), zap.String("name", run.Name))
	return nil
}

func (s *runService) ListFlaky(query *dto.FlakyListQuery) ([]*dto.FlakyCaseInfo, int64, error) {
	cases, total, err := s.caseRepo.ListFlaky(query.GetPage(), query.GetPageSize())
	if err != nil {
		return nil, 0, err
	}

	infos := make([]*dto.FlakyCaseInfo, 0, len(cases))
	for _, tc := range cases {
		infos = append(infos, dto.NewFlakyCaseInfo(tc))
	}
	return infos, total, nil
}
