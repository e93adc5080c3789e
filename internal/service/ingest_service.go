package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/istorrs/junit-test-results-sub000/internal/analysis"
	"github.com/istorrs/junit-test-results-sub000/internal/dto"
	"github.com/istorrs/junit-test-results-sub000/internal/model"
	"github.com/istorrs/junit-test-results-sub000/internal/pkg/hashutil"
	"github.com/istorrs/junit-test-results-sub000/internal/pkg/junitxml"
	"github.com/istorrs/junit-test-results-sub000/internal/pkg/logger"
	"github.com/istorrs/junit-test-results-sub000/internal/repository"
	"github.com/istorrs/junit-test-results-sub000/pkg/constants"
	pkgErrors "github.com/istorrs/junit-test-results-sub000/pkg/errors"
)

// FlakyNotifier receives run ids whose fresh failures should be checked for
// flakiness. Enqueue must never block, the ingestion path cannot wait on the
// detector.
type FlakyNotifier interface {
	Enqueue(runID int64) bool
}

// UploadInput one report upload as received by the API layer
type UploadInput struct {
	Filename   string
	Content    []byte
	Source     string
	CI         *dto.CIMetadata
	UploaderIP string
	UserAgent  string
}

// IngestService report ingestion interface
type IngestService interface {
	Ingest(input *UploadInput) (*dto.UploadResponse, error)
	GetUpload(id int64) (*dto.UploadInfo, error)
	ListUploads(query *dto.UploadListQuery) ([]*dto.UploadInfo, int64, error)
}

type ingestService struct {
	runRepo    repository.TestRunRepository
	suiteRepo  repository.TestSuiteRepository
	caseRepo   repository.TestCaseRepository
	resultRepo repository.TestResultRepository
	uploadRepo repository.FileUploadRepository
	notifier   FlakyNotifier
	now        func() time.Time
}

// NewIngestService creates the ingestion service
func NewIngestService(
	runRepo repository.TestRunRepository,
	suiteRepo repository.TestSuiteRepository,
	caseRepo repository.TestCaseRepository,
	resultRepo repository.TestResultRepository,
	uploadRepo repository.FileUploadRepository,
	notifier FlakyNotifier,
) IngestService {
	return &ingestService{
		runRepo:    runRepo,
		suiteRepo:  suiteRepo,
		caseRepo:   caseRepo,
		resultRepo: resultRepo,
		uploadRepo: uploadRepo,
		notifier:   notifier,
		now:        time.Now,
	}
}

// genericSuiteNames suite names emitted by test runners that carry no
// information about what was tested
var genericSuiteNames = map[string]struct{}{
	"":          {},
	"pytest":    {},
	"unittest":  {},
	"test":      {},
	"tests":     {},
	"testsuite": {},
	"default":   {},
	"root":      {},
}

// suiteTimestampLayouts accepted formats of the testsuite timestamp attribute
var suiteTimestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (s *ingestService) Ingest(input *UploadInput) (*dto.UploadResponse, error) {
	// 1. hash the raw bytes; the hash is the dedup identity of the upload
	contentHash := hashutil.Sum(input.Content)

	// 2. duplicate check against completed uploads only; a previously failed
	// attempt of the same bytes may be retried
	if existing, err := s.uploadRepo.FindCompletedByHash(contentHash); err == nil {
		logger.Info("duplicate upload short-circuited",
			zap.String("filename", input.Filename),
			zap.String("content_hash", contentHash),
			zap.Int64("upload_id", existing.ID))
		return &dto.UploadResponse{
			UploadID:    existing.ID,
			RunID:       existing.RunID,
			Filename:    existing.Filename,
			ContentHash: contentHash,
			Size:        existing.Size,
			Status:      existing.Status,
			Duplicate:   true,
		}, nil
	} else if !errors.Is(err, pkgErrors.ErrUploadNotFound) {
		return nil, err
	}

	// 3. record the attempt before touching the payload, so a crash mid-parse
	// leaves an auditable processing row for the sweeper
	upload := &model.FileUpload{
		Filename:    input.Filename,
		ContentHash: contentHash,
		Size:        int64(len(input.Content)),
		Status:      constants.UploadStatusProcessing,
		Source:      input.Source,
		UploaderIP:  input.UploaderIP,
		UserAgent:   input.UserAgent,
	}
	if err := s.uploadRepo.Create(upload); err != nil {
		return nil, err
	}

	// 4. parse
	doc, err := junitxml.Parse(input.Content)
	if err != nil {
		s.failUpload(upload, err.Error())
		return nil, pkgErrors.Wrap(pkgErrors.CodeMalformedInput, "malformed report XML", err)
	}

	// 5. resolve the run timestamp: CI build time wins, then the first suite
	// timestamp attribute, then the upload time
	runTime := s.resolveRunTimestamp(input.CI, doc)

	// 6. identify or create the owning run
	run, err := s.resolveRun(input, doc, contentHash, runTime)
	if err != nil {
		s.failUpload(upload, err.Error())
		return nil, err
	}

	// 7. persist suites, cases and failure results
	if err := s.persistSuites(run, doc, runTime); err != nil {
		s.failUpload(upload, err.Error())
		return nil, err
	}

	// 8. recompute the run counters from the owned cases; declared XML totals
	// are never trusted
	agg, err := s.caseRepo.AggregateByRunID(run.ID)
	if err != nil {
		s.failUpload(upload, err.Error())
		return nil, err
	}
	run.TotalTests = agg.Total
	run.TotalFailures = agg.Failures
	run.TotalErrors = agg.Errors
	run.TotalSkipped = agg.Skipped
	run.Time = agg.Time
	if err := s.runRepo.Update(run); err != nil {
		s.failUpload(upload, err.Error())
		return nil, err
	}

	// 9. complete the upload and attach it to the run
	upload.Status = constants.UploadStatusCompleted
	upload.RunID = &run.ID
	if err := s.uploadRepo.Update(upload); err != nil {
		return nil, err
	}

	// 10. hand the run to the flaky detector, best effort
	if s.notifier != nil && (agg.Failures > 0 || agg.Errors > 0) {
		if !s.notifier.Enqueue(run.ID) {
			logger.Warn("flaky detection queue full, run skipped",
				zap.Int64("run_id", run.ID))
		}
	}

	logger.Info("report ingested",
		zap.Int64("upload_id", upload.ID),
		zap.Int64("run_id", run.ID),
		zap.Int("total_tests", agg.Total),
		zap.Int("total_failures", agg.Failures),
		zap.Int("total_errors", agg.Errors))

	return &dto.UploadResponse{
		UploadID:      upload.ID,
		RunID:         &run.ID,
		Filename:      upload.Filename,
		ContentHash:   contentHash,
		Size:          upload.Size,
		Status:        upload.Status,
		TotalTests:    agg.Total,
		TotalFailures: agg.Failures,
		TotalErrors:   agg.Errors,
		TotalSkipped:  agg.Skipped,
	}, nil
}

// failUpload marks the upload failed, keeping the original error for the caller
func (s *ingestService) failUpload(upload *model.FileUpload, msg string) {
	upload.Status = constants.UploadStatusFailed
	upload.ErrorMessage = &msg
	if err := s.uploadRepo.Update(upload); err != nil {
		logger.Error("mark upload failed", zap.Int64("upload_id", upload.ID), zap.Error(err))
	}
}

// resolveRunTimestamp picks the run's execution time by priority:
// CI build_time, then the first suite's timestamp attribute, then now.
func (s *ingestService) resolveRunTimestamp(ci *dto.CIMetadata, doc *junitxml.Document) time.Time {
	if ci != nil && ci.BuildTime != "" {
		if t, err := time.Parse(time.RFC3339, ci.BuildTime); err == nil {
			return t
		}
		logger.Warn("unparseable ci build_time, falling back to suite timestamp",
			zap.String("build_time", ci.BuildTime))
	}

	if len(doc.Suites) > 0 && doc.Suites[0].Timestamp != "" {
		first := doc.Suites[0]
		if t, ok := parseSuiteTimestamp(first.Timestamp); ok {
			return t
		}
		logger.Warn("unparseable suite timestamp attribute",
			zap.String("suite", first.Name),
			zap.String("timestamp", first.Timestamp))
	}

	return s.now()
}

func parseSuiteTimestamp(raw string) (time.Time, bool) {
	for _, layout := range suiteTimestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// resolveRun finds the run this upload belongs to, or creates it. Uploads
// carrying the same CI identity triple merge into one run; everything else
// gets a fresh run keyed by content hash.
func (s *ingestService) resolveRun(input *UploadInput, doc *junitxml.Document, contentHash string, runTime time.Time) (*model.TestRun, error) {
	ci := input.CI

	if ci.HasIdentity() {
		buildTime, err := time.Parse(time.RFC3339, ci.BuildTime)
		if err != nil {
			return nil, pkgErrors.Wrap(pkgErrors.CodeBadRequest,
				fmt.Sprintf("build_time %q is not RFC3339", ci.BuildTime), err)
		}

		run, err := s.runRepo.FindByCIIdentity(ci.JobName, ci.BuildNumber, buildTime)
		if err == nil {
			logger.Info("merging upload into existing run",
				zap.Int64("run_id", run.ID),
				zap.String("job_name", ci.JobName),
				zap.String("build_number", ci.BuildNumber))
			return run, nil
		}
		if !errors.Is(err, pkgErrors.ErrRunNotFound) {
			return nil, err
		}

		run = &model.TestRun{
			Name:        fmt.Sprintf("%s #%s", ci.JobName, ci.BuildNumber),
			JobName:     &ci.JobName,
			BuildNumber: &ci.BuildNumber,
			BuildTime:   &buildTime,
			Timestamp:   runTime,
			Source:      input.Source,
		}
		if ci.Branch != "" {
			run.Branch = &ci.Branch
		}
		if ci.Provider != "" {
			run.Provider = &ci.Provider
		}
		if len(ci.Tags) > 0 {
			if raw, err := json.Marshal(ci.Tags); err == nil {
				run.Tags = datatypes.JSON(raw)
			}
		}
		if raw, err := json.Marshal(ci); err == nil {
			run.CIMetadata = datatypes.JSON(raw)
		}
		if err := s.runRepo.Create(run); err != nil {
			return nil, err
		}
		return run, nil
	}

	// ad-hoc upload: one run per distinct content, named after the report
	name := input.Filename
	if len(doc.Suites) > 0 && strings.TrimSpace(doc.Suites[0].Name) != "" {
		name = doc.Suites[0].Name
	}
	run := &model.TestRun{
		Name:        name,
		ContentHash: &contentHash,
		Timestamp:   runTime,
		Source:      input.Source,
	}
	if err := s.runRepo.Create(run); err != nil {
		return nil, err
	}
	return run, nil
}

// persistSuites stores every suite with its cases and one result row per
// case. Each result carries a reconstructed start time: the suite start plus
// the summed durations of all preceding cases in that suite.
func (s *ingestService) persistSuites(run *model.TestRun, doc *junitxml.Document, runTime time.Time) error {
	for _, src := range doc.Suites {
		suiteTime := runTime
		if src.Timestamp != "" {
			if t, ok := parseSuiteTimestamp(src.Timestamp); ok {
				suiteTime = t
			}
		}

		suite := &model.TestSuite{
			RunID:     run.ID,
			Name:      src.Name,
			Hostname:  src.Hostname,
			Timestamp: suiteTime,
			Tests:     src.Tests,
			Failures:  src.Failures,
			Errors:    src.Errors,
			Skipped:   src.Skipped,
			Time:      src.Time,
		}
		if err := s.suiteRepo.Create(suite); err != nil {
			return err
		}

		elapsed := 0.0
		for i := range src.Cases {
			c := &src.Cases[i]
			status, detail := classifyCase(c)

			tc := &model.TestCase{
				RunID:      run.ID,
				SuiteID:    suite.ID,
				Name:       c.Name,
				Classname:  c.Classname,
				Status:     status,
				Time:       c.Time,
				Assertions: c.Assertions,
				File:       c.File,
				Line:       c.Line,
				SystemOut:  c.SystemOut,
				SystemErr:  c.SystemErr,
			}
			if err := s.caseRepo.Create(tc); err != nil {
				return err
			}

			result := buildResult(tc, detail, suiteTime, elapsed)
			if err := s.resultRepo.Create(result); err != nil {
				return err
			}

			elapsed += c.Time
		}

		if err := s.correctGenericSuiteName(suite); err != nil {
			return err
		}
	}
	return nil
}

// classifyCase maps the child elements of a testcase to its status
func classifyCase(c *junitxml.Case) (string, *junitxml.Detail) {
	switch {
	case c.Failure != nil:
		return constants.TestStatusFailed, c.Failure
	case c.Error != nil:
		return constants.TestStatusError, c.Error
	case c.Skipped != nil:
		return constants.TestStatusSkipped, c.Skipped
	default:
		return constants.TestStatusPassed, nil
	}
}

// buildResult assembles the companion row of one case. Every case gets one,
// so the reconstructed start time is queryable for passing tests too; only
// failed/errored cases carry extracted failure detail.
func buildResult(tc *model.TestCase, detail *junitxml.Detail, suiteTime time.Time, elapsed float64) *model.TestResult {
	result := &model.TestResult{
		CaseID:    tc.ID,
		RunID:     tc.RunID,
		Status:    tc.Status,
		Timestamp: suiteTime.Add(time.Duration(elapsed * float64(time.Second))),
	}

	if tc.Status != constants.TestStatusFailed && tc.Status != constants.TestStatusError {
		if detail != nil {
			result.Message = detail.Message
		}
		return result
	}

	var rawMessage, rawType, trace string
	if detail != nil {
		rawMessage = detail.Message
		rawType = detail.Type
		trace = detail.Body
	}

	excType := rawType
	if excType == "" {
		excType = analysis.ExtractExceptionType(trace, rawMessage)
	}

	result.Message = analysis.ExtractMessage(rawMessage, trace, excType)
	result.Type = excType
	result.StackTrace = trace
	return result
}

// correctGenericSuiteName replaces meaningless runner-default suite names with
// the dominant classname of the suite's cases
func (s *ingestService) correctGenericSuiteName(suite *model.TestSuite) error {
	if _, generic := genericSuiteNames[strings.ToLower(strings.TrimSpace(suite.Name))]; !generic {
		return nil
	}

	classname, err := s.caseRepo.MostCommonClassname(suite.ID)
	if err != nil {
		return err
	}
	if classname == "" || classname == suite.Name {
		return nil
	}

	logger.Info("correcting generic suite name",
		zap.Int64("suite_id", suite.ID),
		zap.String("old", suite.Name),
		zap.String("new", classname))
	suite.Name = classname
	return s.suiteRepo.Update(suite)
}

func (s *ingestService) GetUpload(id int64) (*dto.UploadInfo, error) {
	upload, err := s.uploadRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	return dto.NewUploadInfo(upload), nil
}

func (s *ingestService) ListUploads(query *dto.UploadListQuery) ([]*dto.UploadInfo, int64, error) {
	uploads, total, err := s.uploadRepo.List(query.GetPage(), query.GetPageSize(), query.Status)
	if err != nil {
		return nil, 0, err
	}

	infos := make([]*dto.UploadInfo, 0, len(uploads))
	for _, u := range uploads {
		infos = append(infos, dto.NewUploadInfo(u))
	}
	return infos, total, nil
}
