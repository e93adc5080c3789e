package service

import (
	"os"
	"sort"
	"testing"
	"time"

	"github.com/istorrs/junit-test-results-sub000/internal/model"
	"github.com/istorrs/junit-test-results-sub000/internal/pkg/config"
	"github.com/istorrs/junit-test-results-sub000/internal/pkg/logger"
	"github.com/istorrs/junit-test-results-sub000/internal/repository"
	"github.com/istorrs/junit-test-results-sub000/pkg/constants"
	pkgErrors "github.com/istorrs/junit-test-results-sub000/pkg/errors"
)

func TestMain(m *testing.M) {
	_ = logger.Init(&config.LogConfig{Level: "error", Format: "console", Output: "stdout"})
	os.Exit(m.Run())
}

// in-memory repository fakes, shared by the service tests

type fakeRunRepo struct {
	runs   map[int64]*model.TestRun
	nextID int64
}

func newFakeRunRepo() *fakeRunRepo {
	return &fakeRunRepo{runs: make(map[int64]*model.TestRun)}
}

func (f *fakeRunRepo) Create(run *model.TestRun) error {
	f.nextID++
	run.ID = f.nextID
	run.CreatedAt = time.Now()
	f.runs[run.ID] = run
	return nil
}

func (f *fakeRunRepo) FindByID(id int64, _ ...repository.QueryOption) (*model.TestRun, error) {
	run, ok := f.runs[id]
	if !ok {
		return nil, pkgErrors.ErrRunNotFound
	}
	return run, nil
}

func (f *fakeRunRepo) FindByCIIdentity(jobName, buildNumber string, buildTime time.Time) (*model.TestRun, error) {
	for _, run := range f.runs {
		if run.JobName != nil && *run.JobName == jobName &&
			run.BuildNumber != nil && *run.BuildNumber == buildNumber &&
			run.BuildTime != nil && run.BuildTime.Equal(buildTime) {
			return run, nil
		}
	}
	return nil, pkgErrors.ErrRunNotFound
}

func (f *fakeRunRepo) List(page, pageSize int, source *string, keyword string) ([]*model.TestRun, int64, error) {
	var runs []*model.TestRun
	for _, run := range f.runs {
		if source != nil && *source != "" && run.Source != *source {
			continue
		}
		runs = append(runs, run)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].ID < runs[j].ID })
	return runs, int64(len(runs)), nil
}

func (f *fakeRunRepo) Update(run *model.TestRun) error {
	f.runs[run.ID] = run
	return nil
}

func (f *fakeRunRepo) Delete(id int64) error {
	delete(f.runs, id)
	return nil
}

type fakeSuiteRepo struct {
	suites []*model.TestSuite
	nextID int64
}

func (f *fakeSuiteRepo) Create(suite *model.TestSuite) error {
	f.nextID++
	suite.ID = f.nextID
	f.suites = append(f.suites, suite)
	return nil
}

func (f *fakeSuiteRepo) ListByRunID(runID int64) ([]*model.TestSuite, error) {
	var out []*model.TestSuite
	for _, s := range f.suites {
		if s.RunID == runID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSuiteRepo) Update(suite *model.TestSuite) error {
	return nil
}

func (f *fakeSuiteRepo) DeleteByRunID(runID int64) error {
	var kept []*model.TestSuite
	for _, s := range f.suites {
		if s.RunID != runID {
			kept = append(kept, s)
		}
	}
	f.suites = kept
	return nil
}

type fakeCaseRepo struct {
	cases  []*model.TestCase
	nextID int64
}

func (f *fakeCaseRepo) Create(tc *model.TestCase) error {
	f.nextID++
	tc.ID = f.nextID
	if tc.CreatedAt.IsZero() {
		tc.CreatedAt = time.Now()
	}
	f.cases = append(f.cases, tc)
	return nil
}

func (f *fakeCaseRepo) add(tc *model.TestCase) *model.TestCase {
	_ = f.Create(tc)
	return tc
}

func (f *fakeCaseRepo) ListByRunID(runID int64, _ ...repository.QueryOption) ([]*model.TestCase, error) {
	var out []*model.TestCase
	for _, tc := range f.cases {
		if tc.RunID == runID {
			out = append(out, tc)
		}
	}
	return out, nil
}

func (f *fakeCaseRepo) ListFailedByRunID(runID int64) ([]*model.TestCase, error) {
	var out []*model.TestCase
	for _, tc := range f.cases {
		if tc.RunID == runID &&
			(tc.Status == constants.TestStatusFailed || tc.Status == constants.TestStatusError) {
			out = append(out, tc)
		}
	}
	return out, nil
}

func (f *fakeCaseRepo) AggregateByRunID(runID int64) (*repository.CaseAggregate, error) {
	agg := &repository.CaseAggregate{}
	for _, tc := range f.cases {
		if tc.RunID != runID {
			continue
		}
		agg.Total++
		agg.Time += tc.Time
		switch tc.Status {
		case constants.TestStatusFailed:
			agg.Failures++
		case constants.TestStatusError:
			agg.Errors++
		case constants.TestStatusSkipped:
			agg.Skipped++
		}
	}
	return agg, nil
}

func (f *fakeCaseRepo) MostCommonClassname(suiteID int64) (string, error) {
	counts := make(map[string]int)
	for _, tc := range f.cases {
		if tc.SuiteID == suiteID && tc.Classname != "" {
			counts[tc.Classname]++
		}
	}
	best, bestCount := "", 0
	for name, count := range counts {
		if count > bestCount {
			best, bestCount = name, count
		}
	}
	return best, nil
}

func (f *fakeCaseRepo) ListRecentByNameAndClass(name, classname string, excludeID int64, limit int) ([]*model.TestCase, error) {
	var out []*model.TestCase
	for _, tc := range f.cases {
		if tc.Name == name && tc.Classname == classname && tc.ID != excludeID {
			out = append(out, tc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeCaseRepo) MarkFlaky(id int64, detectedAt time.Time) error {
	for _, tc := range f.cases {
		if tc.ID == id {
			tc.IsFlaky = true
			at := detectedAt
			tc.FlakyDetectedAt = &at
			return nil
		}
	}
	return pkgErrors.ErrRecordNotFound
}

func (f *fakeCaseRepo) ListFlaky(page, pageSize int) ([]*model.TestCase, int64, error) {
	var out []*model.TestCase
	for _, tc := range f.cases {
		if tc.IsFlaky {
			out = append(out, tc)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeCaseRepo) DeleteByRunID(runID int64) error {
	var kept []*model.TestCase
	for _, tc := range f.cases {
		if tc.RunID != runID {
			kept = append(kept, tc)
		}
	}
	f.cases = kept
	return nil
}

type fakeResultRepo struct {
	results []*model.TestResult
	nextID  int64
}

func (f *fakeResultRepo) Create(result *model.TestResult) error {
	f.nextID++
	result.ID = f.nextID
	f.results = append(f.results, result)
	return nil
}

func (f *fakeResultRepo) FindByCaseID(caseID int64) (*model.TestResult, error) {
	for _, r := range f.results {
		if r.CaseID == caseID {
			return r, nil
		}
	}
	return nil, pkgErrors.ErrRecordNotFound
}

func (f *fakeResultRepo) DeleteByRunID(runID int64) error {
	var kept []*model.TestResult
	for _, r := range f.results {
		if r.RunID != runID {
			kept = append(kept, r)
		}
	}
	f.results = kept
	return nil
}

type fakeUploadRepo struct {
	uploads []*model.FileUpload
	nextID  int64
}

func (f *fakeUploadRepo) Create(upload *model.FileUpload) error {
	f.nextID++
	upload.ID = f.nextID
	if upload.CreatedAt.IsZero() {
		upload.CreatedAt = time.Now()
	}
	f.uploads = append(f.uploads, upload)
	return nil
}

func (f *fakeUploadRepo) FindByID(id int64) (*model.FileUpload, error) {
	for _, u := range f.uploads {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, pkgErrors.ErrUploadNotFound
}

func (f *fakeUploadRepo) FindCompletedByHash(contentHash string) (*model.FileUpload, error) {
	for _, u := range f.uploads {
		if u.ContentHash == contentHash && u.Status == constants.UploadStatusCompleted {
			return u, nil
		}
	}
	return nil, pkgErrors.ErrUploadNotFound
}

func (f *fakeUploadRepo) Update(upload *model.FileUpload) error {
	return nil
}

func (f *fakeUploadRepo) List(page, pageSize int, status *string) ([]*model.FileUpload, int64, error) {
	var out []*model.FileUpload
	for _, u := range f.uploads {
		if status != nil && *status != "" && u.Status != *status {
			continue
		}
		out = append(out, u)
	}
	return out, int64(len(out)), nil
}

func (f *fakeUploadRepo) DetachRun(runID int64) error {
	for _, u := range f.uploads {
		if u.RunID != nil && *u.RunID == runID {
			u.RunID = nil
		}
	}
	return nil
}

func (f *fakeUploadRepo) MarkStaleFailed(olderThan time.Time) (int64, error) {
	var n int64
	for _, u := range f.uploads {
		if u.Status == constants.UploadStatusProcessing && u.CreatedAt.Before(olderThan) {
			u.Status = constants.UploadStatusFailed
			n++
		}
	}
	return n, nil
}

type fakeNotifier struct {
	enqueued []int64
	full     bool
}

func (f *fakeNotifier) Enqueue(runID int64) bool {
	if f.full {
		return false
	}
	f.enqueued = append(f.enqueued, runID)
	return true
}
