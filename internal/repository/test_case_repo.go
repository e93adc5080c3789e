package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/istorrs/junit-test-results-sub000/internal/model"
	"github.com/istorrs/junit-test-results-sub000/pkg/constants"
	pkgErrors "github.com/istorrs/junit-test-results-sub000/pkg/errors"
)

// TestCaseRepository test case persistence interface
type TestCaseRepository interface {
	Create(testCase *model.TestCase) error
	ListByRunID(runID int64, opts ...QueryOption) ([]*model.TestCase, error)
	ListFailedByRunID(runID int64) ([]*model.TestCase, error)
	AggregateByRunID(runID int64) (*CaseAggregate, error)
	MostCommonClassname(suiteID int64) (string, error)
	ListRecentByNameAndClass(name, classname string, excludeID int64, limit int) ([]*model.TestCase, error)
	MarkFlaky(id int64, detectedAt time.Time) error
	ListFlaky(page, pageSize int) ([]*model.TestCase, int64, error)
	DeleteByRunID(runID int64) error
}

type testCaseRepository struct {
	db *gorm.DB
}

// NewTestCaseRepository creates a test case repository
func NewTestCaseRepository(db *gorm.DB) TestCaseRepository {
	return &testCaseRepository{db: db}
}

// Create creates a test case
func (r *testCaseRepository) Create(testCase *model.TestCase) error {
	if err := r.db.Create(testCase).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "create test case failed", err)
	}
	return nil
}

// ListByRunID lists the cases owned by a run, in insertion order
func (r *testCaseRepository) ListByRunID(runID int64, opts ...QueryOption) ([]*model.TestCase, error) {
	var cases []*model.TestCase
	query := r.db.Where("run_id = ?", runID).Order("id ASC")
	for _, opt := range opts {
		query = opt(query)
	}
	if err := query.Find(&cases).Error; err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "list test cases failed", err)
	}
	return cases, nil
}

// ListFailedByRunID lists a run's failed and errored cases with their results
func (r *testCaseRepository) ListFailedByRunID(runID int64) ([]*model.TestCase, error) {
	var cases []*model.TestCase
	err := r.db.Preload("Result").
		Where("run_id = ? AND status IN ?", runID,
			[]string{constants.TestStatusFailed, constants.TestStatusError}).
		Order("id ASC").
		Find(&cases).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "list failed test cases failed", err)
	}
	return cases, nil
}

type statusCount struct {
	Status string
	Count  int
}

// AggregateByRunID recomputes a run's counters by summing its owned cases.
// XML-declared totals are never trusted, they are frequently wrong or missing.
func (r *testCaseRepository) AggregateByRunID(runID int64) (*CaseAggregate, error) {
	var counts []statusCount
	err := r.db.Model(&model.TestCase{}).
		Select("status, COUNT(*) AS count").
		Where("run_id = ?", runID).
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "aggregate test cases failed", err)
	}

	agg := &CaseAggregate{}
	for _, c := range counts {
		agg.Total += c.Count
		switch c.Status {
		case constants.TestStatusFailed:
			agg.Failures += c.Count
		case constants.TestStatusError:
			agg.Errors += c.Count
		case constants.TestStatusSkipped:
			agg.Skipped += c.Count
		}
	}

	err = r.db.Model(&model.TestCase{}).
		Select("COALESCE(SUM(time), 0)").
		Where("run_id = ?", runID).
		Scan(&agg.Time).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "sum test case durations failed", err)
	}

	return agg, nil
}

// MostCommonClassname returns the most frequent classname among a suite's cases,
// used by the generic-suite-name correction post-pass. Empty when the suite has
// no cases with a classname.
func (r *testCaseRepository) MostCommonClassname(suiteID int64) (string, error) {
	var classname string
	err := r.db.Model(&model.TestCase{}).
		Select("classname").
		Where("suite_id = ? AND classname <> ''", suiteID).
		Group("classname").
		Order("COUNT(*) DESC").
		Limit(1).
		Scan(&classname).Error
	if err != nil {
		return "", pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "query most common classname failed", err)
	}
	return classname, nil
}

// ListRecentByNameAndClass fetches the most recent executions of one logical
// test across all runs, newest first. The flaky detector's history query.
func (r *testCaseRepository) ListRecentByNameAndClass(name, classname string, excludeID int64, limit int) ([]*model.TestCase, error) {
	var cases []*model.TestCase
	err := r.db.Where("name = ? AND classname = ? AND id <> ?", name, classname, excludeID).
		Order("created_at DESC").
		Limit(limit).
		Find(&cases).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "query test case history failed", err)
	}
	return cases, nil
}

// MarkFlaky flags one case as flaky. One-way: the flag is never cleared.
func (r *testCaseRepository) MarkFlaky(id int64, detectedAt time.Time) error {
	err := r.db.Model(&model.TestCase{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_flaky":          true,
			"flaky_detected_at": detectedAt,
		}).Error
	if err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "mark test case flaky failed", err)
	}
	return nil
}

// ListFlaky lists flagged cases, newest detection first
func (r *testCaseRepository) ListFlaky(page, pageSize int) ([]*model.TestCase, int64, error) {
	var cases []*model.TestCase
	var total int64

	query := r.db.Model(&model.TestCase{}).Where("is_flaky = ?", true)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "count flaky test cases failed", err)
	}

	offset := (page - 1) * pageSize
	if err := query.Order("flaky_detected_at DESC").
		Limit(pageSize).Offset(offset).
		Find(&cases).Error; err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "list flaky test cases failed", err)
	}

	return cases, total, nil
}

// DeleteByRunID removes all cases owned by a run
func (r *testCaseRepository) DeleteByRunID(runID int64) error {
	if err := r.db.Where("run_id = ?", runID).Delete(&model.TestCase{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "delete test cases failed", err)
	}
	return nil
}
