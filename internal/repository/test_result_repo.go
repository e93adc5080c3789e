package repository

import (
	"gorm.io/gorm"

	"github.com/istorrs/junit-test-results-sub000/internal/model"
	pkgErrors "github.com/istorrs/junit-test-results-sub000/pkg/errors"
)

// TestResultRepository test result persistence interface
type TestResultRepository interface {
	Create(result *model.TestResult) error
	FindByCaseID(caseID int64) (*model.TestResult, error)
	DeleteByRunID(runID int64) error
}

type testResultRepository struct {
	db *gorm.DB
}

// NewTestResultRepository creates a test result repository
func NewTestResultRepository(db *gorm.DB) TestResultRepository {
	return &testResultRepository{db: db}
}

// Create creates a test result
func (r *testResultRepository) Create(result *model.TestResult) error {
	if err := r.db.Create(result).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "create test result failed", err)
	}
	return nil
}

// FindByCaseID finds the companion result of a case
func (r *testResultRepository) FindByCaseID(caseID int64) (*model.TestResult, error) {
	var result model.TestResult
	err := r.db.Where("case_id = ?", caseID).First(&result).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgErrors.ErrRecordNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "query test result failed", err)
	}
	return &result, nil
}

// DeleteByRunID removes all results owned by a run
func (r *testResultRepository) DeleteByRunID(runID int64) error {
	if err := r.db.Where("run_id = ?", runID).Delete(&model.TestResult{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "delete test results failed", err)
	}
	return nil
}
