package repository

import (
	"gorm.io/gorm"

	"github.com/istorrs/junit-test-results-sub000/internal/model"
	pkgErrors "github.com/istorrs/junit-test-results-sub000/pkg/errors"
)

// TestSuiteRepository test suite persistence interface
type TestSuiteRepository interface {
	Create(suite *model.TestSuite) error
	ListByRunID(runID int64) ([]*model.TestSuite, error)
	Update(suite *model.TestSuite) error
	DeleteByRunID(runID int64) error
}

type testSuiteRepository struct {
	db *gorm.DB
}

// NewTestSuiteRepository creates a test suite repository
func NewTestSuiteRepository(db *gorm.DB) TestSuiteRepository {
	return &testSuiteRepository{db: db}
}

// Create creates a test suite
func (r *testSuiteRepository) Create(suite *model.TestSuite) error {
	if err := r.db.Create(suite).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "create test suite failed", err)
	}
	return nil
}

// ListByRunID lists the suites owned by a run, in insertion order
func (r *testSuiteRepository) ListByRunID(runID int64) ([]*model.TestSuite, error) {
	var suites []*model.TestSuite
	err := r.db.Where("run_id = ?", runID).
		Order("id ASC").
		Find(&suites).Error
	if err != nil {
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "list test suites failed", err)
	}
	return suites, nil
}

// Update updates a test suite
func (r *testSuiteRepository) Update(suite *model.TestSuite) error {
	if err := r.db.Save(suite).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "update test suite failed", err)
	}
	return nil
}

// DeleteByRunID removes all suites owned by a run
func (r *testSuiteRepository) DeleteByRunID(runID int64) error {
	if err := r.db.Where("run_id = ?", runID).Delete(&model.TestSuite{}).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "delete test suites failed", err)
	}
	return nil
}
