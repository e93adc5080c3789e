package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/istorrs/junit-test-results-sub000/internal/model"
	pkgErrors "github.com/istorrs/junit-test-results-sub000/pkg/errors"
)

// TestRunRepository test run persistence interface
type TestRunRepository interface {
	Create(run *model.TestRun) error
	FindByID(id int64, opts ...QueryOption) (*model.TestRun, error)
	FindByCIIdentity(jobName, buildNumber string, buildTime time.Time) (*model.TestRun, error)
	List(page, pageSize int, source *string, keyword string) ([]*model.TestRun, int64, error)
	Update(run *model.TestRun) error
	Delete(id int64) error
}

type testRunRepository struct {
	db *gorm.DB
}

// NewTestRunRepository creates a test run repository
func NewTestRunRepository(db *gorm.DB) TestRunRepository {
	return &testRunRepository{db: db}
}

// Create creates a test run
func (r *testRunRepository) Create(run *model.TestRun) error {
	if err := r.db.Create(run).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "create test run failed", err)
	}
	return nil
}

// FindByID finds a test run by id
func (r *testRunRepository) FindByID(id int64, opts ...QueryOption) (*model.TestRun, error) {
	var run model.TestRun
	query := r.db
	for _, opt := range opts {
		query = opt(query)
	}
	err := query.First(&run, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgErrors.ErrRunNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "query test run failed", err)
	}
	return &run, nil
}

// FindByCIIdentity finds a run by the exact (job_name, build_number, build_time) triple
func (r *testRunRepository) FindByCIIdentity(jobName, buildNumber string, buildTime time.Time) (*model.TestRun, error) {
	var run model.TestRun
	err := r.db.Where("job_name = ? AND build_number = ? AND build_time = ?",
		jobName, buildNumber, buildTime).
		First(&run).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgErrors.ErrRunNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "query test run failed", err)
	}
	return &run, nil
}

// List lists runs, paginated, newest first
func (r *testRunRepository) List(page, pageSize int, source *string, keyword string) ([]*model.TestRun, int64, error) {
	var runs []*model.TestRun
	var total int64

	query := r.db.Model(&model.TestRun{})

	if source != nil && *source != "" {
		query = query.Where("source = ?", *source)
	}

	if keyword != "" {
		query = query.Where("name LIKE ? OR job_name LIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "count test runs failed", err)
	}

	offset := (page - 1) * pageSize
	if err := query.Order("timestamp DESC").
		Limit(pageSize).Offset(offset).
		Find(&runs).Error; err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "list test runs failed", err)
	}

	return runs, total, nil
}

// Update updates a test run
func (r *testRunRepository) Update(run *model.TestRun) error {
	if err := r.db.Save(run).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "update test run failed", err)
	}
	return nil
}

// Delete deletes a test run row (owned rows are removed by the cascade in the service)
func (r *testRunRepository) Delete(id int64) error {
	if err := r.db.Delete(&model.TestRun{}, id).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "delete test run failed", err)
	}
	return nil
}
