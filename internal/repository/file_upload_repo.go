package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/istorrs/junit-test-results-sub000/internal/model"
	"github.com/istorrs/junit-test-results-sub000/pkg/constants"
	pkgErrors "github.com/istorrs/junit-test-results-sub000/pkg/errors"
)

// FileUploadRepository file upload persistence interface
type FileUploadRepository interface {
	Create(upload *model.FileUpload) error
	FindByID(id int64) (*model.FileUpload, error)
	FindCompletedByHash(contentHash string) (*model.FileUpload, error)
	Update(upload *model.FileUpload) error
	List(page, pageSize int, status *string) ([]*model.FileUpload, int64, error)
	DetachRun(runID int64) error
	MarkStaleFailed(olderThan time.Time) (int64, error)
}

type fileUploadRepository struct {
	db *gorm.DB
}

// NewFileUploadRepository creates a file upload repository
func NewFileUploadRepository(db *gorm.DB) FileUploadRepository {
	return &fileUploadRepository{db: db}
}

// Create creates a file upload record
func (r *fileUploadRepository) Create(upload *model.FileUpload) error {
	if err := r.db.Create(upload).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "create file upload failed", err)
	}
	return nil
}

// FindByID finds a file upload by id
func (r *fileUploadRepository) FindByID(id int64) (*model.FileUpload, error) {
	var upload model.FileUpload
	err := r.db.First(&upload, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgErrors.ErrUploadNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "query file upload failed", err)
	}
	return &upload, nil
}

// FindCompletedByHash finds a completed upload with the given content hash.
// Uniqueness is only enforced among completed uploads, so a failed attempt
// does not block a retry of the same bytes.
func (r *fileUploadRepository) FindCompletedByHash(contentHash string) (*model.FileUpload, error) {
	var upload model.FileUpload
	err := r.db.Where("content_hash = ? AND status = ?", contentHash, constants.UploadStatusCompleted).
		Order("created_at DESC").
		First(&upload).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgErrors.ErrUploadNotFound
		}
		return nil, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "query file upload failed", err)
	}
	return &upload, nil
}

// Update updates a file upload record
func (r *fileUploadRepository) Update(upload *model.FileUpload) error {
	if err := r.db.Save(upload).Error; err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "update file upload failed", err)
	}
	return nil
}

// List lists uploads, paginated, newest first
func (r *fileUploadRepository) List(page, pageSize int, status *string) ([]*model.FileUpload, int64, error) {
	var uploads []*model.FileUpload
	var total int64

	query := r.db.Model(&model.FileUpload{})

	if status != nil && *status != "" {
		query = query.Where("status = ?", *status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "count file uploads failed", err)
	}

	offset := (page - 1) * pageSize
	if err := query.Order("created_at DESC").
		Limit(pageSize).Offset(offset).
		Find(&uploads).Error; err != nil {
		return nil, 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "list file uploads failed", err)
	}

	return uploads, total, nil
}

// DetachRun clears the run reference on uploads whose run is being deleted
func (r *fileUploadRepository) DetachRun(runID int64) error {
	err := r.db.Model(&model.FileUpload{}).
		Where("run_id = ?", runID).
		Update("run_id", nil).Error
	if err != nil {
		return pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "detach file uploads failed", err)
	}
	return nil
}

// MarkStaleFailed fails out uploads stuck in processing, used by the sweeper.
// Returns the number of rows updated.
func (r *fileUploadRepository) MarkStaleFailed(olderThan time.Time) (int64, error) {
	msg := "ingestion did not complete, failed by sweeper"
	result := r.db.Model(&model.FileUpload{}).
		Where("status = ? AND created_at < ?", constants.UploadStatusProcessing, olderThan).
		Updates(map[string]interface{}{
			"status":        constants.UploadStatusFailed,
			"error_message": msg,
		})
	if result.Error != nil {
		return 0, pkgErrors.Wrap(pkgErrors.CodeDatabaseError, "sweep stale uploads failed", result.Error)
	}
	return result.RowsAffected, nil
}
