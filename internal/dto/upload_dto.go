package dto

import (
	"github.com/istorrs/junit-test-results-sub000/internal/model"
)

// CIMetadata optional CI context accompanying an upload, supplied as a
// multipart form field. BuildTime is RFC3339 text, parsed by the service.
type CIMetadata struct {
	JobName     string   `json:"job_name" form:"job_name"`
	BuildNumber string   `json:"build_number" form:"build_number"`
	BuildTime   string   `json:"build_time" form:"build_time"` // RFC3339
	Branch      string   `json:"branch" form:"branch"`
	Provider    string   `json:"provider" form:"provider"`
	Tags        []string `json:"tags" form:"tags"`
}

// HasIdentity reports whether the metadata carries a full CI identity triple
func (m *CIMetadata) HasIdentity() bool {
	return m != nil && m.JobName != "" && m.BuildNumber != "" && m.BuildTime != ""
}

// UploadListQuery upload list query parameters
type UploadListQuery struct {
	PageQuery
	Status *string `form:"status" binding:"omitempty,oneof=processing completed failed"`
}

// UploadResponse ingestion outcome of one upload
type UploadResponse struct {
	UploadID    int64  `json:"upload_id"`
	RunID       *int64 `json:"run_id,omitempty"`
	Filename    string `json:"filename"`
	ContentHash string `json:"content_hash"`
	Size        int64  `json:"size"`
	Status      string `json:"status"`
	Duplicate   bool   `json:"duplicate"`

	// populated for fresh (non-duplicate) successful ingestions
	TotalTests    int `json:"total_tests"`
	TotalFailures int `json:"total_failures"`
	TotalErrors   int `json:"total_errors"`
	TotalSkipped  int `json:"total_skipped"`
}

// UploadInfo one upload record in list responses
type UploadInfo struct {
	ID           int64   `json:"id"`
	Filename     string  `json:"filename"`
	ContentHash  string  `json:"content_hash"`
	Size         int64   `json:"size"`
	Status       string  `json:"status"`
	Source       string  `json:"source"`
	RunID        *int64  `json:"run_id,omitempty"`
	ErrorMessage *string `json:"error_message,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

// NewUploadInfo converts a FileUpload model to its list representation
func NewUploadInfo(u *model.FileUpload) *UploadInfo {
	return &UploadInfo{
		ID:           u.ID,
		Filename:     u.Filename,
		ContentHash:  u.ContentHash,
		Size:         u.Size,
		Status:       u.Status,
		Source:       u.Source,
		RunID:        u.RunID,
		ErrorMessage: u.ErrorMessage,
		CreatedAt:    u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
