package model

import "time"

const FileUploadTableName = "file_uploads"

// FileUpload one ingestion attempt. Status machine:
// processing -> completed, or processing -> failed.
// The content hash is unique among completed uploads only, so a failed attempt
// never blocks a retry of the same bytes.
type FileUpload struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	Filename    string `gorm:"size:512;not null" json:"filename"`
	ContentHash string `gorm:"column:content_hash;size:64;not null;index" json:"content_hash"`
	Size        int64  `gorm:"not null;default:0" json:"size"`

	Status string `gorm:"size:20;not null;index" json:"status"` // processing/completed/failed
	Source string `gorm:"size:20;not null" json:"source"`

	RunID *int64 `gorm:"column:run_id;index" json:"run_id,omitempty"`

	UploaderIP string `gorm:"column:uploader_ip;size:64" json:"uploader_ip,omitempty"`
	UserAgent  string `gorm:"size:512" json:"user_agent,omitempty"`

	ErrorMessage *string `gorm:"type:text" json:"error_message,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName table name
func (FileUpload) TableName() string {
	return FileUploadTableName
}
