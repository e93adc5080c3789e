package model

import (
	"time"

	"gorm.io/datatypes"
)

const TestRunTableName = "test_runs"

// TestRun one ingested build/run of a test job.
//
// Identity is either the CI triple (job_name, build_number, build_time) or the
// content hash of the uploaded XML when no CI metadata was supplied. Aggregate
// counters are always recomputed from the owned TestCases, never copied from
// the XML header.
type TestRun struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`

	// CI identity (nil for ad-hoc uploads)
	JobName     *string    `gorm:"size:255;index:idx_ci_identity" json:"job_name,omitempty"`
	BuildNumber *string    `gorm:"size:64;index:idx_ci_identity" json:"build_number,omitempty"`
	BuildTime   *time.Time `gorm:"index:idx_ci_identity" json:"build_time,omitempty"`
	Branch      *string    `gorm:"size:255" json:"branch,omitempty"`
	Provider    *string    `gorm:"size:64" json:"provider,omitempty"`

	// content hash identity for uploads without CI metadata
	ContentHash *string `gorm:"column:content_hash;size:64;index" json:"content_hash,omitempty"`

	// resolved execution timestamp (build_time > first suite timestamp > upload time)
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`

	Source string `gorm:"size:20;not null;index" json:"source"` // manual_upload/ci_cd/api

	// aggregate counters, derived by summing owned TestCases
	TotalTests    int     `gorm:"not null;default:0" json:"total_tests"`
	TotalFailures int     `gorm:"not null;default:0" json:"total_failures"`
	TotalErrors   int     `gorm:"not null;default:0" json:"total_errors"`
	TotalSkipped  int     `gorm:"not null;default:0" json:"total_skipped"`
	Time          float64 `gorm:"not null;default:0" json:"time"` // total duration in seconds

	Tags       datatypes.JSON `gorm:"type:json" json:"tags,omitempty"`        // optional release tags
	CIMetadata datatypes.JSON `gorm:"column:ci_metadata;type:json" json:"ci_metadata,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Suites []*TestSuite `gorm:"foreignKey:RunID" json:"suites,omitempty"`
}

// TableName table name
func (TestRun) TableName() string {
	return TestRunTableName
}
