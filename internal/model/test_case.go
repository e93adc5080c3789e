package model

import "time"

const TestCaseTableName = "test_cases"

// TestCase a single test execution. Cross-run identity is the
// (name, classname) pair, not the database key: the same logical test recurs
// across many runs and uploads.
type TestCase struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID   int64 `gorm:"column:run_id;not null;index" json:"run_id"`
	SuiteID int64 `gorm:"column:suite_id;not null;index" json:"suite_id"`

	Name      string `gorm:"size:512;not null;index:idx_case_identity" json:"name"`
	Classname string `gorm:"size:512;index:idx_case_identity" json:"classname"`

	Status     string  `gorm:"size:10;not null;index" json:"status"` // passed/failed/error/skipped
	Time       float64 `gorm:"not null;default:0" json:"time"`       // duration in seconds
	Assertions int     `gorm:"not null;default:0" json:"assertions"`
	File       string  `gorm:"size:512" json:"file"`
	Line       int     `gorm:"not null;default:0" json:"line"`

	SystemOut string `gorm:"type:text" json:"system_out,omitempty"`
	SystemErr string `gorm:"type:text" json:"system_err,omitempty"`

	// mutated only by the flaky-test detector, never at ingestion time
	IsFlaky         bool       `gorm:"not null;default:false;index" json:"is_flaky"`
	FlakyDetectedAt *time.Time `json:"flaky_detected_at,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Result *TestResult `gorm:"foreignKey:CaseID" json:"result,omitempty"`
}

// TableName table name
func (TestCase) TableName() string {
	return TestCaseTableName
}
