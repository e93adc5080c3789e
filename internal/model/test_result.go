package model

import "time"

const TestResultTableName = "test_results"

// TestResult one-to-one companion of a TestCase holding failure detail and the
// reconstructed wall-clock start time of that specific test. Exists so failure
// detail can be queried and aggregated without loading full case documents.
type TestResult struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	CaseID int64 `gorm:"column:case_id;not null;uniqueIndex" json:"case_id"`
	RunID  int64 `gorm:"column:run_id;not null;index" json:"run_id"`

	Status     string `gorm:"size:10;not null" json:"status"`
	Message    string `gorm:"type:text" json:"message,omitempty"`
	Type       string `gorm:"size:255" json:"type,omitempty"`
	StackTrace string `gorm:"type:longtext" json:"stack_trace,omitempty"`

	// estimated start time: suite timestamp + sum of preceding sibling durations
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName table name
func (TestResult) TableName() string {
	return TestResultTableName
}
