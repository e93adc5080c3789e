package model

import "time"

const TestSuiteTableName = "test_suites"

// TestSuite one <testsuite> element of one upload, owned by exactly one TestRun.
type TestSuite struct {
	ID    int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID int64 `gorm:"column:run_id;not null;index" json:"run_id"`

	Name     string `gorm:"size:512;not null" json:"name"`
	Hostname string `gorm:"size:255" json:"hostname"`

	// suite-level override of the run timestamp when the XML carries one
	Timestamp time.Time `gorm:"not null" json:"timestamp"`

	Tests    int     `gorm:"not null;default:0" json:"tests"`
	Failures int     `gorm:"not null;default:0" json:"failures"`
	Errors   int     `gorm:"not null;default:0" json:"errors"`
	Skipped  int     `gorm:"not null;default:0" json:"skipped"`
	Time     float64 `gorm:"not null;default:0" json:"time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Run   *TestRun    `gorm:"foreignKey:RunID" json:"-"`
	Cases []*TestCase `gorm:"foreignKey:SuiteID" json:"cases,omitempty"`
}

// TableName table name
func (TestSuite) TableName() string {
	return TestSuiteTableName
}
