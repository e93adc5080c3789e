package constants

// TestStatus outcome of a single test case
const (
	TestStatusPassed  = "passed"
	TestStatusFailed  = "failed"
	TestStatusError   = "error"
	TestStatusSkipped = "skipped"
)

// UploadStatus FileUpload state machine: processing -> completed | failed
const (
	UploadStatusProcessing = "processing"
	UploadStatusCompleted  = "completed"
	UploadStatusFailed     = "failed"
)

// RunSource how a test run reached the system
const (
	RunSourceManualUpload = "manual_upload"
	RunSourceCICD         = "ci_cd"
	RunSourceAPI          = "api"
)

// FlakyHistoryWindow default number of historical executions inspected per test
const FlakyHistoryWindow = 10

// FlakyMinHistory minimum history size before a flaky verdict is possible
const FlakyMinHistory = 3
