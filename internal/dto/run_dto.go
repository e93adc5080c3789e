package dto

import (
	"time"

	"github.com/istorrs/junit-test-results-sub000/internal/model"
)

// GetRunRequest run detail request
type GetRunRequest struct {
	ID int64 `form:"id" binding:"required"`
}

// RunListQuery run list query parameters
type RunListQuery struct {
	PageQuery
	Source *string `form:"source" binding:"omitempty,oneof=manual_upload ci_cd api"`
}

// RunResponse run detail response
type RunResponse struct {
	ID            int64            `json:"id"`
	Name          string           `json:"name"`
	JobName       *string          `json:"job_name,omitempty"`
	BuildNumber   *string          `json:"build_number,omitempty"`
	BuildTime     *string          `json:"build_time,omitempty"`
	Branch        *string          `json:"branch,omitempty"`
	Provider      *string          `json:"provider,omitempty"`
	Timestamp     string           `json:"timestamp"`
	Source        string           `json:"source"`
	TotalTests    int              `json:"total_tests"`
	TotalFailures int              `json:"total_failures"`
	TotalErrors   int              `json:"total_errors"`
	TotalSkipped  int              `json:"total_skipped"`
	Time          float64          `json:"time"`
	CreatedAt     string           `json:"created_at"`
	Suites        []*SuiteResponse `json:"suites,omitempty"`
}

// SuiteResponse suite detail inside a run response
type SuiteResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Hostname  string          `json:"hostname,omitempty"`
	Timestamp string          `json:"timestamp"`
	Tests     int             `json:"tests"`
	Failures  int             `json:"failures"`
	Errors    int             `json:"errors"`
	Skipped   int             `json:"skipped"`
	Time      float64         `json:"time"`
	Cases     []*CaseResponse `json:"cases,omitempty"`
}

// CaseResponse one test case inside a suite response
type CaseResponse struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Classname  string  `json:"classname,omitempty"`
	Status     string  `json:"status"`
	Time       float64 `json:"time"`
	Assertions int     `json:"assertions,omitempty"`
	File       string  `json:"file,omitempty"`
	Line       int     `json:"line,omitempty"`
	IsFlaky    bool    `json:"is_flaky"`
}

// FailedCaseResponse one failed case with its stored failure detail
type FailedCaseResponse struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Classname  string  `json:"classname,omitempty"`
	Status     string  `json:"status"`
	Time       float64 `json:"time"`
	Message    string  `json:"message,omitempty"`
	Type       string  `json:"type,omitempty"`
	StackTrace string  `json:"stack_trace,omitempty"`
	Timestamp  string  `json:"timestamp,omitempty"` // reconstructed start time
}

const timeLayout = "2006-01-02 15:04:05"

func formatTimePtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(timeLayout)
	return &s
}

// NewRunResponse converts a TestRun model to its response representation
func NewRunResponse(run *model.TestRun) *RunResponse {
	resp := &RunResponse{
		ID:            run.ID,
		Name:          run.Name,
		JobName:       run.JobName,
		BuildNumber:   run.BuildNumber,
		BuildTime:     formatTimePtr(run.BuildTime),
		Branch:        run.Branch,
		Provider:      run.Provider,
		Timestamp:     run.Timestamp.Format(timeLayout),
		Source:        run.Source,
		TotalTests:    run.TotalTests,
		TotalFailures: run.TotalFailures,
		TotalErrors:   run.TotalErrors,
		TotalSkipped:  run.TotalSkipped,
		Time:          run.Time,
		CreatedAt:     run.CreatedAt.Format(timeLayout),
	}
	for _, suite := range run.Suites {
		resp.Suites = append(resp.Suites, NewSuiteResponse(suite))
	}
	return resp
}

// NewSuiteResponse converts a TestSuite model to its response representation
func NewSuiteResponse(suite *model.TestSuite) *SuiteResponse {
	resp := &SuiteResponse{
		ID:        suite.ID,
		Name:      suite.Name,
		Hostname:  suite.Hostname,
		Timestamp: suite.Timestamp.Format(timeLayout),
		Tests:     suite.Tests,
		Failures:  suite.Failures,
		Errors:    suite.Errors,
		Skipped:   suite.Skipped,
		Time:      suite.Time,
	}
	for _, tc := range suite.Cases {
		resp.Cases = append(resp.Cases, NewCaseResponse(tc))
	}
	return resp
}

// NewCaseResponse converts a TestCase model to its response representation
func NewCaseResponse(tc *model.TestCase) *CaseResponse {
	return &CaseResponse{
		ID:         tc.ID,
		Name:       tc.Name,
		Classname:  tc.Classname,
		Status:     tc.Status,
		Time:       tc.Time,
		Assertions: tc.Assertions,
		File:       tc.File,
		Line:       tc.Line,
		IsFlaky:    tc.IsFlaky,
	}
}

// NewFailedCaseResponse converts a failed TestCase with its preloaded Result
func NewFailedCaseResponse(tc *model.TestCase) *FailedCaseResponse {
	resp := &FailedCaseResponse{
		ID:        tc.ID,
		Name:      tc.Name,
		Classname: tc.Classname,
		Status:    tc.Status,
		Time:      tc.Time,
	}
	if tc.Result != nil {
		resp.Message = tc.Result.Message
		resp.Type = tc.Result.Type
		resp.StackTrace = tc.Result.StackTrace
		resp.Timestamp = tc.Result.Timestamp.Format(timeLayout)
	}
	return resp
}
