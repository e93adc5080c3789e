package dto

import (
	"github.com/istorrs/junit-test-results-sub000/internal/analysis"
	"github.com/istorrs/junit-test-results-sub000/internal/model"
)

// FailureAnalysisResponse clustered failure patterns of one run
type FailureAnalysisResponse struct {
	RunID          int64                     `json:"run_id"`
	TotalFailures  int                       `json:"total_failures"`
	Patterns       []analysis.FailurePattern `json:"patterns"`
	CategoryCounts map[string]int            `json:"category_counts"`
}

// FlakyDetectionResponse outcome of one flaky-detection pass over a run
type FlakyDetectionResponse struct {
	RunID     int64            `json:"run_id"`
	Evaluated int              `json:"evaluated"` // failed/errored cases examined
	Flagged   int              `json:"flagged"`   // cases newly marked flaky
	Cases     []*FlakyCaseInfo `json:"cases,omitempty"`
}

// FlakyListQuery flaky case list query parameters
type FlakyListQuery struct {
	PageQuery
}

// FlakyCaseInfo one flagged test case
type FlakyCaseInfo struct {
	ID              int64  `json:"id"`
	RunID           int64  `json:"run_id"`
	Name            string `json:"name"`
	Classname       string `json:"classname,omitempty"`
	Status          string `json:"status"`
	FlakyDetectedAt string `json:"flaky_detected_at,omitempty"`
}

// NewFlakyCaseInfo converts a flagged TestCase to its response representation
func NewFlakyCaseInfo(tc *model.TestCase) *FlakyCaseInfo {
	info := &FlakyCaseInfo{
		ID:        tc.ID,
		RunID:     tc.RunID,
		Name:      tc.Name,
		Classname: tc.Classname,
		Status:    tc.Status,
	}
	if tc.FlakyDetectedAt != nil {
		info.FlakyDetectedAt = tc.FlakyDetectedAt.Format(timeLayout)
	}
	return info
}
