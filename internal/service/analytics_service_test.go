package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/istorrs/junit-test-results-sub000/internal/model"
	"github.com/istorrs/junit-test-results-sub000/pkg/constants"
)

func newAnalyticsFixture(t *testing.T) (*fakeRunRepo, *fakeCaseRepo, AnalyticsService) {
	runs := newFakeRunRepo()
	cases := &fakeCaseRepo{}
	require.NoError(t, runs.Create(&model.TestRun{Name: "run"}))
	return runs, cases, NewAnalyticsService(runs, cases)
}

func failedCase(runID int64, name, classname, message, trace string) *model.TestCase {
	return &model.TestCase{
		RunID:     runID,
		Name:      name,
		Classname: classname,
		Status:    constants.TestStatusFailed,
		Result: &model.TestResult{
			Status:     constants.TestStatusFailed,
			Message:    message,
			StackTrace: trace,
		},
	}
}

func TestAnalyzeFailuresGroupsSameCause(t *testing.T) {
	_, cases, svc := newAnalyticsFixture(t)

	trace := func(got int) string {
		return `def test_totals():
E       AssertionError: expected 5 but got ` + string(rune('0'+got)) + `
tests/test_totals.py:42: AssertionError`
	}
	cases.add(failedCase(1, "test_a", "tests.totals", "", trace(3)))
	cases.add(failedCase(1, "test_b", "tests.totals", "", trace(1)))

	resp, err := svc.AnalyzeFailures(1)
	require.NoError(t, err)

	assert.Equal(t, 2, resp.TotalFailures)
	require.Len(t, resp.Patterns, 1)
	assert.Equal(t, 2, resp.Patterns[0].Count)
	assert.Equal(t, "AssertionError", resp.Patterns[0].ExceptionType)
	assert.Contains(t, resp.Patterns[0].ExampleTests, "tests.totals.test_a")
	assert.Equal(t, 2, resp.CategoryCounts["Assertion Failure"])
}

func TestAnalyzeFailuresEmptyRun(t *testing.T) {
	_, _, svc := newAnalyticsFixture(t)

	resp, err := svc.AnalyzeFailures(1)
	require.NoError(t, err)

	assert.Equal(t, 0, resp.TotalFailures)
	assert.Empty(t, resp.Patterns)
	assert.Empty(t, resp.CategoryCounts)
}

func TestAnalyzeFailuresUnknownRun(t *testing.T) {
	_, _, svc := newAnalyticsFixture(t)
	_, err := svc.AnalyzeFailures(99)
	assert.Error(t, err)
}
