package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func pytestAssertTrace(expected, got, line int) string {
	return fmt.Sprintf(`def test_totals():
>       assert total == %d
E       AssertionError: expected %d but got %d
tests/test_totals.py:%d: AssertionError`, expected, expected, got, line)
}

func TestClusterFailuresEmpty(t *testing.T) {
	report := ClusterFailures(nil)
	assert.Equal(t, 0, report.TotalFailures)
	assert.Empty(t, report.Patterns)
	assert.Empty(t, report.CategoryCounts)
}

func TestClusterFailuresNearDuplicatesMerge(t *testing.T) {
	failures := []FailureInput{
		{TestID: "test_totals_a", CaseID: 1, Trace: pytestAssertTrace(5, 3, 42)},
		{TestID: "test_totals_b", CaseID: 2, Trace: pytestAssertTrace(7, 2, 42)},
	}

	report := ClusterFailures(failures)

	assert.Equal(t, 2, report.TotalFailures)
	assert.Len(t, report.Patterns, 1)

	p := report.Patterns[0]
	assert.Equal(t, 2, p.Count)
	assert.Equal(t, "AssertionError", p.ExceptionType)
	assert.Equal(t, CategoryAssertion, p.Category)
	assert.Equal(t, []int64{1, 2}, p.CaseIDs)
	assert.ElementsMatch(t, []string{"test_totals_a", "test_totals_b"}, p.ExampleTests)
	assert.Equal(t, 2, report.CategoryCounts[CategoryAssertion])
}

func TestClusterFailuresDistinctCausesStaySeparate(t *testing.T) {
	failures := []FailureInput{
		{TestID: "test_totals_a", CaseID: 1, Trace: pytestAssertTrace(5, 3, 42)},
		{TestID: "test_totals_b", CaseID: 2, Trace: pytestAssertTrace(7, 2, 42)},
		{
			TestID:  "test_api_health",
			CaseID:  3,
			Message: "ConnectionError: connection refused by host",
			Trace:   "requests.exceptions.ConnectionError: connection refused by host",
		},
	}

	report := ClusterFailures(failures)

	assert.Equal(t, 3, report.TotalFailures)
	assert.Len(t, report.Patterns, 2)

	// largest pattern first
	assert.Equal(t, 2, report.Patterns[0].Count)
	assert.Equal(t, CategoryAssertion, report.Patterns[0].Category)
	assert.Equal(t, 1, report.Patterns[1].Count)
	assert.Equal(t, CategoryConnection, report.Patterns[1].Category)

	assert.Equal(t, 2, report.CategoryCounts[CategoryAssertion])
	assert.Equal(t, 1, report.CategoryCounts[CategoryConnection])
}

func TestClusterFailuresDeterministic(t *testing.T) {
	failures := []FailureInput{
		{TestID: "a", CaseID: 1, Trace: pytestAssertTrace(5, 3, 42)},
		{
			TestID:  "b",
			CaseID:  2,
			Message: "TimeoutError: operation timed out",
			Trace:   "TimeoutError: operation timed out after 30s",
		},
	}

	first := ClusterFailures(failures)
	second := ClusterFailures(failures)
	assert.Equal(t, first, second)

	for _, p := range first.Patterns {
		assert.NotEmpty(t, p.Fingerprint)
	}
}

func TestClusterFailuresExampleCap(t *testing.T) {
	var failures []FailureInput
	for i := 0; i < 8; i++ {
		failures = append(failures, FailureInput{
			TestID: fmt.Sprintf("test_case_%c", 'a'+i),
			CaseID: int64(i + 1),
			Trace:  pytestAssertTrace(5, 3, 42),
		})
	}

	report := ClusterFailures(failures)

	assert.Len(t, report.Patterns, 1)
	assert.Equal(t, 8, report.Patterns[0].Count)
	assert.Len(t, report.Patterns[0].ExampleTests, maxExampleTests)
	assert.Len(t, report.Patterns[0].CaseIDs, 8)
}

func TestCharSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, charSimilarity("abc", "abc"))
	assert.Equal(t, 1.0, charSimilarity("", ""))
	assert.Equal(t, 0.0, charSimilarity("abc", "xyz"))
	assert.Greater(t, charSimilarity(
		"expected <VALUE> but got <VALUE> in checkout",
		"expected <VALUE> but got <VALUE> in checkout flow",
	), similarityThreshold)
}
