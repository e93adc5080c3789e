package analysis

import (
	"sort"

	"github.com/samber/lo"
)

// similarityThreshold minimum Jaccard similarity for two distinct
// fingerprints to be folded into one pattern
const similarityThreshold = 0.8

// maxExampleTests per-pattern cap on the example test names carried in reports
const maxExampleTests = 5

// FailureInput one failed or errored case, as fed to the clusterer
type FailureInput struct {
	TestID  string
	CaseID  int64
	Message string
	Trace   string
}

// FailurePattern a group of failures sharing one underlying cause
type FailurePattern struct {
	Fingerprint   string    `json:"fingerprint"`
	ExceptionType string    `json:"exception_type"`
	Category      Category  `json:"category"`
	RootCause     RootCause `json:"root_cause"`
	Message       string    `json:"message"`
	Count         int       `json:"count"`
	ExampleTests  []string  `json:"example_tests"`
	CaseIDs       []int64   `json:"case_ids"`
}

// ClusterReport the full analysis result for one run
type ClusterReport struct {
	TotalFailures  int              `json:"total_failures"`
	Patterns       []FailurePattern `json:"patterns"`
	CategoryCounts map[Category]int `json:"category_counts"`
}

type cluster struct {
	pattern FailurePattern
	// normalized message of the first member, the similarity anchor
	anchor string
}

// ClusterFailures groups failures into patterns. Exact fingerprint matches
// merge first, then near-duplicates: a failure joins an existing cluster when
// the exception type and category agree and the normalized messages are at
// least 80% similar. Patterns come back ordered by size, largest first,
// fingerprint as the tiebreak so output is deterministic.
func ClusterFailures(failures []FailureInput) *ClusterReport {
	report := &ClusterReport{
		TotalFailures:  len(failures),
		Patterns:       []FailurePattern{},
		CategoryCounts: map[Category]int{},
	}
	if len(failures) == 0 {
		return report
	}

	var clusters []*cluster
	byFingerprint := make(map[string]*cluster)

	for _, f := range failures {
		normTrace := NormalizeTrace(f.Trace)
		excType := ExtractExceptionType(f.Trace, f.Message)
		rootCause := ExtractRootCause(f.Trace)
		category := Categorize(excType, f.Message, f.Trace)
		message := ExtractMessage(f.Message, f.Trace, excType)
		normMessage := NormalizeMessage(message)
		fp := Fingerprint(excType, rootCause, normMessage, normTrace)

		report.CategoryCounts[category]++

		target := byFingerprint[fp]
		if target == nil {
			for _, c := range clusters {
				if c.pattern.ExceptionType != excType || c.pattern.Category != category {
					continue
				}
				if charSimilarity(c.anchor, normMessage) >= similarityThreshold {
					target = c
					break
				}
			}
		}

		if target == nil {
			target = &cluster{
				pattern: FailurePattern{
					Fingerprint:   fp,
					ExceptionType: excType,
					Category:      category,
					RootCause:     rootCause,
					Message:       normMessage,
				},
				anchor: normMessage,
			}
			clusters = append(clusters, target)
			byFingerprint[fp] = target
		}

		target.pattern.Count++
		target.pattern.CaseIDs = append(target.pattern.CaseIDs, f.CaseID)
		if len(target.pattern.ExampleTests) < maxExampleTests &&
			!lo.Contains(target.pattern.ExampleTests, f.TestID) {
			target.pattern.ExampleTests = append(target.pattern.ExampleTests, f.TestID)
		}
	}

	report.Patterns = lo.Map(clusters, func(c *cluster, _ int) FailurePattern {
		return c.pattern
	})
	sort.Slice(report.Patterns, func(i, j int) bool {
		if report.Patterns[i].Count != report.Patterns[j].Count {
			return report.Patterns[i].Count > report.Patterns[j].Count
		}
		return report.Patterns[i].Fingerprint < report.Patterns[j].Fingerprint
	})

	return report
}

// charSimilarity Jaccard similarity over the character sets of two strings.
// Deliberately cheap: near-duplicate messages differ in a few substituted
// values, which barely perturbs the character set.
func charSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	setA := make(map[rune]struct{})
	for _, r := range a {
		setA[r] = struct{}{}
	}
	setB := make(map[rune]struct{})
	for _, r := range b {
		setB[r] = struct{}{}
	}
	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}

	intersection := 0
	for r := range setA {
		if _, ok := setB[r]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
