package analysis

import (
	"hash/fnv"
	"strconv"
	"strings"
)

// fingerprintTraceLines how many leading lines of the normalized trace
// participate in the fingerprint. Deep frames churn between environments,
// the top of the trace is what identifies the failure.
const fingerprintTraceLines = 5

// Fingerprint derives a stable, compact identity for a failure from its
// already-normalized components. Same normalized inputs always hash to the
// same fingerprint, so re-ingesting a run reproduces its failure groups.
func Fingerprint(exceptionType string, rootCause RootCause, normalizedMessage, normalizedTrace string) string {
	lines := strings.Split(normalizedTrace, "\n")
	if len(lines) > fingerprintTraceLines {
		lines = lines[:fingerprintTraceLines]
	}

	signature := strings.Join([]string{
		exceptionType,
		rootCause.String(),
		normalizedMessage,
		strings.Join(lines, "\n"),
	}, " :: ")

	h := fnv.New32a()
	h.Write([]byte(signature))
	return strconv.FormatUint(uint64(h.Sum32()), 36)
}
