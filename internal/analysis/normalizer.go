// Package analysis contains the pure failure-analysis core: trace/message
// normalization, exception and root-cause extraction, fingerprinting, and
// similarity-based clustering. Everything here is stateless and side-effect
// free; identical input always produces identical output.
package analysis

import "regexp"

// replaceRule one ordered replacement step of the normalizer
type replaceRule struct {
	re   *regexp.Regexp
	repl string
}

// traceRules strip volatile tokens from stack traces and error messages so
// that two failures differing only in a timestamp, object id or numeric value
// normalize to identical text. Order matters: timestamps must be masked before
// the port rule can see their colons, and paths must collapse before line
// numbers are considered port-like. Every replacement is idempotent, no
// placeholder re-matches a later rule.
var traceRules = []replaceRule{
	// ISO-8601 timestamps, with optional fraction and zone
	{regexp.MustCompile(`\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:\.\d+)?(?:Z|[+-]\d{2}:?\d{2})?`), "<TIMESTAMP>"},
	// epoch milliseconds and seconds
	{regexp.MustCompile(`\b1[5-9]\d{11}\b`), "<TIMESTAMP>"},
	{regexp.MustCompile(`\b1[5-9]\d{8}\b`), "<TIMESTAMP>"},
	// duration phrases: 1.5s, 300ms, 2 seconds
	{regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:ms|milliseconds?|seconds?|secs?|s)\b`), "<DURATION>"},
	// UUIDs
	{regexp.MustCompile(`\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`), "<UUID>"},
	// hex addresses, e.g. pointer prints
	{regexp.MustCompile(`\b0x[0-9a-fA-F]+\b`), "<HEX>"},
	// 24-hex-char object identifiers
	{regexp.MustCompile(`\b[0-9a-f]{24}\b`), "<OBJID>"},
	// id=42 / entity_42 patterns
	{regexp.MustCompile(`(?i)\bid=\d+`), "id=<ID>"},
	{regexp.MustCompile(`(?i)\bentity_\d+\b`), "entity_<ID>"},
	// absolute file paths collapse to the bare filename
	{regexp.MustCompile(`/(?:[\w.\-]+/)+([\w.\-]+)`), "$1"},
	// thread identifiers
	{regexp.MustCompile(`(?i)\bthread[-_ ]?\d+\b`), "<THREAD>"},
	// port-like :8080 (after timestamps and paths have been masked)
	{regexp.MustCompile(`:\d{2,5}\b`), "<PORT>"},
	// expected X but got Y collapses to a fixed template
	{regexp.MustCompile(`(?i)expected\s+[^\n]+?\s+but\s+got\s+[^\n]+`), "expected <VALUE> but got <VALUE>"},
}

// messageRules additionally mask every standalone number and quoted string.
// Applied to plain messages only: exact values are almost always incidental to
// whether two failures are the same, but inside traces they would erase line
// structure the fingerprint relies on.
var messageRules = []replaceRule{
	{regexp.MustCompile(`'[^']*'`), "<STR>"},
	{regexp.MustCompile(`"[^"]*"`), "<STR>"},
	{regexp.MustCompile(`\b\d+(?:\.\d+)?\b`), "<NUM>"},
}

// NormalizeTrace strips volatile tokens from a stack trace.
func NormalizeTrace(raw string) string {
	out := raw
	for _, rule := range traceRules {
		out = rule.re.ReplaceAllString(out, rule.repl)
	}
	return out
}

// NormalizeMessage strips volatile tokens from an error message, including
// standalone numbers and quoted strings.
func NormalizeMessage(raw string) string {
	out := NormalizeTrace(raw)
	for _, rule := range messageRules {
		out = rule.re.ReplaceAllString(out, rule.repl)
	}
	return out
}
