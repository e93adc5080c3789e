package analysis

import (
	"path"
	"regexp"
	"strings"
)

// UnknownExceptionType sentinel used when no extraction rule matches.
// Extraction never fails, it only degrades.
const UnknownExceptionType = "UnknownError"

// Category coarse failure category
type Category string

const (
	CategoryAssertion     Category = "Assertion Failure"
	CategoryNullPointer   Category = "Null Pointer Error"
	CategoryTimeout       Category = "Timeout Error"
	CategoryConnection    Category = "Connection Error"
	CategorySetupTeardown Category = "Setup/Teardown Error"
	CategoryInvalidState  Category = "Invalid State/Argument"
	CategoryOther         Category = "Other Error"
)

var (
	pytestMarkerRe = regexp.MustCompile(`(?m)^E\s+(.+)$`)
	exceptionIDRe  = regexp.MustCompile(`\b[A-Za-z_][\w.]*(?:Error|Exception)\b`)
	fileLineTypeRe = regexp.MustCompile(`(?m)^[\w./\\-]+:\d+:\s*([A-Za-z_][\w.]*(?:Error|Exception))\b`)
	genericTypeRe  = regexp.MustCompile(`\b(?:[a-z_][\w.]*\.)?([A-Z]\w*(?:Exception|Error))\b`)
	raiseRe        = regexp.MustCompile(`\braise\s+([A-Za-z_][\w.]*(?:Error|Exception))\b`)

	pyLocRe   = regexp.MustCompile(`^([\w./\\-]+\.py):(\d+):`)
	pyDefRe   = regexp.MustCompile(`\bdef\s+(\w+)\s*\(`)
	pyFrameRe = regexp.MustCompile(`File "([^"]+)", line (\d+), in (\w+)`)
	javaAtRe  = regexp.MustCompile(`\bat\s+([\w.$]+)\.([\w$<>]+)\(([^)]*)\)`)
)

// commonExceptions runtime exception names recognized anywhere in a trace,
// checked after the positional rules but before the generic suffix match.
var commonExceptions = []string{
	"AssertionError",
	"NullPointerException",
	"AttributeError",
	"TypeError",
	"ValueError",
	"KeyError",
	"IndexError",
	"RuntimeError",
	"TimeoutError",
	"TimeoutException",
	"ConnectionError",
	"IllegalArgumentException",
	"IllegalStateException",
	"ZeroDivisionError",
	"IOError",
	"OSError",
}

// exceptionRule one step of the extraction cascade. Evaluated top to bottom,
// first match wins.
type exceptionRule struct {
	name    string
	extract func(text string) (string, bool)
}

var exceptionRules = []exceptionRule{
	{"pytest-marker-line", extractFromPytestMarker},
	{"file-line-prefix", extractFromFileLinePrefix},
	{"common-exception-name", extractCommonException},
	{"generic-suffix-match", extractGenericType},
	{"raise-statement", extractFromRaise},
}

// ExtractExceptionType pulls an exception type out of heterogeneous trace
// formats. The cascade runs over the trace first and the message second, and
// degrades to UnknownExceptionType rather than failing.
func ExtractExceptionType(trace, message string) string {
	for _, rule := range exceptionRules {
		if t, ok := rule.extract(trace); ok {
			return t
		}
	}
	for _, rule := range exceptionRules {
		if t, ok := rule.extract(message); ok {
			return t
		}
	}
	return UnknownExceptionType
}

func extractFromPytestMarker(text string) (string, bool) {
	for _, m := range pytestMarkerRe.FindAllStringSubmatch(text, -1) {
		if id := exceptionIDRe.FindString(m[1]); id != "" {
			return stripModule(id), true
		}
	}
	return "", false
}

func extractFromFileLinePrefix(text string) (string, bool) {
	if m := fileLineTypeRe.FindStringSubmatch(text); m != nil {
		return stripModule(m[1]), true
	}
	return "", false
}

func extractCommonException(text string) (string, bool) {
	for _, name := range commonExceptions {
		if strings.Contains(text, name) {
			return name, true
		}
	}
	return "", false
}

func extractGenericType(text string) (string, bool) {
	if m := genericTypeRe.FindStringSubmatch(text); m != nil {
		return m[1], true
	}
	return "", false
}

func extractFromRaise(text string) (string, bool) {
	if m := raiseRe.FindStringSubmatch(text); m != nil {
		return stripModule(m[1]), true
	}
	return "", false
}

// stripModule drops a leading module qualifier: requests.exceptions.Timeout -> Timeout
func stripModule(id string) string {
	if i := strings.LastIndex(id, "."); i >= 0 {
		return id[i+1:]
	}
	return id
}

// RootCause estimated failure origin
type RootCause struct {
	Class    string `json:"class"`
	Method   string `json:"method"`
	Location string `json:"location"`
}

// UnknownRootCause sentinel used when no frame can be extracted
var UnknownRootCause = RootCause{Class: "Unknown", Method: "unknown"}

func (rc RootCause) String() string {
	return rc.Class + "." + rc.Method
}

// ExtractRootCause locates the most likely failure origin in a trace.
// Python traces are scanned for the first file.py:line: occurrence (which
// precedes, and is more reliable than, the pytest E marker lines), back-scanning
// up to 10 lines for the nearest enclosing def. Falls back to a classic
// traceback frame, then to a Java at-frame, then to the sentinel.
func ExtractRootCause(trace string) RootCause {
	lines := strings.Split(trace, "\n")

	for i, line := range lines {
		m := pyLocRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		method := "unknown"
		for j := i - 1; j >= 0 && j >= i-10; j-- {
			if d := pyDefRe.FindStringSubmatch(lines[j]); d != nil {
				method = d[1]
				break
			}
		}
		return RootCause{
			Class:    strings.TrimSuffix(path.Base(m[1]), ".py"),
			Method:   method,
			Location: path.Base(m[1]) + ":" + m[2],
		}
	}

	if m := pyFrameRe.FindStringSubmatch(trace); m != nil {
		return RootCause{
			Class:    strings.TrimSuffix(path.Base(m[1]), ".py"),
			Method:   m[3],
			Location: path.Base(m[1]) + ":" + m[2],
		}
	}

	if m := javaAtRe.FindStringSubmatch(trace); m != nil {
		cls := m[1]
		if i := strings.LastIndex(cls, "."); i >= 0 {
			cls = cls[i+1:]
		}
		return RootCause{Class: cls, Method: m[2], Location: m[3]}
	}

	return UnknownRootCause
}

// categoryRule one step of the categorization cascade
type categoryRule struct {
	category Category
	match    func(typ, text string) bool
}

// categoryRules ordered cascade. Assertion keywords take priority over generic
// type matching, and the specific categories (timeout, connection) are checked
// before the catch-all. Every failure lands in exactly one category.
var categoryRules = []categoryRule{
	{CategoryAssertion, func(typ, text string) bool {
		return strings.Contains(typ, "assertion") || strings.Contains(text, "assert")
	}},
	{CategoryNullPointer, func(typ, text string) bool {
		return strings.Contains(typ, "nullpointer") || strings.Contains(typ, "nullreference") ||
			strings.Contains(text, "nonetype") || strings.Contains(text, "null pointer")
	}},
	{CategoryTimeout, func(typ, text string) bool {
		return strings.Contains(typ, "timeout") || strings.Contains(text, "timed out") ||
			strings.Contains(text, "timeout")
	}},
	{CategoryConnection, func(typ, text string) bool {
		return strings.Contains(typ, "connection") || strings.Contains(text, "connection refused") ||
			strings.Contains(text, "econnrefused") || strings.Contains(text, "socket")
	}},
	{CategorySetupTeardown, func(typ, text string) bool {
		return strings.Contains(text, "setup") || strings.Contains(text, "teardown") ||
			strings.Contains(text, "fixture")
	}},
	{CategoryInvalidState, func(typ, text string) bool {
		return strings.Contains(typ, "illegalstate") || strings.Contains(typ, "illegalargument") ||
			strings.Contains(typ, "valueerror") || strings.Contains(text, "invalid argument") ||
			strings.Contains(text, "invalid state")
	}},
}

// Categorize assigns a failure to exactly one coarse category.
func Categorize(exceptionType, message, trace string) Category {
	typ := strings.ToLower(exceptionType)
	text := strings.ToLower(message + "\n" + trace)
	for _, rule := range categoryRules {
		if rule.match(typ, text) {
			return rule.category
		}
	}
	return CategoryOther
}

// ExtractMessage pulls a human-readable failure message out of the raw trace,
// preferring the trace body over the XML message attribute: pytest and friends
// often put the real assertion detail in the body only.
func ExtractMessage(xmlMessage, trace, fallbackType string) string {
	// pytest E marker lines carry the assertion detail
	if m := pytestMarkerRe.FindStringSubmatch(trace); m != nil {
		return strings.TrimSpace(m[1])
	}

	// a "SomeError: detail" line
	for _, line := range strings.Split(trace, "\n") {
		line = strings.TrimSpace(line)
		if exceptionIDRe.MatchString(line) && strings.Contains(line, ": ") {
			if id := exceptionIDRe.FindString(line); strings.HasPrefix(line, id) {
				return line
			}
		}
	}

	if strings.TrimSpace(xmlMessage) != "" {
		return strings.TrimSpace(xmlMessage)
	}

	for _, line := range strings.Split(trace, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
	}

	return fallbackType
}
