// Package junitxml decodes JUnit-style XML reports into a normalized suite list.
//
// Real-world reports come in two root shapes, <testsuites> wrapping one or more
// <testsuite> elements, or a bare <testsuite>. Parse resolves both into a single
// Document so callers never branch on the root shape again.
package junitxml

import "errors"

// ErrMalformed is returned when the input has neither a <testsuites> nor a
// <testsuite> root element.
var ErrMalformed = errors.New("junitxml: no testsuites or testsuite root element")

// Document is the normalized parse result.
type Document struct {
	Suites []Suite
}

// Suite is one <testsuite> element with its attributes merged in.
// Numeric attributes are best-effort: missing or garbage values decode to zero
// rather than failing the parse, since declared totals are recomputed from the
// owned cases anyway.
type Suite struct {
	Name      string
	Hostname  string
	Timestamp string // raw attribute value, resolved by the ingestion pipeline
	Tests     int
	Failures  int
	Errors    int
	Skipped   int
	Time      float64
	Cases     []Case
}

// Case is one <testcase> element.
type Case struct {
	Name       string
	Classname  string
	File       string
	Line       int
	Assertions int
	Time       float64 // duration in seconds
	Failure    *Detail
	Error      *Detail
	Skipped    *Detail
	SystemOut  string
	SystemErr  string
}

// Detail is the payload of a <failure>, <error> or <skipped> child.
type Detail struct {
	Message string
	Type    string
	Body    string
}
