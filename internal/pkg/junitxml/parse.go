package junitxml

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// Decode structs keep every numeric attribute as a string so that reports with
// missing or malformed counters (common in the wild) still decode; conversion
// happens afterwards with zero as the fallback.

type xmlTestsuites struct {
	XMLName xml.Name       `xml:"testsuites"`
	Suites  []xmlTestsuite `xml:"testsuite"`
}

type xmlTestsuite struct {
	XMLName   xml.Name      `xml:"testsuite"`
	Name      string        `xml:"name,attr"`
	Hostname  string        `xml:"hostname,attr"`
	Timestamp string        `xml:"timestamp,attr"`
	Tests     string        `xml:"tests,attr"`
	Failures  string        `xml:"failures,attr"`
	Errors    string        `xml:"errors,attr"`
	Skipped   string        `xml:"skipped,attr"`
	Time      string        `xml:"time,attr"`
	Testcases []xmlTestcase `xml:"testcase"`
}

type xmlTestcase struct {
	Name       string     `xml:"name,attr"`
	Classname  string     `xml:"classname,attr"`
	File       string     `xml:"file,attr"`
	Line       string     `xml:"line,attr"`
	Assertions string     `xml:"assertions,attr"`
	Time       string     `xml:"time,attr"`
	Failure    *xmlDetail `xml:"failure"`
	Error      *xmlDetail `xml:"error"`
	Skipped    *xmlDetail `xml:"skipped"`
	SystemOut  string     `xml:"system-out"`
	SystemErr  string     `xml:"system-err"`
}

type xmlDetail struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// Parse decodes a JUnit XML report. It first tries a <testsuites> root and
// falls back to a bare <testsuite> root; anything else fails with ErrMalformed.
func Parse(data []byte) (*Document, error) {
	var suites xmlTestsuites
	if err := xml.Unmarshal(data, &suites); err == nil {
		return newDocument(suites.Suites), nil
	}

	var suite xmlTestsuite
	if err := xml.Unmarshal(data, &suite); err == nil {
		return newDocument([]xmlTestsuite{suite}), nil
	}

	return nil, ErrMalformed
}

func newDocument(raw []xmlTestsuite) *Document {
	doc := &Document{Suites: make([]Suite, 0, len(raw))}
	for _, s := range raw {
		suite := Suite{
			Name:      s.Name,
			Hostname:  s.Hostname,
			Timestamp: s.Timestamp,
			Tests:     atoiSafe(s.Tests),
			Failures:  atoiSafe(s.Failures),
			Errors:    atoiSafe(s.Errors),
			Skipped:   atoiSafe(s.Skipped),
			Time:      atofSafe(s.Time),
			Cases:     make([]Case, 0, len(s.Testcases)),
		}
		for _, c := range s.Testcases {
			suite.Cases = append(suite.Cases, Case{
				Name:       c.Name,
				Classname:  c.Classname,
				File:       c.File,
				Line:       atoiSafe(c.Line),
				Assertions: atoiSafe(c.Assertions),
				Time:       atofSafe(c.Time),
				Failure:    newDetail(c.Failure),
				Error:      newDetail(c.Error),
				Skipped:    newDetail(c.Skipped),
				SystemOut:  strings.TrimSpace(c.SystemOut),
				SystemErr:  strings.TrimSpace(c.SystemErr),
			})
		}
		doc.Suites = append(doc.Suites, suite)
	}
	return doc
}

func newDetail(d *xmlDetail) *Detail {
	if d == nil {
		return nil
	}
	return &Detail{
		Message: d.Message,
		Type:    d.Type,
		Body:    strings.TrimSpace(d.Body),
	}
}

func atoiSafe(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

func atofSafe(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
