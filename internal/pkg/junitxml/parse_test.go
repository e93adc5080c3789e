package junitxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testsuitesXML = `<?xml version="1.0" encoding="UTF-8"?>
<testsuites>
  <testsuite name="auth" tests="3" failures="1" errors="0" skipped="1" time="3.5" timestamp="2024-01-15T10:00:00" hostname="ci-worker-1">
    <testcase name="test_login" classname="tests.auth.TestLogin" time="1.0" file="tests/test_auth.py" line="12" assertions="2"/>
    <testcase name="test_logout" classname="tests.auth.TestLogin" time="2.5">
      <failure message="assertion failed" type="AssertionError">Traceback...
E       AssertionError: expected 200 but got 500</failure>
      <system-out>request sent</system-out>
    </testcase>
    <testcase name="test_refresh" classname="tests.auth.TestLogin">
      <skipped message="not implemented"/>
    </testcase>
  </testsuite>
  <testsuite name="billing" tests="1">
    <testcase name="test_invoice" classname="tests.billing.TestInvoice" time="0.3">
      <error message="boom" type="RuntimeError">RuntimeError: boom</error>
    </testcase>
  </testsuite>
</testsuites>`

func TestParseTestsuitesRoot(t *testing.T) {
	doc, err := Parse([]byte(testsuitesXML))
	require.NoError(t, err)
	require.Len(t, doc.Suites, 2)

	auth := doc.Suites[0]
	assert.Equal(t, "auth", auth.Name)
	assert.Equal(t, "ci-worker-1", auth.Hostname)
	assert.Equal(t, "2024-01-15T10:00:00", auth.Timestamp)
	assert.Equal(t, 3, auth.Tests)
	assert.Equal(t, 1, auth.Failures)
	assert.Equal(t, 1, auth.Skipped)
	assert.Equal(t, 3.5, auth.Time)
	require.Len(t, auth.Cases, 3)

	first := auth.Cases[0]
	assert.Equal(t, "test_login", first.Name)
	assert.Equal(t, "tests.auth.TestLogin", first.Classname)
	assert.Equal(t, "tests/test_auth.py", first.File)
	assert.Equal(t, 12, first.Line)
	assert.Equal(t, 2, first.Assertions)
	assert.Nil(t, first.Failure)

	failed := auth.Cases[1]
	require.NotNil(t, failed.Failure)
	assert.Equal(t, "assertion failed", failed.Failure.Message)
	assert.Equal(t, "AssertionError", failed.Failure.Type)
	assert.Contains(t, failed.Failure.Body, "expected 200 but got 500")
	assert.Equal(t, "request sent", failed.SystemOut)

	skipped := auth.Cases[2]
	require.NotNil(t, skipped.Skipped)
	assert.Nil(t, skipped.Failure)
	// missing time attribute decodes to zero
	assert.Equal(t, 0.0, skipped.Time)

	errored := doc.Suites[1].Cases[0]
	require.NotNil(t, errored.Error)
	assert.Equal(t, "RuntimeError", errored.Error.Type)
}

func TestParseBareTestsuiteRoot(t *testing.T) {
	xml := `<testsuite name="standalone" tests="1" timestamp="2024-02-01T08:30:00Z">
  <testcase name="test_one" classname="pkg.TestOne" time="0.5"/>
</testsuite>`

	doc, err := Parse([]byte(xml))
	require.NoError(t, err)
	require.Len(t, doc.Suites, 1)
	assert.Equal(t, "standalone", doc.Suites[0].Name)
	require.Len(t, doc.Suites[0].Cases, 1)
	assert.Equal(t, 0.5, doc.Suites[0].Cases[0].Time)
}

func TestParseEmptyTestsuitesRoot(t *testing.T) {
	doc, err := Parse([]byte(`<testsuites></testsuites>`))
	require.NoError(t, err)
	assert.Empty(t, doc.Suites)
}

func TestParseMalformed(t *testing.T) {
	cases := []string{
		``,
		`not xml at all`,
		`<report><testcase name="x"/></report>`,
		`<testsuites><testsuite name="broken"`,
	}
	for _, in := range cases {
		_, err := Parse([]byte(in))
		assert.ErrorIs(t, err, ErrMalformed, "input: %q", in)
	}
}

func TestParseGarbageNumericAttributes(t *testing.T) {
	xml := `<testsuite name="s" tests="lots" time="fast">
  <testcase name="t" classname="c" time="n/a" line="twelve"/>
</testsuite>`

	doc, err := Parse([]byte(xml))
	require.NoError(t, err)
	assert.Equal(t, 0, doc.Suites[0].Tests)
	assert.Equal(t, 0.0, doc.Suites[0].Time)
	assert.Equal(t, 0.0, doc.Suites[0].Cases[0].Time)
	assert.Equal(t, 0, doc.Suites[0].Cases[0].Line)
}
