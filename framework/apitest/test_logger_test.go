package apitest

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/apitests/reqres-contract-tests/framework"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func init() {
	color.NoColor = true
}

func TestConsoleTestLogger(t *testing.T) {
	var out bytes.Buffer
	logger := &ConsoleTestLogger{DebugOutputOnFailure: true, Output: &out}
	debugOutput := framework.CapturedOutput{{Time: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), Message: "sent request"}}

	logger.TestStarted(id("a", "b"))
	logger.TestError(id("a", "b"), errors.New("line 1\nline 2"))
	logger.TestFinished(id("a", "b"), true, debugOutput)
	logger.TestStarted(id("a", "c"))
	logger.TestFinished(id("a", "c"), false, debugOutput)
	logger.TestSkipped(id("a", "d"), "no reason")
	logger.TestSkipped(id("a", "e"), "")

	assert.Equal(t, `[a/b]
  line 1
  line 2
  FAILED: a/b
    DEBUG [2026-01-02 03:04:05.000] sent request
[a/c]
  SKIPPED: a/d (no reason)
  SKIPPED: a/e
`, out.String())
}

func TestPrintResults(t *testing.T) {
	var out bytes.Buffer
	PrintResults(&out, Results{Tests: []TestResult{{TestID: id("a")}, {TestID: id("b"), Skipped: true}}})
	assert.Equal(t, "All tests passed (2 tests, 1 skipped)\n", out.String())

	out.Reset()
	failure := TestResult{TestID: id("a"), Errors: []error{errors.New("x\ny")}}
	PrintResults(&out, Results{Tests: []TestResult{failure, {TestID: id("b")}}, Failures: []TestResult{failure}})
	assert.Equal(t, "FAILED TESTS (1 of 2):\n* a\n    x\n    y\n", out.String())
}
