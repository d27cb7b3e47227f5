package apitest

import (
	"errors"
	"fmt"
	"regexp"
	"runtime/debug"
	"strings"
	"sync"

	"github.com/apitests/reqres-contract-tests/framework"

	"golang.org/x/sync/errgroup"
)

// TestConfiguration contains the global parameters for a test run.
type TestConfiguration struct {
	// Filter, if non-nil, is called for every test and subtest; returning false skips it.
	Filter Filter

	// TestLogger receives progress notifications. If nil, nothing is reported.
	TestLogger TestLogger

	// Context is an arbitrary value that domain-specific test code can retrieve with T.Context.
	Context interface{}

	// Capabilities are the optional behaviors the service under test is declared to support.
	Capabilities Capabilities

	// MaxParallel is the maximum number of subtests that RunConcurrently will run at once.
	// Values less than 2 mean subtests run one at a time.
	MaxParallel int
}

type environment struct {
	config  TestConfiguration
	results Results
	lock    sync.Mutex
}

func (e *environment) addResult(result TestResult, failed bool) {
	e.lock.Lock()
	e.results.Tests = append(e.results.Tests, result)
	if failed {
		e.results.Failures = append(e.results.Failures, result)
	}
	e.lock.Unlock()
}

// T represents a test or subtest.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that is
// outside of the Go test runner, and with some extra features such as debug logging and
// capability checks. To make assertions, use the assert and require packages, passing the *T
// as if it were a *testing.T.
//
// Like testing.T, FailNow (and therefore anything in the require package) must be called from
// the goroutine that is running the test.
type T struct {
	env         *environment
	id          TestID
	debugLogger framework.CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
	cleanups    []func()
	lock        sync.Mutex
}

// NamedTest is a subtest for RunConcurrently.
type NamedTest struct {
	Name   string
	Action func(*T)
}

// Run starts a test run and returns the results once every test has finished.
func Run(config TestConfiguration, action func(*T)) Results {
	if config.TestLogger == nil {
		config.TestLogger = nullTestLogger{}
	}
	env := &environment{config: config}
	t := &T{env: env}
	t.run(action)
	return env.results
}

func (t *T) run(action func(*T)) {
	defer func() {
		if r := recover(); r != nil {
			if r != t || !t.skipped {
				var addError error
				if r == t {
					if len(t.errors) == 0 {
						addError = errors.New("test failed with no failure message")
					}
				} else {
					addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
				}
				t.lock.Lock()
				t.failed = true
				if addError != nil {
					t.errors = append(t.errors, addError)
				}
				t.lock.Unlock()
				if addError != nil {
					t.env.config.TestLogger.TestError(t.id, addError)
				}
			}
		}
		t.runCleanups()
		if len(t.id.Path) == 0 {
			return
		}
		t.lock.Lock()
		result := TestResult{
			TestID:     t.id,
			Errors:     append([]error(nil), t.errors...),
			Skipped:    t.skipped,
			SkipReason: t.skipReason,
		}
		failed := t.failed && !t.skipped
		t.lock.Unlock()
		t.env.addResult(result, failed)
	}()

	action(t)
}

func (t *T) runCleanups() {
	for i := len(t.cleanups) - 1; i >= 0; i-- {
		t.cleanups[i]()
	}
	t.cleanups = nil
}

func (t *T) ID() TestID {
	return t.id
}

// Context returns the value that was specified in TestConfiguration.Context.
func (t *T) Context() interface{} {
	return t.env.config.Context
}

func (t *T) Capabilities() Capabilities {
	return t.env.config.Capabilities
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	id := t.id.Plus(name)
	logger := t.env.config.TestLogger

	logger.TestStarted(id)
	if t.env.config.Filter != nil && !t.env.config.Filter(id) {
		reason := "excluded by filter parameters"
		logger.TestSkipped(id, reason)
		t.env.addResult(TestResult{TestID: id, Skipped: true, SkipReason: reason}, false)
		return
	}
	t1 := &T{
		id:  id,
		env: t.env,
	}
	t1.run(action)
	if t1.skipped {
		logger.TestSkipped(id, t1.skipReason)
	} else {
		logger.TestFinished(id, t1.failed, t1.debugLogger.Output())
	}
}

// RunConcurrently runs each of the subtests as if by Run, allowing up to
// TestConfiguration.MaxParallel of them to execute at the same time. It returns when all of
// them have finished.
func (t *T) RunConcurrently(tests ...NamedTest) {
	if t.env.config.MaxParallel < 2 {
		for _, nt := range tests {
			t.Run(nt.Name, nt.Action)
		}
		return
	}
	var g errgroup.Group
	g.SetLimit(t.env.config.MaxParallel)
	for _, nt := range tests {
		nt := nt
		g.Go(func() error {
			t.Run(nt.Name, nt.Action)
			return nil
		})
	}
	_ = g.Wait()
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	err := fmt.Errorf(format, args...)
	t.lock.Lock()
	t.failed = true
	t.errors = append(t.errors, err)
	t.lock.Unlock()
	t.env.config.TestLogger.TestError(t.id, reformatError(err))
}

// FailNow causes the test to immediately fail and exit. The methods in the require package
// call FailNow.
func (t *T) FailNow() {
	t.lock.Lock()
	t.failed = true
	t.lock.Unlock()
	panic(t)
}

func (t *T) Failed() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.failed
}

// Skip causes the test to immediately exit and be reported as skipped rather than failed.
func (t *T) Skip() {
	t.skipped = true
	panic(t)
}

func (t *T) SkipWithReason(reason string) {
	t.skipReason = reason
	t.Skip()
}

// RequireCapability skips this test if the service under test was not declared to support
// the specified capability.
func (t *T) RequireCapability(capability string) {
	if !t.Capabilities().Has(capability) {
		t.SkipWithReason(fmt.Sprintf("service under test is not declared to support capability %q", capability))
	}
}

// Defer schedules a function to be called when the test finishes, whether it passed or not.
// Deferred functions run in last-in-first-out order.
func (t *T) Defer(fn func()) {
	t.cleanups = append(t.cleanups, fn)
}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(message string, args ...interface{}) {
	t.debugLogger.Printf(message, args...)
}

func (t *T) DebugLogger() framework.Logger {
	return &t.debugLogger
}

var assertionLabelRegex = regexp.MustCompile(`^\s*[A-Z][A-Za-z ]*:\s*\t`)

// reformatError removes the "Error Trace" section from testify assertion failures, since
// stack locations inside the test harness are rarely useful in console output.
func reformatError(err error) error {
	lines := strings.Split(err.Error(), "\n")
	out := make([]string, 0, len(lines))
	inTrace := false
	for _, line := range lines {
		if assertionLabelRegex.MatchString(line) {
			inTrace = strings.HasPrefix(strings.TrimSpace(line), "Error Trace:")
		}
		if inTrace {
			continue
		}
		if strings.TrimSpace(line) == "" && len(out) == 0 {
			continue
		}
		out = append(out, line)
	}
	return errors.New(strings.Join(out, "\n"))
}
