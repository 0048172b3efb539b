package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
	runLogger  Logger
}

// Context is the framework's equivalent of *testing.T. It implements require.TestingT, so the
// assert and require packages can be used with it directly.
type Context struct {
	env         *environment
	id          TestID
	debugLogger CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
}

// Run executes a root action. Subtests started with Context.Run are reported to testLogger and
// accumulated in the returned Results.
//
// If runLogger is not nil, every debug message from every test is also sent to it as it happens,
// in addition to being captured for the test logger.
func Run(
	filter Filter,
	testLogger TestLogger,
	runLogger Logger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
		runLogger:  runLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			if !c.skipped {
				c.failed = true
				var addError error
				if _, ok := r.(*Context); ok {
					if len(c.errors) == 0 {
						addError = errors.New("test failed with no failure message")
					}
				} else {
					addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
				}
				if addError != nil {
					c.errors = append(c.errors, addError)
					c.env.testLogger.TestError(c.id, addError)
				}
			}
		}
		if len(c.id.Path) == 0 {
			return
		}
		result := TestResult{TestID: c.id, Errors: c.errors, Skipped: c.skipped, Start: start, Stop: time.Now()}
		c.env.results.Tests = append(c.env.results.Tests, result)
		if c.failed {
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	action(c)
}

func (c *Context) ID() TestID {
	return c.id
}

// Run runs a subtest. The subtest is skipped without running if it does not pass the filter.
// It returns false if the subtest failed.
func (c *Context) Run(name string, action func(*Context)) bool {
	id := c.id.Plus(name)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestStarted(id)
		now := time.Now()
		c.env.results.Tests = append(c.env.results.Tests,
			TestResult{TestID: id, Skipped: true, Start: now, Stop: now})
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return true
	}
	return c.runChild(id, action)
}

func (c *Context) runChild(id TestID, action func(*Context)) bool {
	c.env.testLogger.TestStarted(id)
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.run(action)
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
	return !c1.failed
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

// FailNow stops the current test. The methods in the require package call it.
func (c *Context) FailNow() {
	panic(c)
}

func (c *Context) Helper() {}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Debug adds a message to the debug output of the current test.
func (c *Context) Debug(message string, args ...interface{}) {
	c.DebugLogger().Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return TeeLogger(&c.debugLogger, c.env.runLogger)
}
