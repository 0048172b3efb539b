// Package framework contains the low-level implementation of test harness infrastructure
// that is not specific to the API being tested.
//
// The general model is:
//
// 1. There is a general notion of a test context which is similar to Go's *testing.T,
// allowing pieces of test logic to be associated with a test identifier and to accumulate
// success/failure results. Debug output for each test is captured and handed to a TestLogger
// when the test finishes.
//
// 2. A Suite arranges tests into a strict lifecycle: a setup step that runs once, followed
// by an ordered list of cases, each of which is followed by a teardown hook that runs no
// matter how the case ended. The lifecycle is enforced by a PhaseMachine.
//
// The domain-specific code that knows what is being tested is responsible for providing
// the client for the system under test, the state shared between cases, and a
// domain-specific test API on top of the test context.
package framework
