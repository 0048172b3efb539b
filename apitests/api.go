package apitests

import (
	"github.com/titanic-qa/api-contract-tests/client"
	"github.com/titanic-qa/api-contract-tests/framework"
	"github.com/titanic-qa/api-contract-tests/servicedef"

	"github.com/stretchr/testify/require"
)

// PassengerAPI is the set of backend operations the suite uses. *client.APIClient implements it.
type PassengerAPI interface {
	PassengerRemover
	CheckHealth() (*client.Response, error)
	Register(actor servicedef.Actor) (*client.Response, error)
	Login(actor servicedef.Actor) (*client.Response, error)
	CreatePassenger(p servicedef.Passenger, token string, tolerateFailure bool) (*client.Response, error)
}

type environment struct {
	api     PassengerAPI
	state   *RunState
	cleanup *CleanupCoordinator
}

// T represents a test in the Titanic API suite.
//
// It implements the same basic functionality as Go's testing.T, by way of the framework
// package, so the assert and require packages can be used with it directly. It also gives
// access to the backend API and to the state of the current run, and has helpers for the
// operations that most tests need, which fail the test immediately if the backend does not
// respond as expected.
type T struct {
	context *framework.Context
	env     *environment
}

func (e *environment) wrap(action func(*T)) func(*framework.Context) {
	return func(c *framework.Context) {
		action(&T{context: c, env: e})
	}
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods in
// the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

func (t *T) Helper() {}

// Debug logs some debug output for the test. The output will be passed to the test logger at
// the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

func (t *T) API() PassengerAPI {
	return t.env.api
}

func (t *T) State() *RunState {
	return t.env.state
}

// RegisterForCleanup marks a passenger for deletion when the current case ends.
func (t *T) RegisterForCleanup(id int) {
	t.Debug("Registered passenger %d for cleanup", id)
	t.env.state.Cleanup.Register(id)
}

// CreatePassenger creates a passenger that the test expects the backend to accept. The
// passenger is registered for cleanup before its status is checked in detail. It returns
// the new passenger's ID.
func (t *T) CreatePassenger(p servicedef.Passenger, token string) int {
	resp, err := t.env.api.CreatePassenger(p, token, false)
	require.NoError(t, err)
	id, ok := resp.ID()
	require.True(t, ok, "create passenger response did not contain an integer id: %s", resp)
	t.RegisterForCleanup(id)
	require.Equal(t, 201, resp.StatusCode, "unexpected status creating passenger")
	return id
}

// TryCreatePassenger attempts to create a passenger that the backend may reject, and returns
// the response whatever its status is. If the backend did create it, it is registered for
// cleanup.
func (t *T) TryCreatePassenger(p servicedef.Passenger, token string) *client.Response {
	resp, err := t.env.api.CreatePassenger(p, token, true)
	require.NoError(t, err)
	if resp.StatusCode == 201 {
		if id, ok := resp.ID(); ok {
			t.RegisterForCleanup(id)
		}
	}
	return resp
}

// TryDeletePassenger attempts to delete a passenger and returns the response whatever its
// status is.
func (t *T) TryDeletePassenger(id int, token string) *client.Response {
	resp, err := t.env.api.DeletePassenger(id, token, true)
	require.NoError(t, err)
	return resp
}
