package apitests

import (
	"net/http"

	"github.com/titanic-qa/api-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
)

// ProvisionActors registers and logs in the admin and regular actors, storing their tokens in
// the run state. The two sequences are independent: a failure in one does not stop the other.
// Only the admin registration status is checked; whether the tokens are usable is left to the
// cases.
func ProvisionActors(t *T) {
	state := t.State()

	adminResp, err := t.API().Register(state.Fixtures.Admin)
	if assert.NoError(t, err, "registering admin actor") {
		assert.Equal(t, http.StatusCreated, adminResp.StatusCode, "unexpected status registering admin actor: %s", adminResp)
	}
	state.AdminToken = login(t, state.Fixtures.Admin)

	if _, err := t.API().Register(state.Fixtures.Regular); err != nil {
		t.Debug("Registering regular actor failed: %s", err)
	}
	state.RegularToken = login(t, state.Fixtures.Regular)
}

func login(t *T, actor servicedef.Actor) string {
	resp, err := t.API().Login(actor)
	if !assert.NoError(t, err, "logging in as %s", actor.Username) {
		return ""
	}
	if !assert.Equal(t, http.StatusOK, resp.StatusCode, "unexpected status logging in as %s: %s", actor.Username, resp) {
		return ""
	}
	var body servicedef.LoginResponse
	if !assert.NoError(t, resp.Decode(&body)) {
		return ""
	}
	t.Debug("Logged in as %s (%s): %s", actor.Username, actor.Role, describeToken(body.AccessToken))
	return body.AccessToken
}
