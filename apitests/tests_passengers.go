package apitests

import (
	"net/http"

	"github.com/titanic-qa/api-contract-tests/fixtures"

	"github.com/stretchr/testify/assert"
)

const (
	adminRequiredMessage = "Admin access required"
	cabinConflictMessage = "Different social classes cannot share cabins on Titanic"
)

// DoRegularUserCannotDeleteTest creates a passenger as the admin and then tries to delete it
// with the regular actor's token.
func DoRegularUserCannotDeleteTest(t *T) {
	state := t.State()
	id := t.CreatePassenger(state.Fixtures.MustPassenger(fixtures.RoseKey), state.AdminToken)

	resp := t.TryDeletePassenger(id, state.RegularToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "regular user delete: %s", resp)
	assert.Contains(t, resp.Detail(), adminRequiredMessage)
}

// DoCabinClassConflictTest puts Rose in a cabin and then tries to put Jack, who is in a
// different class, into the same cabin.
func DoCabinClassConflictTest(t *T) {
	state := t.State()
	t.CreatePassenger(state.Fixtures.MustPassenger(fixtures.RoseKey), state.AdminToken)

	resp := t.TryCreatePassenger(state.Fixtures.MustPassenger(fixtures.JackKey), state.AdminToken)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "creating Jack in Rose's cabin: %s", resp)
	assert.Contains(t, resp.Detail(), cabinConflictMessage)
}
