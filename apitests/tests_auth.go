package apitests

import (
	"github.com/stretchr/testify/assert"
)

// DoActorTokenTest checks the result of ProvisionActors rather than calling the backend.
func DoActorTokenTest(t *T) {
	assert.NotEmpty(t, t.State().AdminToken, "admin actor has no access token")
	assert.NotEmpty(t, t.State().RegularToken, "regular actor has no access token")
}
