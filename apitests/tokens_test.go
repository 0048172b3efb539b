package apitests

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescribeTokenEmpty(t *testing.T) {
	assert.Equal(t, "(none)", describeToken(""))
}

func TestDescribeTokenOpaque(t *testing.T) {
	assert.Equal(t, "opaque token (6 chars)", describeToken("abcdef"))
}

func TestDescribeTokenJWT(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "admin_1",
		"role": "admin",
	}).SignedString([]byte("whatever"))
	require.NoError(t, err)

	assert.Equal(t, "JWT {role=admin, sub=admin_1}", describeToken(token))
}
