package apitests

import (
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func DoHealthCheckTest(t *T) {
	resp, err := t.API().CheckHealth()
	require.NoError(t, err)

	assert.Equal(t, 200, resp.StatusCode)
	body := resp.JSON()
	assert.Contains(t, body.Keys(), "gateway", "health response should report gateway status: %s", resp)
}
