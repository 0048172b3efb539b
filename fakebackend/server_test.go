package fakebackend

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/titanic-qa/api-contract-tests/client"
	"github.com/titanic-qa/api-contract-tests/servicedef"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testAdmin   = servicedef.Actor{Username: "admin_1", Password: "Password123!", Email: "admin@titanic.com"}
	testRegular = servicedef.Actor{Username: "user_1", Password: "Password123!", Email: "user@titanic.com"}
	testRose    = servicedef.Passenger{Name: "Rose", PClass: 1, Sex: "female", Cabin: "B52"}
	testJack    = servicedef.Passenger{Name: "Jack", PClass: 3, Sex: "male", Cabin: "B52"}
)

func withBackend(t *testing.T, action func(*Server, *client.APIClient)) {
	s := New(Options{Logger: zerolog.Nop()})
	server := httptest.NewServer(s.Handler())
	defer server.Close()
	action(s, client.NewAPIClient(server.URL, 0, nil))
}

func registerAndLogin(t *testing.T, c *client.APIClient, actor servicedef.Actor) string {
	resp, err := c.Register(actor)
	require.NoError(t, err)
	require.Equal(t, 201, resp.StatusCode, resp.String())
	resp, err = c.Login(actor)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode, resp.String())
	var body servicedef.LoginResponse
	require.NoError(t, resp.Decode(&body))
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

func TestHealth(t *testing.T) {
	withBackend(t, func(s *Server, c *client.APIClient) {
		resp, err := c.CheckHealth()
		require.NoError(t, err)
		assert.Equal(t, "ok", resp.JSON().GetByKey("gateway").StringValue())
	})
}

func TestRegisterAssignsRoleByPrefix(t *testing.T) {
	withBackend(t, func(s *Server, c *client.APIClient) {
		resp, err := c.Register(testAdmin)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
		assert.Equal(t, "admin", resp.JSON().GetByKey("role").StringValue())

		resp, err = c.Register(testRegular)
		require.NoError(t, err)
		assert.Equal(t, "regular", resp.JSON().GetByKey("role").StringValue())
	})
}

func TestRegisterTwiceFails(t *testing.T) {
	withBackend(t, func(s *Server, c *client.APIClient) {
		_, err := c.Register(testAdmin)
		require.NoError(t, err)
		resp, err := c.Register(testAdmin)
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, detailUserExists, resp.Detail())
	})
}

func TestLoginWithWrongPassword(t *testing.T) {
	withBackend(t, func(s *Server, c *client.APIClient) {
		_, err := c.Register(testAdmin)
		require.NoError(t, err)
		wrong := testAdmin
		wrong.Password = "nope"
		resp, err := c.Login(wrong)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
		assert.Equal(t, detailBadCredentials, resp.Detail())
	})
}

func TestPassengersRequireToken(t *testing.T) {
	withBackend(t, func(s *Server, c *client.APIClient) {
		resp, err := c.CreatePassenger(testRose, "", true)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)

		resp, err = c.CreatePassenger(testRose, "not-a-token", true)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
		assert.Equal(t, detailNotAuthenticated, resp.Detail())
	})
}

func TestCreateGetDeletePassenger(t *testing.T) {
	withBackend(t, func(s *Server, c *client.APIClient) {
		token := registerAndLogin(t, c, testAdmin)

		resp, err := c.CreatePassenger(testRose, token, false)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
		id, ok := resp.ID()
		require.True(t, ok)
		assert.Equal(t, []int{id}, s.PassengerIDs())

		resp, err = c.GetPassenger(id, token, false)
		require.NoError(t, err)
		assert.Equal(t, "B52", resp.JSON().GetByKey("cabin").StringValue())

		resp, err = c.DeletePassenger(id, token, false)
		require.NoError(t, err)
		assert.Equal(t, 204, resp.StatusCode)
		assert.Empty(t, s.PassengerIDs())

		resp, err = c.GetPassenger(id, token, true)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)

		resp, err = c.DeletePassenger(id, token, true)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
	})
}

func TestRegularUserCannotDelete(t *testing.T) {
	withBackend(t, func(s *Server, c *client.APIClient) {
		adminToken := registerAndLogin(t, c, testAdmin)
		regularToken := registerAndLogin(t, c, testRegular)

		resp, err := c.CreatePassenger(testRose, adminToken, false)
		require.NoError(t, err)
		id, _ := resp.ID()

		resp, err = c.DeletePassenger(id, regularToken, true)
		require.NoError(t, err)
		assert.Equal(t, 403, resp.StatusCode)
		assert.Equal(t, detailAdminRequired, resp.Detail())
		assert.Equal(t, []int{id}, s.PassengerIDs())
	})
}

func TestCabinRule(t *testing.T) {
	withBackend(t, func(s *Server, c *client.APIClient) {
		token := registerAndLogin(t, c, testAdmin)

		_, err := c.CreatePassenger(testRose, token, false)
		require.NoError(t, err)

		resp, err := c.CreatePassenger(testJack, token, true)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
		assert.Equal(t, detailCabinConflict, resp.Detail())

		sameClass := testRose
		sameClass.Name = "Cal"
		resp, err = c.CreatePassenger(sameClass, token, true)
		require.NoError(t, err)
		assert.Equal(t, 201, resp.StatusCode)
	})
}

func TestInvalidPassengerIsRejected(t *testing.T) {
	withBackend(t, func(s *Server, c *client.APIClient) {
		token := registerAndLogin(t, c, testAdmin)
		bad := testRose
		bad.PClass = 5
		resp, err := c.CreatePassenger(bad, token, true)
		require.NoError(t, err)
		assert.Equal(t, 422, resp.StatusCode)
		assert.Contains(t, resp.Detail(), "pclass")
		assert.Empty(t, s.PassengerIDs())
	})
}

func TestInvalidRegistrationIsRejected(t *testing.T) {
	withBackend(t, func(s *Server, c *client.APIClient) {
		for _, actor := range []servicedef.Actor{
			{Username: "", Password: "x"},
			{Username: "user_2", Password: "Password123!", Email: "not-an-email"},
		} {
			resp, err := c.Register(actor)
			require.NoError(t, err)
			assert.Equal(t, 422, resp.StatusCode, resp.String())
			assert.NotEmpty(t, resp.Detail())
		}
	})
}

func TestMalformedBodyIsRejected(t *testing.T) {
	s := New(Options{Logger: zerolog.Nop()})
	server := httptest.NewServer(s.Handler())
	defer server.Close()

	resp, err := http.Post(server.URL+servicedef.PathRegister, "application/json", strings.NewReader("not json"))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 422, resp.StatusCode)
}
