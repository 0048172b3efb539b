package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/titanic-qa/api-contract-tests/servicedef"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jsonResponse(status int, body string) http.Handler {
	headers := make(http.Header)
	headers.Set("Content-Type", "application/json")
	return httphelpers.HandlerWithResponse(status, headers, []byte(body))
}

func TestCheckHealth(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(jsonResponse(200, `{"gateway":"ok"}`))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c := NewAPIClient(server.URL+"/", 0, nil)
		resp, err := c.CheckHealth()
		require.NoError(t, err)

		assert.Equal(t, 200, resp.StatusCode)
		assert.Equal(t, "ok", resp.JSON().GetByKey("gateway").StringValue())

		r := <-requestsCh
		assert.Equal(t, "GET", r.Request.Method)
		assert.Equal(t, "/health", r.Request.URL.Path)
		assert.Empty(t, r.Request.Header.Get("Authorization"))
	})
}

func TestCheckHealthFailureIsError(t *testing.T) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(503), func(server *httptest.Server) {
		c := NewAPIClient(server.URL, 0, nil)
		resp, err := c.CheckHealth()
		require.Error(t, err)

		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, 503, se.Response.StatusCode)
		assert.Same(t, resp, se.Response)
	})
}

func TestRegisterSendsActorAndToleratesFailure(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(jsonResponse(400, `{"detail":"Username already registered"}`))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c := NewAPIClient(server.URL, 0, nil)
		actor := servicedef.Actor{Username: "admin_1", Password: "Password123!", Email: "admin@titanic.com",
			Role: servicedef.RoleAdmin}
		resp, err := c.Register(actor)
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
		assert.Equal(t, "Username already registered", resp.Detail())

		r := <-requestsCh
		assert.Equal(t, "POST", r.Request.Method)
		assert.Equal(t, "/api/auth/register", r.Request.URL.Path)
		assert.Equal(t, "application/json", r.Request.Header.Get("Content-Type"))
		assert.JSONEq(t, `{"username":"admin_1","password":"Password123!","email":"admin@titanic.com"}`, string(r.Body))
	})
}

func TestLoginSendsOnlyCredentials(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(jsonResponse(200, `{"access_token":"abc","token_type":"bearer"}`))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c := NewAPIClient(server.URL, 0, nil)
		resp, err := c.Login(servicedef.Actor{Username: "u", Password: "p", Email: "e@x.com"})
		require.NoError(t, err)

		var login servicedef.LoginResponse
		require.NoError(t, resp.Decode(&login))
		assert.Equal(t, "abc", login.AccessToken)

		r := <-requestsCh
		assert.Equal(t, "/api/auth/login", r.Request.URL.Path)
		assert.JSONEq(t, `{"username":"u","password":"p"}`, string(r.Body))
	})
}

func TestCreatePassenger(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(jsonResponse(201, `{"id":42,"name":"Rose"}`))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c := NewAPIClient(server.URL, 0, nil)
		p := servicedef.Passenger{Name: "Rose", PClass: 1, Sex: "female", Age: ldvalue.NewOptionalInt(17), Cabin: "B52"}
		resp, err := c.CreatePassenger(p, "tok", false)
		require.NoError(t, err)

		id, ok := resp.ID()
		require.True(t, ok)
		assert.Equal(t, 42, id)

		r := <-requestsCh
		assert.Equal(t, "Bearer tok", r.Request.Header.Get("Authorization"))
		var sent map[string]interface{}
		require.NoError(t, json.Unmarshal(r.Body, &sent))
		assert.Equal(t, float64(17), sent["age"])
		assert.Equal(t, float64(1), sent["pclass"])
	})
}

func TestCreatePassengerFailure(t *testing.T) {
	body := `{"detail":"Different social classes cannot share cabins on Titanic"}`
	httphelpers.WithServer(jsonResponse(401, body), func(server *httptest.Server) {
		c := NewAPIClient(server.URL, 0, nil)

		_, err := c.CreatePassenger(servicedef.Passenger{}, "tok", false)
		var se *StatusError
		require.True(t, errors.As(err, &se))
		assert.Contains(t, se.Error(), "POST /api/passengers returned HTTP 401")

		resp, err := c.CreatePassenger(servicedef.Passenger{}, "tok", true)
		require.NoError(t, err)
		assert.Equal(t, 401, resp.StatusCode)
		_, ok := resp.ID()
		assert.False(t, ok)
	})
}

func TestDeleteAndGetPassengerPaths(t *testing.T) {
	handler, requestsCh := httphelpers.RecordingHandler(httphelpers.HandlerWithStatus(204))
	httphelpers.WithServer(handler, func(server *httptest.Server) {
		c := NewAPIClient(server.URL, 0, nil)

		resp, err := c.DeletePassenger(7, "admin-token", false)
		require.NoError(t, err)
		assert.Equal(t, 204, resp.StatusCode)
		assert.Equal(t, ldvalue.Null(), resp.JSON())

		_, err = c.GetPassenger(7, "admin-token", false)
		require.NoError(t, err)

		r := <-requestsCh
		assert.Equal(t, "DELETE", r.Request.Method)
		assert.Equal(t, "/api/passengers/7", r.Request.URL.Path)
		assert.Equal(t, "Bearer admin-token", r.Request.Header.Get("Authorization"))
		r = <-requestsCh
		assert.Equal(t, "GET", r.Request.Method)
		assert.Equal(t, "/api/passengers/7", r.Request.URL.Path)
	})
}

func TestTransportErrorIsAlwaysReturned(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(200))
	url := server.URL
	server.Close()

	c := NewAPIClient(url, 0, nil)
	resp, err := c.DeletePassenger(1, "tok", true)
	assert.Nil(t, resp)
	require.Error(t, err)
	var se *StatusError
	assert.False(t, errors.As(err, &se))
}

func TestBaseURLIgnoresTrailingSlash(t *testing.T) {
	assert.Equal(t, "http://localhost:8000", NewAPIClient("http://localhost:8000/", 0, nil).BaseURL())
}
