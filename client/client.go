package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/titanic-qa/api-contract-tests/framework"
	"github.com/titanic-qa/api-contract-tests/servicedef"
)

const DefaultRequestTimeout = time.Second * 30

// APIClient translates domain operations into HTTP requests to the backend. It holds no
// state besides its configuration, so one instance can be shared by every test in a run.
//
// Every operation that takes a tolerateFailure parameter returns a *StatusError for a
// non-2xx status unless tolerateFailure is true, in which case the response is returned
// with a nil error and the caller decides what the status means. I/O errors are always
// returned as errors.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     framework.Logger
}

// NewAPIClient creates an APIClient for the backend at baseURL. A zero timeout means
// DefaultRequestTimeout.
func NewAPIClient(baseURL string, timeout time.Duration, logger framework.Logger) *APIClient {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &APIClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

func (c *APIClient) BaseURL() string {
	return c.baseURL
}

// CheckHealth queries the gateway health resource.
func (c *APIClient) CheckHealth() (*Response, error) {
	return c.send(http.MethodGet, servicedef.PathHealth, nil, "", false)
}

// Register creates a user. A non-2xx status is not treated as an error, since registering
// an identity that already exists is expected to fail.
func (c *APIClient) Register(actor servicedef.Actor) (*Response, error) {
	return c.send(http.MethodPost, servicedef.PathRegister, actor, "", true)
}

// Login authenticates a user. The caller is responsible for checking the status and the token.
func (c *APIClient) Login(actor servicedef.Actor) (*Response, error) {
	params := servicedef.LoginParams{Username: actor.Username, Password: actor.Password}
	return c.send(http.MethodPost, servicedef.PathLogin, params, "", true)
}

func (c *APIClient) CreatePassenger(p servicedef.Passenger, token string, tolerateFailure bool) (*Response, error) {
	return c.send(http.MethodPost, servicedef.PathPassengers, p, token, tolerateFailure)
}

func (c *APIClient) GetPassenger(id int, token string, tolerateFailure bool) (*Response, error) {
	return c.send(http.MethodGet, passengerPath(id), nil, token, tolerateFailure)
}

func (c *APIClient) DeletePassenger(id int, token string, tolerateFailure bool) (*Response, error) {
	return c.send(http.MethodDelete, passengerPath(id), nil, token, tolerateFailure)
}

func passengerPath(id int) string {
	return servicedef.PathPassengers + "/" + strconv.Itoa(id)
}

func (c *APIClient) send(method, path string, body interface{}, token string, tolerateFailure bool) (*Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body for %s %s: %w", method, path, err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.logger.Printf("Sending %s %s", method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("error reading response body from %s %s: %w", method, path, err)
	}

	r := &Response{
		Method:     method,
		Path:       path,
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}
	c.logger.Printf("Received %s", r)
	if !r.IsSuccess() && !tolerateFailure {
		return r, &StatusError{Response: r}
	}
	return r, nil
}
