package client

import (
	"encoding/json"
	"fmt"
	"net/http"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const maxBodyInError = 500

// Response is a fully read HTTP response from the backend.
type Response struct {
	Method     string
	Path       string
	StatusCode int
	Header     http.Header
	Body       []byte
}

func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON parses the body as arbitrary JSON. A body that is empty or not valid JSON is null.
func (r *Response) JSON() ldvalue.Value {
	if len(r.Body) == 0 {
		return ldvalue.Null()
	}
	return ldvalue.Parse(r.Body)
}

// Detail returns the "detail" message that the backend puts in error responses, or "".
func (r *Response) Detail() string {
	return r.JSON().GetByKey("detail").StringValue()
}

// ID returns the integer "id" property of the body, if there is one.
func (r *Response) ID() (int, bool) {
	v := r.JSON().GetByKey("id")
	if !v.IsInt() {
		return 0, false
	}
	return v.IntValue(), true
}

// Decode unmarshals the body into target.
func (r *Response) Decode(target interface{}) error {
	if err := json.Unmarshal(r.Body, target); err != nil {
		return fmt.Errorf("malformed JSON response from %s %s: %w", r.Method, r.Path, err)
	}
	return nil
}

func (r *Response) String() string {
	return fmt.Sprintf("%s %s -> HTTP %d %s", r.Method, r.Path, r.StatusCode, truncate(r.Body))
}

// StatusError is returned for a non-2xx response when the caller did not ask to tolerate one.
// The response is still available for inspection.
type StatusError struct {
	Response *Response
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned HTTP %d: %s",
		e.Response.Method, e.Response.Path, e.Response.StatusCode, truncate(e.Response.Body))
}

func truncate(body []byte) string {
	if len(body) > maxBodyInError {
		return string(body[:maxBodyInError]) + "..."
	}
	return string(body)
}
