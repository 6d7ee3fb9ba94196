package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// Envelope mirrors the API response wrapper with an undecoded payload.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Field   string `json:"field"`
	} `json:"error"`
	Meta *struct {
		Total int `json:"total"`
	} `json:"meta"`
}

// APIClient issues requests against an in-process handler.
type APIClient struct {
	t       *testing.T
	handler http.Handler
	prefix  string
}

// NewAPIClient wraps handler; paths passed to Do are joined to prefix.
func NewAPIClient(t *testing.T, handler http.Handler, prefix string) *APIClient {
	return &APIClient{t: t, handler: handler, prefix: prefix}
}

// Do sends body as JSON when it is not nil and returns the recorded response.
func (c *APIClient) Do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(body)
			require.NoError(c.t, err, "Failed to marshal request body")
			reader = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, c.prefix+path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	return w
}

// DecodeEnvelope parses the response wrapper.
func DecodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "Failed to parse response: %s", w.Body.String())
	return env
}

// DecodeData requires a successful response with status and decodes its data.
func DecodeData[T any](t *testing.T, w *httptest.ResponseRecorder, status int) T {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())

	env := DecodeEnvelope(t, w)
	require.True(t, env.Success, "Expected success: %s", w.Body.String())

	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out), "Failed to decode data")
	return out
}

// RequireError requires an error response with status and code.
func RequireError(t *testing.T, w *httptest.ResponseRecorder, status int, code string) Envelope {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())

	env := DecodeEnvelope(t, w)
	require.False(t, env.Success)
	require.NotNil(t, env.Error, "Expected error object in response")
	require.Equal(t, code, env.Error.Code)
	return env
}
