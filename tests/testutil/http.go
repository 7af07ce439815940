package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gemline/backoffice/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requestActorKey struct{}

// NewActorEngine returns a gin engine that authenticates each request as the
// actor Serve attached to it, standing in for the JWT middleware.
func NewActorEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(func(c *gin.Context) {
		if actor, ok := c.Request.Context().Value(requestActorKey{}).(identity.Actor); ok {
			c.Set(middleware.ActorKey, actor)
		}
		c.Next()
	})
	return engine
}

// Request describes one call against a handler. A nil Actor sends the
// request unauthenticated.
type Request struct {
	Method  string
	Path    string
	Body    any
	Actor   *identity.Actor
	Headers map[string]string
}

// Serve sends r through h and returns the recorded response. Bodies are
// sent as JSON.
func Serve(t *testing.T, h http.Handler, r Request) *httptest.ResponseRecorder {
	t.Helper()

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	var body io.Reader
	if r.Body != nil {
		body = ToJSONReader(t, r.Body)
	}
	req := httptest.NewRequest(method, r.Path, body)
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	if r.Actor != nil {
		req = req.WithContext(context.WithValue(req.Context(), requestActorKey{}, *r.Actor))
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// HTTPTestCase is one row of a table-driven handler test. ExpectedCode is
// the error code of a failed response, e.g. "ERR_INSUFFICIENT_STOCK".
type HTTPTestCase struct {
	Name           string
	Request        Request
	ExpectedStatus int
	ExpectedCode   string
	Validate       func(t *testing.T, w *httptest.ResponseRecorder)
}

// RunHTTPTestCases runs each case as a subtest against h.
func RunHTTPTestCases(t *testing.T, h http.Handler, cases []HTTPTestCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			w := Serve(t, h, tc.Request)
			if tc.ExpectedStatus != 0 {
				assert.Equal(t, tc.ExpectedStatus, w.Code, w.Body.String())
			}
			if tc.ExpectedCode != "" {
				assert.Equal(t, tc.ExpectedCode, errorCode(t, w.Body.Bytes()))
			}
			if tc.Validate != nil {
				tc.Validate(t, w)
			}
		})
	}
}

// DataAs decodes the "data" member of a success envelope.
func DataAs[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var envelope struct {
		Data T `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope), w.Body.String())
	return envelope.Data
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()

	var envelope struct {
		Error *struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope), string(body))
	require.NotNil(t, envelope.Error, "expected an error envelope: %s", body)
	return envelope.Error.Code
}

// JSONResponse parses the response body as JSON.
func JSONResponse(t *testing.T, tc *TestContext) map[string]interface{} {
	t.Helper()

	var result map[string]interface{}
	err := json.Unmarshal(tc.ResponseBody(), &result)
	require.NoError(t, err, "Failed to parse JSON response")
	return result
}

// JSONResponseAs parses the response body into the provided struct.
func JSONResponseAs[T any](t *testing.T, tc *TestContext) T {
	t.Helper()

	var result T
	err := json.Unmarshal(tc.ResponseBody(), &result)
	require.NoError(t, err, "Failed to parse JSON response")
	return result
}

// AssertSuccessResponse asserts the response is a successful API response.
func AssertSuccessResponse(t *testing.T, tc *TestContext) {
	t.Helper()

	resp := JSONResponse(t, tc)
	assert.True(t, resp["success"].(bool), "Expected success to be true")
	assert.Nil(t, resp["error"], "Expected no error")
}

// AssertErrorResponse asserts the response is an error API response.
func AssertErrorResponse(t *testing.T, tc *TestContext, expectedCode string) {
	t.Helper()

	assert.False(t, JSONResponse(t, tc)["success"].(bool), "Expected success to be false")
	assert.Equal(t, expectedCode, errorCode(t, tc.ResponseBody()), "Unexpected error code")
}

// ToJSONReader converts a value to a JSON io.Reader.
func ToJSONReader(t *testing.T, v interface{}) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err, "Failed to marshal to JSON")
	return bytes.NewReader(data)
}
