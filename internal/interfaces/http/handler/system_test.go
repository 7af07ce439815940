package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gemline/backoffice/internal/interfaces/http/dto"
	"github.com/gemline/backoffice/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("Gemline Back Office", "1.2.3", nil)
	tc := testutil.NewTestContext(t)

	h.GetSystemInfo(tc.Context)

	require.Equal(t, http.StatusOK, tc.ResponseCode())
	resp := testutil.JSONResponse(t, tc)
	data := resp["data"].(map[string]any)
	assert.Equal(t, "Gemline Back Office", data["name"])
	assert.Equal(t, "1.2.3", data["version"])
	assert.NotEmpty(t, data["go_version"])
}

func TestSystemHandler_Ping(t *testing.T) {
	h := NewSystemHandler("svc", "dev", nil)
	tc := testutil.NewTestContext(t)

	h.Ping(tc.Context)

	require.Equal(t, http.StatusOK, tc.ResponseCode())
	testutil.AssertSuccessResponse(t, tc)
	assert.Equal(t, "pong", testutil.JSONResponse(t, tc)["data"].(map[string]any)["message"])
}

func TestSystemHandler_Health(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("dial tcp: refused") }

	t.Run("no checks", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		NewSystemHandler("svc", "dev", nil).Health(tc.Context)

		assert.Equal(t, http.StatusOK, tc.ResponseCode())
		resp := testutil.JSONResponseAs[HealthResponse](t, tc)
		assert.Equal(t, "healthy", resp.Status)
		assert.Empty(t, resp.Checks)
	})

	t.Run("all healthy", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		NewSystemHandler("svc", "dev", map[string]HealthCheck{"database": ok, "redis": ok}).Health(tc.Context)

		assert.Equal(t, http.StatusOK, tc.ResponseCode())
		resp := testutil.JSONResponseAs[HealthResponse](t, tc)
		assert.Equal(t, map[string]string{"database": "ok", "redis": "ok"}, resp.Checks)
	})

	t.Run("dependency down", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		NewSystemHandler("svc", "dev", map[string]HealthCheck{"database": ok, "redis": down}).Health(tc.Context)

		assert.Equal(t, http.StatusServiceUnavailable, tc.ResponseCode())
		resp := testutil.JSONResponseAs[HealthResponse](t, tc)
		assert.Equal(t, "unhealthy", resp.Status)
		assert.Equal(t, "ok", resp.Checks["database"])
		assert.Equal(t, "error", resp.Checks["redis"])
		assert.NotContains(t, string(tc.ResponseBody()), "refused")
	})
}

func TestSystemHandler_NoRoute(t *testing.T) {
	h := NewSystemHandler("svc", "dev", nil)
	engine := gin.New()
	engine.NoRoute(h.NoRoute)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/nowhere", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), dto.ErrCodeNotFound)
}
