package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gemline/backoffice/internal/application/common"
	"github.com/gemline/backoffice/internal/domain/shared"
	"github.com/gemline/backoffice/internal/interfaces/http/dto"
	"github.com/gemline/backoffice/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", shared.ErrNotFound, http.StatusNotFound, dto.ErrCodeNotFound},
		{"wrapped not found", fmt.Errorf("load order: %w", shared.ErrNotFound), http.StatusNotFound, dto.ErrCodeNotFound},
		{"forbidden", shared.ErrForbidden, http.StatusForbidden, dto.ErrCodeForbidden},
		{"invalid input", shared.ErrInvalidInput, http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"invalid field", shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive"), http.StatusBadRequest, "INVALID_QUANTITY"},
		{"insufficient stock", shared.ErrInsufficientStock, http.StatusUnprocessableEntity, dto.ErrCodeInsufficientStock},
		{"concurrency", shared.ErrConcurrencyConflict, http.StatusConflict, dto.ErrCodeConcurrencyConflict},
		{"shift overlap", shared.NewDomainError("SHIFT_OVERLAP", "Shift overlaps"), http.StatusConflict, "SHIFT_OVERLAP"},
		{"business rule", shared.NewDomainError("ORDER_CLOSED", "Order is closed"), http.StatusUnprocessableEntity, "ORDER_CLOSED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContext(t)
			tc.SetRequestID("req-1")

			h := &BaseHandler{}
			h.HandleError(tc.Context, tt.err)

			assert.Equal(t, tt.wantStatus, tc.ResponseCode())
			testutil.AssertErrorResponse(t, tc, tt.wantCode)
			resp := testutil.JSONResponse(t, tc)
			assert.Equal(t, "req-1", resp["error"].(map[string]any)["request_id"])
		})
	}
}

func TestBaseHandler_HandleError_HidesUnexpectedErrors(t *testing.T) {
	tc := testutil.NewTestContext(t)

	h := &BaseHandler{}
	h.HandleError(tc.Context, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, tc.ResponseCode())
	testutil.AssertErrorResponse(t, tc, dto.ErrCodeInternal)
	assert.NotContains(t, string(tc.ResponseBody()), "connection refused")
	assert.Len(t, tc.Context.Errors, 1)
}

func TestBaseHandler_HandleError_Nil(t *testing.T) {
	tc := testutil.NewTestContext(t)

	h := &BaseHandler{}
	h.HandleError(tc.Context, nil)

	assert.Empty(t, tc.ResponseBody())
}

func TestBaseHandler_Actor(t *testing.T) {
	h := &BaseHandler{}

	t.Run("missing", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		_, ok := h.actor(tc.Context)
		assert.False(t, ok)
		assert.Equal(t, http.StatusUnauthorized, tc.ResponseCode())
		testutil.AssertErrorResponse(t, tc, dto.ErrCodeUnauthorized)
	})

	t.Run("present", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		want := testutil.DistrictManager()
		tc.SetActor(want)
		got, ok := h.actor(tc.Context)
		require.True(t, ok)
		assert.Equal(t, want, got)
		assert.Empty(t, tc.ResponseBody())
	})
}

func TestBaseHandler_PathID(t *testing.T) {
	h := &BaseHandler{}

	tc := testutil.NewTestContext(t)
	tc.Context.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	_, ok := h.pathID(tc.Context, "id")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, tc.ResponseCode())
	assert.Contains(t, string(tc.ResponseBody()), "Invalid id format")

	id := uuid.New()
	tc = testutil.NewTestContext(t)
	tc.Context.Params = gin.Params{{Key: "id", Value: id.String()}}
	got, ok := h.pathID(tc.Context, "id")
	assert.True(t, ok)
	assert.Equal(t, id, got)
}

func TestBaseHandler_BindOptionalJSON(t *testing.T) {
	type body struct {
		Reason string `json:"reason" binding:"omitempty,max=5"`
	}
	h := &BaseHandler{}

	t.Run("empty body", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		tc.Context.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		tc.SetHeader("Content-Type", "application/json")
		var req body
		assert.True(t, h.bindOptionalJSON(tc.Context, &req))
		assert.Empty(t, req.Reason)
	})

	t.Run("invalid body", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		tc.Context.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"reason":"far too long"}`))
		tc.SetHeader("Content-Type", "application/json")
		var req body
		assert.False(t, h.bindOptionalJSON(tc.Context, &req))
		assert.Equal(t, http.StatusBadRequest, tc.ResponseCode())
	})

	t.Run("required body stays required", func(t *testing.T) {
		tc := testutil.NewTestContext(t)
		tc.Context.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		var req body
		assert.False(t, h.bindJSON(tc.Context, &req))
		assert.Equal(t, http.StatusBadRequest, tc.ResponseCode())
	})
}

func TestBaseHandler_Page(t *testing.T) {
	tc := testutil.NewTestContext(t)

	h := &BaseHandler{}
	h.Page(tc.Context, []string{"a", "b"}, 45, common.PageQuery{Page: 2})

	require.Equal(t, http.StatusOK, tc.ResponseCode())
	resp := testutil.JSONResponse(t, tc)
	meta := resp["meta"].(map[string]any)
	assert.Equal(t, float64(45), meta["total"])
	assert.Equal(t, float64(2), meta["page"])
	assert.Equal(t, float64(3), meta["total_pages"])
}
