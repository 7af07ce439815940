package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gemline/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderPayload struct {
	StoreCode string   `json:"store_code" binding:"required"`
	Items     []string `json:"items" binding:"required,min=1"`
	Email     string   `json:"email" binding:"omitempty,email"`
}

func TestFormatValidationErrors(t *testing.T) {
	SetupValidator()

	router := gin.New()
	router.Use(RequestID())
	router.POST("/orders", func(c *gin.Context) {
		var p orderPayload
		if err := c.ShouldBindJSON(&p); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusCreated)
	})

	post := func(body string) (*httptest.ResponseRecorder, dto.Response) {
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(RequestIDHeader, "req-42")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		var resp dto.Response
		if rec.Code != http.StatusCreated {
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		}
		return rec, resp
	}

	t.Run("field errors use json names", func(t *testing.T) {
		rec, resp := post(`{"items":[],"email":"nope"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "req-42", resp.Error.RequestID)

		byField := map[string]string{}
		for _, d := range resp.Error.Details {
			byField[d.Field] = d.Message
		}
		assert.Equal(t, "This field is required", byField["store_code"])
		assert.Equal(t, "Must contain at least 1 items", byField["items"])
		assert.Equal(t, "Invalid email format", byField["email"])
	})

	t.Run("malformed json", func(t *testing.T) {
		rec, resp := post(`{"store_code":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "body", resp.Error.Details[0].Field)
	})

	t.Run("valid", func(t *testing.T) {
		rec, _ := post(`{"store_code":"NYC1","items":["RING-1"]}`)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})
}
