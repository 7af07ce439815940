package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gemline/backoffice/internal/domain/identity"
	"github.com/gemline/backoffice/internal/infrastructure/auth"
	"github.com/gemline/backoffice/internal/infrastructure/config"
	"github.com/gemline/backoffice/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
	})
}

func issue(t *testing.T, svc *auth.JWTService, role identity.Role, storeID *uuid.UUID) (*auth.TokenPair, auth.Subject) {
	t.Helper()
	sub := auth.Subject{UserID: uuid.New(), Username: "jsmith", Role: role, StoreID: storeID}
	pair, err := svc.GenerateTokenPair(sub)
	require.NoError(t, err)
	return pair, sub
}

func newAuthRouter(cfg JWTMiddlewareConfig, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), JWTAuthMiddlewareWithConfig(cfg))
	handlers := append(extra, func(c *gin.Context) {
		actor, _ := GetActor(c)
		c.JSON(http.StatusOK, gin.H{"user_id": actor.UserID.String(), "role": actor.Role})
	})
	router.GET("/api/v1/things", handlers...)
	router.POST("/api/v1/auth/login", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return router
}

func get(router *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	return resp.Error.Code
}

func TestJWTAuth_ValidTokenSetsActor(t *testing.T) {
	svc := newTestJWTService()
	storeID := uuid.New()
	pair, sub := issue(t, svc, identity.RoleShiftLeader, &storeID)

	var got identity.Actor
	router := newAuthRouter(DefaultJWTConfig(svc), func(c *gin.Context) {
		got, _ = GetActor(c)
		assert.NotNil(t, GetJWTClaims(c))
		c.Next()
	})

	rec := get(router, "/api/v1/things", pair.AccessToken)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sub.UserID, got.UserID)
	assert.Equal(t, identity.RoleShiftLeader, got.Role)
	require.NotNil(t, got.StoreID)
	assert.Equal(t, storeID, *got.StoreID)
}

func TestJWTAuth_Rejections(t *testing.T) {
	svc := newTestJWTService()
	pair, _ := issue(t, svc, identity.RoleSalesAssociate, nil)
	router := newAuthRouter(DefaultJWTConfig(svc))

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"wrong scheme", "Basic abc", dto.ErrCodeUnauthorized},
		{"garbage token", "Bearer not-a-jwt", dto.ErrCodeTokenInvalid},
		{"refresh token", "Bearer " + pair.RefreshToken, dto.ErrCodeTokenInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/things", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, tt.code, errorCode(t, rec))
		})
	}
}

func TestJWTAuth_SkipPaths(t *testing.T) {
	router := newAuthRouter(DefaultJWTConfig(newTestJWTService()))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestJWTAuth_Revocation(t *testing.T) {
	svc := newTestJWTService()
	store := auth.NewInMemoryRevocationStore()
	cfg := DefaultJWTConfig(svc)
	cfg.Revocations = store
	router := newAuthRouter(cfg)

	pair, sub := issue(t, svc, identity.RoleStoreManager, nil)
	assert.Equal(t, http.StatusOK, get(router, "/api/v1/things", pair.AccessToken).Code)

	claims, err := svc.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	require.NoError(t, store.Revoke(context.Background(), claims.ID, time.Minute))

	rec := get(router, "/api/v1/things", pair.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, dto.ErrCodeTokenRevoked, errorCode(t, rec))

	other, _ := issue(t, svc, identity.RoleStoreManager, nil)
	require.NoError(t, store.RevokeUser(context.Background(), sub.UserID.String(), time.Minute))
	// a different user's token is unaffected
	assert.Equal(t, http.StatusOK, get(router, "/api/v1/things", other.AccessToken).Code)
}

func TestRequirePermission(t *testing.T) {
	svc := newTestJWTService()
	router := newAuthRouter(DefaultJWTConfig(svc), RequirePermission(identity.PermReportRead))

	tests := []struct {
		role   identity.Role
		status int
	}{
		{identity.RoleDistrictManager, http.StatusOK},
		{identity.RoleStoreManager, http.StatusOK},
		{identity.RoleShiftLeader, http.StatusForbidden},
		{identity.RoleSalesAssociate, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			pair, _ := issue(t, svc, tt.role, nil)
			rec := get(router, "/api/v1/things", pair.AccessToken)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusForbidden {
				assert.Equal(t, dto.ErrCodeForbidden, errorCode(t, rec))
			}
		})
	}
}

func TestRequireAnyPermission_WithoutAuth(t *testing.T) {
	router := gin.New()
	router.GET("/x", RequireAnyPermission(identity.PermSalesRead), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	svc := newTestJWTService()
	router := newAuthRouter(DefaultJWTConfig(svc), RequireRole(identity.RoleDistrictManager))

	dm, _ := issue(t, svc, identity.RoleDistrictManager, nil)
	sm, _ := issue(t, svc, identity.RoleStoreManager, nil)
	assert.Equal(t, http.StatusOK, get(router, "/api/v1/things", dm.AccessToken).Code)
	assert.Equal(t, http.StatusForbidden, get(router, "/api/v1/things", sm.AccessToken).Code)
}
