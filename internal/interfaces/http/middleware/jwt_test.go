package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ventureflow/backend/internal/domain/identity"
	"github.com/ventureflow/backend/internal/infrastructure/auth"
	"github.com/ventureflow/backend/internal/infrastructure/config"
	"github.com/ventureflow/backend/internal/interfaces/http/dto"
	"go.uber.org/zap/zaptest"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		RefreshSecret:          "test-refresh-secret-key-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "test-issuer",
		MaxRefreshCount:        10,
	})
}

func newTestTokenPair(t *testing.T, jwtService *auth.JWTService, role identity.Role) (*auth.TokenPair, auth.Subject) {
	t.Helper()
	sub := auth.Subject{TenantID: uuid.New(), UserID: uuid.New(), Email: "analyst@ventureflow.io", Role: role}
	pair, err := jwtService.GenerateTokenPair(sub)
	require.NoError(t, err)
	return pair, sub
}

func jwtRouter(t *testing.T, jwtService *auth.JWTService, blacklist auth.TokenBlacklist) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), JWTAuthMiddleware(JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         zaptest.NewLogger(t),
	}))
	router.GET("/test", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return router
}

func get(router http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware_ValidToken(t *testing.T) {
	jwtService := newTestJWTService()
	pair, sub := newTestTokenPair(t, jwtService, identity.RoleStaff)

	router := gin.New()
	router.Use(JWTAuthMiddleware(JWTMiddlewareConfig{JWTService: jwtService}))
	router.GET("/test", func(c *gin.Context) {
		claims := GetJWTClaims(c)
		require.NotNil(t, claims)
		assert.Equal(t, identity.RoleStaff, claims.Role)

		userID, ok := GetUserID(c)
		assert.True(t, ok)
		assert.Equal(t, sub.UserID, userID)
		tenantID, ok := GetTenantID(c)
		assert.True(t, ok)
		assert.Equal(t, sub.TenantID, tenantID)
		assert.Equal(t, "staff", c.GetString(JWTRoleKey))
		c.String(http.StatusOK, "ok")
	})

	w := get(router, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTAuthMiddleware_Rejections(t *testing.T) {
	jwtService := newTestJWTService()
	pair, _ := newTestTokenPair(t, jwtService, identity.RoleAdmin)

	expired := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-chars",
		AccessTokenExpiration:  -time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "test-issuer",
	})
	expiredPair, _ := newTestTokenPair(t, expired, identity.RoleAdmin)

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"missing header", "", dto.ErrCodeUnauthorized},
		{"wrong scheme", "Basic abc", dto.ErrCodeTokenInvalid},
		{"empty bearer", "Bearer ", dto.ErrCodeUnauthorized},
		{"garbage token", "Bearer not.a.token", dto.ErrCodeTokenInvalid},
		{"refresh token", "Bearer " + pair.RefreshToken, dto.ErrCodeTokenInvalid},
		{"expired token", "Bearer " + expiredPair.AccessToken, dto.ErrCodeTokenExpired},
	}
	router := jwtRouter(t, jwtService, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(router, tt.header)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			errInfo := decodeError(t, w)
			assert.Equal(t, tt.code, errInfo.Code)
			assert.NotEmpty(t, errInfo.RequestID)
		})
	}
}

func TestJWTAuthMiddleware_Blacklist(t *testing.T) {
	ctx := context.Background()
	jwtService := newTestJWTService()

	t.Run("revoked token", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		router := jwtRouter(t, jwtService, blacklist)
		pair, _ := newTestTokenPair(t, jwtService, identity.RoleStaff)
		claims, err := jwtService.ValidateAccessToken(pair.AccessToken)
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, get(router, "Bearer "+pair.AccessToken).Code)

		require.NoError(t, blacklist.AddToBlacklist(ctx, claims.ID, time.Hour))
		w := get(router, "Bearer "+pair.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenRevoked, decodeError(t, w).Code)
	})

	t.Run("invalidated user sessions", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		router := jwtRouter(t, jwtService, blacklist)
		pair, sub := newTestTokenPair(t, jwtService, identity.RoleStaff)

		require.NoError(t, blacklist.AddUserTokensToBlacklist(ctx, sub.UserID.String(), time.Hour))

		w := get(router, "Bearer "+pair.AccessToken)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenRevoked, decodeError(t, w).Code)
	})
}

func TestGetJWTClaims_Missing(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, GetJWTClaims(c))
	_, ok := GetUserID(c)
	assert.False(t, ok)
	_, ok = GetTenantID(c)
	assert.False(t, ok)
}
