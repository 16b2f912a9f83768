package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/infrastructure/auth"
	"github.com/ventureflow/backend/internal/infrastructure/logger"
	"github.com/ventureflow/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTTenantIDKey = "jwt_tenant_id"
	JWTRoleKey     = "jwt_role"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

var errMissingCredentials = errors.New("missing credentials")

// JWTMiddlewareConfig holds configuration for JWT middleware
type JWTMiddlewareConfig struct {
	JWTService *auth.JWTService
	// TokenBlacklist is optional for checking revoked tokens
	TokenBlacklist auth.TokenBlacklist
	Logger         *zap.Logger
}

// JWTAuthMiddleware requires a valid, unrevoked access token
func JWTAuthMiddleware(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			unauthorized(c, log, errMissingCredentials, "Missing authorization header")
			return
		}
		if !strings.HasPrefix(authHeader, BearerPrefix) {
			unauthorized(c, log, auth.ErrInvalidToken, "Invalid authorization header format")
			return
		}
		tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
		if tokenString == "" {
			unauthorized(c, log, errMissingCredentials, "Missing token")
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			unauthorized(c, log, err, "Invalid token")
			return
		}

		if cfg.TokenBlacklist != nil {
			ctx := c.Request.Context()
			// fail open: a blacklist outage must not lock everyone out
			if claims.ID != "" {
				revoked, err := cfg.TokenBlacklist.IsBlacklisted(ctx, claims.ID)
				if err != nil {
					log.Error("Failed to check token blacklist", zap.String("jti", claims.ID), zap.Error(err))
				} else if revoked {
					unauthorized(c, log, auth.ErrTokenBlacklisted, "Token has been revoked")
					return
				}
			}
			invalidated, err := cfg.TokenBlacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
			if err != nil {
				log.Error("Failed to check user token invalidation", zap.String("user_id", claims.UserID), zap.Error(err))
			} else if invalidated {
				unauthorized(c, log, auth.ErrTokenBlacklisted, "User session has been invalidated")
				return
			}
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTTenantIDKey, claims.TenantID)
		c.Set(JWTRoleKey, string(claims.Role))

		ctx := c.Request.Context()
		reqLog := logger.FromContext(ctx)
		ctx, reqLog = logger.WithUserID(ctx, reqLog, claims.UserID)
		ctx, _ = logger.WithTenantID(ctx, reqLog, claims.TenantID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func unauthorized(c *gin.Context, log *zap.Logger, err error, message string) {
	log.Warn("JWT authentication failed",
		zap.Error(err),
		zap.String("message", message),
		zap.String("path", c.Request.URL.Path),
	)

	code := dto.ErrCodeTokenInvalid
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, message = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenBlacklisted):
		code = dto.ErrCodeTokenRevoked
	case errors.Is(err, auth.ErrInvalidTokenType), errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrTokenNotYetValid), errors.Is(err, auth.ErrMissingTenantID),
		errors.Is(err, auth.ErrMissingUserID):
		message = "Invalid token"
	case !errors.Is(err, auth.ErrInvalidToken):
		code, message = dto.ErrCodeUnauthorized, "Authentication required"
	}
	abortWithError(c, http.StatusUnauthorized, code, message)
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetUserID returns the authenticated user's ID
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(JWTUserIDKey))
	return id, err == nil
}

// GetTenantID returns the authenticated user's tenant
func GetTenantID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(JWTTenantIDKey))
	return id, err == nil
}
