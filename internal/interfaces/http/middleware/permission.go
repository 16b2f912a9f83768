package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ventureflow/backend/internal/domain/identity"
	"github.com/ventureflow/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// PermissionConfig holds configuration for permission middleware
type PermissionConfig struct {
	Logger *zap.Logger
}

// RequirePermission requires one resource:action permission
func RequirePermission(permission string, cfg PermissionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		check(c, cfg, permission)
	}
}

// RequireResource checks permission for a resource with the action derived
// from the HTTP method:
//   - GET -> read
//   - POST -> create
//   - PUT/PATCH -> update
//   - DELETE -> delete
func RequireResource(resource string, cfg PermissionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		check(c, cfg, identity.NewPermission(resource, methodToAction(c.Request.Method)).Code)
	}
}

func check(c *gin.Context, cfg PermissionConfig, permission string) {
	claims := GetJWTClaims(c)
	if claims == nil {
		abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		return
	}
	if !claims.HasPermission(permission) {
		if cfg.Logger != nil {
			cfg.Logger.Warn("Permission denied",
				zap.String("user_id", claims.UserID),
				zap.String("role", string(claims.Role)),
				zap.String("permission", permission),
				zap.String("path", c.Request.URL.Path),
				zap.String("method", c.Request.Method),
			)
		}
		abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Access denied: insufficient permissions")
		return
	}
	c.Next()
}

// methodToAction converts HTTP method to permission action
func methodToAction(method string) string {
	switch strings.ToUpper(method) {
	case http.MethodPost:
		return identity.ActionCreate
	case http.MethodPut, http.MethodPatch:
		return identity.ActionUpdate
	case http.MethodDelete:
		return identity.ActionDelete
	default:
		return identity.ActionRead
	}
}
