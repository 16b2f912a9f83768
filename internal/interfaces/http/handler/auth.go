package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ventureflow/backend/internal/application/identity"
	"github.com/ventureflow/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Refresh handles POST /auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identity.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout handles POST /auth/logout. The access token's JTI is revoked for
// the rest of its lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	userID, _ := claims.GetUserUUID()
	err := h.authService.Logout(c.Request.Context(), identity.LogoutInput{
		UserID:       userID,
		TokenJTI:     claims.ID,
		RemainingTTL: claims.GetRemainingTTL(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Logged out successfully"})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	tenantID, userID, ok := h.principal(c)
	if !ok {
		return
	}
	user, err := h.authService.Me(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ChangePassword handles PUT /auth/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	tenantID, userID, ok := h.principal(c)
	if !ok {
		return
	}
	var req identity.ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if err := h.authService.ChangePassword(c.Request.Context(), tenantID, userID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Password changed successfully"})
}
