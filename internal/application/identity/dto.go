package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/identity"
)

// LoginRequest authenticates by email. TenantID defaults to the configured tenant.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	TenantID string `json:"tenant_id" binding:"omitempty,uuid"`
}

// RefreshRequest rotates a token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutInput identifies the access token to revoke
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string
	// RemainingTTL is how long the token would still be valid
	RemainingTTL time.Duration
}

// ChangePasswordRequest changes the current user's password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

// TokenResponse is an issued token pair
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// LoginResponse is the result of a successful login
type LoginResponse struct {
	TokenResponse
	User UserResponse `json:"user"`
}

// CreateUserRequest creates a login account
type CreateUserRequest struct {
	Email    string `json:"email" binding:"required,email,max=200"`
	Name     string `json:"name" binding:"required,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"required,oneof=admin staff partner"`
}

// UpdateUserRequest changes name, role and status
type UpdateUserRequest struct {
	Name   string `json:"name" binding:"required,max=100"`
	Role   string `json:"role" binding:"required,oneof=admin staff partner"`
	Status string `json:"status" binding:"required,oneof=active inactive"`
}

// UserListQuery is the user index query string
type UserListQuery struct {
	Search string `form:"search"`
	Role   string `form:"role" binding:"omitempty,oneof=admin staff partner"`
	Status string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page   int    `form:"page"`
}

// UserResponse is a user in API responses
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	TenantID    uuid.UUID  `json:"tenant_id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	Permissions []string   `json:"permissions"`
	LastLoginAt *time.Time `json:"last_login_at"`
	LockedUntil *time.Time `json:"locked_until,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToUserResponse maps a user with the permissions of its role
func ToUserResponse(u *identity.User) UserResponse {
	resp := UserResponse{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        string(u.Role),
		Status:      string(u.Status),
		Permissions: u.Role.Permissions(),
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
	if u.IsLocked() {
		resp.LockedUntil = u.LockedUntil
	}
	return resp
}
