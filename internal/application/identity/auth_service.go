package identity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/identity"
	"github.com/ventureflow/backend/internal/domain/shared"
	"github.com/ventureflow/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // Maximum failed login attempts before lock
	LockDuration     time.Duration // How long to lock account after max attempts
	DefaultTenantID  uuid.UUID     // Tenant used when a login names none
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig(defaultTenant uuid.UUID) AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: identity.MaxLoginAttempts,
		LockDuration:     identity.LockDuration,
		DefaultTenantID:  defaultTenant,
	}
}

// AuthService handles authentication operations
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	config     AuthServiceConfig
	logger     *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		config:     config,
		logger:     logger,
	}
}

var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")

// Login authenticates a user and returns a token pair
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	tenantID := s.config.DefaultTenantID
	if req.TenantID != "" {
		id, err := uuid.Parse(req.TenantID)
		if err != nil {
			return nil, shared.NewValidationError("tenant_id", "Must be a valid UUID")
		}
		tenantID = id
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.FindByEmail(ctx, tenantID, email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown email", zap.String("email", email))
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !user.CanLogin() {
		if user.IsLocked() {
			s.logger.Warn("Login attempt for locked account", zap.String("email", email))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later")
		}
		s.logger.Warn("Login attempt for inactive account", zap.String("email", email))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is not active")
	}

	if !user.VerifyPassword(req.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Save(ctx, user); err != nil {
			s.logger.Error("Failed to update user after login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("email", email),
				zap.Int("attempts", s.config.MaxLoginAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}
		s.logger.Warn("Invalid password attempt",
			zap.String("email", email),
			zap.Int("failed_attempts", user.FailedAttempts))
		return nil, errInvalidCredentials
	}

	pair, err := s.jwtService.GenerateTokenPair(auth.SubjectOf(user))
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, err
	}

	user.RecordLoginSuccess()
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to update user after successful login", zap.Error(err))
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", tenantID.String()))

	return &LoginResponse{TokenResponse: toTokenResponse(pair), User: ToUserResponse(user)}, nil
}

// Refresh rotates a token pair. The role is reloaded so a changed role
// takes effect on the next refresh.
func (s *AuthService) Refresh(ctx context.Context, req RefreshRequest) (*TokenResponse, error) {
	claims, err := s.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, tokenError(err)
	}
	tenantID, err := claims.GetTenantUUID()
	if err != nil {
		return nil, tokenError(auth.ErrInvalidClaims)
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, tokenError(auth.ErrInvalidClaims)
	}

	user, err := s.userRepo.FindByID(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("UNAUTHORIZED", "User no longer exists")
		}
		return nil, err
	}
	if !user.CanLogin() {
		s.logger.Warn("Token refresh for inactive user", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	pair, _, err := s.jwtService.RefreshTokenPair(req.RefreshToken, user.Role)
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, tokenError(err)
	}
	resp := toTokenResponse(pair)
	return &resp, nil
}

// Logout revokes the access token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.TokenJTI == "" || input.RemainingTTL <= 0 {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.RemainingTTL); err != nil {
		s.logger.Error("Failed to blacklist token", zap.Error(err))
		return err
	}
	s.logger.Info("User logged out", zap.String("user_id", input.UserID.String()))
	return nil
}

// Me returns the current user
func (s *AuthService) Me(ctx context.Context, tenantID, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// ChangePassword changes the current user's password
func (s *AuthService) ChangePassword(ctx context.Context, tenantID, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.userRepo.FindByID(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	if err := user.ChangePassword(req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to update user after password change", zap.Error(err))
		return err
	}
	s.logger.Info("User password changed", zap.String("user_id", userID.String()))
	return nil
}

func toTokenResponse(p *auth.TokenPair) TokenResponse {
	return TokenResponse{
		AccessToken:           p.AccessToken,
		RefreshToken:          p.RefreshToken,
		AccessTokenExpiresAt:  p.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: p.RefreshTokenExpiresAt,
		TokenType:             p.TokenType,
	}
}

func tokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}
}
