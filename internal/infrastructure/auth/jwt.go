package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/identity"
	"github.com/ventureflow/backend/internal/infrastructure/config"
)

// TokenType represents the type of JWT token
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Common errors
var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrExpiredToken       = errors.New("token has expired")
	ErrInvalidTokenType   = errors.New("invalid token type")
	ErrInvalidClaims      = errors.New("invalid token claims")
	ErrTokenNotYetValid   = errors.New("token is not yet valid")
	ErrMissingTenantID    = errors.New("missing tenant_id in claims")
	ErrMissingUserID      = errors.New("missing user_id in claims")
	ErrMaxRefreshExceeded = errors.New("maximum refresh count exceeded")
	ErrTokenBlacklisted   = errors.New("token has been revoked")
)

// Claims are the VentureFlow JWT claims. Permissions are not embedded; they
// follow from Role through the static role catalog.
type Claims struct {
	jwt.RegisteredClaims
	TenantID     string        `json:"tenant_id"`
	UserID       string        `json:"user_id"`
	Email        string        `json:"email,omitempty"`
	Role         identity.Role `json:"role"`
	TokenType    TokenType     `json:"token_type"`
	RefreshCount int           `json:"refresh_count,omitempty"`
}

// TokenPair represents an access and refresh token pair
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

// JWTService signs and verifies HS256 token pairs. Access and refresh
// tokens use separate secrets unless no refresh secret is configured.
type JWTService struct {
	accessSecret      []byte
	refreshSecret     []byte
	accessExpiration  time.Duration
	refreshExpiration time.Duration
	issuer            string
	maxRefreshCount   int
	parser            *jwt.Parser
}

// clockSkew tolerated on exp, nbf and iat
const clockSkew = 5 * time.Second

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	refreshSecret := cfg.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.Secret
	}
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(clockSkew),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	return &JWTService{
		accessSecret:      []byte(cfg.Secret),
		refreshSecret:     []byte(refreshSecret),
		accessExpiration:  cfg.AccessTokenExpiration,
		refreshExpiration: cfg.RefreshTokenExpiration,
		issuer:            cfg.Issuer,
		maxRefreshCount:   cfg.MaxRefreshCount,
		parser:            jwt.NewParser(opts...),
	}
}

// Subject identifies who a token pair is issued to
type Subject struct {
	TenantID uuid.UUID
	UserID   uuid.UUID
	Email    string
	Role     identity.Role
}

// SubjectOf returns the token subject for a user
func SubjectOf(u *identity.User) Subject {
	return Subject{TenantID: u.TenantID, UserID: u.ID, Email: u.Email, Role: u.Role}
}

// GenerateTokenPair generates both access and refresh tokens
func (s *JWTService) GenerateTokenPair(sub Subject) (*TokenPair, error) {
	return s.issue(sub, 0)
}

// issue signs a pair. Both tokens carry the role so a refresh needs no
// database lookup unless the caller wants to override it.
func (s *JWTService) issue(sub Subject, refreshCount int) (*TokenPair, error) {
	now := time.Now()
	sign := func(kind TokenType, secret []byte, ttl time.Duration, count int) (string, error) {
		claims := &Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				ID:        uuid.NewString(),
				Issuer:    s.issuer,
				Subject:   sub.UserID.String(),
				Audience:  jwt.ClaimStrings{s.issuer},
				ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
				NotBefore: jwt.NewNumericDate(now),
				IssuedAt:  jwt.NewNumericDate(now),
			},
			TenantID:     sub.TenantID.String(),
			UserID:       sub.UserID.String(),
			Email:        sub.Email,
			Role:         sub.Role,
			TokenType:    kind,
			RefreshCount: count,
		}
		return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	}

	pair := &TokenPair{
		AccessTokenExpiresAt:  now.Add(s.accessExpiration),
		RefreshTokenExpiresAt: now.Add(s.refreshExpiration),
		TokenType:             "Bearer",
	}
	var err error
	if pair.AccessToken, err = sign(TokenTypeAccess, s.accessSecret, s.accessExpiration, 0); err != nil {
		return nil, err
	}
	if pair.RefreshToken, err = sign(TokenTypeRefresh, s.refreshSecret, s.refreshExpiration, refreshCount); err != nil {
		return nil, err
	}
	return pair, nil
}

// ValidateAccessToken validates an access token and returns its claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.parse(tokenString, s.accessSecret, TokenTypeAccess)
}

// ValidateRefreshToken validates a refresh token and returns its claims
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.parse(tokenString, s.refreshSecret, TokenTypeRefresh)
}

func (s *JWTService) parse(tokenString string, secret []byte, want TokenType) (*Claims, error) {
	claims := &Claims{}
	_, err := s.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case errors.Is(err, jwt.ErrTokenNotValidYet), errors.Is(err, jwt.ErrTokenUsedBeforeIssued):
		return nil, ErrTokenNotYetValid
	case err != nil:
		return nil, ErrInvalidToken
	}

	switch {
	case claims.TokenType != want:
		return nil, ErrInvalidTokenType
	case claims.TenantID == "":
		return nil, ErrMissingTenantID
	case claims.UserID == "":
		return nil, ErrMissingUserID
	case !claims.Role.IsValid():
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

// RefreshTokenPair rotates the pair issued for a valid refresh token.
// role overrides the role in the old token when non-empty, so demoted users
// lose privileges on their next refresh.
func (s *JWTService) RefreshTokenPair(refreshToken string, role identity.Role) (*TokenPair, *Claims, error) {
	claims, err := s.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}
	if claims.RefreshCount >= s.maxRefreshCount {
		return nil, nil, ErrMaxRefreshExceeded
	}
	tenantID, err := claims.GetTenantUUID()
	if err != nil {
		return nil, nil, ErrInvalidClaims
	}
	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, nil, ErrInvalidClaims
	}
	if role == "" {
		role = claims.Role
	}
	pair, err := s.issue(Subject{TenantID: tenantID, UserID: userID, Email: claims.Email, Role: role}, claims.RefreshCount+1)
	if err != nil {
		return nil, nil, err
	}
	return pair, claims, nil
}

// GetTenantUUID extracts and parses the tenant ID from claims
func (c *Claims) GetTenantUUID() (uuid.UUID, error) {
	return uuid.Parse(c.TenantID)
}

// GetUserUUID extracts and parses the user ID from claims
func (c *Claims) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// HasPermission checks the role catalog for a resource:action code
func (c *Claims) HasPermission(permission string) bool {
	return c.Role.HasPermission(permission)
}

// GetIssuedAtTime returns the token's issued-at time
func (c *Claims) GetIssuedAtTime() time.Time {
	if c.IssuedAt != nil {
		return c.IssuedAt.Time
	}
	return time.Time{}
}

// GetRemainingTTL returns the remaining time until the token expires
func (c *Claims) GetRemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(c.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// GetAccessTokenExpiration returns the access token lifetime
func (s *JWTService) GetAccessTokenExpiration() time.Duration {
	return s.accessExpiration
}
