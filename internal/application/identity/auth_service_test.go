package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/ventureflow/backend/internal/domain/identity"
	"github.com/ventureflow/backend/internal/domain/shared"
	"github.com/ventureflow/backend/internal/infrastructure/auth"
	"github.com/ventureflow/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// MockUserRepository is a mock implementation of identity.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*identity.User, error) {
	args := m.Called(ctx, tenantID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) FindIDsByRole(ctx context.Context, tenantID uuid.UUID, role identity.Role) ([]uuid.UUID, error) {
	args := m.Called(ctx, tenantID, role)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *MockUserRepository) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	args := m.Called(ctx, tenantID, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

const testPassword = "s3cretpass"

func newJWTService(maxRefresh int) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "ventureflow-test",
		MaxRefreshCount:        maxRefresh,
	})
}

func newTestUser(t *testing.T, tenantID uuid.UUID, role identity.Role) *identity.User {
	t.Helper()
	u, err := identity.NewUser(tenantID, "ana@ventureflow.test", "Ana", testPassword, role)
	require.NoError(t, err)
	return u
}

func setupAuthService(maxRefresh int) (*AuthService, *MockUserRepository, *auth.InMemoryTokenBlacklist, uuid.UUID) {
	repo := new(MockUserRepository)
	blacklist := auth.NewInMemoryTokenBlacklist()
	tenantID := uuid.New()
	svc := NewAuthService(repo, newJWTService(maxRefresh), blacklist, DefaultAuthServiceConfig(tenantID), zap.NewNop())
	return svc, repo, blacklist, tenantID
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var de *shared.DomainError
	require.True(t, errors.As(err, &de), "expected DomainError, got %v", err)
	return de.Code
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, tenantID := setupAuthService(3)
	user := newTestUser(t, tenantID, identity.RoleStaff)

	repo.On("FindByEmail", ctx, tenantID, "ana@ventureflow.test").Return(user, nil)
	repo.On("Save", ctx, user).Return(nil)

	resp, err := svc.Login(ctx, LoginRequest{Email: " ANA@ventureflow.test ", Password: testPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "staff", resp.User.Role)
	assert.Contains(t, resp.User.Permissions, "deal:update")
	assert.NotContains(t, resp.User.Permissions, "deal:delete")
	assert.NotNil(t, user.LastLoginAt)
}

func TestAuthService_Login_ExplicitTenant(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, _ := setupAuthService(3)
	other := uuid.New()
	repo.On("FindByEmail", ctx, other, "ana@ventureflow.test").Return(nil, shared.ErrNotFound)

	_, err := svc.Login(ctx, LoginRequest{Email: "ana@ventureflow.test", Password: testPassword, TenantID: other.String()})
	assert.Equal(t, "INVALID_CREDENTIALS", domainCode(t, err))
}

func TestAuthService_Login_LocksAfterFailures(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, tenantID := setupAuthService(3)
	user := newTestUser(t, tenantID, identity.RoleStaff)

	repo.On("FindByEmail", ctx, tenantID, "ana@ventureflow.test").Return(user, nil)
	repo.On("Save", ctx, user).Return(nil)

	for i := 1; i < identity.MaxLoginAttempts; i++ {
		_, err := svc.Login(ctx, LoginRequest{Email: "ana@ventureflow.test", Password: "wrong-pass1"})
		assert.Equal(t, "INVALID_CREDENTIALS", domainCode(t, err), "attempt %d", i)
	}
	_, err := svc.Login(ctx, LoginRequest{Email: "ana@ventureflow.test", Password: "wrong-pass1"})
	assert.Equal(t, "ACCOUNT_LOCKED", domainCode(t, err))
	require.NotNil(t, user.LockedUntil)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), *user.LockedUntil, 5*time.Second)

	// even the right password is refused while locked
	_, err = svc.Login(ctx, LoginRequest{Email: "ana@ventureflow.test", Password: testPassword})
	assert.Equal(t, "ACCOUNT_LOCKED", domainCode(t, err))
	repo.AssertNumberOfCalls(t, "Save", identity.MaxLoginAttempts)
}

func TestAuthService_Login_Inactive(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, tenantID := setupAuthService(3)
	user := newTestUser(t, tenantID, identity.RoleStaff)
	require.NoError(t, user.Update("Ana", identity.RoleStaff, identity.UserStatusInactive))
	repo.On("FindByEmail", ctx, tenantID, "ana@ventureflow.test").Return(user, nil)

	_, err := svc.Login(ctx, LoginRequest{Email: "ana@ventureflow.test", Password: testPassword})
	assert.Equal(t, "ACCOUNT_INACTIVE", domainCode(t, err))
}

func TestAuthService_Login_RepositoryError(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, tenantID := setupAuthService(3)
	repo.On("FindByEmail", ctx, tenantID, "ana@ventureflow.test").Return(nil, errors.New("connection reset"))

	_, err := svc.Login(ctx, LoginRequest{Email: "ana@ventureflow.test", Password: testPassword})
	assert.EqualError(t, err, "connection reset")
}

func TestAuthService_Refresh(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, tenantID := setupAuthService(1)
	user := newTestUser(t, tenantID, identity.RoleStaff)
	repo.On("FindByEmail", ctx, tenantID, "ana@ventureflow.test").Return(user, nil)
	repo.On("Save", ctx, user).Return(nil)
	repo.On("FindByID", ctx, tenantID, user.ID).Return(user, nil)

	login, err := svc.Login(ctx, LoginRequest{Email: "ana@ventureflow.test", Password: testPassword})
	require.NoError(t, err)

	// promoted after login; the refreshed pair carries the new role
	require.NoError(t, user.Update("Ana", identity.RoleAdmin, identity.UserStatusActive))
	pair, err := svc.Refresh(ctx, RefreshRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	claims, err := newJWTService(1).ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, identity.RoleAdmin, claims.Role)

	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: pair.RefreshToken})
	assert.Equal(t, "TOKEN_MAX_REFRESH", domainCode(t, err))

	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: login.AccessToken})
	assert.Equal(t, "TOKEN_INVALID", domainCode(t, err))
}

func TestAuthService_Refresh_DeactivatedUser(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, tenantID := setupAuthService(3)
	user := newTestUser(t, tenantID, identity.RoleStaff)
	pair, err := newJWTService(3).GenerateTokenPair(auth.SubjectOf(user))
	require.NoError(t, err)
	require.NoError(t, user.Update("Ana", identity.RoleStaff, identity.UserStatusInactive))
	repo.On("FindByID", ctx, tenantID, user.ID).Return(user, nil)

	_, err = svc.Refresh(ctx, RefreshRequest{RefreshToken: pair.RefreshToken})
	assert.Equal(t, "ACCOUNT_INACTIVE", domainCode(t, err))
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	svc, _, blacklist, _ := setupAuthService(3)

	require.NoError(t, svc.Logout(ctx, LogoutInput{UserID: uuid.New(), TokenJTI: "jti-1", RemainingTTL: time.Minute}))
	revoked, err := blacklist.IsBlacklisted(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, svc.Logout(ctx, LogoutInput{TokenJTI: "jti-2"}))
	revoked, err = blacklist.IsBlacklisted(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, tenantID := setupAuthService(3)
	user := newTestUser(t, tenantID, identity.RolePartner)
	repo.On("FindByID", ctx, tenantID, user.ID).Return(user, nil)
	repo.On("Save", ctx, user).Return(nil)

	err := svc.ChangePassword(ctx, tenantID, user.ID, ChangePasswordRequest{OldPassword: "nope", NewPassword: "newpass123"})
	assert.Equal(t, "INVALID_PASSWORD", domainCode(t, err))

	require.NoError(t, svc.ChangePassword(ctx, tenantID, user.ID, ChangePasswordRequest{OldPassword: testPassword, NewPassword: "newpass123"}))
	assert.True(t, user.VerifyPassword("newpass123"))
	repo.AssertNumberOfCalls(t, "Save", 1)
}

func TestAuthService_Me(t *testing.T) {
	ctx := context.Background()
	svc, repo, _, tenantID := setupAuthService(3)
	user := newTestUser(t, tenantID, identity.RolePartner)
	repo.On("FindByID", ctx, tenantID, user.ID).Return(user, nil)

	me, err := svc.Me(ctx, tenantID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@ventureflow.test", me.Email)
	assert.Equal(t, identity.RolePartner.Permissions(), me.Permissions)
}
