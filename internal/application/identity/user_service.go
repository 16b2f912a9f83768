package identity

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/identity"
	"github.com/ventureflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// UserService handles user management operations
type UserService struct {
	userRepo identity.UserRepository
	logger   *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(userRepo identity.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{userRepo: userRepo, logger: logger}
}

// List returns one page of users
func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, q UserListQuery) (shared.Paginated[UserResponse], error) {
	filter := shared.DefaultFilter()
	filter.Page = shared.NormalizePage(q.Page)
	filter.Search = strings.TrimSpace(q.Search)
	if q.Role != "" {
		filter.Filters["role"] = identity.Role(q.Role)
	}
	if q.Status != "" {
		filter.Filters["status"] = identity.UserStatus(q.Status)
	}
	users, total, err := s.userRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[UserResponse]{}, err
	}
	items := make([]UserResponse, len(users))
	for i := range users {
		items[i] = ToUserResponse(&users[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}

// Get returns one user
func (s *UserService) Get(ctx context.Context, tenantID, id uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

// Create creates an active user
func (s *UserService) Create(ctx context.Context, tenantID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	user, err := s.create(ctx, tenantID, req)
	if err != nil {
		return nil, err
	}
	resp := ToUserResponse(user)
	return &resp, nil
}

func (s *UserService) create(ctx context.Context, tenantID uuid.UUID, req CreateUserRequest) (*identity.User, error) {
	exists, err := s.userRepo.ExistsByEmail(ctx, tenantID, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "User with this email already exists")
	}
	user, err := identity.NewUser(tenantID, req.Email, req.Name, req.Password, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", tenantID.String()),
		zap.String("role", string(user.Role)))
	return user, nil
}

// Update changes name, role and status. Admins cannot demote or
// deactivate themselves.
func (s *UserService) Update(ctx context.Context, tenantID, actorID, id uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	role, status := identity.Role(req.Role), identity.UserStatus(req.Status)
	if id == actorID && (role != user.Role || status != identity.UserStatusActive) {
		return nil, shared.NewDomainError("INVALID_STATE", "You cannot change your own role or deactivate yourself")
	}
	if err := user.Update(req.Name, role, status); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("User updated", zap.String("user_id", id.String()))
	resp := ToUserResponse(user)
	return &resp, nil
}

// Delete removes a user. Users cannot delete themselves.
func (s *UserService) Delete(ctx context.Context, tenantID, actorID, id uuid.UUID) error {
	if id == actorID {
		return shared.NewDomainError("INVALID_STATE", "You cannot delete your own account")
	}
	if _, err := s.userRepo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("User deleted", zap.String("user_id", id.String()))
	return nil
}

// BootstrapAdmin describes the first admin account
type BootstrapAdmin struct {
	TenantID uuid.UUID
	Email    string
	Name     string
	Password string
}

// EnsureBootstrapAdmin creates the admin when the tenant has no users yet.
// It reports whether an account was created.
func (s *UserService) EnsureBootstrapAdmin(ctx context.Context, b BootstrapAdmin) (bool, error) {
	if strings.TrimSpace(b.Email) == "" {
		return false, nil
	}
	count, err := s.userRepo.Count(ctx, b.TenantID)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	name := b.Name
	if strings.TrimSpace(name) == "" {
		name = "Administrator"
	}
	if _, err := s.create(ctx, b.TenantID, CreateUserRequest{
		Email:    b.Email,
		Name:     name,
		Password: b.Password,
		Role:     string(identity.RoleAdmin),
	}); err != nil {
		return false, err
	}
	s.logger.Info("Bootstrap admin created", zap.String("email", b.Email))
	return true, nil
}
