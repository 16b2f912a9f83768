package identity

import (
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// IsValid reports whether the status is known
func (s UserStatus) IsValid() bool {
	return s == UserStatusActive || s == UserStatusInactive
}

// Login lockout policy
const (
	MaxLoginAttempts = 5
	LockDuration     = 15 * time.Minute
)

// Password cost for bcrypt
const bcryptCost = 12

var (
	passwordLetter = regexp.MustCompile(`[a-zA-Z]`)
	passwordDigit  = regexp.MustCompile(`[0-9]`)
)

// User is a login account
type User struct {
	shared.TenantAggregateRoot
	Email          string
	Name           string
	PasswordHash   string
	Role           Role
	Status         UserStatus
	LastLoginAt    *time.Time
	FailedAttempts int
	LockedUntil    *time.Time
}

// NewUser creates an active user with a hashed password
func NewUser(tenantID uuid.UUID, email, name, password string, role Role) (*User, error) {
	v := &shared.ValidationError{}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := validateEmail(email); err != nil {
		v.Add("email", err.Error())
	}
	name = strings.TrimSpace(name)
	if name == "" {
		v.Add("name", "This field is required")
	}
	if err := validatePassword(password); err != nil {
		v.Add("password", err.Error())
	}
	if !role.IsValid() {
		v.Add("role", "Must be one of: admin, staff, partner")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	return &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Email:               email,
		Name:                name,
		PasswordHash:        passwordHash,
		Role:                role,
		Status:              UserStatusActive,
	}, nil
}

// Update changes name, role and status
func (u *User) Update(name string, role Role, status UserStatus) error {
	v := &shared.ValidationError{}
	name = strings.TrimSpace(name)
	if name == "" {
		v.Add("name", "This field is required")
	}
	if !role.IsValid() {
		v.Add("role", "Must be one of: admin, staff, partner")
	}
	if !status.IsValid() {
		v.Add("status", "Must be one of: active, inactive")
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	u.Name = name
	u.Role = role
	u.Status = status
	u.Touch()
	return nil
}

// ChangePassword changes the user's password
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password (admin reset, no old password check)
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return shared.NewValidationError("new_password", err.Error())
	}
	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = passwordHash
	u.Touch()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// RecordLoginSuccess clears the failure counter
func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.LastLoginAt = &now
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.Touch()
}

// RecordLoginFailure counts a failed attempt and locks the account once
// maxAttempts is reached. Returns true if the account is now locked.
func (u *User) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	u.FailedAttempts++
	u.Touch()
	if u.FailedAttempts >= maxAttempts {
		until := time.Now().Add(lockDuration)
		u.LockedUntil = &until
		u.FailedAttempts = 0
		return true
	}
	return false
}

// IsLocked returns true while a lockout is in effect
func (u *User) IsLocked() bool {
	return u.LockedUntil != nil && time.Now().Before(*u.LockedUntil)
}

// CanLogin returns true if user can login
func (u *User) CanLogin() bool {
	return u.Status == UserStatusActive && !u.IsLocked()
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot be empty")
	}
	if len(password) < 8 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError("INVALID_PASSWORD", "Password cannot exceed 72 characters")
	}
	if !passwordLetter.MatchString(password) || !passwordDigit.MatchString(password) {
		return shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	return nil
}

func validateEmail(email string) error {
	if email == "" {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 200 {
		return shared.NewDomainError("INVALID_EMAIL", "Email cannot exceed 200 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
