package models

import (
	"time"

	"github.com/ventureflow/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	TenantAggregateModel
	Email          string              `gorm:"type:varchar(200);not null;index"`
	Name           string              `gorm:"type:varchar(200);not null"`
	PasswordHash   string              `gorm:"type:varchar(255);not null"`
	Role           identity.Role       `gorm:"type:varchar(20);not null;index"`
	Status         identity.UserStatus `gorm:"type:varchar(20);not null;default:'active'"`
	LastLoginAt    *time.Time
	FailedAttempts int `gorm:"not null;default:0"`
	LockedUntil    *time.Time
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Email:               m.Email,
		Name:                m.Name,
		PasswordHash:        m.PasswordHash,
		Role:                m.Role,
		Status:              m.Status,
		LastLoginAt:         m.LastLoginAt,
		FailedAttempts:      m.FailedAttempts,
		LockedUntil:         m.LockedUntil,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.FromDomainTenantAggregateRoot(u.TenantAggregateRoot)
	m.Email = u.Email
	m.Name = u.Name
	m.PasswordHash = u.PasswordHash
	m.Role = u.Role
	m.Status = u.Status
	m.LastLoginAt = u.LastLoginAt
	m.FailedAttempts = u.FailedAttempts
	m.LockedUntil = u.LockedUntil
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
