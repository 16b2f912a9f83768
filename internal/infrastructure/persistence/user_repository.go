package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/identity"
	"github.com/ventureflow/backend/internal/domain/shared"
	"github.com/ventureflow/backend/internal/infrastructure/persistence/models"
	"github.com/ventureflow/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormUserRepository implements identity.UserRepository using GORM
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// FindByID finds a user by ID within a tenant
func (r *GormUserRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByEmail finds a user by login email, ignoring case
func (r *GormUserRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*identity.User, error) {
	var model models.UserModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of users
func (r *GormUserRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.UserModel{}).Scopes(tenant.Scope(tenantID))
	query = applySearch(query, filter.Search, "name", "email")
	if v, ok := filter.Filters["role"].(identity.Role); ok && v != "" {
		query = query.Where("role = ?", v)
	}
	if v, ok := filter.Filters["status"].(identity.UserStatus); ok && v != "" {
		query = query.Where("status = ?", v)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.UserModel
	query = applyOrder(query, filter, UserSortFields, "name ASC")
	if err := applyPagination(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]identity.User, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// FindIDsByRole returns the IDs of active users holding role
func (r *GormUserRepository) FindIDsByRole(ctx context.Context, tenantID uuid.UUID, role identity.Role) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("role = ? AND status = ?", role, identity.UserStatusActive).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// ExistsByEmail reports whether the login email is taken, ignoring case
func (r *GormUserRepository) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error
	return count > 0, err
}

// Count returns the number of users in the tenant
func (r *GormUserRepository) Count(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.UserModel{}).
		Scopes(tenant.Scope(tenantID)).
		Count(&count).Error
	return count, err
}

// Save creates or updates a user
func (r *GormUserRepository) Save(ctx context.Context, user *identity.User) error {
	return r.db.WithContext(ctx).Save(models.UserModelFromDomain(user)).Error
}

// Delete deletes a user within the tenant
func (r *GormUserRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteTenantRow(ctx, r.db, &models.UserModel{}, tenantID, id)
}

var _ identity.UserRepository = (*GormUserRepository)(nil)
