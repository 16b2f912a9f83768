package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/masterdata"
	"github.com/ventureflow/backend/internal/domain/shared"
	"github.com/ventureflow/backend/internal/infrastructure/persistence/models"
	"github.com/ventureflow/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// applyActiveFilter handles the is_active filter shared by the master data lists
func applyActiveFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if v, ok := filter.Filters["is_active"].(bool); ok {
		query = query.Where("is_active = ?", v)
	}
	return query
}

// GormCurrencyRepository implements masterdata.CurrencyRepository using GORM
type GormCurrencyRepository struct {
	db *gorm.DB
}

// NewGormCurrencyRepository creates a new GormCurrencyRepository
func NewGormCurrencyRepository(db *gorm.DB) *GormCurrencyRepository {
	return &GormCurrencyRepository{db: db}
}

// FindByID finds a currency by ID within a tenant
func (r *GormCurrencyRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*masterdata.Currency, error) {
	var model models.CurrencyModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of currencies and the total count
func (r *GormCurrencyRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]masterdata.Currency, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CurrencyModel{}).Scopes(tenant.Scope(tenantID))
	query = applySearch(query, filter.Search, "code", "name")
	query = applyActiveFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CurrencyModel
	query = applyOrder(query, filter, CurrencySortFields, "code ASC")
	if err := applyPagination(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]masterdata.Currency, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// ExistsByCode reports whether the tenant already has a currency with this code
func (r *GormCurrencyRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CurrencyModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("code = ?", strings.ToUpper(code)).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a currency
func (r *GormCurrencyRepository) Save(ctx context.Context, c *masterdata.Currency) error {
	return r.db.WithContext(ctx).Save(models.CurrencyModelFromDomain(c)).Error
}

// Delete deletes a currency within a tenant
func (r *GormCurrencyRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteTenantRow(ctx, r.db, &models.CurrencyModel{}, tenantID, id)
}

// GormCountryRepository implements masterdata.CountryRepository using GORM
type GormCountryRepository struct {
	db *gorm.DB
}

// NewGormCountryRepository creates a new GormCountryRepository
func NewGormCountryRepository(db *gorm.DB) *GormCountryRepository {
	return &GormCountryRepository{db: db}
}

// FindByID finds a country by ID within a tenant
func (r *GormCountryRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*masterdata.Country, error) {
	var model models.CountryModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of countries and the total count
func (r *GormCountryRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]masterdata.Country, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CountryModel{}).Scopes(tenant.Scope(tenantID))
	query = applySearch(query, filter.Search, "name", "iso_code")
	query = applyActiveFilter(query, filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CountryModel
	query = applyOrder(query, filter, CountrySortFields, "name ASC")
	if err := applyPagination(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]masterdata.Country, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// ExistsByISOCode reports whether the tenant already has a country with this ISO code
func (r *GormCountryRepository) ExistsByISOCode(ctx context.Context, tenantID uuid.UUID, isoCode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CountryModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("iso_code = ?", strings.ToUpper(isoCode)).
		Count(&count).Error
	return count > 0, err
}

// Save creates or updates a country
func (r *GormCountryRepository) Save(ctx context.Context, c *masterdata.Country) error {
	return r.db.WithContext(ctx).Save(models.CountryModelFromDomain(c)).Error
}

// Delete deletes a country within a tenant
func (r *GormCountryRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteTenantRow(ctx, r.db, &models.CountryModel{}, tenantID, id)
}

// GormIndustryRepository implements masterdata.IndustryRepository using GORM
type GormIndustryRepository struct {
	db *gorm.DB
}

// NewGormIndustryRepository creates a new GormIndustryRepository
func NewGormIndustryRepository(db *gorm.DB) *GormIndustryRepository {
	return &GormIndustryRepository{db: db}
}

// FindByID finds an industry by ID within a tenant
func (r *GormIndustryRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*masterdata.Industry, error) {
	var model models.IndustryModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of industries. The parent_id filter lists sub-industries.
func (r *GormIndustryRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]masterdata.Industry, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.IndustryModel{}).Scopes(tenant.Scope(tenantID))
	query = applySearch(query, filter.Search, "name")
	query = applyActiveFilter(query, filter)
	if v, ok := filter.Filters["parent_id"].(uuid.UUID); ok {
		query = query.Where("parent_id = ?", v)
	}
	if v, ok := filter.Filters["root_only"].(bool); ok && v {
		query = query.Where("parent_id IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.IndustryModel
	query = applyOrder(query, filter, IndustrySortFields, "name ASC")
	if err := applyPagination(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]masterdata.Industry, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// FindByIDs returns the tenant's industries among ids
func (r *GormIndustryRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]masterdata.Industry, error) {
	if len(ids) == 0 {
		return []masterdata.Industry{}, nil
	}
	var rows []models.IndustryModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]masterdata.Industry, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// ExistsByName reports whether another industry of the tenant has this name
func (r *GormIndustryRepository) ExistsByName(ctx context.Context, tenantID uuid.UUID, name string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.IndustryModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// Save creates or updates an industry
func (r *GormIndustryRepository) Save(ctx context.Context, i *masterdata.Industry) error {
	return r.db.WithContext(ctx).Save(models.IndustryModelFromDomain(i)).Error
}

// Delete deletes an industry within a tenant
func (r *GormIndustryRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteTenantRow(ctx, r.db, &models.IndustryModel{}, tenantID, id)
}

var (
	_ masterdata.CurrencyRepository = (*GormCurrencyRepository)(nil)
	_ masterdata.CountryRepository  = (*GormCountryRepository)(nil)
	_ masterdata.IndustryRepository = (*GormIndustryRepository)(nil)
)
