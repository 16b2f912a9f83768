package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/identity"
	"github.com/ventureflow/backend/internal/domain/organization"
	"github.com/ventureflow/backend/internal/domain/shared"
	"github.com/ventureflow/backend/internal/infrastructure/persistence/models"
	"github.com/ventureflow/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// applyParentFilters narrows organization lists by the uuid filters they support
func applyParentFilters(query *gorm.DB, filter shared.Filter, keys ...string) *gorm.DB {
	for _, key := range keys {
		if v, ok := filter.Filters[key].(uuid.UUID); ok {
			query = query.Where(key+" = ?", v)
		}
	}
	return query
}

// GormCompanyRepository implements organization.CompanyRepository using GORM
type GormCompanyRepository struct {
	db *gorm.DB
}

// NewGormCompanyRepository creates a new GormCompanyRepository
func NewGormCompanyRepository(db *gorm.DB) *GormCompanyRepository {
	return &GormCompanyRepository{db: db}
}

// FindByID finds a company by ID within a tenant
func (r *GormCompanyRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*organization.Company, error) {
	var model models.CompanyModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of companies and the total count
func (r *GormCompanyRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]organization.Company, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.CompanyModel{}).Scopes(tenant.Scope(tenantID))
	query = applySearch(query, filter.Search, "name", "registration_number", "email")
	query = applyActiveFilter(query, filter)
	query = applyParentFilters(query, filter, "country_id")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.CompanyModel
	query = applyOrder(query, filter, CompanySortFields, "name ASC")
	if err := applyPagination(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]organization.Company, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Save creates or updates a company
func (r *GormCompanyRepository) Save(ctx context.Context, c *organization.Company) error {
	return r.db.WithContext(ctx).Save(models.CompanyModelFromDomain(c)).Error
}

// Delete deletes a company within a tenant
func (r *GormCompanyRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteTenantRow(ctx, r.db, &models.CompanyModel{}, tenantID, id)
}

// CountDependents counts the branches and departments still attached to a company
func (r *GormCompanyRepository) CountDependents(ctx context.Context, tenantID, id uuid.UUID) (int64, error) {
	var branches, departments int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&models.BranchModel{}).Scopes(tenant.Scope(tenantID)).
		Where("company_id = ?", id).Count(&branches).Error; err != nil {
		return 0, err
	}
	if err := db.Model(&models.DepartmentModel{}).Scopes(tenant.Scope(tenantID)).
		Where("company_id = ?", id).Count(&departments).Error; err != nil {
		return 0, err
	}
	return branches + departments, nil
}

// GormBranchRepository implements organization.BranchRepository using GORM
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

// FindByID finds a branch by ID within a tenant
func (r *GormBranchRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*organization.Branch, error) {
	var model models.BranchModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of branches, optionally of one company
func (r *GormBranchRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]organization.Branch, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.BranchModel{}).Scopes(tenant.Scope(tenantID))
	query = applySearch(query, filter.Search, "name", "address")
	query = applyParentFilters(query, filter, "company_id", "country_id")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.BranchModel
	query = applyOrder(query, filter, BranchSortFields, "is_head_office DESC, name ASC")
	if err := applyPagination(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]organization.Branch, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Save creates or updates a branch
func (r *GormBranchRepository) Save(ctx context.Context, b *organization.Branch) error {
	return r.db.WithContext(ctx).Save(models.BranchModelFromDomain(b)).Error
}

// Delete deletes a branch within a tenant
func (r *GormBranchRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteTenantRow(ctx, r.db, &models.BranchModel{}, tenantID, id)
}

// GormDepartmentRepository implements organization.DepartmentRepository using GORM
type GormDepartmentRepository struct {
	db *gorm.DB
}

// NewGormDepartmentRepository creates a new GormDepartmentRepository
func NewGormDepartmentRepository(db *gorm.DB) *GormDepartmentRepository {
	return &GormDepartmentRepository{db: db}
}

// FindByID finds a department by ID within a tenant
func (r *GormDepartmentRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*organization.Department, error) {
	var model models.DepartmentModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of departments
func (r *GormDepartmentRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]organization.Department, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.DepartmentModel{}).Scopes(tenant.Scope(tenantID))
	query = applySearch(query, filter.Search, "name")
	query = applyParentFilters(query, filter, "company_id", "branch_id", "parent_id")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.DepartmentModel
	query = applyOrder(query, filter, DepartmentSortFields, "name ASC")
	if err := applyPagination(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]organization.Department, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Save creates or updates a department
func (r *GormDepartmentRepository) Save(ctx context.Context, d *organization.Department) error {
	return r.db.WithContext(ctx).Save(models.DepartmentModelFromDomain(d)).Error
}

// Delete deletes a department within a tenant
func (r *GormDepartmentRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteTenantRow(ctx, r.db, &models.DepartmentModel{}, tenantID, id)
}

// GormTeamRepository implements organization.TeamRepository using GORM
type GormTeamRepository struct {
	db *gorm.DB
}

// NewGormTeamRepository creates a new GormTeamRepository
func NewGormTeamRepository(db *gorm.DB) *GormTeamRepository {
	return &GormTeamRepository{db: db}
}

// FindByID finds a team by ID within a tenant
func (r *GormTeamRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*organization.Team, error) {
	var model models.TeamModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of teams
func (r *GormTeamRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]organization.Team, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.TeamModel{}).Scopes(tenant.Scope(tenantID))
	query = applySearch(query, filter.Search, "name")
	query = applyParentFilters(query, filter, "department_id", "lead_employee_id")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.TeamModel
	query = applyOrder(query, filter, TeamSortFields, "name ASC")
	if err := applyPagination(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]organization.Team, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// Save creates or updates a team
func (r *GormTeamRepository) Save(ctx context.Context, t *organization.Team) error {
	return r.db.WithContext(ctx).Save(models.TeamModelFromDomain(t)).Error
}

// Delete deletes a team within a tenant
func (r *GormTeamRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteTenantRow(ctx, r.db, &models.TeamModel{}, tenantID, id)
}

// GormDesignationRepository implements organization.DesignationRepository using GORM
type GormDesignationRepository struct {
	db *gorm.DB
}

// NewGormDesignationRepository creates a new GormDesignationRepository
func NewGormDesignationRepository(db *gorm.DB) *GormDesignationRepository {
	return &GormDesignationRepository{db: db}
}

// FindByID finds a designation by ID within a tenant
func (r *GormDesignationRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*organization.Designation, error) {
	var model models.DesignationModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of designations
func (r *GormDesignationRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]organization.Designation, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.DesignationModel{}).Scopes(tenant.Scope(tenantID))
	query = applySearch(query, filter.Search, "title")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.DesignationModel
	query = applyOrder(query, filter, DesignationSortFields, "level ASC, title ASC")
	if err := applyPagination(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]organization.Designation, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// ExistsByTitle reports whether another designation of the tenant has this title
func (r *GormDesignationRepository) ExistsByTitle(ctx context.Context, tenantID uuid.UUID, title string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.DesignationModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("LOWER(title) = ?", strings.ToLower(strings.TrimSpace(title)))
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// Save creates or updates a designation
func (r *GormDesignationRepository) Save(ctx context.Context, d *organization.Designation) error {
	return r.db.WithContext(ctx).Save(models.DesignationModelFromDomain(d)).Error
}

// Delete deletes a designation within a tenant
func (r *GormDesignationRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteTenantRow(ctx, r.db, &models.DesignationModel{}, tenantID, id)
}

// GormEmployeeRepository implements organization.EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByID finds an employee by ID within a tenant
func (r *GormEmployeeRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*organization.Employee, error) {
	var model models.EmployeeModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByUserID finds the employee linked to a login account
func (r *GormEmployeeRepository) FindByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*organization.Employee, error) {
	var model models.EmployeeModel
	if err := r.db.WithContext(ctx).Scopes(tenant.Scope(tenantID)).
		First(&model, "user_id = ?", userID).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll returns one page of employees
func (r *GormEmployeeRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]organization.Employee, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.EmployeeModel{}).Scopes(tenant.Scope(tenantID))
	query = applySearch(query, filter.Search, "employee_code", "first_name", "last_name", "email")
	query = applyParentFilters(query, filter, "company_id", "branch_id", "department_id", "team_id", "designation_id")
	if v, ok := filter.Filters["status"].(organization.EmployeeStatus); ok && v != "" {
		query = query.Where("status = ?", v)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.EmployeeModel
	query = applyOrder(query, filter, EmployeeSortFields, "employee_code ASC")
	if err := applyPagination(query, filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]organization.Employee, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// ExistsByCode reports whether the tenant already uses this employee code
func (r *GormEmployeeRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.EmployeeModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("employee_code = ?", strings.ToUpper(code)).
		Count(&count).Error
	return count > 0, err
}

// ExistsByEmail reports whether another employee of the tenant has this email
func (r *GormEmployeeRepository) ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.EmployeeModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email)))
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

// NextSequence returns the next number for a generated employee code
func (r *GormEmployeeRepository) NextSequence(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return nextCodeSequence(ctx, r.db, "employees", "employee_code", organization.EmployeeCodePrefix, tenantID)
}

// Save creates or updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, e *organization.Employee) error {
	return translateError(r.db.WithContext(ctx).Save(models.EmployeeModelFromDomain(e)).Error)
}

// SaveWithAccount creates the login account and the employee in one transaction
func (r *GormEmployeeRepository) SaveWithAccount(ctx context.Context, e *organization.Employee, account *identity.User) error {
	return translateError(r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.UserModelFromDomain(account)).Error; err != nil {
			return err
		}
		e.LinkUser(account.ID)
		return tx.Save(models.EmployeeModelFromDomain(e)).Error
	}))
}

// Delete removes the employee and its file folder links in one transaction
func (r *GormEmployeeRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteFolderLinks(tx, tenantID, models.OwnerEmployee, id); err != nil {
			return err
		}
		result := tx.Scopes(tenant.Scope(tenantID)).Where("id = ?", id).Delete(&models.EmployeeModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

var (
	_ organization.CompanyRepository     = (*GormCompanyRepository)(nil)
	_ organization.BranchRepository      = (*GormBranchRepository)(nil)
	_ organization.DepartmentRepository  = (*GormDepartmentRepository)(nil)
	_ organization.TeamRepository        = (*GormTeamRepository)(nil)
	_ organization.DesignationRepository = (*GormDesignationRepository)(nil)
	_ organization.EmployeeRepository    = (*GormEmployeeRepository)(nil)
)
