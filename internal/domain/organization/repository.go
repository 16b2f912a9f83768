package organization

import (
	"context"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/identity"
	"github.com/ventureflow/backend/internal/domain/shared"
)

// CompanyRepository persists companies
type CompanyRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Company, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Company, int64, error)
	Save(ctx context.Context, c *Company) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	// CountDependents returns how many branches and departments still reference the company
	CountDependents(ctx context.Context, tenantID, id uuid.UUID) (int64, error)
}

// BranchRepository persists branches. FindAll honours the "company_id" filter.
type BranchRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Branch, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Branch, int64, error)
	Save(ctx context.Context, b *Branch) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// DepartmentRepository persists departments. FindAll honours "company_id" and "branch_id".
type DepartmentRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Department, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Department, int64, error)
	Save(ctx context.Context, d *Department) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// TeamRepository persists teams. FindAll honours "department_id".
type TeamRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Team, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Team, int64, error)
	Save(ctx context.Context, t *Team) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// DesignationRepository persists designations
type DesignationRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Designation, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Designation, int64, error)
	ExistsByTitle(ctx context.Context, tenantID uuid.UUID, title string, excludeID uuid.UUID) (bool, error)
	Save(ctx context.Context, d *Designation) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// EmployeeRepository persists employees
type EmployeeRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Employee, error)
	FindByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*Employee, error)
	// FindAll honours Search and the "company_id", "branch_id", "department_id",
	// "team_id", "designation_id" and "status" filters
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Employee, int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	ExistsByEmail(ctx context.Context, tenantID uuid.UUID, email string, excludeID uuid.UUID) (bool, error)
	NextSequence(ctx context.Context, tenantID uuid.UUID) (int64, error)
	Save(ctx context.Context, e *Employee) error
	// SaveWithAccount writes the login account and the employee in one transaction
	SaveWithAccount(ctx context.Context, e *Employee, account *identity.User) error
	// Delete removes the employee together with its file folder links
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
