package organization

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/organization"
	"github.com/ventureflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// toFilter builds the repository filter for an organization index
func toFilter(q ListQuery) shared.Filter {
	f := shared.DefaultFilter()
	f.Page = shared.NormalizePage(q.Page)
	f.Search = strings.TrimSpace(q.Search)
	f.OrderBy = ""
	setID := func(key string, id *uuid.UUID) {
		if id != nil {
			f.Filters[key] = *id
		}
	}
	setID("company_id", q.CompanyID)
	setID("branch_id", q.BranchID)
	setID("department_id", q.DepartmentID)
	setID("team_id", q.TeamID)
	setID("designation_id", q.DesignationID)
	if q.Status != "" {
		f.Filters["status"] = organization.EmployeeStatus(q.Status)
	}
	return f
}

// referenceExists turns a missing referenced record into a field error
func referenceExists(err error, field, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewValidationError(field, entity+" not found")
	}
	return err
}

// =============================================================================
// CompanyService
// =============================================================================

// CompanyService manages the brokerage's own companies
type CompanyService struct {
	repo   organization.CompanyRepository
	logger *zap.Logger
}

// NewCompanyService creates a CompanyService
func NewCompanyService(repo organization.CompanyRepository, logger *zap.Logger) *CompanyService {
	return &CompanyService{repo: repo, logger: logger}
}

// List returns one page of companies
func (s *CompanyService) List(ctx context.Context, tenantID uuid.UUID, q ListQuery) (shared.Paginated[CompanyResponse], error) {
	filter := toFilter(q)
	rows, total, err := s.repo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[CompanyResponse]{}, err
	}
	items := make([]CompanyResponse, len(rows))
	for i := range rows {
		items[i] = ToCompanyResponse(&rows[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}

// Get returns one company
func (s *CompanyService) Get(ctx context.Context, tenantID, id uuid.UUID) (*CompanyResponse, error) {
	c, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCompanyResponse(c)
	return &resp, nil
}

// Create adds a company
func (s *CompanyService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CompanyRequest) (*CompanyResponse, error) {
	c, err := organization.NewCompany(tenantID, req.profile())
	if err != nil {
		return nil, err
	}
	c.SetCreatedBy(userID)
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("company created", zap.String("tenant_id", tenantID.String()), zap.String("company_id", c.ID.String()))
	resp := ToCompanyResponse(c)
	return &resp, nil
}

// Update replaces a company profile
func (s *CompanyService) Update(ctx context.Context, tenantID, id uuid.UUID, req CompanyRequest) (*CompanyResponse, error) {
	c, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	p := req.profile()
	if req.IsActive == nil {
		p.IsActive = c.IsActive
	}
	if err := c.Update(p); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCompanyResponse(c)
	return &resp, nil
}

// Delete removes a company that no branch or department references
func (s *CompanyService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	dependents, err := s.repo.CountDependents(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if dependents > 0 {
		return shared.NewDomainError("INVALID_STATE", "Company still has branches or departments")
	}
	return s.repo.Delete(ctx, tenantID, id)
}

// =============================================================================
// BranchService
// =============================================================================

// BranchService manages company branches
type BranchService struct {
	repo      organization.BranchRepository
	companies organization.CompanyRepository
}

// NewBranchService creates a BranchService
func NewBranchService(repo organization.BranchRepository, companies organization.CompanyRepository) *BranchService {
	return &BranchService{repo: repo, companies: companies}
}

// List returns one page of branches
func (s *BranchService) List(ctx context.Context, tenantID uuid.UUID, q ListQuery) (shared.Paginated[BranchResponse], error) {
	filter := toFilter(q)
	rows, total, err := s.repo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[BranchResponse]{}, err
	}
	items := make([]BranchResponse, len(rows))
	for i := range rows {
		items[i] = ToBranchResponse(&rows[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}

// Get returns one branch
func (s *BranchService) Get(ctx context.Context, tenantID, id uuid.UUID) (*BranchResponse, error) {
	b, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToBranchResponse(b)
	return &resp, nil
}

// Create adds a branch to an existing company
func (s *BranchService) Create(ctx context.Context, tenantID, userID uuid.UUID, req BranchRequest) (*BranchResponse, error) {
	if req.CompanyID != uuid.Nil {
		_, err := s.companies.FindByID(ctx, tenantID, req.CompanyID)
		if err := referenceExists(err, "company_id", "Company"); err != nil {
			return nil, err
		}
	}
	b, err := organization.NewBranch(tenantID, req.CompanyID, req.Name)
	if err != nil {
		return nil, err
	}
	b.CountryID = req.CountryID
	b.Address = strings.TrimSpace(req.Address)
	b.Phone = strings.TrimSpace(req.Phone)
	b.IsHeadOffice = req.IsHeadOffice
	b.SetCreatedBy(userID)
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	resp := ToBranchResponse(b)
	return &resp, nil
}

// Update replaces a branch. The owning company cannot change.
func (s *BranchService) Update(ctx context.Context, tenantID, id uuid.UUID, req BranchRequest) (*BranchResponse, error) {
	b, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if req.CompanyID != uuid.Nil && req.CompanyID != b.CompanyID {
		return nil, shared.NewValidationError("company_id", "A branch cannot move to another company")
	}
	if err := b.Rename(req.Name); err != nil {
		return nil, err
	}
	b.CountryID = req.CountryID
	b.Address = strings.TrimSpace(req.Address)
	b.Phone = strings.TrimSpace(req.Phone)
	b.IsHeadOffice = req.IsHeadOffice
	b.Touch()
	if err := s.repo.Save(ctx, b); err != nil {
		return nil, err
	}
	resp := ToBranchResponse(b)
	return &resp, nil
}

// Delete removes a branch
func (s *BranchService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.Delete(ctx, tenantID, id)
}

// =============================================================================
// DepartmentService
// =============================================================================

// DepartmentService manages departments
type DepartmentService struct {
	repo      organization.DepartmentRepository
	companies organization.CompanyRepository
}

// NewDepartmentService creates a DepartmentService
func NewDepartmentService(repo organization.DepartmentRepository, companies organization.CompanyRepository) *DepartmentService {
	return &DepartmentService{repo: repo, companies: companies}
}

// List returns one page of departments
func (s *DepartmentService) List(ctx context.Context, tenantID uuid.UUID, q ListQuery) (shared.Paginated[DepartmentResponse], error) {
	filter := toFilter(q)
	rows, total, err := s.repo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[DepartmentResponse]{}, err
	}
	items := make([]DepartmentResponse, len(rows))
	for i := range rows {
		items[i] = ToDepartmentResponse(&rows[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}

// Get returns one department
func (s *DepartmentService) Get(ctx context.Context, tenantID, id uuid.UUID) (*DepartmentResponse, error) {
	d, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToDepartmentResponse(d)
	return &resp, nil
}

// Create adds a department
func (s *DepartmentService) Create(ctx context.Context, tenantID, userID uuid.UUID, req DepartmentRequest) (*DepartmentResponse, error) {
	if req.CompanyID != uuid.Nil {
		_, err := s.companies.FindByID(ctx, tenantID, req.CompanyID)
		if err := referenceExists(err, "company_id", "Company"); err != nil {
			return nil, err
		}
	}
	d, err := organization.NewDepartment(tenantID, req.CompanyID, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.place(ctx, d, req); err != nil {
		return nil, err
	}
	d.SetCreatedBy(userID)
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDepartmentResponse(d)
	return &resp, nil
}

// Update replaces a department
func (s *DepartmentService) Update(ctx context.Context, tenantID, id uuid.UUID, req DepartmentRequest) (*DepartmentResponse, error) {
	d, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if req.CompanyID != uuid.Nil && req.CompanyID != d.CompanyID {
		return nil, shared.NewValidationError("company_id", "A department cannot move to another company")
	}
	if err := d.Rename(req.Name); err != nil {
		return nil, err
	}
	if err := s.place(ctx, d, req); err != nil {
		return nil, err
	}
	d.Touch()
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDepartmentResponse(d)
	return &resp, nil
}

// place sets branch, parent and description after checking the parent
func (s *DepartmentService) place(ctx context.Context, d *organization.Department, req DepartmentRequest) error {
	if err := d.SetParent(req.ParentID); err != nil {
		return err
	}
	if req.ParentID != nil {
		_, err := s.repo.FindByID(ctx, d.TenantID, *req.ParentID)
		if err := referenceExists(err, "parent_id", "Parent department"); err != nil {
			return err
		}
	}
	d.BranchID = req.BranchID
	d.Description = strings.TrimSpace(req.Description)
	return nil
}

// Delete removes a department
func (s *DepartmentService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.Delete(ctx, tenantID, id)
}

// =============================================================================
// TeamService
// =============================================================================

// TeamService manages teams
type TeamService struct {
	repo        organization.TeamRepository
	departments organization.DepartmentRepository
}

// NewTeamService creates a TeamService
func NewTeamService(repo organization.TeamRepository, departments organization.DepartmentRepository) *TeamService {
	return &TeamService{repo: repo, departments: departments}
}

// List returns one page of teams
func (s *TeamService) List(ctx context.Context, tenantID uuid.UUID, q ListQuery) (shared.Paginated[TeamResponse], error) {
	filter := toFilter(q)
	rows, total, err := s.repo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[TeamResponse]{}, err
	}
	items := make([]TeamResponse, len(rows))
	for i := range rows {
		items[i] = ToTeamResponse(&rows[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}

// Get returns one team
func (s *TeamService) Get(ctx context.Context, tenantID, id uuid.UUID) (*TeamResponse, error) {
	t, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToTeamResponse(t)
	return &resp, nil
}

// Create adds a team to a department
func (s *TeamService) Create(ctx context.Context, tenantID, userID uuid.UUID, req TeamRequest) (*TeamResponse, error) {
	if req.DepartmentID != uuid.Nil {
		_, err := s.departments.FindByID(ctx, tenantID, req.DepartmentID)
		if err := referenceExists(err, "department_id", "Department"); err != nil {
			return nil, err
		}
	}
	t, err := organization.NewTeam(tenantID, req.DepartmentID, req.Name)
	if err != nil {
		return nil, err
	}
	t.LeadEmployeeID = req.LeadEmployeeID
	t.Description = strings.TrimSpace(req.Description)
	t.SetCreatedBy(userID)
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTeamResponse(t)
	return &resp, nil
}

// Update replaces a team. Teams may move between departments.
func (s *TeamService) Update(ctx context.Context, tenantID, id uuid.UUID, req TeamRequest) (*TeamResponse, error) {
	t, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if req.DepartmentID != uuid.Nil && req.DepartmentID != t.DepartmentID {
		_, err := s.departments.FindByID(ctx, tenantID, req.DepartmentID)
		if err := referenceExists(err, "department_id", "Department"); err != nil {
			return nil, err
		}
		t.DepartmentID = req.DepartmentID
	}
	if err := t.Rename(req.Name); err != nil {
		return nil, err
	}
	t.LeadEmployeeID = req.LeadEmployeeID
	t.Description = strings.TrimSpace(req.Description)
	t.Touch()
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	resp := ToTeamResponse(t)
	return &resp, nil
}

// Delete removes a team
func (s *TeamService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.Delete(ctx, tenantID, id)
}

// =============================================================================
// DesignationService
// =============================================================================

// DesignationService manages job titles
type DesignationService struct {
	repo organization.DesignationRepository
}

// NewDesignationService creates a DesignationService
func NewDesignationService(repo organization.DesignationRepository) *DesignationService {
	return &DesignationService{repo: repo}
}

// List returns one page of designations
func (s *DesignationService) List(ctx context.Context, tenantID uuid.UUID, q ListQuery) (shared.Paginated[DesignationResponse], error) {
	filter := toFilter(q)
	rows, total, err := s.repo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[DesignationResponse]{}, err
	}
	items := make([]DesignationResponse, len(rows))
	for i := range rows {
		items[i] = ToDesignationResponse(&rows[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}

// Get returns one designation
func (s *DesignationService) Get(ctx context.Context, tenantID, id uuid.UUID) (*DesignationResponse, error) {
	d, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToDesignationResponse(d)
	return &resp, nil
}

// Create adds a designation. Titles are unique per tenant.
func (s *DesignationService) Create(ctx context.Context, tenantID, userID uuid.UUID, req DesignationRequest) (*DesignationResponse, error) {
	d, err := organization.NewDesignation(tenantID, req.Title, req.Level, req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.checkTitle(ctx, d); err != nil {
		return nil, err
	}
	d.SetCreatedBy(userID)
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDesignationResponse(d)
	return &resp, nil
}

// Update replaces a designation
func (s *DesignationService) Update(ctx context.Context, tenantID, id uuid.UUID, req DesignationRequest) (*DesignationResponse, error) {
	d, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := d.Update(req.Title, req.Level, req.Description); err != nil {
		return nil, err
	}
	if err := s.checkTitle(ctx, d); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	resp := ToDesignationResponse(d)
	return &resp, nil
}

func (s *DesignationService) checkTitle(ctx context.Context, d *organization.Designation) error {
	exists, err := s.repo.ExistsByTitle(ctx, d.TenantID, d.Title, d.ID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Designation with this title already exists")
	}
	return nil
}

// Delete removes a designation
func (s *DesignationService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.repo.Delete(ctx, tenantID, id)
}
