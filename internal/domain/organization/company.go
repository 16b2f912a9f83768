package organization

import (
	"net/mail"
	"strings"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/shared"
)

// CompanyProfile holds the mutable attributes of a company
type CompanyProfile struct {
	Name               string
	RegistrationNumber string
	CountryID          *uuid.UUID
	CurrencyID         *uuid.UUID
	Address            string
	Website            string
	Email              string
	Phone              string
	IsActive           bool
}

// Company is a legal entity of the brokerage itself
type Company struct {
	shared.TenantAggregateRoot
	CompanyProfile
}

// NewCompany creates a company
func NewCompany(tenantID uuid.UUID, p CompanyProfile) (*Company, error) {
	c := &Company{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
	if err := c.apply(p); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the company profile
func (c *Company) Update(p CompanyProfile) error {
	if err := c.apply(p); err != nil {
		return err
	}
	c.Touch()
	return nil
}

func (c *Company) apply(p CompanyProfile) error {
	v := &shared.ValidationError{}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		v.Add("name", "This field is required")
	}
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if p.Email != "" {
		if _, err := mail.ParseAddress(p.Email); err != nil {
			v.Add("email", "Must be a valid email address")
		}
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	c.CompanyProfile = p
	return nil
}

// Branch is an office of a company
type Branch struct {
	shared.TenantAggregateRoot
	CompanyID    uuid.UUID
	Name         string
	CountryID    *uuid.UUID
	Address      string
	Phone        string
	IsHeadOffice bool
}

// NewBranch creates a branch under a company
func NewBranch(tenantID, companyID uuid.UUID, name string) (*Branch, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewValidationError("company_id", "This field is required")
	}
	b := &Branch{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CompanyID:           companyID,
	}
	if err := b.Rename(name); err != nil {
		return nil, err
	}
	return b, nil
}

// Rename changes the branch name
func (b *Branch) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("name", "This field is required")
	}
	b.Name = name
	return nil
}

// Department groups employees of a company, optionally within a branch
type Department struct {
	shared.TenantAggregateRoot
	CompanyID   uuid.UUID
	BranchID    *uuid.UUID
	ParentID    *uuid.UUID
	Name        string
	Description string
}

// NewDepartment creates a department
func NewDepartment(tenantID, companyID uuid.UUID, name string) (*Department, error) {
	if companyID == uuid.Nil {
		return nil, shared.NewValidationError("company_id", "This field is required")
	}
	d := &Department{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CompanyID:           companyID,
	}
	if err := d.Rename(name); err != nil {
		return nil, err
	}
	return d, nil
}

// Rename changes the department name
func (d *Department) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("name", "This field is required")
	}
	d.Name = name
	return nil
}

// SetParent moves the department under another department
func (d *Department) SetParent(parentID *uuid.UUID) error {
	if parentID != nil && *parentID == d.ID {
		return shared.NewValidationError("parent_id", "A department cannot be its own parent")
	}
	d.ParentID = parentID
	return nil
}

// Team is a working group inside a department
type Team struct {
	shared.TenantAggregateRoot
	DepartmentID   uuid.UUID
	Name           string
	LeadEmployeeID *uuid.UUID
	Description    string
}

// NewTeam creates a team
func NewTeam(tenantID, departmentID uuid.UUID, name string) (*Team, error) {
	if departmentID == uuid.Nil {
		return nil, shared.NewValidationError("department_id", "This field is required")
	}
	t := &Team{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DepartmentID:        departmentID,
	}
	if err := t.Rename(name); err != nil {
		return nil, err
	}
	return t, nil
}

// Rename changes the team name
func (t *Team) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("name", "This field is required")
	}
	t.Name = name
	return nil
}

// Designation is a job title with a seniority level
type Designation struct {
	shared.TenantAggregateRoot
	Title       string
	Level       int
	Description string
}

// NewDesignation creates a designation
func NewDesignation(tenantID uuid.UUID, title string, level int, description string) (*Designation, error) {
	d := &Designation{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
	if err := d.Update(title, level, description); err != nil {
		return nil, err
	}
	d.Version = 1
	return d, nil
}

// Update changes title, level and description
func (d *Designation) Update(title string, level int, description string) error {
	v := &shared.ValidationError{}
	title = strings.TrimSpace(title)
	if title == "" {
		v.Add("title", "This field is required")
	}
	if level < 0 {
		v.Add("level", "Must be 0 or greater")
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	d.Title = title
	d.Level = level
	d.Description = strings.TrimSpace(description)
	d.Touch()
	return nil
}
