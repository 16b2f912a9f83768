package organization

import (
	"time"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/organization"
)

// ListQuery is the query string of the organization indexes. Parent IDs
// narrow the list to children of that record.
type ListQuery struct {
	Search        string
	Page          int
	CompanyID     *uuid.UUID
	BranchID      *uuid.UUID
	DepartmentID  *uuid.UUID
	TeamID        *uuid.UUID
	DesignationID *uuid.UUID
	Status        string
}

// =============================================================================
// Company
// =============================================================================

// CompanyRequest creates or replaces a company
type CompanyRequest struct {
	Name               string     `json:"name" binding:"required,max=200"`
	RegistrationNumber string     `json:"registration_number" binding:"max=100"`
	CountryID          *uuid.UUID `json:"country_id"`
	CurrencyID         *uuid.UUID `json:"currency_id"`
	Address            string     `json:"address" binding:"max=500"`
	Website            string     `json:"website" binding:"omitempty,url,max=255"`
	Email              string     `json:"email" binding:"omitempty,email,max=200"`
	Phone              string     `json:"phone" binding:"max=50"`
	IsActive           *bool      `json:"is_active"`
}

func (r CompanyRequest) profile() organization.CompanyProfile {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return organization.CompanyProfile{
		Name:               r.Name,
		RegistrationNumber: r.RegistrationNumber,
		CountryID:          r.CountryID,
		CurrencyID:         r.CurrencyID,
		Address:            r.Address,
		Website:            r.Website,
		Email:              r.Email,
		Phone:              r.Phone,
		IsActive:           active,
	}
}

// CompanyResponse is a company in API responses
type CompanyResponse struct {
	ID                 uuid.UUID  `json:"id"`
	Name               string     `json:"name"`
	RegistrationNumber string     `json:"registration_number"`
	CountryID          *uuid.UUID `json:"country_id"`
	CurrencyID         *uuid.UUID `json:"currency_id"`
	Address            string     `json:"address"`
	Website            string     `json:"website"`
	Email              string     `json:"email"`
	Phone              string     `json:"phone"`
	IsActive           bool       `json:"is_active"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// ToCompanyResponse maps a company
func ToCompanyResponse(c *organization.Company) CompanyResponse {
	return CompanyResponse{
		ID:                 c.ID,
		Name:               c.Name,
		RegistrationNumber: c.RegistrationNumber,
		CountryID:          c.CountryID,
		CurrencyID:         c.CurrencyID,
		Address:            c.Address,
		Website:            c.Website,
		Email:              c.Email,
		Phone:              c.Phone,
		IsActive:           c.IsActive,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

// =============================================================================
// Branch
// =============================================================================

// BranchRequest creates or replaces a branch
type BranchRequest struct {
	CompanyID    uuid.UUID  `json:"company_id" binding:"required"`
	Name         string     `json:"name" binding:"required,max=200"`
	CountryID    *uuid.UUID `json:"country_id"`
	Address      string     `json:"address" binding:"max=500"`
	Phone        string     `json:"phone" binding:"max=50"`
	IsHeadOffice bool       `json:"is_head_office"`
}

// BranchResponse is a branch in API responses
type BranchResponse struct {
	ID           uuid.UUID  `json:"id"`
	CompanyID    uuid.UUID  `json:"company_id"`
	Name         string     `json:"name"`
	CountryID    *uuid.UUID `json:"country_id"`
	Address      string     `json:"address"`
	Phone        string     `json:"phone"`
	IsHeadOffice bool       `json:"is_head_office"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ToBranchResponse maps a branch
func ToBranchResponse(b *organization.Branch) BranchResponse {
	return BranchResponse{
		ID:           b.ID,
		CompanyID:    b.CompanyID,
		Name:         b.Name,
		CountryID:    b.CountryID,
		Address:      b.Address,
		Phone:        b.Phone,
		IsHeadOffice: b.IsHeadOffice,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

// =============================================================================
// Department
// =============================================================================

// DepartmentRequest creates or replaces a department
type DepartmentRequest struct {
	CompanyID   uuid.UUID  `json:"company_id" binding:"required"`
	BranchID    *uuid.UUID `json:"branch_id"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Name        string     `json:"name" binding:"required,max=200"`
	Description string     `json:"description"`
}

// DepartmentResponse is a department in API responses
type DepartmentResponse struct {
	ID          uuid.UUID  `json:"id"`
	CompanyID   uuid.UUID  `json:"company_id"`
	BranchID    *uuid.UUID `json:"branch_id"`
	ParentID    *uuid.UUID `json:"parent_id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToDepartmentResponse maps a department
func ToDepartmentResponse(d *organization.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          d.ID,
		CompanyID:   d.CompanyID,
		BranchID:    d.BranchID,
		ParentID:    d.ParentID,
		Name:        d.Name,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// =============================================================================
// Team
// =============================================================================

// TeamRequest creates or replaces a team
type TeamRequest struct {
	DepartmentID   uuid.UUID  `json:"department_id" binding:"required"`
	Name           string     `json:"name" binding:"required,max=200"`
	LeadEmployeeID *uuid.UUID `json:"lead_employee_id"`
	Description    string     `json:"description"`
}

// TeamResponse is a team in API responses
type TeamResponse struct {
	ID             uuid.UUID  `json:"id"`
	DepartmentID   uuid.UUID  `json:"department_id"`
	Name           string     `json:"name"`
	LeadEmployeeID *uuid.UUID `json:"lead_employee_id"`
	Description    string     `json:"description"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToTeamResponse maps a team
func ToTeamResponse(t *organization.Team) TeamResponse {
	return TeamResponse{
		ID:             t.ID,
		DepartmentID:   t.DepartmentID,
		Name:           t.Name,
		LeadEmployeeID: t.LeadEmployeeID,
		Description:    t.Description,
		CreatedAt:      t.CreatedAt,
		UpdatedAt:      t.UpdatedAt,
	}
}

// =============================================================================
// Designation
// =============================================================================

// DesignationRequest creates or replaces a designation
type DesignationRequest struct {
	Title       string `json:"title" binding:"required,max=150"`
	Level       int    `json:"level" binding:"min=0"`
	Description string `json:"description"`
}

// DesignationResponse is a designation in API responses
type DesignationResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Level       int       `json:"level"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToDesignationResponse maps a designation
func ToDesignationResponse(d *organization.Designation) DesignationResponse {
	return DesignationResponse{
		ID:          d.ID,
		Title:       d.Title,
		Level:       d.Level,
		Description: d.Description,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

// =============================================================================
// Employee
// =============================================================================

// EmployeeLogin requests a login account for a new employee
type EmployeeLogin struct {
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     string `json:"role" binding:"required,oneof=admin staff partner"`
}

// EmployeeRequest creates or replaces an employee
type EmployeeRequest struct {
	EmployeeCode  string         `json:"employee_code" binding:"max=50"`
	FirstName     string         `json:"first_name" binding:"required,max=100"`
	LastName      string         `json:"last_name" binding:"max=100"`
	Email         string         `json:"email" binding:"required,email,max=200"`
	Phone         string         `json:"phone" binding:"max=50"`
	CompanyID     *uuid.UUID     `json:"company_id"`
	BranchID      *uuid.UUID     `json:"branch_id"`
	DepartmentID  *uuid.UUID     `json:"department_id"`
	TeamID        *uuid.UUID     `json:"team_id"`
	DesignationID *uuid.UUID     `json:"designation_id"`
	Status        string         `json:"status" binding:"omitempty,oneof=active inactive on_leave"`
	JoinedAt      *time.Time     `json:"joined_at"`
	Login         *EmployeeLogin `json:"login"`
}

func (r EmployeeRequest) placement() organization.EmployeePlacement {
	return organization.EmployeePlacement{
		CompanyID:     r.CompanyID,
		BranchID:      r.BranchID,
		DepartmentID:  r.DepartmentID,
		TeamID:        r.TeamID,
		DesignationID: r.DesignationID,
	}
}

// EmployeeResponse is an employee in API responses
type EmployeeResponse struct {
	ID                uuid.UUID  `json:"id"`
	EmployeeCode      string     `json:"employee_code"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	FullName          string     `json:"full_name"`
	Email             string     `json:"email"`
	Phone             string     `json:"phone"`
	CompanyID         *uuid.UUID `json:"company_id"`
	BranchID          *uuid.UUID `json:"branch_id"`
	DepartmentID      *uuid.UUID `json:"department_id"`
	TeamID            *uuid.UUID `json:"team_id"`
	DesignationID     *uuid.UUID `json:"designation_id"`
	UserID            *uuid.UUID `json:"user_id"`
	Status            string     `json:"status"`
	JoinedAt          *time.Time `json:"joined_at"`
	ProfilePicture    string     `json:"profile_picture"`
	ProfilePictureURL string     `json:"profile_picture_url"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
