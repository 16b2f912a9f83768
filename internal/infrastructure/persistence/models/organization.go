package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/organization"
)

// CompanyModel is the persistence model for companies
type CompanyModel struct {
	TenantAggregateModel
	Name               string     `gorm:"type:varchar(200);not null;index"`
	RegistrationNumber string     `gorm:"type:varchar(100)"`
	CountryID          *uuid.UUID `gorm:"type:uuid"`
	CurrencyID         *uuid.UUID `gorm:"type:uuid"`
	Address            string     `gorm:"type:text"`
	Website            string     `gorm:"type:varchar(255)"`
	Email              string     `gorm:"type:varchar(200)"`
	Phone              string     `gorm:"type:varchar(50)"`
	IsActive           bool       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// ToDomain converts the model to a domain Company
func (m *CompanyModel) ToDomain() *organization.Company {
	return &organization.Company{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		CompanyProfile: organization.CompanyProfile{
			Name:               m.Name,
			RegistrationNumber: m.RegistrationNumber,
			CountryID:          m.CountryID,
			CurrencyID:         m.CurrencyID,
			Address:            m.Address,
			Website:            m.Website,
			Email:              m.Email,
			Phone:              m.Phone,
			IsActive:           m.IsActive,
		},
	}
}

// CompanyModelFromDomain creates a model from a domain Company
func CompanyModelFromDomain(c *organization.Company) *CompanyModel {
	m := &CompanyModel{
		Name:               c.Name,
		RegistrationNumber: c.RegistrationNumber,
		CountryID:          c.CountryID,
		CurrencyID:         c.CurrencyID,
		Address:            c.Address,
		Website:            c.Website,
		Email:              c.Email,
		Phone:              c.Phone,
		IsActive:           c.IsActive,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}

// BranchModel is the persistence model for branches
type BranchModel struct {
	TenantAggregateModel
	CompanyID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name         string     `gorm:"type:varchar(200);not null"`
	CountryID    *uuid.UUID `gorm:"type:uuid"`
	Address      string     `gorm:"type:text"`
	Phone        string     `gorm:"type:varchar(50)"`
	IsHeadOffice bool       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BranchModel) TableName() string {
	return "branches"
}

// ToDomain converts the model to a domain Branch
func (m *BranchModel) ToDomain() *organization.Branch {
	return &organization.Branch{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		CompanyID:           m.CompanyID,
		Name:                m.Name,
		CountryID:           m.CountryID,
		Address:             m.Address,
		Phone:               m.Phone,
		IsHeadOffice:        m.IsHeadOffice,
	}
}

// BranchModelFromDomain creates a model from a domain Branch
func BranchModelFromDomain(b *organization.Branch) *BranchModel {
	m := &BranchModel{
		CompanyID:    b.CompanyID,
		Name:         b.Name,
		CountryID:    b.CountryID,
		Address:      b.Address,
		Phone:        b.Phone,
		IsHeadOffice: b.IsHeadOffice,
	}
	m.FromDomainTenantAggregateRoot(b.TenantAggregateRoot)
	return m
}

// DepartmentModel is the persistence model for departments
type DepartmentModel struct {
	TenantAggregateModel
	CompanyID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	BranchID    *uuid.UUID `gorm:"type:uuid;index"`
	ParentID    *uuid.UUID `gorm:"type:uuid;index"`
	Name        string     `gorm:"type:varchar(200);not null"`
	Description string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DepartmentModel) TableName() string {
	return "departments"
}

// ToDomain converts the model to a domain Department
func (m *DepartmentModel) ToDomain() *organization.Department {
	return &organization.Department{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		CompanyID:           m.CompanyID,
		BranchID:            m.BranchID,
		ParentID:            m.ParentID,
		Name:                m.Name,
		Description:         m.Description,
	}
}

// DepartmentModelFromDomain creates a model from a domain Department
func DepartmentModelFromDomain(d *organization.Department) *DepartmentModel {
	m := &DepartmentModel{
		CompanyID:   d.CompanyID,
		BranchID:    d.BranchID,
		ParentID:    d.ParentID,
		Name:        d.Name,
		Description: d.Description,
	}
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	return m
}

// TeamModel is the persistence model for teams
type TeamModel struct {
	TenantAggregateModel
	DepartmentID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Name           string     `gorm:"type:varchar(200);not null"`
	LeadEmployeeID *uuid.UUID `gorm:"type:uuid"`
	Description    string     `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (TeamModel) TableName() string {
	return "teams"
}

// ToDomain converts the model to a domain Team
func (m *TeamModel) ToDomain() *organization.Team {
	return &organization.Team{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		DepartmentID:        m.DepartmentID,
		Name:                m.Name,
		LeadEmployeeID:      m.LeadEmployeeID,
		Description:         m.Description,
	}
}

// TeamModelFromDomain creates a model from a domain Team
func TeamModelFromDomain(t *organization.Team) *TeamModel {
	m := &TeamModel{
		DepartmentID:   t.DepartmentID,
		Name:           t.Name,
		LeadEmployeeID: t.LeadEmployeeID,
		Description:    t.Description,
	}
	m.FromDomainTenantAggregateRoot(t.TenantAggregateRoot)
	return m
}

// DesignationModel is the persistence model for designations
type DesignationModel struct {
	TenantAggregateModel
	Title       string `gorm:"type:varchar(150);not null;index"`
	Level       int    `gorm:"not null"`
	Description string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (DesignationModel) TableName() string {
	return "designations"
}

// ToDomain converts the model to a domain Designation
func (m *DesignationModel) ToDomain() *organization.Designation {
	return &organization.Designation{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		Title:               m.Title,
		Level:               m.Level,
		Description:         m.Description,
	}
}

// DesignationModelFromDomain creates a model from a domain Designation
func DesignationModelFromDomain(d *organization.Designation) *DesignationModel {
	m := &DesignationModel{
		Title:       d.Title,
		Level:       d.Level,
		Description: d.Description,
	}
	m.FromDomainTenantAggregateRoot(d.TenantAggregateRoot)
	return m
}

// EmployeeModel is the persistence model for employees
type EmployeeModel struct {
	TenantAggregateModel
	EmployeeCode   string                      `gorm:"type:varchar(30);not null;index"`
	FirstName      string                      `gorm:"type:varchar(100);not null"`
	LastName       string                      `gorm:"type:varchar(100)"`
	Email          string                      `gorm:"type:varchar(200);not null;index"`
	Phone          string                      `gorm:"type:varchar(50)"`
	CompanyID      *uuid.UUID                  `gorm:"type:uuid;index"`
	BranchID       *uuid.UUID                  `gorm:"type:uuid;index"`
	DepartmentID   *uuid.UUID                  `gorm:"type:uuid;index"`
	TeamID         *uuid.UUID                  `gorm:"type:uuid;index"`
	DesignationID  *uuid.UUID                  `gorm:"type:uuid;index"`
	UserID         *uuid.UUID                  `gorm:"type:uuid;index"`
	Status         organization.EmployeeStatus `gorm:"type:varchar(20);not null"`
	JoinedAt       *time.Time
	ProfilePicture string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (EmployeeModel) TableName() string {
	return "employees"
}

// ToDomain converts the model to a domain Employee
func (m *EmployeeModel) ToDomain() *organization.Employee {
	return &organization.Employee{
		TenantAggregateRoot: m.ToTenantAggregateRoot(),
		EmployeePlacement: organization.EmployeePlacement{
			CompanyID:     m.CompanyID,
			BranchID:      m.BranchID,
			DepartmentID:  m.DepartmentID,
			TeamID:        m.TeamID,
			DesignationID: m.DesignationID,
		},
		EmployeeCode:   m.EmployeeCode,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Email:          m.Email,
		Phone:          m.Phone,
		UserID:         m.UserID,
		Status:         m.Status,
		JoinedAt:       m.JoinedAt,
		ProfilePicture: m.ProfilePicture,
	}
}

// EmployeeModelFromDomain creates a model from a domain Employee
func EmployeeModelFromDomain(e *organization.Employee) *EmployeeModel {
	m := &EmployeeModel{
		EmployeeCode:   e.EmployeeCode,
		FirstName:      e.FirstName,
		LastName:       e.LastName,
		Email:          e.Email,
		Phone:          e.Phone,
		CompanyID:      e.CompanyID,
		BranchID:       e.BranchID,
		DepartmentID:   e.DepartmentID,
		TeamID:         e.TeamID,
		DesignationID:  e.DesignationID,
		UserID:         e.UserID,
		Status:         e.Status,
		JoinedAt:       e.JoinedAt,
		ProfilePicture: e.ProfilePicture,
	}
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	return m
}
