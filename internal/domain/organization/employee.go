package organization

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/shared"
)

// EmployeeStatus represents the employment status
type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "active"
	EmployeeStatusInactive EmployeeStatus = "inactive"
	EmployeeStatusOnLeave  EmployeeStatus = "on_leave"
)

// IsValid reports whether the status is known
func (s EmployeeStatus) IsValid() bool {
	switch s {
	case EmployeeStatusActive, EmployeeStatusInactive, EmployeeStatusOnLeave:
		return true
	}
	return false
}

// EmployeeCodePrefix prefixes generated employee codes
const EmployeeCodePrefix = "EMP"

// EmployeePlacement places an employee in the organization chart
type EmployeePlacement struct {
	CompanyID     *uuid.UUID
	BranchID      *uuid.UUID
	DepartmentID  *uuid.UUID
	TeamID        *uuid.UUID
	DesignationID *uuid.UUID
}

// Employee is a staff member of the brokerage. Employees act as PIC on
// buyers, sellers, partners and deals.
type Employee struct {
	shared.TenantAggregateRoot
	EmployeePlacement
	EmployeeCode   string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	UserID         *uuid.UUID
	Status         EmployeeStatus
	JoinedAt       *time.Time
	ProfilePicture string
}

// NewEmployee creates an active employee. An empty code is filled in later
// by the service from the tenant sequence.
func NewEmployee(tenantID uuid.UUID, code, firstName, lastName, email string) (*Employee, error) {
	e := &Employee{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EmployeeCode:        strings.ToUpper(strings.TrimSpace(code)),
		Status:              EmployeeStatusActive,
	}
	if err := e.apply(firstName, lastName, email); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateProfile changes names and email
func (e *Employee) UpdateProfile(firstName, lastName, email, phone string) error {
	if err := e.apply(firstName, lastName, email); err != nil {
		return err
	}
	e.Phone = strings.TrimSpace(phone)
	e.Touch()
	return nil
}

func (e *Employee) apply(firstName, lastName, email string) error {
	v := &shared.ValidationError{}
	firstName = strings.TrimSpace(firstName)
	if firstName == "" {
		v.Add("first_name", "This field is required")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		v.Add("email", "This field is required")
	} else if _, err := mail.ParseAddress(email); err != nil {
		v.Add("email", "Must be a valid email address")
	}
	if err := v.OrNil(); err != nil {
		return err
	}
	e.FirstName = firstName
	e.LastName = strings.TrimSpace(lastName)
	e.Email = email
	return nil
}

// SetStatus changes the employment status
func (e *Employee) SetStatus(status EmployeeStatus) error {
	if !status.IsValid() {
		return shared.NewValidationError("status", "Must be one of: active, inactive, on_leave")
	}
	e.Status = status
	return nil
}

// AssignCode sets the generated employee code when none was supplied
func (e *Employee) AssignCode(seq int64) {
	if e.EmployeeCode == "" {
		e.EmployeeCode = FormatCode(EmployeeCodePrefix, seq)
	}
}

// LinkUser attaches a login account
func (e *Employee) LinkUser(userID uuid.UUID) {
	e.UserID = &userID
}

// FullName returns first and last name joined
func (e *Employee) FullName() string {
	return strings.TrimSpace(e.FirstName + " " + e.LastName)
}

// FormatCode renders a sequence number as PREFIX-00001
func FormatCode(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%05d", prefix, seq)
}
