package organization

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	filefolderapp "github.com/ventureflow/backend/internal/application/filefolder"
	"github.com/ventureflow/backend/internal/domain/filefolder"
	"github.com/ventureflow/backend/internal/domain/identity"
	"github.com/ventureflow/backend/internal/domain/organization"
	"github.com/ventureflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PictureStore stores profile pictures
type PictureStore interface {
	PutProfilePicture(ctx context.Context, tenantID uuid.UUID, ownerType filefolder.OwnerType, ownerID uuid.UUID, up filefolderapp.Upload) (string, error)
	RemoveObject(ctx context.Context, key string)
	URL(key string) string
}

// EmployeeService manages employees and their optional login accounts
type EmployeeService struct {
	repo     organization.EmployeeRepository
	users    identity.UserRepository
	pictures PictureStore
	logger   *zap.Logger
}

// NewEmployeeService creates an EmployeeService
func NewEmployeeService(repo organization.EmployeeRepository, users identity.UserRepository, pictures PictureStore, logger *zap.Logger) *EmployeeService {
	return &EmployeeService{repo: repo, users: users, pictures: pictures, logger: logger}
}

// List returns one page of employees
func (s *EmployeeService) List(ctx context.Context, tenantID uuid.UUID, q ListQuery) (shared.Paginated[EmployeeResponse], error) {
	filter := toFilter(q)
	rows, total, err := s.repo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return shared.Paginated[EmployeeResponse]{}, err
	}
	items := make([]EmployeeResponse, len(rows))
	for i := range rows {
		items[i] = s.toResponse(&rows[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}

// Get returns one employee
func (s *EmployeeService) Get(ctx context.Context, tenantID, id uuid.UUID) (*EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := s.toResponse(e)
	return &resp, nil
}

// Create adds an employee. A missing code is generated from the tenant
// sequence. When a login is requested the account is written in the same
// transaction and linked through user_id.
func (s *EmployeeService) Create(ctx context.Context, tenantID, userID uuid.UUID, req EmployeeRequest) (*EmployeeResponse, error) {
	e, err := organization.NewEmployee(tenantID, req.EmployeeCode, req.FirstName, req.LastName, req.Email)
	if err != nil {
		return nil, err
	}
	e.Phone = strings.TrimSpace(req.Phone)
	e.EmployeePlacement = req.placement()
	e.JoinedAt = req.JoinedAt
	if req.Status != "" {
		if err := e.SetStatus(organization.EmployeeStatus(req.Status)); err != nil {
			return nil, err
		}
	}

	generated := e.EmployeeCode == ""
	if !generated {
		exists, err := s.repo.ExistsByCode(ctx, tenantID, e.EmployeeCode)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Employee with this code already exists")
		}
	}
	if err := s.checkEmail(ctx, tenantID, e.Email, uuid.Nil); err != nil {
		return nil, err
	}
	e.SetCreatedBy(userID)

	var account *identity.User
	if req.Login != nil {
		if account, err = s.newAccount(ctx, tenantID, e, *req.Login); err != nil {
			return nil, err
		}
		e.LinkUser(account.ID)
	}
	attempts := 1
	if generated {
		attempts = shared.CodeAllocationAttempts
	}
	err = shared.RetryOnConflict(attempts, func() error {
		if generated {
			seq, err := s.repo.NextSequence(ctx, tenantID)
			if err != nil {
				return err
			}
			// a retry replaces the code drawn by the previous attempt
			e.EmployeeCode = ""
			e.AssignCode(seq)
		}
		if account == nil {
			return s.repo.Save(ctx, e)
		}
		return s.repo.SaveWithAccount(ctx, e, account)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("employee created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("employee_code", e.EmployeeCode),
		zap.Bool("with_login", req.Login != nil))
	resp := s.toResponse(e)
	return &resp, nil
}

func (s *EmployeeService) newAccount(ctx context.Context, tenantID uuid.UUID, e *organization.Employee, login EmployeeLogin) (*identity.User, error) {
	exists, err := s.users.ExistsByEmail(ctx, tenantID, e.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A login account with this email already exists")
	}
	account, err := identity.NewUser(tenantID, e.Email, e.FullName(), login.Password, identity.Role(login.Role))
	if err != nil {
		return nil, prefixFields(err, "login.")
	}
	return account, nil
}

// Update replaces an employee's profile, placement and status. The code
// and the login account are not changed here.
func (s *EmployeeService) Update(ctx context.Context, tenantID, id uuid.UUID, req EmployeeRequest) (*EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := e.UpdateProfile(req.FirstName, req.LastName, req.Email, req.Phone); err != nil {
		return nil, err
	}
	if err := s.checkEmail(ctx, tenantID, e.Email, e.ID); err != nil {
		return nil, err
	}
	if req.Status != "" {
		if err := e.SetStatus(organization.EmployeeStatus(req.Status)); err != nil {
			return nil, err
		}
	}
	e.EmployeePlacement = req.placement()
	e.JoinedAt = req.JoinedAt
	if err := s.repo.Save(ctx, e); err != nil {
		return nil, err
	}
	resp := s.toResponse(e)
	return &resp, nil
}

// Delete removes an employee with its file folder links
func (s *EmployeeService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	e, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.pictures.RemoveObject(ctx, e.ProfilePicture)
	return nil
}

// UploadProfilePicture stores a new picture, links it and then removes the old object
func (s *EmployeeService) UploadProfilePicture(ctx context.Context, tenantID, id uuid.UUID, up filefolderapp.Upload) (*EmployeeResponse, error) {
	e, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	key, err := s.pictures.PutProfilePicture(ctx, tenantID, filefolder.OwnerEmployee, e.ID, up)
	if err != nil {
		return nil, err
	}
	old := e.ProfilePicture
	e.ProfilePicture = key
	e.Touch()
	if err := s.repo.Save(ctx, e); err != nil {
		s.pictures.RemoveObject(ctx, key)
		return nil, err
	}
	s.pictures.RemoveObject(ctx, old)
	resp := s.toResponse(e)
	return &resp, nil
}

func (s *EmployeeService) checkEmail(ctx context.Context, tenantID uuid.UUID, email string, excludeID uuid.UUID) error {
	exists, err := s.repo.ExistsByEmail(ctx, tenantID, email, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Employee with this email already exists")
	}
	return nil
}

func (s *EmployeeService) toResponse(e *organization.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:                e.ID,
		EmployeeCode:      e.EmployeeCode,
		FirstName:         e.FirstName,
		LastName:          e.LastName,
		FullName:          e.FullName(),
		Email:             e.Email,
		Phone:             e.Phone,
		CompanyID:         e.CompanyID,
		BranchID:          e.BranchID,
		DepartmentID:      e.DepartmentID,
		TeamID:            e.TeamID,
		DesignationID:     e.DesignationID,
		UserID:            e.UserID,
		Status:            string(e.Status),
		JoinedAt:          e.JoinedAt,
		ProfilePicture:    e.ProfilePicture,
		ProfilePictureURL: s.pictures.URL(e.ProfilePicture),
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
	}
}

// prefixFields nests the field names of a validation error under prefix
func prefixFields(err error, prefix string) error {
	var verr *shared.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	out := &shared.ValidationError{}
	for _, f := range verr.Fields {
		out.Add(prefix+f.Field, f.Message)
	}
	return out
}
