package masterdata

import (
	"strings"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/shared"
)

// Industry classifies companies. A nil ParentID marks a broad industry;
// sub-industries point at their broad parent.
type Industry struct {
	shared.TenantAggregateRoot
	Name        string
	ParentID    *uuid.UUID
	Description string
	IsActive    bool
}

// NewIndustry creates an active industry
func NewIndustry(tenantID uuid.UUID, name string, parentID *uuid.UUID, description string) (*Industry, error) {
	i := &Industry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		IsActive:            true,
	}
	if err := i.apply(name, parentID, description); err != nil {
		return nil, err
	}
	return i, nil
}

// Update changes the industry's attributes
func (i *Industry) Update(name string, parentID *uuid.UUID, description string, active bool) error {
	if err := i.apply(name, parentID, description); err != nil {
		return err
	}
	i.IsActive = active
	i.Touch()
	return nil
}

func (i *Industry) apply(name string, parentID *uuid.UUID, description string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewValidationError("name", "This field is required")
	}
	if len(name) > 150 {
		return shared.NewValidationError("name", "Must be at most 150 characters")
	}
	if parentID != nil && *parentID == i.ID {
		return shared.NewValidationError("parent_id", "An industry cannot be its own parent")
	}
	i.Name = name
	i.ParentID = parentID
	i.Description = strings.TrimSpace(description)
	return nil
}
