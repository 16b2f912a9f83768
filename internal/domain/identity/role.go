package identity

import (
	"sort"
	"strings"

	"github.com/ventureflow/backend/internal/domain/shared"
)

// Role is the single role a user holds
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleStaff   Role = "staff"
	RolePartner Role = "partner"
)

// IsValid reports whether the role is known
func (r Role) IsValid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Permission represents a functional permission (resource:action pattern)
type Permission struct {
	Code     string
	Resource string
	Action   string
}

// NewPermission creates a permission value object
func NewPermission(resource, action string) Permission {
	resource = strings.ToLower(strings.TrimSpace(resource))
	action = strings.ToLower(strings.TrimSpace(action))
	return Permission{Code: resource + ":" + action, Resource: resource, Action: action}
}

// NewPermissionFromCode parses "resource:action"
func NewPermissionFromCode(code string) (Permission, error) {
	parts := strings.SplitN(code, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Permission{}, shared.NewDomainError("INVALID_PERMISSION_CODE", "Permission code must be in format 'resource:action'")
	}
	return NewPermission(parts[0], parts[1]), nil
}

// Resources guarded by permissions
const (
	ResourceBuyer        = "buyer"
	ResourceSeller       = "seller"
	ResourcePartner      = "partner"
	ResourceDeal         = "deal"
	ResourceFile         = "file"
	ResourceNotification = "notification"
	ResourceOrganization = "organization"
	ResourceMasterdata   = "masterdata"
	ResourceUser         = "user"
)

// Actions derived from HTTP methods
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

var (
	allResources = []string{
		ResourceBuyer, ResourceSeller, ResourcePartner, ResourceDeal, ResourceFile,
		ResourceNotification, ResourceOrganization, ResourceMasterdata, ResourceUser,
	}
	allActions = []string{ActionRead, ActionCreate, ActionUpdate, ActionDelete}
)

var rolePermissions = map[Role][]string{
	RoleAdmin: grant(allResources, allActions...),
	RoleStaff: append(
		grant([]string{ResourceBuyer, ResourceSeller, ResourcePartner, ResourceDeal, ResourceFile, ResourceNotification},
			ActionRead, ActionCreate, ActionUpdate),
		grant([]string{ResourceOrganization, ResourceMasterdata}, ActionRead)...,
	),
	RolePartner: grant([]string{ResourceBuyer, ResourceSeller, ResourceDeal, ResourceFile, ResourceMasterdata, ResourceNotification},
		ActionRead),
}

func grant(resources []string, actions ...string) []string {
	out := make([]string, 0, len(resources)*len(actions))
	for _, r := range resources {
		for _, a := range actions {
			out = append(out, NewPermission(r, a).Code)
		}
	}
	sort.Strings(out)
	return out
}

// Permissions returns the permission codes granted to the role
func (r Role) Permissions() []string {
	perms := rolePermissions[r]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// HasPermission checks whether the role grants the permission code
func (r Role) HasPermission(code string) bool {
	for _, p := range rolePermissions[r] {
		if p == code {
			return true
		}
	}
	return false
}

// Roles lists the catalog in display order
func Roles() []Role {
	return []Role{RoleAdmin, RoleStaff, RolePartner}
}
