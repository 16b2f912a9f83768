package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/application/organization"
	"github.com/ventureflow/backend/internal/domain/shared"
)

// structureService is the CRUD surface shared by the organization services
type structureService[Req, Resp any] interface {
	List(ctx context.Context, tenantID uuid.UUID, q organization.ListQuery) (shared.Paginated[Resp], error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*Resp, error)
	Create(ctx context.Context, tenantID, userID uuid.UUID, req Req) (*Resp, error)
	Update(ctx context.Context, tenantID, id uuid.UUID, req Req) (*Resp, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// StructureHandler serves one organization resource
type StructureHandler[Req, Resp any] struct {
	BaseHandler
	svc structureService[Req, Resp]
}

// NewStructureHandler creates a handler over an organization service
func NewStructureHandler[Req, Resp any](svc structureService[Req, Resp]) *StructureHandler[Req, Resp] {
	return &StructureHandler[Req, Resp]{svc: svc}
}

func (h *BaseHandler) organizationQuery(c *gin.Context) (organization.ListQuery, bool) {
	q := organization.ListQuery{Search: c.Query("search"), Status: c.Query("status"), Page: queryPage(c)}
	for _, p := range []struct {
		name string
		dst  **uuid.UUID
	}{
		{"company_id", &q.CompanyID},
		{"branch_id", &q.BranchID},
		{"department_id", &q.DepartmentID},
		{"team_id", &q.TeamID},
		{"designation_id", &q.DesignationID},
	} {
		id, ok := h.queryUUID(c, p.name)
		if !ok {
			return q, false
		}
		*p.dst = id
	}
	return q, true
}

// List handles GET /
func (h *StructureHandler[Req, Resp]) List(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	q, ok := h.organizationQuery(c)
	if !ok {
		return
	}
	page, err := h.svc.List(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// Get handles GET /:id
func (h *StructureHandler[Req, Resp]) Get(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create handles POST /
func (h *StructureHandler[Req, Resp]) Create(c *gin.Context) {
	tenantID, userID, ok := h.principal(c)
	if !ok {
		return
	}
	var req Req
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Update handles PUT /:id
func (h *StructureHandler[Req, Resp]) Update(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req Req
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /:id
func (h *StructureHandler[Req, Resp]) Delete(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// EmployeeHandler adds the profile picture upload to the employee CRUD
type EmployeeHandler struct {
	*StructureHandler[organization.EmployeeRequest, organization.EmployeeResponse]
	employees *organization.EmployeeService
}

// NewEmployeeHandler creates a new EmployeeHandler
func NewEmployeeHandler(employees *organization.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{
		StructureHandler: NewStructureHandler[organization.EmployeeRequest, organization.EmployeeResponse](employees),
		employees:        employees,
	}
}

// UploadProfilePicture handles POST /employees/:id/profile-picture
func (h *EmployeeHandler) UploadProfilePicture(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	up, closer, ok := h.formFile(c, "file")
	if !ok {
		return
	}
	defer closer.Close()

	resp, err := h.employees.UploadProfilePicture(c.Request.Context(), tenantID, id, up)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
