package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ventureflow/backend/internal/application/identity"
)

// UserHandler handles user administration
type UserHandler struct {
	BaseHandler
	userService *identity.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identity.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List handles GET /users
func (h *UserHandler) List(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	var q identity.UserListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.userService.List(c.Request.Context(), tenantID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// Get handles GET /users/:id
func (h *UserHandler) Get(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Create handles POST /users
func (h *UserHandler) Create(c *gin.Context) {
	tenantID, _, ok := h.principal(c)
	if !ok {
		return
	}
	var req identity.CreateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// Update handles PUT /users/:id
func (h *UserHandler) Update(c *gin.Context) {
	tenantID, actorID, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req identity.UpdateUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.userService.Update(c.Request.Context(), tenantID, actorID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Delete handles DELETE /users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	tenantID, actorID, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), tenantID, actorID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
