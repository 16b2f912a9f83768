package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/ventureflow/backend/internal/application/notification"
)

// NotificationHandler serves the current user's notifications
type NotificationHandler struct {
	BaseHandler
	service *notification.Service
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(service *notification.Service) *NotificationHandler {
	return &NotificationHandler{service: service}
}

// List handles GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	tenantID, userID, ok := h.principal(c)
	if !ok {
		return
	}
	var q notification.ListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	page, err := h.service.List(c.Request.Context(), tenantID, userID, q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(c, page)
}

// UnreadCount handles GET /notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	tenantID, userID, ok := h.principal(c)
	if !ok {
		return
	}
	resp, err := h.service.UnreadCount(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkRead handles PATCH /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	tenantID, userID, ok := h.principal(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	if err := h.service.MarkRead(c.Request.Context(), tenantID, userID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// MarkAllRead handles PATCH /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	tenantID, userID, ok := h.principal(c)
	if !ok {
		return
	}
	resp, err := h.service.MarkAllRead(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
