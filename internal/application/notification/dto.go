package notification

import (
	"time"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/notification"
)

// ListQuery is the notification index query string
type ListQuery struct {
	UnreadOnly bool `form:"unread_only"`
	Page       int  `form:"page"`
}

// NotificationResponse is a notification in API responses
type NotificationResponse struct {
	ID        uuid.UUID      `json:"id"`
	Type      string         `json:"type"`
	Title     string         `json:"title"`
	Message   string         `json:"message"`
	Data      map[string]any `json:"data"`
	IsRead    bool           `json:"is_read"`
	ReadAt    *time.Time     `json:"read_at"`
	CreatedAt time.Time      `json:"created_at"`
}

// ToNotificationResponse maps a notification
func ToNotificationResponse(n *notification.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		Data:      n.Data,
		IsRead:    n.IsRead(),
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

// UnreadCountResponse carries the unread badge count
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// MarkAllReadResponse reports how many notifications were updated
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
