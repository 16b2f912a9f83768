package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/notification"
)

// NotificationModel is the persistence model for in-app notifications
type NotificationModel struct {
	ID        uuid.UUID         `gorm:"type:uuid;primary_key"`
	TenantID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	Type      notification.Type `gorm:"type:varchar(50);not null"`
	Title     string            `gorm:"type:varchar(255);not null"`
	Message   string            `gorm:"type:text"`
	Data      string            `gorm:"type:jsonb"`
	ReadAt    *time.Time        `gorm:"index"`
	CreatedAt time.Time         `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (NotificationModel) TableName() string {
	return "notifications"
}

// ToDomain converts the model to a domain Notification
func (m *NotificationModel) ToDomain() *notification.Notification {
	data := map[string]any{}
	if m.Data != "" {
		_ = json.Unmarshal([]byte(m.Data), &data)
	}
	return &notification.Notification{
		ID:        m.ID,
		TenantID:  m.TenantID,
		UserID:    m.UserID,
		Type:      m.Type,
		Title:     m.Title,
		Message:   m.Message,
		Data:      data,
		ReadAt:    m.ReadAt,
		CreatedAt: m.CreatedAt,
	}
}

// NotificationModelFromDomain creates a model from a domain Notification
func NotificationModelFromDomain(n *notification.Notification) (*NotificationModel, error) {
	data, err := json.Marshal(n.Data)
	if err != nil {
		return nil, err
	}
	return &NotificationModel{
		ID:        n.ID,
		TenantID:  n.TenantID,
		UserID:    n.UserID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Data:      string(data),
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}, nil
}
