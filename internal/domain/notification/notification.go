package notification

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/shared"
)

// Type classifies notifications
type Type string

const TypeDealStageChanged Type = "deal_stage_changed"

// Notification is a message addressed to one user
type Notification struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	UserID    uuid.UUID
	Type      Type
	Title     string
	Message   string
	Data      map[string]any
	ReadAt    *time.Time
	CreatedAt time.Time
}

// New creates an unread notification
func New(tenantID, userID uuid.UUID, typ Type, title, message string, data map[string]any) (*Notification, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RECIPIENT", "Notification recipient is required")
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Notification title is required")
	}
	if data == nil {
		data = map[string]any{}
	}
	return &Notification{
		ID:        uuid.New(),
		TenantID:  tenantID,
		UserID:    userID,
		Type:      typ,
		Title:     title,
		Message:   message,
		Data:      data,
		CreatedAt: time.Now(),
	}, nil
}

// IsRead reports whether the recipient has read it
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// Repository persists notifications
type Repository interface {
	// FindForUser honours the "unread_only" filter, newest first
	FindForUser(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]Notification, int64, error)
	CountUnread(ctx context.Context, tenantID, userID uuid.UUID) (int64, error)
	SaveBatch(ctx context.Context, items []*Notification) error
	// MarkRead marks one of the user's notifications read; ErrNotFound if it is not theirs
	MarkRead(ctx context.Context, tenantID, userID, id uuid.UUID) error
	// MarkAllRead returns the number of notifications updated
	MarkAllRead(ctx context.Context, tenantID, userID uuid.UUID) (int64, error)
}
