package notification

import (
	"context"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/notification"
	"github.com/ventureflow/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// Service serves the current user's inbox
type Service struct {
	repo   notification.Repository
	logger *zap.Logger
}

// NewService creates a notification Service
func NewService(repo notification.Repository, logger *zap.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// List returns one page of the user's notifications, newest first
func (s *Service) List(ctx context.Context, tenantID, userID uuid.UUID, q ListQuery) (shared.Paginated[NotificationResponse], error) {
	filter := shared.DefaultFilter()
	filter.Page = shared.NormalizePage(q.Page)
	filter.OrderBy = ""
	if q.UnreadOnly {
		filter.Filters["unread_only"] = true
	}
	rows, total, err := s.repo.FindForUser(ctx, tenantID, userID, filter)
	if err != nil {
		return shared.Paginated[NotificationResponse]{}, err
	}
	items := make([]NotificationResponse, len(rows))
	for i := range rows {
		items[i] = ToNotificationResponse(&rows[i])
	}
	return shared.NewPaginated(items, total, filter.Page, filter.Limit()), nil
}

// UnreadCount returns the number of unread notifications
func (s *Service) UnreadCount(ctx context.Context, tenantID, userID uuid.UUID) (*UnreadCountResponse, error) {
	n, err := s.repo.CountUnread(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	return &UnreadCountResponse{Count: n}, nil
}

// MarkRead marks one notification read. Another user's notification is not found.
func (s *Service) MarkRead(ctx context.Context, tenantID, userID, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, tenantID, userID, id)
}

// MarkAllRead marks every unread notification of the user read
func (s *Service) MarkAllRead(ctx context.Context, tenantID, userID uuid.UUID) (*MarkAllReadResponse, error) {
	n, err := s.repo.MarkAllRead(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		s.logger.Debug("notifications marked read",
			zap.String("user_id", userID.String()),
			zap.Int64("count", n))
	}
	return &MarkAllReadResponse{Updated: n}, nil
}
