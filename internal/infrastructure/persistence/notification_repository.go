package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ventureflow/backend/internal/domain/notification"
	"github.com/ventureflow/backend/internal/domain/shared"
	"github.com/ventureflow/backend/internal/infrastructure/persistence/models"
	"github.com/ventureflow/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.Repository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

func (r *GormNotificationRepository) forUser(ctx context.Context, tenantID, userID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.NotificationModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("user_id = ?", userID)
}

// FindForUser returns one page of the user's notifications, newest first
func (r *GormNotificationRepository) FindForUser(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]notification.Notification, int64, error) {
	query := r.forUser(ctx, tenantID, userID)
	if unread, ok := filter.Filters["unread_only"].(bool); ok && unread {
		query = query.Where("read_at IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.NotificationModel
	if err := applyPagination(query.Order("created_at DESC"), filter).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]notification.Notification, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, total, nil
}

// CountUnread counts the user's unread notifications
func (r *GormNotificationRepository) CountUnread(ctx context.Context, tenantID, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.forUser(ctx, tenantID, userID).Where("read_at IS NULL").Count(&n).Error
	return n, err
}

// SaveBatch inserts notifications in one statement
func (r *GormNotificationRepository) SaveBatch(ctx context.Context, items []*notification.Notification) error {
	if len(items) == 0 {
		return nil
	}
	rows := make([]*models.NotificationModel, 0, len(items))
	for _, n := range items {
		m, err := models.NotificationModelFromDomain(n)
		if err != nil {
			return err
		}
		rows = append(rows, m)
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// MarkRead marks one of the user's notifications read. Marking an already read
// notification keeps its first read time.
func (r *GormNotificationRepository) MarkRead(ctx context.Context, tenantID, userID, id uuid.UUID) error {
	var model models.NotificationModel
	if err := r.forUser(ctx, tenantID, userID).First(&model, "id = ?", id).Error; err != nil {
		return translateError(err)
	}
	if model.ReadAt != nil {
		return nil
	}
	return r.forUser(ctx, tenantID, userID).
		Where("id = ?", id).
		Update("read_at", time.Now()).Error
}

// MarkAllRead marks every unread notification of the user and returns how many changed
func (r *GormNotificationRepository) MarkAllRead(ctx context.Context, tenantID, userID uuid.UUID) (int64, error) {
	result := r.forUser(ctx, tenantID, userID).
		Where("read_at IS NULL").
		Update("read_at", time.Now())
	return result.RowsAffected, result.Error
}

var _ notification.Repository = (*GormNotificationRepository)(nil)
