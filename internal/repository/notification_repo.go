package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fairhub-io/fairhub-api/internal/models"
)

// NotificationRepository persists notification records.
type NotificationRepository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListForRecipient(ctx context.Context, userID uint, roles []string, limit, offset int) ([]models.Notification, int64, error)
	MarkRead(ctx context.Context, id, userID uint) (models.Notification, error)
	CountUnread(ctx context.Context, userID uint, roles []string) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository constructs the notification repository.
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func recipientScope(userID uint, roles []string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(roles) > 0 {
			return db.Where("user_id = ? OR user_role IN ?", userID, roles)
		}
		return db.Where("user_id = ?", userID)
	}
}

func (r *notificationRepository) ListForRecipient(ctx context.Context, userID uint, roles []string, limit, offset int) ([]models.Notification, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Notification{}).Scopes(recipientScope(userID, roles))

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if limit > 0 {
		query = query.Limit(limit).Offset(offset)
	}

	var notifications []models.Notification
	if err := query.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, 0, err
	}

	return notifications, total, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID uint) (models.Notification, error) {
	var notification models.Notification
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&notification).Error
	if err != nil {
		return models.Notification{}, err
	}

	if !notification.IsRead {
		if err := r.db.WithContext(ctx).Model(&notification).Update("is_read", true).Error; err != nil {
			return models.Notification{}, err
		}
		notification.IsRead = true
	}

	return notification, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uint, roles []string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Scopes(recipientScope(userID, roles)).
		Where("is_read = ?", false).
		Count(&total).Error
	return total, err
}
