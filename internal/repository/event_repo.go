package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fairhub-io/fairhub-api/internal/models"
)

// EventRepository persists event listings. Moderation writes are applied as a
// single atomic column update.
type EventRepository interface {
	FindByID(ctx context.Context, id uint) (models.Event, error)
	ApplyModeration(ctx context.Context, id uint, updates map[string]interface{}) error
}

type eventRepository struct {
	db *gorm.DB
}

// NewEventRepository constructs the event repository.
func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) FindByID(ctx context.Context, id uint) (models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).Preload("Organizer").First(&event, id).Error
	return event, err
}

func (r *eventRepository) ApplyModeration(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Event{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
