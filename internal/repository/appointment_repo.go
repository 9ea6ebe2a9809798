package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fairhub-io/fairhub-api/internal/models"
)

// AppointmentRepository persists meeting requests between visitors and
// exhibitors.
type AppointmentRepository interface {
	FindForExhibitor(ctx context.Context, id, exhibitorID uint) (models.Appointment, error)
	ApplyTransition(ctx context.Context, id uint, updates map[string]interface{}) error
	Delete(ctx context.Context, id uint) error
}

type appointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository constructs the appointment repository.
func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) FindForExhibitor(ctx context.Context, id, exhibitorID uint) (models.Appointment, error) {
	var appt models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("Requester").
		Preload("Exhibitor").
		Where("id = ? AND exhibitor_id = ?", id, exhibitorID).
		First(&appt).Error
	return appt, err
}

func (r *appointmentRepository) ApplyTransition(ctx context.Context, id uint, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&models.Appointment{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Appointment{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
