package dto

import (
	"time"

	"github.com/fairhub-io/fairhub-api/internal/models"
)

// AppointmentUpdateRequest is the lifecycle payload for an appointment.
type AppointmentUpdateRequest struct {
	Status        string `json:"status" validate:"required"`
	ConfirmedDate string `json:"confirmed_date" validate:"omitempty,max=32"`
	ConfirmedTime string `json:"confirmed_time" validate:"omitempty,max=32"`
	Notes         string `json:"notes" validate:"omitempty,max=2048"`
	Outcome       string `json:"outcome" validate:"omitempty,max=2048"`
	CancelReason  string `json:"cancel_reason" validate:"omitempty,max=1024"`
}

// AppointmentResponse serializes an appointment.
type AppointmentResponse struct {
	ID            uint       `json:"id"`
	EventID       uint       `json:"event_id"`
	RequesterID   uint       `json:"requester_id"`
	ExhibitorID   uint       `json:"exhibitor_id"`
	Status        string     `json:"status"`
	ConfirmedDate *string    `json:"confirmed_date,omitempty"`
	ConfirmedTime *string    `json:"confirmed_time,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	Outcome       *string    `json:"outcome,omitempty"`
	CancelReason  *string    `json:"cancellation_reason,omitempty"`
	CancelledBy   *uint      `json:"cancelled_by,omitempty"`
	CancelledAt   *time.Time `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// NewAppointmentResponse maps an appointment model to its response shape.
func NewAppointmentResponse(appt models.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:            appt.ID,
		EventID:       appt.EventID,
		RequesterID:   appt.RequesterID,
		ExhibitorID:   appt.ExhibitorID,
		Status:        appt.Status,
		ConfirmedDate: appt.ConfirmedDate,
		ConfirmedTime: appt.ConfirmedTime,
		Notes:         appt.Notes,
		Outcome:       appt.Outcome,
		CancelReason:  appt.CancelReason,
		CancelledBy:   appt.CancelledByID,
		CancelledAt:   appt.CancelledAt,
		CreatedAt:     appt.CreatedAt,
		UpdatedAt:     appt.UpdatedAt,
	}
}
