package models

import "time"

// Appointment lifecycle statuses.
const (
	AppointmentStatusPending   = "PENDING"
	AppointmentStatusConfirmed = "CONFIRMED"
	AppointmentStatusCancelled = "CANCELLED"
	AppointmentStatusCompleted = "COMPLETED"
)

// Appointment is a requested meeting between a visitor and an exhibitor,
// scoped to an event. Requester contact details are denormalized at creation
// time so the record stays readable if the requester profile changes later.
type Appointment struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	EventID          uint       `gorm:"not null;index" json:"event_id"`
	Event            *Event     `gorm:"foreignKey:EventID" json:"event,omitempty"`
	RequesterID      uint       `gorm:"not null;index" json:"requester_id"`
	Requester        *User      `gorm:"foreignKey:RequesterID" json:"requester,omitempty"`
	ExhibitorID      uint       `gorm:"not null;index" json:"exhibitor_id"`
	Exhibitor        *User      `gorm:"foreignKey:ExhibitorID" json:"exhibitor,omitempty"`
	Status           string     `gorm:"size:32;not null;default:PENDING" json:"status"`
	RequestedDate    string     `gorm:"size:32" json:"requested_date"`
	RequestedTime    string     `gorm:"size:32" json:"requested_time"`
	ConfirmedDate    *string    `gorm:"size:32" json:"confirmed_date,omitempty"`
	ConfirmedTime    *string    `gorm:"size:32" json:"confirmed_time,omitempty"`
	Purpose          string     `gorm:"size:1024" json:"purpose"`
	Notes            *string    `gorm:"size:2048" json:"notes,omitempty"`
	Outcome          *string    `gorm:"size:2048" json:"outcome,omitempty"`
	CancelReason     *string    `gorm:"size:1024" json:"cancellation_reason,omitempty"`
	CancelledByID    *uint      `json:"cancelled_by,omitempty"`
	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	RequesterCompany string     `gorm:"size:255" json:"requester_company"`
	RequesterTitle   string     `gorm:"size:255" json:"requester_title"`
	RequesterPhone   string     `gorm:"size:64" json:"requester_phone"`
	RequesterEmail   string     `gorm:"size:255" json:"requester_email"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
