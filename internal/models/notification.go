package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification types, matching the triggering action.
const (
	NotificationEventApproved        = "EVENT_APPROVED"
	NotificationEventRejected        = "EVENT_REJECTED"
	NotificationAdminAction          = "ADMIN_ACTION"
	NotificationAppointmentConfirmed = "APPOINTMENT_CONFIRMED"
	NotificationAppointmentCancelled = "APPOINTMENT_CANCELLED"
	NotificationAppointmentCompleted = "APPOINTMENT_COMPLETED"
	NotificationAppointmentDeleted   = "APPOINTMENT_DELETED"
)

// Delivery channels.
const (
	ChannelPush  = "PUSH"
	ChannelEmail = "EMAIL"
)

// Priorities.
const (
	PriorityLow    = "LOW"
	PriorityMedium = "MEDIUM"
	PriorityHigh   = "HIGH"
)

// Notification targets either a concrete user (UserID) or a role audience
// (UserRole), never both. The core only creates rows; read state is flipped
// later by recipient-facing endpoints.
type Notification struct {
	ID        uint                        `gorm:"primaryKey" json:"id"`
	UserID    *uint                       `gorm:"index" json:"user_id,omitempty"`
	UserRole  string                      `gorm:"size:32;index" json:"user_role,omitempty"`
	Type      string                      `gorm:"size:64;not null;index" json:"type"`
	Title     string                      `gorm:"size:255;not null" json:"title"`
	Message   string                      `gorm:"type:text;not null" json:"message"`
	Channels  datatypes.JSONSlice[string] `gorm:"type:json" json:"channels"`
	Priority  string                      `gorm:"size:16;not null;default:MEDIUM" json:"priority"`
	Metadata  datatypes.JSONMap           `gorm:"type:json" json:"metadata"`
	IsRead    bool                        `gorm:"default:false" json:"is_read"`
	CreatedAt time.Time                   `json:"created_at"`
}
