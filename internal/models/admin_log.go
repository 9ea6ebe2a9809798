package models

import (
	"time"

	"gorm.io/datatypes"
)

// Admin actor types recorded on audit entries.
const (
	AdminTypeSuper = "SUPER_ADMIN"
	AdminTypeSub   = "SUB_ADMIN"
)

// Audit action tags.
const (
	ActionEventApproved        = "EVENT_APPROVED"
	ActionEventRejected        = "EVENT_REJECTED"
	ActionAppointmentUpdated   = "APPOINTMENT_UPDATED"
	ActionAppointmentCancelled = "APPOINTMENT_CANCELLED"
	ActionAppointmentDeleted   = "APPOINTMENT_DELETED"
)

// AdminLog is an append-only audit record of a privileged state-changing
// action. Rows are never updated or deleted.
type AdminLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	AdminID    uint              `gorm:"not null;index" json:"admin_id"`
	AdminType  string            `gorm:"size:32;not null" json:"admin_type"`
	Action     string            `gorm:"size:64;not null;index" json:"action"`
	Resource   string            `gorm:"size:64;not null;index" json:"resource"`
	ResourceID uint              `gorm:"not null" json:"resource_id"`
	Details    datatypes.JSONMap `gorm:"type:json" json:"details"`
	IPAddress  string            `gorm:"size:64" json:"ip_address"`
	UserAgent  string            `gorm:"size:512" json:"user_agent"`
	CreatedAt  time.Time         `json:"created_at"`
}
