package models

import "time"

// Event moderation statuses.
const (
	EventStatusDraft         = "DRAFT"
	EventStatusPendingReview = "PENDING_REVIEW"
	EventStatusPublished     = "PUBLISHED"
	EventStatusRejected      = "REJECTED"
)

// Event is a trade-fair listing submitted by an organizer. Moderation fields
// are mutated only through the event moderation lifecycle; the record is never
// deleted by this subsystem.
type Event struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Title           string     `gorm:"size:255;not null" json:"title"`
	Description     string     `gorm:"type:text" json:"description"`
	Venue           string     `gorm:"size:255" json:"venue"`
	StartsAt        time.Time  `json:"starts_at"`
	EndsAt          *time.Time `json:"ends_at"`
	Status          string     `gorm:"size:32;not null;default:DRAFT" json:"status"`
	IsPublic        bool       `gorm:"default:false" json:"is_public"`
	RejectionReason *string    `gorm:"size:1024" json:"rejection_reason,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectedByID    *uint      `json:"rejected_by_id,omitempty"`
	OrganizerID     uint       `gorm:"not null;index" json:"organizer_id"`
	Organizer       *User      `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
