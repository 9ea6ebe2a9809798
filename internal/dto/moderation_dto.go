package dto

import (
	"time"

	"github.com/fairhub-io/fairhub-api/internal/models"
)

// PaginationMeta captures pagination metadata for list responses.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalItems int64 `json:"total_items"`
	TotalPages int   `json:"total_pages"`
}

// EventModerationRequest is the moderation payload for an event.
type EventModerationRequest struct {
	Action string `json:"action" validate:"required"`
	Reason string `json:"reason" validate:"omitempty,max=1024"`
}

// EventResponse serializes an event listing.
type EventResponse struct {
	ID              uint       `json:"id"`
	Title           string     `json:"title"`
	Status          string     `json:"status"`
	IsPublic        bool       `json:"is_public"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	RejectedAt      *time.Time `json:"rejected_at,omitempty"`
	RejectedByID    *uint      `json:"rejected_by_id,omitempty"`
	OrganizerID     uint       `json:"organizer_id"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// EventModerationResult wraps the moderated event and a human-readable
// outcome message.
type EventModerationResult struct {
	Event   EventResponse `json:"event"`
	Message string        `json:"-"`
}

// NewEventResponse maps an event model to its response shape.
func NewEventResponse(event models.Event) EventResponse {
	return EventResponse{
		ID:              event.ID,
		Title:           event.Title,
		Status:          event.Status,
		IsPublic:        event.IsPublic,
		RejectionReason: event.RejectionReason,
		RejectedAt:      event.RejectedAt,
		RejectedByID:    event.RejectedByID,
		OrganizerID:     event.OrganizerID,
		CreatedAt:       event.CreatedAt,
		UpdatedAt:       event.UpdatedAt,
	}
}
