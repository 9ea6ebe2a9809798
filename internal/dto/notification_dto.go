package dto

import (
	"time"

	"github.com/fairhub-io/fairhub-api/internal/models"
)

// NotificationResponse serializes a notification record.
type NotificationResponse struct {
	ID        uint                   `json:"id"`
	UserID    *uint                  `json:"user_id,omitempty"`
	UserRole  string                 `json:"user_role,omitempty"`
	Type      string                 `json:"type"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Channels  []string               `json:"channels"`
	Priority  string                 `json:"priority"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	IsRead    bool                   `json:"is_read"`
	CreatedAt time.Time              `json:"created_at"`
}

// NotificationListResponse wraps a paginated notification listing.
type NotificationListResponse struct {
	Items       []NotificationResponse `json:"items"`
	UnreadCount int64                  `json:"unread_count"`
	Pagination  PaginationMeta         `json:"pagination"`
}

// NewNotificationResponse maps a notification model to its response shape.
func NewNotificationResponse(notification models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        notification.ID,
		UserID:    notification.UserID,
		UserRole:  notification.UserRole,
		Type:      notification.Type,
		Title:     notification.Title,
		Message:   notification.Message,
		Channels:  notification.Channels,
		Priority:  notification.Priority,
		Metadata:  notification.Metadata,
		IsRead:    notification.IsRead,
		CreatedAt: notification.CreatedAt,
	}
}

// NewNotificationResponseSlice maps a slice of notification models.
func NewNotificationResponseSlice(notifications []models.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		responses = append(responses, NewNotificationResponse(notification))
	}
	return responses
}
