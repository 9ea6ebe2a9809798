package dto

import (
	"time"

	"github.com/fairhub-io/fairhub-api/internal/models"
)

// AdminLogListRequest defines filters for listing audit entries.
type AdminLogListRequest struct {
	Page      int
	PageSize  int
	AdminID   uint
	AdminType string
	Action    string
	Resource  string
}

// AdminLogResponse serializes an audit entry.
type AdminLogResponse struct {
	ID         uint                   `json:"id"`
	AdminID    uint                   `json:"admin_id"`
	AdminType  string                 `json:"admin_type"`
	Action     string                 `json:"action"`
	Resource   string                 `json:"resource"`
	ResourceID uint                   `json:"resource_id"`
	Details    map[string]interface{} `json:"details"`
	IPAddress  string                 `json:"ip_address"`
	UserAgent  string                 `json:"user_agent"`
	CreatedAt  time.Time              `json:"created_at"`
}

// AdminLogListResponse wraps a paginated audit listing.
type AdminLogListResponse struct {
	Items      []AdminLogResponse `json:"items"`
	Pagination PaginationMeta     `json:"pagination"`
}

// NewAdminLogResponse maps an audit entry model to its response shape.
func NewAdminLogResponse(entry models.AdminLog) AdminLogResponse {
	return AdminLogResponse{
		ID:         entry.ID,
		AdminID:    entry.AdminID,
		AdminType:  entry.AdminType,
		Action:     entry.Action,
		Resource:   entry.Resource,
		ResourceID: entry.ResourceID,
		Details:    entry.Details,
		IPAddress:  entry.IPAddress,
		UserAgent:  entry.UserAgent,
		CreatedAt:  entry.CreatedAt,
	}
}
