package models

import "time"

// User roles recognised by the platform.
const (
	RoleOrganizer = "ORGANIZER"
	RoleExhibitor = "EXHIBITOR"
	RoleVisitor   = "VISITOR"
	RoleSpeaker   = "SPEAKER"
)

// SuperAdmin is a platform-wide administrator. Super admins live in their own
// table, disjoint from sub admins and ordinary users.
type SuperAdmin struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SubAdmin is a delegated administrator with a restricted permission set.
type SubAdmin struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Email       string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedByID *uint     `json:"created_by_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// User is an ordinary platform account (organizer, exhibitor, visitor, speaker).
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"size:32;not null" json:"role"`
	Company   string    `gorm:"size:255" json:"company"`
	JobTitle  string    `gorm:"size:255" json:"job_title"`
	Phone     string    `gorm:"size:64" json:"phone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
