// internal/domain/user/entity.go
package user

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role represents the coarse access level of a user
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleStaff   Role = "staff"
)

// User represents the user entity
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Email       string         `gorm:"uniqueIndex;not null;size:255" json:"email"`
	Password    string         `gorm:"not null;size:255" json:"-"` // Don't return in JSON
	FirstName   string         `gorm:"size:100" json:"first_name"`
	LastName    string         `gorm:"size:100" json:"last_name"`
	Phone       string         `gorm:"size:20" json:"phone"`
	Role        Role           `gorm:"size:20;not null;default:'staff'" json:"role"`
	Grants      string         `gorm:"size:500" json:"-"` // comma-separated extra permission keys
	IsActive    bool           `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time     `json:"last_login_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName overrides the table name for User
func (User) TableName() string {
	return "users"
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// IsAdmin reports whether the user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Permissions resolves the effective permission set: role defaults plus the
// user's extra grants, with unknown keys dropped.
func (u *User) Permissions() map[Permission]bool {
	perms := DefaultPermissions(u.Role)
	for _, key := range strings.Split(u.Grants, ",") {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if p, ok := ParsePermission(key); ok {
			perms[p] = true
		}
	}
	return perms
}

// HasPermission checks one permission against the effective set
func (u *User) HasPermission(p Permission) bool {
	return u.Permissions()[p]
}
