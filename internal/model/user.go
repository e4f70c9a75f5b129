package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is an account that can sign in to the back office.
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserName  string         `gorm:"type:varchar(100);uniqueIndex;not null" json:"user_name"`
	FullName  string         `gorm:"type:varchar(200);not null" json:"full_name"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password  string         `gorm:"type:varchar(255);not null" json:"-"`
	RoleID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"role_id"`
	Role      *Role          `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	OutletID  *uuid.UUID     `gorm:"type:uuid;index" json:"outlet_id"`
	Contact   string         `gorm:"type:varchar(50)" json:"contact"`
	Status    string         `gorm:"type:varchar(20);not null;default:'Active'" json:"status"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// RoleName returns the name of the preloaded role, or "" when it was not loaded.
func (u *User) RoleName() string {
	if u.Role == nil {
		return ""
	}
	return u.Role.Name
}
