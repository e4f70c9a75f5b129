package model

import (
	"time"

	"github.com/google/uuid"
)

// Outlet is a shop or branch that holds stock and records sales.
type Outlet struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(200);not null" json:"name"`
	ManagerID uuid.UUID `gorm:"type:uuid;not null;index" json:"manager_id"`
	Manager   *User     `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	Contact   string    `gorm:"type:varchar(50);not null" json:"contact"`
	Status    string    `gorm:"type:varchar(20);not null;default:'Active'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
