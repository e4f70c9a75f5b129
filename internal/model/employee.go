package model

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID           uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeCode string      `gorm:"type:varchar(100);uniqueIndex;not null" json:"employee_code"`
	IOT          string      `gorm:"column:iot;type:varchar(100);not null" json:"iot"`
	Name         string      `gorm:"type:varchar(200);not null" json:"name"`
	DepartmentID uuid.UUID   `gorm:"type:uuid;not null;index" json:"department_id"`
	Department   *Department `gorm:"foreignKey:DepartmentID" json:"department,omitempty"`
	OutletID     uuid.UUID   `gorm:"type:uuid;not null;index" json:"outlet_id"`
	Outlet       *Outlet     `gorm:"foreignKey:OutletID" json:"outlet,omitempty"`
	RoleID       uuid.UUID   `gorm:"type:uuid;not null;index" json:"role_id"`
	Role         *Role       `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Contact      string      `gorm:"type:varchar(50);not null" json:"contact"`
	Status       string      `gorm:"type:varchar(20);not null;default:'Active'" json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}
