package model

import (
	"time"

	"github.com/google/uuid"
)

// Attendance is one clock-in / clock-out shift of an employee.
type Attendance struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EmployeeID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"employee_id"`
	Employee        *Employee  `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	ClockInAt       time.Time  `gorm:"not null;index" json:"clock_in_at"`
	ClockOutAt      *time.Time `json:"clock_out_at"`
	DurationSeconds int64      `gorm:"not null;default:0" json:"duration_seconds"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// Open reports whether the shift has not been clocked out yet.
func (a *Attendance) Open() bool {
	return a.ClockOutAt == nil
}
