package models

import (
	"time"

	"gorm.io/gorm"
)

// Assignment schedules one employee on one production stage for one
// calendar day. The natural key of a calendar cell is
// (order_stage_id, work_date); every assignment sharing that pair belongs
// to the same card on the schedule, and an employee name appears at most
// once per cell.
type Assignment struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	OrderStageID uint           `gorm:"not null;index" json:"order_stage_id"`
	EmployeeName string         `gorm:"not null" json:"employee_name"` // roster name, not enforced as a foreign key
	WorkDate     time.Time      `gorm:"type:date;not null;index" json:"work_date"`
	Note         *string        `json:"note"`                                    // shared across every assignment written for one cell
	IsDone       bool           `gorm:"not null;default:false" json:"is_done"`   // toggled by the daily check-off screen
	EmployeeRate *float64       `json:"employee_rate"`                           // reserved; never written by the scheduler
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Assignment model
func (Assignment) TableName() string {
	return "order_stage_assignments"
}

// DateOnly truncates t to midnight UTC. Work dates are calendar dates with
// no time component; normalizing here keeps exact-match cell queries
// behaving the same on postgres and sqlite.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
