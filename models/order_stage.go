package models

import (
	"time"

	"gorm.io/gorm"
)

// StageStatus is the lifecycle status of a production stage.
type StageStatus string

const (
	StageNotStarted StageStatus = "not_started"
	StageScheduled  StageStatus = "scheduled"
	StageInProgress StageStatus = "in_progress"
	StageCompleted  StageStatus = "completed"
	StageDelayed    StageStatus = "delayed"
	StageOnHold     StageStatus = "on_hold"
)

// StageVocabulary is the fixed set of pipeline steps created for every work
// order, in pipeline order.
var StageVocabulary = []string{"cutting", "finishing", "delivery", "installing"}

// OrderStage represents one pipeline step (cutting, finishing, ...) for an
// OrderDetail. The scheduler owns exactly two status transitions: to
// "scheduled" when the first assignment is created against the stage, and
// back to "not_started" when the last assignment is removed. All other
// statuses belong to the production-tracking screens and are never
// overwritten here.
type OrderStage struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	OrderDetailID *uint          `gorm:"index" json:"order_detail_id"` // soft reference, resolved by lookup
	StageName     string         `gorm:"not null" json:"stage_name"`
	Status        StageStatus    `gorm:"not null;default:'not_started'" json:"status"`
	PlannedStart  *time.Time     `json:"planned_start"`
	PlannedFinish *time.Time     `json:"planned_finish"`
	ActualStart   *time.Time     `json:"actual_start"`
	ActualFinish  *time.Time     `json:"actual_finish"`
	Notes         string         `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the OrderStage model
func (OrderStage) TableName() string {
	return "order_stages"
}
