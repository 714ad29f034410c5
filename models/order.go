package models

import (
	"time"

	"gorm.io/gorm"
)

// Order statuses as used by the sales/production pipeline. The scheduler
// only ever considers orders in OrderStatusWorking.
const (
	OrderStatusPending   = "pending"
	OrderStatusWorking   = "working"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order represents one unit of customer work (a sale order that has been
// converted into a work order)
type Order struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Code         string         `gorm:"uniqueIndex;not null" json:"code"` // human-readable code, e.g. "ALM-2024-0042"
	CustomerName string         `gorm:"not null" json:"customer_name"`
	Address      string         `json:"address"`
	Status       string         `gorm:"not null;default:'pending';index" json:"status"` // pending, working, completed, cancelled
	WorkTypes    []string       `gorm:"serializer:json" json:"work_types"`              // e.g. ["kitchen", "counter"]
	Details      []OrderDetail  `gorm:"foreignKey:OrderID" json:"details"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// IsWorking reports whether the order is visible to the scheduler
func (o *Order) IsWorking() bool {
	return o.Status == OrderStatusWorking
}
