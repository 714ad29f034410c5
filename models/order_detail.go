package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderDetail represents one production record for an order. In practice an
// order carries exactly one detail, but the schema allows several.
type OrderDetail struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	OrderID      uint            `gorm:"not null;index" json:"order_id"`
	AssignedTo   string          `json:"assigned_to"` // free-text assignee label, not a roster reference
	DueDate      *time.Time      `gorm:"type:date" json:"due_date"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2)" json:"price"`
	TotalCost    decimal.Decimal `gorm:"type:decimal(12,2)" json:"total_cost"`
	Notes        string          `gorm:"type:text" json:"notes"`
	ImageKeys    []string        `gorm:"serializer:json" json:"image_keys"`       // storage keys of production photos
	ProcessStage string          `json:"process_stage"`                           // rollup label mirrored for list views
	Stages       []OrderStage    `gorm:"foreignKey:OrderDetailID" json:"stages"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	DeletedAt    gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the OrderDetail model
func (OrderDetail) TableName() string {
	return "order_details"
}
