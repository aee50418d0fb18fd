// internal/domain/inventory/entity.go
package inventory

import (
	"time"
)

// LogType represents the type of stock movement
type LogType string

const (
	LogTypeIn         LogType = "in"         // goods received, cancellation restock
	LogTypeOut        LogType = "out"        // sale reservation, shrinkage
	LogTypeAdjustment LogType = "adjustment" // stock set to an explicit target
)

// InventoryLog is one append-only stock movement record. Current stock is
// never stored on the item; it is the RunningStock of the latest entry.
//
// For in/out entries Quantity is the applied delta. For adjustment entries
// Quantity records the magnitude of the change actually applied
// (|target - prior stock|); the resulting stock is RunningStock itself.
type InventoryLog struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	ItemID          uint      `gorm:"not null;index:idx_inventory_logs_item_created" json:"item_id"`
	Type            LogType   `gorm:"not null;size:20" json:"type"`
	Quantity        int64     `gorm:"not null" json:"quantity"`
	RunningStock    int64     `gorm:"not null" json:"running_stock"`
	Provision       string    `gorm:"not null;size:255" json:"provision"`
	Note            string    `gorm:"type:text" json:"note"`
	CreatedBy       uint      `gorm:"index" json:"created_by"`
	IncomingOrderID *uint     `gorm:"index" json:"incoming_order_id"`
	OutgoingOrderID *uint     `gorm:"index" json:"outgoing_order_id"`
	CreatedAt       time.Time `gorm:"index:idx_inventory_logs_item_created" json:"created_at"`
}

// TableName overrides the table name
func (InventoryLog) TableName() string { return "inventory_logs" }
