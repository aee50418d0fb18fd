// internal/domain/treasury/entity.go
package treasury

import (
	"time"
)

// LogType represents the type of cash movement
type LogType string

const (
	LogTypeIn         LogType = "in"         // revenue, capital injection
	LogTypeOut        LogType = "out"        // supplier payment, refund, expense
	LogTypeAdjustment LogType = "adjustment" // balance set to an explicit target
)

// TreasuryLog is one append-only cash movement record for the single global
// cash balance. Amount is always the non-negative magnitude of the change;
// for adjustments it is |target - prior balance| so the history stays
// auditable even though the semantic input is a target balance.
//
// At most one entry links to a given order, and an entry links to at most one
// of incoming/outgoing order.
type TreasuryLog struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Type            LogType   `gorm:"not null;size:20" json:"type"`
	Amount          int64     `gorm:"not null" json:"amount"` // in cents
	RunningBalance  int64     `gorm:"not null" json:"running_balance"`
	Provision       string    `gorm:"not null;size:255" json:"provision"`
	Description     string    `gorm:"type:text" json:"description"`
	CreatedBy       uint      `gorm:"index" json:"created_by"`
	IncomingOrderID *uint     `gorm:"index" json:"incoming_order_id"`
	OutgoingOrderID *uint     `gorm:"index" json:"outgoing_order_id"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
}

// TableName overrides the table name
func (TreasuryLog) TableName() string { return "treasury_logs" }
