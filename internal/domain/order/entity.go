// internal/domain/order/entity.go
package order

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IncomingOrder represents a purchase order from a supplier. Stock and cash
// effects happen only on completion (incoming goods are not trusted until
// received).
type IncomingOrder struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OrderNumber string         `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	SupplierID  uint           `gorm:"not null;index" json:"supplier_id"`
	TotalAmount int64          `gorm:"not null" json:"total_amount"` // in cents
	Status      OrderStatus    `gorm:"not null;default:'pending'" json:"status"`
	Notes       string         `gorm:"type:text" json:"notes"`
	CreatedBy   uint           `gorm:"index" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items []IncomingOrderItem `gorm:"foreignKey:IncomingOrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// IncomingOrderItem represents one line of a purchase order
type IncomingOrderItem struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	IncomingOrderID uint      `gorm:"not null;index" json:"incoming_order_id"`
	ItemID          uint      `gorm:"not null;index" json:"item_id"`
	Quantity        int64     `gorm:"not null" json:"quantity"`
	UnitPrice       int64     `gorm:"not null" json:"unit_price"` // in cents
	LineTotal       int64     `gorm:"not null" json:"line_total"` // Quantity * UnitPrice
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// OutgoingOrder represents a sales order to a customer. Stock is reserved and
// revenue booked at creation time (reserve-on-create).
type OutgoingOrder struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	OrderNumber string         `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	CustomerID  uint           `gorm:"not null;index" json:"customer_id"`
	TotalAmount int64          `gorm:"not null" json:"total_amount"`
	Discount    int64          `gorm:"default:0" json:"discount"`
	FinalAmount int64          `gorm:"not null" json:"final_amount"` // TotalAmount - Discount
	Status      OrderStatus    `gorm:"not null;default:'pending'" json:"status"`
	Notes       string         `gorm:"type:text" json:"notes"`
	CreatedBy   uint           `gorm:"index" json:"created_by"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Items []OutgoingOrderItem `gorm:"foreignKey:OutgoingOrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items"`
}

// OutgoingOrderItem represents one line of a sales order
type OutgoingOrderItem struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	OutgoingOrderID uint      `gorm:"not null;index" json:"outgoing_order_id"`
	ItemID          uint      `gorm:"not null;index" json:"item_id"`
	Quantity        int64     `gorm:"not null" json:"quantity"`
	UnitPrice       int64     `gorm:"not null" json:"unit_price"`
	LineTotal       int64     `gorm:"not null" json:"line_total"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName overrides
func (IncomingOrder) TableName() string     { return "incoming_orders" }
func (IncomingOrderItem) TableName() string { return "incoming_order_items" }
func (OutgoingOrder) TableName() string     { return "outgoing_orders" }
func (OutgoingOrderItem) TableName() string { return "outgoing_order_items" }

// IsTerminal reports whether a status allows no further plain edits
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// incomingTransitions defines the purchase-order state machine. Completed and
// cancelled are terminal.
var incomingTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusCompleted, OrderStatusCancelled},
}

// outgoingTransitions defines the sales-order state machine. A completed
// outgoing order may still be cancelled: that is the explicit reversal path.
var outgoingTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusCompleted, OrderStatusCancelled},
	OrderStatusCompleted: {OrderStatusCancelled},
}

func isValidTransition(table map[OrderStatus][]OrderStatus, from, to OrderStatus) bool {
	for _, status := range table[from] {
		if status == to {
			return true
		}
	}
	return false
}

// formatOrderNumber renders a human order number from a sequential id.
// Format: PREFIX-YYYYMMDD-XXXXX
func formatOrderNumber(prefix string, id uint) string {
	return fmt.Sprintf("%s-%s-%05d", prefix, time.Now().Format("20060102"), id)
}
