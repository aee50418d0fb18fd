// internal/domain/order/incoming.go
package order

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/backoffice-backend/internal/config"
	"github.com/your-org/backoffice-backend/internal/domain/catalog"
	"github.com/your-org/backoffice-backend/internal/domain/inventory"
	"github.com/your-org/backoffice-backend/internal/domain/partner"
	"github.com/your-org/backoffice-backend/internal/domain/treasury"
	"github.com/your-org/backoffice-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// IncomingService handles the purchase-order workflow
type IncomingService struct {
	db     *gorm.DB
	config *config.Config
	logger *logrus.Entry
}

// NewIncomingService creates a new incoming order service
func NewIncomingService(db *gorm.DB, cfg *config.Config) *IncomingService {
	return &IncomingService{
		db:     db,
		config: cfg,
		logger: logrus.WithField("component", "incoming_orders"),
	}
}

// IncomingLineRequest represents one requested purchase order line
type IncomingLineRequest struct {
	ItemID    uint  `json:"item_id" binding:"required"`
	Quantity  int64 `json:"quantity" binding:"required"`
	UnitPrice int64 `json:"unit_price"`
}

// CreateIncomingRequest represents purchase order creation data
type CreateIncomingRequest struct {
	SupplierID uint                  `json:"supplier_id" binding:"required"`
	Notes      string                `json:"notes"`
	Items      []IncomingLineRequest `json:"items" binding:"required"`
}

// UpdateIncomingRequest edits a purchase order before completion. When Items
// is present, the order's lines are replaced wholesale and the total is
// recomputed; ledgers are untouched because nothing was booked yet.
type UpdateIncomingRequest struct {
	Notes *string               `json:"notes"`
	Items []IncomingLineRequest `json:"items"`
}

// IncomingListRequest represents purchase order list query parameters
type IncomingListRequest struct {
	Page       int         `form:"page,default=1"`
	Limit      int         `form:"limit,default=20"`
	Status     OrderStatus `form:"status"`
	SupplierID uint        `form:"supplier_id"`
	DateFrom   string      `form:"date_from"`
	DateTo     string      `form:"date_to"`
}

// IncomingListResponse represents paginated purchase orders
type IncomingListResponse struct {
	Orders     []IncomingOrder `json:"orders"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// validateLines checks line shape and resolves each item, returning the
// computed order total.
func (s *IncomingService) validateLines(db *gorm.DB, lines []IncomingLineRequest) (int64, error) {
	if len(lines) == 0 {
		return 0, apperrors.Validation("order must have at least one line item")
	}
	var total int64
	for _, line := range lines {
		if line.Quantity <= 0 {
			return 0, apperrors.Validation("line quantity must be positive")
		}
		if line.UnitPrice < 0 {
			return 0, apperrors.Validation("unit price cannot be negative")
		}
		var item catalog.Item
		if err := db.First(&item, line.ItemID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return 0, apperrors.NotFound("item", line.ItemID)
			}
			return 0, apperrors.Wrap(apperrors.KindInternal, err, "failed to load item")
		}
		if !item.IsActive {
			return 0, apperrors.Validation("item '%s' is inactive", item.Name)
		}
		total += line.Quantity * line.UnitPrice
	}
	return total, nil
}

// Create creates a purchase order. Nothing is booked against the ledgers:
// stock and cash move only when the order completes.
func (s *IncomingService) Create(req *CreateIncomingRequest, userID uint) (*IncomingOrder, error) {
	var supplier partner.Supplier
	if err := s.db.First(&supplier, req.SupplierID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("supplier", req.SupplierID)
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to load supplier")
	}
	if !supplier.IsActive {
		return nil, apperrors.Validation("supplier '%s' is inactive", supplier.Name)
	}

	totalAmount, err := s.validateLines(s.db, req.Items)
	if err != nil {
		return nil, err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	order := IncomingOrder{
		SupplierID:  req.SupplierID,
		TotalAmount: totalAmount,
		Status:      OrderStatusPending,
		Notes:       req.Notes,
		CreatedBy:   userID,
	}

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to create order")
	}

	order.OrderNumber = formatOrderNumber(s.config.Company.IncomingOrderPrefix, order.ID)
	if err := tx.Model(&order).Update("order_number", order.OrderNumber).Error; err != nil {
		tx.Rollback()
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to assign order number")
	}

	for _, line := range req.Items {
		orderItem := IncomingOrderItem{
			IncomingOrderID: order.ID,
			ItemID:          line.ItemID,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			LineTotal:       line.Quantity * line.UnitPrice,
		}
		if err := tx.Create(&orderItem).Error; err != nil {
			tx.Rollback()
			return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to create order line")
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to commit order")
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"supplier_id":  order.SupplierID,
		"total_amount": order.TotalAmount,
	}).Info("purchase order created")

	return s.Get(order.ID)
}

// Get retrieves a single purchase order with its lines
func (s *IncomingService) Get(id uint) (*IncomingOrder, error) {
	var order IncomingOrder
	if err := s.db.Preload("Items").First(&order, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("incoming order", id)
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to retrieve order")
	}
	return &order, nil
}

// List retrieves purchase orders with filtering and pagination
func (s *IncomingService) List(req *IncomingListRequest) (*IncomingListResponse, error) {
	var orders []IncomingOrder
	var total int64

	query := s.db.Model(&IncomingOrder{}).Preload("Items")
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.SupplierID > 0 {
		query = query.Where("supplier_id = ?", req.SupplierID)
	}
	if req.DateFrom != "" {
		query = query.Where("created_at >= ?", req.DateFrom)
	}
	if req.DateTo != "" {
		query = query.Where("created_at <= ?", req.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to count orders")
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(req.Limit).Find(&orders).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to retrieve orders")
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &IncomingListResponse{
		Orders:     orders,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

// Update edits a purchase order that has not completed. Line replacement is
// wholesale: old lines are deleted, new ones inserted, the total recomputed.
func (s *IncomingService) Update(id uint, req *UpdateIncomingRequest) (*IncomingOrder, error) {
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, apperrors.New(apperrors.KindInvalidTransition,
			"order %s is %s and cannot be edited", order.OrderNumber, order.Status)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if req.Notes != nil {
		if err := tx.Model(order).Update("notes", *req.Notes).Error; err != nil {
			tx.Rollback()
			return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to update order")
		}
	}

	if req.Items != nil {
		totalAmount, err := s.validateLines(tx, req.Items)
		if err != nil {
			tx.Rollback()
			return nil, err
		}

		if err := tx.Where("incoming_order_id = ?", order.ID).Delete(&IncomingOrderItem{}).Error; err != nil {
			tx.Rollback()
			return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to replace order lines")
		}
		for _, line := range req.Items {
			orderItem := IncomingOrderItem{
				IncomingOrderID: order.ID,
				ItemID:          line.ItemID,
				Quantity:        line.Quantity,
				UnitPrice:       line.UnitPrice,
				LineTotal:       line.Quantity * line.UnitPrice,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				tx.Rollback()
				return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to create order line")
			}
		}
		if err := tx.Model(order).Update("total_amount", totalAmount).Error; err != nil {
			tx.Rollback()
			return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to update order total")
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to commit order update")
	}

	return s.Get(id)
}

// UpdateStatus drives the purchase-order state machine. Completion books the
// ledgers; every other transition is a plain status update.
func (s *IncomingService) UpdateStatus(id uint, status OrderStatus, userID uint) (*IncomingOrder, error) {
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !isValidTransition(incomingTransitions, order.Status, status) {
		return nil, apperrors.InvalidTransition(string(order.Status), string(status))
	}

	if status == OrderStatusCompleted {
		if err := s.complete(order, userID); err != nil {
			return nil, err
		}
	} else {
		if err := s.db.Model(order).Update("status", status).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to update order status")
		}
	}

	return s.Get(id)
}

// complete receives the goods: one IN inventory entry per line, one OUT
// treasury entry paying the supplier, and the status flip, atomically. The
// treasury guard makes completion idempotent at the booking level; the state
// machine already blocks re-completion.
func (s *IncomingService) complete(order *IncomingOrder, userID uint) error {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	existing, err := treasury.EntryForOrder(tx, &order.ID, nil)
	if err != nil {
		tx.Rollback()
		return err
	}

	if existing == nil {
		for _, line := range order.Items {
			if _, err := inventory.Append(tx, inventory.AppendRequest{
				ItemID:          line.ItemID,
				Type:            inventory.LogTypeIn,
				Quantity:        line.Quantity,
				Provision:       fmt.Sprintf("purchase order %s", order.OrderNumber),
				CreatedBy:       userID,
				IncomingOrderID: &order.ID,
			}); err != nil {
				tx.Rollback()
				return err
			}
		}

		if order.TotalAmount > 0 {
			if _, err := treasury.Append(tx, treasury.AppendRequest{
				Type:            treasury.LogTypeOut,
				Amount:          order.TotalAmount,
				Provision:       fmt.Sprintf("purchase order %s", order.OrderNumber),
				CreatedBy:       userID,
				IncomingOrderID: &order.ID,
			}); err != nil {
				tx.Rollback()
				return err
			}
		}
	}

	if err := tx.Model(order).Update("status", OrderStatusCompleted).Error; err != nil {
		tx.Rollback()
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to update order status")
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to commit completion")
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"total_amount": order.TotalAmount,
	}).Info("purchase order completed")
	return nil
}

// Delete removes a purchase order that never booked anything. Completed
// orders have ledger history and cannot be deleted.
func (s *IncomingService) Delete(id uint) error {
	order, err := s.Get(id)
	if err != nil {
		return err
	}
	if order.Status == OrderStatusCompleted {
		return apperrors.New(apperrors.KindInvalidTransition,
			"completed order %s has ledger history and cannot be deleted", order.OrderNumber)
	}

	var logCount int64
	if err := s.db.Table("inventory_logs").Where("incoming_order_id = ?", order.ID).Count(&logCount).Error; err != nil {
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to check ledger references")
	}
	if logCount > 0 {
		return apperrors.Validation("order %s has ledger history and cannot be deleted", order.OrderNumber)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where("incoming_order_id = ?", order.ID).Delete(&IncomingOrderItem{}).Error; err != nil {
		tx.Rollback()
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to delete order lines")
	}
	if err := tx.Delete(order).Error; err != nil {
		tx.Rollback()
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to delete order")
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to commit deletion")
	}

	s.logger.WithField("order_number", order.OrderNumber).Info("purchase order deleted")
	return nil
}
