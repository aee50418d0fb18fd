// internal/domain/order/outgoing.go
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

// OutgoingService handles the sales-order workflow
type OutgoingService struct {
	db     *gorm.DB
	config *config.Config
	logger *logrus.Entry
}

// NewOutgoingService creates a new outgoing order service
func NewOutgoingService(db *gorm.DB, cfg *config.Config) *OutgoingService {
	return &OutgoingService{
		db:     db,
		config: cfg,
		logger: logrus.WithField("component", "outgoing_orders"),
	}
}

// OutgoingLineRequest represents one requested sales order line
type OutgoingLineRequest struct {
	ItemID    uint  `json:"item_id" binding:"required"`
	Quantity  int64 `json:"quantity" binding:"required"`
	UnitPrice int64 `json:"unit_price"`
}

// CreateOutgoingRequest represents sales order creation data
type CreateOutgoingRequest struct {
	CustomerID uint                  `json:"customer_id" binding:"required"`
	Discount   int64                 `json:"discount"`
	Notes      string                `json:"notes"`
	Items      []OutgoingLineRequest `json:"items" binding:"required"`
}

// UpdateOutgoingRequest represents a plain field edit with no ledger effect
type UpdateOutgoingRequest struct {
	Notes *string `json:"notes"`
}

// OutgoingListRequest represents sales order list query parameters
type OutgoingListRequest struct {
	Page       int         `form:"page,default=1"`
	Limit      int         `form:"limit,default=20"`
	Status     OrderStatus `form:"status"`
	CustomerID uint        `form:"customer_id"`
	DateFrom   string      `form:"date_from"`
	DateTo     string      `form:"date_to"`
}

// OutgoingListResponse represents paginated sales orders
type OutgoingListResponse struct {
	Orders     []OutgoingOrder `json:"orders"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
}

// Create creates a sales order with reserve-on-create semantics: one OUT
// inventory entry per line reserves stock immediately, and revenue is booked
// with one IN treasury entry, all in a single transaction with the order rows.
func (s *OutgoingService) Create(req *CreateOutgoingRequest, userID uint) (*OutgoingOrder, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.Validation("order must have at least one line item")
	}
	for _, line := range req.Items {
		if line.Quantity <= 0 {
			return nil, apperrors.Validation("line quantity must be positive")
		}
		if line.UnitPrice < 0 {
			return nil, apperrors.Validation("unit price cannot be negative")
		}
	}
	if req.Discount < 0 {
		return nil, apperrors.Validation("discount cannot be negative")
	}

	var customer partner.Customer
	if err := s.db.First(&customer, req.CustomerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("customer", req.CustomerID)
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to load customer")
	}
	if !customer.IsActive {
		return nil, apperrors.Validation("customer '%s' is inactive", customer.Name)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	// Resolve items and check derived stock before touching anything. The
	// ledger append re-checks under a row lock inside this transaction.
	items := make([]catalog.Item, len(req.Items))
	var totalAmount int64
	for i, line := range req.Items {
		var item catalog.Item
		if err := tx.First(&item, line.ItemID).Error; err != nil {
			tx.Rollback()
			if err == gorm.ErrRecordNotFound {
				return nil, apperrors.NotFound("item", line.ItemID)
			}
			return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to load item")
		}
		if !item.IsActive {
			tx.Rollback()
			return nil, apperrors.Validation("item '%s' is inactive", item.Name)
		}

		available, err := inventory.StockOf(tx, item.ID)
		if err != nil {
			tx.Rollback()
			return nil, err
		}
		if line.Quantity > available {
			tx.Rollback()
			return nil, apperrors.InsufficientStock(item.Name, available, line.Quantity)
		}

		items[i] = item
		totalAmount += line.Quantity * line.UnitPrice
	}

	if req.Discount > totalAmount {
		tx.Rollback()
		return nil, apperrors.Validation("discount %d exceeds order total %d", req.Discount, totalAmount)
	}

	order := OutgoingOrder{
		CustomerID:  req.CustomerID,
		TotalAmount: totalAmount,
		Discount:    req.Discount,
		FinalAmount: totalAmount - req.Discount,
		Status:      OrderStatusPending,
		Notes:       req.Notes,
		CreatedBy:   userID,
	}

	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to create order")
	}

	order.OrderNumber = formatOrderNumber(s.config.Company.OutgoingOrderPrefix, order.ID)
	if err := tx.Model(&order).Update("order_number", order.OrderNumber).Error; err != nil {
		tx.Rollback()
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to assign order number")
	}

	for i, line := range req.Items {
		orderItem := OutgoingOrderItem{
			OutgoingOrderID: order.ID,
			ItemID:          line.ItemID,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			LineTotal:       line.Quantity * line.UnitPrice,
		}
		if err := tx.Create(&orderItem).Error; err != nil {
			tx.Rollback()
			return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to create order line")
		}

		// Reserve stock immediately
		_, err := inventory.Append(tx, inventory.AppendRequest{
			ItemID:          line.ItemID,
			Type:            inventory.LogTypeOut,
			Quantity:        line.Quantity,
			Provision:       fmt.Sprintf("sales order %s", order.OrderNumber),
			CreatedBy:       userID,
			OutgoingOrderID: &order.ID,
		})
		if err != nil {
			tx.Rollback()
			if apperrors.IsKind(err, apperrors.KindInsufficientStock) {
				// The ledger error already carries the figures it read under
				// the row lock; only the item name is missing.
				return nil, apperrors.Wrap(apperrors.KindInsufficientStock, err, "item '%s'", items[i].Name)
			}
			return nil, err
		}
	}

	// Revenue is booked at creation, not completion
	if order.FinalAmount > 0 {
		_, err := treasury.Append(tx, treasury.AppendRequest{
			Type:            treasury.LogTypeIn,
			Amount:          order.FinalAmount,
			Provision:       fmt.Sprintf("sales order %s", order.OrderNumber),
			CreatedBy:       userID,
			OutgoingOrderID: &order.ID,
		})
		if err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to commit order")
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": order.OrderNumber,
		"customer_id":  order.CustomerID,
		"final_amount": order.FinalAmount,
	}).Info("sales order created")

	return s.Get(order.ID)
}

// Get retrieves a single sales order with its lines
func (s *OutgoingService) Get(id uint) (*OutgoingOrder, error) {
	var order OutgoingOrder
	if err := s.db.Preload("Items").First(&order, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("outgoing order", id)
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to retrieve order")
	}
	return &order, nil
}

// List retrieves sales orders with filtering and pagination
func (s *OutgoingService) List(req *OutgoingListRequest) (*OutgoingListResponse, error) {
	var orders []OutgoingOrder
	var total int64

	query := s.db.Model(&OutgoingOrder{}).Preload("Items")
	if req.Status != "" {
		query = query.Where("status = ?", req.Status)
	}
	if req.CustomerID > 0 {
		query = query.Where("customer_id = ?", req.CustomerID)
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
	return &OutgoingListResponse{
		Orders:     orders,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

// Update applies plain field edits with no ledger effect. Terminal orders are
// immutable.
func (s *OutgoingService) Update(id uint, req *UpdateOutgoingRequest) (*OutgoingOrder, error) {
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if order.Status.IsTerminal() {
		return nil, apperrors.New(apperrors.KindInvalidTransition,
			"order %s is %s and cannot be edited", order.OrderNumber, order.Status)
	}

	if req.Notes != nil {
		if err := s.db.Model(order).Update("notes", *req.Notes).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to update order")
		}
	}
	return s.Get(id)
}

// UpdateStatus drives the sales-order state machine. Confirmation is a plain
// status update; completion is normally one too, since stock and revenue were
// booked at creation; cancellation reverses both ledgers.
func (s *OutgoingService) UpdateStatus(id uint, status OrderStatus, userID uint) (*OutgoingOrder, error) {
	order, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !isValidTransition(outgoingTransitions, order.Status, status) {
		return nil, apperrors.InvalidTransition(string(order.Status), string(status))
	}

	switch status {
	case OrderStatusCancelled:
		if err := s.cancel(order, userID); err != nil {
			return nil, err
		}
	case OrderStatusCompleted:
		if err := s.complete(order, userID); err != nil {
			return nil, err
		}
	default:
		if err := s.db.Model(order).Update("status", status).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to update order status")
		}
	}

	return s.Get(id)
}

// complete marks the order completed. Stock and revenue were already booked
// at creation; the re-booking below only fires when no treasury entry is
// linked, which creation-time booking already guarantees for priced orders.
func (s *OutgoingService) complete(order *OutgoingOrder, userID uint) error {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	existing, err := treasury.EntryForOrder(tx, nil, &order.ID)
	if err != nil {
		tx.Rollback()
		return err
	}

	if existing == nil && order.FinalAmount > 0 {
		for _, line := range order.Items {
			if _, err := inventory.Append(tx, inventory.AppendRequest{
				ItemID:          line.ItemID,
				Type:            inventory.LogTypeOut,
				Quantity:        line.Quantity,
				Provision:       fmt.Sprintf("completion of sales order %s", order.OrderNumber),
				CreatedBy:       userID,
				OutgoingOrderID: &order.ID,
			}); err != nil {
				tx.Rollback()
				return err
			}
		}
		if _, err := treasury.Append(tx, treasury.AppendRequest{
			Type:            treasury.LogTypeIn,
			Amount:          order.FinalAmount,
			Provision:       fmt.Sprintf("sales order %s", order.OrderNumber),
			CreatedBy:       userID,
			OutgoingOrderID: &order.ID,
		}); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Model(order).Update("status", OrderStatusCompleted).Error; err != nil {
		tx.Rollback()
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to update order status")
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to commit completion")
	}
	return nil
}

// cancel reverses the order's ledger effects in one transaction: an IN entry
// per line restores stock, and a linked treasury entry is detached and
// refunded. A refund the balance cannot cover aborts the cancellation.
func (s *OutgoingService) cancel(order *OutgoingOrder, userID uint) error {
	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, line := range order.Items {
		if _, err := inventory.Append(tx, inventory.AppendRequest{
			ItemID:          line.ItemID,
			Type:            inventory.LogTypeIn,
			Quantity:        line.Quantity,
			Provision:       fmt.Sprintf("cancellation of sales order %s", order.OrderNumber),
			CreatedBy:       userID,
			OutgoingOrderID: &order.ID,
		}); err != nil {
			tx.Rollback()
			return err
		}
	}

	entry, err := treasury.EntryForOrder(tx, nil, &order.ID)
	if err != nil {
		tx.Rollback()
		return err
	}
	if entry != nil {
		// Detach so the refund below can become the order's linked entry
		if err := tx.Model(entry).Update("outgoing_order_id", nil).Error; err != nil {
			tx.Rollback()
			return apperrors.Wrap(apperrors.KindInternal, err, "failed to detach treasury entry")
		}
		if entry.Amount > 0 {
			if _, err := treasury.Append(tx, treasury.AppendRequest{
				Type:            treasury.LogTypeOut,
				Amount:          entry.Amount,
				Provision:       fmt.Sprintf("refund for sales order %s", order.OrderNumber),
				CreatedBy:       userID,
				OutgoingOrderID: &order.ID,
			}); err != nil {
				tx.Rollback()
				return err
			}
		}
	}

	if err := tx.Model(order).Update("status", OrderStatusCancelled).Error; err != nil {
		tx.Rollback()
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to update order status")
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to commit cancellation")
	}

	s.logger.WithField("order_number", order.OrderNumber).Info("sales order cancelled")
	return nil
}

// Delete removes a pending sales order entirely: stock reserved at creation
// is restored, the linked treasury entry row is deleted, then the lines and
// the order itself.
func (s *OutgoingService) Delete(id uint, userID uint) error {
	order, err := s.Get(id)
	if err != nil {
		return err
	}
	if order.Status != OrderStatusPending {
		return apperrors.New(apperrors.KindInvalidTransition,
			"only pending orders can be deleted; order %s is %s", order.OrderNumber, order.Status)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	for _, line := range order.Items {
		if _, err := inventory.Append(tx, inventory.AppendRequest{
			ItemID:          line.ItemID,
			Type:            inventory.LogTypeIn,
			Quantity:        line.Quantity,
			Provision:       fmt.Sprintf("deletion of sales order %s", order.OrderNumber),
			CreatedBy:       userID,
			OutgoingOrderID: &order.ID,
		}); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Where("outgoing_order_id = ?", order.ID).Delete(&treasury.TreasuryLog{}).Error; err != nil {
		tx.Rollback()
		return apperrors.Wrap(apperrors.KindInternal, err, "failed to delete treasury entry")
	}

	if err := tx.Where("outgoing_order_id = ?", order.ID).Delete(&OutgoingOrderItem{}).Error; err != nil {
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

	s.logger.WithField("order_number", order.OrderNumber).Info("pending sales order deleted")
	return nil
}
