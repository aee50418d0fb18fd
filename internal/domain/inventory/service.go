// internal/domain/inventory/service.go
package inventory

import (
	"strings"

	"github.com/your-org/backoffice-backend/internal/config"
	"github.com/your-org/backoffice-backend/internal/domain/catalog"
	"github.com/your-org/backoffice-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Service handles inventory business logic outside order workflows
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new inventory service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// AdjustmentRequest represents a manual stock movement. For adjustments,
// Quantity is the target stock.
type AdjustmentRequest struct {
	ItemID    uint    `json:"item_id" binding:"required"`
	Type      LogType `json:"type" binding:"required"`
	Quantity  int64   `json:"quantity"`
	Provision string  `json:"provision" binding:"required"`
	Note      string  `json:"note"`
}

// LogListRequest represents inventory log query parameters
type LogListRequest struct {
	Page     int     `form:"page,default=1"`
	Limit    int     `form:"limit,default=20"`
	ItemID   uint    `form:"item_id"`
	Type     LogType `form:"type"`
	DateFrom string  `form:"date_from"`
	DateTo   string  `form:"date_to"`
}

// LogListResponse represents paginated inventory logs
type LogListResponse struct {
	Logs       []InventoryLog `json:"logs"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
}

// Adjust is the sole entry point for ad-hoc stock corrections. It validates
// input, then applies the same append function the order workflows use,
// inside its own transaction.
func (s *Service) Adjust(req *AdjustmentRequest, userID uint) (*InventoryLog, error) {
	switch req.Type {
	case LogTypeIn, LogTypeOut:
		if req.Quantity <= 0 {
			return nil, apperrors.Validation("quantity must be positive")
		}
	case LogTypeAdjustment:
		if req.Quantity < 0 {
			return nil, apperrors.Validation("target stock cannot be negative")
		}
	default:
		return nil, apperrors.Validation("invalid movement type: %s", req.Type)
	}
	if strings.TrimSpace(req.Provision) == "" {
		return nil, apperrors.Validation("provision is required")
	}

	// Item must exist and be active for manual movements
	var item catalog.Item
	if err := s.db.First(&item, req.ItemID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("item", req.ItemID)
		}
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to load item")
	}
	if !item.IsActive {
		return nil, apperrors.Validation("item '%s' is inactive", item.Name)
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	entry, err := Append(tx, AppendRequest{
		ItemID:    req.ItemID,
		Type:      req.Type,
		Quantity:  req.Quantity,
		Provision: req.Provision,
		Note:      req.Note,
		CreatedBy: userID,
	})
	if err != nil {
		tx.Rollback()
		if apperrors.IsKind(err, apperrors.KindInsufficientStock) {
			// The ledger error already carries the figures it read inside the
			// transaction; only the item name is missing.
			return nil, apperrors.Wrap(apperrors.KindInsufficientStock, err, "item '%s'", item.Name)
		}
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to commit stock movement")
	}

	return entry, nil
}

// CurrentStock returns the derived stock for one item
func (s *Service) CurrentStock(itemID uint) (int64, error) {
	var item catalog.Item
	if err := s.db.First(&item, itemID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, apperrors.NotFound("item", itemID)
		}
		return 0, apperrors.Wrap(apperrors.KindInternal, err, "failed to load item")
	}
	return StockOf(s.db, itemID)
}

// ListLogs retrieves inventory logs with filtering and pagination, newest first
func (s *Service) ListLogs(req *LogListRequest) (*LogListResponse, error) {
	var logs []InventoryLog
	var total int64

	query := s.db.Model(&InventoryLog{})
	if req.ItemID > 0 {
		query = query.Where("item_id = ?", req.ItemID)
	}
	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}
	if req.DateFrom != "" {
		query = query.Where("created_at >= ?", req.DateFrom)
	}
	if req.DateTo != "" {
		query = query.Where("created_at <= ?", req.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to count inventory logs")
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(req.Limit).Find(&logs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to retrieve inventory logs")
	}

	totalPages := int((total + int64(req.Limit) - 1) / int64(req.Limit))
	return &LogListResponse{
		Logs:       logs,
		Total:      total,
		Page:       req.Page,
		Limit:      req.Limit,
		TotalPages: totalPages,
	}, nil
}

// ItemHistory returns the full ordered log history for one item, oldest first
func (s *Service) ItemHistory(itemID uint) ([]InventoryLog, error) {
	var logs []InventoryLog
	if err := s.db.Where("item_id = ?", itemID).
		Order("created_at ASC, id ASC").
		Find(&logs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to retrieve item history")
	}
	return logs, nil
}
