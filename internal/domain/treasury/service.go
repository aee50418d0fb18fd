// internal/domain/treasury/service.go
package treasury

import (
	"strings"

	"github.com/your-org/backoffice-backend/internal/config"
	"github.com/your-org/backoffice-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

// Service handles treasury business logic outside order workflows
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new treasury service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// TransactionRequest represents a manual cash movement. For adjustments,
// Amount is the target balance.
type TransactionRequest struct {
	Type        LogType `json:"type" binding:"required"`
	Amount      int64   `json:"amount"`
	Provision   string  `json:"provision" binding:"required"`
	Description string  `json:"description"`
}

// LogListRequest represents treasury log query parameters
type LogListRequest struct {
	Page     int     `form:"page,default=1"`
	Limit    int     `form:"limit,default=20"`
	Type     LogType `form:"type"`
	DateFrom string  `form:"date_from"`
	DateTo   string  `form:"date_to"`
}

// LogListResponse represents paginated treasury logs
type LogListResponse struct {
	Logs       []TreasuryLog `json:"logs"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
}

// Record is the entry point for ad-hoc cash transactions outside order
// workflows. Input is validated before any transaction is opened.
func (s *Service) Record(req *TransactionRequest, userID uint) (*TreasuryLog, error) {
	switch req.Type {
	case LogTypeIn, LogTypeOut:
		if req.Amount <= 0 {
			return nil, apperrors.Validation("amount must be positive")
		}
	case LogTypeAdjustment:
		if req.Amount < 0 {
			return nil, apperrors.Validation("target balance cannot be negative")
		}
	default:
		return nil, apperrors.Validation("invalid movement type: %s", req.Type)
	}
	if strings.TrimSpace(req.Provision) == "" {
		return nil, apperrors.Validation("provision is required")
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	entry, err := Append(tx, AppendRequest{
		Type:        req.Type,
		Amount:      req.Amount,
		Provision:   req.Provision,
		Description: req.Description,
		CreatedBy:   userID,
	})
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to commit cash movement")
	}

	return entry, nil
}

// Balance returns the derived current cash balance
func (s *Service) Balance() (int64, error) {
	return BalanceOf(s.db)
}

// ListLogs retrieves treasury logs with filtering and pagination, newest first
func (s *Service) ListLogs(req *LogListRequest) (*LogListResponse, error) {
	var logs []TreasuryLog
	var total int64

	query := s.db.Model(&TreasuryLog{})
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
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to count treasury logs")
	}

	offset := (req.Page - 1) * req.Limit
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(req.Limit).Find(&logs).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to retrieve treasury logs")
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
