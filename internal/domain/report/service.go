// internal/domain/report/service.go
package report

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/backoffice-backend/internal/config"
	"github.com/your-org/backoffice-backend/internal/domain/catalog"
	"github.com/your-org/backoffice-backend/internal/domain/inventory"
	"github.com/your-org/backoffice-backend/internal/domain/order"
	"github.com/your-org/backoffice-backend/internal/domain/treasury"
	"github.com/your-org/backoffice-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
)

const dashboardCacheKey = "report:dashboard"

// Service builds read-only projections over the ledgers and orders. It never
// writes to domain tables.
type Service struct {
	db     *gorm.DB
	redis  *redis.Client
	config *config.Config
	logger *logrus.Entry
}

// NewService creates a new report service. The redis client is optional; when
// nil, dashboard caching is skipped.
func NewService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		redis:  redisClient,
		config: cfg,
		logger: logrus.WithField("component", "reports"),
	}
}

// ItemStock is the per-item stock projection
type ItemStock struct {
	ItemID   uint   `json:"item_id"`
	SKU      string `json:"sku"`
	Name     string `json:"name"`
	Unit     string `json:"unit"`
	MinStock int64  `json:"min_stock"`
	Stock    int64  `json:"stock"`
}

// DashboardSummary aggregates the figures shown on the landing screen
type DashboardSummary struct {
	Balance        int64     `json:"balance"`
	Currency       string    `json:"currency"`
	ItemCount      int64     `json:"item_count"`
	LowStockCount  int       `json:"low_stock_count"`
	PendingInCount int64     `json:"pending_incoming_orders"`
	PendingOutCount int64    `json:"pending_outgoing_orders"`
	GeneratedAt    time.Time `json:"generated_at"`
}

// StockLevels returns the derived stock for every active item. Stock is read
// from each item's latest ledger snapshot, never from a stored counter.
func (s *Service) StockLevels() ([]ItemStock, error) {
	var items []catalog.Item
	if err := s.db.Where("is_active = ?", true).Order("name ASC").Find(&items).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to load items")
	}

	result := make([]ItemStock, 0, len(items))
	for _, item := range items {
		stock, err := inventory.StockOf(s.db, item.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, ItemStock{
			ItemID:   item.ID,
			SKU:      item.SKU,
			Name:     item.Name,
			Unit:     item.Unit,
			MinStock: item.MinStock,
			Stock:    stock,
		})
	}
	return result, nil
}

// LowStock returns active items whose derived stock is at or below their
// minimum threshold. Items with no threshold are skipped.
func (s *Service) LowStock() ([]ItemStock, error) {
	levels, err := s.StockLevels()
	if err != nil {
		return nil, err
	}

	low := make([]ItemStock, 0)
	for _, level := range levels {
		if level.MinStock > 0 && level.Stock <= level.MinStock {
			low = append(low, level)
		}
	}
	return low, nil
}

// Balance returns the derived current cash balance
func (s *Service) Balance() (int64, error) {
	return treasury.BalanceOf(s.db)
}

// Dashboard returns the aggregate summary, served from Redis when a fresh
// copy exists. Cache misses and Redis errors fall through to a live build.
func (s *Service) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	if s.redis != nil {
		cached, err := s.redis.Get(ctx, dashboardCacheKey).Result()
		if err == nil {
			var summary DashboardSummary
			if jsonErr := json.Unmarshal([]byte(cached), &summary); jsonErr == nil {
				return &summary, nil
			}
		} else if err != redis.Nil {
			s.logger.WithError(err).Warn("dashboard cache read failed")
		}
	}

	summary, err := s.buildDashboard()
	if err != nil {
		return nil, err
	}

	if s.redis != nil {
		payload, jsonErr := json.Marshal(summary)
		if jsonErr == nil {
			if err := s.redis.Set(ctx, dashboardCacheKey, payload, s.config.Company.DashboardCacheTTL).Err(); err != nil {
				s.logger.WithError(err).Warn("dashboard cache write failed")
			}
		}
	}

	return summary, nil
}

func (s *Service) buildDashboard() (*DashboardSummary, error) {
	balance, err := treasury.BalanceOf(s.db)
	if err != nil {
		return nil, err
	}

	var itemCount int64
	if err := s.db.Model(&catalog.Item{}).Where("is_active = ?", true).Count(&itemCount).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to count items")
	}

	low, err := s.LowStock()
	if err != nil {
		return nil, err
	}

	var pendingIn, pendingOut int64
	if err := s.db.Model(&order.IncomingOrder{}).Where("status = ?", order.OrderStatusPending).Count(&pendingIn).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to count incoming orders")
	}
	if err := s.db.Model(&order.OutgoingOrder{}).Where("status = ?", order.OrderStatusPending).Count(&pendingOut).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to count outgoing orders")
	}

	return &DashboardSummary{
		Balance:         balance,
		Currency:        s.config.Company.Currency,
		ItemCount:       itemCount,
		LowStockCount:   len(low),
		PendingInCount:  pendingIn,
		PendingOutCount: pendingOut,
		GeneratedAt:     time.Now(),
	}, nil
}
