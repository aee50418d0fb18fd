// internal/domain/report/service_test.go
package report

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/backoffice-backend/internal/config"
	"github.com/your-org/backoffice-backend/internal/domain/catalog"
	"github.com/your-org/backoffice-backend/internal/domain/inventory"
	"github.com/your-org/backoffice-backend/internal/domain/order"
	"github.com/your-org/backoffice-backend/internal/domain/treasury"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*gorm.DB, *Service) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalog.Item{},
		&order.IncomingOrder{}, &order.OutgoingOrder{},
		&inventory.InventoryLog{}, &treasury.TreasuryLog{},
	))

	cfg := &config.Config{Company: config.CompanyConfig{Currency: "USD"}}
	return db, NewService(db, nil, cfg)
}

func seedItemWithStock(t *testing.T, db *gorm.DB, name string, minStock, stock int64) *catalog.Item {
	t.Helper()
	item := &catalog.Item{SKU: "SKU-" + name, Name: name, Unit: "pcs", MinStock: minStock, IsActive: true}
	require.NoError(t, db.Create(item).Error)
	if stock > 0 {
		_, err := inventory.Append(db, inventory.AppendRequest{
			ItemID: item.ID, Type: inventory.LogTypeIn, Quantity: stock, Provision: "initial stock",
		})
		require.NoError(t, err)
	}
	return item
}

func TestStockLevels(t *testing.T) {
	db, svc := newTestService(t)
	seedItemWithStock(t, db, "Bolt", 0, 100)
	seedItemWithStock(t, db, "Nut", 0, 0)

	// inactive items are excluded
	inactive := &catalog.Item{SKU: "SKU-Old", Name: "Old", IsActive: false}
	require.NoError(t, db.Create(inactive).Error)

	levels, err := svc.StockLevels()
	require.NoError(t, err)
	require.Len(t, levels, 2)
	assert.Equal(t, "Bolt", levels[0].Name)
	assert.Equal(t, int64(100), levels[0].Stock)
	assert.Equal(t, int64(0), levels[1].Stock)
}

func TestLowStock(t *testing.T) {
	db, svc := newTestService(t)
	seedItemWithStock(t, db, "Bolt", 10, 5)   // below threshold
	seedItemWithStock(t, db, "Nut", 10, 10)   // at threshold, still flagged
	seedItemWithStock(t, db, "Screw", 10, 50) // healthy
	seedItemWithStock(t, db, "Shim", 0, 0)    // no threshold, never flagged

	low, err := svc.LowStock()
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Bolt", low[0].Name)
	assert.Equal(t, "Nut", low[1].Name)
}

func TestDashboard(t *testing.T) {
	db, svc := newTestService(t)
	seedItemWithStock(t, db, "Bolt", 10, 5)
	_, err := treasury.Append(db, treasury.AppendRequest{
		Type: treasury.LogTypeIn, Amount: 12500, Provision: "opening balance",
	})
	require.NoError(t, err)

	require.NoError(t, db.Create(&order.IncomingOrder{
		OrderNumber: "PO-1", SupplierID: 1, Status: order.OrderStatusPending,
	}).Error)
	require.NoError(t, db.Create(&order.OutgoingOrder{
		OrderNumber: "SO-1", CustomerID: 1, Status: order.OrderStatusCompleted,
	}).Error)

	summary, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(12500), summary.Balance)
	assert.Equal(t, "USD", summary.Currency)
	assert.Equal(t, int64(1), summary.ItemCount)
	assert.Equal(t, 1, summary.LowStockCount)
	assert.Equal(t, int64(1), summary.PendingInCount)
	assert.Equal(t, int64(0), summary.PendingOutCount)
	assert.False(t, summary.GeneratedAt.IsZero())
}
