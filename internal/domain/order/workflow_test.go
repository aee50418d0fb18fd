// internal/domain/order/workflow_test.go
package order

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/backoffice-backend/internal/config"
	"github.com/your-org/backoffice-backend/internal/domain/catalog"
	"github.com/your-org/backoffice-backend/internal/domain/inventory"
	"github.com/your-org/backoffice-backend/internal/domain/partner"
	"github.com/your-org/backoffice-backend/internal/domain/treasury"
	"github.com/your-org/backoffice-backend/internal/pkg/apperrors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalog.Category{}, &catalog.Item{},
		&partner.Customer{}, &partner.Supplier{},
		&IncomingOrder{}, &IncomingOrderItem{},
		&OutgoingOrder{}, &OutgoingOrderItem{},
		&inventory.InventoryLog{}, &treasury.TreasuryLog{},
	))
	return db
}

func testConfig() *config.Config {
	return &config.Config{
		Company: config.CompanyConfig{
			Currency:            "USD",
			IncomingOrderPrefix: "PO",
			OutgoingOrderPrefix: "SO",
		},
	}
}

func seedItem(t *testing.T, db *gorm.DB, sku string, stock int64) *catalog.Item {
	t.Helper()
	item := &catalog.Item{SKU: sku, Name: "Item " + sku, Unit: "pcs", IsActive: true}
	require.NoError(t, db.Create(item).Error)
	if stock > 0 {
		_, err := inventory.Append(db, inventory.AppendRequest{
			ItemID: item.ID, Type: inventory.LogTypeIn, Quantity: stock, Provision: "initial stock",
		})
		require.NoError(t, err)
	}
	return item
}

func seedCustomer(t *testing.T, db *gorm.DB) *partner.Customer {
	t.Helper()
	customer := &partner.Customer{Name: "Acme Retail", IsActive: true}
	require.NoError(t, db.Create(customer).Error)
	return customer
}

func seedSupplier(t *testing.T, db *gorm.DB) *partner.Supplier {
	t.Helper()
	supplier := &partner.Supplier{Name: "Global Parts", IsActive: true}
	require.NoError(t, db.Create(supplier).Error)
	return supplier
}

func seedCash(t *testing.T, db *gorm.DB, amount int64) {
	t.Helper()
	_, err := treasury.Append(db, treasury.AppendRequest{
		Type: treasury.LogTypeIn, Amount: amount, Provision: "opening balance",
	})
	require.NoError(t, err)
}

func stockOf(t *testing.T, db *gorm.DB, itemID uint) int64 {
	t.Helper()
	stock, err := inventory.StockOf(db, itemID)
	require.NoError(t, err)
	return stock
}

func balanceOf(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	balance, err := treasury.BalanceOf(db)
	require.NoError(t, err)
	return balance
}

func TestOutgoingCreate(t *testing.T) {
	db := newTestDB(t)
	svc := NewOutgoingService(db, testConfig())
	item := seedItem(t, db, "SKU-1", 10)
	customer := seedCustomer(t, db)
	seedCash(t, db, 10000)

	created, err := svc.Create(&CreateOutgoingRequest{
		CustomerID: customer.ID,
		Discount:   100,
		Items:      []OutgoingLineRequest{{ItemID: item.ID, Quantity: 4, UnitPrice: 250}},
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, OrderStatusPending, created.Status)
	assert.True(t, strings.HasPrefix(created.OrderNumber, "SO-"))
	assert.Equal(t, int64(1000), created.TotalAmount)
	assert.Equal(t, int64(900), created.FinalAmount)
	require.Len(t, created.Items, 1)
	assert.Equal(t, int64(1000), created.Items[0].LineTotal)

	// Stock reserved and revenue booked at creation
	assert.Equal(t, int64(6), stockOf(t, db, item.ID))
	assert.Equal(t, int64(10900), balanceOf(t, db))

	entry, err := treasury.EntryForOrder(db, nil, &created.ID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, int64(900), entry.Amount)
}

func TestOutgoingCreateInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	svc := NewOutgoingService(db, testConfig())
	item := seedItem(t, db, "SKU-1", 10)
	customer := seedCustomer(t, db)

	_, err := svc.Create(&CreateOutgoingRequest{
		CustomerID: customer.ID,
		Items:      []OutgoingLineRequest{{ItemID: item.ID, Quantity: 11, UnitPrice: 100}},
	}, 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInsufficientStock))
	assert.Contains(t, err.Error(), item.Name)
	assert.Contains(t, err.Error(), "available 10")

	// Nothing persisted
	var orders int64
	require.NoError(t, db.Model(&OutgoingOrder{}).Count(&orders).Error)
	assert.Equal(t, int64(0), orders)
	assert.Equal(t, int64(10), stockOf(t, db, item.ID))
}

func TestOutgoingCreateValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewOutgoingService(db, testConfig())
	item := seedItem(t, db, "SKU-1", 10)
	customer := seedCustomer(t, db)

	t.Run("no lines", func(t *testing.T) {
		_, err := svc.Create(&CreateOutgoingRequest{CustomerID: customer.ID}, 1)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("discount exceeds total", func(t *testing.T) {
		_, err := svc.Create(&CreateOutgoingRequest{
			CustomerID: customer.ID,
			Discount:   1001,
			Items:      []OutgoingLineRequest{{ItemID: item.ID, Quantity: 10, UnitPrice: 100}},
		}, 1)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})

	t.Run("unknown customer", func(t *testing.T) {
		_, err := svc.Create(&CreateOutgoingRequest{
			CustomerID: 999,
			Items:      []OutgoingLineRequest{{ItemID: item.ID, Quantity: 1, UnitPrice: 100}},
		}, 1)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})
}

func TestOutgoingCancelRestoresLedgers(t *testing.T) {
	db := newTestDB(t)
	svc := NewOutgoingService(db, testConfig())
	item := seedItem(t, db, "SKU-1", 10)
	customer := seedCustomer(t, db)
	seedCash(t, db, 10000)

	created, err := svc.Create(&CreateOutgoingRequest{
		CustomerID: customer.ID,
		Items:      []OutgoingLineRequest{{ItemID: item.ID, Quantity: 4, UnitPrice: 250}},
	}, 1)
	require.NoError(t, err)

	cancelled, err := svc.UpdateStatus(created.ID, OrderStatusCancelled, 1)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusCancelled, cancelled.Status)

	// Full round trip: both ledgers back where they started
	assert.Equal(t, int64(10), stockOf(t, db, item.ID))
	assert.Equal(t, int64(10000), balanceOf(t, db))

	// The history keeps every step
	var logs int64
	require.NoError(t, db.Model(&inventory.InventoryLog{}).Where("item_id = ?", item.ID).Count(&logs).Error)
	assert.Equal(t, int64(3), logs) // initial in, sale out, restore in

	// Cancelled is terminal
	_, err = svc.UpdateStatus(created.ID, OrderStatusConfirmed, 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))
}

func TestOutgoingCompleteIsInertAfterCreation(t *testing.T) {
	db := newTestDB(t)
	svc := NewOutgoingService(db, testConfig())
	item := seedItem(t, db, "SKU-1", 10)
	customer := seedCustomer(t, db)
	seedCash(t, db, 10000)

	created, err := svc.Create(&CreateOutgoingRequest{
		CustomerID: customer.ID,
		Items:      []OutgoingLineRequest{{ItemID: item.ID, Quantity: 4, UnitPrice: 250}},
	}, 1)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(created.ID, OrderStatusConfirmed, 1)
	require.NoError(t, err)
	completed, err := svc.UpdateStatus(created.ID, OrderStatusCompleted, 1)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusCompleted, completed.Status)

	// Creation already booked everything; completion must not double-book
	assert.Equal(t, int64(6), stockOf(t, db, item.ID))
	assert.Equal(t, int64(11000), balanceOf(t, db))

	var entries int64
	require.NoError(t, db.Model(&treasury.TreasuryLog{}).Where("outgoing_order_id = ?", created.ID).Count(&entries).Error)
	assert.Equal(t, int64(1), entries)
}

func TestOutgoingCompletedCanBeCancelled(t *testing.T) {
	db := newTestDB(t)
	svc := NewOutgoingService(db, testConfig())
	item := seedItem(t, db, "SKU-1", 10)
	customer := seedCustomer(t, db)
	seedCash(t, db, 10000)

	created, err := svc.Create(&CreateOutgoingRequest{
		CustomerID: customer.ID,
		Items:      []OutgoingLineRequest{{ItemID: item.ID, Quantity: 4, UnitPrice: 250}},
	}, 1)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(created.ID, OrderStatusCompleted, 1)
	require.NoError(t, err)

	// Completed is not terminal for the reversal path
	cancelled, err := svc.UpdateStatus(created.ID, OrderStatusCancelled, 1)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusCancelled, cancelled.Status)

	assert.Equal(t, int64(10), stockOf(t, db, item.ID))
	assert.Equal(t, int64(10000), balanceOf(t, db))
}

func TestOutgoingCancelRefundExceedsBalance(t *testing.T) {
	db := newTestDB(t)
	svc := NewOutgoingService(db, testConfig())
	item := seedItem(t, db, "SKU-1", 10)
	customer := seedCustomer(t, db)
	seedCash(t, db, 10000)

	created, err := svc.Create(&CreateOutgoingRequest{
		CustomerID: customer.ID,
		Items:      []OutgoingLineRequest{{ItemID: item.ID, Quantity: 4, UnitPrice: 250}},
	}, 1)
	require.NoError(t, err)

	// Drain the account below the 1000 refund the cancellation would need
	_, err = treasury.Append(db, treasury.AppendRequest{
		Type: treasury.LogTypeOut, Amount: 10500, Provision: "rent",
	})
	require.NoError(t, err)
	require.Equal(t, int64(500), balanceOf(t, db))

	_, err = svc.UpdateStatus(created.ID, OrderStatusCancelled, 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInsufficientFunds))

	// The aborted cancellation left no trace: status, stock and balance
	// unchanged, no restore entries, linked treasury entry still attached
	reloaded, err := svc.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusPending, reloaded.Status)
	assert.Equal(t, int64(6), stockOf(t, db, item.ID))
	assert.Equal(t, int64(500), balanceOf(t, db))

	var logs int64
	require.NoError(t, db.Model(&inventory.InventoryLog{}).Where("item_id = ?", item.ID).Count(&logs).Error)
	assert.Equal(t, int64(2), logs) // initial in, sale out

	entry, err := treasury.EntryForOrder(db, nil, &created.ID)
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, int64(1000), entry.Amount)
}

func TestOutgoingPendingDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewOutgoingService(db, testConfig())
	item := seedItem(t, db, "SKU-1", 10)
	customer := seedCustomer(t, db)
	seedCash(t, db, 10000)

	created, err := svc.Create(&CreateOutgoingRequest{
		CustomerID: customer.ID,
		Items:      []OutgoingLineRequest{{ItemID: item.ID, Quantity: 4, UnitPrice: 250}},
	}, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(created.ID, 1))

	// Stock restored, the linked treasury row removed outright
	assert.Equal(t, int64(10), stockOf(t, db, item.ID))
	assert.Equal(t, int64(10000), balanceOf(t, db))

	var entries int64
	require.NoError(t, db.Model(&treasury.TreasuryLog{}).Where("outgoing_order_id = ?", created.ID).Count(&entries).Error)
	assert.Equal(t, int64(0), entries)

	_, err = svc.Get(created.ID)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestOutgoingDeleteRequiresPending(t *testing.T) {
	db := newTestDB(t)
	svc := NewOutgoingService(db, testConfig())
	item := seedItem(t, db, "SKU-1", 10)
	customer := seedCustomer(t, db)

	created, err := svc.Create(&CreateOutgoingRequest{
		CustomerID: customer.ID,
		Items:      []OutgoingLineRequest{{ItemID: item.ID, Quantity: 1, UnitPrice: 100}},
	}, 1)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(created.ID, OrderStatusConfirmed, 1)
	require.NoError(t, err)

	err = svc.Delete(created.ID, 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))
}

func TestIncomingCreateBooksNothing(t *testing.T) {
	db := newTestDB(t)
	svc := NewIncomingService(db, testConfig())
	item := seedItem(t, db, "SKU-1", 0)
	supplier := seedSupplier(t, db)
	seedCash(t, db, 10000)

	created, err := svc.Create(&CreateIncomingRequest{
		SupplierID: supplier.ID,
		Items:      []IncomingLineRequest{{ItemID: item.ID, Quantity: 5, UnitPrice: 1000}},
	}, 1)
	require.NoError(t, err)

	assert.Equal(t, OrderStatusPending, created.Status)
	assert.True(t, strings.HasPrefix(created.OrderNumber, "PO-"))
	assert.Equal(t, int64(5000), created.TotalAmount)

	// Incoming goods are not trusted until received
	assert.Equal(t, int64(0), stockOf(t, db, item.ID))
	assert.Equal(t, int64(10000), balanceOf(t, db))
}

func TestIncomingComplete(t *testing.T) {
	db := newTestDB(t)
	svc := NewIncomingService(db, testConfig())
	item := seedItem(t, db, "SKU-1", 0)
	supplier := seedSupplier(t, db)
	seedCash(t, db, 10000)

	created, err := svc.Create(&CreateIncomingRequest{
		SupplierID: supplier.ID,
		Items:      []IncomingLineRequest{{ItemID: item.ID, Quantity: 5, UnitPrice: 1000}},
	}, 1)
	require.NoError(t, err)

	completed, err := svc.UpdateStatus(created.ID, OrderStatusCompleted, 1)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusCompleted, completed.Status)

	// Goods received and supplier paid
	assert.Equal(t, int64(5), stockOf(t, db, item.ID))
	assert.Equal(t, int64(5000), balanceOf(t, db))

	// Completed is terminal
	_, err = svc.UpdateStatus(created.ID, OrderStatusCompleted, 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))
}

func TestIncomingCompleteInsufficientFunds(t *testing.T) {
	db := newTestDB(t)
	svc := NewIncomingService(db, testConfig())
	item := seedItem(t, db, "SKU-1", 0)
	supplier := seedSupplier(t, db)
	seedCash(t, db, 1000)

	created, err := svc.Create(&CreateIncomingRequest{
		SupplierID: supplier.ID,
		Items:      []IncomingLineRequest{{ItemID: item.ID, Quantity: 5, UnitPrice: 1000}},
	}, 1)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(created.ID, OrderStatusCompleted, 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindInsufficientFunds))

	// The whole completion rolled back: no goods, no payment, no status change
	assert.Equal(t, int64(0), stockOf(t, db, item.ID))
	assert.Equal(t, int64(1000), balanceOf(t, db))

	reloaded, err := svc.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, OrderStatusPending, reloaded.Status)
}

func TestIncomingUpdateReplacesLines(t *testing.T) {
	db := newTestDB(t)
	svc := NewIncomingService(db, testConfig())
	itemA := seedItem(t, db, "SKU-A", 0)
	itemB := seedItem(t, db, "SKU-B", 0)
	supplier := seedSupplier(t, db)

	created, err := svc.Create(&CreateIncomingRequest{
		SupplierID: supplier.ID,
		Items:      []IncomingLineRequest{{ItemID: itemA.ID, Quantity: 5, UnitPrice: 1000}},
	}, 1)
	require.NoError(t, err)

	notes := "revised quote"
	updated, err := svc.Update(created.ID, &UpdateIncomingRequest{
		Notes: &notes,
		Items: []IncomingLineRequest{
			{ItemID: itemA.ID, Quantity: 2, UnitPrice: 1000},
			{ItemID: itemB.ID, Quantity: 3, UnitPrice: 500},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "revised quote", updated.Notes)
	assert.Equal(t, int64(3500), updated.TotalAmount)
	require.Len(t, updated.Items, 2)
}

func TestIncomingDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewIncomingService(db, testConfig())
	item := seedItem(t, db, "SKU-1", 0)
	supplier := seedSupplier(t, db)
	seedCash(t, db, 10000)

	t.Run("pending order can be deleted", func(t *testing.T) {
		created, err := svc.Create(&CreateIncomingRequest{
			SupplierID: supplier.ID,
			Items:      []IncomingLineRequest{{ItemID: item.ID, Quantity: 1, UnitPrice: 100}},
		}, 1)
		require.NoError(t, err)

		require.NoError(t, svc.Delete(created.ID))
		_, err = svc.Get(created.ID)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("completed order cannot be deleted", func(t *testing.T) {
		created, err := svc.Create(&CreateIncomingRequest{
			SupplierID: supplier.ID,
			Items:      []IncomingLineRequest{{ItemID: item.ID, Quantity: 1, UnitPrice: 100}},
		}, 1)
		require.NoError(t, err)

		_, err = svc.UpdateStatus(created.ID, OrderStatusCompleted, 1)
		require.NoError(t, err)

		err = svc.Delete(created.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindInvalidTransition))
	})
}

func TestStatusTransitions(t *testing.T) {
	t.Run("incoming table", func(t *testing.T) {
		assert.True(t, isValidTransition(incomingTransitions, OrderStatusPending, OrderStatusConfirmed))
		assert.True(t, isValidTransition(incomingTransitions, OrderStatusPending, OrderStatusCompleted))
		assert.True(t, isValidTransition(incomingTransitions, OrderStatusConfirmed, OrderStatusCancelled))
		assert.False(t, isValidTransition(incomingTransitions, OrderStatusCompleted, OrderStatusCancelled))
		assert.False(t, isValidTransition(incomingTransitions, OrderStatusCancelled, OrderStatusPending))
		assert.False(t, isValidTransition(incomingTransitions, OrderStatusConfirmed, OrderStatusPending))
	})

	t.Run("outgoing table allows completed to cancelled", func(t *testing.T) {
		assert.True(t, isValidTransition(outgoingTransitions, OrderStatusCompleted, OrderStatusCancelled))
		assert.False(t, isValidTransition(outgoingTransitions, OrderStatusCancelled, OrderStatusCompleted))
	})
}

func TestFormatOrderNumber(t *testing.T) {
	number := formatOrderNumber("SO", 42)
	assert.True(t, strings.HasPrefix(number, "SO-"))
	assert.True(t, strings.HasSuffix(number, "-00042"))
}
