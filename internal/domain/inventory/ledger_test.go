// internal/domain/inventory/ledger_test.go
package inventory

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
	require.NoError(t, db.AutoMigrate(&InventoryLog{}))
	return db
}

func TestAppend(t *testing.T) {
	t.Run("first entry starts from zero", func(t *testing.T) {
		db := newTestDB(t)

		entry, err := Append(db, AppendRequest{
			ItemID: 1, Type: LogTypeIn, Quantity: 10, Provision: "initial stock",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(10), entry.Quantity)
		assert.Equal(t, int64(10), entry.RunningStock)

		stock, err := StockOf(db, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(10), stock)
	})

	t.Run("snapshots chain across appends", func(t *testing.T) {
		db := newTestDB(t)

		_, err := Append(db, AppendRequest{ItemID: 1, Type: LogTypeIn, Quantity: 10, Provision: "receive"})
		require.NoError(t, err)
		_, err = Append(db, AppendRequest{ItemID: 1, Type: LogTypeOut, Quantity: 4, Provision: "sale"})
		require.NoError(t, err)

		entry, err := Append(db, AppendRequest{ItemID: 1, Type: LogTypeAdjustment, Quantity: 20, Provision: "recount"})
		require.NoError(t, err)
		assert.Equal(t, int64(20), entry.RunningStock)
		// adjustment stores the magnitude of the correction, 20 - 6
		assert.Equal(t, int64(14), entry.Quantity)
	})

	t.Run("overdraw is rejected and nothing is written", func(t *testing.T) {
		db := newTestDB(t)

		_, err := Append(db, AppendRequest{ItemID: 1, Type: LogTypeIn, Quantity: 5, Provision: "receive"})
		require.NoError(t, err)

		_, err = Append(db, AppendRequest{ItemID: 1, Type: LogTypeOut, Quantity: 6, Provision: "sale"})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindInsufficientStock))

		var count int64
		require.NoError(t, db.Model(&InventoryLog{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)

		stock, err := StockOf(db, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(5), stock)
	})

	t.Run("items have independent histories", func(t *testing.T) {
		db := newTestDB(t)

		_, err := Append(db, AppendRequest{ItemID: 1, Type: LogTypeIn, Quantity: 10, Provision: "receive"})
		require.NoError(t, err)
		_, err = Append(db, AppendRequest{ItemID: 2, Type: LogTypeIn, Quantity: 3, Provision: "receive"})
		require.NoError(t, err)

		stock1, err := StockOf(db, 1)
		require.NoError(t, err)
		stock2, err := StockOf(db, 2)
		require.NoError(t, err)
		assert.Equal(t, int64(10), stock1)
		assert.Equal(t, int64(3), stock2)
	})

	t.Run("provision is mandatory", func(t *testing.T) {
		db := newTestDB(t)

		_, err := Append(db, AppendRequest{ItemID: 1, Type: LogTypeIn, Quantity: 1, Provision: "  "})
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

// Concurrent appends must serialize on the latest-entry read: no two
// committed entries may compute their snapshot from the same predecessor.
// SQLite rejects overlapping write transactions outright instead of
// blocking, so rejected appends retry; the final stock must equal the sum
// of exactly the deltas that were accepted.
func TestAppendConcurrent(t *testing.T) {
	db := newTestDB(t)

	const workers = 8
	var (
		mu            sync.Mutex
		acceptedSum   int64
		acceptedCount int64
	)

	var wg sync.WaitGroup
	for i := 1; i <= workers; i++ {
		wg.Add(1)
		go func(delta int64) {
			defer wg.Done()
			for attempt := 0; attempt < 50; attempt++ {
				err := db.Transaction(func(tx *gorm.DB) error {
					_, err := Append(tx, AppendRequest{
						ItemID: 1, Type: LogTypeIn, Quantity: delta, Provision: "concurrent receive",
					})
					return err
				})
				if err == nil {
					mu.Lock()
					acceptedSum += delta
					acceptedCount++
					mu.Unlock()
					return
				}
				time.Sleep(time.Millisecond)
			}
		}(int64(i))
	}
	wg.Wait()

	require.Greater(t, acceptedCount, int64(0))

	stock, err := StockOf(db, 1)
	require.NoError(t, err)
	assert.Equal(t, acceptedSum, stock)

	var count int64
	require.NoError(t, db.Model(&InventoryLog{}).Count(&count).Error)
	assert.Equal(t, acceptedCount, count)
}

func TestStockOfUnknownItem(t *testing.T) {
	db := newTestDB(t)

	stock, err := StockOf(db, 99)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stock)

	entry, err := LatestEntry(db, 99)
	require.NoError(t, err)
	assert.Nil(t, entry)
}
