// internal/domain/catalog/service_test.go
package catalog_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/backoffice-backend/internal/config"
	"github.com/your-org/backoffice-backend/internal/domain/catalog"
	"github.com/your-org/backoffice-backend/internal/domain/inventory"
	"github.com/your-org/backoffice-backend/internal/pkg/apperrors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*gorm.DB, *catalog.Service) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalog.Category{}, &catalog.Item{}, &inventory.InventoryLog{}))
	return db, catalog.NewService(db, &config.Config{})
}

func TestCreateItem(t *testing.T) {
	t.Run("creates with defaults", func(t *testing.T) {
		_, svc := newTestService(t)

		item, err := svc.CreateItem(&catalog.CreateItemRequest{SKU: "W-1", Name: "Widget"})
		require.NoError(t, err)
		assert.Equal(t, "pcs", item.Unit)
		assert.True(t, item.IsActive)
	})

	t.Run("duplicate sku", func(t *testing.T) {
		_, svc := newTestService(t)

		_, err := svc.CreateItem(&catalog.CreateItemRequest{SKU: "W-1", Name: "Widget"})
		require.NoError(t, err)
		_, err = svc.CreateItem(&catalog.CreateItemRequest{SKU: "W-1", Name: "Other"})
		assert.True(t, apperrors.IsKind(err, apperrors.KindDuplicate))
	})

	t.Run("duplicate name", func(t *testing.T) {
		_, svc := newTestService(t)

		_, err := svc.CreateItem(&catalog.CreateItemRequest{SKU: "W-1", Name: "Widget"})
		require.NoError(t, err)
		_, err = svc.CreateItem(&catalog.CreateItemRequest{SKU: "W-2", Name: "Widget"})
		assert.True(t, apperrors.IsKind(err, apperrors.KindDuplicate))
	})

	t.Run("unknown category", func(t *testing.T) {
		_, svc := newTestService(t)

		categoryID := uint(99)
		_, err := svc.CreateItem(&catalog.CreateItemRequest{SKU: "W-1", Name: "Widget", CategoryID: &categoryID})
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("negative min stock", func(t *testing.T) {
		_, svc := newTestService(t)

		_, err := svc.CreateItem(&catalog.CreateItemRequest{SKU: "W-1", Name: "Widget", MinStock: -1})
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
	})
}

func TestUpdateItem(t *testing.T) {
	_, svc := newTestService(t)

	item, err := svc.CreateItem(&catalog.CreateItemRequest{SKU: "W-1", Name: "Widget"})
	require.NoError(t, err)

	name := "Widget Mk II"
	minStock := int64(5)
	inactive := false
	updated, err := svc.UpdateItem(item.ID, &catalog.UpdateItemRequest{
		Name: &name, MinStock: &minStock, IsActive: &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "Widget Mk II", updated.Name)
	assert.Equal(t, int64(5), updated.MinStock)
	assert.False(t, updated.IsActive)
}

func TestDeleteItem(t *testing.T) {
	t.Run("clean item can be deleted", func(t *testing.T) {
		_, svc := newTestService(t)

		item, err := svc.CreateItem(&catalog.CreateItemRequest{SKU: "W-1", Name: "Widget"})
		require.NoError(t, err)

		require.NoError(t, svc.DeleteItem(item.ID))
		_, err = svc.GetItem(item.ID)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})

	t.Run("ledger history blocks deletion", func(t *testing.T) {
		db, svc := newTestService(t)

		item, err := svc.CreateItem(&catalog.CreateItemRequest{SKU: "W-1", Name: "Widget"})
		require.NoError(t, err)

		_, err = inventory.Append(db, inventory.AppendRequest{
			ItemID: item.ID, Type: inventory.LogTypeIn, Quantity: 5, Provision: "receive",
		})
		require.NoError(t, err)

		err = svc.DeleteItem(item.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
		assert.Contains(t, err.Error(), "deactivate")
	})
}

func TestCategories(t *testing.T) {
	_, svc := newTestService(t)

	created, err := svc.CreateCategory(&catalog.CreateCategoryRequest{Name: "Hardware"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(&catalog.CreateCategoryRequest{Name: "Hardware"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindDuplicate))

	categories, err := svc.ListCategories()
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, created.ID, categories[0].ID)
}
