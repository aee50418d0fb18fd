// internal/domain/partner/service_test.go
package partner

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/backoffice-backend/internal/config"
	"github.com/your-org/backoffice-backend/internal/pkg/apperrors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Customer{}, &Supplier{}))
	return NewService(db, &config.Config{})
}

func TestCustomers(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.CreateCustomer(&CustomerRequest{Name: "Acme Retail", Email: "buy@acme.test"})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	t.Run("duplicate name rejected", func(t *testing.T) {
		_, err := svc.CreateCustomer(&CustomerRequest{Name: "Acme Retail"})
		assert.True(t, apperrors.IsKind(err, apperrors.KindDuplicate))
	})

	t.Run("update keeps identity", func(t *testing.T) {
		updated, err := svc.UpdateCustomer(created.ID, &CustomerRequest{Name: "Acme Retail", Phone: "555-0100"})
		require.NoError(t, err)
		assert.Equal(t, created.ID, updated.ID)
		assert.Equal(t, "555-0100", updated.Phone)
	})

	t.Run("deactivation filters from active list", func(t *testing.T) {
		require.NoError(t, svc.SetCustomerActive(created.ID, false))

		active, total, err := svc.ListCustomers(&ListRequest{Page: 1, Limit: 20, ActiveOnly: true})
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)
		assert.Empty(t, active)

		all, total, err := svc.ListCustomers(&ListRequest{Page: 1, Limit: 20})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, all, 1)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.GetCustomer(99)
		assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
	})
}

func TestSuppliers(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.CreateSupplier(&SupplierRequest{Name: "Global Parts", ContactPerson: "Sam Lee"})
	require.NoError(t, err)
	assert.True(t, created.IsActive)

	_, err = svc.CreateSupplier(&SupplierRequest{Name: "Global Parts"})
	assert.True(t, apperrors.IsKind(err, apperrors.KindDuplicate))

	suppliers, total, err := svc.ListSuppliers(&ListRequest{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, suppliers, 1)
	assert.Equal(t, "Sam Lee", suppliers[0].ContactPerson)
}
