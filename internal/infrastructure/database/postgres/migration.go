// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/backoffice-backend/internal/domain/catalog"
	"github.com/your-org/backoffice-backend/internal/domain/inventory"
	"github.com/your-org/backoffice-backend/internal/domain/order"
	"github.com/your-org/backoffice-backend/internal/domain/partner"
	"github.com/your-org/backoffice-backend/internal/domain/treasury"
	"github.com/your-org/backoffice-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	// Define all models that need migration in dependency order
	models := []interface{}{
		// User domain
		&user.User{},

		// Catalog domain
		&catalog.Category{},
		&catalog.Item{},

		// Partner domain
		&partner.Customer{},
		&partner.Supplier{},

		// Order domain - references partners and items
		&order.IncomingOrder{},
		&order.IncomingOrderItem{},
		&order.OutgoingOrder{},
		&order.OutgoingOrderItem{},

		// Ledgers - reference items and orders
		&inventory.InventoryLog{},
		&treasury.TreasuryLog{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)",

		// Item indexes
		"CREATE INDEX IF NOT EXISTS idx_items_category_active ON items(category_id, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_items_sku ON items(sku)",
		"CREATE INDEX IF NOT EXISTS idx_items_name ON items(name)",

		// Partner indexes
		"CREATE INDEX IF NOT EXISTS idx_customers_name ON customers(name)",
		"CREATE INDEX IF NOT EXISTS idx_suppliers_name ON suppliers(name)",

		// Order indexes
		"CREATE INDEX IF NOT EXISTS idx_incoming_orders_status_created ON incoming_orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_incoming_orders_supplier ON incoming_orders(supplier_id)",
		"CREATE INDEX IF NOT EXISTS idx_outgoing_orders_status_created ON outgoing_orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_outgoing_orders_customer ON outgoing_orders(customer_id)",

		// Ledger indexes - the latest-entry read drives everything
		"CREATE INDEX IF NOT EXISTS idx_inventory_logs_item_latest ON inventory_logs(item_id, created_at DESC, id DESC)",
		"CREATE INDEX IF NOT EXISTS idx_inventory_logs_incoming_order ON inventory_logs(incoming_order_id)",
		"CREATE INDEX IF NOT EXISTS idx_inventory_logs_outgoing_order ON inventory_logs(outgoing_order_id)",
		"CREATE INDEX IF NOT EXISTS idx_treasury_logs_latest ON treasury_logs(created_at DESC, id DESC)",
		"CREATE INDEX IF NOT EXISTS idx_treasury_logs_incoming_order ON treasury_logs(incoming_order_id)",
		"CREATE INDEX IF NOT EXISTS idx_treasury_logs_outgoing_order ON treasury_logs(outgoing_order_id)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("⚠️ Failed to create index: %v", err)
			failCount++
		} else {
			successCount++
		}
	}

	log.Printf("✅ Created %d indexes successfully (%d failed)", successCount, failCount)
	return nil
}

// SeedInitialData inserts initial data into the database
func (m *Migration) SeedInitialData() error {
	log.Println("🌱 Seeding initial data...")

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

func (m *Migration) seedAdminUser() error {
	log.Println("👤 Seeding admin user...")

	var existing user.User
	result := m.db.Where("email = ?", "admin@example.com").First(&existing)
	if result.Error == nil {
		log.Println("⏭️ Admin user already exists")
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	adminUser := user.User{
		Email:     "admin@example.com",
		Password:  string(hashedPassword),
		FirstName: "Admin",
		LastName:  "User",
		Role:      user.RoleAdmin,
		IsActive:  true,
	}

	if err := m.db.Create(&adminUser).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Println("✅ Created admin user: admin@example.com (password: admin123)")
	return nil
}

// GetTableInfo returns row counts for the application tables
func (m *Migration) GetTableInfo() (map[string]int64, error) {
	tables := []string{
		"users", "categories", "items", "customers", "suppliers",
		"incoming_orders", "incoming_order_items",
		"outgoing_orders", "outgoing_order_items",
		"inventory_logs", "treasury_logs",
	}

	info := make(map[string]int64)
	for _, table := range tables {
		var count int64
		if err := m.db.Table(table).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count table %s: %w", table, err)
		}
		info[table] = count
	}

	return info, nil
}
