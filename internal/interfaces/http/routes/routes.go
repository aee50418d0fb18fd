// internal/interfaces/http/routes/routes.go
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/backoffice-backend/internal/config"
	"github.com/your-org/backoffice-backend/internal/domain/user"
	"github.com/your-org/backoffice-backend/internal/interfaces/http/handlers"
	"github.com/your-org/backoffice-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// SetupRoutes wires all API routes. Everything except auth requires a valid
// token; mutation routes are additionally gated on permissions.
func SetupRoutes(api *gin.RouterGroup, db *gorm.DB, redisClient *redis.Client, cfg *config.Config) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	userAdminHandler := handlers.NewUserAdminHandler(db, cfg)
	itemHandler := handlers.NewItemHandler(db, cfg)
	categoryHandler := handlers.NewCategoryHandler(db, cfg)
	customerHandler := handlers.NewCustomerHandler(db, cfg)
	supplierHandler := handlers.NewSupplierHandler(db, cfg)
	inventoryHandler := handlers.NewInventoryHandler(db, cfg)
	treasuryHandler := handlers.NewTreasuryHandler(db, cfg)
	incomingHandler := handlers.NewIncomingOrderHandler(db, cfg)
	outgoingHandler := handlers.NewOutgoingOrderHandler(db, cfg)
	reportHandler := handlers.NewReportHandler(db, redisClient, cfg)

	// Public auth routes
	auth := api.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.RefreshToken)
		auth.POST("/logout", authHandler.Logout)
	}

	// Everything below requires authentication
	authed := api.Group("")
	authed.Use(middleware.AuthMiddleware(cfg, db))

	// Profile
	profile := authed.Group("/profile")
	{
		profile.GET("", authHandler.GetProfile)
		profile.PUT("", authHandler.UpdateProfile)
	}

	// User administration
	admin := authed.Group("/admin/users")
	admin.Use(middleware.RequirePermission(user.PermissionManageUsers))
	{
		admin.GET("", userAdminHandler.ListUsers)
		admin.PUT("/:id", userAdminHandler.UpdateUser)
	}

	// Catalog - reads are open to any authenticated user
	authed.GET("/items", itemHandler.ListItems)
	authed.GET("/items/:id", itemHandler.GetItem)
	authed.GET("/items/:id/history", itemHandler.GetItemHistory)
	authed.GET("/categories", categoryHandler.ListCategories)
	authed.GET("/categories/:id", categoryHandler.GetCategory)

	catalogWrite := authed.Group("")
	catalogWrite.Use(middleware.RequirePermission(user.PermissionManageCatalog))
	{
		catalogWrite.POST("/items", itemHandler.CreateItem)
		catalogWrite.PUT("/items/:id", itemHandler.UpdateItem)
		catalogWrite.DELETE("/items/:id", itemHandler.DeleteItem)
		catalogWrite.POST("/categories", categoryHandler.CreateCategory)
	}

	// Partners
	authed.GET("/customers", customerHandler.ListCustomers)
	authed.GET("/customers/:id", customerHandler.GetCustomer)
	authed.GET("/suppliers", supplierHandler.ListSuppliers)
	authed.GET("/suppliers/:id", supplierHandler.GetSupplier)

	partnerWrite := authed.Group("")
	partnerWrite.Use(middleware.RequirePermission(user.PermissionManagePartners))
	{
		partnerWrite.POST("/customers", customerHandler.CreateCustomer)
		partnerWrite.PUT("/customers/:id", customerHandler.UpdateCustomer)
		partnerWrite.PATCH("/customers/:id/active", customerHandler.SetCustomerActive)
		partnerWrite.POST("/suppliers", supplierHandler.CreateSupplier)
		partnerWrite.PUT("/suppliers/:id", supplierHandler.UpdateSupplier)
		partnerWrite.PATCH("/suppliers/:id/active", supplierHandler.SetSupplierActive)
	}

	// Orders
	orders := authed.Group("/orders")
	orders.Use(middleware.RequirePermission(user.PermissionManageOrders))
	{
		orders.POST("/incoming", incomingHandler.Create)
		orders.GET("/incoming", incomingHandler.List)
		orders.GET("/incoming/:id", incomingHandler.Get)
		orders.PUT("/incoming/:id", incomingHandler.Update)
		orders.PATCH("/incoming/:id/status", incomingHandler.UpdateStatus)
		orders.DELETE("/incoming/:id", incomingHandler.Delete)

		orders.POST("/outgoing", outgoingHandler.Create)
		orders.GET("/outgoing", outgoingHandler.List)
		orders.GET("/outgoing/:id", outgoingHandler.Get)
		orders.PUT("/outgoing/:id", outgoingHandler.Update)
		orders.PATCH("/outgoing/:id/status", outgoingHandler.UpdateStatus)
		orders.DELETE("/outgoing/:id", outgoingHandler.Delete)
	}

	// Inventory ledger
	inventoryGroup := authed.Group("/inventory")
	{
		inventoryGroup.GET("/logs", inventoryHandler.ListLogs)
		inventoryGroup.POST("/adjustments",
			middleware.RequirePermission(user.PermissionAdjustInventory),
			inventoryHandler.Adjust)
	}

	// Treasury ledger
	treasuryGroup := authed.Group("/treasury")
	treasuryGroup.Use(middleware.RequirePermission(user.PermissionManageTreasury))
	{
		treasuryGroup.GET("/balance", treasuryHandler.GetBalance)
		treasuryGroup.GET("/logs", treasuryHandler.ListLogs)
		treasuryGroup.POST("/transactions", treasuryHandler.Record)
	}

	// Reports
	reports := authed.Group("/reports")
	reports.Use(middleware.RequirePermission(user.PermissionViewReports))
	{
		reports.GET("/dashboard", reportHandler.GetDashboard)
		reports.GET("/stock", reportHandler.GetStockLevels)
		reports.GET("/stock/low", reportHandler.GetLowStock)
	}
}
