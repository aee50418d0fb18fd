// internal/interfaces/http/handlers/report.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/your-org/backoffice-backend/internal/config"
	"github.com/your-org/backoffice-backend/internal/domain/report"
	"gorm.io/gorm"
)

// ReportHandler handles read-only reporting endpoints
type ReportHandler struct {
	reportService *report.Service
	config        *config.Config
}

// NewReportHandler creates a new report handler
func NewReportHandler(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *ReportHandler {
	return &ReportHandler{
		reportService: report.NewService(db, redisClient, cfg),
		config:        cfg,
	}
}

// GetDashboard handles GET /reports/dashboard
func (h *ReportHandler) GetDashboard(c *gin.Context) {
	summary, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": summary})
}

// GetStockLevels handles GET /reports/stock
func (h *ReportHandler) GetStockLevels(c *gin.Context) {
	levels, err := h.reportService.StockLevels()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": levels})
}

// GetLowStock handles GET /reports/stock/low
func (h *ReportHandler) GetLowStock(c *gin.Context) {
	low, err := h.reportService.LowStock()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": low})
}
