// internal/interfaces/http/handlers/treasury.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/backoffice-backend/internal/config"
	"github.com/your-org/backoffice-backend/internal/domain/treasury"
	"github.com/your-org/backoffice-backend/internal/interfaces/http/middleware"
	"gorm.io/gorm"
)

// TreasuryHandler handles treasury ledger endpoints
type TreasuryHandler struct {
	treasuryService *treasury.Service
	config          *config.Config
}

// NewTreasuryHandler creates a new treasury handler
func NewTreasuryHandler(db *gorm.DB, cfg *config.Config) *TreasuryHandler {
	return &TreasuryHandler{
		treasuryService: treasury.NewService(db, cfg),
		config:          cfg,
	}
}

// Record handles POST /treasury/transactions for manual cash movements
func (h *TreasuryHandler) Record(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req treasury.TransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	entry, err := h.treasuryService.Record(&req, userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Cash movement recorded",
		"data":    entry,
	})
}

// GetBalance handles GET /treasury/balance
func (h *TreasuryHandler) GetBalance(c *gin.Context) {
	balance, err := h.treasuryService.Balance()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"balance":  balance,
		"currency": h.config.Company.Currency,
	})
}

// ListLogs handles GET /treasury/logs
func (h *TreasuryHandler) ListLogs(c *gin.Context) {
	var req treasury.LogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBindError(c, err)
		return
	}

	response, err := h.treasuryService.ListLogs(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": response})
}
