// internal/domain/inventory/calculator.go
package inventory

import (
	"github.com/your-org/backoffice-backend/internal/pkg/apperrors"
)

// CurrentStock derives an item's stock from its ordered log history. The
// running-stock snapshot of the last entry is authoritative; quantities are
// never re-summed, because an adjustment entry's quantity does not combine
// algebraically with prior stock.
func CurrentStock(logs []InventoryLog) int64 {
	if len(logs) == 0 {
		return 0
	}
	return logs[len(logs)-1].RunningStock
}

// NextStock computes the stock resulting from applying one movement to the
// current stock. For adjustments, quantity is the target stock; the returned
// applied value is the magnitude of the change, which is what gets stored on
// the entry for audit purposes.
func NextStock(current int64, logType LogType, quantity int64) (newStock, applied int64, err error) {
	switch logType {
	case LogTypeIn:
		if quantity <= 0 {
			return 0, 0, apperrors.Validation("quantity must be positive")
		}
		return current + quantity, quantity, nil

	case LogTypeOut:
		if quantity <= 0 {
			return 0, 0, apperrors.Validation("quantity must be positive")
		}
		if quantity > current {
			return 0, 0, apperrors.New(apperrors.KindInsufficientStock,
				"insufficient stock: available %d, requested %d", current, quantity)
		}
		return current - quantity, quantity, nil

	case LogTypeAdjustment:
		if quantity < 0 {
			return 0, 0, apperrors.New(apperrors.KindInsufficientStock,
				"insufficient stock: cannot adjust below zero (target %d)", quantity)
		}
		applied = quantity - current
		if applied < 0 {
			applied = -applied
		}
		return quantity, applied, nil

	default:
		return 0, 0, apperrors.Validation("invalid movement type: %s", logType)
	}
}
