// internal/domain/treasury/calculator.go
package treasury

import (
	"github.com/your-org/backoffice-backend/internal/pkg/apperrors"
)

// CurrentBalance derives the cash balance from the ordered log history. The
// running-balance snapshot of the last entry is authoritative; amounts are
// never re-summed.
func CurrentBalance(logs []TreasuryLog) int64 {
	if len(logs) == 0 {
		return 0
	}
	return logs[len(logs)-1].RunningBalance
}

// NextBalance computes the balance resulting from one movement. For
// adjustments, amount is the target balance; the returned applied value is
// the magnitude of the change, which is what gets stored on the entry.
// Movements that would drive the balance negative are rejected; IN has no
// upper bound.
func NextBalance(current int64, logType LogType, amount int64) (newBalance, applied int64, err error) {
	switch logType {
	case LogTypeIn:
		if amount <= 0 {
			return 0, 0, apperrors.Validation("amount must be positive")
		}
		return current + amount, amount, nil

	case LogTypeOut:
		if amount <= 0 {
			return 0, 0, apperrors.Validation("amount must be positive")
		}
		if amount > current {
			return 0, 0, apperrors.InsufficientFunds(current, amount)
		}
		return current - amount, amount, nil

	case LogTypeAdjustment:
		if amount < 0 {
			return 0, 0, apperrors.InsufficientFunds(current, amount)
		}
		applied = amount - current
		if applied < 0 {
			applied = -applied
		}
		return amount, applied, nil

	default:
		return 0, 0, apperrors.Validation("invalid movement type: %s", logType)
	}
}
