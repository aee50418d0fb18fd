// internal/domain/treasury/calculator_test.go
package treasury

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/your-org/backoffice-backend/internal/pkg/apperrors"
)

func TestCurrentBalance(t *testing.T) {
	assert.Equal(t, int64(0), CurrentBalance(nil))

	logs := []TreasuryLog{
		{Type: LogTypeIn, Amount: 10000, RunningBalance: 10000},
		{Type: LogTypeOut, Amount: 2500, RunningBalance: 7500},
	}
	assert.Equal(t, int64(7500), CurrentBalance(logs))
}

func TestNextBalance(t *testing.T) {
	tests := []struct {
		name        string
		current     int64
		logType     LogType
		amount      int64
		wantBalance int64
		wantApplied int64
		wantKind    apperrors.Kind
	}{
		{name: "in has no upper bound", current: 0, logType: LogTypeIn, amount: 1000000, wantBalance: 1000000, wantApplied: 1000000},
		{name: "in rejects zero", current: 100, logType: LogTypeIn, amount: 0, wantKind: apperrors.KindValidation},

		{name: "out within balance", current: 10000, logType: LogTypeOut, amount: 2500, wantBalance: 7500, wantApplied: 2500},
		{name: "out to exactly zero", current: 100, logType: LogTypeOut, amount: 100, wantBalance: 0, wantApplied: 100},
		{name: "out beyond balance", current: 10000, logType: LogTypeOut, amount: 15000, wantKind: apperrors.KindInsufficientFunds},
		{name: "out from empty", current: 0, logType: LogTypeOut, amount: 1, wantKind: apperrors.KindInsufficientFunds},

		{name: "adjustment up", current: 4000, logType: LogTypeAdjustment, amount: 10000, wantBalance: 10000, wantApplied: 6000},
		{name: "adjustment down", current: 10000, logType: LogTypeAdjustment, amount: 4000, wantBalance: 4000, wantApplied: 6000},
		{name: "adjustment negative target", current: 10000, logType: LogTypeAdjustment, amount: -1, wantKind: apperrors.KindInsufficientFunds},

		{name: "unknown type", current: 100, logType: "transfer", amount: 1, wantKind: apperrors.KindValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balance, applied, err := NextBalance(tt.current, tt.logType, tt.amount)
			if tt.wantKind != "" {
				assert.Error(t, err)
				assert.True(t, apperrors.IsKind(err, tt.wantKind))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.wantBalance, balance)
			assert.Equal(t, tt.wantApplied, applied)
		})
	}
}
