// internal/domain/treasury/ledger.go
package treasury

import (
	"strings"

	"github.com/your-org/backoffice-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AppendRequest describes one treasury append. For in/out, Amount is the
// magnitude of the movement; for adjustment it is the target balance.
type AppendRequest struct {
	Type            LogType
	Amount          int64
	Provision       string
	Description     string
	CreatedBy       uint
	IncomingOrderID *uint
	OutgoingOrderID *uint
}

// Append writes one treasury log entry inside the caller's transaction. It
// never commits, so a failed order mutation rolls the cash movement back
// with it.
func Append(tx *gorm.DB, req AppendRequest) (*TreasuryLog, error) {
	if strings.TrimSpace(req.Provision) == "" {
		return nil, apperrors.Validation("provision is required")
	}
	if req.IncomingOrderID != nil && req.OutgoingOrderID != nil {
		return nil, apperrors.Validation("treasury entry can link to at most one order")
	}

	last, err := latestEntryForUpdate(tx)
	if err != nil {
		return nil, err
	}

	var current int64
	if last != nil {
		current = last.RunningBalance
	}

	newBalance, applied, err := NextBalance(current, req.Type, req.Amount)
	if err != nil {
		return nil, err
	}

	entry := &TreasuryLog{
		Type:            req.Type,
		Amount:          applied,
		RunningBalance:  newBalance,
		Provision:       req.Provision,
		Description:     req.Description,
		CreatedBy:       req.CreatedBy,
		IncomingOrderID: req.IncomingOrderID,
		OutgoingOrderID: req.OutgoingOrderID,
	}

	if err := tx.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to record cash movement")
	}

	return entry, nil
}

// LatestEntry returns the most recent treasury entry, or nil when the ledger
// is empty.
func LatestEntry(db *gorm.DB) (*TreasuryLog, error) {
	var entry TreasuryLog
	err := db.Order("created_at DESC, id DESC").First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to read treasury log")
	}
	return &entry, nil
}

// BalanceOf returns the derived current balance: the running-balance snapshot
// of the latest entry, or 0 when the ledger is empty.
func BalanceOf(db *gorm.DB) (int64, error) {
	entry, err := LatestEntry(db)
	if err != nil {
		return 0, err
	}
	if entry == nil {
		return 0, nil
	}
	return entry.RunningBalance, nil
}

// EntryForOrder finds the treasury entry linked to an order, or nil. Exactly
// one of incomingOrderID/outgoingOrderID should be set.
func EntryForOrder(db *gorm.DB, incomingOrderID, outgoingOrderID *uint) (*TreasuryLog, error) {
	var entry TreasuryLog
	query := db
	switch {
	case incomingOrderID != nil:
		query = query.Where("incoming_order_id = ?", *incomingOrderID)
	case outgoingOrderID != nil:
		query = query.Where("outgoing_order_id = ?", *outgoingOrderID)
	default:
		return nil, apperrors.Validation("order link is required")
	}

	err := query.Order("created_at DESC, id DESC").First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to read treasury log")
	}
	return &entry, nil
}

// latestEntryForUpdate reads the latest entry under a row lock, serializing
// concurrent appends against the global ledger. SQLite has no SELECT FOR
// UPDATE; its single-writer transactions give the same guarantee.
func latestEntryForUpdate(tx *gorm.DB) (*TreasuryLog, error) {
	query := tx
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var entry TreasuryLog
	err := query.
		Order("created_at DESC, id DESC").
		First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to read treasury log")
	}
	return &entry, nil
}
