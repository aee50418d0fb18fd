// internal/domain/inventory/ledger.go
package inventory

import (
	"strings"

	"github.com/your-org/backoffice-backend/internal/pkg/apperrors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AppendRequest describes one ledger append. For in/out, Quantity is the
// delta; for adjustment it is the target stock.
type AppendRequest struct {
	ItemID          uint
	Type            LogType
	Quantity        int64
	Provision       string
	Note            string
	CreatedBy       uint
	IncomingOrderID *uint
	OutgoingOrderID *uint
}

// Append writes one inventory log entry inside the caller's transaction.
// It never commits; atomicity with the surrounding order mutation is the
// caller's responsibility.
//
// The latest-entry read takes a row lock so two concurrent appends for the
// same item cannot both compute their snapshot from the same predecessor.
func Append(tx *gorm.DB, req AppendRequest) (*InventoryLog, error) {
	if strings.TrimSpace(req.Provision) == "" {
		return nil, apperrors.Validation("provision is required")
	}

	last, err := latestEntryForUpdate(tx, req.ItemID)
	if err != nil {
		return nil, err
	}

	var current int64
	if last != nil {
		current = last.RunningStock
	}

	newStock, applied, err := NextStock(current, req.Type, req.Quantity)
	if err != nil {
		return nil, err
	}

	entry := &InventoryLog{
		ItemID:          req.ItemID,
		Type:            req.Type,
		Quantity:        applied,
		RunningStock:    newStock,
		Provision:       req.Provision,
		Note:            req.Note,
		CreatedBy:       req.CreatedBy,
		IncomingOrderID: req.IncomingOrderID,
		OutgoingOrderID: req.OutgoingOrderID,
	}

	if err := tx.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to record stock movement")
	}

	return entry, nil
}

// LatestEntry returns the most recent log entry for an item, or nil when the
// item has no history yet.
func LatestEntry(db *gorm.DB, itemID uint) (*InventoryLog, error) {
	var entry InventoryLog
	err := db.Where("item_id = ?", itemID).
		Order("created_at DESC, id DESC").
		First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to read inventory log")
	}
	return &entry, nil
}

// StockOf returns the derived current stock for an item: the running-stock
// snapshot of the latest entry, or 0 when no entries exist.
func StockOf(db *gorm.DB, itemID uint) (int64, error) {
	entry, err := LatestEntry(db, itemID)
	if err != nil {
		return 0, err
	}
	if entry == nil {
		return 0, nil
	}
	return entry.RunningStock, nil
}

// latestEntryForUpdate reads the latest entry under a row lock, serializing
// concurrent appends against the same item. SQLite has no SELECT FOR UPDATE;
// its single-writer transactions give the same guarantee.
func latestEntryForUpdate(tx *gorm.DB, itemID uint) (*InventoryLog, error) {
	query := tx
	if tx.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var entry InventoryLog
	err := query.
		Where("item_id = ?", itemID).
		Order("created_at DESC, id DESC").
		First(&entry).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindInternal, err, "failed to read inventory log")
	}
	return &entry, nil
}
