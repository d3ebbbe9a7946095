// Package mirror keeps the legacy incomes/expenses tables consistent with
// the unified ledger. The projection itself is a pure function so it can be
// tested without a database; the applier wraps a whole pulled batch in one
// transaction.
package mirror

import (
	"github.com/kasku-app/kasku/internal/client/models"
)

// OpKind classifies what the applier must do with a projected row.
type OpKind int

const (
	// OpNone: nothing to mirror (e.g. deletion of a never-mirrored record).
	OpNone OpKind = iota
	// OpInsert: add a legacy row and record a new mapping.
	OpInsert
	// OpUpdate: rewrite the mapped legacy row in place.
	OpUpdate
	// OpDelete: remove the mapped legacy row and its mapping.
	OpDelete
)

// RowOp is the outcome of projecting one unified transaction onto the
// legacy schema.
type RowOp struct {
	Kind     OpKind
	Table    string
	RecordID string
	// RowID is set for OpUpdate and OpDelete (the mapped legacy row).
	RowID int64
	// Entry is populated for OpInsert and OpUpdate.
	Entry models.LegacyEntry
}

// Project computes the legacy-row operation for one pulled transaction.
// mapping is the existing remote-id mapping or nil; menu is the locally
// resolved menu for t.MenuID or nil. A transaction whose menu reference
// does not resolve is demoted to a free-text legacy entry rather than
// failing the batch.
func Project(t *models.Transaction, mapping *models.RemoteIDMap, menu *models.Menu) RowOp {
	if t.Deleted() {
		if mapping == nil {
			return RowOp{Kind: OpNone, RecordID: t.ID}
		}
		return RowOp{Kind: OpDelete, Table: mapping.LegacyTable, RecordID: t.ID, RowID: mapping.LegacyRowID}
	}

	entry := models.LegacyEntry{
		Name:       t.Name,
		Quantity:   t.Quantity,
		UnitPrice:  deriveUnitPrice(t),
		Total:      t.Amount,
		OccurredAt: t.OccurredAt,
	}
	if menu != nil && !menu.Deleted() {
		entry.Name = menu.Name
		entry.MenuRef = menu.ID
	}

	table := tableForType(t.Type)
	if mapping == nil {
		return RowOp{Kind: OpInsert, Table: table, RecordID: t.ID, Entry: entry}
	}
	// The mapped table always matches the transaction type: the type is
	// immutable once the line is written, so updates stay in place.
	return RowOp{Kind: OpUpdate, Table: mapping.LegacyTable, RecordID: t.ID, RowID: mapping.LegacyRowID, Entry: entry}
}

// deriveUnitPrice keeps the server-supplied unit price when present,
// otherwise derives it as amount over quantity (quantity floored at 1).
func deriveUnitPrice(t *models.Transaction) int64 {
	if t.UnitPrice > 0 {
		return t.UnitPrice
	}
	q := t.Quantity
	if q < 1 {
		q = 1
	}
	return t.Amount / q
}

func tableForType(transactionType string) string {
	if transactionType == "income" {
		return models.LegacyTableIncomes
	}
	return models.LegacyTableExpenses
}
