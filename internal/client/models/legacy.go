package models

import "time"

// Legacy mirror table names. The two per-category tables pre-date the
// unified schema and are kept consistent by the mirror adapter for
// consumers that still query the old shape.
const (
	LegacyTableIncomes  = "incomes"
	LegacyTableExpenses = "expenses"
)

// LegacyEntry is one row of an incomes/expenses table. Rows are keyed by a
// local auto-increment id, not by the unified UUID.
type LegacyEntry struct {
	RowID    int64
	Name     string
	Quantity int64
	// UnitPrice is derived when the server did not supply one.
	UnitPrice int64
	Total     int64
	// MenuRef holds the unified menu id when the line resolved to a local
	// menu; empty means a free-text entry.
	MenuRef    string
	OccurredAt time.Time
}

// RemoteIDMap links a unified-store id to the legacy row it is mirrored
// into, so repeated pulls update rather than duplicate.
type RemoteIDMap struct {
	RecordID    string
	LegacyTable string
	LegacyRowID int64
}
