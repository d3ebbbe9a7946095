// Package models defines the on-device data models for the unified ledger
// and its legacy mirror.
package models

import "time"

// Menu is a sellable item in the unified ledger.
type Menu struct {
	// ID is a client-generated UUID, assigned at creation and immutable.
	// It is the idempotency key for every upsert, local and remote.
	ID string

	Name     string
	Price    int64
	Category string

	// OccurredAt is the business-meaningful timestamp, independent of the
	// sync machinery.
	OccurredAt time.Time

	// CreatedAt is set once at local creation.
	CreatedAt time.Time

	// UpdatedAt is stamped on every local mutation and rewritten to the
	// server clock after a confirmed push.
	UpdatedAt time.Time

	// DeletedAt marks a soft delete. The row stays in the store as a
	// tombstone so the deletion itself can be synchronized.
	DeletedAt *time.Time

	// Dirty means "changed locally since the last confirmed sync".
	Dirty bool
}

// Transaction is a single income or expense line in the unified ledger.
type Transaction struct {
	ID string

	Name string
	// Type is "income" or "expense".
	Type      string
	Amount    int64
	Quantity  int64
	UnitPrice int64
	// MenuID optionally links the line to a Menu. The reference may dangle
	// on a device that never pulled the menu; consumers must tolerate that.
	MenuID *string

	OccurredAt time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
	Dirty      bool
}

// Deleted reports whether the menu is tombstoned.
func (m *Menu) Deleted() bool { return m.DeletedAt != nil }

// Deleted reports whether the transaction is tombstoned.
func (t *Transaction) Deleted() bool { return t.DeletedAt != nil }
