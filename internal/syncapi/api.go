// Package syncapi defines the JSON wire types shared by the sync client and
// the sync endpoint. Timestamps travel as RFC 3339 UTC; money amounts are
// integer minor units. The local-only dirty flag never appears here.
package syncapi

import "time"

// MenuChange is one menu row on the wire. DeletedAt carries a tombstone;
// tombstoned rows are pushed and pulled like any other row so every device
// learns of the deletion.
type MenuChange struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Price      int64      `json:"price"`
	Category   string     `json:"category"`
	OccurredAt time.Time  `json:"occurred_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at"`
}

// TransactionChange is one transaction row on the wire.
type TransactionChange struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Amount     int64      `json:"amount"`
	Quantity   int64      `json:"quantity"`
	UnitPrice  int64      `json:"unit_price"`
	MenuID     *string    `json:"menu_id"`
	OccurredAt time.Time  `json:"occurred_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at"`
}

// Transaction types.
const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// ChangeSet groups changed rows by record kind.
type ChangeSet struct {
	Menus        []MenuChange        `json:"menus"`
	Transactions []TransactionChange `json:"transactions"`
}

// PushRequest is the body of POST /sync/push.
type PushRequest struct {
	CompanyID string    `json:"company_id"`
	Changes   ChangeSet `json:"changes"`
}

// PushStats reports how many rows a push touched per kind.
type PushStats struct {
	Menus        int `json:"menus"`
	Transactions int `json:"transactions"`
}

// PushResponse acknowledges a push. ServerTime is the single clock value
// stamped on every row of the batch; the client rewrites updated_at of the
// pushed ids to it, establishing the new sync baseline.
type PushResponse struct {
	OK         bool      `json:"ok"`
	ServerTime time.Time `json:"server_time"`
	Stats      PushStats `json:"stats"`
}

// PullResponse returns every row (tombstones included) with
// updated_at >= since, ordered ascending by updated_at.
type PullResponse struct {
	OK           bool                `json:"ok"`
	ServerTime   time.Time           `json:"server_time"`
	Menus        []MenuChange        `json:"menus"`
	Transactions []TransactionChange `json:"transactions"`
}

// ErrorResponse is the body of any non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Wire error codes carried in ErrorResponse.Error.
const (
	CodeAuthError          = "auth_error"
	CodeNotMemberOfCompany = "not_member_of_company"
	CodeInvalidRequest     = "invalid_request"
	CodeInternalError      = "internal_error"
)
