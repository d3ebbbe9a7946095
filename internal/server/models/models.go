// Package models defines server-side rows for the shared authoritative store.
package models

import "time"

// User is an account that can belong to one or more companies.
type User struct {
	ID           string
	Email        string
	PasswordHash string
}

// Session is one issued bearer session. The token the client holds is a
// JWT whose claims name this row; resolving the token loads it and checks
// the expiry.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}

// MenuRow is a menu record scoped to a company. updated_at carries the
// server clock stamped at the last accepted push and is the pull-delta key.
type MenuRow struct {
	ID         string
	CompanyID  string
	Name       string
	Price      int64
	Category   string
	OccurredAt time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}

// TransactionRow is a transaction record scoped to a company.
type TransactionRow struct {
	ID         string
	CompanyID  string
	Name       string
	Type       string
	Amount     int64
	Quantity   int64
	UnitPrice  int64
	MenuID     *string
	OccurredAt time.Time
	UpdatedAt  time.Time
	DeletedAt  *time.Time
}
