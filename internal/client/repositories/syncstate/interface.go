package syncstate

import (
	"context"
	"time"
)

// Repository persists the small cross-cycle sync state: the per-company
// pull cursor and the current device session.
type Repository interface {
	// GetCursor returns the last successfully applied server timestamp for
	// the company, or the zero time if the company never completed a pull.
	GetCursor(ctx context.Context, companyID string) (time.Time, error)

	// SetCursor advances the watermark. Only the orchestrator calls this,
	// and only after the whole pulled batch applied.
	SetCursor(ctx context.Context, companyID string, t time.Time) error

	// Get returns the raw value for a session key, or nil if absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a raw value under a session key.
	Set(ctx context.Context, key string, value []byte) error

	// Clear wipes all sync state (logout/reset).
	Clear(ctx context.Context) error
}

// Well-known session keys.
const (
	KeyToken     = "token"
	KeyCompanyID = "company_id"
	KeyServerURL = "server_url"
)
