// Package remote implements the HTTP client for the sync endpoint.
package remote

import (
	"context"
	"time"

	"github.com/kasku-app/kasku/internal/syncapi"
)

// Client is the device's view of the remote authoritative store.
type Client interface {
	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, email, password string) (string, error)

	// Push uploads one batch of dirty rows. Idempotent by record id; safe
	// to retry after a lost acknowledgement.
	Push(ctx context.Context, req *syncapi.PushRequest) (*syncapi.PushResponse, error)

	// Pull downloads every row changed since the watermark, tombstones
	// included. A zero since means "from the epoch".
	Pull(ctx context.Context, companyID string, since time.Time) (*syncapi.PullResponse, error)

	// Ping checks server liveness.
	Ping(ctx context.Context) error
}
