package sessions

import (
	"context"

	"github.com/kasku-app/kasku/internal/server/models"
)

// Repository persists issued bearer sessions.
type Repository interface {
	// Create stores a new session row.
	Create(ctx context.Context, s *models.Session) error

	// GetByID returns the session, or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Session, error)
}
