package users

import (
	"context"

	"github.com/kasku-app/kasku/internal/server/models"
)

// Repository describes user account lookups used by the login flow.
type Repository interface {
	// GetByEmail returns the user for the email, or common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
