package companies

import "context"

// Repository answers company membership questions for sync authorization.
type Repository interface {
	// IsMember reports whether the user belongs to the company.
	IsMember(ctx context.Context, companyID, userID string) (bool, error)
}
