package account

import "context"

// Repository defines the interface for account data access
// This interface is defined in the domain layer, but implemented in the infrastructure layer
type Repository interface {
	// Create inserts a new account with a zero balance
	Create(ctx context.Context, params CreateParams) (*Account, error)

	// GetByID retrieves an account by its ID
	GetByID(ctx context.Context, id string) (*Account, error)

	// ListByUserID retrieves the accounts of a user, optionally including deactivated ones
	ListByUserID(ctx context.Context, userID int64, includeInactive bool) ([]*Account, error)

	// SetStatus changes the lifecycle status without touching the balance
	SetStatus(ctx context.Context, id string, status Status) (*Account, error)
}
