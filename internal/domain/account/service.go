package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Service contains the business logic for account operations
type Service struct {
	repo Repository
}

// NewService creates a new account service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateAccount opens a new account for userID. The balance starts at zero.
func (s *Service) CreateAccount(ctx context.Context, params CreateParams) (*Account, error) {
	if params.ID == "" {
		params.ID = uuid.NewString()
	}
	params.Normalize()

	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return s.repo.Create(ctx, params)
}

// GetAccount retrieves an account by ID and verifies user ownership
func (s *Service) GetAccount(ctx context.Context, accountID string, userID int64) (*Account, error) {
	acc, err := s.repo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if !acc.OwnedBy(userID) {
		return nil, ErrForbidden
	}

	return acc, nil
}

// ListAccounts returns the user's active accounts.
func (s *Service) ListAccounts(ctx context.Context, userID int64) ([]*Account, error) {
	if userID <= 0 {
		return nil, errors.New("valid user ID is required")
	}

	return s.repo.ListByUserID(ctx, userID, false)
}

// DeactivateAccount soft-deletes an account. Its balance and transaction
// history are left untouched. Deactivating twice is a no-op.
func (s *Service) DeactivateAccount(ctx context.Context, accountID string, userID int64) (*Account, error) {
	acc, err := s.GetAccount(ctx, accountID, userID)
	if err != nil {
		return nil, err
	}

	if !acc.IsActive() {
		return acc, nil
	}

	return s.repo.SetStatus(ctx, accountID, StatusDeactivated)
}
