package category

import (
	"context"
	"errors"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, userID int64, params CreateCategoryParams) (*Category, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return s.repo.Create(ctx, userID, params)
}

// Get returns a category owned by userID. Categories of other users yield ErrForbidden.
func (s *Service) Get(ctx context.Context, id string, userID int64) (*Category, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != userID {
		return nil, ErrForbidden
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, userID int64, typ Type) ([]*Category, error) {
	if typ != "" && !typ.Valid() {
		return nil, ErrInvalidType
	}
	return s.repo.ListByUserID(ctx, userID, typ)
}

func (s *Service) Update(ctx context.Context, id string, userID int64, params UpdateCategoryParams) (*Category, error) {
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if _, err := s.Get(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, params)
}

// Delete removes a category. Categories still referenced by transactions
// are refused with ErrCategoryInUse by the repository.
func (s *Service) Delete(ctx context.Context, id string, userID int64) error {
	if _, err := s.Get(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// EnsureOwned checks that id names a category of userID. A category of
// another user is reported as not found so its existence is not revealed.
func (s *Service) EnsureOwned(ctx context.Context, id string, userID int64) error {
	_, err := s.Get(ctx, id, userID)
	if errors.Is(err, ErrForbidden) {
		return fmt.Errorf("%w: %s", ErrCategoryNotFound, id)
	}
	return err
}
