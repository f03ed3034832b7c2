package user

import (
	"context"
	"errors"
	"fmt"

	"household/internal/domain/category"
	"household/internal/shared/auth"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates an active user with a bcrypt password hash and seeds the
// default categories alongside it.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*User, error) {
	params.Normalize()
	if err := params.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	hash, err := auth.HashPassword(params.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	return s.repo.Create(ctx, CreateUserParams{
		Email:        params.Email,
		PasswordHash: hash,
		Nickname:     params.Nickname,
		PhoneNumber:  params.PhoneNumber,
	}, category.Defaults())
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// ListActive returns the owners the analysis job runs for.
func (s *Service) ListActive(ctx context.Context) ([]*User, error) {
	return s.repo.ListActive(ctx)
}
