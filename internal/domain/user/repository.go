package user

import (
	"context"

	"household/internal/domain/category"
)

// Repository defines the interface for user data access
type Repository interface {
	// Create inserts the user and its starting categories in one transaction.
	Create(ctx context.Context, params CreateUserParams, categories []category.CreateCategoryParams) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ListActive(ctx context.Context) ([]*User, error)
}
