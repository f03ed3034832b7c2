package category

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, userID int64, params CreateCategoryParams) (*Category, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	// ListByUserID lists a user's categories; an empty typ lists both kinds.
	ListByUserID(ctx context.Context, userID int64, typ Type) ([]*Category, error)
	Update(ctx context.Context, id string, params UpdateCategoryParams) (*Category, error)
	Delete(ctx context.Context, id string) error
}
