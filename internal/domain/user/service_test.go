package user

import (
	"context"
	"errors"
	"testing"

	"household/internal/domain/category"
	"household/internal/shared/auth"
)

type MockRepository struct {
	CreateFunc     func(ctx context.Context, params CreateUserParams, categories []category.CreateCategoryParams) (*User, error)
	GetByIDFunc    func(ctx context.Context, id int64) (*User, error)
	GetByEmailFunc func(ctx context.Context, email string) (*User, error)
	ListActiveFunc func(ctx context.Context) ([]*User, error)
}

func (m *MockRepository) Create(ctx context.Context, params CreateUserParams, categories []category.CreateCategoryParams) (*User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params, categories)
	}
	return &User{ID: 1, Email: params.Email, Nickname: params.Nickname, Status: StatusActive}, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id int64) (*User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrUserNotFound
}

func (m *MockRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, ErrUserNotFound
}

func (m *MockRepository) ListActive(ctx context.Context) ([]*User, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx)
	}
	return nil, nil
}

func TestService_Register(t *testing.T) {
	var gotParams CreateUserParams
	var gotCategories []category.CreateCategoryParams
	repo := &MockRepository{
		CreateFunc: func(ctx context.Context, params CreateUserParams, categories []category.CreateCategoryParams) (*User, error) {
			gotParams = params
			gotCategories = categories
			return &User{ID: 7, Email: params.Email, Status: StatusActive}, nil
		},
	}

	u, err := NewService(repo).Register(context.Background(), RegisterParams{
		Email:    "  Kim@Example.com ",
		Password: "password123",
		Nickname: "kim",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if u.ID != 7 {
		t.Errorf("ID = %d, want 7", u.ID)
	}
	if gotParams.Email != "kim@example.com" {
		t.Errorf("email = %q, want normalized", gotParams.Email)
	}
	if err := auth.VerifyPassword(gotParams.PasswordHash, "password123"); err != nil {
		t.Errorf("stored hash does not verify: %v", err)
	}
	if len(gotCategories) != len(category.Defaults()) {
		t.Errorf("seeded %d categories, want %d", len(gotCategories), len(category.Defaults()))
	}
}

func TestService_Register_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		params RegisterParams
	}{
		{name: "missing email", params: RegisterParams{Password: "password123", Nickname: "kim"}},
		{name: "bad email", params: RegisterParams{Email: "not-an-email", Password: "password123", Nickname: "kim"}},
		{name: "short password", params: RegisterParams{Email: "a@b.com", Password: "short", Nickname: "kim"}},
		{name: "missing nickname", params: RegisterParams{Email: "a@b.com", Password: "password123"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockRepository{
				CreateFunc: func(ctx context.Context, params CreateUserParams, categories []category.CreateCategoryParams) (*User, error) {
					t.Error("Create should not be called")
					return nil, nil
				},
			}
			_, err := NewService(repo).Register(context.Background(), tt.params)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Register() error = %v, want %v", err, ErrInvalidInput)
			}
		})
	}
}

func TestService_Register_EmailTaken(t *testing.T) {
	repo := &MockRepository{
		CreateFunc: func(ctx context.Context, params CreateUserParams, categories []category.CreateCategoryParams) (*User, error) {
			return nil, ErrEmailTaken
		},
	}
	_, err := NewService(repo).Register(context.Background(), RegisterParams{Email: "a@b.com", Password: "password123", Nickname: "kim"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("Register() error = %v, want %v", err, ErrEmailTaken)
	}
}
