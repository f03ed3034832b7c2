package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// MockRepository is a mock implementation of Repository interface
type MockRepository struct {
	CreateFunc       func(ctx context.Context, params CreateParams) (*Account, error)
	GetByIDFunc      func(ctx context.Context, id string) (*Account, error)
	ListByUserIDFunc func(ctx context.Context, userID int64, includeInactive bool) ([]*Account, error)
	SetStatusFunc    func(ctx context.Context, id string, status Status) (*Account, error)
}

func (m *MockRepository) Create(ctx context.Context, params CreateParams) (*Account, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, params)
	}
	return nil, nil
}

func (m *MockRepository) GetByID(ctx context.Context, id string) (*Account, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, ErrAccountNotFound
}

func (m *MockRepository) ListByUserID(ctx context.Context, userID int64, includeInactive bool) ([]*Account, error) {
	if m.ListByUserIDFunc != nil {
		return m.ListByUserIDFunc(ctx, userID, includeInactive)
	}
	return nil, nil
}

func (m *MockRepository) SetStatus(ctx context.Context, id string, status Status) (*Account, error) {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, id, status)
	}
	return nil, nil
}

func TestCreateAccount(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		params  CreateParams
		mock    func() *MockRepository
		wantErr bool
		errType error
	}{
		{
			name: "Success",
			params: CreateParams{
				UserID:        1,
				Name:          "  생활비 통장 ",
				BankName:      "국민은행",
				AccountNumber: "123-456-789",
			},
			mock: func() *MockRepository {
				return &MockRepository{
					CreateFunc: func(ctx context.Context, params CreateParams) (*Account, error) {
						if params.ID == "" {
							t.Error("expected generated account ID")
						}
						if params.Name != "생활비 통장" {
							t.Errorf("name not trimmed: %q", params.Name)
						}
						return &Account{
							ID:            params.ID,
							UserID:        params.UserID,
							Name:          params.Name,
							BankName:      params.BankName,
							AccountNumber: params.AccountNumber,
							Balance:       decimal.Zero,
							Status:        StatusActive,
							CreatedAt:     time.Now(),
							UpdatedAt:     time.Now(),
						}, nil
					},
				}
			},
		},
		{
			name: "Missing Bank Name",
			params: CreateParams{
				UserID:        1,
				Name:          "Savings",
				AccountNumber: "1",
			},
			mock:    func() *MockRepository { return &MockRepository{} },
			wantErr: true,
			errType: ErrInvalidInput,
		},
		{
			name: "Missing Account Number",
			params: CreateParams{
				UserID:   1,
				Name:     "Savings",
				BankName: "Shinhan",
			},
			mock:    func() *MockRepository { return &MockRepository{} },
			wantErr: true,
			errType: ErrInvalidInput,
		},
		{
			name: "Invalid User",
			params: CreateParams{
				Name:          "Savings",
				BankName:      "Shinhan",
				AccountNumber: "1",
			},
			mock:    func() *MockRepository { return &MockRepository{} },
			wantErr: true,
			errType: ErrInvalidInput,
		},
		{
			name: "Duplicate Number",
			params: CreateParams{
				UserID:        1,
				Name:          "Savings",
				BankName:      "Shinhan",
				AccountNumber: "1",
			},
			mock: func() *MockRepository {
				return &MockRepository{
					CreateFunc: func(ctx context.Context, params CreateParams) (*Account, error) {
						return nil, ErrDuplicateAccountNumber
					},
				}
			},
			wantErr: true,
			errType: ErrDuplicateAccountNumber,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.mock())
			acc, err := svc.CreateAccount(ctx, tt.params)

			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateAccount() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if tt.errType != nil && !errors.Is(err, tt.errType) {
					t.Errorf("CreateAccount() error = %v, want %v", err, tt.errType)
				}
				return
			}
			if !acc.Balance.IsZero() {
				t.Errorf("new account balance = %s, want 0", acc.Balance)
			}
			if !acc.IsActive() {
				t.Error("new account should be active")
			}
		})
	}
}

func TestGetAccount(t *testing.T) {
	ctx := context.Background()
	owned := &Account{ID: "acc-1", UserID: 1, Status: StatusActive}

	tests := []struct {
		name    string
		userID  int64
		mock    *MockRepository
		errType error
	}{
		{
			name:   "Owner",
			userID: 1,
			mock: &MockRepository{GetByIDFunc: func(ctx context.Context, id string) (*Account, error) {
				return owned, nil
			}},
		},
		{
			name:   "Other User",
			userID: 2,
			mock: &MockRepository{GetByIDFunc: func(ctx context.Context, id string) (*Account, error) {
				return owned, nil
			}},
			errType: ErrForbidden,
		},
		{
			name:    "Not Found",
			userID:  1,
			mock:    &MockRepository{},
			errType: ErrAccountNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(tt.mock)
			_, err := svc.GetAccount(ctx, "acc-1", tt.userID)
			if tt.errType == nil {
				if err != nil {
					t.Fatalf("GetAccount() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.errType) {
				t.Errorf("GetAccount() error = %v, want %v", err, tt.errType)
			}
		})
	}
}

func TestListAccounts_ExcludesInactive(t *testing.T) {
	var gotInclude bool
	repo := &MockRepository{
		ListByUserIDFunc: func(ctx context.Context, userID int64, includeInactive bool) ([]*Account, error) {
			gotInclude = includeInactive
			return []*Account{{ID: "a"}}, nil
		},
	}

	accounts, err := NewService(repo).ListAccounts(context.Background(), 7)
	if err != nil {
		t.Fatalf("ListAccounts() error = %v", err)
	}
	if gotInclude {
		t.Error("ListAccounts() should not request inactive accounts")
	}
	if len(accounts) != 1 {
		t.Errorf("got %d accounts, want 1", len(accounts))
	}

	if _, err := NewService(repo).ListAccounts(context.Background(), 0); err == nil {
		t.Error("ListAccounts() expected error for invalid user ID")
	}
}

func TestDeactivateAccount(t *testing.T) {
	ctx := context.Background()
	balance := decimal.RequireFromString("1500.50")

	t.Run("Keeps Balance", func(t *testing.T) {
		var setCalled bool
		repo := &MockRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*Account, error) {
				return &Account{ID: id, UserID: 1, Balance: balance, Status: StatusActive}, nil
			},
			SetStatusFunc: func(ctx context.Context, id string, status Status) (*Account, error) {
				setCalled = true
				if status != StatusDeactivated {
					t.Errorf("status = %q, want %q", status, StatusDeactivated)
				}
				return &Account{ID: id, UserID: 1, Balance: balance, Status: status}, nil
			},
		}

		acc, err := NewService(repo).DeactivateAccount(ctx, "acc-1", 1)
		if err != nil {
			t.Fatalf("DeactivateAccount() error = %v", err)
		}
		if !setCalled {
			t.Error("SetStatus was not called")
		}
		if !acc.Balance.Equal(balance) {
			t.Errorf("balance = %s, want %s", acc.Balance, balance)
		}
	})

	t.Run("Already Deactivated", func(t *testing.T) {
		repo := &MockRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*Account, error) {
				return &Account{ID: id, UserID: 1, Status: StatusDeactivated}, nil
			},
			SetStatusFunc: func(ctx context.Context, id string, status Status) (*Account, error) {
				t.Error("SetStatus should not be called for an inactive account")
				return nil, nil
			},
		}

		if _, err := NewService(repo).DeactivateAccount(ctx, "acc-1", 1); err != nil {
			t.Fatalf("DeactivateAccount() error = %v", err)
		}
	})

	t.Run("Forbidden", func(t *testing.T) {
		repo := &MockRepository{
			GetByIDFunc: func(ctx context.Context, id string) (*Account, error) {
				return &Account{ID: id, UserID: 2, Status: StatusActive}, nil
			},
		}

		_, err := NewService(repo).DeactivateAccount(ctx, "acc-1", 1)
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("DeactivateAccount() error = %v, want %v", err, ErrForbidden)
		}
	})
}
