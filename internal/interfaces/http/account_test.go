package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"household/internal/domain/account"
)

func TestHandleListAccounts(t *testing.T) {
	tests := []struct {
		name           string
		mockRepo       func() *MockAccountRepo
		expectedStatus int
		expectedLen    int
	}{
		{
			name: "Success",
			mockRepo: func() *MockAccountRepo {
				return &MockAccountRepo{
					ListByUserIDFunc: func(ctx context.Context, userID int64, includeInactive bool) ([]*account.Account, error) {
						if includeInactive {
							t.Error("list should exclude deactivated accounts")
						}
						return []*account.Account{
							{ID: "acc-1", UserID: 1, Name: "생활비", Balance: decimal.NewFromInt(1000)},
						}, nil
					},
				}
			},
			expectedStatus: http.StatusOK,
			expectedLen:    1,
		},
		{
			name: "Empty List",
			mockRepo: func() *MockAccountRepo {
				return &MockAccountRepo{}
			},
			expectedStatus: http.StatusOK,
			expectedLen:    0,
		},
		{
			name: "Service Error",
			mockRepo: func() *MockAccountRepo {
				return &MockAccountRepo{
					ListByUserIDFunc: func(ctx context.Context, userID int64, includeInactive bool) ([]*account.Account, error) {
						return nil, errors.New("db error")
					},
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAccountHandler(account.NewService(tt.mockRepo()))

			req := httptest.NewRequest(http.MethodGet, "/api/accounts/", nil)
			req = req.WithContext(withUser(req.Context(), 1))

			rr := httptest.NewRecorder()
			handler.HandleListAccounts(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Fatalf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
			if rr.Code != http.StatusOK {
				return
			}

			var resp []AccountResponse
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(resp) != tt.expectedLen {
				t.Errorf("len = %d, want %d", len(resp), tt.expectedLen)
			}
			if len(resp) > 0 && resp[0].Balance != "1000.00" {
				t.Errorf("Balance = %q, want 1000.00", resp[0].Balance)
			}
		})
	}
}

func TestHandleCreateAccount(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		repoErr        error
		expectedStatus int
	}{
		{
			name:           "Success",
			body:           `{"name":"생활비","bankName":"국민","accountNumber":"123-456"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing bank",
			body:           `{"name":"생활비","accountNumber":"123-456"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Duplicate number",
			body:           `{"name":"생활비","bankName":"국민","accountNumber":"123-456"}`,
			repoErr:        account.ErrDuplicateAccountNumber,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "Duplicate name",
			body:           `{"name":"생활비","bankName":"국민","accountNumber":"123-457"}`,
			repoErr:        account.ErrDuplicateName,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "Malformed body",
			body:           `not json`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockAccountRepo{
				CreateFunc: func(ctx context.Context, params account.CreateParams) (*account.Account, error) {
					if tt.repoErr != nil {
						return nil, tt.repoErr
					}
					if params.UserID != 1 {
						t.Errorf("UserID = %d, want 1", params.UserID)
					}
					return &account.Account{ID: params.ID, UserID: params.UserID, Name: params.Name, Status: account.StatusActive}, nil
				},
			}
			handler := NewAccountHandler(account.NewService(repo))

			req := httptest.NewRequest(http.MethodPost, "/api/accounts/", strings.NewReader(tt.body))
			req = req.WithContext(withUser(req.Context(), 1))

			rr := httptest.NewRecorder()
			handler.HandleCreateAccount(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v (%s)", rr.Code, tt.expectedStatus, rr.Body.String())
			}
		})
	}
}

func TestHandleGetAccount(t *testing.T) {
	tests := []struct {
		name           string
		accountID      string
		mockRepo       func() *MockAccountRepo
		expectedStatus int
	}{
		{
			name:      "Success",
			accountID: "acc-1",
			mockRepo: func() *MockAccountRepo {
				return &MockAccountRepo{
					GetByIDFunc: func(ctx context.Context, id string) (*account.Account, error) {
						return &account.Account{ID: id, UserID: 1}, nil
					},
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:      "Not Found",
			accountID: "acc-999",
			mockRepo: func() *MockAccountRepo {
				return &MockAccountRepo{}
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:      "Forbidden",
			accountID: "acc-2",
			mockRepo: func() *MockAccountRepo {
				return &MockAccountRepo{
					GetByIDFunc: func(ctx context.Context, id string) (*account.Account, error) {
						// Account belongs to user 2
						return &account.Account{ID: id, UserID: 2}, nil
					},
				}
			},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewAccountHandler(account.NewService(tt.mockRepo()))

			req := httptest.NewRequest(http.MethodGet, "/api/accounts/"+tt.accountID, nil)
			req.SetPathValue("id", tt.accountID)
			req = req.WithContext(withUser(req.Context(), 1))

			rr := httptest.NewRecorder()
			handler.HandleGetAccount(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("handler returned wrong status code: got %v want %v", rr.Code, tt.expectedStatus)
			}
		})
	}
}

func TestHandleDeleteAccount(t *testing.T) {
	var status account.Status
	repo := &MockAccountRepo{
		GetByIDFunc: func(ctx context.Context, id string) (*account.Account, error) {
			return &account.Account{ID: id, UserID: 1, Status: account.StatusActive}, nil
		},
		SetStatusFunc: func(ctx context.Context, id string, s account.Status) (*account.Account, error) {
			status = s
			return &account.Account{ID: id, UserID: 1, Status: s}, nil
		},
	}
	handler := NewAccountHandler(account.NewService(repo))

	req := httptest.NewRequest(http.MethodDelete, "/api/accounts/acc-1", nil)
	req.SetPathValue("id", "acc-1")
	req = req.WithContext(withUser(req.Context(), 1))

	rr := httptest.NewRecorder()
	handler.HandleDeleteAccount(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("got %v want %v", rr.Code, http.StatusNoContent)
	}
	if status != account.StatusDeactivated {
		t.Errorf("status = %q, want deactivated", status)
	}
}
