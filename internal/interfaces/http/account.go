package http

import (
	"net/http"

	"household/internal/domain/account"
)

type AccountHandler struct {
	accountService *account.Service
}

func NewAccountHandler(accountService *account.Service) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// CreateAccountRequest has no balance: balances only move through transactions.
type CreateAccountRequest struct {
	Name          string `json:"name"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
}

type AccountResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	BankName      string `json:"bankName"`
	AccountNumber string `json:"accountNumber"`
	Balance       string `json:"balance"`
	Status        string `json:"status"`
	CreatedAt     string `json:"createdAt"`
	UpdatedAt     string `json:"updatedAt"`
}

func toAccountResponse(a *account.Account) AccountResponse {
	return AccountResponse{
		ID:            a.ID,
		Name:          a.Name,
		BankName:      a.BankName,
		AccountNumber: a.AccountNumber,
		Balance:       money(a.Balance),
		Status:        string(a.Status),
		CreatedAt:     timestamp(a.CreatedAt),
		UpdatedAt:     timestamp(a.UpdatedAt),
	}
}

// HandleListAccounts returns the authenticated user's active accounts
func (h *AccountHandler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	accounts, err := h.accountService.ListAccounts(r.Context(), userID)
	if err != nil {
		writeError(w, "list accounts", err, "user_id", userID)
		return
	}

	out := make([]AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleCreateAccount opens an account with a zero balance
func (h *AccountHandler) HandleCreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req CreateAccountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	acc, err := h.accountService.CreateAccount(r.Context(), account.CreateParams{
		UserID:        userID,
		Name:          req.Name,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
	})
	if err != nil {
		writeError(w, "create account", err, "user_id", userID)
		return
	}

	writeJSON(w, http.StatusCreated, toAccountResponse(acc))
}

func (h *AccountHandler) HandleGetAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	acc, err := h.accountService.GetAccount(r.Context(), id, userID)
	if err != nil {
		writeError(w, "get account", err, "account_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toAccountResponse(acc))
}

// HandleDeleteAccount deactivates the account. History and balance are kept.
func (h *AccountHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if _, err := h.accountService.DeactivateAccount(r.Context(), id, userID); err != nil {
		writeError(w, "deactivate account", err, "account_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
