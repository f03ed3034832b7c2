package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"household/internal/domain/ledger"
)

// Ledger is the part of the ledger engine the transaction API drives.
type Ledger interface {
	Create(ctx context.Context, userID int64, p ledger.CreateParams) (*ledger.Transaction, error)
	Update(ctx context.Context, userID int64, txID string, p ledger.UpdateParams) (*ledger.Transaction, error)
	Delete(ctx context.Context, userID int64, txID string) error
	Get(ctx context.Context, userID int64, txID string) (*ledger.Transaction, error)
	List(ctx context.Context, userID int64, filter ledger.ListFilter) ([]*ledger.Transaction, error)
}

// CategoryOwnership resolves a category reference for the requester.
type CategoryOwnership interface {
	EnsureOwned(ctx context.Context, id string, userID int64) error
}

type TransactionHandler struct {
	ledger     Ledger
	categories CategoryOwnership
	loc        *time.Location
}

// NewTransactionHandler creates a handler. Dates without a time of day are
// read as midnight in loc.
func NewTransactionHandler(l Ledger, categories CategoryOwnership, loc *time.Location) *TransactionHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &TransactionHandler{ledger: l, categories: categories, loc: loc}
}

type CreateTransactionRequest struct {
	AccountID       string          `json:"accountId"`
	ToAccountID     string          `json:"toAccountId,omitempty"`
	CategoryID      string          `json:"categoryId,omitempty"`
	TransactionType string          `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency,omitempty"`
	Description     string          `json:"description,omitempty"`
	TransactionDate string          `json:"transactionDate,omitempty"`
}

// UpdateTransactionRequest carries a partial update. Absent fields are kept.
type UpdateTransactionRequest struct {
	AccountID       *string          `json:"accountId,omitempty"`
	ToAccountID     *string          `json:"toAccountId,omitempty"`
	CategoryID      *string          `json:"categoryId,omitempty"`
	TransactionType *string          `json:"transactionType,omitempty"`
	Amount          *decimal.Decimal `json:"amount,omitempty"`
	Currency        *string          `json:"currency,omitempty"`
	Description     *string          `json:"description,omitempty"`
	TransactionDate *string          `json:"transactionDate,omitempty"`
}

type TransactionResponse struct {
	ID                      string `json:"id"`
	AccountID               string `json:"accountId"`
	ToAccountID             string `json:"toAccountId,omitempty"`
	CategoryID              string `json:"categoryId,omitempty"`
	TransactionType         string `json:"transactionType"`
	Amount                  string `json:"amount"`
	Currency                string `json:"currency"`
	Description             string `json:"description"`
	BalanceAfterTransaction string `json:"balanceAfterTransaction"`
	TransactionDate         string `json:"transactionDate"`
	CreatedAt               string `json:"createdAt"`
	UpdatedAt               string `json:"updatedAt"`
}

func toTransactionResponse(t *ledger.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                      t.ID,
		AccountID:               t.AccountID,
		ToAccountID:             t.DestinationID(),
		CategoryID:              t.CategoryID,
		TransactionType:         t.Kind.Name(),
		Amount:                  money(t.Amount),
		Currency:                t.Currency,
		Description:             t.Description,
		BalanceAfterTransaction: money(t.BalanceAfter),
		TransactionDate:         timestamp(t.TransactionDate),
		CreatedAt:               timestamp(t.CreatedAt),
		UpdatedAt:               timestamp(t.UpdatedAt),
	}
}

// HandleListTransactions returns the requester's transactions on active accounts.
func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	filter, err := h.parseListFilter(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	txns, err := h.ledger.List(r.Context(), userID, filter)
	if err != nil {
		writeError(w, "list transactions", err, "user_id", userID)
		return
	}

	out := make([]TransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, toTransactionResponse(t))
	}
	writeJSON(w, http.StatusOK, out)
}

// HandleCreateTransaction records a deposit, withdrawal or transfer.
func (h *TransactionHandler) HandleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req CreateTransactionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.AccountID == "" || req.TransactionType == "" {
		http.Error(w, "accountId and transactionType are required", http.StatusBadRequest)
		return
	}

	req.AccountID = ledger.CanonicalID(req.AccountID)
	req.ToAccountID = ledger.CanonicalID(req.ToAccountID)

	kind, err := ledger.ParseKind(strings.ToLower(req.TransactionType), req.ToAccountID)
	if err != nil {
		writeError(w, "create transaction", err)
		return
	}

	var date time.Time
	if req.TransactionDate != "" {
		date, err = h.parseDate(req.TransactionDate)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	if req.CategoryID != "" {
		if err := h.categories.EnsureOwned(r.Context(), req.CategoryID, userID); err != nil {
			writeError(w, "create transaction", err, "category_id", req.CategoryID)
			return
		}
	}

	t, err := h.ledger.Create(r.Context(), userID, ledger.CreateParams{
		AccountID:       req.AccountID,
		Kind:            kind,
		CategoryID:      req.CategoryID,
		Amount:          req.Amount,
		Currency:        req.Currency,
		Description:     req.Description,
		TransactionDate: date,
	})
	if err != nil {
		writeError(w, "create transaction", err, "user_id", userID, "account_id", req.AccountID)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(t))
}

func (h *TransactionHandler) HandleGetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	t, err := h.ledger.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, "get transaction", err, "transaction_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

// HandleUpdateTransaction applies a partial update. Balance effects of the
// old values are reverted before the new ones are applied.
func (h *TransactionHandler) HandleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	var req UpdateTransactionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	params := ledger.UpdateParams{
		AccountID:     canonicalRef(req.AccountID),
		DestinationID: canonicalRef(req.ToAccountID),
		CategoryID:    req.CategoryID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Description:   req.Description,
	}
	if req.TransactionType != nil {
		name := strings.ToLower(*req.TransactionType)
		params.KindName = &name
	}
	if req.TransactionDate != nil {
		date, err := h.parseDate(*req.TransactionDate)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		params.TransactionDate = &date
	}

	if req.CategoryID != nil && *req.CategoryID != "" {
		if err := h.categories.EnsureOwned(r.Context(), *req.CategoryID, userID); err != nil {
			writeError(w, "update transaction", err, "category_id", *req.CategoryID)
			return
		}
	}

	id := r.PathValue("id")
	t, err := h.ledger.Update(r.Context(), userID, id, params)
	if err != nil {
		writeError(w, "update transaction", err, "transaction_id", id)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(t))
}

func (h *TransactionHandler) HandleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	id := r.PathValue("id")
	if err := h.ledger.Delete(r.Context(), userID, id); err != nil {
		writeError(w, "delete transaction", err, "transaction_id", id)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parseListFilter reads the query string. end_date names the last included
// day, so the exclusive bound is midnight of the following day.
func (h *TransactionHandler) parseListFilter(r *http.Request) (ledger.ListFilter, error) {
	q := r.URL.Query()
	filter := ledger.ListFilter{
		KindName:  strings.ToLower(q.Get("transaction_type")),
		AccountID: ledger.CanonicalID(q.Get("account_id")),
	}

	for key, dst := range map[string]**decimal.Decimal{
		"min_amount": &filter.MinAmount,
		"max_amount": &filter.MaxAmount,
	} {
		if s := q.Get(key); s != "" {
			d, err := decimal.NewFromString(s)
			if err != nil {
				return filter, fmt.Errorf("invalid %s", key)
			}
			*dst = &d
		}
	}

	if s := q.Get("start_date"); s != "" {
		d, err := time.ParseInLocation(time.DateOnly, s, h.loc)
		if err != nil {
			return filter, errors.New("invalid start_date (use YYYY-MM-DD)")
		}
		filter.StartDate = &d
	}
	if s := q.Get("end_date"); s != "" {
		d, err := time.ParseInLocation(time.DateOnly, s, h.loc)
		if err != nil {
			return filter, errors.New("invalid end_date (use YYYY-MM-DD)")
		}
		next := d.AddDate(0, 0, 1)
		filter.EndDate = &next
	}

	if s := q.Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return filter, errors.New("invalid limit")
		}
		filter.Limit = n
	}
	if s := q.Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return filter, errors.New("invalid offset")
		}
		filter.Offset = n
	}

	return filter, nil
}

func canonicalRef(id *string) *string {
	if id == nil {
		return nil
	}
	c := ledger.CanonicalID(*id)
	return &c
}

// parseDate accepts YYYY-MM-DD or RFC 3339.
func (h *TransactionHandler) parseDate(s string) (time.Time, error) {
	if d, err := time.ParseInLocation(time.DateOnly, s, h.loc); err == nil {
		return d, nil
	}
	if d, err := time.Parse(time.RFC3339, s); err == nil {
		return d, nil
	}
	return time.Time{}, errors.New("invalid transactionDate (use YYYY-MM-DD or RFC 3339)")
}
