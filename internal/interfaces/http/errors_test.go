package http

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"household/internal/domain/account"
	"household/internal/domain/category"
	"household/internal/domain/ledger"
	"household/internal/domain/user"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{ledger.ErrInsufficientFunds, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: destination must differ from source", ledger.ErrInvalidTransfer), http.StatusBadRequest},
		{ledger.ErrAccountNotOwned, http.StatusForbidden},
		{ledger.ErrAccountInactive, http.StatusConflict},
		{ledger.ErrTransactionNotFound, http.StatusNotFound},
		{fmt.Errorf("lock: %w", account.ErrAccountNotFound), http.StatusNotFound},
		{category.ErrCategoryNotFound, http.StatusNotFound},
		{ledger.ErrInvalidAmount, http.StatusBadRequest},
		{ledger.ErrInvalidKind, http.StatusBadRequest},
		{ledger.ErrTimeout, http.StatusServiceUnavailable},
		{category.ErrCategoryInUse, http.StatusConflict},
		{user.ErrEmailTaken, http.StatusConflict},
		{errors.New("pq: deadlock detected"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got, _ := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, "test", errors.New("pq: password authentication failed for user ledger"))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %v", rr.Code)
	}
	if strings.Contains(rr.Body.String(), "password") {
		t.Errorf("body leaks detail: %q", rr.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "up", want: http.StatusOK},
		{name: "down", err: errors.New("connection refused"), want: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			HandleHealth(&MockPinger{Err: tt.err})(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

			if rr.Code != tt.want {
				t.Errorf("got %v want %v", rr.Code, tt.want)
			}
		})
	}
}
