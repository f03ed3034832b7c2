package http

import (
	"errors"
	"net/http"

	"household/internal/domain/account"
	"household/internal/domain/analysis"
	"household/internal/domain/category"
	"household/internal/domain/ledger"
	"household/internal/domain/notification"
	"household/internal/domain/user"
)

// statusFor maps domain errors to an HTTP status and a client-safe message.
// Unknown errors become 500 with a generic body; the caller logs the detail.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, "Insufficient funds"
	case errors.Is(err, ledger.ErrInvalidTransfer):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, ledger.ErrAccountNotOwned),
		errors.Is(err, account.ErrForbidden),
		errors.Is(err, category.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, ledger.ErrAccountInactive):
		return http.StatusConflict, "Account is deactivated"
	case errors.Is(err, ledger.ErrTimeout):
		return http.StatusServiceUnavailable, "Ledger is busy, try again"

	case errors.Is(err, ledger.ErrTransactionNotFound):
		return http.StatusNotFound, "Transaction not found"
	case errors.Is(err, account.ErrAccountNotFound):
		return http.StatusNotFound, "Account not found"
	case errors.Is(err, category.ErrCategoryNotFound):
		return http.StatusNotFound, "Category not found"
	case errors.Is(err, analysis.ErrAnalysisNotFound):
		return http.StatusNotFound, "Analysis not found"
	case errors.Is(err, notification.ErrNotificationNotFound):
		return http.StatusNotFound, "Notification not found"
	case errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound, "User not found"

	case errors.Is(err, account.ErrDuplicateName),
		errors.Is(err, account.ErrDuplicateAccountNumber),
		errors.Is(err, category.ErrDuplicateCategory),
		errors.Is(err, category.ErrCategoryInUse),
		errors.Is(err, user.ErrEmailTaken):
		return http.StatusConflict, err.Error()

	case errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, ledger.ErrInvalidKind),
		errors.Is(err, ledger.ErrInvalidInput),
		errors.Is(err, account.ErrInvalidInput),
		errors.Is(err, category.ErrInvalidInput),
		errors.Is(err, category.ErrInvalidType),
		errors.Is(err, analysis.ErrInvalidType),
		errors.Is(err, user.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	}
	return http.StatusInternalServerError, "Internal server error"
}

// writeError answers with the mapped status. Server errors are logged with
// the operation name and never echoed to the client.
func writeError(w http.ResponseWriter, op string, err error, kv ...any) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(op+" failed", append(kv, "err", err)...)
	} else {
		logger.Debug(op+" rejected", append(kv, "status", status, "err", err)...)
	}
	http.Error(w, msg, status)
}
