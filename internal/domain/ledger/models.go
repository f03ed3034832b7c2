package ledger

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Domain errors
var (
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrInvalidTransfer     = errors.New("invalid transfer")
	ErrAccountNotOwned     = errors.New("account not owned by requester")
	ErrAccountInactive     = errors.New("account is deactivated")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidKind         = errors.New("invalid transaction type")
	ErrInvalidInput        = errors.New("invalid input")
	ErrTimeout             = errors.New("ledger operation timed out")
)

var (
	// MinAmount is the smallest representable amount.
	MinAmount = decimal.New(1, -2)
	// MaxAmount fits NUMERIC(15,2).
	MaxAmount = decimal.RequireFromString("9999999999999.99")
)

const maxDescriptionLength = 500

// Transaction is a single ledger entry. BalanceAfter is the source account's
// balance immediately after this entry was applied.
type Transaction struct {
	ID              string
	UserID          int64
	AccountID       string
	Kind            Kind
	CategoryID      string
	Amount          decimal.Decimal
	Currency        string
	Description     string
	BalanceAfter    decimal.Decimal
	TransactionDate time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// DestinationID returns the credited account of a transfer, or "".
func (t *Transaction) DestinationID() string {
	return destinationOf(t.Kind)
}

// AccountIDs returns every account the transaction touches, source first.
func (t *Transaction) AccountIDs() []string {
	if dst := t.DestinationID(); dst != "" {
		return []string{t.AccountID, dst}
	}
	return []string{t.AccountID}
}

// CanonicalID returns the lower-case hyphenated form of a UUID. Storage
// matches UUIDs case-insensitively, so ids are compared in this form. Other
// strings are returned trimmed and otherwise unchanged.
func CanonicalID(id string) string {
	id = strings.TrimSpace(id)
	if u, err := uuid.Parse(id); err == nil {
		return u.String()
	}
	return id
}

// canonicalize rewrites the account references to CanonicalID form.
func (t *Transaction) canonicalize() {
	t.AccountID = CanonicalID(t.AccountID)
	if tr, ok := t.Kind.(Transfer); ok {
		t.Kind = Transfer{DestinationID: CanonicalID(tr.DestinationID)}
	}
}

func (t *Transaction) clone() *Transaction {
	c := *t
	return &c
}

// Validate checks the invariants a transaction must hold before it is applied.
func (t *Transaction) Validate() error {
	if t.UserID <= 0 {
		return fmt.Errorf("%w: valid user ID is required", ErrInvalidInput)
	}
	if t.AccountID == "" {
		return fmt.Errorf("%w: account is required", ErrInvalidInput)
	}
	if t.Kind == nil {
		return fmt.Errorf("%w: transaction type is required", ErrInvalidKind)
	}
	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}
	if !isCurrencyCode(t.Currency) {
		return fmt.Errorf("%w: currency must be a 3-letter ISO 4217 code", ErrInvalidInput)
	}
	if len([]rune(t.Description)) > maxDescriptionLength {
		return fmt.Errorf("%w: description must be at most %d characters", ErrInvalidInput, maxDescriptionLength)
	}
	if tr, ok := t.Kind.(Transfer); ok {
		if tr.DestinationID == "" {
			return fmt.Errorf("%w: destination account is required", ErrInvalidTransfer)
		}
		if tr.DestinationID == t.AccountID {
			return fmt.Errorf("%w: destination must differ from source", ErrInvalidTransfer)
		}
	}
	return nil
}

// isCurrencyCode reports whether s is three upper-case ASCII letters.
func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}

// ValidateAmount enforces a strictly positive amount with at most two
// fractional digits.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThan(MinAmount) {
		return fmt.Errorf("%w: must be at least 0.01", ErrInvalidAmount)
	}
	if amount.GreaterThan(MaxAmount) {
		return fmt.Errorf("%w: exceeds maximum", ErrInvalidAmount)
	}
	if !amount.Equal(amount.Truncate(2)) {
		return fmt.Errorf("%w: at most two decimal places", ErrInvalidAmount)
	}
	return nil
}

// CreateParams contains the caller-supplied fields of a new transaction.
type CreateParams struct {
	AccountID       string
	Kind            Kind
	CategoryID      string
	Amount          decimal.Decimal
	Currency        string
	Description     string
	TransactionDate time.Time
}

// UpdateParams holds optional changes. The kind is resolved against the
// existing transaction: a nil KindName keeps the current kind, a nil
// DestinationID keeps the current destination.
type UpdateParams struct {
	AccountID       *string
	KindName        *string
	DestinationID   *string
	CategoryID      *string
	Amount          *decimal.Decimal
	Currency        *string
	Description     *string
	TransactionDate *time.Time
}

// applyTo returns a modified copy of t. t itself is never mutated.
func (p UpdateParams) applyTo(t *Transaction) (*Transaction, error) {
	next := t.clone()

	if p.AccountID != nil {
		next.AccountID = *p.AccountID
	}
	if p.KindName != nil || p.DestinationID != nil {
		name := t.Kind.Name()
		if p.KindName != nil {
			name = *p.KindName
		}
		dst := t.DestinationID()
		if p.DestinationID != nil {
			dst = *p.DestinationID
		}
		k, err := ParseKind(name, dst)
		if err != nil {
			return nil, err
		}
		next.Kind = k
	}
	if p.CategoryID != nil {
		next.CategoryID = *p.CategoryID
	}
	if p.Amount != nil {
		next.Amount = *p.Amount
	}
	if p.Currency != nil {
		next.Currency = strings.ToUpper(*p.Currency)
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.TransactionDate != nil {
		next.TransactionDate = *p.TransactionDate
	}
	next.canonicalize()
	return next, nil
}

// affectsBalances reports whether moving from a to b changes any account effect.
func affectsBalances(a, b *Transaction) bool {
	return a.AccountID != b.AccountID ||
		a.Kind.Name() != b.Kind.Name() ||
		a.DestinationID() != b.DestinationID() ||
		!a.Amount.Equal(b.Amount)
}

// ListFilter narrows a transaction listing. StartDate is inclusive and
// EndDate exclusive. AccountID matches either side of a transfer.
type ListFilter struct {
	KindName  string
	AccountID string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	StartDate *time.Time
	EndDate   *time.Time
	Limit     int
	Offset    int
}

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

// Normalize applies paging defaults and validates the ranges.
func (f *ListFilter) Normalize() error {
	f.AccountID = CanonicalID(f.AccountID)
	if f.KindName != "" && !IsValidKindName(f.KindName) {
		return fmt.Errorf("%w: %q", ErrInvalidKind, f.KindName)
	}
	if f.MinAmount != nil && f.MaxAmount != nil && f.MinAmount.GreaterThan(*f.MaxAmount) {
		return fmt.Errorf("%w: min_amount is greater than max_amount", ErrInvalidInput)
	}
	if f.StartDate != nil && f.EndDate != nil && f.StartDate.After(*f.EndDate) {
		return fmt.Errorf("%w: start_date is after end_date", ErrInvalidInput)
	}
	if f.Offset < 0 {
		return fmt.Errorf("%w: offset must not be negative", ErrInvalidInput)
	}
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	if f.Limit > MaxListLimit {
		f.Limit = MaxListLimit
	}
	return nil
}

// Drift describes a stored balance that disagrees with its transaction history.
type Drift struct {
	AccountID string
	Stored    decimal.Decimal
	Computed  decimal.Decimal
	Fixed     bool
}

func (d Drift) InSync() bool {
	return d.Stored.Equal(d.Computed)
}
