package account

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Status is the lifecycle state of an account.
type Status string

const (
	StatusActive      Status = "active"
	StatusDeactivated Status = "deactivated"
)

const (
	maxNameLength          = 100
	maxBankNameLength      = 100
	maxAccountNumberLength = 50
)

// Domain errors
var (
	ErrAccountNotFound        = errors.New("account not found")
	ErrForbidden              = errors.New("access forbidden")
	ErrInvalidInput           = errors.New("invalid input")
	ErrDuplicateName          = errors.New("account name already in use")
	ErrDuplicateAccountNumber = errors.New("account number already registered")
)

// Account is a bank account owned by a single user. Balance only changes
// through ledger effects and is never written directly by clients.
type Account struct {
	ID            string          `json:"id"`
	UserID        int64           `json:"userId"`
	Name          string          `json:"name"`
	BankName      string          `json:"bankName"`
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
	Status        Status          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (a *Account) IsActive() bool {
	return a.Status == StatusActive
}

// OwnedBy reports whether the account belongs to userID.
func (a *Account) OwnedBy(userID int64) bool {
	return a.UserID == userID
}

// Clone returns a copy that can be mutated without touching the original.
func (a *Account) Clone() *Account {
	c := *a
	return &c
}

// CreateParams contains parameters for opening a new account
type CreateParams struct {
	ID            string
	UserID        int64
	Name          string
	BankName      string
	AccountNumber string
}

// Normalize trims surrounding whitespace from the free-text fields.
func (p *CreateParams) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.BankName = strings.TrimSpace(p.BankName)
	p.AccountNumber = strings.TrimSpace(p.AccountNumber)
}

// Validate validates the create parameters
func (p CreateParams) Validate() error {
	if p.ID == "" {
		return errors.New("account ID is required")
	}
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.Name == "" {
		return errors.New("account name is required")
	}
	if len([]rune(p.Name)) > maxNameLength {
		return errors.New("account name must be at most 100 characters")
	}
	if p.BankName == "" {
		return errors.New("bank name is required")
	}
	if len([]rune(p.BankName)) > maxBankNameLength {
		return errors.New("bank name must be at most 100 characters")
	}
	if p.AccountNumber == "" {
		return errors.New("account number is required")
	}
	if len(p.AccountNumber) > maxAccountNumberLength {
		return errors.New("account number must be at most 50 characters")
	}
	return nil
}
