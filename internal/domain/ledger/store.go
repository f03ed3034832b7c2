package ledger

import (
	"context"

	"github.com/shopspring/decimal"

	"household/internal/domain/account"
)

// Store runs a function inside one atomic unit of work. If fn returns an
// error, or ctx is done before commit, every write made through tx is
// rolled back.
type Store interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx is the set of row-level operations available inside a unit of work.
// The ForUpdate reads hold their row lock until the unit ends.
type Tx interface {
	GetAccountForUpdate(ctx context.Context, id string) (*account.Account, error)
	SaveAccountBalance(ctx context.Context, acc *account.Account) error

	GetTransactionForUpdate(ctx context.Context, id string) (*Transaction, error)
	InsertTransaction(ctx context.Context, t *Transaction) error
	UpdateTransaction(ctx context.Context, t *Transaction) error
	DeleteTransaction(ctx context.Context, id string) error

	// SumEffects returns the signed sum of every transaction touching accountID.
	SumEffects(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// Repository serves read-only transaction queries outside of a unit of work.
type Repository interface {
	GetByID(ctx context.Context, id string) (*Transaction, error)
	List(ctx context.Context, userID int64, filter ListFilter) ([]*Transaction, error)
}
