package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"household/internal/domain/account"
	"household/internal/domain/category"
	"household/internal/domain/ledger"
)

const transactionColumns = `id, user_id, account_id, to_account_id, category_id, transaction_type, amount, currency,
	description, balance_after_transaction, transaction_date, created_at, updated_at`

func scanTransaction(s scanner) (*ledger.Transaction, error) {
	var (
		t          ledger.Transaction
		toAccount  sql.NullString
		categoryID sql.NullString
		kindName   string
	)
	err := s.Scan(
		&t.ID, &t.UserID, &t.AccountID, &toAccount, &categoryID, &kindName, &t.Amount, &t.Currency,
		&t.Description, &t.BalanceAfter, &t.TransactionDate, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	kind, err := ledger.ParseKind(kindName, toAccount.String)
	if err != nil {
		return nil, fmt.Errorf("transaction %s: %w", t.ID, err)
	}
	t.Kind = kind
	t.CategoryID = categoryID.String
	return &t, nil
}

// LedgerStore implements ledger.Store. Each unit of work is one READ
// COMMITTED transaction; consistency comes from the row locks taken with
// SELECT ... FOR UPDATE.
type LedgerStore struct {
	db *DB
}

func NewLedgerStore(db *DB) *LedgerStore {
	return &LedgerStore{db: db}
}

func (s *LedgerStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx ledger.Tx) error) error {
	opts := &sql.TxOptions{Isolation: sql.LevelReadCommitted}
	return s.db.WithinTx(ctx, opts, func(ctx context.Context, tx *Tx) error {
		return fn(ctx, &ledgerTx{tx: tx})
	})
}

type ledgerTx struct {
	tx *Tx
}

func (l *ledgerTx) GetAccountForUpdate(ctx context.Context, id string) (*account.Account, error) {
	if !isUUID(id) {
		return nil, account.ErrAccountNotFound
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 FOR UPDATE`

	acc, err := scanAccount(l.tx.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock account: %w", err)
	}

	return acc, nil
}

func (l *ledgerTx) SaveAccountBalance(ctx context.Context, acc *account.Account) error {
	query := `UPDATE accounts SET balance = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`

	result, err := l.tx.ExecContext(ctx, query, acc.Balance, acc.ID)
	if err != nil {
		return fmt.Errorf("failed to save account balance: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return account.ErrAccountNotFound
	}

	return nil
}

func (l *ledgerTx) GetTransactionForUpdate(ctx context.Context, id string) (*ledger.Transaction, error) {
	if !isUUID(id) {
		return nil, ledger.ErrTransactionNotFound
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1 FOR UPDATE`

	t, err := scanTransaction(l.tx.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to lock transaction: %w", err)
	}

	return t, nil
}

func (l *ledgerTx) InsertTransaction(ctx context.Context, t *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, user_id, account_id, to_account_id, category_id, transaction_type, amount, currency,
			description, balance_after_transaction, transaction_date, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := l.tx.ExecContext(
		ctx, query,
		t.ID, t.UserID, t.AccountID, nullString(t.DestinationID()), nullString(t.CategoryID),
		t.Kind.Name(), t.Amount, t.Currency, t.Description, t.BalanceAfter,
		t.TransactionDate, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return transactionWriteError("insert", err)
	}

	return nil
}

func (l *ledgerTx) UpdateTransaction(ctx context.Context, t *ledger.Transaction) error {
	query := `
		UPDATE transactions
		SET account_id = $1,
		    to_account_id = $2,
		    category_id = $3,
		    transaction_type = $4,
		    amount = $5,
		    currency = $6,
		    description = $7,
		    balance_after_transaction = $8,
		    transaction_date = $9,
		    updated_at = $10
		WHERE id = $11
	`

	result, err := l.tx.ExecContext(
		ctx, query,
		t.AccountID, nullString(t.DestinationID()), nullString(t.CategoryID), t.Kind.Name(),
		t.Amount, t.Currency, t.Description, t.BalanceAfter, t.TransactionDate, t.UpdatedAt,
		t.ID,
	)
	if err != nil {
		return transactionWriteError("update", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return ledger.ErrTransactionNotFound
	}

	return nil
}

func (l *ledgerTx) DeleteTransaction(ctx context.Context, id string) error {
	result, err := l.tx.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return ledger.ErrTransactionNotFound
	}

	return nil
}

func (l *ledgerTx) SumEffects(ctx context.Context, accountID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(
			CASE
				WHEN account_id = $1 AND transaction_type = 'deposit' THEN amount
				WHEN account_id = $1 THEN -amount
				WHEN to_account_id = $1 THEN amount
				ELSE 0
			END
		), 0)
		FROM transactions
		WHERE account_id = $1 OR to_account_id = $1
	`

	var sum decimal.Decimal
	if err := l.tx.QueryRowContext(ctx, query, accountID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transaction effects: %w", err)
	}
	return sum, nil
}

// transactionWriteError maps a vanished category reference to the category
// domain error. Account references are locked by the caller and cannot vanish.
func transactionWriteError(op string, err error) error {
	if constraint, ok := foreignKeyViolation(err); ok && constraint == "transactions_category_id_fkey" {
		return category.ErrCategoryNotFound
	}
	return fmt.Errorf("failed to %s transaction: %w", op, err)
}
