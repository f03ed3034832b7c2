package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"household/internal/domain/account"
)

const accountColumns = `id, user_id, name, bank_name, account_number, balance, status, created_at, updated_at`

// isUUID guards id lookups so malformed ids read as not found instead of
// failing the uuid cast.
func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// scanner is implemented by *sql.Rows and *tracedRow.
type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(s scanner) (*account.Account, error) {
	var acc account.Account
	err := s.Scan(
		&acc.ID, &acc.UserID, &acc.Name, &acc.BankName, &acc.AccountNumber,
		&acc.Balance, &acc.Status, &acc.CreatedAt, &acc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// AccountRepository implements the account.Repository interface for PostgreSQL
type AccountRepository struct {
	db *DB
}

// NewAccountRepository creates a new PostgreSQL account repository
func NewAccountRepository(db *DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// Create creates a new account with a zero balance
func (r *AccountRepository) Create(ctx context.Context, params account.CreateParams) (*account.Account, error) {
	query := `
		INSERT INTO accounts (id, user_id, name, bank_name, account_number, balance, status)
		VALUES ($1, $2, $3, $4, $5, 0, 'active')
		RETURNING ` + accountColumns

	acc, err := scanAccount(r.db.QueryRowContext(
		ctx, query,
		params.ID, params.UserID, params.Name, params.BankName, params.AccountNumber,
	))
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			switch constraint {
			case "accounts_name_key":
				return nil, account.ErrDuplicateName
			case "accounts_account_number_key":
				return nil, account.ErrDuplicateAccountNumber
			}
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return acc, nil
}

// GetByID retrieves an account by its ID
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	if !isUUID(id) {
		return nil, account.ErrAccountNotFound
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return acc, nil
}

// ListByUserID retrieves the accounts of a user
func (r *AccountRepository) ListByUserID(ctx context.Context, userID int64, includeInactive bool) ([]*account.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1 AND ($2 OR status = 'active')
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*account.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, acc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating accounts: %w", err)
	}

	return accounts, nil
}

// ListIDs returns the id of every account, deactivated ones included.
func (r *AccountRepository) ListIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM accounts ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list account ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan account id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account ids: %w", err)
	}

	return ids, nil
}

// SetStatus changes the lifecycle status without touching the balance
func (r *AccountRepository) SetStatus(ctx context.Context, id string, status account.Status) (*account.Account, error) {
	if !isUUID(id) {
		return nil, account.ErrAccountNotFound
	}

	query := `
		UPDATE accounts
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
		RETURNING ` + accountColumns

	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, status, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update account status: %w", err)
	}

	return acc, nil
}
