package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"household/internal/domain/ledger"
)

// TransactionRepository serves ledger reads outside a unit of work.
type TransactionRepository struct {
	db *DB
}

func NewTransactionRepository(db *DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (*ledger.Transaction, error) {
	if !isUUID(id) {
		return nil, ledger.ErrTransactionNotFound
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ledger.ErrTransactionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}

	return t, nil
}

// List returns the user's transactions whose source account is active,
// newest first. EndDate is exclusive.
func (r *TransactionRepository) List(ctx context.Context, userID int64, filter ledger.ListFilter) ([]*ledger.Transaction, error) {
	query, args := buildListQuery(userID, filter)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var txns []*ledger.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txns, nil
}

func buildListQuery(userID int64, filter ledger.ListFilter) (string, []any) {
	conditions := []string{"t.user_id = $1", "a.status = 'active'"}
	args := []any{userID}

	add := func(cond string, v any) {
		args = append(args, v)
		conditions = append(conditions, strings.ReplaceAll(cond, "?", fmt.Sprintf("$%d", len(args))))
	}

	if filter.KindName != "" {
		add("t.transaction_type = ?", filter.KindName)
	}
	if filter.AccountID != "" {
		add("(t.account_id::text = ? OR t.to_account_id::text = ?)", filter.AccountID)
	}
	if filter.MinAmount != nil {
		add("t.amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		add("t.amount <= ?", *filter.MaxAmount)
	}
	if filter.StartDate != nil {
		add("t.transaction_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		add("t.transaction_date < ?", *filter.EndDate)
	}

	prefixed := strings.ReplaceAll(transactionColumns, "\n\t", " ")
	cols := make([]string, 0, 13)
	for _, c := range strings.Split(prefixed, ",") {
		cols = append(cols, "t."+strings.TrimSpace(c))
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE %s
		ORDER BY t.transaction_date DESC, t.created_at DESC, t.id DESC
		LIMIT %d OFFSET %d
	`, strings.Join(cols, ", "), strings.Join(conditions, " AND "), filter.Limit, filter.Offset)

	return query, args
}
