package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"household/internal/domain/analysis"
)

const analysisColumns = `id, user_id, analysis_type, start_date, end_date, total_income, total_expense,
	net_amount, transaction_count, created_at, updated_at`

func scanAnalysis(s scanner) (*analysis.SpendingAnalysis, error) {
	var a analysis.SpendingAnalysis
	err := s.Scan(
		&a.ID, &a.UserID, &a.Type, &a.StartDate, &a.EndDate, &a.TotalIncome, &a.TotalExpense,
		&a.NetAmount, &a.TransactionCount, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

type AnalysisRepository struct {
	db *DB
}

func NewAnalysisRepository(db *DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Totals reads from a REPEATABLE READ, READ ONLY snapshot so the sums and
// the count describe the same set of rows.
func (r *AnalysisRepository) Totals(ctx context.Context, userID int64, from, until time.Time) (analysis.Totals, error) {
	var totals analysis.Totals

	opts := &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	err := r.db.WithinTx(ctx, opts, func(ctx context.Context, tx *Tx) error {
		query := `
			SELECT
				COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'deposit'), 0),
				COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'withdrawal'), 0),
				COUNT(*)
			FROM transactions
			WHERE user_id = $1 AND transaction_date >= $2 AND transaction_date < $3
		`
		return tx.QueryRowContext(ctx, query, userID, from, until).Scan(&totals.Income, &totals.Expense, &totals.Count)
	})
	if err != nil {
		return analysis.Totals{}, fmt.Errorf("failed to read analysis totals: %w", err)
	}

	return totals, nil
}

// Upsert keys on (user, type, start date). xmax is zero only for a row this
// statement inserted, which tells a fresh analysis from a refresh.
func (r *AnalysisRepository) Upsert(ctx context.Context, a *analysis.SpendingAnalysis) (bool, error) {
	query := `
		INSERT INTO spending_analyses (
			user_id, analysis_type, start_date, end_date, total_income, total_expense, net_amount, transaction_count
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT ON CONSTRAINT spending_analyses_user_type_start_key DO UPDATE
		SET end_date = EXCLUDED.end_date,
		    total_income = EXCLUDED.total_income,
		    total_expense = EXCLUDED.total_expense,
		    net_amount = EXCLUDED.net_amount,
		    transaction_count = EXCLUDED.transaction_count,
		    updated_at = CURRENT_TIMESTAMP
		RETURNING id, created_at, updated_at, (xmax = 0)
	`

	var created bool
	err := r.db.QueryRowContext(
		ctx, query,
		a.UserID, string(a.Type), a.StartDate.Format(time.DateOnly), a.EndDate.Format(time.DateOnly),
		a.TotalIncome, a.TotalExpense, a.NetAmount, a.TransactionCount,
	).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt, &created)
	if err != nil {
		return false, fmt.Errorf("failed to upsert analysis: %w", err)
	}

	return created, nil
}

func (r *AnalysisRepository) GetByID(ctx context.Context, id int64) (*analysis.SpendingAnalysis, error) {
	query := `SELECT ` + analysisColumns + ` FROM spending_analyses WHERE id = $1`

	a, err := scanAnalysis(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, analysis.ErrAnalysisNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	return a, nil
}

func (r *AnalysisRepository) List(ctx context.Context, userID int64, typ analysis.Type, limit int) ([]*analysis.SpendingAnalysis, error) {
	query := `
		SELECT ` + analysisColumns + `
		FROM spending_analyses
		WHERE user_id = $1 AND ($2 = '' OR analysis_type = $2)
		ORDER BY start_date DESC, analysis_type ASC
	`
	args := []any{userID, string(typ)}
	if limit > 0 {
		query += ` LIMIT $3`
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var analyses []*analysis.SpendingAnalysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		analyses = append(analyses, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating analyses: %w", err)
	}

	return analyses, nil
}
