package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"household/internal/domain/category"
	"household/internal/domain/user"
)

const userColumns = `id, email, password_hash, nickname, phone_number, status, joined_at, updated_at`

func scanUser(s scanner) (*user.User, error) {
	var u user.User
	err := s.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Nickname, &u.PhoneNumber,
		&u.Status, &u.JoinedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user and seeds its categories in one transaction.
func (r *UserRepository) Create(ctx context.Context, params user.CreateUserParams, categories []category.CreateCategoryParams) (*user.User, error) {
	var created *user.User

	err := r.db.WithinTx(ctx, nil, func(ctx context.Context, tx *Tx) error {
		query := `
			INSERT INTO users (email, password_hash, nickname, phone_number, status)
			VALUES ($1, $2, $3, $4, 'active')
			RETURNING ` + userColumns

		u, err := scanUser(tx.QueryRowContext(ctx, query, params.Email, params.PasswordHash, params.Nickname, params.PhoneNumber))
		if err != nil {
			if _, ok := uniqueViolation(err); ok {
				return user.ErrEmailTaken
			}
			return fmt.Errorf("failed to create user: %w", err)
		}

		if err := insertCategories(ctx, tx, u.ID, categories); err != nil {
			return err
		}

		created = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return u, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return u, nil
}

func (r *UserRepository) ListActive(ctx context.Context) ([]*user.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE status = 'active' ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}
