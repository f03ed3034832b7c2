package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"household/internal/domain/category"
)

const categoryColumns = `id, user_id, name, type, created_at, updated_at`

func scanCategory(s scanner) (*category.Category, error) {
	var c category.Category
	if err := s.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

type CategoryRepository struct {
	db *DB
}

func NewCategoryRepository(db *DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, userID int64, params category.CreateCategoryParams) (*category.Category, error) {
	query := `
		INSERT INTO categories (id, user_id, name, type)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + categoryColumns

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, uuid.NewString(), userID, params.Name, params.Type))
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return nil, category.ErrDuplicateCategory
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return c, nil
}

// insertCategories seeds categories for a user inside tx.
func insertCategories(ctx context.Context, tx *Tx, userID int64, params []category.CreateCategoryParams) error {
	query := `
		INSERT INTO categories (id, user_id, name, type)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT categories_user_name_type_key DO NOTHING
	`
	for _, p := range params {
		if _, err := tx.ExecContext(ctx, query, uuid.NewString(), userID, p.Name, p.Type); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", p.Name, err)
		}
	}
	return nil
}

func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*category.Category, error) {
	if !isUUID(id) {
		return nil, category.ErrCategoryNotFound
	}

	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1`

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, category.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	return c, nil
}

func (r *CategoryRepository) ListByUserID(ctx context.Context, userID int64, typ category.Type) ([]*category.Category, error) {
	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE user_id = $1 AND ($2 = '' OR type = $2)
		ORDER BY type ASC, name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, userID, string(typ))
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []*category.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id string, params category.UpdateCategoryParams) (*category.Category, error) {
	query := `
		UPDATE categories
		SET name = COALESCE($1, name),
		    type = COALESCE($2, type),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
		RETURNING ` + categoryColumns

	var typ *string
	if params.Type != nil {
		s := string(*params.Type)
		typ = &s
	}

	c, err := scanCategory(r.db.QueryRowContext(ctx, query, params.Name, typ, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, category.ErrCategoryNotFound
	}
	if err != nil {
		if _, ok := uniqueViolation(err); ok {
			return nil, category.ErrDuplicateCategory
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	return c, nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		if _, ok := foreignKeyViolation(err); ok {
			return category.ErrCategoryInUse
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if rows == 0 {
		return category.ErrCategoryNotFound
	}

	return nil
}
