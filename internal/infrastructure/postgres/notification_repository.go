package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"household/internal/domain/notification"
)

const notificationColumns = `id, user_id, analysis_id, message, is_read, created_at`

func scanNotification(s scanner) (*notification.Notification, error) {
	var (
		n          notification.Notification
		analysisID sql.NullInt64
	)
	if err := s.Scan(&n.ID, &n.UserID, &analysisID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
		return nil, err
	}
	if analysisID.Valid {
		n.AnalysisID = &analysisID.Int64
	}
	return &n, nil
}

type NotificationRepository struct {
	db *DB
}

func NewNotificationRepository(db *DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create stores a notification. A second notification for the same analysis
// inserts nothing and yields ErrAlreadyNotified.
func (r *NotificationRepository) Create(ctx context.Context, params notification.CreateNotificationParams) (*notification.Notification, error) {
	query := `
		INSERT INTO notifications (user_id, analysis_id, message)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT notifications_analysis_id_key DO NOTHING
		RETURNING ` + notificationColumns

	var analysisID sql.NullInt64
	if params.AnalysisID != nil {
		analysisID = sql.NullInt64{Int64: *params.AnalysisID, Valid: true}
	}

	n, err := scanNotification(r.db.QueryRowContext(ctx, query, params.UserID, analysisID, params.Message))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notification.ErrAlreadyNotified
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return n, nil
}

func (r *NotificationRepository) ListUnread(ctx context.Context, userID int64) ([]*notification.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1 AND NOT is_read
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating notifications: %w", err)
	}

	return notifications, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return notification.ErrNotificationNotFound
	}

	return nil
}
