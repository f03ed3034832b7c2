package notification

import "context"

// Repository defines the interface for notification data access.
// Defined in the domain layer, implemented in the infrastructure layer.
type Repository interface {
	// Create stores a notification. At most one notification exists per
	// analysis; a second one yields ErrAlreadyNotified.
	Create(ctx context.Context, params CreateNotificationParams) (*Notification, error)
	ListUnread(ctx context.Context, userID int64) ([]*Notification, error)
	// MarkRead flags a notification of userID as read, or returns
	// ErrNotificationNotFound.
	MarkRead(ctx context.Context, id, userID int64) error
}
