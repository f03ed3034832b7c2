package notification

import (
	"errors"
	"time"
)

// Domain errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrAlreadyNotified      = errors.New("notification for this analysis already exists")
)

// Notification represents a stored notification record
type Notification struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"-"`
	AnalysisID *int64    `json:"analysisId,omitempty"`
	Message    string    `json:"message"`
	IsRead     bool      `json:"isRead"`
	CreatedAt  time.Time `json:"createdAt"`
}

// CreateNotificationParams contains parameters for storing a notification
type CreateNotificationParams struct {
	UserID     int64
	AnalysisID *int64
	Message    string
}

func (p CreateNotificationParams) Validate() error {
	if p.UserID <= 0 {
		return errors.New("valid user ID is required")
	}
	if p.Message == "" {
		return errors.New("notification message is required")
	}
	return nil
}
