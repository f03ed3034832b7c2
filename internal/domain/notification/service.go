package notification

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
)

// Service contains the business logic for notification operations
type Service struct {
	repo    Repository
	message string
	logger  *log.Logger
}

// NewService creates a new notification service. message is the text stored
// for every analysis-created notification.
func NewService(repo Repository, message string) *Service {
	return &Service{
		repo:    repo,
		message: message,
		logger:  log.Default().WithPrefix("notification"),
	}
}

// NotifyAnalysisCreated stores the notification for a newly created
// analysis. Redelivered events for the same analysis are absorbed.
func (s *Service) NotifyAnalysisCreated(ctx context.Context, userID, analysisID int64) error {
	params := CreateNotificationParams{
		UserID:     userID,
		AnalysisID: &analysisID,
		Message:    s.message,
	}
	if err := params.Validate(); err != nil {
		return err
	}

	n, err := s.repo.Create(ctx, params)
	if errors.Is(err, ErrAlreadyNotified) {
		s.logger.Debug("duplicate analysis event ignored", "analysis_id", analysisID, "user_id", userID)
		return nil
	}
	if err != nil {
		return err
	}

	s.logger.Info("notification stored", "notification_id", n.ID, "user_id", userID, "analysis_id", analysisID)
	return nil
}

// ListUnread returns the user's unread notifications, newest first
func (s *Service) ListUnread(ctx context.Context, userID int64) ([]*Notification, error) {
	if userID <= 0 {
		return nil, errors.New("valid user ID is required")
	}
	return s.repo.ListUnread(ctx, userID)
}

// MarkRead marks a notification as read by the authenticated user
func (s *Service) MarkRead(ctx context.Context, id, userID int64) error {
	if id <= 0 {
		return ErrNotificationNotFound
	}
	if userID <= 0 {
		return errors.New("valid user ID is required")
	}
	return s.repo.MarkRead(ctx, id, userID)
}
