package postgres

import (
	"context"
	"fmt"

	"household/internal/domain/analysis"
	"household/internal/shared/events"
)

// AnalysisCreatedChannel is the NOTIFY channel used when no broker is configured.
const AnalysisCreatedChannel = "analysis_created"

// NotifyPublisher sends analysis.created events with pg_notify.
type NotifyPublisher struct {
	db *DB
}

func NewNotifyPublisher(db *DB) *NotifyPublisher {
	return &NotifyPublisher{db: db}
}

func (p *NotifyPublisher) PublishAnalysisCreated(ctx context.Context, a *analysis.SpendingAnalysis) error {
	body, err := events.NewAnalysisCreated(a.ID, a.UserID, string(a.Type), a.StartDate).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}

	if _, err := p.db.ExecContext(ctx, `SELECT pg_notify($1, $2)`, AnalysisCreatedChannel, string(body)); err != nil {
		return fmt.Errorf("failed to notify %s: %w", AnalysisCreatedChannel, err)
	}
	return nil
}
