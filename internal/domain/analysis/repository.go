package analysis

import (
	"context"
	"time"

	"household/internal/domain/user"
)

type Repository interface {
	// Totals reads income, expense and count for userID over the half-open
	// range [from, until) from one consistent snapshot.
	Totals(ctx context.Context, userID int64, from, until time.Time) (Totals, error)
	// Upsert inserts or refreshes the row keyed by (user, type, start date)
	// and reports whether it was newly created.
	Upsert(ctx context.Context, a *SpendingAnalysis) (created bool, err error)
	GetByID(ctx context.Context, id int64) (*SpendingAnalysis, error)
	// List returns newest first. A zero limit means no limit.
	List(ctx context.Context, userID int64, typ Type, limit int) ([]*SpendingAnalysis, error)
}

// Users is the owner lookup the job needs.
type Users interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	ListActive(ctx context.Context) ([]*user.User, error)
}

// EventPublisher announces newly created analyses.
type EventPublisher interface {
	PublishAnalysisCreated(ctx context.Context, a *SpendingAnalysis) error
}
