package analysis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

type Service struct {
	repo      Repository
	users     Users
	publisher EventPublisher
	loc       *time.Location
	now       func() time.Time
	logger    *log.Logger
}

// NewService builds the analysis service. Periods are computed in loc; a nil
// publisher disables event delivery.
func NewService(repo Repository, users Users, publisher EventPublisher, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		repo:      repo,
		users:     users,
		publisher: publisher,
		loc:       loc,
		now:       time.Now,
		logger:    log.Default().WithPrefix("analysis"),
	}
}

// Generate computes and stores the analysis of typ for userID over the
// period containing ref. It reports whether the row was newly created.
func (s *Service) Generate(ctx context.Context, userID int64, typ Type, ref time.Time) (*SpendingAnalysis, bool, error) {
	period, err := PeriodOf(typ, ref.In(s.loc))
	if err != nil {
		return nil, false, err
	}

	totals, err := s.repo.Totals(ctx, userID, period.Start, period.Until())
	if err != nil {
		return nil, false, fmt.Errorf("failed to read totals: %w", err)
	}

	a := &SpendingAnalysis{
		UserID:           userID,
		Type:             typ,
		StartDate:        period.Start,
		EndDate:          period.End,
		TotalIncome:      totals.Income,
		TotalExpense:     totals.Expense,
		NetAmount:        totals.Income.Sub(totals.Expense),
		TransactionCount: totals.Count,
	}

	created, err := s.repo.Upsert(ctx, a)
	if err != nil {
		return nil, false, fmt.Errorf("failed to store analysis: %w", err)
	}

	if created && s.publisher != nil {
		// The row is committed; a lost event only loses the notification.
		if err := s.publisher.PublishAnalysisCreated(ctx, a); err != nil {
			s.logger.Error("failed to publish analysis.created", "analysis_id", a.ID, "user_id", userID, "err", err)
		}
	}

	s.logger.Debug("analysis generated", "user_id", userID, "type", typ, "period", period, "created", created)
	return a, created, nil
}

// GenerateForUser runs the given analysis types for one active user over the
// current period.
func (s *Service) GenerateForUser(ctx context.Context, userID int64, types []Type) (*Result, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !u.IsActive() {
		return nil, fmt.Errorf("%w: %d", ErrUserInactive, userID)
	}

	result := &Result{Users: 1}
	now := s.now()
	for _, typ := range types {
		_, created, err := s.Generate(ctx, userID, typ, now)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("%s analysis for user %d: %w", typ, userID, err))
			continue
		}
		if created {
			result.Created++
		} else {
			result.Updated++
		}
	}
	return result, nil
}

// GenerateAll runs the given types for every active user. A failure for one
// user is recorded and does not stop the others.
func (s *Service) GenerateAll(ctx context.Context, types []Type) (*Result, error) {
	users, err := s.users.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}

	total := &Result{}
	for _, u := range users {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		r, err := s.GenerateForUser(ctx, u.ID, types)
		if err != nil {
			total.Errors = append(total.Errors, err)
			continue
		}
		total.Users++
		total.Created += r.Created
		total.Updated += r.Updated
		total.Errors = append(total.Errors, r.Errors...)
	}

	s.logger.Info("analysis run complete", "users", total.Users, "created", total.Created, "updated", total.Updated, "errors", len(total.Errors))
	return total, nil
}

// Get returns an analysis owned by userID. Other owners' rows read as not found.
func (s *Service) Get(ctx context.Context, id, userID int64) (*SpendingAnalysis, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, ErrAnalysisNotFound
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, userID int64, typ Type) ([]*SpendingAnalysis, error) {
	if typ != "" && !typ.Valid() {
		return nil, ErrInvalidType
	}
	return s.repo.List(ctx, userID, typ, 0)
}

// Compare returns the last four weekly and last three monthly analyses,
// newest first, labelled by period.
func (s *Service) Compare(ctx context.Context, userID int64) (*Comparison, error) {
	weekly, err := s.repo.List(ctx, userID, TypeWeekly, comparisonWeeks)
	if err != nil {
		return nil, err
	}
	monthly, err := s.repo.List(ctx, userID, TypeMonthly, comparisonMonths)
	if err != nil {
		return nil, err
	}

	c := &Comparison{
		Weekly:  make([]ComparisonEntry, 0, len(weekly)),
		Monthly: make([]ComparisonEntry, 0, len(monthly)),
	}
	for _, a := range weekly {
		c.Weekly = append(c.Weekly, entryOf(a, Period{Start: a.StartDate, End: a.EndDate}.String()))
	}
	for _, a := range monthly {
		c.Monthly = append(c.Monthly, entryOf(a, a.StartDate.Format("2006-01")))
	}
	return c, nil
}

func entryOf(a *SpendingAnalysis, label string) ComparisonEntry {
	return ComparisonEntry{
		Period:           label,
		TotalIncome:      a.TotalIncome,
		TotalExpense:     a.TotalExpense,
		NetAmount:        a.NetAmount,
		TransactionCount: a.TransactionCount,
	}
}

// Err joins the per-user failures of a run, or returns nil.
func (r *Result) Err() error {
	return errors.Join(r.Errors...)
}
