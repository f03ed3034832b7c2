package scheduler

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"household/internal/domain/analysis"
	"household/internal/domain/user"
)

// AnalysisGenerator is the part of analysis.Service a job drives.
type AnalysisGenerator interface {
	GenerateForUser(ctx context.Context, userID int64, types []analysis.Type) (*analysis.Result, error)
}

// AnalysisJob generates the current period's analyses for one user.
type AnalysisJob struct {
	userID    int64
	types     []analysis.Type
	generator AnalysisGenerator
}

func NewAnalysisJob(userID int64, types []analysis.Type, generator AnalysisGenerator) *AnalysisJob {
	return &AnalysisJob{
		userID:    userID,
		types:     types,
		generator: generator,
	}
}

func (j *AnalysisJob) Execute(ctx context.Context) error {
	result, err := j.generator.GenerateForUser(ctx, j.userID, j.types)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if err := result.Err(); err != nil {
		return fmt.Errorf("analysis completed with %d errors: %w", len(result.Errors), err)
	}

	log.Default().WithPrefix("scheduler").Debug("analysis job done",
		"user_id", j.userID, "created", result.Created, "updated", result.Updated)
	return nil
}

func (j *AnalysisJob) UserID() int64 {
	return j.userID
}

func (j *AnalysisJob) Description() string {
	names := make([]string, len(j.types))
	for i, t := range j.types {
		names[i] = string(t)
	}
	return "analysis(" + strings.Join(names, ",") + ")"
}

// ActiveUsers lists the owners a scheduled run covers.
type ActiveUsers interface {
	ListActive(ctx context.Context) ([]*user.User, error)
}

// AnalysisJobProvider builds one AnalysisJob per active user.
func AnalysisJobProvider(users ActiveUsers, types []analysis.Type, generator AnalysisGenerator) func(context.Context) ([]Job, error) {
	return func(ctx context.Context) ([]Job, error) {
		active, err := users.ListActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list active users: %w", err)
		}

		jobs := make([]Job, 0, len(active))
		for _, u := range active {
			jobs = append(jobs, NewAnalysisJob(u.ID, types, generator))
		}
		return jobs, nil
	}
}
