package scheduler

import "context"

// Job is a unit of work run by the worker pool.
type Job interface {
	// Execute runs the job. ctx carries the per-job timeout.
	Execute(ctx context.Context) error

	// UserID identifies the owner whose data the job touches, for logs and spans.
	UserID() int64

	Description() string
}
