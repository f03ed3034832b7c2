package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ScheduleTime is a time of day at which the scheduler fires.
type ScheduleTime struct {
	Hour   int
	Minute int
}

func (st ScheduleTime) String() string {
	return fmt.Sprintf("%02d:%02d", st.Hour, st.Minute)
}

// ParseScheduleTime parses HH:MM.
func ParseScheduleTime(s string) (ScheduleTime, error) {
	var hour, minute int
	var rest string
	n, _ := fmt.Sscanf(s, "%d:%d%s", &hour, &minute, &rest)
	if n < 2 {
		return ScheduleTime{}, fmt.Errorf("invalid time format %q (expected HH:MM)", s)
	}
	if n == 3 {
		return ScheduleTime{}, fmt.Errorf("invalid time format %q: trailing %q", s, rest)
	}

	if hour < 0 || hour > 23 {
		return ScheduleTime{}, fmt.Errorf("invalid hour: %d (must be 0-23)", hour)
	}
	if minute < 0 || minute > 59 {
		return ScheduleTime{}, fmt.Errorf("invalid minute: %d (must be 0-59)", minute)
	}

	return ScheduleTime{Hour: hour, Minute: minute}, nil
}

// Scheduler submits the jobs returned by its provider to a worker pool at
// fixed times of day. The pool is owned by the caller, which starts it and
// shuts it down after the scheduler.
type Scheduler struct {
	workerPool    *WorkerPool
	scheduleTimes []ScheduleTime
	location      *time.Location
	runOnStartup  bool
	jobProvider   func(context.Context) ([]Job, error)

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	lastRun string
	mu      sync.Mutex
	logger  *log.Logger
}

type SchedulerConfig struct {
	ScheduleTimes []string
	// Location the schedule times are read in. Nil means UTC.
	Location     *time.Location
	RunOnStartup bool
	JobProvider  func(context.Context) ([]Job, error)
	WorkerPool   *WorkerPool
}

func NewScheduler(config SchedulerConfig) (*Scheduler, error) {
	scheduleTimes := make([]ScheduleTime, 0, len(config.ScheduleTimes))
	for _, timeStr := range config.ScheduleTimes {
		st, err := ParseScheduleTime(timeStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse schedule time %q: %w", timeStr, err)
		}
		scheduleTimes = append(scheduleTimes, st)
	}

	if len(scheduleTimes) == 0 {
		return nil, errors.New("at least one schedule time is required")
	}
	if config.JobProvider == nil {
		return nil, errors.New("job provider is required")
	}
	if config.WorkerPool == nil {
		return nil, errors.New("worker pool is required")
	}

	loc := config.Location
	if loc == nil {
		loc = time.UTC
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		workerPool:    config.WorkerPool,
		scheduleTimes: scheduleTimes,
		location:      loc,
		runOnStartup:  config.RunOnStartup,
		jobProvider:   config.JobProvider,
		ctx:           ctx,
		cancel:        cancel,
		logger:        log.Default().WithPrefix("scheduler"),
	}, nil
}

// Start launches the minute ticker.
func (s *Scheduler) Start() {
	if s.runOnStartup {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.runJobs()
		}()
	}

	s.wg.Add(1)
	go s.scheduleLoop()

	s.logger.Info("scheduler started", "times", s.scheduleTimes, "location", s.location, "next", s.NextRun(time.Now()))
}

func (s *Scheduler) scheduleLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return

		case now := <-ticker.C:
			if s.shouldRun(now) {
				s.logger.Info("triggered", "at", now.In(s.location).Format("15:04"))
				s.runJobs()
			}
		}
	}
}

// shouldRun reports whether now falls on a schedule time that has not fired
// yet. A ticker that drifts into the same minute twice fires once.
func (s *Scheduler) shouldRun(now time.Time) bool {
	local := now.In(s.location)
	key := local.Format("2006-01-02 15:04")

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lastRun == key {
		return false
	}

	for _, st := range s.scheduleTimes {
		if local.Hour() == st.Hour && local.Minute() == st.Minute {
			s.lastRun = key
			return true
		}
	}

	return false
}

func (s *Scheduler) runJobs() {
	ctx, cancel := context.WithTimeout(s.ctx, 5*time.Minute)
	defer cancel()

	jobs, err := s.jobProvider(ctx)
	if err != nil {
		s.logger.Error("failed to fetch jobs", "err", err)
		return
	}

	if len(jobs) == 0 {
		s.logger.Info("no jobs to process")
		return
	}

	s.workerPool.SubmitBatch(jobs)
}

// TriggerNow runs the provider immediately, outside the schedule.
func (s *Scheduler) TriggerNow() {
	s.logger.Info("manual trigger")
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runJobs()
	}()
}

// Shutdown stops the ticker and waits for an in-flight provider call.
func (s *Scheduler) Shutdown(timeout time.Duration) {
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
		s.logger.Warn("timeout waiting for scheduler loop to stop")
		return
	}

	s.logger.Info("scheduler stopped")
}

// NextRun returns the first schedule time after now.
func (s *Scheduler) NextRun(now time.Time) time.Time {
	local := now.In(s.location)
	var next time.Time

	for _, st := range s.scheduleTimes {
		t := time.Date(local.Year(), local.Month(), local.Day(), st.Hour, st.Minute, 0, 0, s.location)
		if !t.After(local) {
			t = t.AddDate(0, 0, 1)
		}
		if next.IsZero() || t.Before(next) {
			next = t
		}
	}

	return next
}
