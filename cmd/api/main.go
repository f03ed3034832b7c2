package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"household/internal/domain/analysis"
	"household/internal/interfaces/scheduler"
	"household/internal/shared/config"
	"household/internal/shared/logger"
	"household/internal/shared/telemetry"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal("application error", "err", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Setup(cfg.Log.Level, cfg.Log.Format)
	l := logger.For("api")

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.Init(context.Background(), cfg.Telemetry)
		if err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(ctx); err != nil {
				l.Error("telemetry shutdown failed", "err", err)
			}
		}()
	}

	deps, err := NewDependencies(cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	deps.WorkerPool.Start()

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched, err = newScheduler(cfg, deps)
		if err != nil {
			return err
		}
		sched.Start()
		l.Info("scheduler started", "times", cfg.Scheduler.ScheduleTimes, "next", sched.NextRun(time.Now()))
	} else {
		l.Info("scheduler is disabled")
	}

	handler := SetupRoutes(deps, cfg)
	srv, redirectSrv, errc := StartServers(NewServerConfigFromConfig(handler, cfg))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-quit:
		l.Info("signal received", "signal", sig.String())
	case serveErr = <-errc:
		l.Error("server failed", "err", serveErr)
	}

	GracefulShutdown(srv, redirectSrv, sched, deps.WorkerPool, shutdownTimeout)
	return serveErr
}

func newScheduler(cfg *config.Config, deps *Dependencies) (*scheduler.Scheduler, error) {
	types := []analysis.Type{analysis.TypeWeekly, analysis.TypeMonthly}
	return scheduler.NewScheduler(scheduler.SchedulerConfig{
		ScheduleTimes: cfg.Scheduler.ScheduleTimes,
		Location:      cfg.Analysis.Location,
		RunOnStartup:  cfg.Scheduler.RunOnStartup,
		JobProvider:   scheduler.AnalysisJobProvider(deps.UserService, types, deps.AnalysisService),
		WorkerPool:    deps.WorkerPool,
	})
}
