package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"household/internal/domain/notification"
	"household/internal/infrastructure/amqp"
	"household/internal/infrastructure/postgres"
	"household/internal/infrastructure/postgres/listener"
	"household/internal/shared/config"
	"household/internal/shared/events"
	"household/internal/shared/logger"
	"household/internal/shared/messages"
)

// relay turns analysis.created events into stored notifications. It reads
// from the broker when AMQP_URL is set and from pg_notify otherwise.
func main() {
	if err := run(); err != nil {
		log.Fatal("relay error", "err", err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Setup(cfg.Log.Level, cfg.Log.Format)
	l := logger.For("relay")

	msgs, err := messages.Load(cfg.Messages.File)
	if err != nil {
		return err
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return err
	}
	defer db.Close()

	service := notification.NewService(postgres.NewNotificationRepository(db), msgs.AnalysisCreated.Body)
	handler := newHandler(service)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if cfg.AMQP.Enabled() {
		client, err := amqp.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
		if err != nil {
			return err
		}
		defer client.Close()

		l.Info("relaying from broker", "queue", cfg.AMQP.Queue)
		g.Go(func() error {
			return client.ConsumeAnalysisCreated(gctx, handler)
		})
	} else {
		l.Info("relaying from pg_notify", "channel", postgres.AnalysisCreatedChannel)
		ln := listener.NewAnalysisListener(cfg.Database.ConnectionString(), postgres.AnalysisCreatedChannel, handler)
		g.Go(func() error {
			return ln.Run(gctx)
		})
	}

	err = g.Wait()
	l.Info("relay stopped")
	return err
}

// Notifier stores the notification for a created analysis.
type Notifier interface {
	NotifyAnalysisCreated(ctx context.Context, userID, analysisID int64) error
}

func newHandler(n Notifier) events.AnalysisCreatedHandler {
	return func(ctx context.Context, msg *events.AnalysisCreated) error {
		return n.NotifyAnalysisCreated(ctx, msg.UserID, msg.AnalysisID)
	}
}
