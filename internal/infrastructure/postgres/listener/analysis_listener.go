package listener

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/lib/pq"

	"household/internal/shared/events"
)

const (
	reconnectInterval = 5 * time.Second
	pingInterval      = 90 * time.Second
	handleTimeout     = 30 * time.Second
)

// AnalysisListener receives analysis.created events sent with pg_notify.
// NOTIFY has no redelivery, so a failed handler is logged and the event dropped.
type AnalysisListener struct {
	connStr string
	channel string
	handler events.AnalysisCreatedHandler
	logger  *log.Logger
}

func NewAnalysisListener(connStr, channel string, handler events.AnalysisCreatedHandler) *AnalysisListener {
	return &AnalysisListener{
		connStr: connStr,
		channel: channel,
		handler: handler,
		logger:  log.Default().WithPrefix("listener"),
	}
}

// Run listens until ctx is done, reconnecting after connection loss.
func (l *AnalysisListener) Run(ctx context.Context) error {
	l.logger.Info("notification listener started", "channel", l.channel)

	for {
		l.connectAndListen(ctx)

		select {
		case <-ctx.Done():
			l.logger.Info("notification listener stopped")
			return nil
		case <-time.After(reconnectInterval):
			l.logger.Info("reconnecting to PostgreSQL for notifications")
		}
	}
}

func (l *AnalysisListener) connectAndListen(ctx context.Context) {
	listener := pq.NewListener(l.connStr, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnected:
			l.logger.Info("connected to notification channel")
		case pq.ListenerEventDisconnected:
			l.logger.Warn("disconnected from notification channel", "err", err)
		case pq.ListenerEventReconnected:
			l.logger.Info("reconnected to notification channel")
		case pq.ListenerEventConnectionAttemptFailed:
			l.logger.Error("connection attempt failed", "err", err)
		}
	})
	defer listener.Close()

	if err := listener.Listen(l.channel); err != nil {
		l.logger.Error("failed to listen", "channel", l.channel, "err", err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case n := <-listener.Notify:
			if n == nil {
				// Connection lost, break to reconnect
				return
			}
			l.handle(ctx, n)
		case <-time.After(pingInterval):
			go func() {
				if err := listener.Ping(); err != nil {
					l.logger.Warn("listener ping failed", "err", err)
				}
			}()
		}
	}
}

func (l *AnalysisListener) handle(ctx context.Context, n *pq.Notification) {
	msg, err := events.AnalysisCreatedFromJSON([]byte(n.Extra))
	if err != nil {
		l.logger.Error("failed to parse notification payload", "channel", n.Channel, "err", err)
		return
	}

	// Detached from ctx so an event in flight finishes during shutdown.
	hctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), handleTimeout)
	defer cancel()

	if err := l.handler(hctx, msg); err != nil {
		l.logger.Error("failed to handle event", "analysis_id", msg.AnalysisID, "user_id", msg.UserID, "err", err)
		return
	}
	l.logger.Debug("event handled", "analysis_id", msg.AnalysisID)
}
