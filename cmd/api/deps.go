package main

import (
	"fmt"

	"household/internal/domain/account"
	"household/internal/domain/analysis"
	"household/internal/domain/category"
	"household/internal/domain/ledger"
	"household/internal/domain/notification"
	"household/internal/domain/user"
	"household/internal/infrastructure/amqp"
	"household/internal/infrastructure/postgres"
	httphandlers "household/internal/interfaces/http"
	"household/internal/interfaces/scheduler"
	"household/internal/shared/auth"
	"household/internal/shared/config"
	"household/internal/shared/logger"
	"household/internal/shared/messages"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	UserHandler         *httphandlers.UserHandler
	AccountHandler      *httphandlers.AccountHandler
	CategoryHandler     *httphandlers.CategoryHandler
	TransactionHandler  *httphandlers.TransactionHandler
	AnalysisHandler     *httphandlers.AnalysisHandler
	NotificationHandler *httphandlers.NotificationHandler

	// Auth
	JWT *auth.JWT

	// Background analysis
	AnalysisService *analysis.Service
	UserService     *user.Service
	WorkerPool      *scheduler.WorkerPool

	amqpClient *amqp.Client
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	log := logger.For("api")

	if cfg.Database.MigrateOnBoot {
		if err := postgres.RunMigrations(cfg.Database.ConnectionString()); err != nil {
			return nil, err
		}
		log.Info("database migrations applied")
	}

	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Info("connected to database", "host", cfg.Database.Host, "db", cfg.Database.DBName)

	msgs, err := messages.Load(cfg.Messages.File)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("load messages: %w", err)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	categoryRepo := postgres.NewCategoryRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	analysisRepo := postgres.NewAnalysisRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	// Events go to the broker when one is configured, otherwise through NOTIFY.
	deps := &Dependencies{DB: db}
	var publisher analysis.EventPublisher = postgres.NewNotifyPublisher(db)
	if cfg.AMQP.Enabled() {
		client, err := amqp.NewClient(cfg.AMQP.URL, cfg.AMQP.Exchange, cfg.AMQP.Queue)
		if err != nil {
			db.Close()
			return nil, err
		}
		deps.amqpClient = client
		publisher = client
		log.Info("publishing events to broker", "exchange", cfg.AMQP.Exchange)
	} else {
		log.Info("publishing events with pg_notify", "channel", postgres.AnalysisCreatedChannel)
	}

	// Domain services
	userService := user.NewService(userRepo)
	accountService := account.NewService(accountRepo)
	categoryService := category.NewService(categoryRepo)
	analysisService := analysis.NewService(analysisRepo, userRepo, publisher, cfg.Analysis.Location)
	notificationService := notification.NewService(notificationRepo, msgs.AnalysisCreated.Body)
	engine := ledger.NewEngine(postgres.NewLedgerStore(db), transactionRepo, ledger.Config{
		OpTimeout:       cfg.Ledger.OpTimeout,
		DefaultCurrency: cfg.Ledger.DefaultCurrency,
	})

	// One pool serves both scheduled runs and manual requests.
	pool := scheduler.NewWorkerPool(
		cfg.Scheduler.WorkerCount,
		cfg.Scheduler.JobDelay,
		cfg.Scheduler.JobTimeout,
		cfg.Scheduler.QueueSize,
	)

	deps.UserHandler = httphandlers.NewUserHandler(userService)
	deps.AccountHandler = httphandlers.NewAccountHandler(accountService)
	deps.CategoryHandler = httphandlers.NewCategoryHandler(categoryService)
	deps.TransactionHandler = httphandlers.NewTransactionHandler(engine, categoryService, cfg.Analysis.Location)
	deps.AnalysisHandler = httphandlers.NewAnalysisHandler(analysisService, pool)
	deps.NotificationHandler = httphandlers.NewNotificationHandler(notificationService)
	deps.JWT = auth.NewJWT(cfg.JWT.Secret)
	deps.AnalysisService = analysisService
	deps.UserService = userService
	deps.WorkerPool = pool

	return deps, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.amqpClient != nil {
		d.amqpClient.Close()
	}
	if d.DB != nil {
		d.DB.Close()
	}
}
