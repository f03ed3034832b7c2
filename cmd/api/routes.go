package main

import (
	"net/http"

	httphandlers "household/internal/interfaces/http"
	"household/internal/shared/config"
	"household/internal/shared/logger"
	"household/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Public routes
	mux.HandleFunc("GET /health", httphandlers.HandleHealth(deps.DB))
	mux.HandleFunc("POST /api/users/register", deps.UserHandler.HandleRegister)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)
	protect := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, authMiddleware(h))
	}

	protect("GET /api/users/me", deps.UserHandler.HandleMe)

	protect("GET /api/accounts/", deps.AccountHandler.HandleListAccounts)
	protect("POST /api/accounts/", deps.AccountHandler.HandleCreateAccount)
	protect("GET /api/accounts/{id}", deps.AccountHandler.HandleGetAccount)
	protect("DELETE /api/accounts/{id}", deps.AccountHandler.HandleDeleteAccount)

	protect("GET /api/categories/", deps.CategoryHandler.HandleListCategories)
	protect("POST /api/categories/", deps.CategoryHandler.HandleCreateCategory)
	protect("GET /api/categories/{id}", deps.CategoryHandler.HandleGetCategory)
	protect("PATCH /api/categories/{id}", deps.CategoryHandler.HandleUpdateCategory)
	protect("DELETE /api/categories/{id}", deps.CategoryHandler.HandleDeleteCategory)

	protect("GET /api/transactions/", deps.TransactionHandler.HandleListTransactions)
	protect("POST /api/transactions/", deps.TransactionHandler.HandleCreateTransaction)
	protect("GET /api/transactions/{id}", deps.TransactionHandler.HandleGetTransaction)
	protect("PATCH /api/transactions/{id}", deps.TransactionHandler.HandleUpdateTransaction)
	protect("DELETE /api/transactions/{id}", deps.TransactionHandler.HandleDeleteTransaction)

	protect("GET /api/analyses/", deps.AnalysisHandler.HandleListAnalyses)
	protect("GET /api/analyses/comparison", deps.AnalysisHandler.HandleComparison)
	protect("POST /api/analyses/generate", deps.AnalysisHandler.HandleGenerate)
	protect("GET /api/analyses/{id}", deps.AnalysisHandler.HandleGetAnalysis)

	protect("GET /api/notifications/unread", deps.NotificationHandler.HandleListUnread)
	protect("PATCH /api/notifications/{id}/read", deps.NotificationHandler.HandleMarkRead)

	// Apply global middleware
	handler := middleware.Tracing(mux)
	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(handler)
	}
	handler = middleware.Logging(middleware.CORS(cfg.Server.AllowedHosts)(handler))

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(handler)
		logger.For("api").Info("TLS security middleware enabled (HSTS)")
	}

	return handler
}
