package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"household/internal/interfaces/scheduler"
	"household/internal/shared/config"
	"household/internal/shared/logger"
	"household/internal/shared/middleware"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Handler      http.Handler
	Addr         string
	TLSEnabled   bool
	CertPath     string
	KeyPath      string
	RedirectHTTP bool
	AllowedHosts []string
}

// StartServers creates and starts the main server and optional redirect server.
// Listener failures are sent on the returned channel.
func StartServers(scfg ServerConfig) (srv, redirectSrv *http.Server, errc <-chan error) {
	log := logger.For("server")
	errs := make(chan error, 2)

	srv = &http.Server{
		Addr:         scfg.Addr,
		Handler:      scfg.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	if scfg.TLSEnabled && scfg.RedirectHTTP {
		redirectSrv = createRedirectServer(scfg.AllowedHosts)
		go func() {
			log.Info("HTTP redirect server starting", "addr", redirectSrv.Addr)
			if err := redirectSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("HTTP redirect server error", "err", err)
			}
		}()
	}

	go func() {
		var err error
		if scfg.TLSEnabled {
			log.Info("HTTPS server starting", "addr", scfg.Addr)
			err = srv.ListenAndServeTLS(scfg.CertPath, scfg.KeyPath)
		} else {
			log.Info("HTTP server starting", "addr", scfg.Addr)
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()

	return srv, redirectSrv, errs
}

// GracefulShutdown stops accepting requests, then drains the scheduler and
// the worker pool so jobs in flight can finish.
func GracefulShutdown(srv, redirectSrv *http.Server, sched *scheduler.Scheduler, pool *scheduler.WorkerPool, timeout time.Duration) {
	log := logger.For("server")
	log.Info("server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if redirectSrv != nil {
		if err := redirectSrv.Shutdown(ctx); err != nil {
			log.Error("error shutting down HTTP redirect server", "err", err)
		}
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("error shutting down main server", "err", err)
	}

	if sched != nil {
		sched.Shutdown(timeout)
	}
	if pool != nil {
		pool.ShutdownWithTimeout(timeout)
	}

	log.Info("server stopped")
}

// createRedirectServer creates an HTTP server that redirects all requests to HTTPS.
func createRedirectServer(allowedHosts []string) *http.Server {
	return &http.Server{
		Addr:         ":80",
		Handler:      middleware.RequireHTTPS(allowedHosts)(http.NotFoundHandler()),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// NewServerConfigFromConfig creates ServerConfig from application config.
func NewServerConfigFromConfig(handler http.Handler, cfg *config.Config) ServerConfig {
	return ServerConfig{
		Handler:      handler,
		Addr:         cfg.Server.Host + ":" + cfg.Server.Port,
		TLSEnabled:   cfg.TLS.Enabled,
		CertPath:     cfg.TLS.CertPath,
		KeyPath:      cfg.TLS.KeyPath,
		RedirectHTTP: cfg.TLS.RedirectHTTP,
		AllowedHosts: cfg.Server.AllowedHosts,
	}
}
