package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/adapters/handler"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/adapters/hashing"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/adapters/metrics"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/adapters/repository"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/config"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/ports"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/services"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New("identity-access-service", cfg.Version, cfg.LogLevel, os.Stderr)

	scheme, err := hashing.ParseScheme(cfg.HashScheme)
	if err != nil {
		logging.LogError(logger, "invalid hash scheme", err)
		os.Exit(1)
	}
	hasher, err := hashing.NewSchemeHasher(scheme)
	if err != nil {
		logging.LogError(logger, "failed to build password hasher", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns / 2)
	db.SetConnMaxIdleTime(5 * time.Minute)

	// The breaker validates the connection on first use; a database that is
	// down at startup only fails readiness.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := db.PingContext(pingCtx); err != nil {
		logger.Warn("database not reachable at startup", "error", err)
	}
	pingCancel()

	credentialStore := repository.NewSQLRepository(db, cfg.DBQueryTimeout)

	recorders := []ports.AuthEventRecorder{metrics.NewAuthMetrics(prometheus.DefaultRegisterer)}
	if cfg.AuditEnabled {
		recorders = append(recorders, repository.NewOutboxRecorder(db))
		logger.Info("audit outbox enabled", "channel", repository.OutboxChannel)
	}

	authService := services.NewAuthService(credentialStore, hasher, logger, recorders...)

	router := handler.NewRouter(handler.RouterConfig{
		Auth:           handler.NewAuthHandler(authService, logger),
		Health:         handler.NewHealthHandler(db, credentialStore, cfg.Version, logger),
		Gatherer:       prometheus.DefaultGatherer,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", server.Addr, "hash_scheme", hasher.Primary())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("received signal, initiating shutdown", "signal", sig.String())
	case err := <-errChan:
		logger.Error("server error, shutting down", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("error shutting down server", "error", err)
	}

	logger.Info("shutdown complete")
}
