package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/AchilleasB/campus-portal/identity-access-service/internal/adapters/messaging"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/adapters/outbox"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/config"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/core/ports"
	"github.com/AchilleasB/campus-portal/identity-access-service/internal/logging"
)

func main() {
	cfg := config.LoadRelayConfig()
	logger := logging.New("auth-outbox-relay", cfg.Version, cfg.LogLevel, os.Stderr)

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	publisher, closer, err := newPublisher(cfg)
	if err != nil {
		logging.LogError(logger.With("broker", cfg.Broker), "failed to connect to broker", err)
		os.Exit(1)
	}
	defer closer.Close()
	logger.Info("connected to broker", "broker", cfg.Broker)

	relayWorker := outbox.NewRelay(db, cfg.DatabaseURL, publisher, logger)

	healthServer := &http.Server{
		Addr:              cfg.HealthAddr,
		Handler:           healthMux(relayWorker),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("starting health check server", "addr", cfg.HealthAddr)
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("health server error", "error", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		if err := relayWorker.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("received signal, initiating shutdown", "signal", sig.String())
	case err := <-errChan:
		logging.LogError(logger, "fatal relay error, shutting down", err)
	}
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("error shutting down health server", "error", err)
	}

	logger.Info("shutdown complete")
}

func newPublisher(cfg *config.RelayConfig) (ports.AuthEventPublisher, io.Closer, error) {
	switch cfg.Broker {
	case config.BrokerRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		pub := messaging.NewRedisStreamPublisher(client, cfg.StreamName, cfg.StreamMaxLen)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := pub.Ping(ctx); err != nil {
			client.Close()
			return nil, nil, err
		}
		return pub, client, nil
	default:
		broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.QueueName)
		if err != nil {
			return nil, nil, err
		}
		return broker, broker, nil
	}
}

type healthChecker interface {
	IsHealthy() bool
	IsReady() bool
}

func healthMux(relay healthChecker) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", healthHandler(relay.IsHealthy))
	mux.HandleFunc("GET /health/live", healthHandler(relay.IsHealthy))
	mux.HandleFunc("GET /health/ready", healthHandler(relay.IsReady))
	return mux
}

func healthHandler(check func() bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "UP"
		httpStatus := http.StatusOK
		if !check() {
			status = "DOWN"
			httpStatus = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(httpStatus)
		if err := json.NewEncoder(w).Encode(map[string]string{
			"status":    status,
			"component": "outbox-relay",
		}); err != nil {
			slog.Error("failed to encode health response", "error", err)
		}
	}
}
