package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/copter/internal/app"
	"github.com/mmynk/copter/internal/auth"
	"github.com/mmynk/copter/internal/config"
	"github.com/mmynk/copter/internal/middleware"
	"github.com/mmynk/copter/internal/service"
	"github.com/mmynk/copter/pkg/api"
	"github.com/mmynk/copter/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.ValidateServer(); err != nil {
		return err
	}

	wire, err := app.NewWire(cfg, logger)
	if err != nil {
		return err
	}
	defer wire.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	authenticator, err := auth.NewKeyAuthenticator(cfg.IntegrationKeyHash)
	if err != nil {
		return err
	}
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	logged := connect.WithInterceptors(middleware.LoggingInterceptor())
	authenticated := connect.WithInterceptors(middleware.LoggingInterceptor(), middleware.RequireAuth(jwtManager))

	mux := http.NewServeMux()

	// Token issuance must stay reachable without a token.
	authPath, authHandler := service.NewAuthServiceHandler(service.NewAuthService(authenticator, jwtManager, logger), logged)
	mux.Handle(authPath, authHandler)

	settlementSvc := service.NewSettlementService(wire.Workflow, wire.Notifier, logger)
	settlementPath, settlementHandler := service.NewSettlementServiceHandler(settlementSvc, authenticated)
	mux.Handle(settlementPath, settlementHandler)

	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := wire.Store.Ping(r.Context()); err != nil {
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(corsMiddleware(mux), &http2.Server{})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           h2cHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := wire.Scheduler(cfg, logger).Run(ctx); err != nil {
			logger.Error("Scheduler stopped", "error", err)
		}
	}()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, "+api.DenialReasonHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
