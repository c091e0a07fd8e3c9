package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"craftstore/internal/archive"
	"craftstore/internal/config"
	"craftstore/internal/handlers"
	"craftstore/internal/metrics"
	"craftstore/internal/payment"
	"craftstore/internal/storage"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err == nil {
		slog.Debug("Loaded .env file")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	userArchive, err := newArchive(cfg)
	if err != nil {
		slog.Error("Failed to initialize user archive", "backend", cfg.ArchiveBackend, "error", err)
		os.Exit(1)
	}

	db := storage.New(userArchive)

	sessionStore := sessions.NewCookieStore(cfg.SessionKey)
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.Secure = cfg.CookieSecure
	sessionStore.Options.SameSite = http.SameSiteLaxMode
	sessionStore.Options.Path = "/"
	sessionStore.Options.MaxAge = int((24 * time.Hour).Seconds())
	if cfg.CookieDomain != "" {
		sessionStore.Options.Domain = cfg.CookieDomain
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	limiter := handlers.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	defer limiter.Stop()

	mux := handlers.NewRouter(handlers.RouterOptions{
		Storage:  db,
		Sessions: sessionStore,
		Payments: payment.NewStub(),
		Metrics:  m,
		Limiter:  limiter,
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	// Chain: Logger -> Security Headers -> Metrics -> Mux
	handler := handlers.LoggingMiddleware(
		handlers.SecurityHeadersMiddleware(
			handlers.MetricsMiddleware(m, mux),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server failed to listen and serve", "error", err)
			os.Exit(1)
		}
	}()

	<-stop

	slog.Info("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully.")
}

func newArchive(cfg *config.Config) (archive.UserArchive, error) {
	switch cfg.ArchiveBackend {
	case "sqlite":
		return archive.NewSQLite(cfg.ArchivePath)
	case "none":
		return archive.Noop{}, nil
	default:
		return archive.NewJSONFile(cfg.ArchivePath), nil
	}
}
