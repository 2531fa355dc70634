package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crucial707/ems-inventory/internal/alerts"
	"github.com/crucial707/ems-inventory/internal/config"
	"github.com/crucial707/ems-inventory/internal/db"
	"github.com/crucial707/ems-inventory/internal/notify"
	"github.com/crucial707/ems-inventory/internal/repo"
)

func main() {

	// Load configuration
	cfg := config.Load()

	setupLogger(cfg.LogFormat)

	if cfg.Env == "prod" {
		if cfg.JWTSecret == "supersecretkey" || cfg.EncryptionKey == "dev-encryption-key" {
			slog.Error("JWT_SECRET and ENCRYPTION_KEY must be set in prod")
			os.Exit(1)
		}
	}

	// Connect to database FIRST
	database, err := db.Connect(
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBUser,
		cfg.DBPass,
		cfg.DBMaxOpenConns,
		cfg.DBMaxIdleConns,
	)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()

	slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	if err := db.Run(db.URL(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	router, err := newRouter(database, cfg)
	if err != nil {
		slog.Error("router setup failed", "error", err)
		os.Exit(1)
	}

	// Scheduled expired/low-stock sweep
	sweeper := &alerts.Sweeper{
		Repo: repo.NewInventoryRepo(database),
		Mailer: &notify.Mailer{
			Host:   cfg.SMTPHost,
			Port:   cfg.SMTPPort,
			From:   cfg.SMTPFrom,
			UseTLS: cfg.SMTPUseTLS,
		},
		Recipient: cfg.AlertsEmail,
	}
	cronRunner, err := sweeper.Run(cfg.AlertsCronSpec)
	if err != nil {
		slog.Error("alert sweep setup failed", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("starting server", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for SIGINT/SIGTERM, then drain in-flight requests before exiting.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	slog.Info("shutting down")
	cronRunner.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

// setupLogger installs the process-wide slog handler. format is "json" or "text".
func setupLogger(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
