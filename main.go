package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coreybb/tasktracker/api"
	"github.com/coreybb/tasktracker/auth"
	"github.com/coreybb/tasktracker/config"
	"github.com/coreybb/tasktracker/datastore"
	rh "github.com/coreybb/tasktracker/route-handlers"
	"github.com/coreybb/tasktracker/tasks"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration failed: %v", err)
	}
	setupLogging(cfg)

	hasher, err := auth.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		log.Fatalf("Password hasher setup failed: %v", err)
	}
	tokens, err := auth.NewTokenIssuer(auth.TokenConfig{
		SecretKey: cfg.JWTSecret,
		TTL:       cfg.TokenTTL,
		Issuer:    cfg.TokenIssuer,
	}, time.Now)
	if err != nil {
		log.Fatalf("Token issuer setup failed: %v", err)
	}

	db, err := datastore.Open(cfg.DatabaseURL, datastore.PoolConfig{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		PingTimeout:     cfg.DBPingTimeout,
	})
	if err != nil {
		log.Fatalf("Database setup failed: %v", err)
	}
	defer db.Close()
	slog.Info("Database connection successful")

	userRepo := datastore.NewUserRepository(db)
	taskRepo := datastore.NewTaskRepository(db)

	authService := auth.NewService(userRepo, hasher, tokens, time.Now)
	taskService := tasks.NewService(taskRepo, time.Now)

	apiRouter := api.SetupRoutes(
		api.RouterConfig{
			ClientOrigin:   cfg.ClientURL,
			RequestTimeout: cfg.RequestTimeout,
			MaxBodyBytes:   cfg.MaxBodyBytes,
		},
		authService,
		rh.NewAuthHandler(authService),
		rh.NewTaskHandler(taskService),
		api.HealthHandler(db, cfg.Environment, time.Now),
	)

	startServer(cfg, apiRouter)
}

func setupLogging(cfg config.Config) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	var handler slog.Handler = slog.NewTextHandler(os.Stdout, opts)
	if cfg.Production() {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func startServer(cfg config.Config, router http.Handler) {
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment, "client_url", cfg.ClientURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-shutdownSignal // Block until signal received
	slog.Info("Shutdown signal received, initiating graceful shutdown")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Graceful shutdown failed", "error", err)
	}

	slog.Info("Server gracefully stopped")
}
