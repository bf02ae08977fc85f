package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Yaswanth0403/BookHaven/internal/config"
	"github.com/Yaswanth0403/BookHaven/internal/database"
	"github.com/Yaswanth0403/BookHaven/internal/logger"
	"github.com/Yaswanth0403/BookHaven/internal/repository"
	"github.com/Yaswanth0403/BookHaven/internal/server"
	"github.com/Yaswanth0403/BookHaven/internal/service"
	"github.com/Yaswanth0403/BookHaven/internal/session"
	"github.com/Yaswanth0403/BookHaven/internal/telemetry"
	"github.com/Yaswanth0403/BookHaven/migrations"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func gracefulShutdown(apiServer *server.Server, shutdownTracing telemetry.ShutdownFunc, logger *zap.Logger, done chan bool) {
	// Create context that listens for the interrupt signal from the OS.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Listen for the interrupt signal.
	<-ctx.Done()

	logger.Info("Shutting down gracefully, press Ctrl+C again to force")
	stop() // Allow Ctrl+C to force shutdown

	// The context is used to inform the server it has 30 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	if err := shutdownTracing(ctx); err != nil {
		logger.Error("Failed to flush traces", zap.Error(err))
	}

	// Close server resources
	if err := apiServer.Close(); err != nil {
		logger.Error("Error closing server resources", zap.Error(err))
	}

	logger.Info("Server exiting")

	// Notify the main goroutine that the shutdown is complete
	done <- true
}

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.Server.Env, cfg.Server.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration", zap.Error(err))
	}

	log.Info("Starting BookHaven API",
		zap.String("env", cfg.Server.Env),
		zap.String("port", cfg.Server.Port),
		zap.Bool("allow_oversell", cfg.Checkout.AllowOversell),
	)

	shutdownTracing, err := telemetry.Init(cfg.Tracing)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	// Initialize database
	dbService, err := database.New(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database health check", zap.Any("health", dbService.Health(context.Background())))

	// Run migrations
	if err := database.RunMigrations(dbService.DB(), migrations.FS, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	redisClient, err := session.Connect(context.Background(), cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to redis", zap.Error(err), zap.String("addr", cfg.Redis.Addr()))
	}

	if cfg.Admin.Email != "" {
		seedAdmin(cfg, dbService, redisClient, log)
	}

	// Create server
	srv := server.NewServer(cfg, log, dbService, redisClient)

	// Create a done channel to signal when the shutdown is complete
	done := make(chan bool, 1)

	// Run graceful shutdown in a separate goroutine
	go gracefulShutdown(srv, shutdownTracing, log, done)

	log.Info("Server listening", zap.String("addr", srv.Addr))

	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal("HTTP server error", zap.Error(err))
	}

	// Wait for the graceful shutdown to complete
	<-done
	log.Info("Graceful shutdown complete")
}

// seedAdmin makes sure the configured administrator account exists
func seedAdmin(cfg *config.Config, db database.Service, redisClient *redis.Client, log *zap.Logger) {
	users := service.NewUserService(
		repository.NewUserRepository(db.DB()),
		repository.NewRefreshTokenRepository(db.DB()),
		session.NewRedisStore(redisClient, cfg.Session.TTL),
		cfg.JWT.Secret,
	)

	admin, err := users.EnsureAdmin(context.Background(), service.RegisterInput{
		Email:     cfg.Admin.Email,
		Password:  cfg.Admin.Password,
		FirstName: cfg.Admin.FirstName,
		LastName:  cfg.Admin.LastName,
	})
	if err != nil {
		log.Fatal("Failed to seed admin account", zap.Error(err), zap.String("email", cfg.Admin.Email))
	}
	log.Info("Admin account ready", zap.String("user_id", admin.ID.String()))
}
