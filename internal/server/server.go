package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Yaswanth0403/BookHaven/internal/config"
	"github.com/Yaswanth0403/BookHaven/internal/database"
	custommiddleware "github.com/Yaswanth0403/BookHaven/internal/middleware"
	"github.com/Yaswanth0403/BookHaven/internal/repository"
	"github.com/Yaswanth0403/BookHaven/internal/service"
	"github.com/Yaswanth0403/BookHaven/internal/session"
	"github.com/Yaswanth0403/BookHaven/internal/telemetry"
	"github.com/Yaswanth0403/BookHaven/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	db     database.Service
	redis  *redis.Client
}

func NewServer(cfg *config.Config, logger *zap.Logger, db database.Service, redisClient *redis.Client) *Server {
	s := &Server{
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
	}

	s.Server = &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      s.routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s
}

func (s *Server) routes() http.Handler {
	cfg := s.config
	router := chi.NewRouter()

	router.Use(custommiddleware.DefaultMiddlewareStack()...)
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Server.IsDevelopment()))
	router.Use(custommiddleware.LoggingMiddleware(s.logger))
	router.Use(custommiddleware.ErrorHandlingMiddleware(s.logger))

	router.Get("/health", s.health)

	sqlDB := s.db.DB()

	// Initialize repositories
	userRepo := repository.NewUserRepository(sqlDB)
	refreshTokenRepo := repository.NewRefreshTokenRepository(sqlDB)
	bookRepo := repository.NewBookRepository(sqlDB)
	cartRepo := repository.NewCartRepository(sqlDB)
	orderRepo := repository.NewOrderRepository(sqlDB)
	contactRepo := repository.NewContactRepository(sqlDB)
	sessions := session.NewRedisStore(s.redis, cfg.Session.TTL)

	// Initialize services
	userService := service.NewUserService(userRepo, refreshTokenRepo, sessions, cfg.JWT.Secret)
	catalogService := service.NewCatalogService(bookRepo)
	cartService := service.NewCartService(cartRepo, bookRepo)
	orderService := service.NewOrderService(orderRepo)
	contactService := service.NewContactService(contactRepo)
	checkoutService := service.NewCheckoutService(
		repository.NewTxManager(sqlDB),
		service.CheckoutOptions{AllowOversell: cfg.Checkout.AllowOversell},
		s.logger,
	)

	guards := transport.Guards{
		Auth: custommiddleware.AuthMiddleware(custommiddleware.AuthConfig{
			CookieName: cfg.Session.CookieName,
		}, sessions, userService, s.logger),
		Admin: custommiddleware.RequireAdmin(s.logger),
		RateLimit: custommiddleware.RateLimitMiddleware(s.redis, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "ratelimit",
		}, s.logger),
	}

	// Register routes
	transport.NewUserHandler(userService, transport.CookieConfig{
		Name:   cfg.Session.CookieName,
		TTL:    cfg.Session.TTL,
		Secure: cfg.Session.Secure,
	}, s.logger).RegisterRoutes(router, guards)
	transport.NewBookHandler(catalogService, s.logger).RegisterRoutes(router, guards)
	transport.NewCartHandler(cartService, checkoutService, s.logger).RegisterRoutes(router, guards)
	transport.NewOrderHandler(orderService, s.logger).RegisterRoutes(router, guards)
	transport.NewContactHandler(contactService, s.logger).RegisterRoutes(router, guards)

	return telemetry.HTTPMiddleware(cfg.Tracing.ServiceName)(router)
}

// health reports the state of PostgreSQL and Redis. Failure details are
// logged, never sent to the client.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	body := map[string]interface{}{"status": "ok"}

	dbHealth := s.db.Health(r.Context())
	if dbHealth["status"] != "up" {
		s.logger.Error("Health check: database down", zap.String("error", dbHealth["error"]))
		dbHealth = map[string]string{"status": "down"}
		status = http.StatusServiceUnavailable
	}
	body["database"] = dbHealth

	ctx, cancel := context.WithTimeout(r.Context(), time.Second)
	defer cancel()
	if err := s.redis.Ping(ctx).Err(); err != nil {
		s.logger.Error("Health check: redis down", zap.Error(err))
		body["redis"] = map[string]string{"status": "down"}
		status = http.StatusServiceUnavailable
	} else {
		body["redis"] = map[string]string{"status": "up"}
	}

	if status != http.StatusOK {
		body["status"] = "unavailable"
	}
	custommiddleware.RespondWithJSON(w, status, body)
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			s.logger.Error("Failed to close database connection", zap.Error(err))
		}
	}

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	_ = s.logger.Sync()
	return nil
}
