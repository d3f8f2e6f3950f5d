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

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/beanline/coffee_backoffice/internal/cache"
	"github.com/beanline/coffee_backoffice/internal/cart"
	portsrepo "github.com/beanline/coffee_backoffice/internal/core/ports/repositories"
	"github.com/beanline/coffee_backoffice/internal/core/services"
	"github.com/beanline/coffee_backoffice/internal/dto"
	"github.com/beanline/coffee_backoffice/internal/handlers"
	"github.com/beanline/coffee_backoffice/internal/middleware"
	"github.com/beanline/coffee_backoffice/internal/platform/config"
	"github.com/beanline/coffee_backoffice/internal/platform/telemetry"
	"github.com/beanline/coffee_backoffice/internal/repositories/database/pgsql"
	"github.com/beanline/coffee_backoffice/internal/repositories/memory"
	"github.com/beanline/coffee_backoffice/internal/utils"
	"github.com/beanline/coffee_backoffice/pkg/database"
)

const version = "1.0.0"

// @title Coffee Back-office API
// @version 1.0
// @description POS, inventory, orders and storefront cart API for the coffee shop back-office.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(logger); err != nil {
		logger.Error("Server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		Enabled:        cfg.OTelEnabled,
		Endpoint:       cfg.OTelEndpoint,
		ServiceName:    cfg.ServiceName,
		ServiceVersion: version,
	}, logger)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(flushCtx); err != nil {
			logger.Error("Failed to flush telemetry", slog.String("error", err.Error()))
		}
	}()

	var repos portsrepo.RepositoryProvider
	if cfg.DatabaseURL != "" {
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck, logger)
		if err != nil {
			return err
		}
		defer database.ClosePgxPool(dbPool, logger)

		logger.Info("Running database migrations...")
		if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			return err
		}
		repos = pgsql.NewRepositoryProvider(dbPool)
	} else {
		logger.Warn("No database configured, using in-memory repositories. Data is lost on restart.")
		repos = memory.NewRepositoryProvider(memory.NewStore())
	}

	containerOpts := []services.ContainerOption{services.WithInstruments(telemetry.NewInstruments())}
	if cfg.RedisAddr != "" {
		redisClient := cache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("Error closing redis client", slog.String("error", err.Error()))
			}
		}()
		dashboardCache := cache.NewRedisDashboardCache(redisClient)
		if err := dashboardCache.Ping(ctx); err != nil {
			return err
		}
		logger.Info("Connected to Redis", slog.String("addr", cfg.RedisAddr))
		containerOpts = append(containerOpts,
			services.WithDashboardCache(dashboardCache),
			services.WithCartStore(cart.NewRedisStore(redisClient, cfg.CartTTL)),
		)
	} else {
		logger.Warn("No Redis configured, carts are kept in memory and the dashboard is not cached.")
	}

	serviceContainer := services.NewServiceContainer(cfg, repos, containerOpts...)

	if cfg.BootstrapAdminEmail != "" {
		created, err := serviceContainer.User.EnsureBootstrapAdmin(ctx, cfg.BootstrapAdminEmail, cfg.BootstrapAdminPassword)
		if err != nil {
			return err
		}
		if created {
			logger.Info("Bootstrap admin created", slog.String("email", cfg.BootstrapAdminEmail))
		}
	}

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	defer posthogClient.Close()

	if err := dto.RegisterValidators(); err != nil {
		return err
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (tracing, logging, recovery, CORS)
	r.Use(
		otelgin.Middleware(cfg.ServiceName),
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		return err
	}

	storefrontLimiter, err := middleware.NewMemoryRateLimiter(cfg.StorefrontRateLimit)
	if err != nil {
		return err
	}
	handlers.RegisterRoutes(r, cfg, serviceContainer, posthogClient, middleware.RateLimit(storefrontLimiter))

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
