package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/sanduta-art/api/internal/handlers"
	"github.com/sanduta-art/api/internal/platform/auth"
	"github.com/sanduta-art/api/internal/platform/config"
	"github.com/sanduta-art/api/internal/platform/observability"
	"github.com/sanduta-art/api/internal/repositories/memory"
	"github.com/sanduta-art/api/internal/services"
)

func main() {
	startedAt := time.Now().UTC()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	baseLogger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = baseLogger.Sync()
	}()

	logger := baseLogger.Named("api")

	var seed []services.ConfiguratorProduct
	if cfg.Catalog.SeedDemoData {
		seed = memory.SeedProducts()
		logger.Info("seeding demo catalog", zap.Int("products", len(seed)))
	}
	catalogRepo := memory.NewCatalogRepository(seed)
	cartRepo := memory.NewCartRepository()

	serviceLogger := observability.ServiceLogger(logger)

	catalogService, err := services.NewCatalogService(services.CatalogServiceDeps{
		Catalog: catalogRepo,
		Logger:  serviceLogger,
	})
	if err != nil {
		logger.Fatal("failed to initialise catalog service", zap.Error(err))
	}

	pricingEngine, err := services.NewPricingEngine(services.PricingEngineDeps{
		Tiers:  pricingTiers(cfg),
		Logger: serviceLogger,
	})
	if err != nil {
		logger.Fatal("failed to initialise pricing engine", zap.Error(err))
	}

	configuratorService, err := services.NewConfiguratorService(services.ConfiguratorServiceDeps{
		Catalog: catalogService,
		Pricer:  pricingEngine,
		Logger:  serviceLogger,
	})
	if err != nil {
		logger.Fatal("failed to initialise configurator service", zap.Error(err))
	}

	cartService, err := services.NewCartService(services.CartServiceDeps{
		Carts:       cartRepo,
		Catalog:     catalogService,
		Pricer:      pricingEngine,
		Clock:       func() time.Time { return time.Now().UTC() },
		IDGenerator: func() string { return ulid.Make().String() },
		Logger:      serviceLogger,
	})
	if err != nil {
		logger.Fatal("failed to initialise cart service", zap.Error(err))
	}

	var verifier auth.TokenVerifier
	if cfg.Security.JWTSecret != "" {
		verifier, err = auth.NewJWTVerifier(cfg.Security.JWTSecret, cfg.Security.JWTIssuer, cfg.Security.JWTAudience)
		if err != nil {
			logger.Fatal("failed to initialise token verifier", zap.Error(err))
		}
	} else {
		logger.Warn("no JWT secret configured, bearer tokens will be rejected")
	}

	catalogHandlers := handlers.NewCatalogHandlers(catalogService)
	configuratorHandlers := handlers.NewConfiguratorHandlers(configuratorService)
	cartHandlers := handlers.NewCartHandlers(cartService)
	healthHandlers := handlers.NewHealthHandlers(
		handlers.WithHealthBuildInfo(handlers.BuildInfo{
			Version:     os.Getenv("BUILD_VERSION"),
			CommitSHA:   os.Getenv("BUILD_COMMIT"),
			Environment: cfg.Security.Environment,
			StartedAt:   startedAt,
		}),
		handlers.WithReadinessCheck("catalog", func(ctx context.Context) error {
			_, err := catalogRepo.ListProducts(ctx)
			return err
		}),
	)

	router := handlers.NewRouter(
		handlers.WithMiddlewares(
			middleware.StripSlashes,
			handlers.CORSMiddleware(cfg.CORS.AllowedOrigins, cfg.Security.AnonymousCartHeader),
			observability.TraceMiddleware(),
			observability.InjectLoggerMiddleware(logger),
			observability.RequestLoggerMiddleware(),
			observability.RecoveryMiddleware(logger),
			auth.Authenticate(auth.MiddlewareOptions{
				Verifier:      verifier,
				AllowGuests:   cfg.Security.AllowAnonymousCarts,
				SessionHeader: cfg.Security.AnonymousCartHeader,
			}),
			handlers.RateLimitMiddleware(cfg.RateLimits.RequestsPerMinute, time.Minute, nil),
		),
		handlers.WithHealthHandlers(healthHandlers),
		handlers.WithProductRoutes(catalogHandlers.ProductRoutes),
		handlers.WithConfiguratorRoutes(configuratorHandlers.Routes),
		handlers.WithMaterialRoutes(catalogHandlers.MaterialRoutes),
		handlers.WithCartRoutes(cartHandlers.Routes),
		handlers.WithCartMiddlewares(auth.RequireIdentity()),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", server.Addr),
			zap.String("environment", cfg.Security.Environment),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Fatal("server error", zap.Error(err))
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
		_ = server.Close()
	}
	logger.Info("server stopped")
}

func pricingTiers(cfg config.Config) []services.QuantityTier {
	if len(cfg.Pricing.TierOverrides) == 0 {
		return nil
	}
	tiers := make([]services.QuantityTier, 0, len(cfg.Pricing.TierOverrides))
	for _, override := range cfg.Pricing.TierOverrides {
		tiers = append(tiers, services.QuantityTier{
			MinQuantity:     override.MinQuantity,
			DiscountPercent: override.DiscountPercent,
		})
	}
	return tiers
}
