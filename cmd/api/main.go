// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/JJ-P1114/jj-p1114-studio/internal/admin"
	"github.com/JJ-P1114/jj-p1114-studio/internal/auth"
	"github.com/JJ-P1114/jj-p1114-studio/internal/catalog"
	"github.com/JJ-P1114/jj-p1114-studio/internal/config"
	"github.com/JJ-P1114/jj-p1114-studio/internal/core"
	"github.com/JJ-P1114/jj-p1114-studio/internal/health"
	"github.com/JJ-P1114/jj-p1114-studio/internal/inquiry"
	"github.com/JJ-P1114/jj-p1114-studio/internal/license"
	"github.com/JJ-P1114/jj-p1114-studio/internal/middleware"
	"github.com/JJ-P1114/jj-p1114-studio/internal/order"
	"github.com/JJ-P1114/jj-p1114-studio/internal/prototype"
	"github.com/JJ-P1114/jj-p1114-studio/internal/server"
	"github.com/JJ-P1114/jj-p1114-studio/internal/user"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"auth_mode", cfg.Auth.Mode,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	metrics, err := core.NewMetrics(cfg.Metrics, cfg.App)
	if err != nil {
		return err
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	if cfg.Database.AutoMigrate {
		if err := core.Migrate(ctx, db.DB, logger); err != nil {
			return err
		}
	}

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	if cfg.JWT.GenerateIfMissing {
		generated, keyErr := auth.EnsureKeyPair(cfg.JWT)
		if keyErr != nil {
			return keyErr
		}
		if generated {
			logger.Warn("generated a new signing key pair",
				"private_key_path", cfg.JWT.PrivateKeyPath,
			)
		}
	}

	tokenSigner, err := auth.NewTokenSigner(cfg.JWT)
	if err != nil {
		return err
	}
	logger.Info("access token signer ready",
		"algorithm", "ES256",
		"key_id", tokenSigner.KeyID(),
	)

	signer, err := core.NewCookieSigner(cfg.Session.Secret)
	if err != nil {
		return err
	}

	provider, discovery := newIdentityProvider(cfg)

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(auth.ServiceConfig{
		Repository:    auth.NewRepository(redis),
		Provider:      provider,
		UserProvider:  userSvc,
		Tokens:        tokenSigner,
		Signer:        signer,
		Session:       cfg.Session,
		PostLogoutURL: postLogoutURL(cfg),
	})
	authHandler := auth.NewHandler(authSvc, cfg.Session)

	catalogRepo := catalog.NewRepository(db.DB)
	catalogSvc := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(catalogSvc)

	if cfg.Seed.Enabled {
		n, seedErr := catalogSvc.Seed(ctx)
		if seedErr != nil {
			return seedErr
		}
		if n > 0 {
			logger.Info("seeded catalog", "products", n)
		}
	}

	licenseSvc := license.NewService(license.NewRepository(db.DB))
	licenseHandler := license.NewHandler(licenseSvc)

	orderRepo := order.NewRepository(db.DB)
	orderSvc := order.NewService(
		orderRepo,
		order.NewTxRunner(db.DB),
		catalogSvc,
		metrics,
		cfg.Orders,
	)
	orderHandler := order.NewHandler(orderSvc)

	inquirySvc := inquiry.NewService(inquiry.NewRepository(db.DB))
	inquiryHandler := inquiry.NewHandler(inquirySvc)

	prototypeSvc := prototype.NewService(prototype.NewRepository(db.DB))
	prototypeHandler := prototype.NewHandler(prototypeSvc)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Service: admin.NewService(
			admin.NewStatsRepository(db.DB),
			orderRepo,
		),
		Backends: []admin.Backend{
			admin.DatabaseBackend(db),
			admin.RedisBackend(redis),
		},
	})

	checks := []health.Check{
		{Name: "database", Checker: db, Critical: true},
		{Name: "redis", Checker: redis, Critical: true},
	}
	if discovery != nil {
		checks = append(checks, health.Check{Name: "identity_provider", Checker: discovery})
	}
	healthHandler := health.NewHandler(checks...)

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Tracing)
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics(metrics))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Policy: middleware.Policy{
				Name: "global",
				Limit: middleware.PerWindow(
					cfg.RateLimit.Requests,
					cfg.RateLimit.Burst,
					cfg.RateLimit.Window,
				),
				Key: middleware.KeyByClientIP,
			},
			Recorder: metrics,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, metrics.Handler())
	}

	router.Get("/.well-known/jwks.json", tokenSigner.JWKSHandler())

	inquiryLimit := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Policy: middleware.Policy{
			Name: "inquiry",
			Limit: middleware.PerMinute(
				cfg.RateLimit.InquiryRequests,
				cfg.RateLimit.InquiryBurst,
			),
			Key: middleware.KeyBySubmitter,
		},
		Recorder: metrics,
	}).Handler

	mountAPI(router, apiHandlers{
		Auth:       authHandler,
		Catalog:    catalogHandler,
		Orders:     orderHandler,
		Licenses:   licenseHandler,
		Inquiries:  inquiryHandler,
		Prototypes: prototypeHandler,
		Users:      userHandler,
		Admin:      adminHandler,
	}, newGuards(authSvc, userSvc, cfg.Session.CookieName, inquiryLimit))

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if err := metrics.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

// newIdentityProvider returns the configured provider. Discovery is nil in
// demo mode.
func newIdentityProvider(cfg *config.Config) (auth.IdentityProvider, *auth.Discovery) {
	if cfg.Auth.Mode == config.AuthModeDemo {
		slog.Warn("demo authentication enabled, every visitor signs in as the demo admin")
		return auth.NewDemoProvider(callbackURL(cfg)), nil
	}

	client := &http.Client{Timeout: cfg.OIDC.HTTPTimeout}
	discovery := auth.NewDiscovery(cfg.OIDC.IssuerURL, cfg.OIDC.DiscoveryTTL, client)

	return auth.NewOIDCProvider(discovery, cfg.OIDC, client), discovery
}

func callbackURL(cfg *config.Config) string {
	if cfg.OIDC.RedirectURL != "" {
		return cfg.OIDC.RedirectURL
	}
	return fmt.Sprintf("%s/api/callback", strings.TrimRight(cfg.App.BaseURL, "/"))
}

func postLogoutURL(cfg *config.Config) string {
	if cfg.OIDC.PostLogoutRedirectURL != "" {
		return cfg.OIDC.PostLogoutRedirectURL
	}
	return strings.TrimRight(cfg.App.BaseURL, "/") + "/"
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
