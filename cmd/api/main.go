// Package main is the entrypoint for the recipeshare API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/recipeshare/recipeshare/internal/auth"
	"github.com/recipeshare/recipeshare/internal/cache"
	"github.com/recipeshare/recipeshare/internal/config"
	"github.com/recipeshare/recipeshare/internal/database"
	"github.com/recipeshare/recipeshare/internal/handler"
	"github.com/recipeshare/recipeshare/internal/metrics"
	"github.com/recipeshare/recipeshare/internal/middleware"
	"github.com/recipeshare/recipeshare/internal/repository"
	"github.com/recipeshare/recipeshare/internal/server"
	"github.com/recipeshare/recipeshare/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	if cfg.MigrateOnStart {
		if err := database.Migrate(ctx, cfg.DatabaseURL, database.CommandUp, logger); err != nil {
			logger.Error(
				"failed to run migrations",
				slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			)
			os.Exit(1)
		}
	}

	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("connected to database")

	cacheClient, err := cache.New(ctx, cfg.RedisURL, cache.Options{})
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		repo.Close()
		os.Exit(1)
	}
	logger.Info("connected to Redis")

	metricsRecorder := metrics.NewInMemory()
	hasher := auth.NewHasher(auth.DefaultParams)

	userService := service.NewUserService(repo, hasher, logger)
	ingredientService := service.NewIngredientService(repo, logger)
	recipeService := service.NewRecipeService(repo, userService, ingredientService, metricsRecorder, logger)

	api := apiHandlers{
		health:      handler.NewHealthHandler(repo, cacheClient),
		metrics:     handler.NewMetricsHandler(metricsRecorder),
		recipes:     handler.NewRecipeHandler(recipeService, logger),
		ingredients: handler.NewIngredientHandler(ingredientService, recipeService, logger),
		users:       handler.NewUserHandler(userService, logger),
	}

	r := setupRouter(api, cacheClient, metricsRecorder, cfg, logger)

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// LIFO: Redis closes before the database pool.
	srv.OnShutdown("postgres", func(context.Context) error {
		repo.Close()
		return nil
	})
	srv.OnShutdown("redis", func(context.Context) error {
		return cacheClient.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"rate_limit_enabled", cfg.RateLimitEnabled,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if strings.EqualFold(cfg.LogFormat, "json") {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type apiHandlers struct {
	health      *handler.HealthHandler
	metrics     *handler.MetricsHandler
	recipes     *handler.RecipeHandler
	ingredients *handler.IngredientHandler
	users       *handler.UserHandler
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	api apiHandlers,
	limiter middleware.IPLimiter,
	recorder metrics.Recorder,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	securityCfg := middleware.DefaultSecurityConfig()
	securityCfg.IsDevelopment = cfg.IsDevelopment()
	securityCfg.MaxRequestBodySize = cfg.MaxRequestBodySize

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(securityCfg))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(securityCfg.MaxRequestBodySize))

	r.Get("/healthz", api.health.Healthz)
	r.Get("/readyz", api.health.Readyz)
	r.Get("/metrics", api.metrics.Metrics)

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:   logger,
		Limiter:  limiter,
		Recorder: recorder,
		Enabled:  cfg.RateLimitEnabled,
		RPS:      cfg.RateLimitRPS,
		Burst:    cfg.RateLimitBurst,
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimitIP(rateLimitCfg))
		r.Use(middleware.RequireJSON)
		handler.MountAPI(r, api.recipes, api.ingredients, api.users)
	})

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
