package main

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/vaultpass/passgen-go/internal/config"
	"github.com/vaultpass/passgen-go/internal/crypto"
	"github.com/vaultpass/passgen-go/internal/handler"
	"github.com/vaultpass/passgen-go/internal/metrics"
	"github.com/vaultpass/passgen-go/internal/middleware"
	"github.com/vaultpass/passgen-go/internal/repository"
	"github.com/vaultpass/passgen-go/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	src := crypto.NewCryptoSource()
	if cfg.Generator.RandomSource == config.SourcePCG {
		slog.Warn("using non-cryptographic random source", "source", config.SourcePCG)
		src = crypto.NewTimeSeededSource()
	}
	genService := service.NewGeneratorService(crypto.NewGenerator(src), cfg.Generator, m)
	genHandler := handler.NewGeneratorHandler(genService)

	deps := map[string]handler.Pinger{}

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Metrics(m))

	r.Post("/api/v1/generate", genHandler.HandleGenerate)
	r.Get("/api/v1/generate/classes", genHandler.HandleClasses)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	// Accounts and preferences need the database; generation does not.
	db, err := repository.NewDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		slog.Warn("database connection failed, auth and preference routes disabled", "error", err)
	} else {
		defer db.Close()
		deps["mysql"] = handler.PingFunc(db.PingContext)

		if err := repository.Migrate(db); err != nil {
			slog.Error("running migrations", "error", err)
			os.Exit(1)
		}

		prefs, closePrefs, err := preferenceStore(ctx, cfg, db, deps)
		if err != nil {
			slog.Error("preference store unavailable", "backend", cfg.PreferenceBackend, "error", err)
			os.Exit(1)
		}
		defer closePrefs()

		themeService := service.NewThemeService(prefs, m)
		themeHandler := handler.NewThemeHandler(themeService)

		tokens := crypto.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)
		userRepo := repository.NewUserRepository(db)
		authService := service.NewAuthService(userRepo, themeService, crypto.NewHasher(crypto.DefaultHashParams()), tokens)
		authHandler := handler.NewAuthHandler(authService)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(ctx, cfg.AuthRateLimitRPS, cfg.AuthRateLimitBurst))
			r.Post("/api/v1/auth/register", authHandler.HandleRegister)
			r.Post("/api/v1/auth/login", authHandler.HandleLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.JWTAuth(tokens))
			r.Get("/api/v1/auth/me", authHandler.HandleMe)

			r.Get("/api/v1/preferences/theme", themeHandler.HandleGetTheme)
			r.Put("/api/v1/preferences/theme", themeHandler.HandlePutTheme)
			r.Post("/api/v1/preferences/theme/toggle", themeHandler.HandleToggleTheme)
		})
	}

	health := handler.NewHealthHandler(deps)
	r.Get("/health", health.HandleHealth)
	r.Get("/health/ready", health.HandleReady)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "source", cfg.Generator.RandomSource)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// preferenceStore builds the configured backend behind a read-through cache.
func preferenceStore(ctx context.Context, cfg config.Config, db *sql.DB, deps map[string]handler.Pinger) (service.PreferenceStore, func(), error) {
	switch cfg.PreferenceBackend {
	case config.BackendRedis:
		client, err := repository.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		deps["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
		store := repository.NewRedisPreferenceStore(client)
		return repository.NewCachedPreferenceStore(store, cfg.PreferenceCacheTTL), closeRedis(client), nil
	default:
		store := repository.NewPreferenceRepository(db)
		return repository.NewCachedPreferenceStore(store, cfg.PreferenceCacheTTL), func() {}, nil
	}
}

func closeRedis(client *redis.Client) func() {
	return func() {
		if err := client.Close(); err != nil {
			slog.Warn("closing redis client", "error", err)
		}
	}
}
