// Package main is the entry point for the service.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/inspirehub/internal/adapters/clients"
	"github.com/jsamuelsen/inspirehub/internal/adapters/clients/acl"
	"github.com/jsamuelsen/inspirehub/internal/adapters/corpus"
	"github.com/jsamuelsen/inspirehub/internal/adapters/flags"
	"github.com/jsamuelsen/inspirehub/internal/adapters/http"
	"github.com/jsamuelsen/inspirehub/internal/adapters/http/handlers"
	"github.com/jsamuelsen/inspirehub/internal/adapters/store"
	"github.com/jsamuelsen/inspirehub/internal/app"
	"github.com/jsamuelsen/inspirehub/internal/platform/config"
	"github.com/jsamuelsen/inspirehub/internal/platform/logging"
	"github.com/jsamuelsen/inspirehub/internal/platform/telemetry"
	"github.com/jsamuelsen/inspirehub/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	// Version is the semantic version of the service.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. Determine profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Load and validate configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Initialize logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("storage", cfg.Storage.Driver),
	)

	// 4. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		Insecure:     cfg.Telemetry.Insecure,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(context.WithoutCancel(ctx)); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	// 5. Open the local store and register it for readiness
	healthRegistry := ports.NewHealthRegistry()

	kv, closeStore, err := openStore(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	if err := healthRegistry.Register(kv); err != nil {
		return fmt.Errorf("registering store health check: %w", err)
	}

	// 6. Build the directory and restore the persisted session
	users := store.NewUsers(kv, logger)
	directory := app.NewDirectory(users, logger)
	session := app.NewSession(users, directory, logger)
	session.Restore(ctx)

	quotes, err := corpus.Default()
	if err != nil {
		return fmt.Errorf("loading quote corpus: %w", err)
	}

	// 7. Create application services
	opMetrics, err := telemetry.NewOperationMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		return fmt.Errorf("registering operation metrics: %w", err)
	}

	personalization := app.NewPersonalizationService(app.PersonalizationConfig{
		Session:   session,
		Directory: directory,
		Corpus:    quotes,
		Logger:    logger,
		Observer:  opMetrics,
	})
	catalog := app.NewCatalogService(quotes, session, nil, logger)

	// 8. Create the Gemini client (ACL pattern)
	featureFlags := flags.NewStatic(cfg.Features)
	if cfg.MotivationEnabled() && cfg.Gemini.APIKey == "" {
		logger.Warn("gemini.api_key is empty, disabling motivation")
		featureFlags.Set(ports.FlagMotivation, false)
	}

	clientCfg := cfg.GeminiClient()

	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Gemini.BaseURL,
		ServiceName: acl.GeminiServiceName,
		Timeout:     clientCfg.Timeout,
		Retry:       clientCfg.Retry,
		Circuit:     clientCfg.CircuitBreaker,
		Transport:   clientCfg.Transport,
		AuthFunc:    acl.GeminiAuth(cfg.Gemini.APIKey),
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("creating gemini HTTP client: %w", err)
	}

	gemini := acl.NewGeminiClient(acl.GeminiConfig{
		Client: httpClient,
		Model:  cfg.Gemini.Model,
		Logger: logger,
	})
	motivation := app.NewMotivationService(gemini, featureFlags, cfg.Gemini.Timeout, logger)

	// 9. Create HTTP server and mount the routes
	server := http.New(cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:      logger,
		ServiceName: cfg.App.Name,
		Timeout:     cfg.Server.RequestTimeout,
		CurrentUser: func() (string, bool) {
			u, ok := session.Current()
			return u.Username, ok
		},
		Health:          handlers.NewHealthHandler(healthRegistry, handlers.NewBuildInfo(Version, Commit, BuildTime), nil),
		Catalog:         handlers.NewCatalogHandler(catalog),
		Session:         handlers.NewSessionHandler(session),
		Personalization: handlers.NewPersonalizationHandler(personalization),
		Motivation:      handlers.NewMotivationHandler(motivation),
	})

	// 10. Serve until SIGINT or SIGTERM
	if err := server.ListenAndServe(ctx); err != nil {
		return err
	}

	logger.Info("shutdown complete")

	return nil
}

// storeChecker is a key-value store that reports its health.
type storeChecker interface {
	ports.KeyValueStore
	ports.HealthChecker
}

// openStore returns the configured store and its close function.
func openStore(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (storeChecker, func(), error) {
	if cfg.Driver == "memory" {
		return store.NewMemory(), func() {}, nil
	}

	if cfg.Path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o750); err != nil {
			return nil, nil, fmt.Errorf("creating store directory: %w", err)
		}
	}

	db, err := store.OpenSQLite(ctx, cfg.Path, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("opening store: %w", err)
	}

	return db, func() {
		if err := db.Close(); err != nil {
			logger.Error("closing store", slog.Any("error", err))
		}
	}, nil
}
