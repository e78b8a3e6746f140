package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portsrepo "github.com/whitebox/cryptomonitor/internal/core/ports/repositories"
	portssvc "github.com/whitebox/cryptomonitor/internal/core/ports/services"
	"github.com/whitebox/cryptomonitor/internal/core/services"
	"github.com/whitebox/cryptomonitor/internal/handlers"
	"github.com/whitebox/cryptomonitor/internal/middleware"
	"github.com/whitebox/cryptomonitor/internal/platform/config"
	"github.com/whitebox/cryptomonitor/internal/platform/connectivity"
	"github.com/whitebox/cryptomonitor/internal/repositories/database/pgsql"
	"github.com/whitebox/cryptomonitor/internal/repositories/database/sqlite"
	"github.com/whitebox/cryptomonitor/internal/repositories/remote/coinapi"
	"github.com/whitebox/cryptomonitor/pkg/database"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := handlers.RegisterValidations(); err != nil {
		logger.Error("Failed to register validations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	assetRepo, rateRepo, closeStore, err := openCacheStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open cache store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeStore()

	remote := coinapi.NewClient(cfg.CoinAPIBaseURL, cfg.CoinAPIKey, cfg.QuoteCurrency, cfg.RemoteTimeout)

	syncService := services.NewSyncService(assetRepo, rateRepo, remote, logger)

	connectivitySvc := connectivity.NewService(cfg.CoinAPIBaseURL, cfg.ProbeInterval, logger)
	connectivitySvc.Start(ctx)
	defer connectivitySvc.Stop()

	refresher := services.NewRefresher(syncService, connectivitySvc, cfg.RefreshDebounce, cfg.IconSize, logger)
	go refresher.Run(ctx)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, rate limiting)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.Default())

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit format", slog.String("rate_limit", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}
	ipLimiter := limiter.New(memory.NewStore(), rate)
	r.Use(middleware.RateLimit(ipLimiter))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, &portssvc.ServiceContainer{
		Sync:         syncService,
		Connectivity: connectivitySvc,
	})

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// openCacheStore opens the configured cache backend and returns its
// repositories plus a close function.
func openCacheStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.AssetRepository, portsrepo.ExchangeRateRepository, func(), error) {
	switch cfg.CacheDriver {
	case "postgres":
		dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
			dbPool.Close()
			return nil, nil, nil, err
		}
		logger.Info("Database connection pool established.")
		return pgsql.NewPgxAssetRepository(dbPool), pgsql.NewPgxExchangeRateRepository(dbPool), dbPool.Close, nil

	default:
		store, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, nil, err
		}
		logger.Info("SQLite cache opened", slog.String("path", cfg.SQLitePath))
		closeStore := func() {
			if cerr := store.Close(); cerr != nil {
				logger.Error("Error closing sqlite store", slog.String("error", cerr.Error()))
			}
		}
		return store.Assets(), store.ExchangeRates(), closeStore, nil
	}
}

// runMigrations applies all pending "up" migrations against postgres.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	// Open a temporary standard sql.DB connection for migrations, using the
	// pgx/v5/stdlib driver to stay compatible with the main pool.
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	if err := migrationDB.Ping(); err != nil {
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return err
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return err
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
