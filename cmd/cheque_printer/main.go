package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/SscSPs/cheque_printer/internal/core/ports"
	portsrepo "github.com/SscSPs/cheque_printer/internal/core/ports/repositories"
	"github.com/SscSPs/cheque_printer/internal/core/services"
	"github.com/SscSPs/cheque_printer/internal/handlers"
	"github.com/SscSPs/cheque_printer/internal/locks"
	"github.com/SscSPs/cheque_printer/internal/middleware"
	"github.com/SscSPs/cheque_printer/internal/platform/config"
	"github.com/SscSPs/cheque_printer/internal/printing"
	"github.com/SscSPs/cheque_printer/internal/render"
	"github.com/SscSPs/cheque_printer/internal/repositories/database/pgsql"
	"github.com/SscSPs/cheque_printer/internal/repositories/memory"
	"github.com/SscSPs/cheque_printer/internal/utils/geometry"
	"github.com/SscSPs/cheque_printer/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title Cheque Printer API
// @version 1.0
// @description Prints queued cheques onto pre-printed cheque leaves.

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

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx := context.Background()

	repos, closeRepos, err := setupRepositories(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeRepos()

	bookLocker, closeLocker := setupBookLocker(ctx, cfg, logger)
	defer closeLocker()

	engine, err := render.NewEngine(render.Options{
		PageSize:       geometry.PageSize{WidthMM: cfg.ChequeWidthMM, HeightMM: cfg.ChequeHeightMM},
		Offset:         geometry.Offset{XMM: cfg.PrintOffsetXMM, YMM: cfg.PrintOffsetYMM},
		DigitSpacingMM: cfg.DigitSpacingMM,
	})
	if err != nil {
		logger.Error("Invalid page configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	serviceContainer := services.NewServiceContainer(cfg, repos, services.Infrastructure{
		BookLocker: bookLocker,
		Renderer: services.Renderer{
			Engine: engine,
			Images: render.NewImageProcessor(render.FileSource{BaseDir: cfg.AssetDir}),
		},
		Submitter: setupSubmitter(cfg, logger),
	})

	batchLimiter, err := middleware.NewMemoryLimiter(cfg.BatchRateLimit)
	if err != nil {
		logger.Warn("Invalid BATCH_RATE_LIMIT, batch printing is not rate limited",
			slog.String("value", cfg.BatchRateLimit), slog.String("error", err.Error()))
		batchLimiter = nil
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery(), cors.New(corsConfig(cfg)))

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, batchLimiter)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// setupRepositories connects to PostgreSQL and applies migrations. Without a
// database URL the service runs on the in-memory store, which loses all
// ledger history on restart.
func setupRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (portsrepo.RepositoryProvider, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("PGSQL_URL not set, using in-memory storage")
		return memory.NewStore().Provider(), func() {}, nil
	}

	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		return portsrepo.RepositoryProvider{}, nil, err
	}
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg, logger); err != nil {
		database.ClosePgxPool(dbPool)
		return portsrepo.RepositoryProvider{}, nil, err
	}
	return pgsql.NewRepositoryProvider(dbPool), func() { database.ClosePgxPool(dbPool) }, nil
}

func runMigrations(cfg *config.Config, logger *slog.Logger) error {
	logger.Info("Running database migrations...")
	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", cfg.DatabaseURL)
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
	m, err := migrate.NewWithDatabaseInstance(cfg.MigrationsPath, "postgres", driver)
	if err != nil {
		return err
	}

	upErr := m.Up()
	if upErr != nil && upErr != migrate.ErrNoChange {
		return upErr
	}
	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}

	if upErr == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// setupBookLocker always serializes in-process; with Redis configured it also
// serializes across replicas sharing the same database.
func setupBookLocker(ctx context.Context, cfg *config.Config, logger *slog.Logger) (locks.Locker, func()) {
	local := locks.NewKeyedMutex()
	if cfg.RedisAddress == "" {
		return local, func() {}
	}

	rdb, err := database.NewRedisClient(ctx, cfg.RedisAddress, cfg.RedisPassword)
	if err != nil {
		logger.Warn("Redis unavailable, using in-process locks only", slog.String("error", err.Error()))
		return local, func() {}
	}
	logger.Info("Redis reservation lock enabled", slog.String("address", cfg.RedisAddress))
	return locks.Chain{local, locks.NewRedisLocker(rdb, cfg.ReserveLockTTL, logger)}, func() {
		if err := rdb.Close(); err != nil {
			logger.Error("Error closing redis client", slog.String("error", err.Error()))
		}
	}
}

func setupSubmitter(cfg *config.Config, logger *slog.Logger) ports.PrintSubmitter {
	if cfg.PrintCommand != "" {
		logger.Info("Submitting print jobs via command",
			slog.String("command", cfg.PrintCommand), slog.String("printer", cfg.PrinterName))
		return printing.NewLPSubmitter(cfg.PrintCommand, cfg.PrinterName)
	}
	logger.Info("Writing print jobs to spool directory", slog.String("dir", cfg.PrintSpoolDir))
	return printing.NewSpoolSubmitter(cfg.PrintSpoolDir)
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	switch {
	case len(cfg.CORSAllowedOrigins) > 0:
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	case cfg.IsProduction:
		corsCfg.AllowOriginFunc = func(string) bool { return false }
	default:
		corsCfg.AllowAllOrigins = true
	}
	corsCfg.AddAllowHeaders("Authorization")
	corsCfg.AddExposeHeaders("Content-Disposition")
	return corsCfg
}
