package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tempest-reviews/cmd"
	"tempest-reviews/internal/data/repository"
	"tempest-reviews/internal/data/repository/memory"
	"tempest-reviews/internal/wire"
	"tempest-reviews/pkg/database"
	"tempest-reviews/pkg/utils"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func main() {
	flags := pflag.NewFlagSet("tempest-reviews", pflag.ExitOnError)
	configPath := flags.String("config", ".env", "path to an env-format config file (optional)")
	seed := flags.Bool("seed", false, "create demo users, movies and reviews before serving")
	migrateOnly := flags.Bool("migrate", false, "apply the database schema and exit")
	flags.String("port", "8080", "HTTP listen port")
	flags.String("store", utils.StorePostgres, "storage driver: postgres or memory")
	flags.Bool("debug", false, "console logging at debug level")
	flags.Parse(os.Args[1:])

	// Load config
	config, err := utils.LoadConfig(*configPath, flags)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("env", config.App.Env),
		zap.String("store", config.App.Store),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize all repositories
	var repos *repository.Repository
	switch config.App.Store {
	case utils.StoreMemory:
		if *migrateOnly {
			logger.Fatal("--migrate needs the postgres store")
		}
		logger.Warn("Using in-memory store; data is lost on exit")
		repos = memory.NewRepository()

	default:
		db, err := database.InitDB(ctx, config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		logger.Info("Database connected successfully")

		if err := database.EnsureSchema(ctx, db); err != nil {
			logger.Fatal("Failed to apply schema", zap.Error(err))
		}
		if *migrateOnly {
			logger.Info("Schema applied")
			return
		}

		repos = repository.NewRepository(db, logger)
	}

	if *seed {
		if err := cmd.Seed(ctx, repos, config.Auth.BcryptCost, logger); err != nil {
			logger.Fatal("Failed to seed data", zap.Error(err))
		}
	}

	// Wire all dependencies
	app, err := wire.Wiring(repos, config, logger)
	if err != nil {
		logger.Fatal("Failed to wire application", zap.Error(err))
	}

	// Start server
	if err := cmd.APIServer(ctx, app.Router, config, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
		return
	}
	logger.Info("Server stopped")
}
