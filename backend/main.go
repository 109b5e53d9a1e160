package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quizmaster/backend/config"
	"quizmaster/backend/providers"
	"quizmaster/backend/routes"
	"quizmaster/backend/utils"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
)

// newLogger colors text output only when out is a terminal.
func newLogger(cfg *config.Config, out *os.File) zerolog.Logger {
	return utils.InitLogger(utils.LoggerConfig{
		Format:       cfg.LogFormat,
		Output:       out,
		EnableColors: isatty.IsTerminal(out.Fd()),
		Level:        cfg.LogLevel,
	})
}

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		bootLogger := utils.InitLogger()
		bootLogger.Fatal().Err(err).Msg("error loading config")
	}

	// Initialize logger
	logger := newLogger(cfg, os.Stdout)
	for _, warning := range cfg.Warnings() {
		logger.Warn().Str("env", cfg.AppEnv).Msg(warning)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("error initializing database")
	}
	if err := utils.Migrate(db); err != nil {
		logger.Fatal().Err(err).Msg("error migrating database")
	}

	ctx := context.Background()
	hasher := utils.NewPasswordHasher(cfg.BcryptCost)
	if cfg.SeedDemoUser {
		if err := utils.SeedDemoUser(ctx, db, hasher); err != nil {
			logger.Fatal().Err(err).Msg("error seeding demo user")
		}
		logger.Info().Str("email", utils.DemoEmail).Msg("demo user ready")
	}

	google, err := providers.NewGoogleVerifier(ctx, cfg.GoogleClientID, &http.Client{Timeout: cfg.ExternalAPITimeout})
	if err != nil {
		logger.Fatal().Err(err).Msg("error creating google verifier")
	}

	app := routes.NewApp(cfg, logger)
	routes.SetupRoutes(app, db, routes.Dependencies{
		Tokens: utils.NewTokenService(cfg.JWTSecret, cfg.TokenTTL),
		Hasher: hasher,
		Google: google,
		Trivia: providers.NewTriviaClient(cfg.ExternalAPIBase, cfg.ExternalAPITimeout),
		Logger: logger,
	})

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Info().Msg("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Error().Err(err).Msg("shutdown")
		}
	}()

	// Start server
	logger.Info().Str("port", cfg.ServerPort).Msg("server listening")
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
