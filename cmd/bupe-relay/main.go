package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rumehealth/bupe-relay/internal/config"
	"github.com/rumehealth/bupe-relay/internal/domain/bupe"
	"github.com/rumehealth/bupe-relay/internal/domain/intake"
	"github.com/rumehealth/bupe-relay/internal/domain/patient"
	"github.com/rumehealth/bupe-relay/internal/platform/db"
	"github.com/rumehealth/bupe-relay/internal/platform/elation"
	"github.com/rumehealth/bupe-relay/internal/platform/email"
	"github.com/rumehealth/bupe-relay/internal/platform/middleware"
	"github.com/rumehealth/bupe-relay/internal/platform/pdf"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "bupe-relay",
		Short: "Buprenorphine intake relay service",
	}

	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the intake relay server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Database
	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseDSN(), cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	logger.Info().Msg("connected to database")

	// Elation EMR client
	tokens := elation.NewTokenProvider(cfg.ElationClientID, cfg.ElationClientSecret, cfg.ElationTokenURL, nil)
	emr := elation.NewClient(cfg.ElationPatientURL, cfg.ElationMessageURL, tokens, logger)
	reconciler := patient.NewReconciler(emr, logger)

	// Outbound email
	mailer := email.NewResendDispatcher(cfg.ResendAPIKey, cfg.FromEmail, logger)

	// Intake pipeline
	intakes := intake.NewRepoPG(pool)
	svc := bupe.NewService(intakes, pdf.NewRenderer(), reconciler, emr, mailer, bupe.Options{
		NotifyEmail: cfg.NotifyEmail,
		SenderID:    cfg.ElationSenderID,
		PracticeID:  cfg.ElationPracticeID,
	}, logger)
	if cfg.MessageThreadsEnabled() {
		logger.Info().
			Int64("sender_id", cfg.ElationSenderID).
			Int64("practice_id", cfg.ElationPracticeID).
			Msg("chart message threads enabled")
	}

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))

	// Routes
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"message": "bupe intake relay",
		})
	})
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	bupe.NewHandler(svc, logger).RegisterRoutes(e)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
