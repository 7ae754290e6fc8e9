package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/clinicflow/clinicflow/internal/config"
	"github.com/clinicflow/clinicflow/internal/domain/appointment"
	"github.com/clinicflow/clinicflow/internal/domain/consultation"
	"github.com/clinicflow/clinicflow/internal/domain/patient"
	"github.com/clinicflow/clinicflow/internal/domain/queue"
	"github.com/clinicflow/clinicflow/internal/domain/triage"
	"github.com/clinicflow/clinicflow/internal/platform/db"
	"github.com/clinicflow/clinicflow/internal/platform/middleware"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinicflow-server",
		Short: "Clinic patient flow API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(bootstrapCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the clinic flow API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func bootstrapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bootstrap",
		Short: "Create database tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if !cfg.HasDatabase() {
				return fmt.Errorf("DATABASE_URL is not set")
			}

			ctx := context.Background()
			pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
			if err != nil {
				return err
			}
			defer pool.Close()

			return db.Bootstrap(ctx, pool)
		},
	}
}

func runServer() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	ctx := context.Background()

	// Storage. With a database the ledger, patient registry, triage drafts
	// and consultation records survive restarts; without one everything
	// runs in memory, which is only acceptable in development.
	var (
		pool        *pgxpool.Pool
		apptRepo    appointment.Repository
		patientRepo patient.Repository
		consultRepo consultation.Repository
		draftStore  triage.DraftStore
	)
	if cfg.HasDatabase() {
		pool, err = db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()

		if err := db.Bootstrap(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("failed to bootstrap schema")
		}
		logger.Info().Msg("connected to database")

		apptRepo = appointment.NewRepo(pool)
		patientRepo = patient.NewRepo(pool)
		consultRepo = consultation.NewRepo(pool)
		draftStore = triage.NewPGStore(pool)
	} else {
		logger.Warn().Msg("DATABASE_URL not set; using in-memory stores")
		apptRepo = appointment.NewMemRepo()
		patientRepo = patient.NewMemRepo()
		consultRepo = consultation.NewMemRepo()
		draftStore = triage.NewMemStore()
	}

	// The live queue is always in memory. It describes who is physically
	// in the clinic right now, so it resets with the process.
	queueStore := queue.NewStore()

	apptSvc := appointment.NewService(apptRepo)
	patientSvc := patient.NewService(patientRepo)
	triageSvc := triage.NewService(queueStore, apptSvc, patientSvc, draftStore)
	consultSvc := consultation.NewService(queueStore, consultRepo)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": "0.1.0",
		})
	})
	e.GET("/health/db", db.HealthHandler(pool))

	apiV1 := e.Group("/api/v1")

	queue.NewHandler(queueStore).RegisterRoutes(apiV1)
	appointment.NewHandler(apptSvc).RegisterRoutes(apiV1)
	patient.NewHandler(patientSvc).RegisterRoutes(apiV1)
	triage.NewHandler(triageSvc).RegisterRoutes(apiV1)
	consultation.NewHandler(consultSvc).RegisterRoutes(apiV1)

	// Start server in a goroutine so shutdown can be handled below
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("forced shutdown")
		return err
	}

	logger.Info().Msg("server stopped")
	return nil
}
