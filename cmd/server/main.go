// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/roomclerk/roomclerk/internal/api/availability"
	"github.com/roomclerk/roomclerk/internal/api/meetings"
	"github.com/roomclerk/roomclerk/internal/config"
	"github.com/roomclerk/roomclerk/internal/db"
	"github.com/roomclerk/roomclerk/internal/jobs"
	"github.com/roomclerk/roomclerk/internal/scheduling"
)

func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found")
	}

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	return config.Load(configPath)
}

func setupLogger(environment string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func defaultWindow(cfg config.BookingConfig) (scheduling.Window, error) {
	opens, err := scheduling.ParseTimeOfDay(cfg.DefaultOpensAt)
	if err != nil {
		return scheduling.Window{}, fmt.Errorf("default_opens_at: %w", err)
	}
	closes, err := scheduling.ParseEndTime(cfg.DefaultClosesAt)
	if err != nil {
		return scheduling.Window{}, fmt.Errorf("default_closes_at: %w", err)
	}
	days, err := cfg.DefaultDaySet()
	if err != nil {
		return scheduling.Window{}, err
	}
	return scheduling.Window{Opens: opens, Closes: closes, Days: days}, nil
}

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	setupLogger(cfg.App.Environment)

	database, err := db.NewFromConfig(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	defer database.Close()

	engine := scheduling.NewEngine(db.NewStore(database))

	// Seed the availability window once, up front, so reads never create
	// state as a side effect.
	def, err := defaultWindow(cfg.Booking)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid default availability window")
	}
	window, err := engine.EnsureWindow(context.Background(), def)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize availability window")
	}
	log.Info().
		Str("opens", window.Opens.String()).
		Str("closes", window.Closes.String()).
		Str("days", window.Days.Abbreviation()).
		Msg("Availability window ready")

	availability.InitHandlers(engine)
	meetings.InitHandlers(engine, cfg.Booking.FutureListLimit)

	if err := jobs.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize background jobs")
	}
	if err := jobs.RegisterRetentionJob(database, cfg.Booking); err != nil {
		log.Fatal().Err(err).Msg("Failed to register retention job")
	}
	if err := jobs.Start(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start background jobs")
	}

	server := newServer(cfg)

	// Graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().Int("port", cfg.App.Port).Msg("Starting server")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			time.Duration(cfg.App.ShutdownSeconds)*time.Second,
		)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := jobs.Stop(); err != nil {
			log.Error().Err(err).Msg("Failed to stop background jobs")
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("Server terminated with error")
		os.Exit(1)
	}
}
