package main

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/medspa-api/internal/config"
	"github.com/jwalitptl/medspa-api/internal/repository/memory"
	"github.com/jwalitptl/medspa-api/internal/repository/postgres"
	"github.com/jwalitptl/medspa-api/pkg/logger"
)

// seed creates the schema and loads the JSON seed directory into Postgres.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger.NewLogger(&logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	}).SetGlobal()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	snap, err := memory.LoadSeedDir(cfg.Database.SeedDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Database.SeedDir).Msg("failed to read seed data")
	}

	// The database container usually starts alongside this job
	var db *sqlx.DB
	connect := func() error {
		db, err = postgres.NewDB(ctx, cfg.Database)
		return err
	}
	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Dur("retry_in", wait).Msg("database not ready")
	}
	if err := backoff.RetryNotify(connect, backoff.WithContext(backoff.NewExponentialBackOff(), ctx), notify); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	seeder := postgres.NewSeedRepository(db)
	if err := seeder.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate schema")
	}
	if err := seeder.Seed(ctx, snap); err != nil {
		log.Fatal().Err(err).Msg("failed to seed data")
	}

	log.Info().
		Int("patients", len(snap.Patients)).
		Int("providers", len(snap.Providers)).
		Int("services", len(snap.Services)).
		Int("appointments", len(snap.Appointments)).
		Int("appointment_services", len(snap.AppointmentServices)).
		Int("payments", len(snap.Payments)).
		Msg("seed complete")
}
