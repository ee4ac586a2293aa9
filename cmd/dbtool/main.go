package main

import (
	"database/sql"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"trip-optimizer-service/internal/adapters/repositories"
	"trip-optimizer-service/internal/config"
	"trip-optimizer-service/internal/platform/db"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("configuration failed")
	}
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Fatal().Msg("TRIP_DATABASE_URL is required")
	}

	pg, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open database failed")
	}
	defer pg.Close()

	if err := initAndSeed(log, pg, cfg.SeedPath); err != nil {
		log.Fatal().Err(err).Msg("dbtool failed")
	}
}

func initAndSeed(log zerolog.Logger, pg *sql.DB, seedPath string) error {
	log.Info().Msg("initializing database schema")
	if err := repositories.InitSchema(pg); err != nil {
		return err
	}
	log.Info().Msg("schema ready")

	if _, err := os.Stat(seedPath); os.IsNotExist(err) {
		log.Info().Str("path", seedPath).Msg("no seed file, skipping")
		return nil
	}

	log.Info().Str("path", seedPath).Msg("seeding trips")
	if err := repositories.SeedFromJSON(pg, seedPath); err != nil {
		return err
	}
	log.Info().Msg("seeding complete")

	return nil
}
