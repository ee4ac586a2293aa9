package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"trip-optimizer-service/internal/domain"
)

// InitSchema creates the trips table when missing.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createTripsQuery := `
	CREATE TABLE IF NOT EXISTS trips (
		trip_id TEXT PRIMARY KEY,
		destination TEXT NOT NULL,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_trips_destination ON trips (destination);
	`

	if _, err := tx.Exec(createTripsQuery); err != nil {
		return fmt.Errorf("init schema: create trips table: %w", err)
	}
	if _, err := tx.Exec(createIndexQuery); err != nil {
		return fmt.Errorf("init schema: create destination index: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit: %w", err)
	}

	return nil
}

// SeedFromJSON loads demo itineraries from a JSON file of domain.Itinerary
// records. Existing trips with the same id are replaced.
func SeedFromJSON(db *sql.DB, path string) error {
	if db == nil {
		return errors.New("seed trips: DB is nil")
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("seed trips: read %q: %w", path, err)
	}

	var itineraries []domain.Itinerary
	if err := json.Unmarshal(raw, &itineraries); err != nil {
		return fmt.Errorf("seed trips: parse %q: %w", path, err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed trips: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
	INSERT INTO trips (trip_id, destination, payload, created_at, updated_at)
	VALUES ($1, $2, $3, now(), now())
	ON CONFLICT (trip_id) DO UPDATE
	SET destination = EXCLUDED.destination,
		payload = EXCLUDED.payload,
		updated_at = now();
	`)
	if err != nil {
		return fmt.Errorf("seed trips: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, itin := range itineraries {
		if err := itin.Validate(); err != nil {
			return fmt.Errorf("seed trips: %w", err)
		}
		payload, err := json.Marshal(itin)
		if err != nil {
			return fmt.Errorf("seed trips: marshal %q: %w", itin.ID, err)
		}
		if _, err := stmt.Exec(itin.ID, itin.Destination, payload); err != nil {
			return fmt.Errorf("seed trips: insert %q: %w", itin.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed trips: commit: %w", err)
	}

	return nil
}
