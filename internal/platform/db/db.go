package db

import (
	"database/sql"
	"fmt"
	"time"
)

// Pool sizing for the trips document store. Access is a handful of short
// jsonb reads/writes per optimization request, so a small pool suffices;
// idle connections are kept warm to avoid reconnect latency on bursts.
const (
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
	connMaxIdleTime = 5 * time.Minute
)

// Open connects to the Postgres instance backing the trips store and
// verifies the connection before returning.
func Open(databaseURL string) (*sql.DB, error) {
	pool, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open trips database: %w", err)
	}

	pool.SetMaxOpenConns(maxOpenConns)
	pool.SetMaxIdleConns(maxIdleConns)
	pool.SetConnMaxLifetime(connMaxLifetime)
	pool.SetConnMaxIdleTime(connMaxIdleTime)

	if err := pool.Ping(); err != nil {
		return nil, fmt.Errorf("verify trips database connection: %w", err)
	}

	return pool, nil
}
