package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"trip-optimizer-service/internal/domain"
	"trip-optimizer-service/internal/ports"
)

// Postgres-backed implementation of the TripRepository port. The itinerary
// is stored as a jsonb payload keyed by trip id; destination is denormalized
// for listing.
type PgTripRepository struct{ DB *sql.DB }

func NewPgTripRepository(db *sql.DB) *PgTripRepository {
	return &PgTripRepository{DB: db}
}

var _ ports.TripRepository = (*PgTripRepository)(nil)

func (r *PgTripRepository) Create(ctx context.Context, itin domain.Itinerary) (domain.Itinerary, error) {
	if r.DB == nil {
		return domain.Itinerary{}, errors.New("trip repository: DB is nil")
	}
	if err := itin.Validate(); err != nil {
		return domain.Itinerary{}, fmt.Errorf("create trip: %w", err)
	}

	if strings.TrimSpace(itin.ID) == "" {
		itin.ID = uuid.NewString()
	}

	payload, err := json.Marshal(itin)
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("create trip: marshal itinerary: %w", err)
	}

	query := `
	INSERT INTO trips (trip_id, destination, payload, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $4);
	`
	if _, err := r.DB.ExecContext(ctx, query, itin.ID, itin.Destination, payload, time.Now().UTC()); err != nil {
		return domain.Itinerary{}, fmt.Errorf("create trip: insert trips row: %w", err)
	}

	return itin, nil
}

func (r *PgTripRepository) Get(ctx context.Context, id string) (domain.Itinerary, error) {
	if r.DB == nil {
		return domain.Itinerary{}, errors.New("trip repository: DB is nil")
	}
	if strings.TrimSpace(id) == "" {
		return domain.Itinerary{}, fmt.Errorf("get trip: %w", ports.ErrTripNotFound)
	}

	query := `SELECT payload FROM trips WHERE trip_id = $1;`

	var payload []byte
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Itinerary{}, fmt.Errorf("get trip %q: %w", id, ports.ErrTripNotFound)
	}
	if err != nil {
		return domain.Itinerary{}, fmt.Errorf("get trip %q: query trips table: %w", id, err)
	}

	var itin domain.Itinerary
	if err := json.Unmarshal(payload, &itin); err != nil {
		return domain.Itinerary{}, fmt.Errorf("get trip %q: unmarshal payload: %w", id, err)
	}
	itin.ID = id

	return itin, nil
}

func (r *PgTripRepository) List(ctx context.Context) ([]domain.Itinerary, error) {
	if r.DB == nil {
		return nil, errors.New("trip repository: DB is nil")
	}

	query := `SELECT trip_id, payload FROM trips ORDER BY created_at;`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list trips: query trips table: %w", err)
	}
	defer rows.Close()

	trips := make([]domain.Itinerary, 0, 16)
	for rows.Next() {
		var id string
		var payload []byte
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("list trips: scan row: %w", err)
		}

		var itin domain.Itinerary
		if err := json.Unmarshal(payload, &itin); err != nil {
			return nil, fmt.Errorf("list trips: unmarshal payload for %q: %w", id, err)
		}
		itin.ID = id
		trips = append(trips, itin)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list trips: row iteration: %w", err)
	}

	return trips, nil
}

func (r *PgTripRepository) Update(ctx context.Context, itin domain.Itinerary) error {
	if r.DB == nil {
		return errors.New("trip repository: DB is nil")
	}
	if strings.TrimSpace(itin.ID) == "" {
		return errors.New("update trip: id must be non-empty")
	}

	payload, err := json.Marshal(itin)
	if err != nil {
		return fmt.Errorf("update trip %q: marshal itinerary: %w", itin.ID, err)
	}

	query := `
	UPDATE trips
	SET destination = $2, payload = $3, updated_at = $4
	WHERE trip_id = $1;
	`
	res, err := r.DB.ExecContext(ctx, query, itin.ID, itin.Destination, payload, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update trip %q: update trips row: %w", itin.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update trip %q: rows affected: %w", itin.ID, err)
	}
	if affected == 0 {
		return fmt.Errorf("update trip %q: %w", itin.ID, ports.ErrTripNotFound)
	}

	return nil
}

func (r *PgTripRepository) Delete(ctx context.Context, id string) error {
	if r.DB == nil {
		return errors.New("trip repository: DB is nil")
	}

	res, err := r.DB.ExecContext(ctx, `DELETE FROM trips WHERE trip_id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete trip %q: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete trip %q: rows affected: %w", id, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete trip %q: %w", id, ports.ErrTripNotFound)
	}

	return nil
}
