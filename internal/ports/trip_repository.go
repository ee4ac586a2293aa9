package ports

import (
	"context"
	"errors"

	"trip-optimizer-service/internal/domain"
)

// ErrTripNotFound is returned when a trip id has no stored itinerary.
var ErrTripNotFound = errors.New("trip not found")

// Port: a boundary for storing and retrieving trip itineraries.
// The optimization engine itself is stateless; this is the caller's store.
type TripRepository interface {
	Create(ctx context.Context, itin domain.Itinerary) (domain.Itinerary, error)
	Get(ctx context.Context, id string) (domain.Itinerary, error)
	List(ctx context.Context) ([]domain.Itinerary, error)
	Update(ctx context.Context, itin domain.Itinerary) error
	Delete(ctx context.Context, id string) error
}
