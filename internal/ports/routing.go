package ports

import (
	"context"

	"trip-optimizer-service/internal/domain"
)

// Contract for the external route-optimization collaborator.
type RouteOptimizer interface {
	// OptimalOrder returns a permutation of waypoint indices describing the
	// visiting order that minimizes travel.
	OptimalOrder(ctx context.Context, waypoints []domain.Coordinates) ([]int, error)
}

// Travel mode constants shared by directions implementations.
const (
	ModeWalking = "walking"
	ModeDriving = "driving"
)

// TransitEstimate is the computed transfer between two points.
type TransitEstimate struct {
	Mode            string
	DurationMinutes int
	DistanceMeters  int
	Cost            float64
}

// Contract for the external directions collaborator.
type DirectionsProvider interface {
	// Route returns duration, distance and cost between two points for the
	// given travel mode.
	Route(ctx context.Context, from, to domain.Coordinates, mode string) (TransitEstimate, error)
}
