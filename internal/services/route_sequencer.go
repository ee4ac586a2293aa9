package services

import (
	"context"
	"math"
	"time"

	"github.com/rs/zerolog"

	"trip-optimizer-service/internal/domain"
	"trip-optimizer-service/internal/ports"
)

// Sequencing constants.
const (
	transferBufferMinutes = 15
	drivingThresholdM     = 2000.0

	// Heuristic speeds/costs for the haversine fallback.
	walkingSpeedKmh  = 4.8
	drivingSpeedKmh  = 30.0
	drivingCostPerKm = 1.2
)

// RouteSequencer orders one day's activities and recomputes timing and
// transit legs. Ordering delegates to the route-optimization collaborator
// for three or more waypoints; on failure, or for fewer waypoints, the
// original order is kept (explicit no-reorder fallback). Transit legs come
// from the directions collaborator with a haversine estimate as fallback.
type RouteSequencer struct {
	optimizer  ports.RouteOptimizer
	directions ports.DirectionsProvider
	timeout    time.Duration
	log        zerolog.Logger
}

func NewRouteSequencer(optimizer ports.RouteOptimizer, directions ports.DirectionsProvider, timeout time.Duration, log zerolog.Logger) *RouteSequencer {
	return &RouteSequencer{
		optimizer:  optimizer,
		directions: directions,
		timeout:    timeout,
		log:        log.With().Str("component", "route_sequencer").Logger(),
	}
}

// SequenceDay returns the day with activities reordered, start/end times
// recomputed sequentially, and transit legs rebuilt. The activity-id set is
// preserved exactly. Never fails; every collaborator error has a heuristic
// fallback.
func (s *RouteSequencer) SequenceDay(ctx context.Context, day domain.Day) domain.Day {
	if len(day.Activities) < 2 {
		return day
	}

	ordered := s.orderActivities(ctx, day.Activities)
	legs := make([]domain.TransitLeg, 0, len(ordered)-1)

	// Timing depends on the previous activity's end, so this pass is
	// strictly sequential.
	activities := make([]domain.Activity, len(ordered))
	copy(activities, ordered)

	start := activities[0].StartTime
	activities[0].EndTime = start.Add(activities[0].DurationMinutes)

	for i := 1; i < len(activities); i++ {
		leg := s.transitLeg(ctx, activities[i-1], activities[i])
		legs = append(legs, leg)

		activities[i].StartTime = activities[i-1].EndTime.Add(leg.DurationMinutes + transferBufferMinutes)
		activities[i].EndTime = activities[i].StartTime.Add(activities[i].DurationMinutes)
	}

	return day.WithActivities(activities).WithTransportation(legs)
}

// orderActivities asks the route-optimization collaborator for the visiting
// order. Anything short of a valid permutation keeps the original order.
func (s *RouteSequencer) orderActivities(ctx context.Context, activities []domain.Activity) []domain.Activity {
	if len(activities) < 3 || s.optimizer == nil {
		return activities
	}

	waypoints := make([]domain.Coordinates, len(activities))
	for i, a := range activities {
		waypoints[i] = a.Location.Coords
	}

	order := Attempt(ctx, "optimal order", s.timeout, func(ctx context.Context) ([]int, error) {
		return s.optimizer.OptimalOrder(ctx, waypoints)
	}).OrElseFunc(func(serr *ServiceError) []int {
		s.log.Warn().Err(serr).Msg("route optimization failed, keeping original order")
		return nil
	})

	if !validPermutation(order, len(activities)) {
		if order != nil {
			s.log.Warn().Ints("order", order).Msg("route optimizer returned invalid permutation, keeping original order")
		}
		return activities
	}

	ordered := make([]domain.Activity, len(activities))
	for i, idx := range order {
		ordered[i] = activities[idx]
	}
	return ordered
}

func validPermutation(order []int, n int) bool {
	if len(order) != n {
		return false
	}
	seen := make([]bool, n)
	for _, idx := range order {
		if idx < 0 || idx >= n || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// transitLeg computes the transfer between two consecutive activities via the
// directions collaborator, falling back to a haversine estimate.
func (s *RouteSequencer) transitLeg(ctx context.Context, from, to domain.Activity) domain.TransitLeg {
	distance := domain.HaversineMeters(from.Location.Coords, to.Location.Coords)
	mode := ports.ModeWalking
	if distance > drivingThresholdM {
		mode = ports.ModeDriving
	}

	var estimate ports.TransitEstimate
	if s.directions != nil {
		estimate = Attempt(ctx, "directions route", s.timeout, func(ctx context.Context) (ports.TransitEstimate, error) {
			return s.directions.Route(ctx, from.Location.Coords, to.Location.Coords, mode)
		}).OrElseFunc(func(serr *ServiceError) ports.TransitEstimate {
			s.log.Warn().Err(serr).Msg("directions lookup failed, using haversine estimate")
			return estimateTransit(distance, mode)
		})
	} else {
		estimate = estimateTransit(distance, mode)
	}

	return domain.TransitLeg{
		FromActivityID:  from.ID,
		ToActivityID:    to.ID,
		Mode:            estimate.Mode,
		DurationMinutes: estimate.DurationMinutes,
		DistanceMeters:  estimate.DistanceMeters,
		Cost:            estimate.Cost,
	}
}

// estimateTransit derives duration and cost from straight-line distance.
func estimateTransit(distanceMeters float64, mode string) ports.TransitEstimate {
	speedKmh := walkingSpeedKmh
	costPerKm := 0.0
	if mode == ports.ModeDriving {
		speedKmh = drivingSpeedKmh
		costPerKm = drivingCostPerKm
	}

	km := distanceMeters / 1000
	minutes := int(math.Ceil(km / speedKmh * 60))

	return ports.TransitEstimate{
		Mode:            mode,
		DurationMinutes: minutes,
		DistanceMeters:  int(math.Round(distanceMeters)),
		Cost:            km * costPerKm,
	}
}
