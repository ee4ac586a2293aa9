package routing

import (
	"context"
	"errors"

	"trip-optimizer-service/internal/domain"
	"trip-optimizer-service/internal/ports"
)

// MockRouteOptimizer returns a fixed permutation, or Err when set.
type MockRouteOptimizer struct {
	Order []int
	Err   error
	Calls int
}

func (m *MockRouteOptimizer) OptimalOrder(ctx context.Context, waypoints []domain.Coordinates) ([]int, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Order, nil
}

// MockPair keys a canned transit estimate by activity coordinates.
type MockPair struct {
	From, To domain.Coordinates
	Estimate ports.TransitEstimate
}

// MockDirectionsProvider serves canned estimates for known coordinate pairs.
type MockDirectionsProvider struct {
	Pairs []MockPair
	Err   error
}

func (m *MockDirectionsProvider) Route(ctx context.Context, from, to domain.Coordinates, mode string) (ports.TransitEstimate, error) {
	if m.Err != nil {
		return ports.TransitEstimate{}, m.Err
	}
	for _, p := range m.Pairs {
		if p.From == from && p.To == to {
			return p.Estimate, nil
		}
	}
	return ports.TransitEstimate{}, errors.New("mock directions: missing pair")
}
