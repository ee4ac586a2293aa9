package routing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"trip-optimizer-service/internal/domain"
	"trip-optimizer-service/internal/ports"
)

// ORSRoutingProvider implements the RouteOptimizer and DirectionsProvider
// ports using OpenRouteService. Ordering uses the optimization endpoint;
// per-leg metrics use the directions endpoint. External calls are retried
// with backoff; the engine layers its own heuristic fallbacks on top.
//
// The provider is safe for concurrent use.
type ORSRoutingProvider struct {
	session *http.Client
	apiKey  string
	baseURL string
}

var (
	_ ports.RouteOptimizer     = (*ORSRoutingProvider)(nil)
	_ ports.DirectionsProvider = (*ORSRoutingProvider)(nil)
)

func NewORSRoutingProvider(apiKey string) (*ORSRoutingProvider, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	return &ORSRoutingProvider{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
	}, nil
}

type optimizationRequest struct {
	Jobs     []optimizationJob     `json:"jobs"`
	Vehicles []optimizationVehicle `json:"vehicles"`
}

type optimizationJob struct {
	ID       int       `json:"id"`
	Location []float64 `json:"location"`
}

type optimizationVehicle struct {
	ID      int       `json:"id"`
	Profile string    `json:"profile"`
	Start   []float64 `json:"start"`
}

type optimizationResponse struct {
	Routes []struct {
		Steps []struct {
			Type string `json:"type"`
			Job  int    `json:"job"`
		} `json:"steps"`
	} `json:"routes"`
}

// OptimalOrder returns the permutation of waypoint indices the optimization
// service proposes. Job ids carry the original index so the permutation can
// be reconstructed from the step list.
func (o *ORSRoutingProvider) OptimalOrder(ctx context.Context, waypoints []domain.Coordinates) ([]int, error) {
	if len(waypoints) == 0 {
		return []int{}, nil
	}

	endpoint := o.baseURL + "/optimization"

	jobs := make([]optimizationJob, len(waypoints))
	for i, wp := range waypoints {
		jobs[i] = optimizationJob{ID: i, Location: wp.CoordsToList()}
	}

	payload, err := json.Marshal(optimizationRequest{
		Jobs: jobs,
		Vehicles: []optimizationVehicle{
			{ID: 1, Profile: "driving-car", Start: waypoints[0].CoordsToList()},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal optimization request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return nil, fmt.Errorf("optimization request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded optimizationResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode optimization response: %w", err)
	}
	if len(decoded.Routes) == 0 {
		return nil, errors.New("optimization response has no routes")
	}

	order := make([]int, 0, len(waypoints))
	for _, step := range decoded.Routes[0].Steps {
		if step.Type == "job" {
			order = append(order, step.Job)
		}
	}
	if len(order) != len(waypoints) {
		return nil, fmt.Errorf("optimization returned %d of %d waypoints", len(order), len(waypoints))
	}

	return order, nil
}

type directionsResponse struct {
	Routes []struct {
		Summary struct {
			Distance float64 `json:"distance"`
			Duration float64 `json:"duration"`
		} `json:"summary"`
	} `json:"routes"`
}

// Cost heuristics per mode applied to provider distances.
const drivingCostPerKm = 1.2

// Route returns duration, distance, and an estimated cost between two points.
func (o *ORSRoutingProvider) Route(ctx context.Context, from, to domain.Coordinates, mode string) (ports.TransitEstimate, error) {
	profile := "foot-walking"
	if mode == ports.ModeDriving {
		profile = "driving-car"
	}

	endpoint := fmt.Sprintf("%s/v2/directions/%s", o.baseURL, profile)

	payload, err := json.Marshal(map[string][][]float64{
		"coordinates": {from.CoordsToList(), to.CoordsToList()},
	})
	if err != nil {
		return ports.TransitEstimate{}, fmt.Errorf("marshal directions request: %w", err)
	}

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		return o.newRequest(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	})
	if err != nil {
		return ports.TransitEstimate{}, fmt.Errorf("directions request failed: %w", err)
	}
	defer resp.Body.Close()

	var decoded directionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return ports.TransitEstimate{}, fmt.Errorf("decode directions response: %w", err)
	}
	if len(decoded.Routes) == 0 {
		return ports.TransitEstimate{}, errors.New("directions response has no routes")
	}

	summary := decoded.Routes[0].Summary

	cost := 0.0
	if mode == ports.ModeDriving {
		cost = summary.Distance / 1000 * drivingCostPerKm
	}

	return ports.TransitEstimate{
		Mode:            mode,
		DurationMinutes: int(math.Ceil(summary.Duration / 60)),
		DistanceMeters:  int(math.Round(summary.Distance)),
		Cost:            cost,
	}, nil
}
