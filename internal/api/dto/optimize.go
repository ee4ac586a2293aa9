package dto

import (
	"trip-optimizer-service/internal/domain"
	"trip-optimizer-service/internal/services"
)

type OptimizeRequest struct {
	// Itinerary is required on the stateless endpoint and ignored on the
	// per-trip endpoint, which loads from the store.
	Itinerary *domain.Itinerary        `json:"itinerary,omitempty"`
	Factors   domain.RealTimeFactors   `json:"factors"`
	Options   services.OptimizeOptions `json:"options"`
}

type OptimizeResponse struct {
	Result services.OptimizeResult `json:"result"`
}

type ApplyAdaptationsRequest struct {
	Itinerary   *domain.Itinerary   `json:"itinerary"`
	Adaptations []domain.Adaptation `json:"adaptations"`
	// AdaptationIDs optionally restricts application to a subset.
	AdaptationIDs []string `json:"adaptation_ids,omitempty"`
}

type ApplyAdaptationsResponse struct {
	Itinerary   domain.Itinerary    `json:"itinerary"`
	Adaptations []domain.Adaptation `json:"adaptations"`
	AppliedIDs  []string            `json:"applied_ids"`
	SkippedIDs  []string            `json:"skipped_ids"`
}
