package dto

import "trip-optimizer-service/internal/domain"

type CreateTripRequest struct {
	Itinerary domain.Itinerary `json:"itinerary"`
}

type UpdateTripRequest struct {
	Itinerary domain.Itinerary `json:"itinerary"`
}

type TripResponse struct {
	Trip domain.Itinerary `json:"trip"`
}

type ListTripsResponse struct {
	Trips []domain.Itinerary `json:"trips"`
}
