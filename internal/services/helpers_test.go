package services

import (
	"time"

	"trip-optimizer-service/internal/domain"
)

const testTimeout = 200 * time.Millisecond

var (
	day1 = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	day2 = time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
)

// singleDayItinerary builds a one-day trip with the given activities,
// keeping derived costs consistent.
func singleDayItinerary(activities ...domain.Activity) domain.Itinerary {
	day := domain.Day{Date: day1}.WithActivities(activities)
	return domain.Itinerary{
		Destination:  "Barcelona",
		DurationDays: 1,
		Budget:       1000,
		Travelers:    2,
		TravelStyle:  domain.StyleComfortable,
		Days:         []domain.Day{day},
	}
}

func outdoorActivity(id string, cost float64) domain.Activity {
	return domain.Activity{
		ID:                id,
		Name:              "Park Güell walk",
		Type:              "outdoor",
		Location:          domain.Location{Address: "Park Güell, Barcelona", Coords: domain.Coordinates{Lon: 2.1527, Lat: 41.4145}},
		StartTime:         domain.TimeOfDay(9 * 60),
		EndTime:           domain.TimeOfDay(11 * 60),
		DurationMinutes:   120,
		Cost:              cost,
		Rating:            4.5,
		WeatherDependency: domain.WeatherOutdoor,
	}
}

func indoorActivity(id string, cost float64) domain.Activity {
	return domain.Activity{
		ID:                id,
		Name:              "Picasso Museum",
		Type:              "museum",
		Location:          domain.Location{Address: "Carrer Montcada, Barcelona", Coords: domain.Coordinates{Lon: 2.1806, Lat: 41.3851}},
		StartTime:         domain.TimeOfDay(12 * 60),
		EndTime:           domain.TimeOfDay(14 * 60),
		DurationMinutes:   120,
		Cost:              cost,
		Rating:            4.0,
		WeatherDependency: domain.WeatherIndoor,
	}
}
