package domain

import "time"

// EventImpact classifies whether a local event helps or hurts the trip.
type EventImpact string

const (
	ImpactPositive EventImpact = "positive"
	ImpactNegative EventImpact = "negative"
)

// WeatherForecast is one normalized forecast entry for a destination day.
type WeatherForecast struct {
	Date             time.Time `json:"date"`
	PrecipitationPct int       `json:"precipitation_pct"`
	TemperatureC     float64   `json:"temperature_c"`
	Advisory         string    `json:"advisory,omitempty"`
}

// LocalEvent is a normalized local-event signal.
type LocalEvent struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Date     time.Time   `json:"date"`
	Location string      `json:"location"`
	Impact   EventImpact `json:"impact"`
}

// CrowdInfo reports crowding for a location on a date, with the provider's
// suggested low-traffic window.
type CrowdInfo struct {
	Location  string     `json:"location"`
	Date      time.Time  `json:"date"`
	Level     CrowdLevel `json:"level"`
	BestTimes string     `json:"best_times,omitempty"`
}

// TransportStatus is advisory-only road and transit state.
type TransportStatus struct {
	RoadAdvisory    string `json:"road_advisory,omitempty"`
	TransitAdvisory string `json:"transit_advisory,omitempty"`
}

// RealTimeFactors is the normalized bundle of signals driving adaptation
// generation. It arrives already parsed; raw provider shapes are not this
// engine's concern.
type RealTimeFactors struct {
	Weather        []WeatherForecast `json:"weather,omitempty"`
	Events         []LocalEvent      `json:"events,omitempty"`
	CrowdDensity   []CrowdInfo       `json:"crowd_density,omitempty"`
	Transportation TransportStatus   `json:"transportation,omitempty"`
}
