package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// TravelStyle selects the budget-category percentage split for a trip.
type TravelStyle string

const (
	StyleLuxury      TravelStyle = "luxury"
	StyleComfortable TravelStyle = "comfortable"
	StyleBudget      TravelStyle = "budget"
	StyleBackpacker  TravelStyle = "backpacker"
	StyleDefault     TravelStyle = "default"
)

// WeatherDependency classifies how exposed an activity is to weather.
type WeatherDependency string

const (
	WeatherOutdoor  WeatherDependency = "outdoor"
	WeatherIndoor   WeatherDependency = "indoor"
	WeatherFlexible WeatherDependency = "flexible"
)

// CrowdLevel is the reported crowding at a location.
type CrowdLevel string

const (
	CrowdLow     CrowdLevel = "low"
	CrowdMedium  CrowdLevel = "medium"
	CrowdHigh    CrowdLevel = "high"
	CrowdExtreme CrowdLevel = "extreme"
)

// Location pairs a human-readable address with geocoded coordinates.
type Location struct {
	Address string      `json:"address"`
	Coords  Coordinates `json:"coords"`
}

// Activity is a single scheduled, located, timed, costed trip event.
type Activity struct {
	ID                string            `json:"id"`
	Name              string            `json:"name"`
	Description       string            `json:"description,omitempty"`
	Type              string            `json:"type"`
	Location          Location          `json:"location"`
	StartTime         TimeOfDay         `json:"start_time"`
	EndTime           TimeOfDay         `json:"end_time"`
	DurationMinutes   int               `json:"duration_minutes"`
	Cost              float64           `json:"cost"`
	Rating            float64           `json:"rating"`
	WeatherDependency WeatherDependency `json:"weather_dependency"`
	CrowdLevel        CrowdLevel        `json:"crowd_level,omitempty"`

	// Annotations written by adaptation application.
	WeatherAdapted   bool   `json:"weather_adapted,omitempty"`
	EventAdded       bool   `json:"event_added,omitempty"`
	BudgetOptimized  bool   `json:"budget_optimized,omitempty"`
	CrowdOptimized   bool   `json:"crowd_optimized,omitempty"`
	CrowdAdvisory    string `json:"crowd_advisory,omitempty"`
	RecommendedTimes string `json:"recommended_times,omitempty"`
}

// Validate checks the timing invariant on a single activity.
func (a Activity) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("activity: id must be non-empty")
	}
	if a.StartTime >= a.EndTime {
		return fmt.Errorf("activity %s: start %s must be before end %s", a.ID, a.StartTime, a.EndTime)
	}
	if a.Cost < 0 {
		return fmt.Errorf("activity %s: cost must be >= 0", a.ID)
	}
	return nil
}

// TransitLeg is the computed transfer between two consecutive activities.
type TransitLeg struct {
	FromActivityID  string  `json:"from_activity_id"`
	ToActivityID    string  `json:"to_activity_id"`
	Mode            string  `json:"mode"`
	DurationMinutes int     `json:"duration_minutes"`
	DistanceMeters  int     `json:"distance_meters"`
	Cost            float64 `json:"cost"`
}

// Accommodation is the lodging record attached to a day.
type Accommodation struct {
	Name         string  `json:"name,omitempty"`
	Address      string  `json:"address,omitempty"`
	CostPerNight float64 `json:"cost_per_night,omitempty"`
}

// Day is one calendar day's activities, transport, and lodging.
// TotalCost is derived; use WithActivities to keep it consistent.
type Day struct {
	Date           time.Time     `json:"date"`
	Activities     []Activity    `json:"activities"`
	Transportation []TransitLeg  `json:"transportation,omitempty"`
	Accommodation  Accommodation `json:"accommodation"`
	TotalCost      float64       `json:"total_cost"`
}

// WithActivities returns a copy of the day carrying the given activities
// with TotalCost recomputed. The receiver is not modified.
func (d Day) WithActivities(activities []Activity) Day {
	out := d
	out.Activities = activities
	out.TotalCost = 0
	for _, a := range activities {
		out.TotalCost += a.Cost
	}
	out.TotalCost += d.Accommodation.CostPerNight
	for _, leg := range d.Transportation {
		out.TotalCost += leg.Cost
	}
	return out
}

// WithTransportation returns a copy of the day with the transit legs replaced
// and TotalCost recomputed.
func (d Day) WithTransportation(legs []TransitLeg) Day {
	out := d
	out.Transportation = legs
	return out.WithActivities(d.Activities)
}

// Itinerary is the full multi-day trip plan being optimized.
// The engine never persists it; callers own storage.
type Itinerary struct {
	ID           string      `json:"id,omitempty"`
	Destination  string      `json:"destination"`
	DurationDays int         `json:"duration_days"`
	Budget       float64     `json:"budget"`
	Travelers    int         `json:"travelers"`
	TravelStyle  TravelStyle `json:"travel_style"`
	Days         []Day       `json:"days"`
}

// ErrInvalidItinerary marks structural validation failures on public entry points.
var ErrInvalidItinerary = errors.New("invalid itinerary")

// Validate enforces the structural invariants required before optimization.
func (i Itinerary) Validate() error {
	if strings.TrimSpace(i.Destination) == "" {
		return fmt.Errorf("%w: destination must be non-empty", ErrInvalidItinerary)
	}
	if i.DurationDays < 1 {
		return fmt.Errorf("%w: duration must be at least 1 day", ErrInvalidItinerary)
	}
	if i.Budget <= 0 {
		return fmt.Errorf("%w: budget must be positive", ErrInvalidItinerary)
	}
	if i.Travelers < 1 {
		return fmt.Errorf("%w: travelers must be at least 1", ErrInvalidItinerary)
	}
	return nil
}

// WithDay returns a copy of the itinerary with the day at idx replaced.
// The days slice is copied so the receiver remains unchanged.
func (i Itinerary) WithDay(idx int, day Day) Itinerary {
	out := i
	out.Days = make([]Day, len(i.Days))
	copy(out.Days, i.Days)
	if idx >= 0 && idx < len(out.Days) {
		out.Days[idx] = day
	}
	return out
}

// TotalCost sums the derived cost of every day.
func (i Itinerary) TotalCost() float64 {
	total := 0.0
	for _, d := range i.Days {
		total += d.TotalCost
	}
	return total
}

// DayIndexByDate returns the index of the day on the given calendar date,
// or -1 when no day matches.
func (i Itinerary) DayIndexByDate(date time.Time) int {
	key := DateKey(date)
	for idx, d := range i.Days {
		if DateKey(d.Date) == key {
			return idx
		}
	}
	return -1
}

// DateKey normalizes a timestamp to its UTC calendar date for matching.
func DateKey(t time.Time) string { return t.UTC().Format("2006-01-02") }

// SameDate reports whether two timestamps fall on the same UTC calendar date.
func SameDate(a, b time.Time) bool { return DateKey(a) == DateKey(b) }
