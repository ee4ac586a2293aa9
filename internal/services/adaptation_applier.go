package services

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"trip-optimizer-service/internal/domain"
)

// Fixed scheduling constants for applied mutations.
const (
	eventActivityStart    = domain.TimeOfDay(19 * 60) // 19:00
	eventActivityMinutes  = 120
	resortBufferMinutes   = 30
	budgetSubstituteRatio = 0.8
)

// AdaptationApplier mutates an itinerary according to a single adaptation.
// Every path degrades to a no-op rather than failing, so batch application
// stays resilient to partial mismatches. An adaptation already marked
// accepted is never applied twice.
type AdaptationApplier struct {
	log   zerolog.Logger
	now   func() time.Time
	newID func() string
}

func NewAdaptationApplier(log zerolog.Logger) *AdaptationApplier {
	return &AdaptationApplier{
		log:   log.With().Str("component", "adaptation_applier").Logger(),
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Apply returns the itinerary with the adaptation applied and reports whether
// anything changed. On a structural match the adaptation is marked accepted
// with an application timestamp. Unknown types and unmatched targets leave
// the itinerary unchanged.
func (ap *AdaptationApplier) Apply(itin domain.Itinerary, ad *domain.Adaptation) (domain.Itinerary, bool) {
	if ad == nil {
		return itin, false
	}
	if ad.Accepted {
		ap.log.Debug().Str("adaptation_id", ad.ID).Msg("skipping already-accepted adaptation")
		return itin, false
	}

	var (
		out     domain.Itinerary
		changed bool
	)

	switch ad.Type {
	case domain.AdaptWeather:
		out, changed = ap.applyWeather(itin, ad)
	case domain.AdaptEvent:
		out, changed = ap.applyEvent(itin, ad)
	case domain.AdaptBudget:
		out, changed = ap.applyBudget(itin, ad)
	case domain.AdaptCrowd:
		out, changed = ap.applyCrowd(itin, ad)
	case domain.AdaptTime:
		out, changed = ap.applyTime(itin, ad)
	default:
		ap.log.Warn().Str("adaptation_id", ad.ID).Str("type", string(ad.Type)).Msg("unknown adaptation type, skipping")
		return itin, false
	}

	if !changed {
		ap.log.Warn().Str("adaptation_id", ad.ID).Str("type", string(ad.Type)).Msg("adaptation target not matched, itinerary unchanged")
		return itin, false
	}

	ad.MarkApplied(ap.now())
	return out, true
}

// applyWeather swaps the matched day's weather-exposed activities for the
// first suggested alternative.
func (ap *AdaptationApplier) applyWeather(itin domain.Itinerary, ad *domain.Adaptation) (domain.Itinerary, bool) {
	if ad.Target.Date == nil || len(ad.Alternatives) == 0 {
		return itin, false
	}
	idx := itin.DayIndexByDate(*ad.Target.Date)
	if idx < 0 {
		return itin, false
	}

	alt := ad.Alternatives[0]
	day := itin.Days[idx]
	activities := make([]domain.Activity, len(day.Activities))
	copy(activities, day.Activities)

	changed := false
	for i, act := range activities {
		if !weatherExposed(act) {
			continue
		}
		act.Name = alt.Name
		if alt.Description != "" {
			act.Description = alt.Description
		}
		act.Cost = alt.Cost
		act.WeatherDependency = domain.WeatherIndoor
		act.WeatherAdapted = true
		activities[i] = act
		changed = true
	}
	if !changed {
		return itin, false
	}

	return itin.WithDay(idx, day.WithActivities(activities)), true
}

func weatherExposed(a domain.Activity) bool {
	return a.WeatherDependency == domain.WeatherOutdoor ||
		strings.Contains(strings.ToLower(a.Type), "sightseeing")
}

// applyEvent appends a synthetic evening activity built from the event record.
func (ap *AdaptationApplier) applyEvent(itin domain.Itinerary, ad *domain.Adaptation) (domain.Itinerary, bool) {
	if ad.Event == nil {
		return itin, false
	}
	idx := itin.DayIndexByDate(ad.Event.Date)
	if idx < 0 && ad.Target.Date != nil {
		idx = itin.DayIndexByDate(*ad.Target.Date)
	}
	if idx < 0 {
		return itin, false
	}

	day := itin.Days[idx]
	activities := make([]domain.Activity, len(day.Activities), len(day.Activities)+1)
	copy(activities, day.Activities)

	activities = append(activities, domain.Activity{
		ID:                ap.newID(),
		Name:              ad.Event.Name,
		Description:       "Local event added from a real-time suggestion",
		Type:              "event",
		Location:          domain.Location{Address: ad.Event.Location},
		StartTime:         eventActivityStart,
		EndTime:           eventActivityStart.Add(eventActivityMinutes),
		DurationMinutes:   eventActivityMinutes,
		Cost:              0,
		WeatherDependency: domain.WeatherFlexible,
		EventAdded:        true,
	})

	return itin.WithDay(idx, day.WithActivities(activities)), true
}

// applyBudget substitutes activities priced above the replacement band of a
// matching alternative, across all days.
func (ap *AdaptationApplier) applyBudget(itin domain.Itinerary, ad *domain.Adaptation) (domain.Itinerary, bool) {
	if len(ad.Alternatives) == 0 {
		return itin, false
	}

	out := itin
	out.Days = make([]domain.Day, len(itin.Days))
	copy(out.Days, itin.Days)

	changed := false
	for di, day := range out.Days {
		activities := make([]domain.Activity, len(day.Activities))
		copy(activities, day.Activities)

		dayChanged := false
		for i, act := range activities {
			alt, ok := matchAlternative(act, ad.Alternatives)
			if !ok {
				continue
			}
			act.Name = alt.Name
			if alt.Description != "" {
				act.Description = alt.Description
			}
			act.Cost = alt.Cost
			act.BudgetOptimized = true
			activities[i] = act
			dayChanged = true
		}
		if dayChanged {
			out.Days[di] = day.WithActivities(activities)
			changed = true
		}
	}
	if !changed {
		return itin, false
	}

	return out, true
}

// matchAlternative finds the first alternative whose replacement band the
// activity's cost exceeds.
func matchAlternative(act domain.Activity, alternatives []domain.Alternative) (domain.Alternative, bool) {
	for _, alt := range alternatives {
		if alt.OriginalCost > 0 && act.Cost > budgetSubstituteRatio*alt.OriginalCost {
			return alt, true
		}
	}
	return domain.Alternative{}, false
}

// applyCrowd annotates activities whose address mentions the crowded location.
func (ap *AdaptationApplier) applyCrowd(itin domain.Itinerary, ad *domain.Adaptation) (domain.Itinerary, bool) {
	location := strings.ToLower(strings.TrimSpace(ad.Target.Location))
	if location == "" {
		return itin, false
	}

	out := itin
	out.Days = make([]domain.Day, len(itin.Days))
	copy(out.Days, itin.Days)

	changed := false
	for di, day := range out.Days {
		activities := make([]domain.Activity, len(day.Activities))
		copy(activities, day.Activities)

		dayChanged := false
		for i, act := range activities {
			if !strings.Contains(strings.ToLower(act.Location.Address), location) {
				continue
			}
			act.CrowdAdvisory = ad.Reason
			act.RecommendedTimes = ad.RecommendedTimes
			act.CrowdOptimized = true
			activities[i] = act
			dayChanged = true
		}
		if dayChanged {
			out.Days[di] = day.WithActivities(activities)
			changed = true
		}
	}
	if !changed {
		return itin, false
	}

	return out, true
}

// applyTime re-sorts a day's activities by coordinate proximity and recomputes
// sequential start/end times with a fixed buffer between activities.
func (ap *AdaptationApplier) applyTime(itin domain.Itinerary, ad *domain.Adaptation) (domain.Itinerary, bool) {
	if ad.Target.Date == nil {
		return itin, false
	}
	idx := itin.DayIndexByDate(*ad.Target.Date)
	if idx < 0 {
		return itin, false
	}

	day := itin.Days[idx]
	if len(day.Activities) < 2 {
		return itin, false
	}

	activities := make([]domain.Activity, len(day.Activities))
	copy(activities, day.Activities)

	// Proximity heuristic: distance in coordinate space from the day's first
	// activity, as the sum of absolute lon/lat offsets.
	origin := activities[0].Location.Coords
	sort.SliceStable(activities, func(i, j int) bool {
		return coordOffset(activities[i].Location.Coords, origin) < coordOffset(activities[j].Location.Coords, origin)
	})

	start := activities[0].StartTime
	for i := range activities {
		if i > 0 {
			start = activities[i-1].EndTime.Add(resortBufferMinutes)
		}
		activities[i].StartTime = start
		activities[i].EndTime = start.Add(activities[i].DurationMinutes)
	}

	return itin.WithDay(idx, day.WithActivities(activities)), true
}

func coordOffset(c, origin domain.Coordinates) float64 {
	d := c.Lon - origin.Lon
	if d < 0 {
		d = -d
	}
	e := c.Lat - origin.Lat
	if e < 0 {
		e = -e
	}
	return d + e
}
