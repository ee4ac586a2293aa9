package services

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-optimizer-service/internal/domain"
)

func testApplier() *AdaptationApplier {
	ap := NewAdaptationApplier(zerolog.Nop())
	ap.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	ap.newID = func() string { return "synthetic-1" }
	return ap
}

func TestApplyWeatherReplacesOutdoorActivities(t *testing.T) {
	ap := testApplier()

	itin := singleDayItinerary(outdoorActivity("a1", 40), indoorActivity("a2", 12))
	target := day1
	ad := &domain.Adaptation{
		ID:     "ad1",
		Type:   domain.AdaptWeather,
		Target: domain.Target{Date: &target},
		Alternatives: []domain.Alternative{
			{Name: "Aquarium visit", Description: "sheltered afternoon", Cost: 25},
		},
	}

	out, changed := ap.Apply(itin, ad)
	require.True(t, changed)

	replaced := out.Days[0].Activities[0]
	assert.Equal(t, "Aquarium visit", replaced.Name)
	assert.InDelta(t, 25.0, replaced.Cost, 1e-9)
	assert.True(t, replaced.WeatherAdapted)
	assert.Equal(t, domain.WeatherIndoor, replaced.WeatherDependency)

	// Indoor activity untouched; day cost recomputed.
	assert.False(t, out.Days[0].Activities[1].WeatherAdapted)
	assert.InDelta(t, 37.0, out.Days[0].TotalCost, 1e-9)

	// Bookkeeping on the adaptation itself.
	assert.True(t, ad.Accepted)
	require.NotNil(t, ad.AppliedAt)

	// Original itinerary is not mutated.
	assert.Equal(t, "Park Güell walk", itin.Days[0].Activities[0].Name)
}

func TestApplyWeatherUnmatchedDateIsNoop(t *testing.T) {
	ap := testApplier()

	itin := singleDayItinerary(outdoorActivity("a1", 40))
	wrongDay := day2
	ad := &domain.Adaptation{
		ID:           "ad1",
		Type:         domain.AdaptWeather,
		Target:       domain.Target{Date: &wrongDay},
		Alternatives: []domain.Alternative{{Name: "Aquarium visit", Cost: 25}},
	}

	out, changed := ap.Apply(itin, ad)
	assert.False(t, changed)
	assert.Equal(t, itin, out)
	assert.False(t, ad.Accepted)
	assert.Nil(t, ad.AppliedAt)
}

func TestApplyEventAddsSyntheticActivity(t *testing.T) {
	ap := testApplier()

	itin := singleDayItinerary(outdoorActivity("a1", 40))
	ad := &domain.Adaptation{
		ID:   "ad1",
		Type: domain.AdaptEvent,
		Event: &domain.LocalEvent{
			ID: "e1", Name: "Night market", Date: day1, Location: "Port Vell", Impact: domain.ImpactPositive,
		},
	}

	out, changed := ap.Apply(itin, ad)
	require.True(t, changed)
	require.Len(t, out.Days[0].Activities, 2)

	added := out.Days[0].Activities[1]
	assert.Equal(t, "Night market", added.Name)
	assert.True(t, added.EventAdded)
	assert.Equal(t, "19:00", added.StartTime.String())
	assert.Equal(t, "21:00", added.EndTime.String())
	assert.Equal(t, 120, added.DurationMinutes)
	assert.Zero(t, added.Cost)
}

func TestApplyBudgetSubstitutesExpensiveActivities(t *testing.T) {
	ap := testApplier()

	itin := singleDayItinerary(outdoorActivity("a1", 90), indoorActivity("a2", 10))
	ad := &domain.Adaptation{
		ID:   "ad1",
		Type: domain.AdaptBudget,
		Alternatives: []domain.Alternative{
			{Name: "Free beach afternoon", Cost: 0, OriginalCost: 100},
		},
	}

	out, changed := ap.Apply(itin, ad)
	require.True(t, changed)

	// 90 > 0.8*100 -> substituted; 10 is below the band.
	assert.Equal(t, "Free beach afternoon", out.Days[0].Activities[0].Name)
	assert.True(t, out.Days[0].Activities[0].BudgetOptimized)
	assert.False(t, out.Days[0].Activities[1].BudgetOptimized)
	assert.InDelta(t, 10.0, out.Days[0].TotalCost, 1e-9)
}

func TestApplyCrowdAnnotatesMatchingActivities(t *testing.T) {
	ap := testApplier()

	itin := singleDayItinerary(outdoorActivity("a1", 40), indoorActivity("a2", 12))
	ad := &domain.Adaptation{
		ID:               "ad1",
		Type:             domain.AdaptCrowd,
		Reason:           "extreme crowds reported at Park Güell on 2026-09-01",
		Target:           domain.Target{Location: "Park Güell"},
		RecommendedTimes: "before 09:00",
	}

	out, changed := ap.Apply(itin, ad)
	require.True(t, changed)

	annotated := out.Days[0].Activities[0]
	assert.True(t, annotated.CrowdOptimized)
	assert.Equal(t, "before 09:00", annotated.RecommendedTimes)
	assert.Equal(t, ad.Reason, annotated.CrowdAdvisory)
	assert.False(t, out.Days[0].Activities[1].CrowdOptimized)
}

// Applying the same crowd adaptation twice yields the same tagged-activity
// set: the second application is a guarded no-op once accepted.
func TestApplyCrowdTwiceIsIdempotent(t *testing.T) {
	ap := testApplier()

	itin := singleDayItinerary(outdoorActivity("a1", 40))
	ad := &domain.Adaptation{
		ID:               "ad1",
		Type:             domain.AdaptCrowd,
		Reason:           "high crowds at Park Güell",
		Target:           domain.Target{Location: "Park Güell"},
		RecommendedTimes: "early morning",
	}

	first, changed := ap.Apply(itin, ad)
	require.True(t, changed)
	firstApplied := *ad.AppliedAt

	second, changed := ap.Apply(first, ad)
	assert.False(t, changed)
	assert.Equal(t, first, second)
	assert.Equal(t, firstApplied, *ad.AppliedAt)
}

func TestApplyTimeResortsByProximity(t *testing.T) {
	ap := testApplier()

	near := outdoorActivity("near", 10)
	near.Location.Coords = domain.Coordinates{Lon: 2.0, Lat: 41.0}
	far := indoorActivity("far", 10)
	far.Location.Coords = domain.Coordinates{Lon: 2.5, Lat: 41.5}
	base := outdoorActivity("base", 10)
	base.Location.Coords = domain.Coordinates{Lon: 2.0, Lat: 41.0}
	base.StartTime = domain.TimeOfDay(9 * 60)
	base.EndTime = domain.TimeOfDay(10 * 60)
	base.DurationMinutes = 60

	itin := singleDayItinerary(base, far, near)
	target := day1
	ad := &domain.Adaptation{ID: "ad1", Type: domain.AdaptTime, Target: domain.Target{Date: &target}}

	out, changed := ap.Apply(itin, ad)
	require.True(t, changed)

	ids := activityIDs(out.Days[0].Activities)
	assert.Equal(t, []string{"base", "near", "far"}, ids)

	// Sequential times with the fixed 30-minute buffer.
	acts := out.Days[0].Activities
	for i := 1; i < len(acts); i++ {
		assert.Equal(t, acts[i-1].EndTime.Add(30), acts[i].StartTime)
		assert.Equal(t, acts[i].StartTime.Add(acts[i].DurationMinutes), acts[i].EndTime)
	}
}

func TestApplyUnknownTypeIsNoop(t *testing.T) {
	ap := testApplier()

	itin := singleDayItinerary(outdoorActivity("a1", 40))
	ad := &domain.Adaptation{ID: "ad1", Type: domain.AdaptationType("weird")}

	out, changed := ap.Apply(itin, ad)
	assert.False(t, changed)
	assert.Equal(t, itin, out)
	assert.False(t, ad.Accepted)
}

func activityIDs(activities []domain.Activity) []string {
	ids := make([]string, len(activities))
	for i, a := range activities {
		ids[i] = a.ID
	}
	return ids
}
