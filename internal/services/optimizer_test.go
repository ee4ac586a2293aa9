package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-optimizer-service/internal/adapters/routing"
	"trip-optimizer-service/internal/adapters/textgen"
	"trip-optimizer-service/internal/domain"
	"trip-optimizer-service/internal/ports"
)

// failingGenerator keeps the whole pipeline on its heuristic fallbacks.
func failingGenerator() *textgen.MockTextGenerator {
	return &textgen.MockTextGenerator{Err: errors.New("upstream down")}
}

func newTestOptimizer(gen *textgen.MockTextGenerator, opt *routing.MockRouteOptimizer, dir *routing.MockDirectionsProvider) *Optimizer {
	log := zerolog.Nop()
	// Pass true nil interfaces when the concrete mocks are nil, so the
	// collaborators' nil-fallback guards still fire.
	var optIface ports.RouteOptimizer
	if opt != nil {
		optIface = opt
	}
	var dirIface ports.DirectionsProvider
	if dir != nil {
		dirIface = dir
	}
	return NewOptimizer(
		NewSituationAnalyzer(gen, nil, time.Minute, testTimeout, log),
		NewAdaptationGenerator(gen, testTimeout, log),
		NewAdaptationApplier(log),
		NewRouteSequencer(optIface, dirIface, testTimeout, log),
		NewBudgetAllocator(gen, testTimeout, log),
		log,
	)
}

func TestOptimizeRejectsInvalidItinerary(t *testing.T) {
	o := newTestOptimizer(failingGenerator(), nil, nil)

	_, err := o.Optimize(context.Background(), domain.Itinerary{}, domain.RealTimeFactors{}, OptimizeOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidItinerary)
}

func TestOptimizeFullPipelineWithDegradedCollaborators(t *testing.T) {
	o := newTestOptimizer(failingGenerator(), nil, nil)

	itin := singleDayItinerary(outdoorActivity("a1", 40), indoorActivity("a2", 12))
	factors := domain.RealTimeFactors{
		Weather: []domain.WeatherForecast{{Date: day1, PrecipitationPct: 90, TemperatureC: 16}},
	}

	result, err := o.Optimize(context.Background(), itin, factors, OptimizeOptions{
		ApplyAdaptations: true,
		SequenceRoutes:   true,
	})
	require.NoError(t, err)

	// Collaborator is down: degraded summary, rule-based adaptation still fires.
	assert.Equal(t, RiskMedium, result.Summary.OverallRisk)
	require.Len(t, result.Adaptations, 1)
	assert.Equal(t, domain.AdaptWeather, result.Adaptations[0].Type)

	// Weather adaptation carries no alternatives when the collaborator fails,
	// so nothing applies; the itinerary survives structurally intact.
	assert.Zero(t, result.Changes.TotalChanges)
	require.Len(t, result.Itinerary.Days, 1)
	assert.Equal(t, []string{"a1", "a2"}, activityIDs(result.Itinerary.Days[0].Activities))

	// Two activities: sequencing rebuilds the transit leg.
	assert.Len(t, result.Itinerary.Days[0].Transportation, 1)

	// Allocation always present, derived from style splits.
	assert.InDelta(t, itin.Budget, result.Allocation.Total, 1e-9)
	assert.InDelta(t, itin.Budget, result.Allocation.Amounts.Sum(), 1e-6)

	// Under budget and no budget mode: no savings report.
	assert.Nil(t, result.Savings)

	// Ratings 4.5 and 4.0 average to 4.25, doubled.
	assert.InDelta(t, 8.5, result.Changes.ExperienceScore, 1e-9)
}

func TestOptimizeAppliesEventAdaptation(t *testing.T) {
	gen := textgen.NewMockTextGenerator(map[string]string{})
	gen.Err = errors.New("no canned doc")
	o := newTestOptimizer(gen, nil, nil)

	itin := singleDayItinerary(outdoorActivity("a1", 40))
	factors := domain.RealTimeFactors{
		Events: []domain.LocalEvent{
			{ID: "e1", Name: "Festa Major", Date: day1, Location: "Gràcia", Impact: domain.ImpactPositive},
		},
	}

	result, err := o.Optimize(context.Background(), itin, factors, OptimizeOptions{ApplyAdaptations: true})
	require.NoError(t, err)

	require.Len(t, result.Adaptations, 1)
	assert.True(t, result.Adaptations[0].Accepted)
	assert.Equal(t, 1, result.Changes.TotalChanges)

	acts := result.Itinerary.Days[0].Activities
	require.Len(t, acts, 2)
	assert.Equal(t, "Festa Major", acts[1].Name)
	assert.True(t, acts[1].EventAdded)

	// Positive accepted adaptation bumps the experience score: 4.5*2 + 0.5.
	assert.InDelta(t, 9.5, result.Changes.ExperienceScore, 1e-9)
}

func TestOptimizeBudgetModeAlwaysSuggestsSavings(t *testing.T) {
	o := newTestOptimizer(failingGenerator(), nil, nil)

	itin := singleDayItinerary(indoorActivity("a2", 12))
	result, err := o.Optimize(context.Background(), itin, domain.RealTimeFactors{}, OptimizeOptions{Mode: "budget"})
	require.NoError(t, err)

	require.NotNil(t, result.Savings)
	// Degraded report: no suggestions, zero savings, cost unchanged.
	assert.Empty(t, result.Savings.Suggestions)
	assert.Zero(t, result.Savings.TotalSavings)
	assert.InDelta(t, result.Savings.CurrentCost, result.Savings.AdjustedCost, 1e-9)
}

func TestOptimizeSuggestsSavingsWhenOverBudget(t *testing.T) {
	o := newTestOptimizer(failingGenerator(), nil, nil)

	itin := singleDayItinerary(outdoorActivity("a1", 900), indoorActivity("a2", 300))
	result, err := o.Optimize(context.Background(), itin, domain.RealTimeFactors{}, OptimizeOptions{})
	require.NoError(t, err)
	assert.NotNil(t, result.Savings)
}

func TestOptimizeSequencesEveryDay(t *testing.T) {
	a := sequencerActivity("a", 2.15, 41.40, 60)
	b := sequencerActivity("b", 2.16, 41.41, 60)
	c := sequencerActivity("c", 2.17, 41.42, 60)
	d := sequencerActivity("d", 2.18, 41.43, 60)

	itin := domain.Itinerary{
		Destination:  "Barcelona",
		DurationDays: 2,
		Budget:       1000,
		Travelers:    2,
		TravelStyle:  domain.StyleComfortable,
		Days: []domain.Day{
			domain.Day{Date: day1}.WithActivities([]domain.Activity{a, b}),
			domain.Day{Date: day2}.WithActivities([]domain.Activity{c, d}),
		},
	}

	o := newTestOptimizer(failingGenerator(), &routing.MockRouteOptimizer{}, nil)
	result, err := o.Optimize(context.Background(), itin, domain.RealTimeFactors{}, OptimizeOptions{SequenceRoutes: true})
	require.NoError(t, err)

	for _, day := range result.Itinerary.Days {
		assert.Len(t, day.Transportation, 1)
	}
}

// Caller cancellation must not surface as an error: pending collaborator
// calls abort and the pipeline still yields a heuristic result.
func TestOptimizeCancelledContextYieldsHeuristicResult(t *testing.T) {
	gen := textgen.NewMockTextGenerator(map[string]string{"": `{"overall_risk":"low","confidence":0.9}`})
	o := newTestOptimizer(gen, &routing.MockRouteOptimizer{Order: []int{0, 1}}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	itin := singleDayItinerary(outdoorActivity("a1", 40), indoorActivity("a2", 12))
	factors := domain.RealTimeFactors{
		Weather: []domain.WeatherForecast{{Date: day1, PrecipitationPct: 90, TemperatureC: 16}},
	}

	result, err := o.Optimize(ctx, itin, factors, OptimizeOptions{
		ApplyAdaptations: true,
		SequenceRoutes:   true,
	})
	require.NoError(t, err)

	// No collaborator was reached; every stage fell back to its heuristic.
	assert.Empty(t, gen.Calls)
	assert.Equal(t, RiskMedium, result.Summary.OverallRisk)
	require.Len(t, result.Adaptations, 1)
	assert.Empty(t, result.Adaptations[0].Alternatives)

	// The result is still structurally complete and valid.
	require.NoError(t, result.Itinerary.Validate())
	assert.Equal(t, []string{"a1", "a2"}, activityIDs(result.Itinerary.Days[0].Activities))
	assert.InDelta(t, itin.Budget, result.Allocation.Amounts.Sum(), 1e-6)
}

func TestExperienceScoreDefaultsWithoutRatings(t *testing.T) {
	itin := singleDayItinerary()
	assert.InDelta(t, 6.0, experienceScore(itin, nil), 1e-9)
}

func TestExperienceScoreCapsAtTen(t *testing.T) {
	a := outdoorActivity("a1", 10)
	a.Rating = 5.0
	itin := singleDayItinerary(a)

	accepted := make([]domain.Adaptation, 4)
	for i := range accepted {
		accepted[i] = domain.Adaptation{Accepted: true, Impact: domain.ImpactUpside}
	}
	assert.InDelta(t, 10.0, experienceScore(itin, accepted), 1e-9)
}
