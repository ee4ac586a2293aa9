package services

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"trip-optimizer-service/internal/domain"
	"trip-optimizer-service/internal/ports"
)

// Signal thresholds for adaptation rules.
const (
	heavyRainPctThreshold = 70
	extremeHeatCThreshold = 35.0
	budgetUsageThreshold  = 0.9
)

const alternativesSchemaHint = `[{"name":"string","description":"string","cost":0.0,"original_cost":0.0}]`

// AdaptationGenerator evaluates a deterministic rule set over the itinerary
// and real-time factors and emits scored change proposals. Rules are
// evaluated independently per signal; emission order is fixed
// (weather, event, budget, crowd) so output is testable.
type AdaptationGenerator struct {
	gen     ports.TextGenerator
	timeout time.Duration
	log     zerolog.Logger
	newID   func() string
}

func NewAdaptationGenerator(gen ports.TextGenerator, timeout time.Duration, log zerolog.Logger) *AdaptationGenerator {
	return &AdaptationGenerator{
		gen:     gen,
		timeout: timeout,
		log:     log.With().Str("component", "adaptation_generator").Logger(),
		newID:   uuid.NewString,
	}
}

// Generate emits at most one adaptation per matching weather day, one per
// matching event, at most one budget adaptation, and one per matching crowd
// entry. Alternative discovery fails soft to an empty list.
func (g *AdaptationGenerator) Generate(ctx context.Context, itin domain.Itinerary, factors domain.RealTimeFactors) []domain.Adaptation {
	adaptations := make([]domain.Adaptation, 0, len(factors.Weather)+len(factors.Events)+len(factors.CrowdDensity)+1)

	for _, w := range factors.Weather {
		if w.PrecipitationPct > heavyRainPctThreshold {
			adaptations = append(adaptations, g.heavyRainAdaptation(ctx, itin, w))
		}
		if w.TemperatureC > extremeHeatCThreshold {
			adaptations = append(adaptations, g.extremeHeatAdaptation(w))
		}
	}

	for _, e := range factors.Events {
		switch e.Impact {
		case domain.ImpactPositive:
			adaptations = append(adaptations, g.eventOpportunity(e))
		case domain.ImpactNegative:
			adaptations = append(adaptations, g.eventAvoidance(e))
		}
	}

	if itin.Budget > 0 {
		usage := itin.TotalCost() / itin.Budget
		if usage > budgetUsageThreshold {
			adaptations = append(adaptations, g.budgetOverrun(ctx, itin, usage))
		}
	}

	for _, c := range factors.CrowdDensity {
		if c.Level == domain.CrowdHigh || c.Level == domain.CrowdExtreme {
			adaptations = append(adaptations, g.crowdAvoidance(c))
		}
	}

	return adaptations
}

func (g *AdaptationGenerator) heavyRainAdaptation(ctx context.Context, itin domain.Itinerary, w domain.WeatherForecast) domain.Adaptation {
	date := w.Date
	return domain.Adaptation{
		ID:              g.newID(),
		Type:            domain.AdaptWeather,
		Priority:        domain.PriorityHigh,
		Confidence:      0.9,
		Impact:          domain.ImpactMajor,
		Reason:          fmt.Sprintf("Heavy rain expected on %s (%d%% chance of precipitation)", domain.DateKey(w.Date), w.PrecipitationPct),
		SuggestedChange: "Swap outdoor activities for indoor alternatives",
		Target:          domain.Target{Date: &date},
		Alternatives:    g.indoorAlternatives(ctx, itin.Destination, w.Date),
	}
}

func (g *AdaptationGenerator) extremeHeatAdaptation(w domain.WeatherForecast) domain.Adaptation {
	date := w.Date
	return domain.Adaptation{
		ID:              g.newID(),
		Type:            domain.AdaptWeather,
		Priority:        domain.PriorityMedium,
		Confidence:      0.8,
		Impact:          domain.ImpactModerate,
		Reason:          fmt.Sprintf("Extreme heat expected on %s (%.0fC)", domain.DateKey(w.Date), w.TemperatureC),
		SuggestedChange: "Shift outdoor activities to early morning or evening and plan indoor time at midday",
		Target:          domain.Target{Date: &date},
	}
}

func (g *AdaptationGenerator) eventOpportunity(e domain.LocalEvent) domain.Adaptation {
	event := e
	date := e.Date
	return domain.Adaptation{
		ID:              g.newID(),
		Type:            domain.AdaptEvent,
		Priority:        domain.PriorityMedium,
		Confidence:      0.7,
		Impact:          domain.ImpactUpside,
		Reason:          fmt.Sprintf("%s takes place on %s near %s", e.Name, domain.DateKey(e.Date), e.Location),
		SuggestedChange: fmt.Sprintf("Add an evening visit to %s", e.Name),
		Target:          domain.Target{Date: &date, Location: e.Location},
		Event:           &event,
	}
}

func (g *AdaptationGenerator) eventAvoidance(e domain.LocalEvent) domain.Adaptation {
	date := e.Date
	return domain.Adaptation{
		ID:              g.newID(),
		Type:            domain.AdaptEvent,
		Priority:        domain.PriorityHigh,
		Confidence:      0.8,
		Impact:          domain.ImpactModerate,
		Reason:          fmt.Sprintf("%s on %s will disrupt the area around %s", e.Name, domain.DateKey(e.Date), e.Location),
		SuggestedChange: fmt.Sprintf("Avoid the area around %s and allow extra travel time", e.Location),
		Target:          domain.Target{Date: &date, Location: e.Location},
	}
}

func (g *AdaptationGenerator) budgetOverrun(ctx context.Context, itin domain.Itinerary, usage float64) domain.Adaptation {
	return domain.Adaptation{
		ID:              g.newID(),
		Type:            domain.AdaptBudget,
		Priority:        domain.PriorityHigh,
		Confidence:      0.9,
		Impact:          domain.ImpactMajor,
		Reason:          fmt.Sprintf("Planned spend is at %.0f%% of the trip budget", usage*100),
		SuggestedChange: "Substitute the most expensive activities with cheaper alternatives",
		Alternatives:    g.budgetAlternatives(ctx, itin),
	}
}

func (g *AdaptationGenerator) crowdAvoidance(c domain.CrowdInfo) domain.Adaptation {
	date := c.Date
	return domain.Adaptation{
		ID:               g.newID(),
		Type:             domain.AdaptCrowd,
		Priority:         domain.PriorityMedium,
		Confidence:       0.8,
		Impact:           domain.ImpactModerate,
		Reason:           fmt.Sprintf("%s crowds reported at %s on %s", c.Level, c.Location, domain.DateKey(c.Date)),
		SuggestedChange:  fmt.Sprintf("Visit %s during quieter hours (%s)", c.Location, c.BestTimes),
		Target:           domain.Target{Date: &date, Location: c.Location},
		RecommendedTimes: c.BestTimes,
	}
}

// indoorAlternatives asks the text-generation collaborator for indoor
// replacements near the destination. Failure degrades to no alternatives;
// the adaptation is still emitted as an advisory.
func (g *AdaptationGenerator) indoorAlternatives(ctx context.Context, destination string, date time.Time) []domain.Alternative {
	prompt := fmt.Sprintf("Suggest up to 3 indoor activities in %s suitable for %s. Reply with JSON only.",
		destination, domain.DateKey(date))

	return Attempt(ctx, "find indoor alternatives", g.timeout, func(ctx context.Context) ([]domain.Alternative, error) {
		return g.completeAlternatives(ctx, prompt)
	}).OrElseFunc(func(serr *ServiceError) []domain.Alternative {
		g.log.Warn().Err(serr).Msg("indoor alternative discovery failed")
		return nil
	})
}

// budgetAlternatives asks for cheaper substitutes for the trip's most
// expensive activities. Failure degrades to no alternatives.
func (g *AdaptationGenerator) budgetAlternatives(ctx context.Context, itin domain.Itinerary) []domain.Alternative {
	prompt := fmt.Sprintf("Suggest cheaper alternatives for the most expensive activities of a trip to %s. "+
		"For each, include the original cost band it replaces. Reply with JSON only.", itin.Destination)

	return Attempt(ctx, "find budget alternatives", g.timeout, func(ctx context.Context) ([]domain.Alternative, error) {
		return g.completeAlternatives(ctx, prompt)
	}).OrElseFunc(func(serr *ServiceError) []domain.Alternative {
		g.log.Warn().Err(serr).Msg("budget alternative discovery failed")
		return nil
	})
}

func (g *AdaptationGenerator) completeAlternatives(ctx context.Context, prompt string) ([]domain.Alternative, error) {
	raw, err := g.gen.Complete(ctx, prompt, alternativesSchemaHint)
	if err != nil {
		return nil, fmt.Errorf("complete alternatives prompt: %w", err)
	}

	var alts []domain.Alternative
	if err := json.Unmarshal(raw, &alts); err != nil {
		return nil, fmt.Errorf("parse alternatives response: %w", err)
	}

	valid := alts[:0]
	for _, alt := range alts {
		if alt.Name == "" || alt.Cost < 0 {
			continue
		}
		valid = append(valid, alt)
	}
	return valid, nil
}
