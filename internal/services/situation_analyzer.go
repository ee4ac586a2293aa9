package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"trip-optimizer-service/internal/domain"
	"trip-optimizer-service/internal/ports"
)

// RiskLevel grades the overall situation for a trip.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// SituationSummary is the qualitative risk/opportunity picture for an
// itinerary under the current real-time factors.
type SituationSummary struct {
	WeatherImpact        string    `json:"weather_impact"`
	EventOpportunities   string    `json:"event_opportunities"`
	CrowdConcerns        string    `json:"crowd_concerns"`
	TransportationIssues string    `json:"transportation_issues"`
	BudgetOpportunities  string    `json:"budget_opportunities"`
	OverallRisk          RiskLevel `json:"overall_risk"`
	Confidence           float64   `json:"confidence"`
	KeyRecommendations   []string  `json:"key_recommendations"`
}

const summarySchemaHint = `{"weather_impact":"string","event_opportunities":"string","crowd_concerns":"string","transportation_issues":"string","budget_opportunities":"string","overall_risk":"low|medium|high","confidence":0.0,"key_recommendations":["string"]}`

// SituationAnalyzer turns an itinerary plus real-time factors into a
// SituationSummary by delegating to the text-generation collaborator.
// It never fails: any collaborator or parse error degrades to a fixed
// medium-risk summary.
type SituationAnalyzer struct {
	gen      ports.TextGenerator
	cache    ports.AnalysisCache
	cacheTTL time.Duration
	timeout  time.Duration
	log      zerolog.Logger
}

func NewSituationAnalyzer(gen ports.TextGenerator, cache ports.AnalysisCache, cacheTTL, timeout time.Duration, log zerolog.Logger) *SituationAnalyzer {
	return &SituationAnalyzer{
		gen:      gen,
		cache:    cache,
		cacheTTL: cacheTTL,
		timeout:  timeout,
		log:      log.With().Str("component", "situation_analyzer").Logger(),
	}
}

// Analyze summarizes the situation for the itinerary. Cached per input
// content hash; collaborator failures fall back to degradedSummary.
func (a *SituationAnalyzer) Analyze(ctx context.Context, itin domain.Itinerary, factors domain.RealTimeFactors) SituationSummary {
	key := analysisKey(itin, factors)

	if a.cache != nil {
		if payload, ok, err := a.cache.Get(ctx, key); err != nil {
			a.log.Warn().Err(err).Msg("analysis cache read failed")
		} else if ok {
			var cached SituationSummary
			if err := json.Unmarshal(payload, &cached); err == nil {
				return cached
			}
			a.log.Warn().Str("key", key).Msg("discarding unreadable cached summary")
		}
	}

	degraded := false
	summary := Attempt(ctx, "situation analysis", a.timeout, func(ctx context.Context) (SituationSummary, error) {
		return a.complete(ctx, itin, factors)
	}).OrElseFunc(func(serr *ServiceError) SituationSummary {
		a.log.Warn().Err(serr).Msg("falling back to degraded summary")
		degraded = true
		return degradedSummary()
	})

	// Only genuine analyses are cached. A degraded summary is a per-call
	// fallback; caching it would pin a transient failure for the full TTL.
	if a.cache != nil && !degraded {
		if payload, err := json.Marshal(summary); err == nil {
			if err := a.cache.Put(ctx, key, payload, a.cacheTTL); err != nil {
				a.log.Warn().Err(err).Msg("analysis cache write failed")
			}
		}
	}

	return summary
}

func (a *SituationAnalyzer) complete(ctx context.Context, itin domain.Itinerary, factors domain.RealTimeFactors) (SituationSummary, error) {
	raw, err := a.gen.Complete(ctx, buildAnalysisPrompt(itin, factors), summarySchemaHint)
	if err != nil {
		return SituationSummary{}, fmt.Errorf("complete analysis prompt: %w", err)
	}

	var summary SituationSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return SituationSummary{}, fmt.Errorf("parse analysis response: %w", err)
	}

	switch summary.OverallRisk {
	case RiskLow, RiskMedium, RiskHigh:
	default:
		return SituationSummary{}, fmt.Errorf("parse analysis response: unknown risk %q", summary.OverallRisk)
	}
	if summary.Confidence < 0 || summary.Confidence > 1 {
		return SituationSummary{}, fmt.Errorf("parse analysis response: confidence %v out of range", summary.Confidence)
	}

	return summary, nil
}

func degradedSummary() SituationSummary {
	return SituationSummary{
		WeatherImpact:        "unknown",
		EventOpportunities:   "unknown",
		CrowdConcerns:        "unknown",
		TransportationIssues: "unknown",
		BudgetOpportunities:  "unknown",
		OverallRisk:          RiskMedium,
		Confidence:           0.5,
	}
}

func buildAnalysisPrompt(itin domain.Itinerary, factors domain.RealTimeFactors) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Assess risks and opportunities for a %d-day trip to %s with %d traveler(s), style %q, budget %.2f.\n",
		itin.DurationDays, itin.Destination, itin.Travelers, itin.TravelStyle, itin.Budget)
	fmt.Fprintf(&b, "Current spend across planned days: %.2f.\n", itin.TotalCost())

	for _, w := range factors.Weather {
		fmt.Fprintf(&b, "Weather %s: %d%% precipitation, %.1fC", domain.DateKey(w.Date), w.PrecipitationPct, w.TemperatureC)
		if w.Advisory != "" {
			fmt.Fprintf(&b, " (%s)", w.Advisory)
		}
		b.WriteString("\n")
	}
	for _, e := range factors.Events {
		fmt.Fprintf(&b, "Event %s on %s at %s, impact %s.\n", e.Name, domain.DateKey(e.Date), e.Location, e.Impact)
	}
	for _, c := range factors.CrowdDensity {
		fmt.Fprintf(&b, "Crowds at %s on %s: %s.\n", c.Location, domain.DateKey(c.Date), c.Level)
	}
	if factors.Transportation.RoadAdvisory != "" {
		fmt.Fprintf(&b, "Road advisory: %s.\n", factors.Transportation.RoadAdvisory)
	}
	if factors.Transportation.TransitAdvisory != "" {
		fmt.Fprintf(&b, "Transit advisory: %s.\n", factors.Transportation.TransitAdvisory)
	}

	b.WriteString("Reply with JSON only.")
	return b.String()
}

// analysisKey derives a stable content-hash cache key from the inputs.
func analysisKey(itin domain.Itinerary, factors domain.RealTimeFactors) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	_ = enc.Encode(itin)
	_ = enc.Encode(factors)
	return "analysis:" + hex.EncodeToString(h.Sum(nil))
}
