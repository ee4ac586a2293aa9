package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"trip-optimizer-service/internal/domain"
	"trip-optimizer-service/internal/platform/obs"
)

// Upper bound on concurrently sequenced days per request.
const maxConcurrentDays = 4

// OptimizeOptions selects which optimization stages run.
type OptimizeOptions struct {
	ApplyAdaptations bool   `json:"apply_adaptations"`
	SequenceRoutes   bool   `json:"sequence_routes"`
	Mode             string `json:"mode,omitempty"` // "budget" forces savings suggestions
}

// ChangeSummary is the consolidated accounting of what optimization changed.
type ChangeSummary struct {
	TotalChanges            int     `json:"total_changes"`
	BudgetSavings           float64 `json:"budget_savings"`
	TimeOptimizationMinutes int     `json:"time_optimization_minutes"`
	ExperienceScore         float64 `json:"experience_score"`
}

// OptimizeResult is everything the caller needs to persist or discard.
type OptimizeResult struct {
	Itinerary   domain.Itinerary        `json:"itinerary"`
	Summary     SituationSummary        `json:"summary"`
	Adaptations []domain.Adaptation     `json:"adaptations"`
	Allocation  domain.BudgetAllocation `json:"allocation"`
	Savings     *domain.SavingsReport   `json:"savings,omitempty"`
	Changes     ChangeSummary           `json:"changes"`
}

// Optimizer composes the engine: analyze, generate adaptations, optionally
// apply them and sequence routes, then reallocate budget. It is the only
// component with cross-cutting knowledge; each request operates on its own
// itinerary copy, so there is no shared mutable state.
type Optimizer struct {
	analyzer  *SituationAnalyzer
	generator *AdaptationGenerator
	applier   *AdaptationApplier
	sequencer *RouteSequencer
	allocator *BudgetAllocator
	log       zerolog.Logger
}

func NewOptimizer(
	analyzer *SituationAnalyzer,
	generator *AdaptationGenerator,
	applier *AdaptationApplier,
	sequencer *RouteSequencer,
	allocator *BudgetAllocator,
	log zerolog.Logger,
) *Optimizer {
	return &Optimizer{
		analyzer:  analyzer,
		generator: generator,
		applier:   applier,
		sequencer: sequencer,
		allocator: allocator,
		log:       log.With().Str("component", "optimizer").Logger(),
	}
}

// Optimize runs the full pipeline. It only returns an error when the
// itinerary is structurally invalid; every collaborator failure downstream
// degrades to a heuristic result. Caller cancellation aborts pending
// collaborator calls and yields the best-effort result computed so far.
func (o *Optimizer) Optimize(ctx context.Context, itin domain.Itinerary, factors domain.RealTimeFactors, opts OptimizeOptions) (_ OptimizeResult, err error) {
	defer obs.Time(ctx, o.log, "optimizer.optimize")(&err)

	if err := itin.Validate(); err != nil {
		return OptimizeResult{}, fmt.Errorf("optimize: %w", err)
	}

	result := OptimizeResult{Itinerary: itin}
	costBefore := itin.TotalCost()

	result.Summary = o.analyzer.Analyze(ctx, itin, factors)
	result.Adaptations = o.generator.Generate(ctx, itin, factors)

	if opts.ApplyAdaptations {
		current := result.Itinerary
		for i := range result.Adaptations {
			next, changed := o.applier.Apply(current, &result.Adaptations[i])
			if changed {
				current = next
				result.Changes.TotalChanges++
			}
		}
		result.Itinerary = current
	}

	if opts.SequenceRoutes {
		result.Itinerary, result.Changes.TimeOptimizationMinutes = o.sequenceAll(ctx, result.Itinerary)
	}

	if saved := costBefore - result.Itinerary.TotalCost(); saved > 0 {
		result.Changes.BudgetSavings = saved
	}

	allocation, err := o.allocator.Allocate(result.Itinerary)
	if err != nil {
		// Unreachable after Validate; logged rather than surfaced.
		o.log.Error().Err(err).Msg("budget allocation failed")
	}
	result.Allocation = allocation

	if opts.Mode == "budget" || result.Itinerary.TotalCost() > result.Itinerary.Budget {
		report := o.allocator.SuggestSavings(ctx, result.Itinerary)
		result.Savings = &report
	}

	result.Changes.ExperienceScore = experienceScore(result.Itinerary, result.Adaptations)

	o.log.Info().
		Int("adaptations", len(result.Adaptations)).
		Int("changes", result.Changes.TotalChanges).
		Float64("budget_savings", result.Changes.BudgetSavings).
		Int("time_saved_min", result.Changes.TimeOptimizationMinutes).
		Msg("optimization complete")

	return result, nil
}

// sequenceAll runs the route sequencer over every day. Days are independent
// and run concurrently; activities within a day stay sequential inside
// SequenceDay. Returns the new itinerary and the total minutes trimmed from
// each day's scheduled span.
func (o *Optimizer) sequenceAll(ctx context.Context, itin domain.Itinerary) (domain.Itinerary, int) {
	if o.sequencer == nil || len(itin.Days) == 0 {
		return itin, 0
	}

	sequenced := make([]domain.Day, len(itin.Days))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentDays)

	for i, day := range itin.Days {
		i, day := i, day
		g.Go(func() error {
			sequenced[i] = o.sequencer.SequenceDay(gctx, day)
			return nil
		})
	}
	// SequenceDay never fails; every collaborator error has a fallback.
	_ = g.Wait()

	saved := 0
	out := itin
	out.Days = sequenced
	for i := range itin.Days {
		saved += max(0, daySpanMinutes(itin.Days[i])-daySpanMinutes(sequenced[i]))
	}
	return out, saved
}

func daySpanMinutes(d domain.Day) int {
	if len(d.Activities) == 0 {
		return 0
	}
	first := d.Activities[0].StartTime
	last := d.Activities[0].EndTime
	for _, a := range d.Activities[1:] {
		if a.StartTime < first {
			first = a.StartTime
		}
		if a.EndTime > last {
			last = a.EndTime
		}
	}
	return int(last - first)
}

// experienceScore grades the optimized trip on a 0-10 scale from average
// activity rating plus a small bonus per positive adaptation applied.
func experienceScore(itin domain.Itinerary, adaptations []domain.Adaptation) float64 {
	var ratingSum float64
	var rated int
	for _, d := range itin.Days {
		for _, a := range d.Activities {
			if a.Rating > 0 {
				ratingSum += a.Rating
				rated++
			}
		}
	}

	score := 6.0
	if rated > 0 {
		score = ratingSum / float64(rated) * 2
	}
	for _, ad := range adaptations {
		if ad.Accepted && ad.Impact == domain.ImpactUpside {
			score += 0.5
		}
	}
	return min(score, 10.0)
}
